package returns

import (
	"time"

	"github.com/uniedit/returns/internal/model"
)

// DefaultWindowDays is the number of days after delivery a return may be started.
const DefaultWindowDays = 30

// Eligibility is the outcome of CanReturn. Err is the matching sentinel when not allowed.
type Eligibility struct {
	Allowed bool
	Reason  string
	Err     error
}

// EligibilityReport combines the window check with the duplicate-request guard.
type EligibilityReport struct {
	Allowed            bool   `json:"allowed"`
	Reason             string `json:"reason,omitempty"`
	HasExistingRequest bool   `json:"has_existing_request"`
}

// CanReturn decides whether the order may start a return at now.
// Rules are evaluated in order and the first failure wins:
// the order must be delivered, and no more than windowDays whole days may have
// passed since delivery (creation time when delivery was never recorded).
func CanReturn(order *model.Order, now time.Time, windowDays int) Eligibility {
	if order.Status != model.OrderStatusDelivered {
		return Eligibility{Reason: "Order must be delivered.", Err: ErrNotDelivered}
	}
	if daysSince(order.DeliveryReference(), now) > windowDays {
		return Eligibility{Reason: "Return window expired.", Err: ErrReturnWindowExpired}
	}
	return Eligibility{Allowed: true}
}

// daysSince counts whole days elapsed between from and now.
func daysSince(from, now time.Time) int {
	if now.Before(from) {
		return 0
	}
	return int(now.Sub(from) / (24 * time.Hour))
}
