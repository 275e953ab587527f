package returns

import (
	"errors"
	"fmt"

	"github.com/uniedit/returns/internal/domain/authz"
)

// Error classes. Every specific error below wraps exactly one class.
var (
	ErrValidation     = errors.New("validation error")
	ErrNotFound       = errors.New("not found")
	ErrAccessDenied   = authz.ErrAccessDenied
	ErrNotEligible    = errors.New("not eligible for return")
	ErrInvalidState   = errors.New("invalid state")
	ErrPaymentGateway = errors.New("payment gateway error")
)

// Validation errors.
var (
	ErrEvidenceRequired      = classError(ErrValidation, "at least one evidence attachment is required")
	ErrInvalidEvidence       = classError(ErrValidation, "evidence attachment is invalid")
	ErrDescriptionRequired   = classError(ErrValidation, "description is required")
	ErrNoReturnItems         = classError(ErrValidation, "at least one item with a positive quantity is required")
	ErrInvalidReturnItem     = classError(ErrValidation, "return item does not match the order")
	ErrInvalidReason         = classError(ErrValidation, "unknown return reason")
	ErrUnsupportedReturnType = classError(ErrValidation, "only returns can be requested")
	ErrInvalidStatus         = classError(ErrValidation, "unknown return status")
	ErrInvalidAmount         = classError(ErrValidation, "amount must be a non-negative number")
	ErrAmountNotApplicable   = classError(ErrValidation, "approved_amount can only be set when approving")
)

// Not found errors.
var (
	ErrOrderNotFound         = classError(ErrNotFound, "order not found")
	ErrReturnRequestNotFound = classError(ErrNotFound, "return request not found")
)

// Eligibility errors.
var (
	ErrNotDelivered        = classError(ErrNotEligible, "order must be delivered")
	ErrReturnWindowExpired = classError(ErrNotEligible, "return window expired")
	ErrDuplicateRequest    = classError(ErrNotEligible, "a return request already exists for this order")
)

// State errors.
var (
	ErrInvalidTransition = classError(ErrInvalidState, "status transition not allowed")
	ErrNotPending        = classError(ErrInvalidState, "return request is no longer pending")
)

func classError(class error, msg string) error {
	return fmt.Errorf("%w: %s", class, msg)
}
