package returns

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uniedit/returns/internal/model"
	"github.com/uniedit/returns/internal/port/outbound"
	"go.uber.org/zap"
)

// ResolveRefundAmount picks the amount to refund, in cents.
//
// The first present value wins: the amount set on this approval, then an amount
// approved earlier on the same request, then the full order total. The result is
// clamped to [0, orderTotal].
func ResolveRefundAmount(approvalAmount, storedAmount *int64, orderTotal int64) int64 {
	amount := orderTotal
	switch {
	case approvalAmount != nil:
		amount = *approvalAmount
	case storedAmount != nil:
		amount = *storedAmount
	}
	if amount > orderTotal {
		amount = orderTotal
	}
	if amount < 0 {
		amount = 0
	}
	return amount
}

// refundOutcome is what an approval did with money.
type refundOutcome struct {
	Amount   int64
	Currency string
	Full     bool
	Result *outbound.RefundResult // nil when no gateway call was made
}

// orderNote is the audit line appended to the order's admin notes.
func (o *refundOutcome) orderNote(rma string) string {
	kind := "Partial"
	if o.Full {
		kind = "Full"
	}
	return fmt.Sprintf("%s refund of %s via refund %s for return %s",
		kind, model.FormatMinorUnits(o.Amount, o.Currency), o.Result.ID, rma)
}

// issueRefund moves money for an approval. It runs before anything is persisted so
// a gateway failure leaves the request exactly as it was.
func (d *returnsDomain) issueRefund(ctx context.Context, req *model.ReturnRequest, order *model.Order, amount int64) (*refundOutcome, error) {
	outcome := &refundOutcome{
		Amount:   amount,
		Currency: order.Currency,
		Full:     amount == order.TotalAmount,
	}

	if !order.HasPaymentIntent() {
		d.logger.Info("order has no payment intent, approving without refund",
			zap.String("return_request_id", req.ID.String()),
			zap.String("order_id", order.ID.String()),
		)
		return outcome, nil
	}
	if amount == 0 {
		d.logger.Info("approved amount is zero, approving without refund",
			zap.String("return_request_id", req.ID.String()),
		)
		return outcome, nil
	}

	kind := "partial"
	if outcome.Full {
		kind = "full"
	}

	start := time.Now()
	result, err := d.gateway.Refund(ctx, &outbound.RefundRequest{
		Provider:       order.PaymentProvider,
		PaymentRef:     *order.PaymentIntentRef,
		Amount:         amount,
		Full:           outcome.Full,
		Currency:       order.Currency,
		IdempotencyKey: refundIdempotencyKey(req, amount),
		Reason:         string(req.Reason),
		Metadata: map[string]string{
			"return_request_id": req.ID.String(),
			"rma_number":        req.RMANumber,
			"order_id":          order.ID.String(),
		},
	})
	elapsed := time.Since(start)
	if err != nil {
		d.recorder.RecordRefund(string(order.PaymentProvider), refundFailureOutcome(err), kind, elapsed)
		d.logger.Error("refund failed",
			zap.String("return_request_id", req.ID.String()),
			zap.String("order_id", order.ID.String()),
			zap.Int64("amount", amount),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrPaymentGateway, err)
	}

	d.recorder.RecordRefund(string(order.PaymentProvider), "success", kind, elapsed)
	// Gateways report what they refunded; Alipay reports the trade's running total.
	if result.Amount != 0 && result.Amount != amount {
		d.logger.Warn("gateway refunded amount differs from approved amount",
			zap.String("return_request_id", req.ID.String()),
			zap.String("refund_id", result.ID),
			zap.Int64("approved", amount),
			zap.Int64("reported", result.Amount),
		)
	}
	d.logger.Info("refund issued",
		zap.String("return_request_id", req.ID.String()),
		zap.String("refund_id", result.ID),
		zap.Int64("amount", amount),
		zap.Bool("full", outcome.Full),
	)
	outcome.Result = result
	return outcome, nil
}

// refundIdempotencyKey is stable per request and amount. Retrying the same
// approval never refunds twice, while an approval with a corrected amount is
// a new refund to the gateway.
func refundIdempotencyKey(req *model.ReturnRequest, amount int64) string {
	return fmt.Sprintf("return-%s-approve-%d", req.ID, amount)
}

func refundFailureOutcome(err error) string {
	var gwErr *outbound.GatewayError
	if errors.As(err, &gwErr) && gwErr.Retryable {
		return "retryable_error"
	}
	return "fatal_error"
}

// IsRetryableGatewayError reports whether err is a gateway failure worth retrying manually.
func IsRetryableGatewayError(err error) bool {
	var gwErr *outbound.GatewayError
	return errors.As(err, &gwErr) && gwErr.Retryable
}
