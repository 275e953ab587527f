package returns

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/uniedit/returns/internal/model"
	"github.com/uniedit/returns/internal/port/outbound"
)

func ptr(v int64) *int64 { return &v }

func TestResolveRefundAmount(t *testing.T) {
	const total = int64(20000)

	t.Run("approval amount wins over stored amount", func(t *testing.T) {
		assert.Equal(t, int64(5000), ResolveRefundAmount(ptr(5000), ptr(7000), total))
	})

	t.Run("stored amount used when approval omits it", func(t *testing.T) {
		assert.Equal(t, int64(7000), ResolveRefundAmount(nil, ptr(7000), total))
	})

	t.Run("order total used when neither is set", func(t *testing.T) {
		assert.Equal(t, total, ResolveRefundAmount(nil, nil, total))
	})

	t.Run("clamped to order total", func(t *testing.T) {
		assert.Equal(t, total, ResolveRefundAmount(ptr(25000), nil, total))
		assert.Equal(t, total, ResolveRefundAmount(nil, ptr(30000), total))
	})

	t.Run("clamped at zero", func(t *testing.T) {
		assert.Equal(t, int64(0), ResolveRefundAmount(ptr(-100), nil, total))
	})

	t.Run("explicit zero is kept", func(t *testing.T) {
		assert.Equal(t, int64(0), ResolveRefundAmount(ptr(0), ptr(7000), total))
	})
}

func TestRefundOutcome_OrderNote(t *testing.T) {
	t.Run("full refund", func(t *testing.T) {
		full := &refundOutcome{Amount: 20000, Currency: "usd", Full: true, Result: &outbound.RefundResult{ID: "re_1"}}
		assert.Equal(t, "Full refund of $200.00 via refund re_1 for return RMA-1-AAAAAA", full.orderNote("RMA-1-AAAAAA"))
	})

	t.Run("partial refund", func(t *testing.T) {
		partial := &refundOutcome{Amount: 5000, Currency: "usd", Result: &outbound.RefundResult{ID: "re_2"}}
		assert.Equal(t, "Partial refund of $50.00 via refund re_2 for return RMA-1-AAAAAA", partial.orderNote("RMA-1-AAAAAA"))
	})

	t.Run("uses the order currency", func(t *testing.T) {
		cny := &refundOutcome{Amount: 5000, Currency: "cny", Result: &outbound.RefundResult{ID: "2026101722001"}}
		assert.Equal(t, "Partial refund of ¥50.00 via refund 2026101722001 for return RMA-1-AAAAAA", cny.orderNote("RMA-1-AAAAAA"))

		hkd := &refundOutcome{Amount: 5000, Currency: "hkd", Result: &outbound.RefundResult{ID: "re_3"}}
		assert.Equal(t, "Partial refund of 50.00 HKD via refund re_3 for return RMA-1-AAAAAA", hkd.orderNote("RMA-1-AAAAAA"))
	})
}

func TestRefundIdempotencyKey(t *testing.T) {
	req := &model.ReturnRequest{ID: uuid.New()}

	t.Run("includes the amount", func(t *testing.T) {
		assert.Equal(t, "return-"+req.ID.String()+"-approve-5000", refundIdempotencyKey(req, 5000))
	})

	t.Run("different amounts never share a key", func(t *testing.T) {
		assert.NotEqual(t, refundIdempotencyKey(req, 5000), refundIdempotencyKey(req, 20000))
		assert.Equal(t, refundIdempotencyKey(req, 5000), refundIdempotencyKey(req, 5000))
	})
}

func TestRefundFailureOutcome(t *testing.T) {
	retryable := &outbound.GatewayError{Code: outbound.GatewayCodeUnavailable, Retryable: true}
	fatal := &outbound.GatewayError{Code: outbound.GatewayCodeDeclined}

	assert.Equal(t, "retryable_error", refundFailureOutcome(retryable))
	assert.Equal(t, "fatal_error", refundFailureOutcome(fatal))
	assert.Equal(t, "fatal_error", refundFailureOutcome(errors.New("boom")))
	assert.False(t, IsRetryableGatewayError(fatal))
}
