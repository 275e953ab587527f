package outbound

import (
	"context"
	"fmt"

	"github.com/uniedit/returns/internal/model"
)

// RefundRequest describes a refund to execute against a payment processor.
type RefundRequest struct {
	Provider   model.PaymentProvider
	PaymentRef string // Stripe PaymentIntent id or Alipay trade number
	Amount     int64  // In cents
	// Full asks for a refund of the whole captured amount. Gateways that support
	// an amount-less refund omit Amount; others send it explicitly.
	Full           bool
	Currency       string
	IdempotencyKey string
	Reason         string
	Metadata       map[string]string
}

// RefundResult is the gateway's answer to a successful refund call.
type RefundResult struct {
	ID       string
	Provider model.PaymentProvider
	Amount   int64
	Status   string
}

// RefundGatewayPort executes refunds against an external payment processor.
type RefundGatewayPort interface {
	Refund(ctx context.Context, req *RefundRequest) (*RefundResult, error)
}

// Gateway error codes shared by all refund gateways.
const (
	GatewayCodeTimeout             = "timeout"
	GatewayCodeUnavailable         = "unavailable"
	GatewayCodeCircuitOpen         = "circuit_open"
	GatewayCodeRateLimited         = "rate_limited"
	GatewayCodeDeclined            = "declined"
	GatewayCodeAlreadyRefunded     = "already_refunded"
	GatewayCodeInvalidRequest      = "invalid_request"
	GatewayCodeUnsupportedProvider = "unsupported_provider"
)

// GatewayError is a failed refund call.
// Retryable errors mean the processor could not be reached or did not answer in time;
// non-retryable errors mean the processor rejected the refund.
type GatewayError struct {
	Provider  model.PaymentProvider
	Code      string
	Retryable bool
	Err       error
}

// Error implements the error interface.
func (e *GatewayError) Error() string {
	kind := "fatal"
	if e.Retryable {
		kind = "retryable"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s gateway %s error (%s): %v", e.Provider, kind, e.Code, e.Err)
	}
	return fmt.Sprintf("%s gateway %s error (%s)", e.Provider, kind, e.Code)
}

// Unwrap returns the wrapped error.
func (e *GatewayError) Unwrap() error {
	return e.Err
}
