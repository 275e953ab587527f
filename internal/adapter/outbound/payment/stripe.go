package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/refund"
	"github.com/uniedit/returns/internal/model"
	"github.com/uniedit/returns/internal/port/outbound"
)

// StripeConfig holds Stripe configuration.
type StripeConfig struct {
	SecretKey string
	// BackendURL overrides the API base URL. Empty means api.stripe.com.
	BackendURL string
}

// stripeGateway refunds Stripe PaymentIntents.
type stripeGateway struct {
	client *refund.Client
}

// NewStripeGateway creates a Stripe refund gateway.
// The SDK's own retries are disabled; retry decisions belong to the caller.
func NewStripeGateway(cfg *StripeConfig) outbound.RefundGatewayPort {
	backendCfg := &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	}
	if cfg.BackendURL != "" {
		backendCfg.URL = stripe.String(cfg.BackendURL)
	}
	return &stripeGateway{
		client: &refund.Client{
			B:   stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg),
			Key: cfg.SecretKey,
		},
	}
}

func (g *stripeGateway) Refund(ctx context.Context, req *outbound.RefundRequest) (*outbound.RefundResult, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(req.PaymentRef),
		Reason:        stripe.String(string(stripe.RefundReasonRequestedByCustomer)),
	}
	// A full refund is expressed by omitting the amount.
	if !req.Full {
		params.Amount = stripe.Int64(req.Amount)
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	r, err := g.client.New(params)
	if err != nil {
		return nil, classifyStripeError(err)
	}
	if r.Status == stripe.RefundStatusFailed || r.Status == stripe.RefundStatusCanceled {
		return nil, &outbound.GatewayError{
			Provider: model.PaymentProviderStripe,
			Code:     outbound.GatewayCodeDeclined,
			Err:      fmt.Errorf("refund %s ended in status %s", r.ID, r.Status),
		}
	}

	return &outbound.RefundResult{
		ID:       r.ID,
		Provider: model.PaymentProviderStripe,
		Amount:   r.Amount,
		Status:   string(r.Status),
	}, nil
}

// classifyStripeError separates "could not reach Stripe" from "Stripe said no".
func classifyStripeError(err error) error {
	gwErr := &outbound.GatewayError{Provider: model.PaymentProviderStripe, Err: err}

	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		if errors.Is(err, context.DeadlineExceeded) {
			gwErr.Code = outbound.GatewayCodeTimeout
		} else {
			gwErr.Code = outbound.GatewayCodeUnavailable
		}
		gwErr.Retryable = true
		return gwErr
	}

	switch {
	case stripeErr.HTTPStatusCode == http.StatusTooManyRequests:
		gwErr.Code = outbound.GatewayCodeRateLimited
		gwErr.Retryable = true
	case stripeErr.HTTPStatusCode >= http.StatusInternalServerError, stripeErr.Type == stripe.ErrorTypeAPI:
		gwErr.Code = outbound.GatewayCodeUnavailable
		gwErr.Retryable = true
	case stripeErr.Code == stripe.ErrorCodeChargeAlreadyRefunded:
		gwErr.Code = outbound.GatewayCodeAlreadyRefunded
	case stripeErr.Type == stripe.ErrorTypeCard:
		gwErr.Code = outbound.GatewayCodeDeclined
	default:
		gwErr.Code = outbound.GatewayCodeInvalidRequest
	}
	return gwErr
}

var _ outbound.RefundGatewayPort = (*stripeGateway)(nil)
