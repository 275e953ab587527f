package payment

import (
	"context"
	"fmt"

	"github.com/uniedit/returns/internal/model"
	"github.com/uniedit/returns/internal/port/outbound"
)

// Router dispatches refunds to the gateway of the order's payment provider.
type Router struct {
	gateways map[model.PaymentProvider]outbound.RefundGatewayPort
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{gateways: make(map[model.PaymentProvider]outbound.RefundGatewayPort)}
}

// Register sets the gateway for a provider.
func (r *Router) Register(provider model.PaymentProvider, gateway outbound.RefundGatewayPort) {
	r.gateways[provider] = gateway
}

// Providers returns the registered providers.
func (r *Router) Providers() []model.PaymentProvider {
	out := make([]model.PaymentProvider, 0, len(r.gateways))
	for p := range r.gateways {
		out = append(out, p)
	}
	return out
}

// Refund implements outbound.RefundGatewayPort.
func (r *Router) Refund(ctx context.Context, req *outbound.RefundRequest) (*outbound.RefundResult, error) {
	provider := req.Provider
	if provider == "" {
		provider = model.PaymentProviderStripe
	}
	gateway, ok := r.gateways[provider]
	if !ok {
		return nil, &outbound.GatewayError{
			Provider: provider,
			Code:     outbound.GatewayCodeUnsupportedProvider,
			Err:      fmt.Errorf("no refund gateway configured for %q", provider),
		}
	}
	return gateway.Refund(ctx, req)
}

var _ outbound.RefundGatewayPort = (*Router)(nil)
