package payment

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/uniedit/returns/internal/model"
	"github.com/uniedit/returns/internal/port/outbound"
	"go.uber.org/zap"
)

// ResilienceConfig bounds every gateway call.
type ResilienceConfig struct {
	Timeout          time.Duration
	FailureThreshold uint32
	MaxHalfOpen      uint32
	Interval         time.Duration
	OpenTimeout      time.Duration
}

// DefaultResilienceConfig returns the default gateway bounds.
func DefaultResilienceConfig() *ResilienceConfig {
	return &ResilienceConfig{
		Timeout:          10 * time.Second,
		FailureThreshold: 5,
		MaxHalfOpen:      1,
		Interval:         60 * time.Second,
		OpenTimeout:      30 * time.Second,
	}
}

// resilientGateway adds a deadline and a circuit breaker around one provider's gateway.
// Only retryable failures count against the breaker; a declined refund says
// nothing about the provider's health.
type resilientGateway struct {
	provider model.PaymentProvider
	next     outbound.RefundGatewayPort
	breaker  *gobreaker.CircuitBreaker[*outbound.RefundResult]
	timeout  time.Duration
}

// NewResilientGateway wraps next with a timeout and circuit breaker.
func NewResilientGateway(provider model.PaymentProvider, next outbound.RefundGatewayPort, cfg *ResilienceConfig, logger *zap.Logger) outbound.RefundGatewayPort {
	if cfg == nil {
		cfg = DefaultResilienceConfig()
	}
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 1
	}

	settings := gobreaker.Settings{
		Name:        string(provider),
		MaxRequests: cfg.MaxHalfOpen,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var gwErr *outbound.GatewayError
			return errors.As(err, &gwErr) && !gwErr.Retryable
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("refund gateway breaker state changed",
				zap.String("provider", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &resilientGateway{
		provider: provider,
		next:     next,
		breaker:  gobreaker.NewCircuitBreaker[*outbound.RefundResult](settings),
		timeout:  cfg.Timeout,
	}
}

func (g *resilientGateway) Refund(ctx context.Context, req *outbound.RefundRequest) (*outbound.RefundResult, error) {
	result, err := g.breaker.Execute(func() (*outbound.RefundResult, error) {
		callCtx := ctx
		if g.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, g.timeout)
			defer cancel()
		}

		res, err := g.next.Refund(callCtx, req)
		if err != nil && callCtx.Err() == context.DeadlineExceeded {
			return nil, &outbound.GatewayError{
				Provider:  g.provider,
				Code:      outbound.GatewayCodeTimeout,
				Retryable: true,
				Err:       err,
			}
		}
		return res, err
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, &outbound.GatewayError{
			Provider:  g.provider,
			Code:      outbound.GatewayCodeCircuitOpen,
			Retryable: true,
			Err:       err,
		}
	}
	return result, err
}

// State reports the breaker state.
func (g *resilientGateway) State() gobreaker.State {
	return g.breaker.State()
}

var _ outbound.RefundGatewayPort = (*resilientGateway)(nil)
