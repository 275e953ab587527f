package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-pay/gopay"
	"github.com/go-pay/gopay/alipay"
	"github.com/shopspring/decimal"
	"github.com/uniedit/returns/internal/model"
	"github.com/uniedit/returns/internal/port/outbound"
)

// AlipayConfig holds Alipay configuration.
type AlipayConfig struct {
	AppID           string
	PrivateKey      string
	AlipayPublicKey string
	IsProd          bool
}

// alipayRefunder is the part of *alipay.Client the gateway uses.
type alipayRefunder interface {
	TradeRefund(ctx context.Context, bm gopay.BodyMap) (*alipay.TradeRefundResponse, error)
}

// alipayGateway refunds Alipay trades.
type alipayGateway struct {
	client alipayRefunder
}

// NewAlipayGateway creates an Alipay refund gateway.
func NewAlipayGateway(cfg *AlipayConfig) (outbound.RefundGatewayPort, error) {
	client, err := alipay.NewClient(cfg.AppID, cfg.PrivateKey, cfg.IsProd)
	if err != nil {
		return nil, fmt.Errorf("create alipay client: %w", err)
	}
	if cfg.AlipayPublicKey != "" {
		client.AutoVerifySign([]byte(cfg.AlipayPublicKey))
	}
	return &alipayGateway{client: client}, nil
}

// Alipay has no amount-less refund, so Full is ignored and Amount is always sent.
func (g *alipayGateway) Refund(ctx context.Context, req *outbound.RefundRequest) (*outbound.RefundResult, error) {
	bm := make(gopay.BodyMap)
	bm.Set("trade_no", req.PaymentRef)
	// out_request_no makes repeated calls for the same refund idempotent.
	bm.Set("out_request_no", req.IdempotencyKey)
	bm.Set("refund_amount", model.FromMinorUnits(req.Amount).StringFixed(2))
	if req.Reason != "" {
		bm.Set("refund_reason", req.Reason)
	}

	resp, err := g.client.TradeRefund(ctx, bm)
	if err != nil {
		return nil, classifyAlipayError(err)
	}
	if resp == nil || resp.Response == nil {
		return nil, &outbound.GatewayError{
			Provider:  model.PaymentProviderAlipay,
			Code:      outbound.GatewayCodeUnavailable,
			Retryable: true,
			Err:       errors.New("empty refund response"),
		}
	}
	if resp.Response.Code != "10000" {
		return nil, classifyAlipayError(&alipay.BizErr{
			Code:    resp.Response.Code,
			Msg:     resp.Response.Msg,
			SubCode: resp.Response.SubCode,
			SubMsg:  resp.Response.SubMsg,
		})
	}

	// refund_fee is the trade's cumulative refunded total.
	amount := req.Amount
	if fee, err := decimal.NewFromString(resp.Response.RefundFee); err == nil {
		if cents, err := model.ToMinorUnits(fee); err == nil {
			amount = cents
		}
	}

	return &outbound.RefundResult{
		ID:       req.IdempotencyKey,
		Provider: model.PaymentProviderAlipay,
		Amount:   amount,
		Status:   "succeeded",
	}, nil
}

// alipayUnavailableCode is the gateway-level "service unavailable" answer.
const alipayUnavailableCode = "20000"

func classifyAlipayError(err error) error {
	gwErr := &outbound.GatewayError{Provider: model.PaymentProviderAlipay, Err: err}

	bizErr, _ := alipay.IsBizError(err)
	if bizErr == nil {
		if errors.Is(err, context.DeadlineExceeded) {
			gwErr.Code = outbound.GatewayCodeTimeout
		} else {
			gwErr.Code = outbound.GatewayCodeUnavailable
		}
		gwErr.Retryable = true
		return gwErr
	}

	switch {
	case bizErr.Code == alipayUnavailableCode, bizErr.SubCode == "ACQ.SYSTEM_ERROR":
		gwErr.Code = outbound.GatewayCodeUnavailable
		gwErr.Retryable = true
	case bizErr.SubCode == "ACQ.TRADE_HAS_FINISHED", bizErr.SubCode == "ACQ.REFUND_AMT_NOT_EQUAL_TOTAL":
		gwErr.Code = outbound.GatewayCodeAlreadyRefunded
	case bizErr.SubCode == "ACQ.INVALID_PARAMETER", bizErr.SubCode == "ACQ.TRADE_NOT_EXIST":
		gwErr.Code = outbound.GatewayCodeInvalidRequest
	default:
		gwErr.Code = outbound.GatewayCodeDeclined
	}
	return gwErr
}

var _ outbound.RefundGatewayPort = (*alipayGateway)(nil)
