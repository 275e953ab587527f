package requestctx

import (
	"context"

	"github.com/uniedit/returns/internal/model"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	identityKey
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if s, ok := ctx.Value(requestIDKey).(string); ok {
		return s
	}
	return ""
}

// WithIdentity attaches the authenticated caller to ctx.
func WithIdentity(ctx context.Context, identity *model.Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, identityKey, identity)
}

// Identity returns the caller attached by WithIdentity, or nil.
func Identity(ctx context.Context) *model.Identity {
	if ctx == nil {
		return nil
	}
	if id, ok := ctx.Value(identityKey).(*model.Identity); ok {
		return id
	}
	return nil
}
