package outbound

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTClaims represents the identity carried by a bearer token.
type JWTClaims struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

// TokenValidatorPort validates bearer tokens issued by the identity provider.
type TokenValidatorPort interface {
	ValidateAccessToken(token string) (*JWTClaims, error)
}

// RateLimiterPort defines rate limiting operations.
type RateLimiterPort interface {
	// Allow checks if a request is allowed within rate limits.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// GetRemaining returns remaining requests in window.
	GetRemaining(ctx context.Context, key string, limit int, window time.Duration) (int, error)
}
