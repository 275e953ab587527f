package identity

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/uniedit/returns/internal/port/outbound"
)

// Config holds token validation settings.
type Config struct {
	Secret string
	// Issuer, when set, must match the token's iss claim.
	Issuer string
}

// Claims is the token payload issued by the identity provider.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// tokenValidator implements outbound.TokenValidatorPort for HMAC-signed tokens.
type tokenValidator struct {
	secret []byte
	parser *jwt.Parser
}

// NewTokenValidator creates a new token validator.
func NewTokenValidator(cfg *Config) (outbound.TokenValidatorPort, error) {
	if cfg == nil || cfg.Secret == "" {
		return nil, errors.New("jwt secret is required")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	return &tokenValidator{
		secret: []byte(cfg.Secret),
		parser: jwt.NewParser(opts...),
	}, nil
}

// ValidateAccessToken validates an access token.
func (v *tokenValidator) ValidateAccessToken(tokenString string) (*outbound.JWTClaims, error) {
	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.New("invalid user ID in token")
	}

	return &outbound.JWTClaims{
		UserID: userID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}

// Compile-time check
var _ outbound.TokenValidatorPort = (*tokenValidator)(nil)
