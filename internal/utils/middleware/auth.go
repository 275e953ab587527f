package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/uniedit/returns/internal/model"
	"github.com/uniedit/returns/internal/port/outbound"
	"github.com/uniedit/returns/internal/utils/requestctx"
)

const (
	AuthorizationHeader = "Authorization"

	// gin context keys set by RequireAuth.
	UserIDKey = "user_id"
	RoleKey   = "role"
)

// RequireAuth rejects requests without a valid bearer token with 401. Accepted
// requests carry the caller's identity, with its role resolved by roles, on
// both the gin context and the request context.
func RequireAuth(validator outbound.TokenValidatorPort, roles *RoleResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader(AuthorizationHeader))
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization header required")
			return
		}

		claims, err := validator.ValidateAccessToken(token)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		identity := &model.Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   roles.Resolve(claims),
		}
		c.Set(UserIDKey, identity.UserID)
		c.Set(RoleKey, identity.Role)
		c.Request = c.Request.WithContext(requestctx.WithIdentity(c.Request.Context(), identity))

		c.Next()
	}
}

// bearerToken parses "Bearer <token>". The scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetUserID returns the authenticated caller, or uuid.Nil.
func GetUserID(c *gin.Context) uuid.UUID {
	if id, ok := c.Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// GetRole returns the authenticated caller's role, or "".
func GetRole(c *gin.Context) model.Role {
	if role, ok := c.Value(RoleKey).(model.Role); ok {
		return role
	}
	return ""
}

func IsAuthenticated(c *gin.Context) bool {
	return GetUserID(c) != uuid.Nil
}
