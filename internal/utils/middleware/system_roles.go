package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/uniedit/returns/internal/model"
	"github.com/uniedit/returns/internal/port/outbound"
)

// RoleResolver decides the role a token holder acts with.
// A holder is admin when the token says so or when the user id or email
// is on the configured admin allow-list; everyone else is a customer.
type RoleResolver struct {
	adminEmails  map[string]struct{}
	adminUserIDs map[uuid.UUID]struct{}
}

func NewRoleResolver(adminEmails, adminUserIDs []string) *RoleResolver {
	return &RoleResolver{
		adminEmails:  normalizeEmailSet(adminEmails),
		adminUserIDs: parseUUIDSet(adminUserIDs),
	}
}

// Resolve returns the caller's role. A nil resolver trusts the token only.
func (r *RoleResolver) Resolve(claims *outbound.JWTClaims) model.Role {
	if claims == nil {
		return model.RoleCustomer
	}
	if model.Role(strings.ToLower(claims.Role)) == model.RoleAdmin {
		return model.RoleAdmin
	}
	if r == nil {
		return model.RoleCustomer
	}
	if _, ok := r.adminUserIDs[claims.UserID]; ok {
		return model.RoleAdmin
	}
	if email := normalizeEmail(claims.Email); email != "" {
		if _, ok := r.adminEmails[email]; ok {
			return model.RoleAdmin
		}
	}
	return model.RoleCustomer
}

// RequireRole aborts unless the authenticated caller acts with one of roles.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserID(c) == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "User not authenticated",
				},
			})
			return
		}

		role := GetRole(c)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Insufficient permissions",
			},
		})
	}
}

func RequireAdmin() gin.HandlerFunc {
	return RequireRole(model.RoleAdmin)
}

func normalizeEmailSet(emails []string) map[string]struct{} {
	out := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		e = normalizeEmail(e)
		if e == "" {
			continue
		}
		out[e] = struct{}{}
	}
	return out
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func parseUUIDSet(ids []string) map[uuid.UUID]struct{} {
	out := make(map[uuid.UUID]struct{}, len(ids))
	for _, s := range ids {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := uuid.Parse(s)
		if err != nil {
			continue
		}
		out[id] = struct{}{}
	}
	return out
}
