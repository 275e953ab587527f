package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// corsPreflightMaxAge is how long browsers may cache a preflight answer.
const corsPreflightMaxAge = 12 * time.Hour

// CORS lets the storefront and the admin console call the API from the browser.
// With no origins configured every origin is allowed, without credentials.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", RequestIDHeader, IdempotencyKeyHeader},
		ExposeHeaders: []string{RequestIDHeader, "Retry-After", IdempotencyReplayedHeader},
		MaxAge:        corsPreflightMaxAge,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
