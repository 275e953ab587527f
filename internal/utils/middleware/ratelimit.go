package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/uniedit/returns/internal/port/outbound"
	"go.uber.org/zap"
)

const (
	RateLimitLimit     = "X-RateLimit-Limit"
	RateLimitRemaining = "X-RateLimit-Remaining"
	RateLimitReset     = "X-RateLimit-Reset"
	RetryAfter         = "Retry-After"
)

// RateLimitPerUserRoute allows each caller limit requests per window on the
// route it is mounted on. Callers are keyed by user id, or by client IP before
// authentication. When the limiter errors the request is let through.
func RateLimitPerUserRoute(limiter outbound.RateLimiterPort, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		key := rateLimitKey(c)
		ctx := c.Request.Context()

		allowed, err := limiter.Allow(ctx, key, limit, window)
		if err != nil {
			logger.Warn("rate limiter unavailable, allowing request",
				zap.String("key", key),
				zap.Error(err),
			)
			c.Next()
			return
		}

		remaining, _ := limiter.GetRemaining(ctx, key, limit, window)
		c.Header(RateLimitLimit, strconv.Itoa(limit))
		c.Header(RateLimitRemaining, strconv.Itoa(remaining))
		c.Header(RateLimitReset, strconv.FormatInt(time.Now().Add(window).Unix(), 10))

		if !allowed {
			c.Header(RetryAfter, strconv.Itoa(int(window.Seconds())))
			abortWithError(c, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Too many requests, please try again later")
			return
		}

		c.Next()
	}
}

func rateLimitKey(c *gin.Context) string {
	who := "ip:" + c.ClientIP()
	if IsAuthenticated(c) {
		who = "user:" + GetUserID(c).String()
	}
	return "route:" + c.Request.Method + ":" + c.FullPath() + ":" + who
}
