package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/uniedit/returns/internal/utils/requestctx"
)

const (
	// RequestIDHeader carries the correlation id in and out.
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey is the gin context key of the correlation id.
	RequestIDKey = "request_id"

	maxRequestIDLength = 128
)

// RequestID tags every request with a correlation id. A well-formed id sent by
// the client or an upstream proxy is kept, anything else is replaced.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if !validRequestID(requestID) {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(requestctx.WithRequestID(c.Request.Context(), requestID))

		c.Next()
	}
}

// validRequestID accepts short printable ASCII ids so they are safe to log.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

// GetRequestID returns the correlation id set by RequestID.
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
