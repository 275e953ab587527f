package response

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	sharederrors "github.com/uniedit/returns/internal/shared/errors"
)

// Error sends {"error": {"code", "message"}} with the given status code.
func Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, sharederrors.ErrorResponse{
		Error: sharederrors.ErrorDetail{Code: code, Message: message},
	})
}

// BadRequest sends a 400 Bad Request response.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// Unauthorized sends a 401 Unauthorized response.
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "unauthorized"
	}
	Error(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

// InternalError sends a 500 Internal Server Error response.
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "internal error"
	}
	Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", message)
}

// AppError renders an *AppError, honouring Retry-After for 503s.
func AppError(c *gin.Context, err *sharederrors.AppError, retryAfterSeconds int) {
	if err.StatusCode == http.StatusServiceUnavailable && retryAfterSeconds > 0 {
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
	}
	c.JSON(err.StatusCode, err.ToResponse())
}

// ErrorMapping maps domain errors to HTTP status codes.
type ErrorMapping struct {
	Err     error
	Status  int
	Code    string
	Message string
}

// HandleError handles an error using the provided mappings.
// The first matching mapping wins, so specific errors go before their class.
// Returns true if the error was handled, false otherwise.
func HandleError(c *gin.Context, err error, mappings []ErrorMapping) bool {
	for _, m := range mappings {
		if errors.Is(err, m.Err) {
			msg := m.Message
			if msg == "" {
				msg = m.Err.Error()
			}
			Error(c, m.Status, m.Code, msg)
			return true
		}
	}
	return false
}
