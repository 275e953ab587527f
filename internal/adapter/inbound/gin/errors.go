package gin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uniedit/returns/internal/domain/authz"
	"github.com/uniedit/returns/internal/domain/messaging"
	"github.com/uniedit/returns/internal/domain/returns"
	sharederrors "github.com/uniedit/returns/internal/shared/errors"
	"github.com/uniedit/returns/internal/shared/response"
)

// gatewayRetryAfterSeconds is sent with 503s caused by a retryable gateway failure.
const gatewayRetryAfterSeconds = 30

// specificErrorMappings come first so they win over their class.
var specificErrorMappings = []response.ErrorMapping{
	{Err: authz.ErrUnauthenticated, Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: "Authentication required"},
	{Err: returns.ErrOrderNotFound, Status: http.StatusNotFound, Code: "ORDER_NOT_FOUND", Message: "Order not found"},
	{Err: returns.ErrReturnRequestNotFound, Status: http.StatusNotFound, Code: "RETURN_REQUEST_NOT_FOUND", Message: "Return request not found"},
	{Err: returns.ErrDuplicateRequest, Status: http.StatusConflict, Code: "DUPLICATE_RETURN_REQUEST", Message: "A return request already exists for this order"},
	{Err: returns.ErrNotDelivered, Status: http.StatusUnprocessableEntity, Code: "ORDER_NOT_DELIVERED", Message: "Order must be delivered before it can be returned"},
	{Err: returns.ErrReturnWindowExpired, Status: http.StatusUnprocessableEntity, Code: "RETURN_WINDOW_EXPIRED", Message: "The return window for this order has expired"},
	{Err: returns.ErrNotPending, Status: http.StatusConflict, Code: "NOT_PENDING", Message: "Return request is no longer pending"},
	{Err: returns.ErrInvalidTransition, Status: http.StatusConflict, Code: "INVALID_TRANSITION", Message: "Status transition not allowed"},
	{Err: messaging.ErrRequestClosed, Status: http.StatusConflict, Code: "REQUEST_CLOSED", Message: "Return request is closed for messages"},
}

// classErrorMappings report the error text itself.
var classErrorMappings = []response.ErrorMapping{
	{Err: returns.ErrValidation, Status: http.StatusUnprocessableEntity, Code: "VALIDATION_ERROR"},
	{Err: returns.ErrNotFound, Status: http.StatusNotFound, Code: "NOT_FOUND"},
	{Err: returns.ErrAccessDenied, Status: http.StatusForbidden, Code: "FORBIDDEN"},
	{Err: returns.ErrNotEligible, Status: http.StatusUnprocessableEntity, Code: "NOT_ELIGIBLE"},
	{Err: returns.ErrInvalidState, Status: http.StatusConflict, Code: "INVALID_STATE"},
}

// handleError maps domain errors to HTTP responses.
func handleError(c *gin.Context, err error) {
	if errors.Is(err, returns.ErrPaymentGateway) {
		_ = c.Error(err)
		const msg = "Refund failed at the payment processor; retry the approval manually"
		if returns.IsRetryableGatewayError(err) {
			response.AppError(c, sharederrors.Unavailable("PAYMENT_GATEWAY_ERROR", msg, err), gatewayRetryAfterSeconds)
		} else {
			response.AppError(c, sharederrors.BadGateway("PAYMENT_GATEWAY_ERROR", msg, err), 0)
		}
		return
	}

	if response.HandleError(c, err, specificErrorMappings) {
		return
	}

	for _, m := range classErrorMappings {
		if errors.Is(err, m.Err) {
			response.Error(c, m.Status, m.Code, err.Error())
			return
		}
	}

	_ = c.Error(err)
	response.InternalError(c, "Internal server error")
}
