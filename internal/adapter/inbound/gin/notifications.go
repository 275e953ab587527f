package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uniedit/returns/internal/domain/notification"
	"github.com/uniedit/returns/internal/port/inbound"
)

// UnreadCountResponse is the customer's unread badge.
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

// notificationHandler implements inbound.NotificationHttpPort.
type notificationHandler struct {
	notificationDomain notification.NotificationDomain
}

// NewNotificationHandler creates a new notification HTTP handler.
func NewNotificationHandler(notificationDomain notification.NotificationDomain) inbound.NotificationHttpPort {
	return &notificationHandler{notificationDomain: notificationDomain}
}

// UnreadCount returns how many admin messages the caller has not read.
//
//	@Summary		Unread message count
//	@Tags			Notifications
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	UnreadCountResponse
//	@Router			/notifications/unread-count [get]
func (h *notificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return
	}

	n, err := h.notificationDomain.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, UnreadCountResponse{Unread: n})
}

// AdminUnreadCounts returns unread customer messages per return request.
//
//	@Summary		Unread customer messages
//	@Tags			Notifications
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	model.AdminUnreadSummary
//	@Failure		403	{object}	errors.ErrorResponse
//	@Router			/admin/notifications/unread-counts [get]
func (h *notificationHandler) AdminUnreadCounts(c *gin.Context) {
	if _, ok := GetUserIDFromContext(c); !ok {
		return
	}

	summary, err := h.notificationDomain.UnreadCountsAdmin(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

var _ inbound.NotificationHttpPort = (*notificationHandler)(nil)
