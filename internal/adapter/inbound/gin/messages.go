package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uniedit/returns/internal/domain/messaging"
	"github.com/uniedit/returns/internal/model"
	"github.com/uniedit/returns/internal/port/inbound"
	"github.com/uniedit/returns/internal/shared/response"
	"github.com/uniedit/returns/internal/utils/middleware"
)

// SendMessageRequest is the body of POST /returns/:id/messages.
type SendMessageRequest struct {
	Body        string             `json:"body"`
	Attachments []model.Attachment `json:"attachments"`
}

// MarkReadResponse reports how many messages were cleared.
type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}

// messageHandler implements inbound.MessageHttpPort.
type messageHandler struct {
	messagingDomain messaging.MessagingDomain
}

// NewMessageHandler creates a new message HTTP handler.
func NewMessageHandler(messagingDomain messaging.MessagingDomain) inbound.MessageHttpPort {
	return &messageHandler{messagingDomain: messagingDomain}
}

// ListMessages returns the conversation on a return request, oldest first.
//
//	@Summary		List messages
//	@Tags			Messages
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Return request ID"
//	@Success		200	{array}		model.MessageResponse
//	@Failure		403	{object}	errors.ErrorResponse
//	@Router			/returns/{id}/messages [get]
func (h *messageHandler) ListMessages(c *gin.Context) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return
	}
	requestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	views, err := h.messagingDomain.List(c.Request.Context(), requestID, userID)
	if err != nil {
		handleError(c, err)
		return
	}

	out := make([]*model.MessageResponse, len(views))
	for i, v := range views {
		out[i] = v.ToResponse()
	}
	c.JSON(http.StatusOK, out)
}

// SendMessage posts a message on a return request.
//
//	@Summary		Send message
//	@Tags			Messages
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string				true	"Return request ID"
//	@Param			request	body		SendMessageRequest	true	"Message"
//	@Success		201		{object}	model.MessageResponse
//	@Failure		409		{object}	errors.ErrorResponse
//	@Failure		422		{object}	errors.ErrorResponse
//	@Failure		429		{object}	errors.ErrorResponse
//	@Router			/returns/{id}/messages [post]
func (h *messageHandler) SendMessage(c *gin.Context) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return
	}
	requestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	view, err := h.messagingDomain.Send(c.Request.Context(), requestID, userID, &messaging.SendInput{
		Body:        req.Body,
		Attachments: req.Attachments,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view.ToResponse())
}

// MarkRead clears the caller's unread messages on a return request.
//
//	@Summary		Mark messages read
//	@Tags			Messages
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Return request ID"
//	@Success		200	{object}	MarkReadResponse
//	@Router			/returns/{id}/messages/read [post]
func (h *messageHandler) MarkRead(c *gin.Context) {
	if _, ok := GetUserIDFromContext(c); !ok {
		return
	}
	requestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	n, err := h.messagingDomain.MarkRead(c.Request.Context(), requestID, middleware.GetRole(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MarkReadResponse{Updated: n})
}

var _ inbound.MessageHttpPort = (*messageHandler)(nil)
