// Package messaging is the conversation between a customer and the admins
// about one return request.
package messaging

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/uniedit/returns/internal/domain/attachment"
	"github.com/uniedit/returns/internal/domain/authz"
	"github.com/uniedit/returns/internal/domain/returns"
	"github.com/uniedit/returns/internal/model"
	"github.com/uniedit/returns/internal/port/outbound"
	"go.uber.org/zap"
)

// MaxBodyLength is the longest accepted message body, in characters.
const MaxBodyLength = 5000

// MessagingDomain defines the interface for return request messaging.
type MessagingDomain interface {
	Send(ctx context.Context, requestID, senderID uuid.UUID, in *SendInput) (*model.MessageView, error)
	List(ctx context.Context, requestID, callerID uuid.UUID) ([]*model.MessageView, error)
	MarkRead(ctx context.Context, requestID uuid.UUID, readerRole model.Role) (int64, error)
}

// SendInput is the content of a new message.
type SendInput struct {
	Body        string
	Attachments []model.Attachment
}

// Recorder receives messaging measurements.
type Recorder interface {
	RecordMessageSent(senderType string)
}

type nopRecorder struct{}

func (nopRecorder) RecordMessageSent(string) {}

type messagingDomain struct {
	returnDB  outbound.ReturnRequestDatabasePort
	messageDB outbound.MessageDatabasePort
	resolver  attachment.Resolver
	unread    outbound.UnreadCountCachePort
	authz     authz.Authorizer
	recorder  Recorder
	now       func() time.Time
	logger    *zap.Logger
}

// NewMessagingDomain creates a new messaging domain service.
// unread and recorder may be nil.
func NewMessagingDomain(
	returnDB outbound.ReturnRequestDatabasePort,
	messageDB outbound.MessageDatabasePort,
	resolver attachment.Resolver,
	unread outbound.UnreadCountCachePort,
	authorizer authz.Authorizer,
	recorder Recorder,
	logger *zap.Logger,
) MessagingDomain {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &messagingDomain{
		returnDB:  returnDB,
		messageDB: messageDB,
		resolver:  resolver,
		unread:    unread,
		authz:     authorizer,
		recorder:  recorder,
		now:       time.Now,
		logger:    logger,
	}
}

func (d *messagingDomain) Send(ctx context.Context, requestID, senderID uuid.UUID, in *SendInput) (*model.MessageView, error) {
	sender, err := d.authz.RequireSelf(ctx, senderID)
	if err != nil {
		return nil, err
	}
	body, err := validateSendInput(in)
	if err != nil {
		return nil, err
	}

	req, err := d.loadVisibleRequest(ctx, requestID, sender)
	if err != nil {
		return nil, err
	}
	if req.Status.IsTerminal() {
		return nil, ErrRequestClosed
	}

	senderType := model.SenderTypeForRole(sender.Role)
	msgType := model.MessageTypeText
	if senderType == model.SenderAdmin {
		msgType = model.MessageTypeAdminResponse
	}

	msg := &model.Message{
		ID:              uuid.New(),
		ReturnRequestID: req.ID,
		SenderID:        sender.UserID,
		SenderType:      senderType,
		Body:            body,
		MessageType:     msgType,
		IsRead:          false,
		Attachments:     in.Attachments,
		CreatedAt:       d.now(),
	}
	if err := d.messageDB.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	if senderType == model.SenderAdmin {
		d.invalidateUnread(ctx, req.UserID)
	}
	d.recorder.RecordMessageSent(string(senderType))
	d.logger.Debug("message sent",
		zap.String("return_request_id", req.ID.String()),
		zap.String("message_id", msg.ID.String()),
		zap.String("sender_type", string(senderType)),
	)

	return &model.MessageView{
		Message:     msg,
		Attachments: d.resolver.Resolve(ctx, msg.Attachments),
	}, nil
}

func validateSendInput(in *SendInput) (string, error) {
	if in == nil {
		return "", ErrEmptyMessage
	}
	body := strings.TrimSpace(in.Body)
	if body == "" && len(in.Attachments) == 0 {
		return "", ErrEmptyMessage
	}
	if utf8.RuneCountInString(body) > MaxBodyLength {
		return "", ErrMessageTooLong
	}
	for _, a := range in.Attachments {
		if !a.IsValid() {
			return "", ErrInvalidAttachment
		}
	}
	return body, nil
}

func (d *messagingDomain) List(ctx context.Context, requestID, callerID uuid.UUID) ([]*model.MessageView, error) {
	caller, err := d.authz.RequireSelf(ctx, callerID)
	if err != nil {
		return nil, err
	}
	req, err := d.loadVisibleRequest(ctx, requestID, caller)
	if err != nil {
		return nil, err
	}

	messages, err := d.messageDB.ListByRequest(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	views := make([]*model.MessageView, len(messages))
	for i, m := range messages {
		views[i] = &model.MessageView{
			Message:     m,
			Attachments: d.resolver.Resolve(ctx, m.Attachments),
		}
	}
	return views, nil
}

// MarkRead clears the reader's unread messages on the request, which are the
// ones authored by the other party. Calling it again is a no-op.
func (d *messagingDomain) MarkRead(ctx context.Context, requestID uuid.UUID, readerRole model.Role) (int64, error) {
	caller, err := d.authz.Identity(ctx)
	if err != nil {
		return 0, err
	}
	if caller.Role != readerRole {
		return 0, ErrRoleMismatch
	}
	req, err := d.loadVisibleRequest(ctx, requestID, caller)
	if err != nil {
		return 0, err
	}

	author := model.SenderTypeForRole(readerRole).Counterpart()
	n, err := d.messageDB.MarkRead(ctx, req.ID, author)
	if err != nil {
		return 0, fmt.Errorf("mark messages read: %w", err)
	}

	if n > 0 && author == model.SenderAdmin {
		d.invalidateUnread(ctx, req.UserID)
	}
	return n, nil
}

// loadVisibleRequest loads the request and checks the caller may see its conversation.
func (d *messagingDomain) loadVisibleRequest(ctx context.Context, requestID uuid.UUID, caller *model.Identity) (*model.ReturnRequest, error) {
	req, err := d.returnDB.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("get return request: %w", err)
	}
	if req == nil {
		return nil, returns.ErrReturnRequestNotFound
	}
	if !caller.IsAdmin() && req.UserID != caller.UserID {
		return nil, fmt.Errorf("%w: not the owner", returns.ErrAccessDenied)
	}
	return req, nil
}

func (d *messagingDomain) invalidateUnread(ctx context.Context, userID uuid.UUID) {
	if d.unread == nil {
		return
	}
	if err := d.unread.InvalidateUserUnread(ctx, userID); err != nil {
		d.logger.Warn("failed to invalidate unread count", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

var _ MessagingDomain = (*messagingDomain)(nil)
