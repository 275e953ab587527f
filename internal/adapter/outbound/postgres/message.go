package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/uniedit/returns/internal/model"
	"github.com/uniedit/returns/internal/port/outbound"
	"gorm.io/gorm"
)

// messageAdapter implements outbound.MessageDatabasePort.
type messageAdapter struct {
	db *gorm.DB
}

// NewMessageAdapter creates a new return message database adapter.
func NewMessageAdapter(db *gorm.DB) outbound.MessageDatabasePort {
	return &messageAdapter{db: db}
}

func (a *messageAdapter) Create(ctx context.Context, msg *model.Message) error {
	return conn(ctx, a.db).Create(msg).Error
}

func (a *messageAdapter) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]*model.Message, error) {
	var messages []*model.Message
	err := conn(ctx, a.db).
		Where("return_request_id = ?", requestID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (a *messageAdapter) MarkRead(ctx context.Context, requestID uuid.UUID, sender model.SenderType) (int64, error) {
	result := conn(ctx, a.db).Model(&model.Message{}).
		Where("return_request_id = ? AND sender_type = ? AND is_read = ?", requestID, string(sender), false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (a *messageAdapter) DeleteByRequest(ctx context.Context, requestID uuid.UUID) (int64, error) {
	result := conn(ctx, a.db).
		Where("return_request_id = ?", requestID).
		Delete(&model.Message{})
	return result.RowsAffected, result.Error
}

func (a *messageAdapter) CountUnreadForUser(ctx context.Context, userID uuid.UUID, sender model.SenderType) (int64, error) {
	var count int64
	err := a.unread(ctx, sender).
		Where("r.user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (a *messageAdapter) CountUnreadByRequest(ctx context.Context, sender model.SenderType) ([]model.RequestUnreadCount, error) {
	var rows []model.RequestUnreadCount
	err := a.unread(ctx, sender).
		Select("m.return_request_id, r.rma_number, COUNT(*) AS unread").
		Group("m.return_request_id, r.rma_number").
		Order("unread DESC, r.rma_number ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// unread selects unread messages authored by sender, joined to their request.
func (a *messageAdapter) unread(ctx context.Context, sender model.SenderType) *gorm.DB {
	return conn(ctx, a.db).
		Table("return_messages AS m").
		Joins("JOIN return_requests AS r ON r.id = m.return_request_id").
		Where("m.sender_type = ? AND m.is_read = ?", string(sender), false)
}

// Compile-time check
var _ outbound.MessageDatabasePort = (*messageAdapter)(nil)
