package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uniedit/returns/internal/model"
	"github.com/uniedit/returns/internal/port/outbound"
	"gorm.io/gorm"
)

// orderAdapter implements outbound.OrderDatabasePort.
type orderAdapter struct {
	db *gorm.DB
}

// NewOrderAdapter creates a new order database adapter.
func NewOrderAdapter(db *gorm.DB) outbound.OrderDatabasePort {
	return &orderAdapter{db: db}
}

func (a *orderAdapter) GetByIDWithItems(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := conn(ctx, a.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (a *orderAdapter) MarkRefunded(ctx context.Context, id uuid.UUID, note string) error {
	now := time.Now()
	return a.patch(ctx, id, map[string]interface{}{
		"status":         model.OrderStatusRefunded,
		"payment_status": model.PaymentStatusRefunded,
		"refunded_at":    now,
		"admin_notes":    gorm.Expr("array_append(admin_notes, ?)", note),
		"updated_at":     now,
	})
}

func (a *orderAdapter) AppendAdminNote(ctx context.Context, id uuid.UUID, note string) error {
	return a.patch(ctx, id, map[string]interface{}{
		"admin_notes": gorm.Expr("array_append(admin_notes, ?)", note),
		"updated_at":  time.Now(),
	})
}

func (a *orderAdapter) patch(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := conn(ctx, a.db).Model(&model.Order{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Compile-time check
var _ outbound.OrderDatabasePort = (*orderAdapter)(nil)
