package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/uniedit/returns/internal/model"
	"github.com/uniedit/returns/internal/port/outbound"
	"github.com/uniedit/returns/internal/utils/pagination"
	"gorm.io/gorm"
)

// returnRequestAdapter implements outbound.ReturnRequestDatabasePort.
type returnRequestAdapter struct {
	db *gorm.DB
}

// NewReturnRequestAdapter creates a new return request database adapter.
func NewReturnRequestAdapter(db *gorm.DB) outbound.ReturnRequestDatabasePort {
	return &returnRequestAdapter{db: db}
}

func (a *returnRequestAdapter) Create(ctx context.Context, req *model.ReturnRequest) error {
	err := conn(ctx, a.db).Create(req).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return outbound.ErrDuplicate
	}
	return err
}

func (a *returnRequestAdapter) GetByID(ctx context.Context, id uuid.UUID) (*model.ReturnRequest, error) {
	var req model.ReturnRequest
	err := conn(ctx, a.db).First(&req, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (a *returnRequestAdapter) ExistsForOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var count int64
	err := conn(ctx, a.db).Model(&model.ReturnRequest{}).
		Where("order_id = ?", orderID).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (a *returnRequestAdapter) List(ctx context.Context, filter *model.ReturnRequestFilter, page, pageSize int) ([]*model.ReturnRequest, int64, error) {
	var requests []*model.ReturnRequest
	var total int64

	query := conn(ctx, a.db).Model(&model.ReturnRequest{})

	// Apply filters
	if filter != nil {
		if filter.UserID != nil {
			query = query.Where("user_id = ?", *filter.UserID)
		}
		if filter.Status != nil {
			query = query.Where("status = ?", string(*filter.Status))
		}
	}

	// Count total
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page > 0 && pageSize > 0 {
		query = query.Scopes(pagination.Pagination{Page: page, PageSize: pageSize}.Scope())
	}

	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (a *returnRequestAdapter) UpdateIfStatus(ctx context.Context, req *model.ReturnRequest, expected model.ReturnStatus) (bool, error) {
	result := conn(ctx, a.db).Model(req).
		Where("status = ?", string(expected)).
		Select("*").
		Omit("ID", "CreatedAt").
		Updates(req)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (a *returnRequestAdapter) DeleteIfStatus(ctx context.Context, id uuid.UUID, expected model.ReturnStatus) (bool, error) {
	result := conn(ctx, a.db).
		Where("id = ? AND status = ?", id, string(expected)).
		Delete(&model.ReturnRequest{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Compile-time check
var _ outbound.ReturnRequestDatabasePort = (*returnRequestAdapter)(nil)
