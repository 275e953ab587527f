package messaging

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uniedit/returns/internal/model"
)

// --- Mock implementations ---

type MockReturnRequestDB struct {
	mock.Mock
}

func (m *MockReturnRequestDB) Create(ctx context.Context, req *model.ReturnRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockReturnRequestDB) GetByID(ctx context.Context, id uuid.UUID) (*model.ReturnRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReturnRequest), args.Error(1)
}

func (m *MockReturnRequestDB) ExistsForOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReturnRequestDB) List(ctx context.Context, filter *model.ReturnRequestFilter, page, pageSize int) ([]*model.ReturnRequest, int64, error) {
	args := m.Called(ctx, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.ReturnRequest), args.Get(1).(int64), args.Error(2)
}

func (m *MockReturnRequestDB) UpdateIfStatus(ctx context.Context, req *model.ReturnRequest, expected model.ReturnStatus) (bool, error) {
	args := m.Called(ctx, req, expected)
	return args.Bool(0), args.Error(1)
}

func (m *MockReturnRequestDB) DeleteIfStatus(ctx context.Context, id uuid.UUID, expected model.ReturnStatus) (bool, error) {
	args := m.Called(ctx, id, expected)
	return args.Bool(0), args.Error(1)
}

type MockMessageDB struct {
	mock.Mock
}

func (m *MockMessageDB) Create(ctx context.Context, msg *model.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageDB) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]*model.Message, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Message), args.Error(1)
}

func (m *MockMessageDB) MarkRead(ctx context.Context, requestID uuid.UUID, sender model.SenderType) (int64, error) {
	args := m.Called(ctx, requestID, sender)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageDB) DeleteByRequest(ctx context.Context, requestID uuid.UUID) (int64, error) {
	args := m.Called(ctx, requestID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageDB) CountUnreadForUser(ctx context.Context, userID uuid.UUID, sender model.SenderType) (int64, error) {
	args := m.Called(ctx, userID, sender)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageDB) CountUnreadByRequest(ctx context.Context, sender model.SenderType) ([]model.RequestUnreadCount, error) {
	args := m.Called(ctx, sender)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RequestUnreadCount), args.Error(1)
}

type MockUnreadCache struct {
	mock.Mock
}

func (m *MockUnreadCache) GetUserUnread(ctx context.Context, userID uuid.UUID) (int64, int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockUnreadCache) SetUserUnread(ctx context.Context, userID uuid.UUID, count, version int64) (bool, error) {
	args := m.Called(ctx, userID, count, version)
	return args.Bool(0), args.Error(1)
}

func (m *MockUnreadCache) InvalidateUserUnread(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
