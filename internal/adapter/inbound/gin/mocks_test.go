package gin

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uniedit/returns/internal/domain/messaging"
	"github.com/uniedit/returns/internal/domain/returns"
	"github.com/uniedit/returns/internal/model"
)

type MockReturnsDomain struct {
	mock.Mock
}

func (m *MockReturnsDomain) Create(ctx context.Context, userID uuid.UUID, in *returns.CreateInput) (*model.ReturnRequest, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReturnRequest), args.Error(1)
}

func (m *MockReturnsDomain) Cancel(ctx context.Context, requestID, userID uuid.UUID) (*model.ReturnRequest, error) {
	args := m.Called(ctx, requestID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReturnRequest), args.Error(1)
}

func (m *MockReturnsDomain) Delete(ctx context.Context, requestID, userID uuid.UUID) error {
	return m.Called(ctx, requestID, userID).Error(0)
}

func (m *MockReturnsDomain) ListMine(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*model.ReturnRequest, int64, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.ReturnRequest), args.Get(1).(int64), args.Error(2)
}

func (m *MockReturnsDomain) Get(ctx context.Context, requestID uuid.UUID) (*model.ReturnRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReturnRequest), args.Error(1)
}

func (m *MockReturnsDomain) CheckEligibility(ctx context.Context, orderID uuid.UUID) (*returns.EligibilityReport, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*returns.EligibilityReport), args.Error(1)
}

func (m *MockReturnsDomain) HasExistingRequest(ctx context.Context, orderID uuid.UUID) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReturnsDomain) ListAll(ctx context.Context, filter *model.ReturnRequestFilter, page, pageSize int) ([]*model.ReturnRequest, int64, error) {
	args := m.Called(ctx, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.ReturnRequest), args.Get(1).(int64), args.Error(2)
}

func (m *MockReturnsDomain) Transition(ctx context.Context, requestID uuid.UUID, in *returns.TransitionInput) (*model.ReturnRequest, error) {
	args := m.Called(ctx, requestID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReturnRequest), args.Error(1)
}

type MockMessagingDomain struct {
	mock.Mock
}

func (m *MockMessagingDomain) Send(ctx context.Context, requestID, senderID uuid.UUID, in *messaging.SendInput) (*model.MessageView, error) {
	args := m.Called(ctx, requestID, senderID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MessageView), args.Error(1)
}

func (m *MockMessagingDomain) List(ctx context.Context, requestID, callerID uuid.UUID) ([]*model.MessageView, error) {
	args := m.Called(ctx, requestID, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.MessageView), args.Error(1)
}

func (m *MockMessagingDomain) MarkRead(ctx context.Context, requestID uuid.UUID, readerRole model.Role) (int64, error) {
	args := m.Called(ctx, requestID, readerRole)
	return args.Get(0).(int64), args.Error(1)
}

type MockNotificationDomain struct {
	mock.Mock
}

func (m *MockNotificationDomain) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationDomain) UnreadCountsAdmin(ctx context.Context) (*model.AdminUnreadSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdminUnreadSummary), args.Error(1)
}
