package returns

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uniedit/returns/internal/domain/authz"
	"github.com/uniedit/returns/internal/model"
	"github.com/uniedit/returns/internal/port/outbound"
	"github.com/uniedit/returns/internal/utils/requestctx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	returnDB  *MockReturnRequestDB
	orderDB   *MockOrderDB
	messageDB *MockMessageDB
	gateway   *MockGateway
	unread    *MockUnreadCache
	tx        *inlineTx
	recorder  *fakeRecorder
	logs      *observer.ObservedLogs
	domain    ReturnsDomain
}

func newFixture() *fixture {
	f := &fixture{
		returnDB:  new(MockReturnRequestDB),
		orderDB:   new(MockOrderDB),
		messageDB: new(MockMessageDB),
		gateway:   new(MockGateway),
		unread:    new(MockUnreadCache),
		tx:        &inlineTx{},
		recorder:  &fakeRecorder{},
	}
	core, logs := observer.New(zapcore.WarnLevel)
	f.logs = logs
	f.domain = NewReturnsDomain(
		f.returnDB, f.orderDB, f.messageDB, f.tx, f.gateway, f.unread,
		authz.New(), f.recorder,
		&Config{WindowDays: DefaultWindowDays, Now: func() time.Time { return testNow }},
		zap.New(core),
	)
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.returnDB.AssertExpectations(t)
	f.orderDB.AssertExpectations(t)
	f.messageDB.AssertExpectations(t)
	f.gateway.AssertExpectations(t)
	f.unread.AssertExpectations(t)
}

func customerCtx(userID uuid.UUID) context.Context {
	return requestctx.WithIdentity(context.Background(), &model.Identity{UserID: userID, Role: model.RoleCustomer})
}

func adminCtx() (context.Context, uuid.UUID) {
	id := uuid.New()
	return requestctx.WithIdentity(context.Background(), &model.Identity{UserID: id, Role: model.RoleAdmin}), id
}

func deliveredOrder(userID uuid.UUID, daysAgo int) *model.Order {
	delivered := testNow.Add(-time.Duration(daysAgo) * 24 * time.Hour)
	ref := "pi_abc"
	return &model.Order{
		ID:               uuid.New(),
		UserID:           userID,
		Status:           model.OrderStatusDelivered,
		PaymentStatus:    model.PaymentStatusPaid,
		PaymentProvider:  model.PaymentProviderStripe,
		PaymentIntentRef: &ref,
		Currency:         "usd",
		TotalAmount:      20000,
		DeliveredAt:      &delivered,
		CreatedAt:        delivered.Add(-72 * time.Hour),
		Items: []*model.OrderItem{
			{ID: uuid.New(), Position: 0, ProductName: "Kettle", Quantity: 1, UnitPrice: 20000},
		},
	}
}

func validCreateInput(orderID uuid.UUID) *CreateInput {
	ev, _ := model.StoredRef("evidence/photo.jpg")
	return &CreateInput{
		OrderID:     orderID,
		Reason:      model.ReturnReasonDefective,
		Description: "Stopped heating after two days",
		ReturnItems: []model.ReturnItem{{OrderItemIndex: 0, Quantity: 1, Reason: "defective"}},
		Evidence:    []model.Attachment{ev},
	}
}

func pendingRequest(order *model.Order) *model.ReturnRequest {
	ev, _ := model.StoredRef("evidence/photo.jpg")
	return &model.ReturnRequest{
		ID:          uuid.New(),
		OrderID:     order.ID,
		UserID:      order.UserID,
		RMANumber:   "RMA-1773576000000-AB12CD",
		Type:        model.ReturnTypeReturn,
		Reason:      model.ReturnReasonDefective,
		Description: "Stopped heating",
		Status:      model.ReturnStatusPending,
		ReturnItems: []model.ReturnItem{{OrderItemIndex: 0, Quantity: 1}},
		Evidence:    []model.Attachment{ev},
		SubmittedAt: testNow.Add(-24 * time.Hour),
	}
}

// ===== Create =====

func TestReturnsDomain_Create(t *testing.T) {
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		f := newFixture()
		order := deliveredOrder(userID, 10)
		f.orderDB.On("GetByIDWithItems", mock.Anything, order.ID).Return(order, nil)
		f.returnDB.On("ExistsForOrder", mock.Anything, order.ID).Return(false, nil)
		f.returnDB.On("Create", mock.Anything, mock.AnythingOfType("*model.ReturnRequest")).Return(nil)

		req, err := f.domain.Create(customerCtx(userID), userID, validCreateInput(order.ID))

		require.NoError(t, err)
		assert.Equal(t, model.ReturnStatusPending, req.Status)
		assert.Equal(t, model.ReturnTypeReturn, req.Type)
		assert.Regexp(t, `^RMA-\d+-[A-Z0-9]{6}$`, req.RMANumber)
		assert.Equal(t, testNow, req.SubmittedAt)
		assert.Equal(t, order.ID, req.OrderID)
		assert.Equal(t, 1, f.recorder.created)
		f.assertExpectations(t)
	})

	t.Run("empty evidence", func(t *testing.T) {
		f := newFixture()
		in := validCreateInput(uuid.New())
		in.Evidence = nil

		_, err := f.domain.Create(customerCtx(userID), userID, in)
		assert.ErrorIs(t, err, ErrEvidenceRequired)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("blank description", func(t *testing.T) {
		f := newFixture()
		in := validCreateInput(uuid.New())
		in.Description = "   \n"

		_, err := f.domain.Create(customerCtx(userID), userID, in)
		assert.ErrorIs(t, err, ErrDescriptionRequired)
	})

	t.Run("no positive quantity", func(t *testing.T) {
		f := newFixture()
		in := validCreateInput(uuid.New())
		in.ReturnItems = []model.ReturnItem{{OrderItemIndex: 0, Quantity: 0}}

		_, err := f.domain.Create(customerCtx(userID), userID, in)
		assert.ErrorIs(t, err, ErrNoReturnItems)
	})

	t.Run("exchange is not supported", func(t *testing.T) {
		f := newFixture()
		in := validCreateInput(uuid.New())
		in.Type = model.ReturnTypeExchange

		_, err := f.domain.Create(customerCtx(userID), userID, in)
		assert.ErrorIs(t, err, ErrUnsupportedReturnType)
	})

	t.Run("item index out of range", func(t *testing.T) {
		f := newFixture()
		order := deliveredOrder(userID, 10)
		f.orderDB.On("GetByIDWithItems", mock.Anything, order.ID).Return(order, nil)
		in := validCreateInput(order.ID)
		in.ReturnItems = []model.ReturnItem{{OrderItemIndex: 3, Quantity: 1}}

		_, err := f.domain.Create(customerCtx(userID), userID, in)
		assert.ErrorIs(t, err, ErrInvalidReturnItem)
	})

	t.Run("order not found", func(t *testing.T) {
		f := newFixture()
		orderID := uuid.New()
		f.orderDB.On("GetByIDWithItems", mock.Anything, orderID).Return(nil, nil)

		_, err := f.domain.Create(customerCtx(userID), userID, validCreateInput(orderID))
		assert.ErrorIs(t, err, ErrOrderNotFound)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("order of another user", func(t *testing.T) {
		f := newFixture()
		order := deliveredOrder(uuid.New(), 10)
		f.orderDB.On("GetByIDWithItems", mock.Anything, order.ID).Return(order, nil)

		_, err := f.domain.Create(customerCtx(userID), userID, validCreateInput(order.ID))
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("caller is not the user", func(t *testing.T) {
		f := newFixture()
		_, err := f.domain.Create(customerCtx(uuid.New()), userID, validCreateInput(uuid.New()))
		assert.ErrorIs(t, err, authz.ErrAccessDenied)
	})

	t.Run("not delivered", func(t *testing.T) {
		for _, status := range []model.OrderStatus{
			model.OrderStatusPending, model.OrderStatusPaid, model.OrderStatusShipped,
			model.OrderStatusCancelled, model.OrderStatusRefunded,
		} {
			f := newFixture()
			order := deliveredOrder(userID, 1)
			order.Status = status
			f.orderDB.On("GetByIDWithItems", mock.Anything, order.ID).Return(order, nil)

			_, err := f.domain.Create(customerCtx(userID), userID, validCreateInput(order.ID))
			assert.ErrorIs(t, err, ErrNotDelivered, status)
			assert.ErrorIs(t, err, ErrNotEligible, status)
		}
	})

	t.Run("window expired", func(t *testing.T) {
		f := newFixture()
		order := deliveredOrder(userID, 31)
		f.orderDB.On("GetByIDWithItems", mock.Anything, order.ID).Return(order, nil)

		_, err := f.domain.Create(customerCtx(userID), userID, validCreateInput(order.ID))
		assert.ErrorIs(t, err, ErrReturnWindowExpired)
	})

	t.Run("window uses creation time without delivery", func(t *testing.T) {
		f := newFixture()
		order := deliveredOrder(userID, 1)
		order.DeliveredAt = nil
		order.CreatedAt = testNow.Add(-40 * 24 * time.Hour)
		f.orderDB.On("GetByIDWithItems", mock.Anything, order.ID).Return(order, nil)

		_, err := f.domain.Create(customerCtx(userID), userID, validCreateInput(order.ID))
		assert.ErrorIs(t, err, ErrReturnWindowExpired)
	})

	t.Run("existing request", func(t *testing.T) {
		f := newFixture()
		order := deliveredOrder(userID, 10)
		f.orderDB.On("GetByIDWithItems", mock.Anything, order.ID).Return(order, nil)
		f.returnDB.On("ExistsForOrder", mock.Anything, order.ID).Return(true, nil)

		_, err := f.domain.Create(customerCtx(userID), userID, validCreateInput(order.ID))
		assert.ErrorIs(t, err, ErrDuplicateRequest)
		f.returnDB.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("concurrent duplicate hits unique index", func(t *testing.T) {
		f := newFixture()
		order := deliveredOrder(userID, 10)
		f.orderDB.On("GetByIDWithItems", mock.Anything, order.ID).Return(order, nil)
		f.returnDB.On("ExistsForOrder", mock.Anything, order.ID).Return(false, nil)
		f.returnDB.On("Create", mock.Anything, mock.Anything).Return(outbound.ErrDuplicate)

		_, err := f.domain.Create(customerCtx(userID), userID, validCreateInput(order.ID))
		assert.ErrorIs(t, err, ErrDuplicateRequest)
		assert.Equal(t, 0, f.recorder.created)
	})

	t.Run("requested amount stored in cents", func(t *testing.T) {
		f := newFixture()
		order := deliveredOrder(userID, 10)
		f.orderDB.On("GetByIDWithItems", mock.Anything, order.ID).Return(order, nil)
		f.returnDB.On("ExistsForOrder", mock.Anything, order.ID).Return(false, nil)
		f.returnDB.On("Create", mock.Anything, mock.Anything).Return(nil)
		in := validCreateInput(order.ID)
		amount := decimal.RequireFromString("49.995")
		in.RequestedAmount = &amount

		req, err := f.domain.Create(customerCtx(userID), userID, in)
		require.NoError(t, err)
		require.NotNil(t, req.RequestedAmount)
		assert.Equal(t, int64(5000), *req.RequestedAmount)
	})

	t.Run("requested amount beyond int64 cents is invalid", func(t *testing.T) {
		f := newFixture()
		order := deliveredOrder(userID, 10)
		f.orderDB.On("GetByIDWithItems", mock.Anything, order.ID).Return(order, nil)
		f.returnDB.On("ExistsForOrder", mock.Anything, order.ID).Return(false, nil)
		in := validCreateInput(order.ID)
		amount := decimal.RequireFromString("1e20")
		in.RequestedAmount = &amount

		_, err := f.domain.Create(customerCtx(userID), userID, in)
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.ErrorIs(t, err, ErrValidation)
		f.returnDB.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

// ===== Queries =====

func TestReturnsDomain_Get(t *testing.T) {
	owner := uuid.New()
	order := deliveredOrder(owner, 5)
	req := pendingRequest(order)

	t.Run("owner", func(t *testing.T) {
		f := newFixture()
		f.returnDB.On("GetByID", mock.Anything, req.ID).Return(req, nil)
		got, err := f.domain.Get(customerCtx(owner), req.ID)
		require.NoError(t, err)
		assert.Equal(t, req.ID, got.ID)
	})

	t.Run("admin", func(t *testing.T) {
		f := newFixture()
		f.returnDB.On("GetByID", mock.Anything, req.ID).Return(req, nil)
		ctx, _ := adminCtx()
		_, err := f.domain.Get(ctx, req.ID)
		assert.NoError(t, err)
	})

	t.Run("stranger", func(t *testing.T) {
		f := newFixture()
		f.returnDB.On("GetByID", mock.Anything, req.ID).Return(req, nil)
		_, err := f.domain.Get(customerCtx(uuid.New()), req.ID)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("missing", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		f.returnDB.On("GetByID", mock.Anything, id).Return(nil, nil)
		_, err := f.domain.Get(customerCtx(owner), id)
		assert.ErrorIs(t, err, ErrReturnRequestNotFound)
	})

	t.Run("anonymous", func(t *testing.T) {
		f := newFixture()
		f.returnDB.On("GetByID", mock.Anything, req.ID).Return(req, nil)
		_, err := f.domain.Get(context.Background(), req.ID)
		assert.ErrorIs(t, err, authz.ErrUnauthenticated)
	})
}

func TestReturnsDomain_ListAll_RequiresAdmin(t *testing.T) {
	f := newFixture()
	_, _, err := f.domain.ListAll(customerCtx(uuid.New()), nil, 1, 20)
	assert.ErrorIs(t, err, ErrAccessDenied)

	ctx, _ := adminCtx()
	status := model.ReturnStatusPending
	filter := &model.ReturnRequestFilter{Status: &status}
	f.returnDB.On("List", mock.Anything, filter, 1, 20).Return([]*model.ReturnRequest{}, int64(0), nil)
	_, total, err := f.domain.ListAll(ctx, filter, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	f.assertExpectations(t)
}

func TestReturnsDomain_ListMine(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	f.returnDB.On("List", mock.Anything, mock.MatchedBy(func(filter *model.ReturnRequestFilter) bool {
		return filter.UserID != nil && *filter.UserID == userID && filter.Status == nil
	}), 2, 10).Return([]*model.ReturnRequest{{ID: uuid.New()}}, int64(11), nil)

	items, total, err := f.domain.ListMine(customerCtx(userID), userID, 2, 10)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(11), total)
}

func TestReturnsDomain_CheckEligibility(t *testing.T) {
	userID := uuid.New()

	t.Run("eligible", func(t *testing.T) {
		f := newFixture()
		order := deliveredOrder(userID, 3)
		f.orderDB.On("GetByIDWithItems", mock.Anything, order.ID).Return(order, nil)
		f.returnDB.On("ExistsForOrder", mock.Anything, order.ID).Return(false, nil)

		report, err := f.domain.CheckEligibility(customerCtx(userID), order.ID)
		require.NoError(t, err)
		assert.True(t, report.Allowed)
		assert.False(t, report.HasExistingRequest)
	})

	t.Run("duplicate reported distinctly", func(t *testing.T) {
		f := newFixture()
		order := deliveredOrder(userID, 3)
		f.orderDB.On("GetByIDWithItems", mock.Anything, order.ID).Return(order, nil)
		f.returnDB.On("ExistsForOrder", mock.Anything, order.ID).Return(true, nil)

		report, err := f.domain.CheckEligibility(customerCtx(userID), order.ID)
		require.NoError(t, err)
		assert.False(t, report.Allowed)
		assert.True(t, report.HasExistingRequest)
		assert.Contains(t, report.Reason, "already submitted")
	})

	t.Run("expired window", func(t *testing.T) {
		f := newFixture()
		order := deliveredOrder(userID, 45)
		f.orderDB.On("GetByIDWithItems", mock.Anything, order.ID).Return(order, nil)
		f.returnDB.On("ExistsForOrder", mock.Anything, order.ID).Return(false, nil)

		report, err := f.domain.CheckEligibility(customerCtx(userID), order.ID)
		require.NoError(t, err)
		assert.False(t, report.Allowed)
		assert.Equal(t, "Return window expired.", report.Reason)
	})
}

// ===== Cancel / Delete =====

func TestReturnsDomain_Cancel(t *testing.T) {
	userID := uuid.New()
	order := deliveredOrder(userID, 5)

	t.Run("pending request", func(t *testing.T) {
		f := newFixture()
		req := pendingRequest(order)
		f.returnDB.On("GetByID", mock.Anything, req.ID).Return(req, nil)
		f.returnDB.On("UpdateIfStatus", mock.Anything, mock.MatchedBy(func(r *model.ReturnRequest) bool {
			return r.Status == model.ReturnStatusCancelled && r.CompletedAt != nil && r.CompletedAt.Equal(testNow)
		}), model.ReturnStatusPending).Return(true, nil)

		got, err := f.domain.Cancel(customerCtx(userID), req.ID, userID)
		require.NoError(t, err)
		assert.Equal(t, model.ReturnStatusCancelled, got.Status)
		assert.Equal(t, model.ReturnStatusPending, req.Status)
		assert.Equal(t, [][2]string{{"pending", "cancelled"}}, f.recorder.transitions)
		f.assertExpectations(t)
	})

	t.Run("not pending", func(t *testing.T) {
		f := newFixture()
		req := pendingRequest(order)
		req.Status = model.ReturnStatusApproved
		f.returnDB.On("GetByID", mock.Anything, req.ID).Return(req, nil)

		_, err := f.domain.Cancel(customerCtx(userID), req.ID, userID)
		assert.ErrorIs(t, err, ErrNotPending)
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("lost race", func(t *testing.T) {
		f := newFixture()
		req := pendingRequest(order)
		f.returnDB.On("GetByID", mock.Anything, req.ID).Return(req, nil)
		f.returnDB.On("UpdateIfStatus", mock.Anything, mock.Anything, model.ReturnStatusPending).Return(false, nil)

		_, err := f.domain.Cancel(customerCtx(userID), req.ID, userID)
		assert.ErrorIs(t, err, ErrNotPending)
	})

	t.Run("not the owner", func(t *testing.T) {
		f := newFixture()
		req := pendingRequest(order)
		other := uuid.New()
		f.returnDB.On("GetByID", mock.Anything, req.ID).Return(req, nil)

		_, err := f.domain.Cancel(customerCtx(other), req.ID, other)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestReturnsDomain_Delete(t *testing.T) {
	userID := uuid.New()
	order := deliveredOrder(userID, 5)

	t.Run("pending removes messages then request", func(t *testing.T) {
		f := newFixture()
		req := pendingRequest(order)
		f.returnDB.On("GetByID", mock.Anything, req.ID).Return(req, nil)
		f.messageDB.On("DeleteByRequest", mock.Anything, req.ID).Return(int64(3), nil)
		f.returnDB.On("DeleteIfStatus", mock.Anything, req.ID, model.ReturnStatusPending).Return(true, nil)
		f.unread.On("InvalidateUserUnread", mock.Anything, userID).Return(nil)

		err := f.domain.Delete(customerCtx(userID), req.ID, userID)
		require.NoError(t, err)
		assert.Equal(t, 1, f.tx.calls)
		f.assertExpectations(t)
	})

	t.Run("non pending rejected", func(t *testing.T) {
		f := newFixture()
		req := pendingRequest(order)
		req.Status = model.ReturnStatusRejected
		f.returnDB.On("GetByID", mock.Anything, req.ID).Return(req, nil)

		err := f.domain.Delete(customerCtx(userID), req.ID, userID)
		assert.ErrorIs(t, err, ErrNotPending)
		f.messageDB.AssertNotCalled(t, "DeleteByRequest", mock.Anything, mock.Anything)
	})

	t.Run("status changed inside transaction", func(t *testing.T) {
		f := newFixture()
		req := pendingRequest(order)
		f.returnDB.On("GetByID", mock.Anything, req.ID).Return(req, nil)
		f.messageDB.On("DeleteByRequest", mock.Anything, req.ID).Return(int64(0), nil)
		f.returnDB.On("DeleteIfStatus", mock.Anything, req.ID, model.ReturnStatusPending).Return(false, nil)

		err := f.domain.Delete(customerCtx(userID), req.ID, userID)
		assert.ErrorIs(t, err, ErrNotPending)
		f.unread.AssertNotCalled(t, "InvalidateUserUnread", mock.Anything, mock.Anything)
	})
}

// ===== Transition =====

func TestReturnsDomain_Transition(t *testing.T) {
	userID := uuid.New()

	t.Run("requires admin", func(t *testing.T) {
		f := newFixture()
		_, err := f.domain.Transition(customerCtx(userID), uuid.New(), &TransitionInput{Status: model.ReturnStatusApproved})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newFixture()
		ctx, _ := adminCtx()
		_, err := f.domain.Transition(ctx, uuid.New(), &TransitionInput{Status: "archived"})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("negative amount", func(t *testing.T) {
		f := newFixture()
		ctx, _ := adminCtx()
		amount := decimal.NewFromInt(-1)
		_, err := f.domain.Transition(ctx, uuid.New(), &TransitionInput{Status: model.ReturnStatusApproved, ApprovedAmount: &amount})
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("amount only accepted when approving", func(t *testing.T) {
		f := newFixture()
		ctx, _ := adminCtx()
		amount := decimal.NewFromInt(999)
		for _, status := range []model.ReturnStatus{model.ReturnStatusProcessing, model.ReturnStatusCompleted, model.ReturnStatusRejected} {
			_, err := f.domain.Transition(ctx, uuid.New(), &TransitionInput{Status: status, ApprovedAmount: &amount})
			assert.ErrorIs(t, err, ErrAmountNotApplicable, status)
			assert.ErrorIs(t, err, ErrValidation, status)
		}
		f.returnDB.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		f.returnDB.AssertNotCalled(t, "UpdateIfStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("full refund on approval", func(t *testing.T) {
		f := newFixture()
		ctx, adminID := adminCtx()
		order := deliveredOrder(userID, 10)
		req := pendingRequest(order)

		f.returnDB.On("GetByID", mock.Anything, req.ID).Return(req, nil)
		f.orderDB.On("GetByIDWithItems", mock.Anything, order.ID).Return(order, nil)
		f.gateway.On("Refund", mock.Anything, mock.MatchedBy(func(r *outbound.RefundRequest) bool {
			return r.PaymentRef == "pi_abc" && r.Amount == 20000 && r.Full &&
				r.IdempotencyKey == "return-"+req.ID.String()+"-approve-20000"
		})).Return(&outbound.RefundResult{ID: "re_123", Amount: 20000, Status: "succeeded"}, nil)
		f.returnDB.On("UpdateIfStatus", mock.Anything, mock.MatchedBy(func(r *model.ReturnRequest) bool {
			return r.Status == model.ReturnStatusApproved &&
				r.ApprovedAmount != nil && *r.ApprovedAmount == 20000 &&
				r.ExternalRefundRef != nil && *r.ExternalRefundRef == "re_123" &&
				r.ReviewedAt != nil
		}), model.ReturnStatusPending).Return(true, nil)
		f.orderDB.On("MarkRefunded", mock.Anything, order.ID, "Full refund of $200.00 via refund re_123 for return "+req.RMANumber).Return(nil)
		f.messageDB.On("Create", mock.Anything, mock.MatchedBy(func(m *model.Message) bool {
			return m.MessageType == model.MessageTypeStatusUpdate && m.SenderType == model.SenderAdmin &&
				m.SenderID == adminID && !m.IsRead
		})).Return(nil)
		f.unread.On("InvalidateUserUnread", mock.Anything, userID).Return(nil)

		got, err := f.domain.Transition(ctx, req.ID, &TransitionInput{Status: model.ReturnStatusApproved})
		require.NoError(t, err)
		assert.Equal(t, model.ReturnStatusApproved, got.Status)
		assert.Equal(t, int64(20000), *got.ApprovedAmount)
		assert.Equal(t, []recordedRefund{{"stripe", "success", "full"}}, f.recorder.refunds)
		f.assertExpectations(t)
		f.orderDB.AssertNotCalled(t, "AppendAdminNote", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("partial refund appends note", func(t *testing.T) {
		f := newFixture()
		ctx, _ := adminCtx()
		order := deliveredOrder(userID, 10)
		req := pendingRequest(order)
		amount := decimal.NewFromInt(50)

		f.returnDB.On("GetByID", mock.Anything, req.ID).Return(req, nil)
		f.orderDB.On("GetByIDWithItems", mock.Anything, order.ID).Return(order, nil)
		f.gateway.On("Refund", mock.Anything, mock.MatchedBy(func(r *outbound.RefundRequest) bool {
			return r.Amount == 5000 && !r.Full && r.IdempotencyKey == "return-"+req.ID.String()+"-approve-5000"
		})).Return(&outbound.RefundResult{ID: "re_456", Amount: 5000}, nil)
		f.returnDB.On("UpdateIfStatus", mock.Anything, mock.Anything, model.ReturnStatusPending).Return(true, nil)
		f.orderDB.On("AppendAdminNote", mock.Anything, order.ID, "Partial refund of $50.00 via refund re_456 for return "+req.RMANumber).Return(nil)
		f.messageDB.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.unread.On("InvalidateUserUnread", mock.Anything, userID).Return(nil)

		got, err := f.domain.Transition(ctx, req.ID, &TransitionInput{Status: model.ReturnStatusApproved, ApprovedAmount: &amount})
		require.NoError(t, err)
		assert.Equal(t, int64(5000), *got.ApprovedAmount)
		f.orderDB.AssertNotCalled(t, "MarkRefunded", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("amount above total is clamped to full", func(t *testing.T) {
		f := newFixture()
		ctx, _ := adminCtx()
		order := deliveredOrder(userID, 10)
		req := pendingRequest(order)
		amount := decimal.NewFromInt(999)

		f.returnDB.On("GetByID", mock.Anything, req.ID).Return(req, nil)
		f.orderDB.On("GetByIDWithItems", mock.Anything, order.ID).Return(order, nil)
		f.gateway.On("Refund", mock.Anything, mock.MatchedBy(func(r *outbound.RefundRequest) bool {
			return r.Amount == 20000 && r.Full
		})).Return(&outbound.RefundResult{ID: "re_789"}, nil)
		f.returnDB.On("UpdateIfStatus", mock.Anything, mock.Anything, model.ReturnStatusPending).Return(true, nil)
		f.orderDB.On("MarkRefunded", mock.Anything, order.ID, mock.Anything).Return(nil)
		f.messageDB.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.unread.On("InvalidateUserUnread", mock.Anything, userID).Return(nil)

		got, err := f.domain.Transition(ctx, req.ID, &TransitionInput{Status: model.ReturnStatusApproved, ApprovedAmount: &amount})
		require.NoError(t, err)
		assert.Equal(t, int64(20000), *got.ApprovedAmount)
	})

	t.Run("huge amount refunds the order total", func(t *testing.T) {
		f := newFixture()
		ctx, _ := adminCtx()
		order := deliveredOrder(userID, 10)
		req := pendingRequest(order)
		amount := decimal.RequireFromString("1e20")

		f.returnDB.On("GetByID", mock.Anything, req.ID).Return(req, nil)
		f.orderDB.On("GetByIDWithItems", mock.Anything, order.ID).Return(order, nil)
		f.gateway.On("Refund", mock.Anything, mock.MatchedBy(func(r *outbound.RefundRequest) bool {
			return r.Amount == 20000 && r.Full
		})).Return(&outbound.RefundResult{ID: "re_big", Amount: 20000}, nil)
		f.returnDB.On("UpdateIfStatus", mock.Anything, mock.MatchedBy(func(r *model.ReturnRequest) bool {
			return r.ApprovedAmount != nil && *r.ApprovedAmount == 20000 &&
				r.ExternalRefundRef != nil && *r.ExternalRefundRef == "re_big"
		}), model.ReturnStatusPending).Return(true, nil)
		f.orderDB.On("MarkRefunded", mock.Anything, order.ID, mock.Anything).Return(nil)
		f.messageDB.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.unread.On("InvalidateUserUnread", mock.Anything, userID).Return(nil)

		got, err := f.domain.Transition(ctx, req.ID, &TransitionInput{Status: model.ReturnStatusApproved, ApprovedAmount: &amount})
		require.NoError(t, err)
		assert.Equal(t, int64(20000), *got.ApprovedAmount)
		f.gateway.AssertNumberOfCalls(t, "Refund", 1)
	})

	t.Run("half cent rounds away from zero", func(t *testing.T) {
		f := newFixture()
		ctx, _ := adminCtx()
		order := deliveredOrder(userID, 10)
		req := pendingRequest(order)
		amount := decimal.RequireFromString("1.005")

		f.returnDB.On("GetByID", mock.Anything, req.ID).Return(req, nil)
		f.orderDB.On("GetByIDWithItems", mock.Anything, order.ID).Return(order, nil)
		f.gateway.On("Refund", mock.Anything, mock.MatchedBy(func(r *outbound.RefundRequest) bool {
			return r.Amount == 101 && !r.Full
		})).Return(&outbound.RefundResult{ID: "re_101", Amount: 101}, nil)
		f.returnDB.On("UpdateIfStatus", mock.Anything, mock.Anything, model.ReturnStatusPending).Return(true, nil)
		f.orderDB.On("AppendAdminNote", mock.Anything, order.ID, "Partial refund of $1.01 via refund re_101 for return "+req.RMANumber).Return(nil)
		f.messageDB.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.unread.On("InvalidateUserUnread", mock.Anything, userID).Return(nil)

		got, err := f.domain.Transition(ctx, req.ID, &TransitionInput{Status: model.ReturnStatusApproved, ApprovedAmount: &amount})
		require.NoError(t, err)
		assert.Equal(t, int64(101), *got.ApprovedAmount)
		f.assertExpectations(t)
	})

	t.Run("gateway reporting a different amount is logged", func(t *testing.T) {
		f := newFixture()
		ctx, _ := adminCtx()
		order := deliveredOrder(userID, 10)
		req := pendingRequest(order)
		amount := decimal.NewFromInt(50)

		f.returnDB.On("GetByID", mock.Anything, req.ID).Return(req, nil)
		f.orderDB.On("GetByIDWithItems", mock.Anything, order.ID).Return(order, nil)
		f.gateway.On("Refund", mock.Anything, mock.Anything).Return(&outbound.RefundResult{ID: "re_x", Amount: 8000}, nil)
		f.returnDB.On("UpdateIfStatus", mock.Anything, mock.Anything, model.ReturnStatusPending).Return(true, nil)
		f.orderDB.On("AppendAdminNote", mock.Anything, order.ID, mock.Anything).Return(nil)
		f.messageDB.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.unread.On("InvalidateUserUnread", mock.Anything, userID).Return(nil)

		got, err := f.domain.Transition(ctx, req.ID, &TransitionInput{Status: model.ReturnStatusApproved, ApprovedAmount: &amount})
		require.NoError(t, err)
		assert.Equal(t, int64(5000), *got.ApprovedAmount)

		entries := f.logs.FilterMessage("gateway refunded amount differs from approved amount").All()
		require.Len(t, entries, 1)
		assert.Equal(t, int64(5000), entries[0].ContextMap()["approved"])
		assert.Equal(t, int64(8000), entries[0].ContextMap()["reported"])
	})

	t.Run("later transitions keep the refunded amount", func(t *testing.T) {
		f := newFixture()
		ctx, _ := adminCtx()
		order := deliveredOrder(userID, 10)
		req := pendingRequest(order)
		req.Status = model.ReturnStatusProcessing
		approved, ref := int64(5000), "re_1"
		req.ApprovedAmount = &approved
		req.ExternalRefundRef = &ref

		f.returnDB.On("GetByID", mock.Anything, req.ID).Return(req, nil)
		f.returnDB.On("UpdateIfStatus", mock.Anything, mock.MatchedBy(func(r *model.ReturnRequest) bool {
			return r.Status == model.ReturnStatusCompleted &&
				r.ApprovedAmount != nil && *r.ApprovedAmount == 5000 &&
				r.ExternalRefundRef != nil && *r.ExternalRefundRef == "re_1"
		}), model.ReturnStatusProcessing).Return(true, nil)
		f.messageDB.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.unread.On("InvalidateUserUnread", mock.Anything, userID).Return(nil)

		got, err := f.domain.Transition(ctx, req.ID, &TransitionInput{Status: model.ReturnStatusCompleted})
		require.NoError(t, err)
		assert.Equal(t, int64(5000), *got.ApprovedAmount)

		stray := decimal.NewFromInt(999)
		_, err = f.domain.Transition(ctx, req.ID, &TransitionInput{Status: model.ReturnStatusCompleted, ApprovedAmount: &stray})
		assert.ErrorIs(t, err, ErrAmountNotApplicable)
		f.returnDB.AssertNumberOfCalls(t, "UpdateIfStatus", 1)
	})

	t.Run("gateway failure leaves request untouched", func(t *testing.T) {
		f := newFixture()
		ctx, _ := adminCtx()
		order := deliveredOrder(userID, 10)
		req := pendingRequest(order)
		gwErr := &outbound.GatewayError{Provider: model.PaymentProviderStripe, Code: outbound.GatewayCodeTimeout, Retryable: true}

		f.returnDB.On("GetByID", mock.Anything, req.ID).Return(req, nil)
		f.orderDB.On("GetByIDWithItems", mock.Anything, order.ID).Return(order, nil)
		f.gateway.On("Refund", mock.Anything, mock.Anything).Return(nil, gwErr)

		_, err := f.domain.Transition(ctx, req.ID, &TransitionInput{Status: model.ReturnStatusApproved})
		assert.ErrorIs(t, err, ErrPaymentGateway)
		var target *outbound.GatewayError
		require.True(t, errors.As(err, &target))
		assert.True(t, IsRetryableGatewayError(err))

		assert.Equal(t, model.ReturnStatusPending, req.Status)
		assert.Equal(t, 0, f.tx.calls)
		f.returnDB.AssertNotCalled(t, "UpdateIfStatus", mock.Anything, mock.Anything, mock.Anything)
		f.orderDB.AssertNotCalled(t, "MarkRefunded", mock.Anything, mock.Anything, mock.Anything)
		f.messageDB.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.Equal(t, []recordedRefund{{"stripe", "retryable_error", "full"}}, f.recorder.refunds)
	})

	t.Run("no payment intent approves without refund", func(t *testing.T) {
		f := newFixture()
		ctx, _ := adminCtx()
		order := deliveredOrder(userID, 10)
		order.PaymentIntentRef = nil
		req := pendingRequest(order)

		f.returnDB.On("GetByID", mock.Anything, req.ID).Return(req, nil)
		f.orderDB.On("GetByIDWithItems", mock.Anything, order.ID).Return(order, nil)
		f.returnDB.On("UpdateIfStatus", mock.Anything, mock.MatchedBy(func(r *model.ReturnRequest) bool {
			return r.ExternalRefundRef == nil && r.ApprovedAmount != nil && *r.ApprovedAmount == 20000
		}), model.ReturnStatusPending).Return(true, nil)
		f.messageDB.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.unread.On("InvalidateUserUnread", mock.Anything, userID).Return(nil)

		got, err := f.domain.Transition(ctx, req.ID, &TransitionInput{Status: model.ReturnStatusApproved})
		require.NoError(t, err)
		assert.Equal(t, model.ReturnStatusApproved, got.Status)
		f.gateway.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything)
		f.orderDB.AssertNotCalled(t, "MarkRefunded", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("reject sets reviewedAt and skips refund", func(t *testing.T) {
		f := newFixture()
		ctx, _ := adminCtx()
		order := deliveredOrder(userID, 10)
		req := pendingRequest(order)
		notes := " photos do not show damage "

		f.returnDB.On("GetByID", mock.Anything, req.ID).Return(req, nil)
		f.returnDB.On("UpdateIfStatus", mock.Anything, mock.MatchedBy(func(r *model.ReturnRequest) bool {
			return r.Status == model.ReturnStatusRejected && r.ReviewedAt != nil && r.CompletedAt == nil &&
				r.AdminNotes == "photos do not show damage"
		}), model.ReturnStatusPending).Return(true, nil)
		f.messageDB.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.unread.On("InvalidateUserUnread", mock.Anything, userID).Return(nil)

		_, err := f.domain.Transition(ctx, req.ID, &TransitionInput{Status: model.ReturnStatusRejected, AdminNotes: &notes})
		require.NoError(t, err)
		f.gateway.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything)
		f.orderDB.AssertNotCalled(t, "GetByIDWithItems", mock.Anything, mock.Anything)
	})

	t.Run("complete sets completedAt and tracking", func(t *testing.T) {
		f := newFixture()
		ctx, _ := adminCtx()
		order := deliveredOrder(userID, 10)
		req := pendingRequest(order)
		req.Status = model.ReturnStatusProcessing
		tracking := "1Z999"

		f.returnDB.On("GetByID", mock.Anything, req.ID).Return(req, nil)
		f.returnDB.On("UpdateIfStatus", mock.Anything, mock.MatchedBy(func(r *model.ReturnRequest) bool {
			return r.CompletedAt != nil && r.TrackingNumber != nil && *r.TrackingNumber == "1Z999"
		}), model.ReturnStatusProcessing).Return(true, nil)
		f.messageDB.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.unread.On("InvalidateUserUnread", mock.Anything, userID).Return(nil)

		got, err := f.domain.Transition(ctx, req.ID, &TransitionInput{Status: model.ReturnStatusCompleted, TrackingNumber: &tracking})
		require.NoError(t, err)
		assert.Equal(t, model.ReturnStatusCompleted, got.Status)
		assert.Equal(t, [][2]string{{"processing", "completed"}}, f.recorder.transitions)
	})

	t.Run("terminal state rejects transitions", func(t *testing.T) {
		f := newFixture()
		ctx, _ := adminCtx()
		order := deliveredOrder(userID, 10)
		req := pendingRequest(order)
		req.Status = model.ReturnStatusRejected
		f.returnDB.On("GetByID", mock.Anything, req.ID).Return(req, nil)

		_, err := f.domain.Transition(ctx, req.ID, &TransitionInput{Status: model.ReturnStatusPending})
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("pending cannot jump to completed", func(t *testing.T) {
		f := newFixture()
		ctx, _ := adminCtx()
		order := deliveredOrder(userID, 10)
		req := pendingRequest(order)
		f.returnDB.On("GetByID", mock.Anything, req.ID).Return(req, nil)

		_, err := f.domain.Transition(ctx, req.ID, &TransitionInput{Status: model.ReturnStatusCompleted})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("concurrent approval loses the compare and set", func(t *testing.T) {
		f := newFixture()
		ctx, _ := adminCtx()
		order := deliveredOrder(userID, 10)
		req := pendingRequest(order)

		f.returnDB.On("GetByID", mock.Anything, req.ID).Return(req, nil)
		f.orderDB.On("GetByIDWithItems", mock.Anything, order.ID).Return(order, nil)
		f.gateway.On("Refund", mock.Anything, mock.Anything).Return(&outbound.RefundResult{ID: "re_123"}, nil)
		f.returnDB.On("UpdateIfStatus", mock.Anything, mock.Anything, model.ReturnStatusPending).Return(false, nil)

		_, err := f.domain.Transition(ctx, req.ID, &TransitionInput{Status: model.ReturnStatusApproved})
		assert.ErrorIs(t, err, ErrInvalidTransition)
		f.orderDB.AssertNotCalled(t, "MarkRefunded", mock.Anything, mock.Anything, mock.Anything)
	})
}
