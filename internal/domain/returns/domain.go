package returns

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uniedit/returns/internal/domain/authz"
	"github.com/uniedit/returns/internal/model"
	"github.com/uniedit/returns/internal/port/outbound"
	"go.uber.org/zap"
)

// ReturnsDomain defines the interface for return request business logic.
type ReturnsDomain interface {
	// Customer operations
	Create(ctx context.Context, userID uuid.UUID, in *CreateInput) (*model.ReturnRequest, error)
	Cancel(ctx context.Context, requestID, userID uuid.UUID) (*model.ReturnRequest, error)
	Delete(ctx context.Context, requestID, userID uuid.UUID) error
	ListMine(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*model.ReturnRequest, int64, error)

	// Shared
	Get(ctx context.Context, requestID uuid.UUID) (*model.ReturnRequest, error)
	CheckEligibility(ctx context.Context, orderID uuid.UUID) (*EligibilityReport, error)
	HasExistingRequest(ctx context.Context, orderID uuid.UUID) (bool, error)

	// Admin operations
	ListAll(ctx context.Context, filter *model.ReturnRequestFilter, page, pageSize int) ([]*model.ReturnRequest, int64, error)
	Transition(ctx context.Context, requestID uuid.UUID, in *TransitionInput) (*model.ReturnRequest, error)
}

// Config holds return policy settings.
type Config struct {
	WindowDays int
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// DefaultConfig returns the default policy.
func DefaultConfig() *Config {
	return &Config{WindowDays: DefaultWindowDays}
}

// CreateInput carries a customer's return submission.
type CreateInput struct {
	OrderID         uuid.UUID
	Type            model.ReturnType
	Reason          model.ReturnReason
	Description     string
	ReturnItems     []model.ReturnItem
	Evidence        []model.Attachment
	RequestedAmount *decimal.Decimal
}

// TransitionInput carries an admin status change. Optional fields are left untouched when nil.
// ApprovedAmount is only accepted together with the approved status.
type TransitionInput struct {
	Status         model.ReturnStatus
	ApprovedAmount *decimal.Decimal
	AdminNotes     *string
	TrackingNumber *string
}

// returnsDomain implements ReturnsDomain.
type returnsDomain struct {
	returnDB  outbound.ReturnRequestDatabasePort
	orderDB   outbound.OrderDatabasePort
	messageDB outbound.MessageDatabasePort
	tx        outbound.TransactionPort
	gateway   outbound.RefundGatewayPort
	unread    outbound.UnreadCountCachePort
	authz     authz.Authorizer
	recorder  Recorder
	config    *Config
	logger    *zap.Logger
}

// NewReturnsDomain creates a new returns domain service.
// unread and recorder may be nil.
func NewReturnsDomain(
	returnDB outbound.ReturnRequestDatabasePort,
	orderDB outbound.OrderDatabasePort,
	messageDB outbound.MessageDatabasePort,
	tx outbound.TransactionPort,
	gateway outbound.RefundGatewayPort,
	unread outbound.UnreadCountCachePort,
	authorizer authz.Authorizer,
	recorder Recorder,
	config *Config,
	logger *zap.Logger,
) ReturnsDomain {
	if config == nil {
		config = DefaultConfig()
	}
	if config.WindowDays <= 0 {
		config.WindowDays = DefaultWindowDays
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &returnsDomain{
		returnDB:  returnDB,
		orderDB:   orderDB,
		messageDB: messageDB,
		tx:        tx,
		gateway:   gateway,
		unread:    unread,
		authz:     authorizer,
		recorder:  recorder,
		config:    config,
		logger:    logger,
	}
}

func (d *returnsDomain) now() time.Time {
	if d.config.Now != nil {
		return d.config.Now()
	}
	return time.Now()
}

// ===== Create =====

func (d *returnsDomain) Create(ctx context.Context, userID uuid.UUID, in *CreateInput) (*model.ReturnRequest, error) {
	if _, err := d.authz.RequireSelf(ctx, userID); err != nil {
		return nil, err
	}
	if err := validateCreateInput(in); err != nil {
		return nil, err
	}

	order, err := d.loadOwnedOrder(ctx, in.OrderID, userID)
	if err != nil {
		return nil, err
	}
	if err := validateItemsAgainstOrder(in.ReturnItems, order); err != nil {
		return nil, err
	}

	now := d.now()
	if elig := CanReturn(order, now, d.config.WindowDays); !elig.Allowed {
		return nil, elig.Err
	}

	exists, err := d.returnDB.ExistsForOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("check existing request: %w", err)
	}
	if exists {
		return nil, ErrDuplicateRequest
	}

	returnType := in.Type
	if returnType == "" {
		returnType = model.ReturnTypeReturn
	}

	req := &model.ReturnRequest{
		ID:          uuid.New(),
		OrderID:     order.ID,
		UserID:      userID,
		RMANumber:   generateRMANumber(now),
		Type:        returnType,
		Reason:      in.Reason,
		Description: strings.TrimSpace(in.Description),
		Status:      model.ReturnStatusPending,
		ReturnItems: in.ReturnItems,
		Evidence:    in.Evidence,
		SubmittedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.RequestedAmount != nil {
		amount, err := model.ToMinorUnits(*in.RequestedAmount)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidAmount, err)
		}
		req.RequestedAmount = &amount
	}

	// The unique index on order_id settles concurrent submissions.
	if err := d.returnDB.Create(ctx, req); err != nil {
		if errors.Is(err, outbound.ErrDuplicate) {
			return nil, ErrDuplicateRequest
		}
		return nil, fmt.Errorf("create return request: %w", err)
	}

	d.recorder.RecordReturnCreated()
	d.logger.Info("return request created",
		zap.String("return_request_id", req.ID.String()),
		zap.String("rma_number", req.RMANumber),
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
	)
	return req, nil
}

func validateCreateInput(in *CreateInput) error {
	if in == nil {
		return ErrValidation
	}
	switch in.Type {
	case "", model.ReturnTypeReturn:
	default:
		return ErrUnsupportedReturnType
	}
	if len(in.Evidence) == 0 {
		return ErrEvidenceRequired
	}
	for _, e := range in.Evidence {
		if !e.IsValid() {
			return ErrInvalidEvidence
		}
	}
	if strings.TrimSpace(in.Description) == "" {
		return ErrDescriptionRequired
	}
	if !in.Reason.IsValid() {
		return ErrInvalidReason
	}

	positive := false
	for _, item := range in.ReturnItems {
		if item.Quantity < 0 {
			return ErrInvalidReturnItem
		}
		if item.Quantity > 0 {
			positive = true
		}
	}
	if !positive {
		return ErrNoReturnItems
	}

	if in.RequestedAmount != nil && in.RequestedAmount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

func validateItemsAgainstOrder(items []model.ReturnItem, order *model.Order) error {
	for _, item := range items {
		line := order.Item(item.OrderItemIndex)
		if line == nil || item.Quantity > line.Quantity {
			return fmt.Errorf("%w: index %d", ErrInvalidReturnItem, item.OrderItemIndex)
		}
	}
	return nil
}

func (d *returnsDomain) loadOwnedOrder(ctx context.Context, orderID, userID uuid.UUID) (*model.Order, error) {
	order, err := d.orderDB.GetByIDWithItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("%w: order belongs to another user", ErrAccessDenied)
	}
	return order, nil
}

// ===== Queries =====

func (d *returnsDomain) Get(ctx context.Context, requestID uuid.UUID) (*model.ReturnRequest, error) {
	req, err := d.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if _, err := d.authz.RequireOwnerOrAdmin(ctx, req.UserID); err != nil {
		return nil, err
	}
	return req, nil
}

func (d *returnsDomain) ListMine(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*model.ReturnRequest, int64, error) {
	if _, err := d.authz.RequireSelf(ctx, userID); err != nil {
		return nil, 0, err
	}
	return d.returnDB.List(ctx, &model.ReturnRequestFilter{UserID: &userID}, page, pageSize)
}

func (d *returnsDomain) ListAll(ctx context.Context, filter *model.ReturnRequestFilter, page, pageSize int) ([]*model.ReturnRequest, int64, error) {
	if _, err := d.authz.RequireRole(ctx, model.RoleAdmin); err != nil {
		return nil, 0, err
	}
	if filter == nil {
		filter = &model.ReturnRequestFilter{}
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, 0, ErrInvalidStatus
	}
	return d.returnDB.List(ctx, filter, page, pageSize)
}

func (d *returnsDomain) CheckEligibility(ctx context.Context, orderID uuid.UUID) (*EligibilityReport, error) {
	caller, err := d.authz.Identity(ctx)
	if err != nil {
		return nil, err
	}

	order, err := d.orderDB.GetByIDWithItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !caller.IsAdmin() && order.UserID != caller.UserID {
		return nil, fmt.Errorf("%w: order belongs to another user", ErrAccessDenied)
	}

	exists, err := d.returnDB.ExistsForOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("check existing request: %w", err)
	}

	report := &EligibilityReport{HasExistingRequest: exists}
	elig := CanReturn(order, d.now(), d.config.WindowDays)
	switch {
	case !elig.Allowed:
		report.Reason = elig.Reason
	case exists:
		report.Reason = "You already submitted a return request for this order."
	default:
		report.Allowed = true
	}
	return report, nil
}

func (d *returnsDomain) HasExistingRequest(ctx context.Context, orderID uuid.UUID) (bool, error) {
	if _, err := d.authz.Identity(ctx); err != nil {
		return false, err
	}
	return d.returnDB.ExistsForOrder(ctx, orderID)
}

func (d *returnsDomain) loadRequest(ctx context.Context, id uuid.UUID) (*model.ReturnRequest, error) {
	req, err := d.returnDB.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get return request: %w", err)
	}
	if req == nil {
		return nil, ErrReturnRequestNotFound
	}
	return req, nil
}

// loadOwnRequest loads a request the customer userID must own.
func (d *returnsDomain) loadOwnRequest(ctx context.Context, requestID, userID uuid.UUID) (*model.ReturnRequest, error) {
	if _, err := d.authz.RequireSelf(ctx, userID); err != nil {
		return nil, err
	}
	req, err := d.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.UserID != userID {
		return nil, fmt.Errorf("%w: not the owner", ErrAccessDenied)
	}
	return req, nil
}

// ===== Customer mutations =====

func (d *returnsDomain) Cancel(ctx context.Context, requestID, userID uuid.UUID) (*model.ReturnRequest, error) {
	req, err := d.loadOwnRequest(ctx, requestID, userID)
	if err != nil {
		return nil, err
	}
	if !req.IsPending() {
		return nil, ErrNotPending
	}

	now := d.now()
	updated := *req
	updated.Status = model.ReturnStatusCancelled
	updated.CompletedAt = &now
	updated.UpdatedAt = now

	ok, err := d.returnDB.UpdateIfStatus(ctx, &updated, model.ReturnStatusPending)
	if err != nil {
		return nil, fmt.Errorf("cancel return request: %w", err)
	}
	if !ok {
		return nil, ErrNotPending
	}

	d.recorder.RecordReturnTransition(string(req.Status), string(updated.Status))
	d.logger.Info("return request cancelled",
		zap.String("return_request_id", req.ID.String()),
		zap.String("user_id", userID.String()),
	)
	return &updated, nil
}

func (d *returnsDomain) Delete(ctx context.Context, requestID, userID uuid.UUID) error {
	req, err := d.loadOwnRequest(ctx, requestID, userID)
	if err != nil {
		return err
	}
	if !req.IsPending() {
		return ErrNotPending
	}

	var removedMessages int64
	err = d.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		n, err := d.messageDB.DeleteByRequest(ctx, req.ID)
		if err != nil {
			return fmt.Errorf("delete messages: %w", err)
		}
		removedMessages = n

		ok, err := d.returnDB.DeleteIfStatus(ctx, req.ID, model.ReturnStatusPending)
		if err != nil {
			return fmt.Errorf("delete return request: %w", err)
		}
		if !ok {
			return ErrNotPending
		}
		return nil
	})
	if err != nil {
		return err
	}

	d.invalidateUnread(ctx, req.UserID)
	d.logger.Info("return request deleted",
		zap.String("return_request_id", req.ID.String()),
		zap.Int64("messages_removed", removedMessages),
	)
	return nil
}

// invalidateUnread drops the customer's cached unread count. Failures only cost freshness.
func (d *returnsDomain) invalidateUnread(ctx context.Context, userID uuid.UUID) {
	if d.unread == nil {
		return
	}
	if err := d.unread.InvalidateUserUnread(ctx, userID); err != nil {
		d.logger.Warn("failed to invalidate unread count", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

// Compile-time check
var _ ReturnsDomain = (*returnsDomain)(nil)
