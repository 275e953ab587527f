package outbound

import (
	"context"

	"github.com/google/uuid"
	"github.com/uniedit/returns/internal/model"
)

// ReturnRequestDatabasePort defines return request persistence operations.
type ReturnRequestDatabasePort interface {
	// Create inserts a new request. Returns ErrDuplicate if the order already has one.
	Create(ctx context.Context, req *model.ReturnRequest) error

	// GetByID returns the request, or nil if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.ReturnRequest, error)

	// ExistsForOrder reports whether any request, in any status, exists for the order.
	ExistsForOrder(ctx context.Context, orderID uuid.UUID) (bool, error)

	// List returns requests matching the filter, newest first.
	List(ctx context.Context, filter *model.ReturnRequestFilter, page, pageSize int) ([]*model.ReturnRequest, int64, error)

	// UpdateIfStatus saves the request only if its stored status still equals expected.
	// Returns false when another writer changed the status first.
	UpdateIfStatus(ctx context.Context, req *model.ReturnRequest, expected model.ReturnStatus) (bool, error)

	// DeleteIfStatus removes the request only if its stored status equals expected.
	// Returns false when nothing was deleted.
	DeleteIfStatus(ctx context.Context, id uuid.UUID, expected model.ReturnStatus) (bool, error)
}

// MessageDatabasePort defines return message persistence operations.
type MessageDatabasePort interface {
	// Create appends a message.
	Create(ctx context.Context, msg *model.Message) error

	// ListByRequest returns the request's messages in creation order.
	ListByRequest(ctx context.Context, requestID uuid.UUID) ([]*model.Message, error)

	// MarkRead flags every unread message authored by sender on the request as read.
	// Returns the number of messages flipped.
	MarkRead(ctx context.Context, requestID uuid.UUID, sender model.SenderType) (int64, error)

	// DeleteByRequest removes all messages of the request.
	DeleteByRequest(ctx context.Context, requestID uuid.UUID) (int64, error)

	// CountUnreadForUser counts unread messages authored by sender across the user's requests.
	CountUnreadForUser(ctx context.Context, userID uuid.UUID, sender model.SenderType) (int64, error)

	// CountUnreadByRequest counts unread messages authored by sender, grouped per request.
	CountUnreadByRequest(ctx context.Context, sender model.SenderType) ([]model.RequestUnreadCount, error)
}
