package outbound

import (
	"context"

	"github.com/google/uuid"
	"github.com/uniedit/returns/internal/model"
)

// OrderDatabasePort defines the order store operations this service needs.
// Orders are owned by the catalog; only refund-related patches are written here.
type OrderDatabasePort interface {
	// GetByIDWithItems returns the order with its items ordered by position, or nil if absent.
	GetByIDWithItems(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// MarkRefunded sets status and payment status to refunded and appends an audit note.
	MarkRefunded(ctx context.Context, id uuid.UUID, note string) error

	// AppendAdminNote appends a note to the order's admin note log.
	AppendAdminNote(ctx context.Context, id uuid.UUID, note string) error
}
