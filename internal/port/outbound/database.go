package outbound

import (
	"context"
	"errors"
)

// ErrDuplicate is returned by database adapters when an insert violates a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

// TransactionPort runs a unit of work atomically.
// Adapters called with the ctx passed to fn participate in the transaction.
type TransactionPort interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
