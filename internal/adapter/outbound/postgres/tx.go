package postgres

import (
	"context"

	"github.com/uniedit/returns/internal/port/outbound"
	"gorm.io/gorm"
)

// txContextKey is used to store transaction in context.
type txContextKeyType struct{}

var txContextKey = txContextKeyType{}

// conn returns the transaction carried by ctx, or db bound to ctx.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// transactionAdapter implements outbound.TransactionPort.
type transactionAdapter struct {
	db *gorm.DB
}

// NewTransactionAdapter creates a new transaction adapter.
func NewTransactionAdapter(db *gorm.DB) outbound.TransactionPort {
	return &transactionAdapter{db: db}
}

func (a *transactionAdapter) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// Already inside a transaction: join it.
	if _, ok := ctx.Value(txContextKey).(*gorm.DB); ok {
		return fn(ctx)
	}
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey, tx))
	})
}

// Compile-time check
var _ outbound.TransactionPort = (*transactionAdapter)(nil)
