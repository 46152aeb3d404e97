package service

import (
	"context"
	"database/sql"

	"github.com/blockplan/blockplan-api/internal/store"
)

// TxRunner executes a function inside a database transaction boundary.
// Services depend on this interface rather than *sql.DB directly so batch
// operations stay testable without a live database.
type TxRunner interface {
	// RunInTransaction commits when fn returns nil and rolls back otherwise.
	RunInTransaction(ctx context.Context, fn store.TxFn) error
}

// dbTxRunner runs transactions against a live database.
type dbTxRunner struct {
	db *sql.DB
}

// NewTxRunner creates a TxRunner backed by the given database handle.
func NewTxRunner(db *sql.DB) TxRunner {
	if db == nil {
		panic("db cannot be nil")
	}
	return &dbTxRunner{db: db}
}

// RunInTransaction implements TxRunner.
func (r *dbTxRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	return store.RunInTransaction(ctx, r.db, fn)
}
