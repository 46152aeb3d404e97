package store

import (
	"context"
	"database/sql"

	"github.com/blockplan/blockplan-api/internal/domain"
)

// QuoteStore defines the interface for quote persistence.
type QuoteStore interface {
	// Create saves a new quote to the store.
	Create(ctx context.Context, quote *domain.Quote) error

	// Latest retrieves the most recently created quote.
	// Returns ErrQuoteNotFound if no quote exists.
	Latest(ctx context.Context) (*domain.Quote, error)

	// WithTx returns a QuoteStore bound to the provided transaction.
	WithTx(tx *sql.Tx) QuoteStore
}
