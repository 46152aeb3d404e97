package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/blockplan/blockplan-api/internal/domain"
	"github.com/blockplan/blockplan-api/internal/platform/logger"
	"github.com/blockplan/blockplan-api/internal/store"
)

// PostgresQuoteStore implements the store.QuoteStore interface
// using a PostgreSQL database as the storage backend.
type PostgresQuoteStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresQuoteStore creates a new PostgreSQL implementation of the
// QuoteStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresQuoteStore(db store.DBTX, logger *slog.Logger) *PostgresQuoteStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresQuoteStore{
		db:     db,
		logger: logger.With(slog.String("component", "quote_store")),
	}
}

// Ensure PostgresQuoteStore implements store.QuoteStore interface
var _ store.QuoteStore = (*PostgresQuoteStore)(nil)

// Create implements store.QuoteStore.Create
func (s *PostgresQuoteStore) Create(ctx context.Context, quote *domain.Quote) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := quote.Validate(); err != nil {
		log.Warn("quote validation failed during create",
			slog.String("error", err.Error()),
			slog.String("quote_id", quote.ID.String()))
		return err
	}

	query := `INSERT INTO quotes (id, text, created_at) VALUES ($1, $2, $3)`
	_, err := s.db.ExecContext(ctx, query, quote.ID, quote.Text, quote.CreatedAt)
	if err != nil {
		log.Error("failed to create quote",
			slog.String("error", err.Error()),
			slog.String("quote_id", quote.ID.String()))
		return MapError(err)
	}

	return nil
}

// Latest implements store.QuoteStore.Latest
// Returns store.ErrQuoteNotFound if no quote exists.
func (s *PostgresQuoteStore) Latest(ctx context.Context) (*domain.Quote, error) {
	query := `SELECT id, text, created_at FROM quotes ORDER BY created_at DESC LIMIT 1`

	var quote domain.Quote
	err := s.db.QueryRowContext(ctx, query).Scan(&quote.ID, &quote.Text, &quote.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrQuoteNotFound
		}
		return nil, MapError(err)
	}

	return &quote, nil
}

// WithTx implements store.QuoteStore.WithTx
func (s *PostgresQuoteStore) WithTx(tx *sql.Tx) store.QuoteStore {
	return &PostgresQuoteStore{
		db:     tx,
		logger: s.logger,
	}
}
