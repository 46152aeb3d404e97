package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/blockplan/blockplan-api/internal/domain"
	"github.com/blockplan/blockplan-api/internal/platform/logger"
	"github.com/blockplan/blockplan-api/internal/store"
)

// blockColumns is the select list shared by block queries.
const blockColumns = `id, title, description, block_number, day_number, category_id, created_at, last_completed_at`

// PostgresBlockStore implements the store.BlockStore interface
// using a PostgreSQL database as the storage backend.
type PostgresBlockStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBlockStore creates a new PostgreSQL implementation of the
// BlockStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresBlockStore(db store.DBTX, logger *slog.Logger) *PostgresBlockStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBlockStore{
		db:     db,
		logger: logger.With(slog.String("component", "block_store")),
	}
}

// Ensure PostgresBlockStore implements store.BlockStore interface
var _ store.BlockStore = (*PostgresBlockStore)(nil)

// scanBlock scans one block row from the given scanner.
func scanBlock(scan func(dest ...any) error) (*domain.Block, error) {
	var block domain.Block
	err := scan(
		&block.ID,
		&block.Title,
		&block.Description,
		&block.BlockNumber,
		&block.DayNumber,
		&block.CategoryID,
		&block.CreatedAt,
		&block.LastCompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &block, nil
}

// Create implements store.BlockStore.Create
func (s *PostgresBlockStore) Create(ctx context.Context, block *domain.Block) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := block.Validate(); err != nil {
		log.Warn("block validation failed during create",
			slog.String("error", err.Error()),
			slog.String("block_id", block.ID.String()))
		return err
	}

	query := `
		INSERT INTO blocks (id, title, description, block_number, day_number, category_id, created_at, last_completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		block.ID,
		block.Title,
		block.Description,
		block.BlockNumber,
		block.DayNumber,
		block.CategoryID,
		block.CreatedAt,
		block.LastCompletedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: category %v not found", store.ErrInvalidEntity, block.CategoryID)
		}
		log.Error("failed to create block",
			slog.String("error", err.Error()),
			slog.String("block_id", block.ID.String()))
		return MapError(err)
	}

	log.Debug("block created",
		slog.String("block_id", block.ID.String()),
		slog.String("title", block.Title))
	return nil
}

// GetByID implements store.BlockStore.GetByID
// Returns store.ErrBlockNotFound if the block does not exist.
func (s *PostgresBlockStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Block, error) {
	query := `SELECT ` + blockColumns + ` FROM blocks WHERE id = $1`

	row := s.db.QueryRowContext(ctx, query, id)
	block, err := scanBlock(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrBlockNotFound
		}
		return nil, MapError(err)
	}

	return block, nil
}

// List implements store.BlockStore.List
func (s *PostgresBlockStore) List(ctx context.Context, params store.ListBlocksParams) ([]*domain.Block, error) {
	orderBy := "block_number"
	if params.OrderBy == store.OrderBlocksByCreatedAt {
		orderBy = "created_at"
	}

	query := `SELECT ` + blockColumns + ` FROM blocks`
	args := []any{}

	if params.DayNumber != nil {
		query += ` WHERE day_number = $1`
		args = append(args, *params.DayNumber)
	}

	// orderBy is constrained to the two known columns above.
	query += ` ORDER BY ` + orderBy
	query += fmt.Sprintf(` OFFSET $%d LIMIT $%d`, len(args)+1, len(args)+2)
	args = append(args, params.Skip, params.Limit)

	return s.queryBlocks(ctx, query, args...)
}

// Update implements store.BlockStore.Update
// Returns store.ErrBlockNotFound if the block does not exist.
func (s *PostgresBlockStore) Update(ctx context.Context, block *domain.Block) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := block.Validate(); err != nil {
		log.Warn("block validation failed during update",
			slog.String("error", err.Error()),
			slog.String("block_id", block.ID.String()))
		return err
	}

	query := `
		UPDATE blocks
		SET title = $1, description = $2, block_number = $3, day_number = $4,
		    category_id = $5, last_completed_at = $6
		WHERE id = $7
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		block.Title,
		block.Description,
		block.BlockNumber,
		block.DayNumber,
		block.CategoryID,
		block.LastCompletedAt,
		block.ID,
	)
	if err != nil {
		log.Error("failed to update block",
			slog.String("error", err.Error()),
			slog.String("block_id", block.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrBlockNotFound)
}

// Delete implements store.BlockStore.Delete
// The schema cascades the delete to the block's tasks.
func (s *PostgresBlockStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM blocks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete block",
			slog.String("error", err.Error()),
			slog.String("block_id", id.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrBlockNotFound)
}

// SetNumber implements store.BlockStore.SetNumber
// Returns false without error when the block does not exist, leaving the
// skip-or-fail decision to the batch above.
func (s *PostgresBlockStore) SetNumber(ctx context.Context, id uuid.UUID, blockNumber int) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE blocks SET block_number = $1 WHERE id = $2`, blockNumber, id)
	if err != nil {
		return false, MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// MaxBlockNumber implements store.BlockStore.MaxBlockNumber
func (s *PostgresBlockStore) MaxBlockNumber(ctx context.Context) (*int, error) {
	var max *int
	err := s.db.QueryRowContext(ctx, `SELECT MAX(block_number) FROM blocks`).Scan(&max)
	if err != nil {
		return nil, MapError(err)
	}
	return max, nil
}

// AssignCycledNumber implements store.BlockStore.AssignCycledNumber
// The maximum is read and the new number written in one statement, so two
// concurrent requeues cannot both compute from the same stale maximum; the
// row lock taken by the first UPDATE serializes the second. The SET clause
// evaluates domain.NextCycledNumber in SQL.
func (s *PostgresBlockStore) AssignCycledNumber(ctx context.Context, id uuid.UUID, cycle int) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE blocks
		SET block_number = COALESCE((SELECT MAX(block_number) FROM blocks) % $2, 0) + 1
		WHERE id = $1
		RETURNING block_number
	`
	var assigned int
	err := s.db.QueryRowContext(ctx, query, id, cycle).Scan(&assigned)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, store.ErrBlockNotFound
		}
		log.Error("failed to assign cycled block number",
			slog.String("error", err.Error()),
			slog.String("block_id", id.String()))
		return 0, MapError(err)
	}

	log.Debug("block requeued",
		slog.String("block_id", id.String()),
		slog.Int("block_number", assigned))
	return assigned, nil
}

// ActiveBlocks implements store.BlockStore.ActiveBlocks
func (s *PostgresBlockStore) ActiveBlocks(ctx context.Context, dayNumber *int) ([]*domain.Block, error) {
	query := `
		SELECT DISTINCT b.id, b.title, b.description, b.block_number, b.day_number,
		       b.category_id, b.created_at, b.last_completed_at
		FROM blocks b
		JOIN tasks t ON t.block_id = b.id
		WHERE t.completed = FALSE
	`
	args := []any{}
	if dayNumber != nil {
		query += ` AND b.day_number = $1`
		args = append(args, *dayNumber)
	}
	query += ` ORDER BY b.block_number`

	return s.queryBlocks(ctx, query, args...)
}

// NextActive implements store.BlockStore.NextActive
// Returns store.ErrBlockNotFound when no block has incomplete tasks.
func (s *PostgresBlockStore) NextActive(ctx context.Context) (*domain.Block, error) {
	query := `
		SELECT DISTINCT b.id, b.title, b.description, b.block_number, b.day_number,
		       b.category_id, b.created_at, b.last_completed_at
		FROM blocks b
		JOIN tasks t ON t.block_id = b.id
		WHERE t.completed = FALSE
		ORDER BY b.block_number
		LIMIT 1
	`
	row := s.db.QueryRowContext(ctx, query)
	block, err := scanBlock(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrBlockNotFound
		}
		return nil, MapError(err)
	}

	return block, nil
}

// QueueStatistics implements store.BlockStore.QueueStatistics
func (s *PostgresBlockStore) QueueStatistics(ctx context.Context) (store.QueueStatistics, error) {
	query := `
		SELECT
			COUNT(*) AS total_blocks,
			COUNT(*) FILTER (WHERE task_count > 0 AND incomplete_count = 0) AS completed_blocks,
			COUNT(*) FILTER (WHERE incomplete_count > 0) AS active_blocks,
			COUNT(*) FILTER (WHERE task_count = 0) AS blocks_with_no_tasks
		FROM (
			SELECT b.id,
			       COUNT(t.id) AS task_count,
			       COUNT(t.id) FILTER (WHERE t.completed = FALSE) AS incomplete_count
			FROM blocks b
			LEFT JOIN tasks t ON t.block_id = b.id
			GROUP BY b.id
		) per_block
	`
	var stats store.QueueStatistics
	err := s.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalBlocks,
		&stats.CompletedBlocks,
		&stats.ActiveBlocks,
		&stats.BlocksWithNoTasks,
	)
	if err != nil {
		return store.QueueStatistics{}, MapError(err)
	}

	return stats, nil
}

// WithTx implements store.BlockStore.WithTx
func (s *PostgresBlockStore) WithTx(tx *sql.Tx) store.BlockStore {
	return &PostgresBlockStore{
		db:     tx,
		logger: s.logger,
	}
}

// queryBlocks runs a query returning block rows and scans them all.
func (s *PostgresBlockStore) queryBlocks(ctx context.Context, query string, args ...any) ([]*domain.Block, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	blocks := make([]*domain.Block, 0)
	for rows.Next() {
		block, err := scanBlock(rows.Scan)
		if err != nil {
			return nil, MapError(err)
		}
		blocks = append(blocks, block)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return blocks, nil
}
