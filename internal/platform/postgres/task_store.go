package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/blockplan/blockplan-api/internal/domain"
	"github.com/blockplan/blockplan-api/internal/platform/logger"
	"github.com/blockplan/blockplan-api/internal/store"
)

// taskColumns is the select list shared by task queries.
const taskColumns = `id, block_id, category_id, title, description, estimated_minutes, actual_minutes, completed, position, completed_at, created_at`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// scanTask scans one task row from the given scanner.
func scanTask(scan func(dest ...any) error) (*domain.Task, error) {
	var task domain.Task
	err := scan(
		&task.ID,
		&task.BlockID,
		&task.CategoryID,
		&task.Title,
		&task.Description,
		&task.EstimatedMinutes,
		&task.ActualMinutes,
		&task.Completed,
		&task.Position,
		&task.CompletedAt,
		&task.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, block_id, category_id, title, description, estimated_minutes,
		                   actual_minutes, completed, position, completed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.BlockID,
		task.CategoryID,
		task.Title,
		task.Description,
		task.EstimatedMinutes,
		task.ActualMinutes,
		task.Completed,
		task.Position,
		task.CompletedAt,
		task.CreatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: block or category not found", store.ErrInvalidEntity)
		}
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	log.Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("block_id", task.BlockID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	row := s.db.QueryRowContext(ctx, query, id)
	task, err := scanTask(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrTaskNotFound
		}
		return nil, MapError(err)
	}

	return task, nil
}

// List implements store.TaskStore.List
func (s *PostgresTaskStore) List(ctx context.Context, params store.ListTasksParams) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE 1=1`
	args := []any{}

	if params.BlockID != nil {
		args = append(args, *params.BlockID)
		query += fmt.Sprintf(` AND block_id = $%d`, len(args))
	}
	if params.CategoryID != nil {
		args = append(args, *params.CategoryID)
		query += fmt.Sprintf(` AND category_id = $%d`, len(args))
	}
	if params.Completed != nil {
		args = append(args, *params.Completed)
		query += fmt.Sprintf(` AND completed = $%d`, len(args))
	}

	query += ` ORDER BY block_id, position`
	args = append(args, params.Skip, params.Limit)
	query += fmt.Sprintf(` OFFSET $%d LIMIT $%d`, len(args)-1, len(args))

	return s.queryTasks(ctx, query, args...)
}

// ListByBlock implements store.TaskStore.ListByBlock
func (s *PostgresTaskStore) ListByBlock(ctx context.Context, blockID uuid.UUID) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE block_id = $1 ORDER BY position`
	return s.queryTasks(ctx, query, blockID)
}

// Update implements store.TaskStore.Update
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		UPDATE tasks
		SET block_id = $1, category_id = $2, title = $3, description = $4,
		    estimated_minutes = $5, actual_minutes = $6, completed = $7,
		    position = $8, completed_at = $9
		WHERE id = $10
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		task.BlockID,
		task.CategoryID,
		task.Title,
		task.Description,
		task.EstimatedMinutes,
		task.ActualMinutes,
		task.Completed,
		task.Position,
		task.CompletedAt,
		task.ID,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: block or category not found", store.ErrInvalidEntity)
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// MaxPosition implements store.TaskStore.MaxPosition
func (s *PostgresTaskStore) MaxPosition(ctx context.Context, blockID uuid.UUID) (*int, error) {
	var max *int
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(position) FROM tasks WHERE block_id = $1`, blockID).Scan(&max)
	if err != nil {
		return nil, MapError(err)
	}
	return max, nil
}

// SetPosition implements store.TaskStore.SetPosition
// Returns false without error when the task does not exist, leaving the
// skip-or-fail decision to the batch above.
func (s *PostgresTaskStore) SetPosition(ctx context.Context, id uuid.UUID, position int) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET position = $1 WHERE id = $2`, position, id)
	if err != nil {
		return false, MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// CompleteIncomplete implements store.TaskStore.CompleteIncomplete
// Untracked time defaults to the estimate: actual_minutes is coalesced to
// estimated_minutes for tasks completed by this sweep.
func (s *PostgresTaskStore) CompleteIncomplete(ctx context.Context, blockID uuid.UUID, at time.Time) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET completed = TRUE,
		    completed_at = $2,
		    actual_minutes = COALESCE(actual_minutes, estimated_minutes)
		WHERE block_id = $1 AND completed = FALSE
	`
	result, err := s.db.ExecContext(ctx, query, blockID, at.UTC())
	if err != nil {
		log.Error("failed to complete block tasks",
			slog.String("error", err.Error()),
			slog.String("block_id", blockID.String()))
		return 0, MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(affected), nil
}

// ResetCompleted implements store.TaskStore.ResetCompleted
func (s *PostgresTaskStore) ResetCompleted(ctx context.Context, blockID uuid.UUID) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET completed = FALSE, completed_at = NULL, actual_minutes = NULL
		WHERE block_id = $1 AND completed = TRUE
	`
	result, err := s.db.ExecContext(ctx, query, blockID)
	if err != nil {
		log.Error("failed to reset block tasks",
			slog.String("error", err.Error()),
			slog.String("block_id", blockID.String()))
		return 0, MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(affected), nil
}

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// queryTasks runs a query returning task rows and scans them all.
func (s *PostgresTaskStore) queryTasks(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows.Scan)
		if err != nil {
			return nil, MapError(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return tasks, nil
}
