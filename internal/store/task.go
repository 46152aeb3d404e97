package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/blockplan/blockplan-api/internal/domain"
	"github.com/google/uuid"
)

// ListTasksParams filters and paginates task listings. Nil filters match
// everything. Results order by block, then position within the block.
type ListTasksParams struct {
	BlockID    *uuid.UUID
	CategoryID *uuid.UUID
	Completed  *bool
	Skip       int
	Limit      int
}

// TaskStore defines the interface for task data persistence, including the
// bulk state transitions the recurrence engine performs per block.
type TaskStore interface {
	// Create saves a new task to the store.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List retrieves tasks per the given params.
	List(ctx context.Context, params ListTasksParams) ([]*domain.Task, error)

	// ListByBlock retrieves all tasks in a block ordered by position.
	ListByBlock(ctx context.Context, blockID uuid.UUID) ([]*domain.Task, error)

	// Update persists the full state of an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// MaxPosition returns the highest position among the block's tasks, or
	// nil when the block has no tasks. Used to append new tasks.
	MaxPosition(ctx context.Context, blockID uuid.UUID) (*int, error)

	// SetPosition updates a single task's position. Returns false (and no
	// error) when the task does not exist, so batch reorders can decide
	// whether unknown IDs are skipped or fail the batch.
	SetPosition(ctx context.Context, id uuid.UUID, position int) (bool, error)

	// CompleteIncomplete marks every incomplete task in the block complete
	// at the given time, defaulting actual_minutes to estimated_minutes
	// where no time was tracked. Returns the number of tasks transitioned.
	CompleteIncomplete(ctx context.Context, blockID uuid.UUID, at time.Time) (int, error)

	// ResetCompleted resets every completed task in the block: completed
	// false, completed_at null, actual_minutes null. Returns the number of
	// tasks reset.
	ResetCompleted(ctx context.Context, blockID uuid.UUID) (int, error)

	// WithTx returns a TaskStore bound to the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
