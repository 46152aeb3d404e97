package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/blockplan/blockplan-api/internal/domain"
	"github.com/blockplan/blockplan-api/internal/store"
)

// CreateTaskParams carries the fields of a new task. A zero Position means
// "append after the block's current last task".
type CreateTaskParams struct {
	BlockID          uuid.UUID
	CategoryID       *uuid.UUID
	Title            string
	Description      *string
	EstimatedMinutes int
	Position         int
}

// UpdateTaskParams carries the optional fields of a task update. Nil fields
// are left unchanged. Moving a task to another block re-runs the category
// inheritance rules against the destination block. Completed transitions
// keep the completion timestamp paired: false to true stamps it, true to
// false clears it, and submitting the current value changes nothing.
type UpdateTaskParams struct {
	BlockID          *uuid.UUID
	CategoryID       *uuid.UUID
	Title            *string
	Description      *string
	EstimatedMinutes *int
	ActualMinutes    *int
	Completed        *bool
	Position         *int
}

// TaskPositionUpdate pairs a task with its new position in a batch reorder.
type TaskPositionUpdate struct {
	ID       uuid.UUID
	Position int
}

// ReorderPolicy decides how a batch reorder treats IDs that resolve to no
// stored row.
type ReorderPolicy int

const (
	// SkipUnknown silently skips IDs that do not exist; the rest of the
	// batch still applies.
	SkipUnknown ReorderPolicy = iota

	// FailOnUnknown aborts the whole batch when any ID does not exist.
	FailOnUnknown
)

// TaskService provides task-related operations.
type TaskService interface {
	// CreateTask creates a new task inside a block, resolving its category
	// per the block's inheritance rules.
	CreateTask(ctx context.Context, params CreateTaskParams) (*domain.Task, error)

	// GetTask retrieves a task by its ID.
	GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ListTasks retrieves tasks per the given filters.
	ListTasks(ctx context.Context, params store.ListTasksParams) ([]*domain.Task, error)

	// UpdateTask applies a partial update to a task.
	UpdateTask(ctx context.Context, id uuid.UUID, params UpdateTaskParams) (*domain.Task, error)

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, id uuid.UUID) error

	// CompleteTask marks a task complete, recording actual minutes when
	// supplied. Completing an already-complete task refreshes its timestamp.
	CompleteTask(ctx context.Context, id uuid.UUID, actualMinutes *int) (*domain.Task, error)

	// UncompleteTask marks a task incomplete, preserving tracked minutes.
	UncompleteTask(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ReorderTasks applies a batch of position updates atomically and
	// returns how many tasks were repositioned.
	ReorderTasks(ctx context.Context, updates []TaskPositionUpdate, policy ReorderPolicy) (int, error)

	// BulkComplete marks every existing task in ids complete and returns
	// how many were resolved. Unknown IDs are skipped.
	BulkComplete(ctx context.Context, ids []uuid.UUID) (int, error)

	// BulkUncomplete marks every existing task in ids incomplete and
	// returns how many were resolved. Unknown IDs are skipped.
	BulkUncomplete(ctx context.Context, ids []uuid.UUID) (int, error)
}

// taskServiceImpl implements the TaskService interface.
type taskServiceImpl struct {
	tasks     store.TaskStore
	blocks    store.BlockStore
	validator *CategoryValidator
	txRunner  TxRunner
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	tasks store.TaskStore,
	blocks store.BlockStore,
	validator *CategoryValidator,
	txRunner TxRunner,
	logger *slog.Logger,
) (TaskService, error) {
	if tasks == nil {
		return nil, &ServiceError{Service: "task", Operation: "create_service", Message: "tasks store cannot be nil"}
	}
	if blocks == nil {
		return nil, &ServiceError{Service: "task", Operation: "create_service", Message: "blocks store cannot be nil"}
	}
	if validator == nil {
		return nil, &ServiceError{Service: "task", Operation: "create_service", Message: "validator cannot be nil"}
	}
	if txRunner == nil {
		return nil, &ServiceError{Service: "task", Operation: "create_service", Message: "txRunner cannot be nil"}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		tasks:     tasks,
		blocks:    blocks,
		validator: validator,
		txRunner:  txRunner,
		logger:    logger.With("component", "task_service"),
	}, nil
}

// CreateTask creates a new task inside a block.
func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*domain.Task, error) {
	block, err := s.blocks.GetByID(ctx, params.BlockID)
	if err != nil {
		return nil, newServiceError("task", "create_task", "failed to retrieve block", err)
	}

	categoryID, err := s.validator.Resolve(ctx, block, params.CategoryID)
	if err != nil {
		return nil, newServiceError("task", "create_task", "category resolution failed", err)
	}

	position := params.Position
	if position == 0 {
		max, err := s.tasks.MaxPosition(ctx, block.ID)
		if err != nil {
			return nil, newServiceError("task", "create_task", "failed to determine position", err)
		}
		if max != nil {
			position = *max + 1
		}
	}

	task, err := domain.NewTask(
		block.ID,
		categoryID,
		params.Title,
		params.Description,
		params.EstimatedMinutes,
		position,
	)
	if err != nil {
		return nil, newServiceError("task", "create_task", "invalid task", err)
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		s.logger.Error("failed to create task",
			"error", err,
			"block_id", block.ID,
			"task_id", task.ID)
		return nil, newServiceError("task", "create_task", "failed to save task", err)
	}

	s.logger.Info("task created",
		"task_id", task.ID,
		"block_id", block.ID,
		"position", task.Position)
	return task, nil
}

// GetTask retrieves a task by its ID.
func (s *taskServiceImpl) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, newServiceError("task", "get_task", "failed to retrieve task", err)
	}
	return task, nil
}

// ListTasks retrieves tasks per the given filters.
func (s *taskServiceImpl) ListTasks(ctx context.Context, params store.ListTasksParams) ([]*domain.Task, error) {
	tasks, err := s.tasks.List(ctx, params)
	if err != nil {
		return nil, newServiceError("task", "list_tasks", "failed to list tasks", err)
	}
	return tasks, nil
}

// UpdateTask applies a partial update to a task. A block change re-runs the
// category rules against the destination block, so a task can never slip
// into a block whose category it conflicts with.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	id uuid.UUID,
	params UpdateTaskParams,
) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, newServiceError("task", "update_task", "failed to retrieve task", err)
	}

	switch {
	case params.BlockID != nil && *params.BlockID != task.BlockID:
		destination, err := s.blocks.GetByID(ctx, *params.BlockID)
		if err != nil {
			return nil, newServiceError("task", "update_task", "failed to retrieve destination block", err)
		}

		submitted := params.CategoryID
		if submitted == nil {
			submitted = &task.CategoryID
		}
		categoryID, err := s.validator.Resolve(ctx, destination, submitted)
		if err != nil {
			return nil, newServiceError("task", "update_task", "category resolution failed", err)
		}

		task.BlockID = destination.ID
		task.CategoryID = categoryID

	case params.CategoryID != nil && *params.CategoryID != task.CategoryID:
		block, err := s.blocks.GetByID(ctx, task.BlockID)
		if err != nil {
			return nil, newServiceError("task", "update_task", "failed to retrieve block", err)
		}

		categoryID, err := s.validator.Resolve(ctx, block, params.CategoryID)
		if err != nil {
			return nil, newServiceError("task", "update_task", "category resolution failed", err)
		}
		task.CategoryID = categoryID
	}

	if params.Title != nil {
		task.Title = *params.Title
	}
	if params.Description != nil {
		task.Description = params.Description
	}
	if params.EstimatedMinutes != nil {
		task.EstimatedMinutes = *params.EstimatedMinutes
	}
	if params.ActualMinutes != nil {
		task.ActualMinutes = params.ActualMinutes
	}
	if params.Position != nil {
		task.Position = *params.Position
	}
	if params.Completed != nil && *params.Completed != task.Completed {
		if *params.Completed {
			task.Complete(time.Now().UTC(), nil)
		} else {
			task.Uncomplete()
		}
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		s.logger.Error("failed to update task",
			"error", err,
			"task_id", id)
		return nil, newServiceError("task", "update_task", "failed to save task", err)
	}

	return task, nil
}

// DeleteTask removes a task.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return newServiceError("task", "delete_task", "failed to delete task", err)
	}

	s.logger.Info("task deleted", "task_id", id)
	return nil
}

// CompleteTask marks a task complete.
func (s *taskServiceImpl) CompleteTask(
	ctx context.Context,
	id uuid.UUID,
	actualMinutes *int,
) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, newServiceError("task", "complete_task", "failed to retrieve task", err)
	}

	task.Complete(time.Now().UTC(), actualMinutes)

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, newServiceError("task", "complete_task", "failed to save task", err)
	}

	s.logger.Info("task completed", "task_id", id)
	return task, nil
}

// UncompleteTask marks a task incomplete. Tracked minutes survive, so a
// mistaken completion can be undone without losing data.
func (s *taskServiceImpl) UncompleteTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, newServiceError("task", "uncomplete_task", "failed to retrieve task", err)
	}

	task.Uncomplete()

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, newServiceError("task", "uncomplete_task", "failed to save task", err)
	}

	s.logger.Info("task uncompleted", "task_id", id)
	return task, nil
}

// ReorderTasks applies a batch of position updates inside one transaction.
// Either every update in the batch lands or none do.
func (s *taskServiceImpl) ReorderTasks(
	ctx context.Context,
	updates []TaskPositionUpdate,
	policy ReorderPolicy,
) (int, error) {
	applied := 0
	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)
		applied = 0

		for _, update := range updates {
			if update.Position < 0 {
				return fmt.Errorf("task %s: %w", update.ID, domain.ErrTaskPositionNegative)
			}

			ok, err := txTasks.SetPosition(ctx, update.ID, update.Position)
			if err != nil {
				return err
			}
			if !ok {
				if policy == FailOnUnknown {
					return fmt.Errorf("task %s: %w", update.ID, store.ErrTaskNotFound)
				}
				continue
			}
			applied++
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("task reorder failed",
			"error", err,
			"updates", len(updates))
		return 0, newServiceError("task", "reorder_tasks", "failed to reorder tasks", err)
	}

	s.logger.Info("tasks reordered",
		"requested", len(updates),
		"applied", applied)
	return applied, nil
}

// BulkComplete marks every existing task in ids complete.
func (s *taskServiceImpl) BulkComplete(ctx context.Context, ids []uuid.UUID) (int, error) {
	now := time.Now().UTC()
	return s.bulkTransition(ctx, "bulk_complete", ids, func(task *domain.Task) {
		task.Complete(now, nil)
	})
}

// BulkUncomplete marks every existing task in ids incomplete.
func (s *taskServiceImpl) BulkUncomplete(ctx context.Context, ids []uuid.UUID) (int, error) {
	return s.bulkTransition(ctx, "bulk_uncomplete", ids, func(task *domain.Task) {
		task.Uncomplete()
	})
}

// bulkTransition applies a state change to every task in ids inside one
// transaction. IDs that resolve to no row are skipped; the return value is
// the number of tasks the transition actually reached.
func (s *taskServiceImpl) bulkTransition(
	ctx context.Context,
	operation string,
	ids []uuid.UUID,
	transition func(*domain.Task),
) (int, error) {
	resolved := 0
	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)
		resolved = 0

		for _, id := range ids {
			task, err := txTasks.GetByID(ctx, id)
			if err != nil {
				if errors.Is(err, store.ErrTaskNotFound) {
					continue
				}
				return err
			}

			transition(task)
			if err := txTasks.Update(ctx, task); err != nil {
				return err
			}
			resolved++
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("bulk task transition failed",
			"error", err,
			"operation", operation,
			"requested", len(ids))
		return 0, newServiceError("task", operation, "failed to update tasks", err)
	}

	s.logger.Info("bulk task transition applied",
		"operation", operation,
		"requested", len(ids),
		"resolved", resolved)
	return resolved, nil
}
