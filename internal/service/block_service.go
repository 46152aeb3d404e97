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

// CreateBlockParams carries the fields of a new block. A nil BlockNumber
// means "append at the back of the queue".
type CreateBlockParams struct {
	Title       string
	Description *string
	BlockNumber *int
	DayNumber   *int
	CategoryID  *uuid.UUID
}

// UpdateBlockParams carries the optional fields of a block update. Nil
// fields are left unchanged.
type UpdateBlockParams struct {
	Title       *string
	Description *string
	BlockNumber *int
	DayNumber   *int
	CategoryID  *uuid.UUID
}

// BlockNumberUpdate pairs a block with its new queue number in a batch
// reorder.
type BlockNumberUpdate struct {
	ID          uuid.UUID
	BlockNumber int
}

// BlockWithTasks is a block together with its tasks in position order.
type BlockWithTasks struct {
	Block *domain.Block  `json:"block"`
	Tasks []*domain.Task `json:"tasks"`
}

// NextBlock is the front of the work queue: the lowest-numbered block with
// incomplete tasks, plus its progress rollup.
type NextBlock struct {
	Block    *domain.Block       `json:"block"`
	Progress store.BlockProgress `json:"progress"`
}

// RecurrenceSummary reports what one complete-and-reset cycle did to a
// block.
type RecurrenceSummary struct {
	BlockID        uuid.UUID `json:"block_id"`
	BlockTitle     string    `json:"block_title"`
	TasksCompleted int       `json:"tasks_completed"`
	TasksReset     int       `json:"tasks_reset"`
	NewBlockNumber *int      `json:"new_block_number,omitempty"`
	MovedToEnd     bool      `json:"moved_to_end"`
}

// BlockService provides block-related operations, including the queue and
// recurrence mechanics built on block numbers.
type BlockService interface {
	// CreateBlock creates a new block, assigning the next queue number when
	// none is given.
	CreateBlock(ctx context.Context, params CreateBlockParams) (*domain.Block, error)

	// GetBlock retrieves a block by its ID.
	GetBlock(ctx context.Context, id uuid.UUID) (*domain.Block, error)

	// GetBlockWithTasks retrieves a block together with its tasks in
	// position order.
	GetBlockWithTasks(ctx context.Context, id uuid.UUID) (*BlockWithTasks, error)

	// ListBlocks retrieves blocks per the given params.
	ListBlocks(ctx context.Context, params store.ListBlocksParams) ([]*domain.Block, error)

	// UpdateBlock applies a partial update to a block.
	UpdateBlock(ctx context.Context, id uuid.UUID, params UpdateBlockParams) (*domain.Block, error)

	// DeleteBlock removes a block and, by schema cascade, its tasks.
	DeleteBlock(ctx context.Context, id uuid.UUID) error

	// CloneBlock duplicates a block under a "(Copy)" title at the back of
	// the queue. With includeTasks, the source's tasks are duplicated as
	// fresh, incomplete tasks.
	CloneBlock(ctx context.Context, id uuid.UUID, includeTasks bool) (*BlockWithTasks, error)

	// MoveToEnd requeues a block at the back of the number cycle and
	// returns it with its new number.
	MoveToEnd(ctx context.Context, id uuid.UUID) (*domain.Block, error)

	// ResetTasks resets every completed task in the block and returns how
	// many were reset.
	ResetTasks(ctx context.Context, id uuid.UUID) (int, error)

	// CompleteAndReset runs one recurrence cycle on a block: complete the
	// remaining tasks, reset all of them for the next pass, and optionally
	// requeue the block at the back. The whole cycle is atomic.
	CompleteAndReset(ctx context.Context, id uuid.UUID, moveToEnd bool) (*RecurrenceSummary, error)

	// ReorderBlocks applies a batch of queue number updates atomically and
	// returns how many blocks were renumbered.
	ReorderBlocks(ctx context.Context, updates []BlockNumberUpdate, policy ReorderPolicy) (int, error)

	// NextBlock returns the front of the work queue.
	// Returns ErrNoActiveBlocks when every task everywhere is complete.
	NextBlock(ctx context.Context) (*NextBlock, error)

	// ActiveBlocks returns the blocks that still have incomplete tasks,
	// optionally filtered by day number.
	ActiveBlocks(ctx context.Context, dayNumber *int) ([]*domain.Block, error)

	// Statistics returns the aggregate counts over all blocks.
	Statistics(ctx context.Context) (store.QueueStatistics, error)
}

// blockServiceImpl implements the BlockService interface.
type blockServiceImpl struct {
	blocks     store.BlockStore
	tasks      store.TaskStore
	categories store.CategoryStore
	stats      store.StatsStore
	txRunner   TxRunner
	logger     *slog.Logger
}

// NewBlockService creates a new BlockService.
// It returns an error if any of the required dependencies are nil.
func NewBlockService(
	blocks store.BlockStore,
	tasks store.TaskStore,
	categories store.CategoryStore,
	stats store.StatsStore,
	txRunner TxRunner,
	logger *slog.Logger,
) (BlockService, error) {
	if blocks == nil {
		return nil, &ServiceError{Service: "block", Operation: "create_service", Message: "blocks store cannot be nil"}
	}
	if tasks == nil {
		return nil, &ServiceError{Service: "block", Operation: "create_service", Message: "tasks store cannot be nil"}
	}
	if categories == nil {
		return nil, &ServiceError{Service: "block", Operation: "create_service", Message: "categories store cannot be nil"}
	}
	if stats == nil {
		return nil, &ServiceError{Service: "block", Operation: "create_service", Message: "stats store cannot be nil"}
	}
	if txRunner == nil {
		return nil, &ServiceError{Service: "block", Operation: "create_service", Message: "txRunner cannot be nil"}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &blockServiceImpl{
		blocks:     blocks,
		tasks:      tasks,
		categories: categories,
		stats:      stats,
		txRunner:   txRunner,
		logger:     logger.With("component", "block_service"),
	}, nil
}

// CreateBlock creates a new block at the given or next queue slot.
func (s *blockServiceImpl) CreateBlock(ctx context.Context, params CreateBlockParams) (*domain.Block, error) {
	if params.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *params.CategoryID); err != nil {
			return nil, newServiceError("block", "create_block", "failed to retrieve category", err)
		}
	}

	blockNumber := params.BlockNumber
	if blockNumber == nil {
		next, err := s.nextQueueNumber(ctx, s.blocks)
		if err != nil {
			return nil, newServiceError("block", "create_block", "failed to determine queue number", err)
		}
		blockNumber = &next
	}

	block, err := domain.NewBlock(
		params.Title,
		params.Description,
		blockNumber,
		params.DayNumber,
		params.CategoryID,
	)
	if err != nil {
		return nil, newServiceError("block", "create_block", "invalid block", err)
	}

	if err := s.blocks.Create(ctx, block); err != nil {
		s.logger.Error("failed to create block",
			"error", err,
			"block_id", block.ID)
		return nil, newServiceError("block", "create_block", "failed to save block", err)
	}

	s.logger.Info("block created",
		"block_id", block.ID,
		"block_number", *blockNumber)
	return block, nil
}

// GetBlock retrieves a block by its ID.
func (s *blockServiceImpl) GetBlock(ctx context.Context, id uuid.UUID) (*domain.Block, error) {
	block, err := s.blocks.GetByID(ctx, id)
	if err != nil {
		return nil, newServiceError("block", "get_block", "failed to retrieve block", err)
	}
	return block, nil
}

// GetBlockWithTasks retrieves a block with its tasks in position order.
func (s *blockServiceImpl) GetBlockWithTasks(ctx context.Context, id uuid.UUID) (*BlockWithTasks, error) {
	block, err := s.blocks.GetByID(ctx, id)
	if err != nil {
		return nil, newServiceError("block", "get_block_with_tasks", "failed to retrieve block", err)
	}

	tasks, err := s.tasks.ListByBlock(ctx, id)
	if err != nil {
		return nil, newServiceError("block", "get_block_with_tasks", "failed to list tasks", err)
	}

	return &BlockWithTasks{Block: block, Tasks: tasks}, nil
}

// ListBlocks retrieves blocks per the given params.
func (s *blockServiceImpl) ListBlocks(ctx context.Context, params store.ListBlocksParams) ([]*domain.Block, error) {
	blocks, err := s.blocks.List(ctx, params)
	if err != nil {
		return nil, newServiceError("block", "list_blocks", "failed to list blocks", err)
	}
	return blocks, nil
}

// UpdateBlock applies a partial update to a block.
func (s *blockServiceImpl) UpdateBlock(
	ctx context.Context,
	id uuid.UUID,
	params UpdateBlockParams,
) (*domain.Block, error) {
	block, err := s.blocks.GetByID(ctx, id)
	if err != nil {
		return nil, newServiceError("block", "update_block", "failed to retrieve block", err)
	}

	// Assigning a category never rewrites the block's existing tasks;
	// inheritance applies to task creation and task moves only.
	if params.CategoryID != nil && (block.CategoryID == nil || *params.CategoryID != *block.CategoryID) {
		if _, err := s.categories.GetByID(ctx, *params.CategoryID); err != nil {
			return nil, newServiceError("block", "update_block", "failed to retrieve category", err)
		}
		block.CategoryID = params.CategoryID
	}

	if params.Title != nil {
		block.Title = *params.Title
	}
	if params.Description != nil {
		block.Description = params.Description
	}
	if params.BlockNumber != nil {
		block.BlockNumber = params.BlockNumber
	}
	if params.DayNumber != nil {
		block.DayNumber = params.DayNumber
	}

	if err := s.blocks.Update(ctx, block); err != nil {
		s.logger.Error("failed to update block",
			"error", err,
			"block_id", id)
		return nil, newServiceError("block", "update_block", "failed to save block", err)
	}

	return block, nil
}

// DeleteBlock removes a block and its tasks.
func (s *blockServiceImpl) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	if err := s.blocks.Delete(ctx, id); err != nil {
		return newServiceError("block", "delete_block", "failed to delete block", err)
	}

	s.logger.Info("block deleted", "block_id", id)
	return nil
}

// CloneBlock duplicates a block at the back of the queue. The clone and its
// task copies are created in one transaction.
func (s *blockServiceImpl) CloneBlock(
	ctx context.Context,
	id uuid.UUID,
	includeTasks bool,
) (*BlockWithTasks, error) {
	var result *BlockWithTasks

	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txBlocks := s.blocks.WithTx(tx)
		txTasks := s.tasks.WithTx(tx)

		source, err := txBlocks.GetByID(ctx, id)
		if err != nil {
			return err
		}

		next, err := s.nextQueueNumber(ctx, txBlocks)
		if err != nil {
			return err
		}

		clone, err := domain.NewBlock(
			source.CloneTitle(),
			source.Description,
			&next,
			source.DayNumber,
			source.CategoryID,
		)
		if err != nil {
			return err
		}

		if err := txBlocks.Create(ctx, clone); err != nil {
			return err
		}

		copies := make([]*domain.Task, 0)
		if includeTasks {
			sourceTasks, err := txTasks.ListByBlock(ctx, source.ID)
			if err != nil {
				return err
			}

			for _, task := range sourceTasks {
				// Copies start a fresh cycle: incomplete, no tracked time.
				duplicate, err := domain.NewTask(
					clone.ID,
					task.CategoryID,
					task.Title,
					task.Description,
					task.EstimatedMinutes,
					task.Position,
				)
				if err != nil {
					return err
				}
				if err := txTasks.Create(ctx, duplicate); err != nil {
					return err
				}
				copies = append(copies, duplicate)
			}
		}

		result = &BlockWithTasks{Block: clone, Tasks: copies}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to clone block",
			"error", err,
			"block_id", id)
		return nil, newServiceError("block", "clone_block", "failed to clone block", err)
	}

	s.logger.Info("block cloned",
		"source_block_id", id,
		"clone_block_id", result.Block.ID,
		"tasks_copied", len(result.Tasks))
	return result, nil
}

// MoveToEnd requeues a block at the back of the number cycle.
func (s *blockServiceImpl) MoveToEnd(ctx context.Context, id uuid.UUID) (*domain.Block, error) {
	assigned, err := s.blocks.AssignCycledNumber(ctx, id, domain.QueueCycleSize)
	if err != nil {
		return nil, newServiceError("block", "move_to_end", "failed to requeue block", err)
	}

	block, err := s.blocks.GetByID(ctx, id)
	if err != nil {
		return nil, newServiceError("block", "move_to_end", "failed to retrieve block", err)
	}

	s.logger.Info("block moved to end",
		"block_id", id,
		"block_number", assigned)
	return block, nil
}

// ResetTasks resets every completed task in the block.
func (s *blockServiceImpl) ResetTasks(ctx context.Context, id uuid.UUID) (int, error) {
	if _, err := s.blocks.GetByID(ctx, id); err != nil {
		return 0, newServiceError("block", "reset_tasks", "failed to retrieve block", err)
	}

	reset, err := s.tasks.ResetCompleted(ctx, id)
	if err != nil {
		return 0, newServiceError("block", "reset_tasks", "failed to reset tasks", err)
	}

	s.logger.Info("block tasks reset",
		"block_id", id,
		"tasks_reset", reset)
	return reset, nil
}

// CompleteAndReset runs one recurrence cycle on a block. Remaining tasks are
// completed first so their count is reported, then every task is reset for
// the next pass, and the block is optionally requeued. All of it happens in
// one transaction; a failure leaves the block untouched.
func (s *blockServiceImpl) CompleteAndReset(
	ctx context.Context,
	id uuid.UUID,
	moveToEnd bool,
) (*RecurrenceSummary, error) {
	var summary *RecurrenceSummary

	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txBlocks := s.blocks.WithTx(tx)
		txTasks := s.tasks.WithTx(tx)

		block, err := txBlocks.GetByID(ctx, id)
		if err != nil {
			return err
		}

		now := time.Now().UTC()

		completed, err := txTasks.CompleteIncomplete(ctx, id, now)
		if err != nil {
			return err
		}

		reset, err := txTasks.ResetCompleted(ctx, id)
		if err != nil {
			return err
		}

		if moveToEnd {
			assigned, err := txBlocks.AssignCycledNumber(ctx, id, domain.QueueCycleSize)
			if err != nil {
				return err
			}
			block.BlockNumber = &assigned
		}

		block.LastCompletedAt = &now
		if err := txBlocks.Update(ctx, block); err != nil {
			return err
		}

		summary = &RecurrenceSummary{
			BlockID:        block.ID,
			BlockTitle:     block.Title,
			TasksCompleted: completed,
			TasksReset:     reset,
			NewBlockNumber: block.BlockNumber,
			MovedToEnd:     moveToEnd,
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to complete and reset block",
			"error", err,
			"block_id", id)
		return nil, newServiceError("block", "complete_and_reset", "recurrence cycle failed", err)
	}

	s.logger.Info("block completed and reset",
		"block_id", id,
		"tasks_completed", summary.TasksCompleted,
		"tasks_reset", summary.TasksReset,
		"moved_to_end", moveToEnd)
	return summary, nil
}

// ReorderBlocks applies a batch of queue number updates inside one
// transaction. Either every update lands or none do.
func (s *blockServiceImpl) ReorderBlocks(
	ctx context.Context,
	updates []BlockNumberUpdate,
	policy ReorderPolicy,
) (int, error) {
	applied := 0
	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txBlocks := s.blocks.WithTx(tx)
		applied = 0

		for _, update := range updates {
			ok, err := txBlocks.SetNumber(ctx, update.ID, update.BlockNumber)
			if err != nil {
				return err
			}
			if !ok {
				if policy == FailOnUnknown {
					return fmt.Errorf("block %s: %w", update.ID, store.ErrBlockNotFound)
				}
				continue
			}
			applied++
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("block reorder failed",
			"error", err,
			"updates", len(updates))
		return 0, newServiceError("block", "reorder_blocks", "failed to reorder blocks", err)
	}

	s.logger.Info("blocks reordered",
		"requested", len(updates),
		"applied", applied)
	return applied, nil
}

// NextBlock returns the front of the work queue with its progress rollup.
func (s *blockServiceImpl) NextBlock(ctx context.Context) (*NextBlock, error) {
	block, err := s.blocks.NextActive(ctx)
	if err != nil {
		if errors.Is(err, store.ErrBlockNotFound) {
			return nil, ErrNoActiveBlocks
		}
		return nil, newServiceError("block", "next_block", "failed to find next block", err)
	}

	progress, err := s.stats.BlockProgress(ctx, block.ID)
	if err != nil {
		return nil, newServiceError("block", "next_block", "failed to compute progress", err)
	}

	return &NextBlock{Block: block, Progress: progress}, nil
}

// ActiveBlocks returns the blocks that still have incomplete tasks.
func (s *blockServiceImpl) ActiveBlocks(ctx context.Context, dayNumber *int) ([]*domain.Block, error) {
	blocks, err := s.blocks.ActiveBlocks(ctx, dayNumber)
	if err != nil {
		return nil, newServiceError("block", "active_blocks", "failed to list active blocks", err)
	}
	return blocks, nil
}

// Statistics returns the aggregate counts over all blocks.
func (s *blockServiceImpl) Statistics(ctx context.Context) (store.QueueStatistics, error) {
	stats, err := s.blocks.QueueStatistics(ctx)
	if err != nil {
		return store.QueueStatistics{}, newServiceError("block", "statistics", "failed to compute statistics", err)
	}
	return stats, nil
}

// nextQueueNumber returns the queue slot after the current highest block
// number, or 1 for an empty queue.
func (s *blockServiceImpl) nextQueueNumber(ctx context.Context, blocks store.BlockStore) (int, error) {
	max, err := blocks.MaxBlockNumber(ctx)
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 1, nil
	}
	return *max + 1, nil
}
