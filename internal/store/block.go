package store

import (
	"context"
	"database/sql"

	"github.com/blockplan/blockplan-api/internal/domain"
	"github.com/google/uuid"
)

// Block list ordering keys accepted by ListBlocksParams.OrderBy.
const (
	OrderBlocksByNumber    = "block_number"
	OrderBlocksByCreatedAt = "created_at"
)

// ListBlocksParams filters and paginates block listings.
type ListBlocksParams struct {
	DayNumber *int   // filter by schedule day when non-nil
	OrderBy   string // OrderBlocksByNumber (default) or OrderBlocksByCreatedAt
	Skip      int
	Limit     int
}

// QueueStatistics is the aggregate view over all blocks. A block with zero
// tasks counts toward neither active nor completed.
type QueueStatistics struct {
	TotalBlocks       int `json:"total_blocks"`
	CompletedBlocks   int `json:"completed_blocks"`
	ActiveBlocks      int `json:"active_blocks"`
	BlocksWithNoTasks int `json:"blocks_with_no_tasks"`
}

// BlockStore defines the interface for block data persistence, including
// the queue-ordering primitives the recurrence engine builds on.
type BlockStore interface {
	// Create saves a new block to the store.
	Create(ctx context.Context, block *domain.Block) error

	// GetByID retrieves a block by its unique ID.
	// Returns ErrBlockNotFound if the block does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Block, error)

	// List retrieves blocks per the given params.
	List(ctx context.Context, params ListBlocksParams) ([]*domain.Block, error)

	// Update modifies an existing block.
	// Returns ErrBlockNotFound if the block does not exist.
	Update(ctx context.Context, block *domain.Block) error

	// Delete removes a block by its ID. The schema cascades the delete to
	// the block's tasks.
	// Returns ErrBlockNotFound if the block does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// SetNumber updates a single block's queue number. Returns false (and
	// no error) when the block does not exist, so batch reorders can decide
	// whether unknown IDs are skipped or fail the batch.
	SetNumber(ctx context.Context, id uuid.UUID, blockNumber int) (bool, error)

	// MaxBlockNumber returns the highest block_number across all blocks,
	// or nil when no block carries a number yet.
	MaxBlockNumber(ctx context.Context) (*int, error)

	// AssignCycledNumber sets the block's number to (max(block_number) mod
	// cycle) + 1 and returns the assigned number. The read of the maximum
	// and the write happen in a single statement so concurrent calls cannot
	// compute from a stale maximum.
	// Returns ErrBlockNotFound if the block does not exist.
	AssignCycledNumber(ctx context.Context, id uuid.UUID, cycle int) (int, error)

	// ActiveBlocks returns the distinct blocks owning at least one
	// incomplete task, optionally filtered by day number, ordered by
	// block_number ascending.
	ActiveBlocks(ctx context.Context, dayNumber *int) ([]*domain.Block, error)

	// NextActive returns the block with the lowest block_number among blocks
	// having at least one incomplete task.
	// Returns ErrBlockNotFound when no block qualifies.
	NextActive(ctx context.Context) (*domain.Block, error)

	// QueueStatistics returns the aggregate counts over all blocks.
	QueueStatistics(ctx context.Context) (QueueStatistics, error)

	// WithTx returns a BlockStore bound to the provided transaction.
	WithTx(tx *sql.Tx) BlockStore
}
