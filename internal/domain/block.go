package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Block-specific validation errors
var (
	// ErrBlockIDEmpty is returned when a block ID is empty or nil.
	ErrBlockIDEmpty = errors.New("block ID cannot be empty")

	// ErrBlockTitleEmpty is returned when a block's title is empty.
	ErrBlockTitleEmpty = errors.New("block title cannot be empty")

	// ErrBlockTitleTooLong is returned when a block's title exceeds 200 characters.
	ErrBlockTitleTooLong = errors.New("block title cannot exceed 200 characters")

	// ErrBlockDescriptionTooLong is returned when a block's description exceeds 200 characters.
	ErrBlockDescriptionTooLong = errors.New("block description cannot exceed 200 characters")

	// ErrBlockDayNumberInvalid is returned when a block's day number is outside 1-5.
	ErrBlockDayNumberInvalid = errors.New("block day number must be between 1 and 5")
)

// QueueCycleSize bounds the block_number priority space. MoveToEnd cycles
// block numbers through [1, QueueCycleSize] so repeated recurrence never
// grows the priority integers without bound.
const QueueCycleSize = 15

// NextCycledNumber returns the queue number a requeued block receives given
// the current maximum block number: (max mod cycle) + 1, or 1 when no block
// carries a number yet. The block store evaluates the same expression in SQL
// so the read of the maximum and the write stay in one statement.
func NextCycledNumber(max *int, cycle int) int {
	if max == nil {
		return 1
	}
	return (*max % cycle) + 1
}

// Block is an ordered container of tasks with a queue priority
// (BlockNumber). Blocks recur: completing a block resets its tasks and
// requeues it at the back of the cycle.
type Block struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Description     *string    `json:"description,omitempty"`
	BlockNumber     *int       `json:"block_number,omitempty"`
	DayNumber       *int       `json:"day_number,omitempty"`
	CategoryID      *uuid.UUID `json:"category_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	LastCompletedAt *time.Time `json:"last_completed_at,omitempty"`
}

// BlockCategory is the tagged categorization state of a block: either a
// concrete category has been assigned, or the block is uncategorized and
// tolerates tasks of any category. Modeling this explicitly keeps the
// inheritance rules in one place instead of nil checks at every call site.
type BlockCategory struct {
	id       uuid.UUID
	assigned bool
}

// AssignedCategory returns a BlockCategory carrying the given category ID.
func AssignedCategory(id uuid.UUID) BlockCategory {
	return BlockCategory{id: id, assigned: true}
}

// UnassignedCategory returns the BlockCategory of an uncategorized block.
func UnassignedCategory() BlockCategory {
	return BlockCategory{}
}

// Assigned reports whether a category is assigned, and which one.
func (c BlockCategory) Assigned() (uuid.UUID, bool) {
	return c.id, c.assigned
}

// Category returns the block's categorization as a tagged variant.
func (b *Block) Category() BlockCategory {
	if b.CategoryID == nil || *b.CategoryID == uuid.Nil {
		return UnassignedCategory()
	}
	return AssignedCategory(*b.CategoryID)
}

// NewBlock creates a new Block with the given fields. It generates a new
// UUID and sets the creation timestamp. BlockNumber is left as given; the
// service layer assigns the next queue slot when it is nil.
// Returns an error if validation fails.
func NewBlock(
	title string,
	description *string,
	blockNumber *int,
	dayNumber *int,
	categoryID *uuid.UUID,
) (*Block, error) {
	block := &Block{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		BlockNumber: blockNumber,
		DayNumber:   dayNumber,
		CategoryID:  categoryID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := block.Validate(); err != nil {
		return nil, err
	}

	return block, nil
}

// Validate checks if the Block has valid data.
// Returns an error if any field fails validation.
func (b *Block) Validate() error {
	if b.ID == uuid.Nil {
		return ErrBlockIDEmpty
	}

	if len(b.Title) == 0 {
		return ErrBlockTitleEmpty
	}

	if len(b.Title) > 200 {
		return ErrBlockTitleTooLong
	}

	if b.Description != nil && len(*b.Description) > 200 {
		return ErrBlockDescriptionTooLong
	}

	if b.DayNumber != nil && (*b.DayNumber < 1 || *b.DayNumber > 5) {
		return ErrBlockDayNumberInvalid
	}

	return nil
}

// CloneTitle returns the title a copy of this block should carry.
func (b *Block) CloneTitle() string {
	return b.Title + " (Copy)"
}
