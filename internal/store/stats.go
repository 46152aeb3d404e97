package store

import (
	"context"

	"github.com/google/uuid"
)

// BlockProgress is the per-block rollup of task state. Percentages are 0
// when the block has no tasks; division by zero is avoided, never surfaced.
type BlockProgress struct {
	BlockID                   uuid.UUID `json:"block_id"`
	TotalTasks                int       `json:"total_tasks"`
	CompletedTasks            int       `json:"completed_tasks"`
	CompletionPercentage      float64   `json:"completion_percentage"`
	TotalEstimatedMinutes     int       `json:"total_estimated_minutes"`
	TotalActualMinutes        int       `json:"total_actual_minutes"`
	RemainingEstimatedMinutes int       `json:"remaining_estimated_minutes"`
	IsComplete                bool      `json:"is_complete"`
}

// CategoryStats is the per-category rollup of task state.
type CategoryStats struct {
	CategoryID            uuid.UUID `json:"category_id"`
	CategoryName          string    `json:"category_name"`
	TotalTasks            int       `json:"total_tasks"`
	CompletedTasks        int       `json:"completed_tasks"`
	CompletionRate        float64   `json:"completion_rate"`
	TotalEstimatedMinutes int       `json:"total_estimated_minutes"`
	TotalActualMinutes    int       `json:"total_actual_minutes"`
}

// CategoryTaskCounts pairs a category with its task counts, for listings.
type CategoryTaskCounts struct {
	CategoryID     uuid.UUID `json:"category_id"`
	CategoryName   string    `json:"category_name"`
	Color          *string   `json:"color,omitempty"`
	TotalTasks     int       `json:"total_tasks"`
	CompletedTasks int       `json:"completed_tasks"`
}

// StatsStore defines read-only aggregate queries over task state. All
// computations scan persisted task rows; nothing here mutates.
type StatsStore interface {
	// BlockProgress computes the rollup for one block's tasks. The block
	// itself must exist; callers verify that before asking for progress.
	BlockProgress(ctx context.Context, blockID uuid.UUID) (BlockProgress, error)

	// CategoryStats computes the rollup for one category's tasks.
	CategoryStats(ctx context.Context, categoryID uuid.UUID) (CategoryStats, error)

	// CategoriesWithCounts returns every category with its task counts,
	// ordered by category name.
	CategoriesWithCounts(ctx context.Context) ([]CategoryTaskCounts, error)
}
