package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Task-specific validation errors
var (
	// ErrTaskIDEmpty is returned when a task ID is empty or nil.
	ErrTaskIDEmpty = errors.New("task ID cannot be empty")

	// ErrTaskBlockIDEmpty is returned when a task's block ID is empty or nil.
	ErrTaskBlockIDEmpty = errors.New("task block ID cannot be empty")

	// ErrTaskCategoryIDEmpty is returned when a task's category ID is empty or nil.
	ErrTaskCategoryIDEmpty = errors.New("task category ID cannot be empty")

	// ErrTaskTitleEmpty is returned when a task's title is empty.
	ErrTaskTitleEmpty = errors.New("task title cannot be empty")

	// ErrTaskTitleTooLong is returned when a task's title exceeds 200 characters.
	ErrTaskTitleTooLong = errors.New("task title cannot exceed 200 characters")

	// ErrTaskDescriptionTooLong is returned when a task's description exceeds 250 characters.
	ErrTaskDescriptionTooLong = errors.New("task description cannot exceed 250 characters")

	// ErrTaskEstimatedMinutesInvalid is returned when estimated minutes is
	// not positive or exceeds one week.
	ErrTaskEstimatedMinutesInvalid = errors.New("task estimated minutes must be between 1 and 10080")

	// ErrTaskActualMinutesInvalid is returned when actual minutes is negative
	// or exceeds one week.
	ErrTaskActualMinutesInvalid = errors.New("task actual minutes must be between 0 and 10080")

	// ErrTaskPositionNegative is returned when a task's position is negative.
	ErrTaskPositionNegative = errors.New("task position cannot be negative")

	// ErrTaskCompletionInconsistent is returned when completed and
	// completed_at disagree. They must always be set and cleared together.
	ErrTaskCompletionInconsistent = errors.New("task completed flag and completion timestamp must be paired")
)

// MaxTaskMinutes is the upper bound for estimated and actual minutes: one week.
const MaxTaskMinutes = 10080

// Task is a single work item belonging to exactly one block and one
// category. Position orders tasks within their block.
type Task struct {
	ID               uuid.UUID  `json:"id"`
	BlockID          uuid.UUID  `json:"block_id"`
	CategoryID       uuid.UUID  `json:"category_id"`
	Title            string     `json:"title"`
	Description      *string    `json:"description,omitempty"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	ActualMinutes    *int       `json:"actual_minutes,omitempty"`
	Completed        bool       `json:"completed"`
	Position         int        `json:"position"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// NewTask creates a new, incomplete Task under the given block and category.
// It generates a new UUID and sets the creation timestamp.
// Returns an error if validation fails.
func NewTask(
	blockID, categoryID uuid.UUID,
	title string,
	description *string,
	estimatedMinutes int,
	position int,
) (*Task, error) {
	task := &Task{
		ID:               uuid.New(),
		BlockID:          blockID,
		CategoryID:       categoryID,
		Title:            title,
		Description:      description,
		EstimatedMinutes: estimatedMinutes,
		Position:         position,
		CreatedAt:        time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}

	if t.BlockID == uuid.Nil {
		return ErrTaskBlockIDEmpty
	}

	if t.CategoryID == uuid.Nil {
		return ErrTaskCategoryIDEmpty
	}

	if len(t.Title) == 0 {
		return ErrTaskTitleEmpty
	}

	if len(t.Title) > 200 {
		return ErrTaskTitleTooLong
	}

	if t.Description != nil && len(*t.Description) > 250 {
		return ErrTaskDescriptionTooLong
	}

	if t.EstimatedMinutes <= 0 || t.EstimatedMinutes > MaxTaskMinutes {
		return ErrTaskEstimatedMinutesInvalid
	}

	if t.ActualMinutes != nil && (*t.ActualMinutes < 0 || *t.ActualMinutes > MaxTaskMinutes) {
		return ErrTaskActualMinutesInvalid
	}

	if t.Position < 0 {
		return ErrTaskPositionNegative
	}

	if t.Completed != (t.CompletedAt != nil) {
		return ErrTaskCompletionInconsistent
	}

	return nil
}

// Complete marks the task complete at the given time, recording actual
// minutes when supplied and preserving any existing value otherwise.
// Completing an already-complete task refreshes the timestamp.
func (t *Task) Complete(at time.Time, actualMinutes *int) {
	t.Completed = true
	completedAt := at.UTC()
	t.CompletedAt = &completedAt
	if actualMinutes != nil {
		t.ActualMinutes = actualMinutes
	}
}

// Uncomplete marks the task incomplete and clears the completion timestamp.
// Actual minutes are preserved: uncompleting undoes a mistaken completion,
// it does not discard tracked time.
func (t *Task) Uncomplete() {
	t.Completed = false
	t.CompletedAt = nil
}

// ResetForRecurrence clears completion state AND actual minutes, starting a
// fresh cycle. Distinct from Uncomplete, which keeps tracked time.
func (t *Task) ResetForRecurrence() {
	t.Completed = false
	t.CompletedAt = nil
	t.ActualMinutes = nil
}
