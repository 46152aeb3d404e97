package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func validTask() Task {
	return Task{
		ID:               uuid.New(),
		BlockID:          uuid.New(),
		CategoryID:       uuid.New(),
		Title:            "Write code",
		EstimatedMinutes: 25,
		Position:         0,
		CreatedAt:        time.Now().UTC(),
	}
}

func TestNewTask(t *testing.T) {
	t.Parallel()
	blockID := uuid.New()
	categoryID := uuid.New()

	task, err := NewTask(blockID, categoryID, "Write code", nil, 25, 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if task.BlockID != blockID {
		t.Errorf("Expected block ID %s, got %s", blockID, task.BlockID)
	}
	if task.CategoryID != categoryID {
		t.Errorf("Expected category ID %s, got %s", categoryID, task.CategoryID)
	}
	if task.Completed {
		t.Error("Expected new task to be incomplete")
	}
	if task.CompletedAt != nil {
		t.Error("Expected new task to have no completion timestamp")
	}
	if task.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	// Missing block
	_, err = NewTask(uuid.Nil, categoryID, "Write code", nil, 25, 0)
	if !errors.Is(err, ErrTaskBlockIDEmpty) {
		t.Errorf("Expected error %v, got %v", ErrTaskBlockIDEmpty, err)
	}

	// Missing category
	_, err = NewTask(blockID, uuid.Nil, "Write code", nil, 25, 0)
	if !errors.Is(err, ErrTaskCategoryIDEmpty) {
		t.Errorf("Expected error %v, got %v", ErrTaskCategoryIDEmpty, err)
	}
}

func TestTaskValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Task)
		wantErr error
	}{
		{"valid", func(task *Task) {}, nil},
		{"empty title", func(task *Task) { task.Title = "" }, ErrTaskTitleEmpty},
		{"title too long", func(task *Task) {
			long := make([]byte, 201)
			for i := range long {
				long[i] = 'a'
			}
			task.Title = string(long)
		}, ErrTaskTitleTooLong},
		{"description too long", func(task *Task) {
			long := make([]byte, 251)
			for i := range long {
				long[i] = 'a'
			}
			task.Description = strPtr(string(long))
		}, ErrTaskDescriptionTooLong},
		{"zero estimated minutes", func(task *Task) { task.EstimatedMinutes = 0 }, ErrTaskEstimatedMinutesInvalid},
		{"negative estimated minutes", func(task *Task) { task.EstimatedMinutes = -5 }, ErrTaskEstimatedMinutesInvalid},
		{"estimated minutes over a week", func(task *Task) { task.EstimatedMinutes = MaxTaskMinutes + 1 }, ErrTaskEstimatedMinutesInvalid},
		{"estimated minutes exactly a week", func(task *Task) { task.EstimatedMinutes = MaxTaskMinutes }, nil},
		{"negative actual minutes", func(task *Task) { task.ActualMinutes = intPtr(-1) }, ErrTaskActualMinutesInvalid},
		{"actual minutes over a week", func(task *Task) { task.ActualMinutes = intPtr(MaxTaskMinutes + 1) }, ErrTaskActualMinutesInvalid},
		{"zero actual minutes", func(task *Task) { task.ActualMinutes = intPtr(0) }, nil},
		{"negative position", func(task *Task) { task.Position = -1 }, ErrTaskPositionNegative},
		{"completed without timestamp", func(task *Task) { task.Completed = true }, ErrTaskCompletionInconsistent},
		{"timestamp without completed", func(task *Task) {
			now := time.Now().UTC()
			task.CompletedAt = &now
		}, ErrTaskCompletionInconsistent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := validTask()
			tt.mutate(&task)
			err := task.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTaskCompleteUncomplete(t *testing.T) {
	t.Parallel()
	task := validTask()
	now := time.Now().UTC()

	task.Complete(now, intPtr(30))
	if !task.Completed || task.CompletedAt == nil {
		t.Fatal("Expected completed task with timestamp")
	}
	if task.ActualMinutes == nil || *task.ActualMinutes != 30 {
		t.Errorf("Expected actual minutes 30, got %v", task.ActualMinutes)
	}
	if err := task.Validate(); err != nil {
		t.Errorf("Expected completed task to be valid, got %v", err)
	}

	// Re-completing without actual minutes preserves the recorded value and
	// refreshes the timestamp.
	later := now.Add(time.Minute)
	task.Complete(later, nil)
	if *task.ActualMinutes != 30 {
		t.Errorf("Expected actual minutes preserved at 30, got %d", *task.ActualMinutes)
	}
	if !task.CompletedAt.Equal(later) {
		t.Errorf("Expected completion timestamp refreshed to %v, got %v", later, task.CompletedAt)
	}

	task.Uncomplete()
	if task.Completed || task.CompletedAt != nil {
		t.Error("Expected incomplete task with cleared timestamp")
	}
	if task.ActualMinutes == nil || *task.ActualMinutes != 30 {
		t.Error("Expected uncomplete to preserve actual minutes")
	}
}

func TestTaskResetForRecurrence(t *testing.T) {
	t.Parallel()
	task := validTask()
	task.Complete(time.Now().UTC(), intPtr(45))

	task.ResetForRecurrence()
	if task.Completed || task.CompletedAt != nil {
		t.Error("Expected reset task to be incomplete with no timestamp")
	}
	if task.ActualMinutes != nil {
		t.Error("Expected reset to clear actual minutes")
	}
	if err := task.Validate(); err != nil {
		t.Errorf("Expected reset task to be valid, got %v", err)
	}
}
