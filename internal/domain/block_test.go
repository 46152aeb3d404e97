package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewBlock(t *testing.T) {
	t.Parallel()
	categoryID := uuid.New()

	block, err := NewBlock("Morning session", strPtr("Deep work"), intPtr(1), intPtr(2), &categoryID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if block.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if block.BlockNumber == nil || *block.BlockNumber != 1 {
		t.Errorf("Expected block number 1, got %v", block.BlockNumber)
	}
	if block.LastCompletedAt != nil {
		t.Error("Expected new block to have no completion timestamp")
	}
	if block.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}
}

func TestBlockValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Block)
		wantErr error
	}{
		{"valid", func(b *Block) {}, nil},
		{"empty title", func(b *Block) { b.Title = "" }, ErrBlockTitleEmpty},
		{"title too long", func(b *Block) { b.Title = strings.Repeat("a", 201) }, ErrBlockTitleTooLong},
		{"description too long", func(b *Block) { b.Description = strPtr(strings.Repeat("a", 201)) }, ErrBlockDescriptionTooLong},
		{"day number zero", func(b *Block) { b.DayNumber = intPtr(0) }, ErrBlockDayNumberInvalid},
		{"day number six", func(b *Block) { b.DayNumber = intPtr(6) }, ErrBlockDayNumberInvalid},
		{"day number five", func(b *Block) { b.DayNumber = intPtr(5) }, nil},
		{"nil block number allowed", func(b *Block) { b.BlockNumber = nil }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := Block{
				ID:          uuid.New(),
				Title:       "Session",
				BlockNumber: intPtr(3),
			}
			tt.mutate(&block)
			err := block.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestBlockCategory(t *testing.T) {
	t.Parallel()

	categoryID := uuid.New()
	assigned := Block{ID: uuid.New(), Title: "Session", CategoryID: &categoryID}
	if id, ok := assigned.Category().Assigned(); !ok || id != categoryID {
		t.Errorf("Expected assigned category %s, got %v (%v)", categoryID, id, ok)
	}

	unassigned := Block{ID: uuid.New(), Title: "Session"}
	if _, ok := unassigned.Category().Assigned(); ok {
		t.Error("Expected unassigned category for block without category")
	}

	nilCategory := uuid.Nil
	zero := Block{ID: uuid.New(), Title: "Session", CategoryID: &nilCategory}
	if _, ok := zero.Category().Assigned(); ok {
		t.Error("Expected nil-UUID category to be treated as unassigned")
	}
}

func TestNextCycledNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		max  *int
		want int
	}{
		{"no numbered blocks yet", nil, 1},
		{"max three requeues to four", intPtr(3), 4},
		{"max seven requeues to eight", intPtr(7), 8},
		{"max fourteen requeues to fifteen", intPtr(14), 15},
		{"max at cycle size wraps to one", intPtr(QueueCycleSize), 1},
		{"max past cycle size wraps into range", intPtr(QueueCycleSize + 2), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextCycledNumber(tt.max, QueueCycleSize); got != tt.want {
				t.Errorf("Expected cycled number %d, got %d", tt.want, got)
			}
		})
	}

	// Whatever the current maximum, the assigned number stays in [1, cycle].
	for max := 0; max <= 3*QueueCycleSize; max++ {
		got := NextCycledNumber(intPtr(max), QueueCycleSize)
		if got < 1 || got > QueueCycleSize {
			t.Errorf("Expected number in [1, %d] for max %d, got %d", QueueCycleSize, max, got)
		}
	}
}

func TestBlockCloneTitle(t *testing.T) {
	t.Parallel()
	block := Block{ID: uuid.New(), Title: "Session"}
	if got := block.CloneTitle(); got != "Session (Copy)" {
		t.Errorf("Expected clone title %q, got %q", "Session (Copy)", got)
	}
}
