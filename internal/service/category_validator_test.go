package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockplan/blockplan-api/internal/domain"
	"github.com/blockplan/blockplan-api/internal/store"
)

func intPtr(i int) *int { return &i }

func boolPtr(b bool) *bool { return &b }

func uuidPtr(id uuid.UUID) *uuid.UUID { return &id }

// testBlock builds a valid block, optionally carrying a category.
func testBlock(t *testing.T, categoryID *uuid.UUID) *domain.Block {
	t.Helper()
	block, err := domain.NewBlock("Morning Routine", nil, intPtr(1), nil, categoryID)
	require.NoError(t, err)
	return block
}

// testTask builds a valid, incomplete task.
func testTask(t *testing.T, blockID, categoryID uuid.UUID) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(blockID, categoryID, "Stretch", nil, 15, 0)
	require.NoError(t, err)
	return task
}

func testCategory(t *testing.T, name string) *domain.Category {
	t.Helper()
	category, err := domain.NewCategory(name, nil)
	require.NoError(t, err)
	return category
}

func TestCategoryValidatorResolve(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assigned := uuid.New()
	other := uuid.New()

	t.Run("categorized block lends its category", func(t *testing.T) {
		t.Parallel()
		categories := new(MockCategoryStore)
		validator := NewCategoryValidator(categories)

		got, err := validator.Resolve(ctx, testBlock(t, uuidPtr(assigned)), nil)
		require.NoError(t, err)
		assert.Equal(t, assigned, got)
		categories.AssertExpectations(t)
	})

	t.Run("matching submitted category is accepted", func(t *testing.T) {
		t.Parallel()
		categories := new(MockCategoryStore)
		validator := NewCategoryValidator(categories)

		got, err := validator.Resolve(ctx, testBlock(t, uuidPtr(assigned)), uuidPtr(assigned))
		require.NoError(t, err)
		assert.Equal(t, assigned, got)
	})

	t.Run("conflicting submitted category is rejected", func(t *testing.T) {
		t.Parallel()
		categories := new(MockCategoryStore)
		validator := NewCategoryValidator(categories)

		_, err := validator.Resolve(ctx, testBlock(t, uuidPtr(assigned)), uuidPtr(other))
		assert.ErrorIs(t, err, ErrCategoryMismatch)
	})

	t.Run("uncategorized block requires a submitted category", func(t *testing.T) {
		t.Parallel()
		categories := new(MockCategoryStore)
		validator := NewCategoryValidator(categories)

		_, err := validator.Resolve(ctx, testBlock(t, nil), nil)
		assert.ErrorIs(t, err, ErrMissingCategory)
	})

	t.Run("uncategorized block accepts any existing category", func(t *testing.T) {
		t.Parallel()
		categories := new(MockCategoryStore)
		categories.On("GetByID", ctx, other).Return(testCategory(t, "Fitness"), nil)
		validator := NewCategoryValidator(categories)

		got, err := validator.Resolve(ctx, testBlock(t, nil), uuidPtr(other))
		require.NoError(t, err)
		assert.Equal(t, other, got)
		categories.AssertExpectations(t)
	})

	t.Run("unknown submitted category is rejected", func(t *testing.T) {
		t.Parallel()
		categories := new(MockCategoryStore)
		categories.On("GetByID", ctx, other).Return(nil, store.ErrCategoryNotFound)
		validator := NewCategoryValidator(categories)

		_, err := validator.Resolve(ctx, testBlock(t, nil), uuidPtr(other))
		assert.ErrorIs(t, err, store.ErrCategoryNotFound)
	})
}
