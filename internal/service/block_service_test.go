package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/blockplan/blockplan-api/internal/domain"
	"github.com/blockplan/blockplan-api/internal/store"
)

// blockServiceFixture bundles a BlockService with its mocks.
type blockServiceFixture struct {
	service    BlockService
	blocks     *MockBlockStore
	tasks      *MockTaskStore
	categories *MockCategoryStore
	stats      *MockStatsStore
}

func newBlockServiceFixture(t *testing.T) *blockServiceFixture {
	t.Helper()

	blocks := new(MockBlockStore)
	tasks := new(MockTaskStore)
	categories := new(MockCategoryStore)
	stats := new(MockStatsStore)

	service, err := NewBlockService(blocks, tasks, categories, stats, fakeTxRunner{}, nil)
	require.NoError(t, err)

	return &blockServiceFixture{
		service:    service,
		blocks:     blocks,
		tasks:      tasks,
		categories: categories,
		stats:      stats,
	}
}

func TestCreateBlock(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("appends after the current highest number", func(t *testing.T) {
		t.Parallel()
		f := newBlockServiceFixture(t)

		f.blocks.On("MaxBlockNumber", ctx).Return(intPtr(7), nil)
		f.blocks.On("Create", ctx, mock.AnythingOfType("*domain.Block")).Return(nil)

		block, err := f.service.CreateBlock(ctx, CreateBlockParams{Title: "Evening Review"})
		require.NoError(t, err)
		require.NotNil(t, block.BlockNumber)
		assert.Equal(t, 8, *block.BlockNumber)
	})

	t.Run("first block in an empty queue gets number one", func(t *testing.T) {
		t.Parallel()
		f := newBlockServiceFixture(t)

		f.blocks.On("MaxBlockNumber", ctx).Return(nil, nil)
		f.blocks.On("Create", ctx, mock.AnythingOfType("*domain.Block")).Return(nil)

		block, err := f.service.CreateBlock(ctx, CreateBlockParams{Title: "Kickoff"})
		require.NoError(t, err)
		require.NotNil(t, block.BlockNumber)
		assert.Equal(t, 1, *block.BlockNumber)
	})

	t.Run("explicit number skips the queue lookup", func(t *testing.T) {
		t.Parallel()
		f := newBlockServiceFixture(t)

		f.blocks.On("Create", ctx, mock.AnythingOfType("*domain.Block")).Return(nil)

		block, err := f.service.CreateBlock(ctx, CreateBlockParams{
			Title:       "Front of the line",
			BlockNumber: intPtr(1),
		})
		require.NoError(t, err)
		assert.Equal(t, 1, *block.BlockNumber)
		f.blocks.AssertNotCalled(t, "MaxBlockNumber", ctx)
	})

	t.Run("unknown category is rejected", func(t *testing.T) {
		t.Parallel()
		f := newBlockServiceFixture(t)

		categoryID := uuid.New()
		f.categories.On("GetByID", ctx, categoryID).Return(nil, store.ErrCategoryNotFound)

		_, err := f.service.CreateBlock(ctx, CreateBlockParams{
			Title:      "Ghost category",
			CategoryID: uuidPtr(categoryID),
		})
		assert.ErrorIs(t, err, store.ErrCategoryNotFound)
		f.blocks.AssertNotCalled(t, "Create", ctx, mock.Anything)
	})
}

func TestMoveToEnd(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newBlockServiceFixture(t)
	block := testBlock(t, nil)
	block.BlockNumber = intPtr(4)

	f.blocks.On("AssignCycledNumber", ctx, block.ID, domain.QueueCycleSize).Return(4, nil)
	f.blocks.On("GetByID", ctx, block.ID).Return(block, nil)

	moved, err := f.service.MoveToEnd(ctx, block.ID)
	require.NoError(t, err)
	assert.Equal(t, block.ID, moved.ID)
	f.blocks.AssertExpectations(t)
}

func TestCompleteAndReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("completes remaining tasks then resets all of them", func(t *testing.T) {
		t.Parallel()
		f := newBlockServiceFixture(t)

		block := testBlock(t, nil)
		block.BlockNumber = intPtr(3)

		f.blocks.On("GetByID", ctx, block.ID).Return(block, nil)
		f.tasks.On("CompleteIncomplete", ctx, block.ID, mock.AnythingOfType("time.Time")).Return(2, nil)
		f.tasks.On("ResetCompleted", ctx, block.ID).Return(5, nil)
		f.blocks.On("AssignCycledNumber", ctx, block.ID, domain.QueueCycleSize).Return(6, nil)
		f.blocks.On("Update", ctx, mock.MatchedBy(func(b *domain.Block) bool {
			return b.ID == block.ID && b.LastCompletedAt != nil && b.BlockNumber != nil && *b.BlockNumber == 6
		})).Return(nil)

		summary, err := f.service.CompleteAndReset(ctx, block.ID, true)
		require.NoError(t, err)
		assert.Equal(t, 2, summary.TasksCompleted)
		assert.Equal(t, 5, summary.TasksReset)
		assert.True(t, summary.MovedToEnd)
		require.NotNil(t, summary.NewBlockNumber)
		assert.Equal(t, 6, *summary.NewBlockNumber)
		f.blocks.AssertExpectations(t)
		f.tasks.AssertExpectations(t)
	})

	t.Run("without requeue the number stays put", func(t *testing.T) {
		t.Parallel()
		f := newBlockServiceFixture(t)

		block := testBlock(t, nil)
		block.BlockNumber = intPtr(3)

		f.blocks.On("GetByID", ctx, block.ID).Return(block, nil)
		f.tasks.On("CompleteIncomplete", ctx, block.ID, mock.AnythingOfType("time.Time")).Return(0, nil)
		f.tasks.On("ResetCompleted", ctx, block.ID).Return(4, nil)
		f.blocks.On("Update", ctx, mock.AnythingOfType("*domain.Block")).Return(nil)

		summary, err := f.service.CompleteAndReset(ctx, block.ID, false)
		require.NoError(t, err)
		assert.Equal(t, 0, summary.TasksCompleted)
		assert.Equal(t, 4, summary.TasksReset)
		assert.False(t, summary.MovedToEnd)
		require.NotNil(t, summary.NewBlockNumber)
		assert.Equal(t, 3, *summary.NewBlockNumber)
		f.blocks.AssertNotCalled(t, "AssignCycledNumber", ctx, block.ID, domain.QueueCycleSize)
	})

	t.Run("missing block aborts the cycle", func(t *testing.T) {
		t.Parallel()
		f := newBlockServiceFixture(t)

		id := uuid.New()
		f.blocks.On("GetByID", ctx, id).Return(nil, store.ErrBlockNotFound)

		_, err := f.service.CompleteAndReset(ctx, id, true)
		assert.ErrorIs(t, err, store.ErrBlockNotFound)
		f.tasks.AssertNotCalled(t, "CompleteIncomplete", ctx, id, mock.Anything)
	})
}

func TestCloneBlock(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newBlockServiceFixture(t)

	categoryID := uuid.New()
	source := testBlock(t, uuidPtr(categoryID))
	sourceTask := testTask(t, source.ID, categoryID)
	sourceTask.Complete(sourceTask.CreatedAt, intPtr(30))
	sourceTask.Position = 2

	f.blocks.On("GetByID", ctx, source.ID).Return(source, nil)
	f.blocks.On("MaxBlockNumber", ctx).Return(intPtr(9), nil)
	f.blocks.On("Create", ctx, mock.AnythingOfType("*domain.Block")).Return(nil)
	f.tasks.On("ListByBlock", ctx, source.ID).Return([]*domain.Task{sourceTask}, nil)
	f.tasks.On("Create", ctx, mock.AnythingOfType("*domain.Task")).Return(nil)

	clone, err := f.service.CloneBlock(ctx, source.ID, true)
	require.NoError(t, err)
	assert.Equal(t, source.Title+" (Copy)", clone.Block.Title)
	require.NotNil(t, clone.Block.BlockNumber)
	assert.Equal(t, 10, *clone.Block.BlockNumber)
	assert.Equal(t, source.CategoryID, clone.Block.CategoryID)

	require.Len(t, clone.Tasks, 1)
	duplicate := clone.Tasks[0]
	assert.NotEqual(t, sourceTask.ID, duplicate.ID)
	assert.Equal(t, clone.Block.ID, duplicate.BlockID)
	assert.Equal(t, sourceTask.Position, duplicate.Position)
	assert.False(t, duplicate.Completed, "copies start incomplete")
	assert.Nil(t, duplicate.ActualMinutes, "copies carry no tracked time")
}

func TestReorderBlocks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	known := uuid.New()
	unknown := uuid.New()
	updates := []BlockNumberUpdate{
		{ID: known, BlockNumber: 1},
		{ID: unknown, BlockNumber: 2},
	}

	t.Run("skip policy applies the known updates", func(t *testing.T) {
		t.Parallel()
		f := newBlockServiceFixture(t)

		f.blocks.On("SetNumber", ctx, known, 1).Return(true, nil)
		f.blocks.On("SetNumber", ctx, unknown, 2).Return(false, nil)

		applied, err := f.service.ReorderBlocks(ctx, updates, SkipUnknown)
		require.NoError(t, err)
		assert.Equal(t, 1, applied)
	})

	t.Run("fail policy aborts the batch", func(t *testing.T) {
		t.Parallel()
		f := newBlockServiceFixture(t)

		f.blocks.On("SetNumber", ctx, known, 1).Return(true, nil)
		f.blocks.On("SetNumber", ctx, unknown, 2).Return(false, nil)

		_, err := f.service.ReorderBlocks(ctx, updates, FailOnUnknown)
		assert.ErrorIs(t, err, store.ErrBlockNotFound)
	})
}

func TestNextBlock(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("returns the front of the queue with progress", func(t *testing.T) {
		t.Parallel()
		f := newBlockServiceFixture(t)

		block := testBlock(t, nil)
		progress := store.BlockProgress{
			BlockID:              block.ID,
			TotalTasks:           3,
			CompletedTasks:       1,
			CompletionPercentage: 33.33,
		}
		f.blocks.On("NextActive", ctx).Return(block, nil)
		f.stats.On("BlockProgress", ctx, block.ID).Return(progress, nil)

		next, err := f.service.NextBlock(ctx)
		require.NoError(t, err)
		assert.Equal(t, block.ID, next.Block.ID)
		assert.Equal(t, 33.33, next.Progress.CompletionPercentage)
	})

	t.Run("empty queue reports no active blocks", func(t *testing.T) {
		t.Parallel()
		f := newBlockServiceFixture(t)

		f.blocks.On("NextActive", ctx).Return(nil, store.ErrBlockNotFound)

		_, err := f.service.NextBlock(ctx)
		assert.ErrorIs(t, err, ErrNoActiveBlocks)
	})
}

func TestResetTasks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("resets the block's completed tasks", func(t *testing.T) {
		t.Parallel()
		f := newBlockServiceFixture(t)

		block := testBlock(t, nil)
		f.blocks.On("GetByID", ctx, block.ID).Return(block, nil)
		f.tasks.On("ResetCompleted", ctx, block.ID).Return(3, nil)

		reset, err := f.service.ResetTasks(ctx, block.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, reset)
	})

	t.Run("missing block fails", func(t *testing.T) {
		t.Parallel()
		f := newBlockServiceFixture(t)

		id := uuid.New()
		f.blocks.On("GetByID", ctx, id).Return(nil, store.ErrBlockNotFound)

		_, err := f.service.ResetTasks(ctx, id)
		assert.ErrorIs(t, err, store.ErrBlockNotFound)
		f.tasks.AssertNotCalled(t, "ResetCompleted", ctx, id)
	})
}
