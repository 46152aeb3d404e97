package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/blockplan/blockplan-api/internal/domain"
	"github.com/blockplan/blockplan-api/internal/store"
)

// fakeTxRunner runs the transaction function directly with a nil *sql.Tx.
// The mock stores ignore WithTx, so service transaction bodies execute
// against the same expectations as everything else.
type fakeTxRunner struct{}

func (fakeTxRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	return fn(ctx, nil)
}

// MockBlockStore mocks the store.BlockStore interface.
type MockBlockStore struct {
	mock.Mock
}

func (m *MockBlockStore) Create(ctx context.Context, block *domain.Block) error {
	args := m.Called(ctx, block)
	return args.Error(0)
}

func (m *MockBlockStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Block, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Block), args.Error(1)
}

func (m *MockBlockStore) List(ctx context.Context, params store.ListBlocksParams) ([]*domain.Block, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Block), args.Error(1)
}

func (m *MockBlockStore) Update(ctx context.Context, block *domain.Block) error {
	args := m.Called(ctx, block)
	return args.Error(0)
}

func (m *MockBlockStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBlockStore) SetNumber(ctx context.Context, id uuid.UUID, blockNumber int) (bool, error) {
	args := m.Called(ctx, id, blockNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockBlockStore) MaxBlockNumber(ctx context.Context) (*int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*int), args.Error(1)
}

func (m *MockBlockStore) AssignCycledNumber(ctx context.Context, id uuid.UUID, cycle int) (int, error) {
	args := m.Called(ctx, id, cycle)
	return args.Int(0), args.Error(1)
}

func (m *MockBlockStore) ActiveBlocks(ctx context.Context, dayNumber *int) ([]*domain.Block, error) {
	args := m.Called(ctx, dayNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Block), args.Error(1)
}

func (m *MockBlockStore) NextActive(ctx context.Context) (*domain.Block, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Block), args.Error(1)
}

func (m *MockBlockStore) QueueStatistics(ctx context.Context) (store.QueueStatistics, error) {
	args := m.Called(ctx)
	return args.Get(0).(store.QueueStatistics), args.Error(1)
}

func (m *MockBlockStore) WithTx(tx *sql.Tx) store.BlockStore {
	return m
}

// MockTaskStore mocks the store.TaskStore interface.
type MockTaskStore struct {
	mock.Mock
}

func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskStore) List(ctx context.Context, params store.ListTasksParams) ([]*domain.Task, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

func (m *MockTaskStore) ListByBlock(ctx context.Context, blockID uuid.UUID) ([]*domain.Task, error) {
	args := m.Called(ctx, blockID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskStore) MaxPosition(ctx context.Context, blockID uuid.UUID) (*int, error) {
	args := m.Called(ctx, blockID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*int), args.Error(1)
}

func (m *MockTaskStore) SetPosition(ctx context.Context, id uuid.UUID, position int) (bool, error) {
	args := m.Called(ctx, id, position)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaskStore) CompleteIncomplete(ctx context.Context, blockID uuid.UUID, at time.Time) (int, error) {
	args := m.Called(ctx, blockID, at)
	return args.Int(0), args.Error(1)
}

func (m *MockTaskStore) ResetCompleted(ctx context.Context, blockID uuid.UUID) (int, error) {
	args := m.Called(ctx, blockID)
	return args.Int(0), args.Error(1)
}

func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}

// MockCategoryStore mocks the store.CategoryStore interface.
type MockCategoryStore struct {
	mock.Mock
}

func (m *MockCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryStore) List(ctx context.Context, skip, limit int) ([]*domain.Category, error) {
	args := m.Called(ctx, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Category), args.Error(1)
}

func (m *MockCategoryStore) Update(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryStore) WithTx(tx *sql.Tx) store.CategoryStore {
	return m
}

// MockStatsStore mocks the store.StatsStore interface.
type MockStatsStore struct {
	mock.Mock
}

func (m *MockStatsStore) BlockProgress(ctx context.Context, blockID uuid.UUID) (store.BlockProgress, error) {
	args := m.Called(ctx, blockID)
	return args.Get(0).(store.BlockProgress), args.Error(1)
}

func (m *MockStatsStore) CategoryStats(ctx context.Context, categoryID uuid.UUID) (store.CategoryStats, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(store.CategoryStats), args.Error(1)
}

func (m *MockStatsStore) CategoriesWithCounts(ctx context.Context) ([]store.CategoryTaskCounts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.CategoryTaskCounts), args.Error(1)
}

// MockQuoteStore mocks the store.QuoteStore interface.
type MockQuoteStore struct {
	mock.Mock
}

func (m *MockQuoteStore) Create(ctx context.Context, quote *domain.Quote) error {
	args := m.Called(ctx, quote)
	return args.Error(0)
}

func (m *MockQuoteStore) Latest(ctx context.Context) (*domain.Quote, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}

func (m *MockQuoteStore) WithTx(tx *sql.Tx) store.QuoteStore {
	return m
}
