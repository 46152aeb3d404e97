package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/blockplan/blockplan-api/internal/store"
)

// StatsService provides read-only aggregate views over task state.
type StatsService interface {
	// BlockProgress returns the progress rollup for one block.
	// Returns store.ErrBlockNotFound if the block does not exist; a block
	// with zero tasks is reported as 0% complete, not as missing.
	BlockProgress(ctx context.Context, blockID uuid.UUID) (store.BlockProgress, error)

	// CategoryStats returns the rollup for one category's tasks.
	// Returns store.ErrCategoryNotFound if the category does not exist.
	CategoryStats(ctx context.Context, categoryID uuid.UUID) (store.CategoryStats, error)

	// CategoriesWithCounts returns every category with its task counts.
	CategoriesWithCounts(ctx context.Context) ([]store.CategoryTaskCounts, error)
}

// statsServiceImpl implements the StatsService interface.
type statsServiceImpl struct {
	stats  store.StatsStore
	blocks store.BlockStore
	logger *slog.Logger
}

// NewStatsService creates a new StatsService.
// It returns an error if any of the required dependencies are nil.
func NewStatsService(stats store.StatsStore, blocks store.BlockStore, logger *slog.Logger) (StatsService, error) {
	if stats == nil {
		return nil, &ServiceError{Service: "stats", Operation: "create_service", Message: "stats store cannot be nil"}
	}
	if blocks == nil {
		return nil, &ServiceError{Service: "stats", Operation: "create_service", Message: "blocks store cannot be nil"}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &statsServiceImpl{
		stats:  stats,
		blocks: blocks,
		logger: logger.With("component", "stats_service"),
	}, nil
}

// BlockProgress returns the progress rollup for one block. The aggregate
// query cannot distinguish a missing block from an empty one, so existence
// is checked first.
func (s *statsServiceImpl) BlockProgress(ctx context.Context, blockID uuid.UUID) (store.BlockProgress, error) {
	if _, err := s.blocks.GetByID(ctx, blockID); err != nil {
		return store.BlockProgress{}, newServiceError("stats", "block_progress", "failed to retrieve block", err)
	}

	progress, err := s.stats.BlockProgress(ctx, blockID)
	if err != nil {
		return store.BlockProgress{}, newServiceError("stats", "block_progress", "failed to compute progress", err)
	}
	return progress, nil
}

// CategoryStats returns the rollup for one category's tasks.
func (s *statsServiceImpl) CategoryStats(ctx context.Context, categoryID uuid.UUID) (store.CategoryStats, error) {
	stats, err := s.stats.CategoryStats(ctx, categoryID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return store.CategoryStats{}, store.ErrCategoryNotFound
		}
		return store.CategoryStats{}, newServiceError("stats", "category_stats", "failed to compute stats", err)
	}
	return stats, nil
}

// CategoriesWithCounts returns every category with its task counts.
func (s *statsServiceImpl) CategoriesWithCounts(ctx context.Context) ([]store.CategoryTaskCounts, error) {
	counts, err := s.stats.CategoriesWithCounts(ctx)
	if err != nil {
		return nil, newServiceError("stats", "categories_with_counts", "failed to compute counts", err)
	}
	return counts, nil
}
