package postgres

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/blockplan/blockplan-api/internal/store"
)

// PostgresStatsStore implements the store.StatsStore interface
// using a PostgreSQL database as the storage backend. All queries are
// read-only aggregates over the tasks table.
type PostgresStatsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStatsStore creates a new PostgreSQL implementation of the
// StatsStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresStatsStore(db store.DBTX, logger *slog.Logger) *PostgresStatsStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStatsStore{
		db:     db,
		logger: logger.With(slog.String("component", "stats_store")),
	}
}

// Ensure PostgresStatsStore implements store.StatsStore interface
var _ store.StatsStore = (*PostgresStatsStore)(nil)

// BlockProgress implements store.StatsStore.BlockProgress
// The percentage is computed in Go so the zero-task case is an explicit 0,
// not a database division error.
func (s *PostgresStatsStore) BlockProgress(ctx context.Context, blockID uuid.UUID) (store.BlockProgress, error) {
	query := `
		SELECT
			COUNT(*) AS total_tasks,
			COUNT(*) FILTER (WHERE completed) AS completed_tasks,
			COALESCE(SUM(estimated_minutes), 0) AS total_estimated,
			COALESCE(SUM(actual_minutes) FILTER (WHERE completed), 0) AS total_actual,
			COALESCE(SUM(estimated_minutes) FILTER (WHERE NOT completed), 0) AS remaining_estimated
		FROM tasks
		WHERE block_id = $1
	`
	progress := store.BlockProgress{BlockID: blockID}
	err := s.db.QueryRowContext(ctx, query, blockID).Scan(
		&progress.TotalTasks,
		&progress.CompletedTasks,
		&progress.TotalEstimatedMinutes,
		&progress.TotalActualMinutes,
		&progress.RemainingEstimatedMinutes,
	)
	if err != nil {
		return store.BlockProgress{}, MapError(err)
	}

	progress.CompletionPercentage = percentage(progress.CompletedTasks, progress.TotalTasks)
	progress.IsComplete = progress.TotalTasks > 0 && progress.CompletedTasks == progress.TotalTasks
	return progress, nil
}

// CategoryStats implements store.StatsStore.CategoryStats
func (s *PostgresStatsStore) CategoryStats(ctx context.Context, categoryID uuid.UUID) (store.CategoryStats, error) {
	query := `
		SELECT
			c.name,
			COUNT(t.id) AS total_tasks,
			COUNT(t.id) FILTER (WHERE t.completed) AS completed_tasks,
			COALESCE(SUM(t.estimated_minutes), 0) AS total_estimated,
			COALESCE(SUM(t.actual_minutes) FILTER (WHERE t.completed), 0) AS total_actual
		FROM categories c
		LEFT JOIN tasks t ON t.category_id = c.id
		WHERE c.id = $1
		GROUP BY c.id, c.name
	`
	stats := store.CategoryStats{CategoryID: categoryID}
	err := s.db.QueryRowContext(ctx, query, categoryID).Scan(
		&stats.CategoryName,
		&stats.TotalTasks,
		&stats.CompletedTasks,
		&stats.TotalEstimatedMinutes,
		&stats.TotalActualMinutes,
	)
	if err != nil {
		// No row means the category itself is absent, not "zero tasks".
		return store.CategoryStats{}, MapError(err)
	}

	stats.CompletionRate = percentage(stats.CompletedTasks, stats.TotalTasks)
	return stats, nil
}

// CategoriesWithCounts implements store.StatsStore.CategoriesWithCounts
func (s *PostgresStatsStore) CategoriesWithCounts(ctx context.Context) ([]store.CategoryTaskCounts, error) {
	query := `
		SELECT c.id, c.name, c.color,
		       COUNT(t.id) AS total_tasks,
		       COUNT(t.id) FILTER (WHERE t.completed) AS completed_tasks
		FROM categories c
		LEFT JOIN tasks t ON t.category_id = c.id
		GROUP BY c.id, c.name, c.color
		ORDER BY c.name
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	counts := make([]store.CategoryTaskCounts, 0)
	for rows.Next() {
		var c store.CategoryTaskCounts
		if err := rows.Scan(&c.CategoryID, &c.CategoryName, &c.Color, &c.TotalTasks, &c.CompletedTasks); err != nil {
			return nil, MapError(err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return counts, nil
}

// percentage returns completed/total*100 rounded to two decimals, and an
// explicit 0 when total is zero.
func percentage(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	raw := float64(completed) / float64(total) * 100
	return float64(int(raw*100+0.5)) / 100
}
