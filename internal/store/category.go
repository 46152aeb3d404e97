package store

import (
	"context"
	"database/sql"

	"github.com/blockplan/blockplan-api/internal/domain"
	"github.com/google/uuid"
)

// CategoryStore defines the interface for category data persistence.
type CategoryStore interface {
	// Create saves a new category to the store.
	// Returns validation errors if the category data is invalid.
	Create(ctx context.Context, category *domain.Category) error

	// GetByID retrieves a category by its unique ID.
	// Returns ErrCategoryNotFound if the category does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)

	// List retrieves categories ordered by name, with offset pagination.
	List(ctx context.Context, skip, limit int) ([]*domain.Category, error)

	// Update modifies an existing category.
	// Returns ErrCategoryNotFound if the category does not exist.
	Update(ctx context.Context, category *domain.Category) error

	// Delete removes a category by its ID. The schema restricts deletion
	// while any task references the category; that case surfaces as
	// ErrReferentialConflict, distinct from ErrCategoryNotFound.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a CategoryStore bound to the provided transaction.
	WithTx(tx *sql.Tx) CategoryStore
}
