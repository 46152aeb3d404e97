package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/blockplan/blockplan-api/internal/domain"
	"github.com/blockplan/blockplan-api/internal/store"
)

// UpdateCategoryParams carries the optional fields of a category update.
// Nil fields are left unchanged.
type UpdateCategoryParams struct {
	Name  *string
	Color *string
}

// CategoryService provides category-related operations.
type CategoryService interface {
	// CreateCategory creates a new category with the given name and
	// optional display color.
	CreateCategory(ctx context.Context, name string, color *string) (*domain.Category, error)

	// GetCategory retrieves a category by its ID.
	GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error)

	// ListCategories retrieves categories ordered by name.
	ListCategories(ctx context.Context, skip, limit int) ([]*domain.Category, error)

	// UpdateCategory applies a partial update to a category.
	UpdateCategory(ctx context.Context, id uuid.UUID, params UpdateCategoryParams) (*domain.Category, error)

	// DeleteCategory removes a category. Deletion is refused with
	// store.ErrReferentialConflict while any task references the category.
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

// categoryServiceImpl implements the CategoryService interface.
type categoryServiceImpl struct {
	categories store.CategoryStore
	logger     *slog.Logger
}

// NewCategoryService creates a new CategoryService.
// It returns an error if any of the required dependencies are nil.
func NewCategoryService(categories store.CategoryStore, logger *slog.Logger) (CategoryService, error) {
	if categories == nil {
		return nil, &ServiceError{
			Service:   "category",
			Operation: "create_service",
			Message:   "categories store cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &categoryServiceImpl{
		categories: categories,
		logger:     logger.With("component", "category_service"),
	}, nil
}

// CreateCategory creates and persists a new category.
func (s *categoryServiceImpl) CreateCategory(
	ctx context.Context,
	name string,
	color *string,
) (*domain.Category, error) {
	category, err := domain.NewCategory(name, color)
	if err != nil {
		return nil, newServiceError("category", "create_category", "invalid category", err)
	}

	if err := s.categories.Create(ctx, category); err != nil {
		s.logger.Error("failed to create category",
			"error", err,
			"category_name", name)
		return nil, newServiceError("category", "create_category", "failed to save category", err)
	}

	s.logger.Info("category created",
		"category_id", category.ID,
		"category_name", category.Name)
	return category, nil
}

// GetCategory retrieves a category by its ID.
func (s *categoryServiceImpl) GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, newServiceError("category", "get_category", "failed to retrieve category", err)
	}
	return category, nil
}

// ListCategories retrieves categories ordered by name.
func (s *categoryServiceImpl) ListCategories(
	ctx context.Context,
	skip, limit int,
) ([]*domain.Category, error) {
	categories, err := s.categories.List(ctx, skip, limit)
	if err != nil {
		return nil, newServiceError("category", "list_categories", "failed to list categories", err)
	}
	return categories, nil
}

// UpdateCategory applies a partial update to a category.
func (s *categoryServiceImpl) UpdateCategory(
	ctx context.Context,
	id uuid.UUID,
	params UpdateCategoryParams,
) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, newServiceError("category", "update_category", "failed to retrieve category", err)
	}

	if params.Name != nil {
		category.Name = *params.Name
	}
	if params.Color != nil {
		category.Color = params.Color
	}
	category.Touch()

	if err := s.categories.Update(ctx, category); err != nil {
		s.logger.Error("failed to update category",
			"error", err,
			"category_id", id)
		return nil, newServiceError("category", "update_category", "failed to save category", err)
	}

	return category, nil
}

// DeleteCategory removes a category unless tasks still reference it.
func (s *categoryServiceImpl) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		s.logger.Warn("failed to delete category",
			"error", err,
			"category_id", id)
		return newServiceError("category", "delete_category", "failed to delete category", err)
	}

	s.logger.Info("category deleted", "category_id", id)
	return nil
}
