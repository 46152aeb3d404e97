package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/blockplan/blockplan-api/internal/domain"
	"github.com/blockplan/blockplan-api/internal/store"
)

// CategoryValidator resolves the effective category for a task entering a
// block, enforcing the inheritance rules between the two:
//
//   - A block with an assigned category lends it to tasks submitted without
//     one, and rejects tasks submitted with a different one.
//   - A block without a category accepts any existing category but cannot
//     supply a default, so a task submitted without one is rejected.
type CategoryValidator struct {
	categories store.CategoryStore
}

// NewCategoryValidator creates a CategoryValidator reading from the given
// category store.
func NewCategoryValidator(categories store.CategoryStore) *CategoryValidator {
	if categories == nil {
		panic("categories cannot be nil")
	}
	return &CategoryValidator{categories: categories}
}

// Resolve returns the category the task must carry inside the block.
// Returns ErrCategoryMismatch when the submitted category conflicts with the
// block's, ErrMissingCategory when neither side supplies one, and
// store.ErrCategoryNotFound when the submitted category does not exist.
func (v *CategoryValidator) Resolve(
	ctx context.Context,
	block *domain.Block,
	submitted *uuid.UUID,
) (uuid.UUID, error) {
	if assigned, ok := block.Category().Assigned(); ok {
		if submitted == nil {
			return assigned, nil
		}
		if *submitted != assigned {
			return uuid.Nil, ErrCategoryMismatch
		}
		return assigned, nil
	}

	if submitted == nil {
		return uuid.Nil, ErrMissingCategory
	}

	if _, err := v.categories.GetByID(ctx, *submitted); err != nil {
		return uuid.Nil, err
	}
	return *submitted, nil
}
