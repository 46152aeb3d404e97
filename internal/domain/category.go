package domain

import (
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Category-specific validation errors
var (
	// ErrCategoryIDEmpty is returned when a category ID is empty or nil.
	ErrCategoryIDEmpty = errors.New("category ID cannot be empty")

	// ErrCategoryNameEmpty is returned when a category's name is empty.
	ErrCategoryNameEmpty = errors.New("category name cannot be empty")

	// ErrCategoryNameTooLong is returned when a category's name exceeds 100 characters.
	ErrCategoryNameTooLong = errors.New("category name cannot exceed 100 characters")

	// ErrCategoryColorInvalid is returned when a category's color is not a
	// 7-character hex code of the form #RRGGBB.
	ErrCategoryColorInvalid = errors.New("category color must be a hex code like #1A2B3C")
)

// hexColorPattern matches a 7-character hex color code (#RRGGBB).
var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Category is a classification label shared by a block and the tasks that
// must match it. Deleting a category is restricted while any task still
// references it.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Color     *string   `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCategory creates a new Category with the given name and optional color.
// It generates a new UUID and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewCategory(name string, color *string) (*Category, error) {
	now := time.Now().UTC()
	category := &Category{
		ID:        uuid.New(),
		Name:      name,
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}

	return category, nil
}

// Validate checks if the Category has valid data.
// Returns an error if any field fails validation.
func (c *Category) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCategoryIDEmpty
	}

	if len(c.Name) == 0 {
		return ErrCategoryNameEmpty
	}

	if len(c.Name) > 100 {
		return ErrCategoryNameTooLong
	}

	if c.Color != nil && !hexColorPattern.MatchString(*c.Color) {
		return ErrCategoryColorInvalid
	}

	return nil
}

// Touch updates the UpdatedAt timestamp. Call after mutating fields.
func (c *Category) Touch() {
	c.UpdatedAt = time.Now().UTC()
}
