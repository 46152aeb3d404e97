package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewCategory(t *testing.T) {
	t.Parallel()

	category, err := NewCategory("Work", strPtr("#1A2B3C"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if category.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if category.Name != "Work" {
		t.Errorf("Expected name %q, got %q", "Work", category.Name)
	}
	if category.CreatedAt.IsZero() || category.UpdatedAt.IsZero() {
		t.Error("Expected non-zero timestamps")
	}

	_, err = NewCategory("", nil)
	if !errors.Is(err, ErrCategoryNameEmpty) {
		t.Errorf("Expected error %v, got %v", ErrCategoryNameEmpty, err)
	}
}

func TestCategoryValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Category)
		wantErr error
	}{
		{"valid without color", func(c *Category) {}, nil},
		{"valid with color", func(c *Category) { c.Color = strPtr("#aaBB99") }, nil},
		{"name too long", func(c *Category) { c.Name = strings.Repeat("a", 101) }, ErrCategoryNameTooLong},
		{"color missing hash", func(c *Category) { c.Color = strPtr("1A2B3C7") }, ErrCategoryColorInvalid},
		{"color too short", func(c *Category) { c.Color = strPtr("#FFF") }, ErrCategoryColorInvalid},
		{"color non-hex", func(c *Category) { c.Color = strPtr("#GGGGGG") }, ErrCategoryColorInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category := Category{ID: uuid.New(), Name: "Work"}
			tt.mutate(&category)
			err := category.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestQuoteValidate(t *testing.T) {
	t.Parallel()

	quote, err := NewQuote("Make it count.")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if quote.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if _, err := NewQuote(""); !errors.Is(err, ErrQuoteTextEmpty) {
		t.Errorf("Expected error %v, got %v", ErrQuoteTextEmpty, err)
	}
	if _, err := NewQuote(strings.Repeat("a", 501)); !errors.Is(err, ErrQuoteTextTooLong) {
		t.Errorf("Expected error %v, got %v", ErrQuoteTextTooLong, err)
	}
}
