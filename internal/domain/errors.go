package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")
)

// ValidationError describes a validation failure on a specific field.
// It wraps a sentinel error (usually ErrValidation) so callers can use
// errors.Is while still seeing which field was rejected.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// validationSentinels collects every entity validation error, so callers can
// classify an error as a validation failure without enumerating entities.
var validationSentinels = []error{
	ErrCategoryIDEmpty,
	ErrCategoryNameEmpty,
	ErrCategoryNameTooLong,
	ErrCategoryColorInvalid,
	ErrBlockIDEmpty,
	ErrBlockTitleEmpty,
	ErrBlockTitleTooLong,
	ErrBlockDescriptionTooLong,
	ErrBlockDayNumberInvalid,
	ErrTaskIDEmpty,
	ErrTaskBlockIDEmpty,
	ErrTaskCategoryIDEmpty,
	ErrTaskTitleEmpty,
	ErrTaskTitleTooLong,
	ErrTaskDescriptionTooLong,
	ErrTaskEstimatedMinutesInvalid,
	ErrTaskActualMinutesInvalid,
	ErrTaskPositionNegative,
	ErrTaskCompletionInconsistent,
	ErrQuoteIDEmpty,
	ErrQuoteTextEmpty,
	ErrQuoteTextTooLong,
}

// IsValidationError returns true if the error is, or wraps, any domain
// validation error.
func IsValidationError(err error) bool {
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrInvalidID) {
		return true
	}
	for _, sentinel := range validationSentinels {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
