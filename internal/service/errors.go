package service

import (
	"errors"
	"fmt"

	"github.com/blockplan/blockplan-api/internal/domain"
	"github.com/blockplan/blockplan-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for these with errors.Is(); the API layer maps them to HTTP
// status codes.
var (
	// ErrCategoryMismatch indicates a task's category conflicts with the
	// category assigned to its block. Tasks in a categorized block must carry
	// that block's category.
	// API layer should map this to HTTP 422 Unprocessable Entity.
	ErrCategoryMismatch = errors.New("task category does not match the block's category")

	// ErrMissingCategory indicates a task was submitted without a category
	// into a block that has none to inherit from.
	// API layer should map this to HTTP 422 Unprocessable Entity.
	ErrMissingCategory = errors.New("task requires a category because its block has none")

	// ErrNoActiveBlocks indicates no block currently has incomplete tasks,
	// so there is no "next" block to work on.
	ErrNoActiveBlocks = errors.New("no block has incomplete tasks")
)

// ServiceError wraps unexpected errors from a service operation with context.
type ServiceError struct {
	// Service is the service that failed (e.g., "block", "task").
	Service string
	// Operation is the operation that failed (e.g., "create_block").
	Operation string
	// Message is a human-readable description of the error.
	Message string
	// Err is the underlying error that caused the failure.
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// newServiceError wraps err with operation context. Known sentinel and
// validation errors pass through unchanged so callers can still match them
// with errors.Is.
func newServiceError(service, operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if store.IsNotFoundError(err) ||
		errors.Is(err, store.ErrReferentialConflict) ||
		errors.Is(err, store.ErrDuplicate) ||
		errors.Is(err, store.ErrInvalidEntity) ||
		domain.IsValidationError(err) ||
		errors.Is(err, ErrCategoryMismatch) ||
		errors.Is(err, ErrMissingCategory) ||
		errors.Is(err, ErrNoActiveBlocks) {
		return err
	}

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return err
	}

	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
