package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/blockplan/blockplan-api/internal/api/shared"
	"github.com/blockplan/blockplan-api/internal/domain"
	"github.com/blockplan/blockplan-api/internal/service"
	"github.com/blockplan/blockplan-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Category rule violations: the request is well-formed but the
	// combination of block and category is not acceptable.
	case errors.Is(err, service.ErrCategoryMismatch),
		errors.Is(err, service.ErrMissingCategory):
		return http.StatusUnprocessableEntity

	// Conflict errors
	case errors.Is(err, store.ErrReferentialConflict),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case domain.IsValidationError(err),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Special cases
	case errors.Is(err, service.ErrNoActiveBlocks):
		return http.StatusNoContent

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Not found errors
	case errors.Is(err, store.ErrCategoryNotFound):
		return "Category not found"

	case errors.Is(err, store.ErrBlockNotFound):
		return "Block not found"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrQuoteNotFound):
		return "No quote available"

	case store.IsNotFoundError(err):
		return "Resource not found"

	// Category rule violations
	case errors.Is(err, service.ErrCategoryMismatch):
		return "Task category does not match the block's category"

	case errors.Is(err, service.ErrMissingCategory):
		return "A category is required because the block has none"

	// Conflict errors
	case errors.Is(err, store.ErrReferentialConflict):
		return "Category is still referenced by tasks"

	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	// Bad request errors
	case domain.IsValidationError(err):
		return err.Error()

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	// Default case for unknown errors
	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps err to a status code and writes a sanitized error
// response. An empty userMessage falls back to GetSafeErrorMessage.
// StatusNoContent is written bodyless per its definition.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	status := MapErrorToStatusCode(err)

	if status == http.StatusNoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if userMessage == "" {
		userMessage = GetSafeErrorMessage(err)
	}

	shared.RespondWithErrorAndLog(w, r, status, userMessage, err)
}

// SanitizeValidationError removes sensitive details from validator errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example format: "Key: 'CreateTaskRequest.Title' Error:Field validation for 'Title' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gte":
		return "too small"
	case "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	case "hexcolor":
		return "invalid color code"
	default:
		return "validation failed"
	}
}
