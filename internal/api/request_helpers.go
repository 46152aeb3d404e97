package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/blockplan/blockplan-api/internal/domain"
	"github.com/blockplan/blockplan-api/internal/service"
)

// getPathUUID extracts a UUID from the URL path parameters.
// It parses and validates the UUID, handling common error cases.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// getQueryInt parses an optional integer query parameter, returning the
// fallback when the parameter is absent.
func getQueryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be an integer", domain.ErrValidation)
	}
	return value, nil
}

// getQueryIntPtr parses an optional integer query parameter, returning nil
// when the parameter is absent.
func getQueryIntPtr(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domain.NewValidationError(name, "must be an integer", domain.ErrValidation)
	}
	return &value, nil
}

// getQueryBool parses an optional boolean query parameter, returning the
// fallback when the parameter is absent.
func getQueryBool(r *http.Request, name string, fallback bool) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, domain.NewValidationError(name, "must be a boolean", domain.ErrValidation)
	}
	return value, nil
}

// getQueryBoolPtr parses an optional boolean query parameter, returning nil
// when the parameter is absent.
func getQueryBoolPtr(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domain.NewValidationError(name, "must be a boolean", domain.ErrValidation)
	}
	return &value, nil
}

// getReorderPolicy parses the on_unknown query parameter into a batch
// policy. Unknown IDs are skipped unless the caller asks for failure.
func getReorderPolicy(r *http.Request) (service.ReorderPolicy, error) {
	switch r.URL.Query().Get("on_unknown") {
	case "", "skip":
		return service.SkipUnknown, nil
	case "fail":
		return service.FailOnUnknown, nil
	default:
		return service.SkipUnknown, domain.NewValidationError("on_unknown", "must be skip or fail", domain.ErrValidation)
	}
}

// getQueryUUIDPtr parses an optional UUID query parameter, returning nil
// when the parameter is absent.
func getQueryUUIDPtr(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domain.NewValidationError(name, "has invalid format", domain.ErrInvalidID)
	}
	return &id, nil
}
