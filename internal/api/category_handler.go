package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/blockplan/blockplan-api/internal/api/shared"
	"github.com/blockplan/blockplan-api/internal/service"
)

// CreateCategoryRequest represents the request body for creating a category
type CreateCategoryRequest struct {
	Name  string  `json:"name"  validate:"required,min=1,max=100"`
	Color *string `json:"color" validate:"omitempty,len=7"`
}

// UpdateCategoryRequest represents the request body for updating a category.
// Omitted fields are left unchanged.
type UpdateCategoryRequest struct {
	Name  *string `json:"name"  validate:"omitempty,min=1,max=100"`
	Color *string `json:"color" validate:"omitempty,len=7"`
}

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	categoryService service.CategoryService
	statsService    service.StatsService
	validator       *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(
	categoryService service.CategoryService,
	statsService service.StatsService,
) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		statsService:    statsService,
		validator:       validator.New(),
	}
}

// CreateCategory handles POST /api/categories requests
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	category, err := h.categoryService.CreateCategory(r.Context(), req.Name, req.Color)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, categoryToResponse(category))
}

// ListCategories handles GET /api/categories requests
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	skip, err := getQueryInt(r, "skip", 0)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	limit, err := getQueryInt(r, "limit", 100)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	categories, err := h.categoryService.ListCategories(r.Context(), skip, limit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, categoriesToResponse(categories))
}

// ListCategoriesWithCounts handles GET /api/categories/with-counts requests
func (h *CategoryHandler) ListCategoriesWithCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.statsService.CategoriesWithCounts(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, counts)
}

// GetCategory handles GET /api/categories/{id} requests
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	category, err := h.categoryService.GetCategory(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, categoryToResponse(category))
}

// UpdateCategory handles PUT /api/categories/{id} requests
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateCategoryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	category, err := h.categoryService.UpdateCategory(r.Context(), id, service.UpdateCategoryParams{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, categoryToResponse(category))
}

// DeleteCategory handles DELETE /api/categories/{id} requests.
// Responds 409 Conflict while tasks still reference the category.
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.categoryService.DeleteCategory(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetCategoryStats handles GET /api/categories/{id}/stats requests
func (h *CategoryHandler) GetCategoryStats(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	stats, err := h.statsService.CategoryStats(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}
