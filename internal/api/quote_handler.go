package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/blockplan/blockplan-api/internal/api/shared"
	"github.com/blockplan/blockplan-api/internal/service"
)

// CreateQuoteRequest represents the request body for creating a quote
type CreateQuoteRequest struct {
	Text string `json:"text" validate:"required,min=1,max=500"`
}

// QuoteHandler handles quote-related HTTP requests
type QuoteHandler struct {
	quoteService service.QuoteService
	validator    *validator.Validate
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService service.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
		validator:    validator.New(),
	}
}

// CreateQuote handles POST /api/quotes requests
func (h *QuoteHandler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	var req CreateQuoteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	quote, err := h.quoteService.CreateQuote(r.Context(), req.Text)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, quoteToResponse(quote))
}

// GetLatestQuote handles GET /api/quotes/latest requests
func (h *QuoteHandler) GetLatestQuote(w http.ResponseWriter, r *http.Request) {
	quote, err := h.quoteService.LatestQuote(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, quoteToResponse(quote))
}
