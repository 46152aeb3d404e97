package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockplan/blockplan-api/internal/domain"
	"github.com/blockplan/blockplan-api/internal/store"
)

// stubQuoteService implements service.QuoteService with function fields.
type stubQuoteService struct {
	createFn func(ctx context.Context, text string) (*domain.Quote, error)
	latestFn func(ctx context.Context) (*domain.Quote, error)
}

func (s *stubQuoteService) CreateQuote(ctx context.Context, text string) (*domain.Quote, error) {
	return s.createFn(ctx, text)
}

func (s *stubQuoteService) LatestQuote(ctx context.Context) (*domain.Quote, error) {
	return s.latestFn(ctx)
}

func TestCreateQuoteHandler(t *testing.T) {
	t.Parallel()

	t.Run("valid quote is created", func(t *testing.T) {
		t.Parallel()
		handler := NewQuoteHandler(&stubQuoteService{
			createFn: func(ctx context.Context, text string) (*domain.Quote, error) {
				return domain.NewQuote(text)
			},
		})

		req := httptest.NewRequest(http.MethodPost, "/api/quotes",
			strings.NewReader(`{"text":"Eat the frog first."}`))
		rec := httptest.NewRecorder()
		handler.CreateQuote(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp QuoteResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "Eat the frog first.", resp.Text)
		assert.NotEmpty(t, resp.ID)
	})

	t.Run("empty text is rejected before the service", func(t *testing.T) {
		t.Parallel()
		handler := NewQuoteHandler(&stubQuoteService{
			createFn: func(ctx context.Context, text string) (*domain.Quote, error) {
				t.Fatal("service should not be called")
				return nil, nil
			},
		})

		req := httptest.NewRequest(http.MethodPost, "/api/quotes", strings.NewReader(`{"text":""}`))
		rec := httptest.NewRecorder()
		handler.CreateQuote(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body is rejected", func(t *testing.T) {
		t.Parallel()
		handler := NewQuoteHandler(&stubQuoteService{})

		req := httptest.NewRequest(http.MethodPost, "/api/quotes", strings.NewReader(`{`))
		rec := httptest.NewRecorder()
		handler.CreateQuote(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetLatestQuoteHandler(t *testing.T) {
	t.Parallel()

	t.Run("missing quote maps to 404", func(t *testing.T) {
		t.Parallel()
		handler := NewQuoteHandler(&stubQuoteService{
			latestFn: func(ctx context.Context) (*domain.Quote, error) {
				return nil, store.ErrQuoteNotFound
			},
		})

		req := httptest.NewRequest(http.MethodGet, "/api/quotes/latest", nil)
		rec := httptest.NewRecorder()
		handler.GetLatestQuote(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)

		var resp struct {
			Error string `json:"error"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "No quote available", resp.Error)
	})
}
