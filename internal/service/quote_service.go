package service

import (
	"context"
	"log/slog"

	"github.com/blockplan/blockplan-api/internal/domain"
	"github.com/blockplan/blockplan-api/internal/store"
)

// QuoteService provides quote-related operations.
type QuoteService interface {
	// CreateQuote stores a new quote.
	CreateQuote(ctx context.Context, text string) (*domain.Quote, error)

	// LatestQuote returns the most recently created quote.
	// Returns store.ErrQuoteNotFound when none exists.
	LatestQuote(ctx context.Context) (*domain.Quote, error)
}

// quoteServiceImpl implements the QuoteService interface.
type quoteServiceImpl struct {
	quotes store.QuoteStore
	logger *slog.Logger
}

// NewQuoteService creates a new QuoteService.
// It returns an error if the quote store is nil.
func NewQuoteService(quotes store.QuoteStore, logger *slog.Logger) (QuoteService, error) {
	if quotes == nil {
		return nil, &ServiceError{Service: "quote", Operation: "create_service", Message: "quotes store cannot be nil"}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &quoteServiceImpl{
		quotes: quotes,
		logger: logger.With("component", "quote_service"),
	}, nil
}

// CreateQuote stores a new quote.
func (s *quoteServiceImpl) CreateQuote(ctx context.Context, text string) (*domain.Quote, error) {
	quote, err := domain.NewQuote(text)
	if err != nil {
		return nil, newServiceError("quote", "create_quote", "invalid quote", err)
	}

	if err := s.quotes.Create(ctx, quote); err != nil {
		s.logger.Error("failed to create quote", "error", err)
		return nil, newServiceError("quote", "create_quote", "failed to save quote", err)
	}

	return quote, nil
}

// LatestQuote returns the most recently created quote.
func (s *quoteServiceImpl) LatestQuote(ctx context.Context) (*domain.Quote, error) {
	quote, err := s.quotes.Latest(ctx)
	if err != nil {
		return nil, newServiceError("quote", "latest_quote", "failed to retrieve quote", err)
	}
	return quote, nil
}
