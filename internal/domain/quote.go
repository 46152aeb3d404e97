package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Quote-specific validation errors
var (
	// ErrQuoteIDEmpty is returned when a quote ID is empty or nil.
	ErrQuoteIDEmpty = errors.New("quote ID cannot be empty")

	// ErrQuoteTextEmpty is returned when a quote's text is empty.
	ErrQuoteTextEmpty = errors.New("quote text cannot be empty")

	// ErrQuoteTextTooLong is returned when a quote's text exceeds 500 characters.
	ErrQuoteTextTooLong = errors.New("quote text cannot exceed 500 characters")
)

// Quote is a short motivational text shown alongside the queue. Only the
// most recently created quote is surfaced.
type Quote struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// NewQuote creates a new Quote with the given text.
// Returns an error if validation fails.
func NewQuote(text string) (*Quote, error) {
	quote := &Quote{
		ID:        uuid.New(),
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	if err := quote.Validate(); err != nil {
		return nil, err
	}

	return quote, nil
}

// Validate checks if the Quote has valid data.
func (q *Quote) Validate() error {
	if q.ID == uuid.Nil {
		return ErrQuoteIDEmpty
	}

	if len(q.Text) == 0 {
		return ErrQuoteTextEmpty
	}

	if len(q.Text) > 500 {
		return ErrQuoteTextTooLong
	}

	return nil
}
