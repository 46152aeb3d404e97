package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/blockplan/blockplan-api/internal/store"
)

func pgError(code, constraint string) *pgconn.PgError {
	return &pgconn.PgError{Code: code, ConstraintName: constraint}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil passes through", nil, nil},
		{"no rows maps to not found", sql.ErrNoRows, store.ErrNotFound},
		{"unique violation maps to duplicate", pgError(uniqueViolationCode, "categories_pkey"), store.ErrDuplicate},
		{"foreign key violation maps to invalid entity", pgError(foreignKeyViolationCode, "tasks_block_id_fkey"), store.ErrInvalidEntity},
		{"check violation maps to invalid entity", pgError(checkViolationCode, "positive_estimated_minutes"), store.ErrInvalidEntity},
		{"not null violation maps to invalid entity", pgError(notNullViolationCode, ""), store.ErrInvalidEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.True(t, errors.Is(got, tt.want), "expected %v to wrap %v", got, tt.want)
		})
	}

	// Unmapped errors pass through unchanged.
	opaque := errors.New("connection reset")
	assert.Equal(t, opaque, MapError(opaque))

	// Wrapped pg errors still map.
	wrapped := fmt.Errorf("insert: %w", pgError(uniqueViolationCode, ""))
	assert.True(t, errors.Is(MapError(wrapped), store.ErrDuplicate))
}

func TestIsForeignKeyViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsForeignKeyViolation(pgError(foreignKeyViolationCode, "tasks_category_id_fkey")))
	assert.False(t, IsForeignKeyViolation(pgError(uniqueViolationCode, "")))
	assert.False(t, IsForeignKeyViolation(errors.New("other")))
	assert.False(t, IsForeignKeyViolation(nil))
}
