package shared

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		Title    string `json:"title"`
		Position int    `json:"position"`
	}

	t.Run("decodes a valid body", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest("POST", "/api/tasks", strings.NewReader(`{"title":"Stretch","position":2}`))

		var got payload
		require.NoError(t, DecodeJSON(r, &got))
		assert.Equal(t, "Stretch", got.Title)
		assert.Equal(t, 2, got.Position)
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest("POST", "/api/tasks", strings.NewReader(`{"title":`))

		var got payload
		assert.Error(t, DecodeJSON(r, &got))
	})

	t.Run("ignores fields the target does not declare", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest("POST", "/api/tasks", strings.NewReader(`{"title":"Stretch","extra":true}`))

		var got payload
		require.NoError(t, DecodeJSON(r, &got))
		assert.Equal(t, "Stretch", got.Title)
	})
}
