package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		completed int
		total     int
		want      float64
	}{
		{"no tasks yields zero, not a division error", 0, 0, 0},
		{"none completed", 0, 4, 0},
		{"one of three rounds to two decimals", 1, 3, 33.33},
		{"two of three rounds up", 2, 3, 66.67},
		{"one of six", 1, 6, 16.67},
		{"one of eight is exact", 1, 8, 12.5},
		{"all completed", 3, 3, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, percentage(tt.completed, tt.total))
		})
	}
}
