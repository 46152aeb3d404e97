package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blockplan/blockplan-api/internal/config"
)

func TestSetupLevels(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
	}{
		{"debug level", "debug"},
		{"info level", "info"},
		{"warn level", "warn"},
		{"error level", "error"},
		{"mixed case", "DeBuG"},
		{"invalid falls back to info", "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := Setup(config.ServerConfig{Port: 8080, LogLevel: tt.logLevel})
			assert.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestContextPropagation(t *testing.T) {
	t.Parallel()

	scoped := slog.Default().With(slog.String("component", "test"))
	ctx := WithLogger(context.Background(), scoped)

	assert.Same(t, scoped, FromContext(ctx))
	assert.Same(t, scoped, FromContextOrDefault(ctx, nil))

	// Without an attached logger, fall back appropriately.
	bare := context.Background()
	assert.Same(t, slog.Default(), FromContext(bare))

	def := slog.Default().With(slog.String("component", "fallback"))
	assert.Same(t, def, FromContextOrDefault(bare, def))
	assert.Same(t, slog.Default(), FromContextOrDefault(bare, nil))
}
