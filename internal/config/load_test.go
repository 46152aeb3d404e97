package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BLOCKPLAN_DATABASE_URL", "postgres://localhost:5432/blockplan_test")
	t.Setenv("BLOCKPLAN_SERVER_PORT", "9090")
	t.Setenv("BLOCKPLAN_SERVER_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "postgres://localhost:5432/blockplan_test", cfg.Database.URL)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BLOCKPLAN_DATABASE_URL", "postgres://localhost:5432/blockplan_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing database url",
			env:  map[string]string{},
		},
		{
			name: "invalid log level",
			env: map[string]string{
				"BLOCKPLAN_DATABASE_URL":    "postgres://localhost:5432/blockplan_test",
				"BLOCKPLAN_SERVER_LOG_LEVEL": "loud",
			},
		},
		{
			name: "port out of range",
			env: map[string]string{
				"BLOCKPLAN_DATABASE_URL": "postgres://localhost:5432/blockplan_test",
				"BLOCKPLAN_SERVER_PORT":  "70000",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
