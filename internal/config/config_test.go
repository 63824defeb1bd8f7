package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"OPENAI_API_KEY", "DB_PATH", "LOG_LEVEL", "SERVER_PORT", "MIN_TRAINING_SAMPLES"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Server.RateLimitRPS)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.DB.Path)
	assert.True(t, cfg.Sources.FEMAEnabled)
	assert.Equal(t, 200, cfg.Sources.FEMALimit)
	assert.Equal(t, 15.0, cfg.Upstream.WQPRadiusMiles)
	assert.Equal(t, 10, cfg.Upstream.WaterSourceLimit)
	assert.Equal(t, 24*time.Hour, cfg.Upstream.CacheTTL)
	assert.Equal(t, 15*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 10, cfg.Model.MinTrainingSamples)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.False(t, cfg.OpenAI.Enabled())
}

func TestLoad_CustomEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_PATH", "/tmp/aquasafe.db")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("FEMA_ENABLED", "false")
	t.Setenv("FEMA_LIMIT", "50")
	t.Setenv("WQP_RADIUS_MILES", "7.5")
	t.Setenv("CACHE_TTL", "1h")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("MIN_TRAINING_SAMPLES", "25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/tmp/aquasafe.db", cfg.DB.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Sources.FEMAEnabled)
	assert.Equal(t, 50, cfg.Sources.FEMALimit)
	assert.Equal(t, 7.5, cfg.Upstream.WQPRadiusMiles)
	assert.Equal(t, time.Hour, cfg.Upstream.CacheTTL)
	assert.True(t, cfg.OpenAI.Enabled())
	assert.Equal(t, 25, cfg.Model.MinTrainingSamples)
}

func TestLoad_UnparseableFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("WORKER_COUNT", "many")
	t.Setenv("UPSTREAM_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Worker.Count)
	assert.Equal(t, 15*time.Second, cfg.Upstream.Timeout)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port out of range", "SERVER_PORT", "70000"},
		{"unknown log level", "LOG_LEVEL", "verbose"},
		{"poll too frequent", "GDACS_POLL_INTERVAL", "10s"},
		{"fema limit too large", "FEMA_LIMIT", "5000"},
		{"too few training samples", "MIN_TRAINING_SAMPLES", "2"},
		{"zero rate limit", "RATE_LIMIT_RPS", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
