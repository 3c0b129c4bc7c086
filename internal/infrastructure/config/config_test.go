package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 6, cfg.Engine.MaxFilterResults)
	assert.Equal(t, 5, cfg.Engine.MaxScanResults)
	assert.Equal(t, 2, cfg.Engine.StressThreshold)
	assert.Equal(t, 6, cfg.Engine.HistoryLookback)
	assert.InDelta(t, 3.0, cfg.Engine.DefaultBudget, 1e-9)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.False(t, cfg.Assistant.Enabled)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENGINE_MAX_FILTER_RESULTS", "3")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "127.0.0.1:6390")
	t.Setenv("GROQ_API_KEY", "gsk_test_key_1234")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Engine.MaxFilterResults)
	assert.Equal(t, "redis", cfg.Session.Backend)
	assert.Equal(t, "127.0.0.1:6390", cfg.Redis.Addr)
	assert.Equal(t, "gsk_test_key_1234", cfg.Assistant.APIKey)
	assert.True(t, cfg.Assistant.Enabled, "api key enables the assistant")
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(*Config) {}, ""},
		{"missing port", func(c *Config) { c.Server.Port = 0 }, "server port"},
		{"zero result caps", func(c *Config) { c.Engine.MaxScanResults = 0 }, "result caps"},
		{"unknown backend", func(c *Config) { c.Session.Backend = "etcd" }, "unknown session backend"},
		{"redis without addr", func(c *Config) {
			c.Session.Backend = "redis"
			c.Redis.Addr = ""
		}, "redis addr"},
		{"assistant without key", func(c *Config) {
			c.Assistant.Enabled = true
			c.Assistant.APIKey = ""
		}, "api key"},
		{"no workers", func(c *Config) { c.Queue.Workers = 0 }, "queue workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "gsk_...cdef", maskAPIKey("gsk_0123456789abcdef"))
}
