package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Parse(env.Options{Environment: map[string]string{}})
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 120*time.Second, cfg.RefreshInterval)
	assert.Equal(t, 10.0, cfg.UpstreamRPS)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel())
	assert.Empty(t, cfg.APIBaseURL)
}

func TestOverrides(t *testing.T) {
	cfg, err := Parse(env.Options{Environment: map[string]string{
		"API_BASE_URL":            "https://seller.example.com/api",
		"API_TOKEN":               "t0k",
		"PORT":                    "9090",
		"HTTP_TIMEOUT":            "3s",
		"LOG_LEVEL":               "debug",
		"ORDERS_REFRESH_INTERVAL": "1m",
		"ALLOWED_ORIGINS":         "https://a.example,https://b.example",
	}})
	require.NoError(t, err)
	assert.Equal(t, "https://seller.example.com/api", cfg.APIBaseURL)
	assert.Equal(t, "t0k", cfg.APIToken)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, time.Minute, cfg.RefreshInterval)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestBadValue(t *testing.T) {
	_, err := Parse(env.Options{Environment: map[string]string{"HTTP_TIMEOUT": "soon"}})
	assert.Error(t, err)
}

func TestUnknownLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, Config{LogLevelName: "loud"}.LogLevel())
	assert.Equal(t, slog.LevelWarn, Config{LogLevelName: "WARN"}.LogLevel())
}
