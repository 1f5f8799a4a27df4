package configs

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "https://api.composer.trade", cfg.BaseURL)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, ":8081", cfg.AdminAddr)
	assert.Equal(t, 30*time.Second, cfg.HTTPClientTimeout)
	assert.Equal(t, 64, cfg.MaxConnsPerHost)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.APIKey)
	assert.Empty(t, cfg.SecretKey)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("COMPOSER_API_KEY", "key-id")
	t.Setenv("COMPOSER_SECRET_KEY", "key-secret")
	t.Setenv("COMPOSER_BASE_URL", "https://staging.composer.trade")
	t.Setenv("COMPOSER_HTTP_CLIENT_TIMEOUT", "10s")
	t.Setenv("COMPOSER_MAX_CONNS_PER_HOST", "8")
	t.Setenv("COMPOSER_LOG_LEVEL", "debug")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "key-id", cfg.APIKey)
	assert.Equal(t, "key-secret", cfg.SecretKey)
	assert.Equal(t, "https://staging.composer.trade", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPClientTimeout)
	assert.Equal(t, 8, cfg.MaxConnsPerHost)
	assert.Equal(t, slog.LevelDebug, cfg.ParsedLogLevel())
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "composer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"base_url: https://sandbox.composer.trade\nlisten_addr: \":9090\"\nlog_level: warn\n",
	), 0o600))
	t.Setenv("COMPOSER_CONFIG_FILE", path)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "https://sandbox.composer.trade", cfg.BaseURL)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, ":8081", cfg.AdminAddr)
	assert.Equal(t, slog.LevelWarn, cfg.ParsedLogLevel())
}

func TestLoad_EnvironmentWinsOverConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "composer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: https://sandbox.composer.trade\n"), 0o600))
	t.Setenv("COMPOSER_CONFIG_FILE", path)
	t.Setenv("COMPOSER_BASE_URL", "https://env.composer.trade")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "https://env.composer.trade", cfg.BaseURL)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("COMPOSER_CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "base URL without scheme", key: "COMPOSER_BASE_URL", value: "api.composer.trade"},
		{name: "base URL with bad scheme", key: "COMPOSER_BASE_URL", value: "ftp://api.composer.trade"},
		{name: "zero timeout", key: "COMPOSER_HTTP_CLIENT_TIMEOUT", value: "0s"},
		{name: "negative conns", key: "COMPOSER_MAX_CONNS_PER_HOST", value: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestParsedLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"garbage", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		cfg := Config{LogLevel: tt.in}
		assert.Equal(t, tt.want, cfg.ParsedLogLevel(), tt.in)
	}
}
