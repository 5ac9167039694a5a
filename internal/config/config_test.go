package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.RunAddr)
	assert.Equal(t, "http://localhost:8080", cfg.ShortURLBase)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "tinylink_session", cfg.AuthCookieName)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10, cfg.PasswordHashCost)
}

func TestConfigEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":7000")
	t.Setenv("BASE_URL", "http://envonly.com")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("PASSWORD_HASH_COST", "4")

	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.RunAddr)
	assert.Equal(t, "http://envonly.com", cfg.ShortURLBase)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, 4, cfg.PasswordHashCost)
}

func TestConfigRejectsUnknownLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")

	_, err := New(WithDisableFlagsParsing(true))
	assert.Error(t, err)
}

func TestConfigRejectsMalformedRunAddr(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", "not an address")

	_, err := New(WithDisableFlagsParsing(true))
	assert.Error(t, err)
}

func TestConfigRejectsExcessiveHashCost(t *testing.T) {
	t.Setenv("PASSWORD_HASH_COST", "99")

	_, err := New(WithDisableFlagsParsing(true))
	assert.Error(t, err)
}
