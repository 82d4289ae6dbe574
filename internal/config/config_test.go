package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServerConfigDefaults(t *testing.T) {
	cfg, err := LoadServerConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "/api/yuzu", cfg.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadServerConfigEnvOverride(t *testing.T) {
	t.Setenv("YUZU_LISTEN_ADDR", ":9090")
	t.Setenv("YUZU_LOGGING_LEVEL", "debug")

	cfg, err := LoadServerConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadClientConfigRequiresURL(t *testing.T) {
	_, err := LoadClientConfig()
	assert.Error(t, err)

	t.Setenv("YUZU_CLIENT_URL", "ws://localhost:8080/api/yuzu")
	cfg, err := LoadClientConfig()
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:8080/api/yuzu", cfg.URL)
	assert.Equal(t, os.Getenv("YUZU_CLIENT_URL"), cfg.URL)
}

func TestLoadServerConfigRejectsBadLogLevel(t *testing.T) {
	t.Setenv("YUZU_LOGGING_LEVEL", "not-a-level")
	_, err := LoadServerConfig()
	assert.Error(t, err)
}
