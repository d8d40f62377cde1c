package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_Defaults verifies defaults apply when no file or environment
// overrides exist.
func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 50.0, cfg.Server.RateLimit)
	assert.Equal(t, 100, cfg.Server.RateBurst)
	assert.Equal(t, 10, cfg.Engine.MaxDecimals)
	assert.Equal(t, 1000, cfg.Engine.MonteCarloSamples)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

// TestLoad_EnvOverride verifies environment variables win over defaults.
func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("VERDICT_SERVER_ADDR", ":9090")
	t.Setenv("VERDICT_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
}

// TestInitLogger covers both formats and the invalid-level path.
func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.Error(t, InitLogger(LogConfig{Level: "verbose", Format: "json"}))
}
