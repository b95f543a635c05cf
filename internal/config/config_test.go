package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 85.0, cfg.Reconcile.FuzzyThreshold)
	assert.Equal(t, "agency_name", cfg.Reconcile.Synonyms["brand"])
	assert.Equal(t, "city", cfg.Reconcile.Synonyms["venue_city"])
	assert.Empty(t, cfg.Reconcile.Overrides)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("AGENCY_LOG_LEVEL", "debug")
	t.Setenv("AGENCY_SERVER_PORT", "9999")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	assert.Error(t, err)
}

func TestInitLogger_Console(t *testing.T) {
	err := InitLogger(LogConfig{Level: "warn", Format: "console"})
	assert.NoError(t, err)
}
