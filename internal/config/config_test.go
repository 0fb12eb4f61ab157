package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Cache.Driver)
	assert.Equal(t, "data/coordinate_cache.json", cfg.Cache.Path)
	assert.InDelta(t, 1.5, cfg.Generate.JitterKm, 1e-9)
	assert.Equal(t, 100, cfg.Generate.CallDelayMs)
	assert.Equal(t, "balanced", cfg.Generate.DefaultPreset)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SAADDR_CACHE_DRIVER", "sqlite")
	t.Setenv("SAADDR_GENERATE_JITTER_KM", "2.5")
	t.Setenv("SAADDR_MAPBOX_TOKEN", "pk.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Cache.Driver)
	assert.InDelta(t, 2.5, cfg.Generate.JitterKm, 1e-9)
	assert.Equal(t, "pk.test", cfg.Mapbox.Token)
}

func TestInitLoggerRejectsBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "shouty", Format: "json"})
	require.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
}
