package config_test

import (
	"testing"

	"country-catalog/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "fs", cfg.Summary.Backend)
	assert.Equal(t, "cache", cfg.Summary.Dir)
	assert.Equal(t, "summary.png", cfg.Summary.Object)
	assert.Equal(t, 10, cfg.Source.TimeoutSeconds)
	assert.Contains(t, cfg.Source.CountriesURL, "restcountries.com")
	assert.Contains(t, cfg.Source.RatesURL, "open.er-api.com")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("SOURCE_TIMEOUT_SECONDS", "3")
	t.Setenv("SUMMARY_BACKEND", "s3")

	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 3, cfg.Source.TimeoutSeconds)
	assert.Equal(t, "s3", cfg.Summary.Backend)
}
