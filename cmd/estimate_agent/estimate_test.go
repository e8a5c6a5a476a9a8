package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsOnly(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	cfg, err := loadConfig("", "", "")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Empty(t, cfg.CalibrationDir)
	assert.Empty(t, cfg.DatabaseURL)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	payload := `{"calibration_dir": "/from/file", "database_url": "postgres://file/db"}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	cfg, err := loadConfig(path, "/from/flag", "postgres://flag/db")
	require.NoError(t, err)

	assert.Equal(t, "/from/flag", cfg.CalibrationDir)
	assert.Equal(t, "postgres://flag/db", cfg.DatabaseURL)
}

func TestLoadConfig_EnvFallbackForDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/db")

	cfg, err := loadConfig("", "", "")
	require.NoError(t, err)
	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.json"), "", "")
	assert.Error(t, err)
}

func TestRunEstimate_RejectsInvalidFeaturesFile(t *testing.T) {
	// The CLI path has no JSON schema guard; the struct tags must catch a
	// feature without a name before any estimation happens.
	path := filepath.Join(t.TempDir(), "features.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"features": [{"complexity": "low"}]}`), 0o644))

	prev := estimateFeaturesPath
	estimateFeaturesPath = path
	t.Cleanup(func() { estimateFeaturesPath = prev })

	err := runEstimate(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid features file")
}
