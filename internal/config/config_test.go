package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "outings.db", cfg.Store.SQLitePath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 24, cfg.Places.SearchTTLHours)
	assert.Equal(t, 168, cfg.Places.DetailsTTLHours)
	assert.Equal(t, 7, cfg.Discovery.FreshnessDays)
	assert.Equal(t, 60, cfg.Discovery.MaxResults)
	assert.Equal(t, 50, cfg.Events.MaxResults)
	assert.InDelta(t, 0.25, cfg.Scoring.Accessibility.Wheelchair, 0.001)
	assert.InDelta(t, 0.30, cfg.Scoring.Accessibility.ReviewBlend, 0.001)
	assert.InDelta(t, 8.5, cfg.Scoring.Interestingness.CategoryPriors["aquarium"], 0.001)
	assert.InDelta(t, 2.0, cfg.Scoring.Interestingness.TagBoostCap, 0.001)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/outings
log:
  level: debug
  format: console
server:
  port: 9090
discovery:
  freshness_days: 3
scoring:
  accessibility:
    wheelchair: 0.5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/outings", cfg.Store.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Discovery.FreshnessDays)
	assert.InDelta(t, 0.5, cfg.Scoring.Accessibility.Wheelchair, 0.001)
	// Defaults still apply for unset values
	assert.InDelta(t, 0.15, cfg.Scoring.Accessibility.Parking, 0.001)
	assert.Equal(t, 60, cfg.Discovery.MaxResults)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	assert.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
}
