package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, time.Second, cfg.TickInterval())
	assert.Equal(t, 14*24*time.Hour, cfg.HistoryWindow())
	assert.Equal(t, time.Minute, cfg.Analysis.Focus.MaxGap())
	assert.Equal(t, 30*time.Second, cfg.Analysis.Focus.ShortVisit())
	assert.InDelta(t, 0.6, cfg.Analysis.MinConfidence, 1e-9)
}

func TestLoadFile_MergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
tick_interval_seconds: 5
storage_path: ~/cadence-data
log:
  level: debug
analysis:
  min_confidence: 0.4
  focus:
    max_gap_seconds: 120
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.TickInterval())
	assert.Equal(t, filepath.Join(home, "cadence-data"), cfg.StoragePath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.InDelta(t, 0.4, cfg.Analysis.MinConfidence, 1e-9)
	assert.Equal(t, 2*time.Minute, cfg.Analysis.Focus.MaxGap())
	assert.Equal(t, 30, cfg.Analysis.Focus.ShortVisitSeconds)
	assert.NotEmpty(t, cfg.BlockedApps)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = LoadFile(writeConfig(t, "tick_interval_seconds: [1, 2"))
	assert.Error(t, err)

	_, err = LoadFile(writeConfig(t, "tick_interval_seconds: 0"))
	assert.ErrorContains(t, err, "tick_interval_seconds")

	_, err = LoadFile(writeConfig(t, "analysis:\n  min_confidence: 1.5\n"))
	assert.ErrorContains(t, err, "min_confidence")
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Paused = true
	cfg.Metrics.Enabled = true

	require.NoError(t, cfg.SaveTo(path))
	got, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, cfg, got)
}

func TestPrivacyFilters(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.IsAppBlocked("KeePassXC"))
	assert.False(t, cfg.IsAppBlocked("code"))

	assert.True(t, cfg.IsURLBlocked("https://mybank.example/login"))
	assert.False(t, cfg.IsURLBlocked("https://go.dev/doc"))

	assert.True(t, cfg.ContainsBlockedKeyword("export API_KEY=..."))
	assert.False(t, cfg.ContainsBlockedKeyword("main.go - cadence"))
}
