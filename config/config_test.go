package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg := Load(t.TempDir())
	assert.Equal(t, "dark", cfg.Theme)
	assert.Equal(t, "doctor", cfg.DefaultRole)
	assert.Empty(t, cfg.BackendURL)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := Config{Theme: "light", BackendURL: "http://localhost:9000", DefaultRole: "patient"}
	require.NoError(t, Save(dir, want))

	got := Load(dir)
	assert.Equal(t, want, got)
}

func TestSaveCreatesProfileDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "profile")
	require.NoError(t, Save(dir, defaults()))

	_, err := os.Stat(filepath.Join(dir, filename))
	assert.NoError(t, err)
}

func TestLoadCorruptFileFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte("{not json"), 0o644))

	cfg := Load(dir)
	assert.Equal(t, defaults(), cfg)
}
