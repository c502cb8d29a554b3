package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 32, cfg.Tree.FanOut)
	require.Equal(t, 0, cfg.Tree.MaxCapacity)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Port = 9090
	cfg.Tree.FanOut = 64

	require.NoError(t, Save(cfg, path))
	require.True(t, Exists(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9090, loaded.Port)
	require.Equal(t, 64, loaded.Tree.FanOut)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
