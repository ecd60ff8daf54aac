package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "nope.json"))

	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), settings)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	settings := DefaultSettings()
	settings.StoreBackend = "sqlite"
	settings.MaxConcurrentCovers = 8
	require.NoError(t, settings.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", loaded.StoreBackend)
	assert.Equal(t, 8, loaded.MaxConcurrentCovers)
	assert.Equal(t, settings.CoverCacheDir, loaded.CoverCacheDir)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"log_level":"debug"}`), 0644))

	settings, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "debug", settings.LogLevel)
	assert.Equal(t, DefaultSettings().StoreKey, settings.StoreKey)
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("CATALOG_STORE_BACKEND=sqlite\nCATALOG_LOG_LEVEL=warn\n"), 0644))
	t.Setenv("CATALOG_STORE_PATH", "/tmp/catalog.db")
	t.Setenv("CATALOG_LOG_LEVEL", "error")
	t.Cleanup(func() { os.Unsetenv("CATALOG_STORE_BACKEND") })

	settings := DefaultSettings()
	settings.ApplyEnv(envFile)

	assert.Equal(t, "/tmp/catalog.db", settings.StorePath)
	assert.Equal(t, "sqlite", settings.StoreBackend)
	assert.Equal(t, "error", settings.LogLevel, "process environment wins over .env")
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		s := &Settings{LogLevel: tt.level}
		assert.Equal(t, tt.want, s.SlogLevel(), tt.level)
	}
}

func TestOpenLogger(t *testing.T) {
	t.Run("fallback writer", func(t *testing.T) {
		var buf bytes.Buffer
		settings := DefaultSettings()
		settings.LogLevel = "warn"

		logger, closeLog, err := settings.OpenLogger(&buf)
		require.NoError(t, err)
		defer closeLog()

		logger.Info("hidden")
		logger.Warn("shown", "id", "b1")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "msg=shown id=b1")
	})

	t.Run("log file", func(t *testing.T) {
		settings := DefaultSettings()
		settings.LogFile = filepath.Join(t.TempDir(), "logs", "catalog.log")

		logger, closeLog, err := settings.OpenLogger(nil)
		require.NoError(t, err)
		logger.Info("opened")
		require.NoError(t, closeLog())

		data, err := os.ReadFile(settings.LogFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "msg=opened")
	})

	t.Run("discard", func(t *testing.T) {
		logger, closeLog, err := DefaultSettings().OpenLogger(nil)
		require.NoError(t, err)
		assert.NoError(t, closeLog())
		assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
	})
}
