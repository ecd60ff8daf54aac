package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/handiism/book-catalog/internal/catalog"
)

const appDir = "book-catalog"

// Settings holds all configuration options.
type Settings struct {
	// Store settings
	StorePath    string `json:"store_path"`
	StoreBackend string `json:"store_backend"` // json, sqlite
	StoreKey     string `json:"store_key"`

	// New book defaults
	PlaceholderImage string `json:"placeholder_image"`
	DefaultURL       string `json:"default_url"`

	// Cover cache settings
	CoverCacheDir       string  `json:"cover_cache_dir"`
	MaxConcurrentCovers int     `json:"max_concurrent_covers"`
	CoverMaxRetries     int     `json:"cover_max_retries"`
	CoverRetryCooldown  float64 `json:"cover_retry_cooldown"`
	CoverRetryExponent  float64 `json:"cover_retry_exponent"`
	CoverMaxSize        int     `json:"cover_max_size"`

	// Logging
	LogLevel string `json:"log_level"` // debug, info, warn, error
	LogFile  string `json:"log_file"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		StorePath:    filepath.Join(dataDir(), appDir, "books_v5.json"),
		StoreBackend: "json",
		StoreKey:     "books_v5",

		PlaceholderImage: catalog.DefaultPlaceholderImage,
		DefaultURL:       catalog.DefaultURL,

		CoverCacheDir:       filepath.Join(cacheDir(), appDir, "covers"),
		MaxConcurrentCovers: 4,
		CoverMaxRetries:     3,
		CoverRetryCooldown:  0.2,
		CoverRetryExponent:  4.0,
		CoverMaxSize:        300,

		LogLevel: "info",
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, appDir, "config.json")
}

// Load reads settings from a JSON file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv loads envFile (ignored when missing) and overrides settings
// from CATALOG_* variables. Variables already set in the process win over
// the file.
func (s *Settings) ApplyEnv(envFile string) {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}

	overrides := map[string]*string{
		"CATALOG_STORE_PATH":    &s.StorePath,
		"CATALOG_STORE_BACKEND": &s.StoreBackend,
		"CATALOG_STORE_KEY":     &s.StoreKey,
		"CATALOG_LOG_LEVEL":     &s.LogLevel,
		"CATALOG_LOG_FILE":      &s.LogFile,
		"CATALOG_COVER_DIR":     &s.CoverCacheDir,
	}
	for key, field := range overrides {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*field = v
		}
	}
}

// SlogLevel converts LogLevel to a slog.Level, defaulting to Info.
func (s *Settings) SlogLevel() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// OpenLogger builds a text logger at LogLevel. Records go to LogFile when it
// is set, otherwise to fallback; a nil fallback discards them. The returned
// close func releases the log file.
func (s *Settings) OpenLogger(fallback io.Writer) (*slog.Logger, func() error, error) {
	opts := &slog.HandlerOptions{Level: s.SlogLevel()}
	noop := func() error { return nil }

	if s.LogFile == "" {
		if fallback == nil {
			return slog.New(slog.DiscardHandler), noop, nil
		}
		return slog.New(slog.NewTextHandler(fallback, opts)), noop, nil
	}

	if err := os.MkdirAll(filepath.Dir(s.LogFile), 0755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, opts)), f.Close, nil
}

// ToStoreOptions converts settings to catalog.Options.
func (s *Settings) ToStoreOptions() catalog.Options {
	return catalog.Options{
		PlaceholderImage: s.PlaceholderImage,
		DefaultURL:       s.DefaultURL,
	}
}

func dataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

func cacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "."
	}
	return dir
}
