// Package config provides configuration management for book-catalog.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Environment overrides, including a .env file
//   - Conversion to catalog.Options for the store
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Collection stored in ~/.local/share/book-catalog/books_v5.json
//	// Cover thumbnails cached in ~/.cache/book-catalog/covers
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Environment
//
// ApplyEnv loads .env from the working directory (if present) and then
// applies CATALOG_STORE_PATH, CATALOG_STORE_BACKEND, CATALOG_STORE_KEY,
// CATALOG_LOG_LEVEL, CATALOG_LOG_FILE and CATALOG_COVER_DIR.
package config
