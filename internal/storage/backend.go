package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ioutils "github.com/handiism/book-catalog/internal/io"
)

// DefaultKey is the key the collection is stored under.
const DefaultKey = "books_v5"

// Kind selects a Backend implementation.
type Kind string

const (
	// KindJSON stores the collection in a JSON file.
	KindJSON Kind = "json"

	// KindSQLite stores the collection in a SQLite key-value table.
	KindSQLite Kind = "sqlite"
)

// ParseKind converts a settings value into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindJSON, "":
		return KindJSON, nil
	case KindSQLite, "sqlite3":
		return KindSQLite, nil
	default:
		return "", fmt.Errorf("unknown store backend %q (want json or sqlite)", s)
	}
}

// Backend stores one blob. Load returns nil, nil when nothing is stored.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Close() error
}

// Open creates the backend of the given kind at path.
func Open(ctx context.Context, kind Kind, path, key string) (Backend, error) {
	if key == "" {
		key = DefaultKey
	}

	switch kind {
	case KindSQLite:
		return OpenSQLite(ctx, path, key)
	case KindJSON, "":
		return NewFileBackend(path), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", kind)
	}
}

// FileBackend keeps the blob in a single file.
type FileBackend struct {
	path string
}

// NewFileBackend creates a FileBackend writing to path. The file and its
// directory are created on the first Save.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path returns the file location.
func (f *FileBackend) Path() string {
	return f.path
}

// Load reads the file. A missing file is not an error.
func (f *FileBackend) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	return data, nil
}

// Save replaces the file contents atomically.
func (f *FileBackend) Save(ctx context.Context, data []byte) error {
	if err := ioutils.EnsureDir(filepath.Dir(f.path)); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	if err := ioutils.WriteFileAtomic(ctx, f.path, data); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	return nil
}

// Close is a no-op.
func (f *FileBackend) Close() error { return nil }
