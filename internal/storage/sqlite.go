package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	ioutils "github.com/handiism/book-catalog/internal/io"
)

// SQLiteBackend keeps the blob in a key-value table.
type SQLiteBackend struct {
	db  *sql.DB
	key string
}

// OpenSQLite opens (or creates) the database at path and makes sure the
// kv table exists.
func OpenSQLite(ctx context.Context, path, key string) (*SQLiteBackend, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := ioutils.EnsureDir(dir); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TEXT NOT NULL
	);`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}

	return &SQLiteBackend{db: db, key: key}, nil
}

// Load returns the stored blob, or nil if the key has never been written.
func (s *SQLiteBackend) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, s.key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.key, err)
	}
	return data, nil
}

// Save upserts the blob under the backend's key.
func (s *SQLiteBackend) Save(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.key, data, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save %s: %w", s.key, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}

// sqliteDSN builds a file: URI for path. Each segment is escaped so '?' and
// '#' in file names are not read as the query or fragment.
func sqliteDSN(path string) string {
	segments := strings.Split(filepath.ToSlash(path), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return "file:" + strings.Join(segments, "/") + "?_busy_timeout=5000"
}
