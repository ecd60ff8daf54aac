package storage

import (
	"context"
	"log/slog"

	"github.com/handiism/book-catalog/internal/catalog"
)

// Repository loads and saves whole catalog snapshots through a Backend.
type Repository struct {
	backend Backend
	logger  *slog.Logger
}

// NewRepository wraps backend. A nil logger discards log output.
func NewRepository(backend Backend, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Repository{backend: backend, logger: logger}
}

// Load returns the stored collection. Nothing stored, or data that cannot
// be parsed as an array of books, yields an empty Snapshot.
func (r *Repository) Load(ctx context.Context) (catalog.Snapshot, error) {
	data, err := r.backend.Load(ctx)
	if err != nil {
		return catalog.Snapshot{}, err
	}
	if len(data) == 0 {
		r.logger.Debug("no stored collection, starting empty")
		return catalog.Snapshot{}, nil
	}

	books, skipped, err := Decode(data)
	if err != nil {
		r.logger.Warn("stored collection is malformed, starting empty", "error", err)
		return catalog.Snapshot{}, nil
	}
	if skipped > 0 {
		r.logger.Warn("skipped malformed book records", "count", skipped)
	}

	snap := catalog.NewSnapshot(books)
	r.logger.Debug("loaded collection", "books", snap.Len())
	return snap, nil
}

// Save writes the full collection.
func (r *Repository) Save(ctx context.Context, snap catalog.Snapshot) error {
	data, err := Encode(snap.Books())
	if err != nil {
		return err
	}
	if err := r.backend.Save(ctx, data); err != nil {
		return err
	}
	r.logger.Debug("saved collection", "books", snap.Len(), "bytes", len(data))
	return nil
}

// Close releases the backend.
func (r *Repository) Close() error {
	return r.backend.Close()
}
