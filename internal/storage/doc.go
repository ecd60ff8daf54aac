// Package storage persists the book collection.
//
// The collection is stored as one serialised array of book records under a
// single fixed key. Two backends hold that blob:
//   - FileBackend writes it to a JSON file (atomic replace)
//   - SQLiteBackend keeps it in a key-value table of a SQLite database
//
// A Repository sits on top of a Backend and converts between the blob and a
// catalog.Snapshot:
//
//	backend, err := storage.Open(ctx, storage.KindJSON, "/path/books_v5.json", "books_v5")
//	repo := storage.NewRepository(backend, logger)
//	snap, err := repo.Load(ctx) // empty Snapshot if nothing stored or data is malformed
//	err = repo.Save(ctx, snap)
//
// Malformed stored data is never an error: Load logs a warning and returns
// an empty collection. Only genuine I/O failures are reported.
package storage
