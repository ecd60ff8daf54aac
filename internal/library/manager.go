package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/handiism/book-catalog/internal/catalog"
	"github.com/handiism/book-catalog/internal/config"
	"github.com/handiism/book-catalog/internal/event"
	"github.com/handiism/book-catalog/internal/model"
	"github.com/handiism/book-catalog/internal/storage"
)

const dueDateLayout = "Jan 2, 2006"

// Repository loads and saves whole collections.
type Repository interface {
	Load(ctx context.Context) (catalog.Snapshot, error)
	Save(ctx context.Context, snap catalog.Snapshot) error
	Close() error
}

// Manager coordinates the catalog store and its persistence.
type Manager struct {
	repo    Repository
	store   *catalog.Store
	logger  *slog.Logger
	onEvent event.Func
}

// Open opens the backend configured in settings and loads the collection.
func Open(ctx context.Context, settings *config.Settings, logger *slog.Logger, onEvent event.Func) (*Manager, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	kind, err := storage.ParseKind(settings.StoreBackend)
	if err != nil {
		return nil, err
	}

	backend, err := storage.Open(ctx, kind, settings.StorePath, settings.StoreKey)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	mgr, err := New(ctx, storage.NewRepository(backend, logger), settings.ToStoreOptions(), logger, onEvent)
	if err != nil {
		backend.Close()
		return nil, err
	}

	logger.Debug("catalog opened", "backend", kind, "path", settings.StorePath, "books", mgr.Snapshot().Len())
	return mgr, nil
}

// New loads the collection from repo and builds a Manager around it.
func New(ctx context.Context, repo Repository, opts catalog.Options, logger *slog.Logger, onEvent event.Func) (*Manager, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	snap, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	return &Manager{
		repo:    repo,
		store:   catalog.NewStore(snap, opts),
		logger:  logger,
		onEvent: onEvent,
	}, nil
}

// Close releases the repository.
func (m *Manager) Close() error {
	return m.repo.Close()
}

// Snapshot returns the current collection.
func (m *Manager) Snapshot() catalog.Snapshot {
	return m.store.Snapshot()
}

// Find returns the book with id or catalog.ErrNotFound.
func (m *Manager) Find(id string) (model.Book, error) {
	b, ok := m.store.Snapshot().Get(id)
	if !ok {
		return model.Book{}, fmt.Errorf("%w: %s", catalog.ErrNotFound, id)
	}
	return b, nil
}

// Add appends a user-added book and saves.
func (m *Manager) Add(ctx context.Context, d model.Draft) (model.Book, error) {
	b := m.store.Add(d)
	if err := m.persist(ctx, "add", catalog.Applied); err != nil {
		return b, err
	}
	m.onEvent.Emit(event.LevelSuccess, fmt.Sprintf("Added %q", b.Title))
	return b, nil
}

// ToggleSelect toggles the selection of the book with id and saves.
func (m *Manager) ToggleSelect(ctx context.Context, id string) (catalog.Outcome, error) {
	outcome := m.store.ToggleSelect(id)
	return outcome, m.persist(ctx, "select", outcome)
}

// Delete removes the book with id and saves.
func (m *Manager) Delete(ctx context.Context, id string) (catalog.Outcome, error) {
	b, _ := m.store.Snapshot().Get(id)
	outcome := m.store.Delete(id)
	if err := m.persist(ctx, "delete", outcome); err != nil {
		return outcome, err
	}
	if outcome.Changed() {
		m.onEvent.Emit(event.LevelSuccess, fmt.Sprintf("Deleted %q", b.Title))
	}
	return outcome, nil
}

// DeleteSelected removes the selected book and saves. It returns
// catalog.ErrNoSelection when nothing is selected.
func (m *Manager) DeleteSelected(ctx context.Context) (model.Book, error) {
	b, err := m.store.DeleteSelected()
	if errors.Is(err, catalog.ErrNoSelection) {
		m.onEvent.Emit(event.LevelWarning, "Please select a book to delete.")
		return b, err
	}
	if err := m.persist(ctx, "delete", catalog.Applied); err != nil {
		return b, err
	}
	m.onEvent.Emit(event.LevelSuccess, fmt.Sprintf("Deleted %q", b.Title))
	return b, nil
}

// Edit merges patch into the book with id and saves.
func (m *Manager) Edit(ctx context.Context, id string, patch model.Patch) (catalog.Outcome, error) {
	outcome := m.store.Edit(id, patch)
	if err := m.persist(ctx, "edit", outcome); err != nil {
		return outcome, err
	}
	if outcome.Changed() {
		b, _ := m.store.Snapshot().Get(id)
		m.onEvent.Emit(event.LevelSuccess, fmt.Sprintf("Updated %q", b.Title))
	}
	return outcome, nil
}

// EditSelected merges patch into the selected book and saves. It returns
// catalog.ErrNoSelection when nothing is selected.
func (m *Manager) EditSelected(ctx context.Context, patch model.Patch) (model.Book, error) {
	b, outcome, err := m.store.EditSelected(patch)
	if errors.Is(err, catalog.ErrNoSelection) {
		m.onEvent.Emit(event.LevelWarning, "Please select a book to edit.")
		return b, err
	}
	if err := m.persist(ctx, "edit", outcome); err != nil {
		return b, err
	}
	if outcome.Changed() {
		m.onEvent.Emit(event.LevelSuccess, fmt.Sprintf("Updated %q", b.Title))
	}
	return b, nil
}

// Loan lends the book with id and saves. A blank borrower is ignored.
func (m *Manager) Loan(ctx context.Context, id, borrower string, weeks int) (catalog.Outcome, error) {
	outcome := m.store.Loan(id, borrower, weeks)
	switch outcome {
	case catalog.Rejected:
		m.logger.Debug("loan ignored: blank borrower", "id", id)
		m.onEvent.Emit(event.LevelVerbose, "Loan ignored: borrower name is empty")
		return outcome, nil
	case catalog.Unchanged:
		m.logger.Debug("loan ignored: unknown book", "id", id)
		return outcome, nil
	}

	if err := m.persist(ctx, "loan", outcome); err != nil {
		return outcome, err
	}

	b, _ := m.store.Snapshot().Get(id)
	if loan, ok := b.ActiveLoan(); ok {
		m.onEvent.Emit(event.LevelSuccess, fmt.Sprintf("Lent %q to %s until %s", b.Title, loan.Borrower, loan.DueDate.Local().Format(dueDateLayout)))
	}
	return outcome, nil
}

// Return clears the loan on the book with id and saves.
func (m *Manager) Return(ctx context.Context, id string) (catalog.Outcome, error) {
	outcome := m.store.Return(id)
	if err := m.persist(ctx, "return", outcome); err != nil {
		return outcome, err
	}
	if outcome.Changed() {
		b, _ := m.store.Snapshot().Get(id)
		m.onEvent.Emit(event.LevelSuccess, fmt.Sprintf("Returned %q", b.Title))
	}
	return outcome, nil
}

// persist saves the collection when outcome changed it.
func (m *Manager) persist(ctx context.Context, op string, outcome catalog.Outcome) error {
	if !outcome.Changed() {
		m.logger.Debug("nothing to save", "op", op, "outcome", outcome)
		return nil
	}

	snap := m.store.Snapshot()
	if err := m.repo.Save(ctx, snap); err != nil {
		m.logger.Error("save failed", "op", op, "error", err)
		m.onEvent.Emit(event.LevelError, fmt.Sprintf("Could not save catalog: %v", err))
		return fmt.Errorf("%s: save catalog: %w", op, err)
	}

	m.logger.Info("catalog saved", "op", op, "books", snap.Len())
	return nil
}
