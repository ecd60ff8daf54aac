package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/handiism/book-catalog/internal/model"
)

const (
	// DefaultPlaceholderImage is used as the cover of a book added without a URL.
	DefaultPlaceholderImage = "https://via.placeholder.com/150x200?text=Book"

	// DefaultURL is the link of a book added without a URL.
	DefaultURL = "#"
)

// Options configures a Store. Zero fields fall back to defaults.
type Options struct {
	// NewID generates ids for added books. Defaults to uuid.NewString.
	NewID func() string

	// Now is the loan clock. Defaults to time.Now.
	Now func() time.Time

	// PlaceholderImage defaults to DefaultPlaceholderImage.
	PlaceholderImage string

	// DefaultURL defaults to DefaultURL.
	DefaultURL string
}

func (o Options) withDefaults() Options {
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.PlaceholderImage == "" {
		o.PlaceholderImage = DefaultPlaceholderImage
	}
	if o.DefaultURL == "" {
		o.DefaultURL = DefaultURL
	}
	return o
}

// Store owns the current Snapshot and applies operations to it.
type Store struct {
	snap Snapshot
	opts Options

	// retired holds ids deleted during this session so they are never handed out again.
	retired map[string]struct{}
}

// NewStore creates a Store starting from initial.
func NewStore(initial Snapshot, opts Options) *Store {
	return &Store{snap: initial, opts: opts.withDefaults(), retired: make(map[string]struct{})}
}

// Snapshot returns the current collection.
func (s *Store) Snapshot() Snapshot {
	return s.snap
}

// Add appends a user-added book built from d and returns it.
//
// The book gets a fresh id, is unselected and available. An empty URL
// becomes the default URL and the image falls back to the placeholder.
func (s *Store) Add(d model.Draft) model.Book {
	b := model.Book{
		ID:          s.freshID(),
		Title:       d.Title,
		Author:      d.Author,
		Image:       d.URL,
		URL:         d.URL,
		IsUserAdded: true,
		Loan:        model.Available{},
	}
	if d.URL == "" {
		b.Image = s.opts.PlaceholderImage
		b.URL = s.opts.DefaultURL
	}

	s.snap, _ = s.snap.Add(b)
	return b
}

// ToggleSelect toggles the selection of the book with id.
func (s *Store) ToggleSelect(id string) Outcome {
	return s.apply(s.snap.ToggleSelect(id))
}

// Delete removes the book with id.
func (s *Store) Delete(id string) Outcome {
	outcome := s.apply(s.snap.Delete(id))
	if outcome.Changed() {
		s.retired[id] = struct{}{}
	}
	return outcome
}

// DeleteSelected removes the selected book and returns it.
func (s *Store) DeleteSelected() (model.Book, error) {
	b, ok := s.snap.Selected()
	if !ok {
		return model.Book{}, ErrNoSelection
	}
	s.Delete(b.ID)
	return b, nil
}

// Edit merges patch into the book with id.
func (s *Store) Edit(id string, patch model.Patch) Outcome {
	return s.apply(s.snap.Edit(id, patch))
}

// EditSelected merges patch into the selected book and returns the result.
func (s *Store) EditSelected(patch model.Patch) (model.Book, Outcome, error) {
	b, ok := s.snap.Selected()
	if !ok {
		return model.Book{}, Unchanged, ErrNoSelection
	}
	outcome := s.Edit(b.ID, patch)
	b, _ = s.snap.Get(b.ID)
	return b, outcome, nil
}

// Loan lends the book with id to borrower for weeks, starting now.
func (s *Store) Loan(id, borrower string, weeks int) Outcome {
	return s.apply(s.snap.Loan(id, borrower, weeks, s.opts.Now()))
}

// Return clears the loan on the book with id.
func (s *Store) Return(id string) Outcome {
	return s.apply(s.snap.Return(id))
}

func (s *Store) apply(next Snapshot, outcome Outcome) Outcome {
	if outcome.Changed() {
		s.snap = next
	}
	return outcome
}

// maxIDAttempts bounds how often NewID is asked before falling back to uuid.
const maxIDAttempts = 16

// freshID returns an id not used by any book in the collection.
func (s *Store) freshID() string {
	for range maxIDAttempts {
		if id := s.opts.NewID(); s.available(id) {
			return id
		}
	}
	for {
		if id := uuid.NewString(); s.available(id) {
			return id
		}
	}
}

func (s *Store) available(id string) bool {
	if id == "" {
		return false
	}
	_, taken := s.snap.Get(id)
	_, retired := s.retired[id]
	return !taken && !retired
}
