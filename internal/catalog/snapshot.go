package catalog

import (
	"iter"
	"slices"
	"time"

	"github.com/handiism/book-catalog/internal/model"
)

// Snapshot is an immutable, ordered collection of books.
//
// The zero value is an empty collection.
type Snapshot struct {
	books      []model.Book
	selectedID string
}

// NewSnapshot builds a Snapshot from books, restoring the invariants:
// a nil loan becomes Available, books without an id are dropped, duplicate
// ids keep the first occurrence and only the first selected book stays
// selected.
func NewSnapshot(books []model.Book) Snapshot {
	s := Snapshot{books: make([]model.Book, 0, len(books))}
	seen := make(map[string]struct{}, len(books))

	for _, b := range books {
		if b.ID == "" {
			continue
		}
		if _, dup := seen[b.ID]; dup {
			continue
		}
		seen[b.ID] = struct{}{}

		b.Loan = b.LoanState()
		if b.Selected {
			if s.selectedID == "" {
				s.selectedID = b.ID
			} else {
				b.Selected = false
			}
		}
		s.books = append(s.books, b)
	}

	return s
}

// Len returns the number of books.
func (s Snapshot) Len() int {
	return len(s.books)
}

// Books returns a copy of the collection in order.
func (s Snapshot) Books() []model.Book {
	return slices.Clone(s.books)
}

// All iterates over the collection in order.
func (s Snapshot) All() iter.Seq[model.Book] {
	return slices.Values(s.books)
}

// Get returns the book with id.
func (s Snapshot) Get(id string) (model.Book, bool) {
	if i := s.index(id); i >= 0 {
		return s.books[i], true
	}
	return model.Book{}, false
}

// Selected returns the selected book, if any.
func (s Snapshot) Selected() (model.Book, bool) {
	if s.selectedID == "" {
		return model.Book{}, false
	}
	return s.Get(s.selectedID)
}

// SelectedID returns the id of the selected book, or "".
func (s Snapshot) SelectedID() string {
	return s.selectedID
}

// FilterByAuthor iterates over the books whose author equals author
// exactly. An empty author yields every book. Order is preserved.
func (s Snapshot) FilterByAuthor(author string) iter.Seq[model.Book] {
	return func(yield func(model.Book) bool) {
		for _, b := range s.books {
			if author != "" && b.Author != author {
				continue
			}
			if !yield(b) {
				return
			}
		}
	}
}

// Authors returns the distinct non-empty author names, sorted.
func (s Snapshot) Authors() []string {
	authors := make([]string, 0, len(s.books))
	for _, b := range s.books {
		if b.Author != "" {
			authors = append(authors, b.Author)
		}
	}
	slices.Sort(authors)
	return slices.Compact(authors)
}

// Available returns the books that are not on loan, in order.
func (s Snapshot) Available() []model.Book {
	var out []model.Book
	for _, b := range s.books {
		if !b.IsOnLoan() {
			out = append(out, b)
		}
	}
	return out
}

// OnLoan returns the books that are on loan, in order.
func (s Snapshot) OnLoan() []model.Book {
	var out []model.Book
	for _, b := range s.books {
		if b.IsOnLoan() {
			out = append(out, b)
		}
	}
	return out
}

// Add returns a Snapshot with b appended, unselected. A blank or already
// used id leaves the collection Unchanged.
func (s Snapshot) Add(b model.Book) (Snapshot, Outcome) {
	if b.ID == "" || s.index(b.ID) >= 0 {
		return s, Unchanged
	}
	b.Selected = false
	b.Loan = b.LoanState()

	next := Snapshot{
		books:      make([]model.Book, len(s.books), len(s.books)+1),
		selectedID: s.selectedID,
	}
	copy(next.books, s.books)
	next.books = append(next.books, b)
	return next, Applied
}

// ToggleSelect deselects the book with id if it is selected, otherwise
// selects it and deselects every other book.
func (s Snapshot) ToggleSelect(id string) (Snapshot, Outcome) {
	if s.index(id) < 0 {
		return s, Unchanged
	}

	next := Snapshot{books: slices.Clone(s.books)}
	if s.selectedID != id {
		next.selectedID = id
	}
	for i := range next.books {
		next.books[i].Selected = next.books[i].ID == next.selectedID
	}
	return next, Applied
}

// Delete removes the book with id. Its loan goes with it.
func (s Snapshot) Delete(id string) (Snapshot, Outcome) {
	i := s.index(id)
	if i < 0 {
		return s, Unchanged
	}

	next := Snapshot{
		books:      slices.Delete(slices.Clone(s.books), i, i+1),
		selectedID: s.selectedID,
	}
	if next.selectedID == id {
		next.selectedID = ""
	}
	return next, Applied
}

// Edit merges patch into the book with id. See model.Patch.Apply.
func (s Snapshot) Edit(id string, patch model.Patch) (Snapshot, Outcome) {
	i := s.index(id)
	if i < 0 {
		return s, Unchanged
	}
	return s.replace(i, patch.Apply(s.books[i]))
}

// Loan lends the book with id to borrower for weeks (clamped to
// [model.MinLoanWeeks, model.MaxLoanWeeks]) starting at now. An existing
// loan is overwritten. A blank borrower is Rejected.
func (s Snapshot) Loan(id, borrower string, weeks int, now time.Time) (Snapshot, Outcome) {
	i := s.index(id)
	if i < 0 {
		return s, Unchanged
	}

	loan, ok := model.NewLoan(borrower, weeks, now)
	if !ok {
		return s, Rejected
	}

	b := s.books[i]
	b.Loan = model.OnLoan{Loan: loan}
	return s.replace(i, b)
}

// Return clears the loan on the book with id.
func (s Snapshot) Return(id string) (Snapshot, Outcome) {
	i := s.index(id)
	if i < 0 || !s.books[i].IsOnLoan() {
		return s, Unchanged
	}

	b := s.books[i]
	b.Loan = model.Available{}
	return s.replace(i, b)
}

func (s Snapshot) replace(i int, b model.Book) (Snapshot, Outcome) {
	if s.books[i] == b {
		return s, Unchanged
	}

	next := Snapshot{books: slices.Clone(s.books), selectedID: s.selectedID}
	next.books[i] = b
	return next, Applied
}

func (s Snapshot) index(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.books, func(b model.Book) bool { return b.ID == id })
}
