package catalog_test

import (
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/book-catalog/internal/catalog"
	"github.com/handiism/book-catalog/internal/model"
)

var fixedNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, books ...model.Book) *catalog.Store {
	t.Helper()
	n := 0
	return catalog.NewStore(catalog.NewSnapshot(books), catalog.Options{
		NewID: func() string {
			n++
			return fmt.Sprintf("user-%d", n)
		},
		Now: func() time.Time { return fixedNow },
	})
}

func seedBooks() []model.Book {
	return []model.Book{
		{ID: "b1", Title: "Dune", Author: "Frank Herbert"},
		{ID: "b2", Title: "Emma", Author: "Jane Austen"},
		{ID: "b3", Title: "Children of Dune", Author: "Frank Herbert"},
		{ID: "b4", Title: "Untitled"},
	}
}

func selectedCount(s catalog.Snapshot) int {
	n := 0
	for b := range s.All() {
		if b.Selected {
			n++
		}
	}
	return n
}

func TestNewSnapshot_KeepsFirstSelectedAndFirstID(t *testing.T) {
	snap := catalog.NewSnapshot([]model.Book{
		{ID: "a", Selected: true},
		{ID: "b", Selected: true},
		{ID: "a", Title: "duplicate"},
	})

	require.Equal(t, 2, snap.Len())
	assert.Equal(t, "a", snap.SelectedID())
	assert.Equal(t, 1, selectedCount(snap))

	a, ok := snap.Get("a")
	require.True(t, ok)
	assert.Empty(t, a.Title)
	assert.IsType(t, model.Available{}, a.Loan)
}

func TestNewSnapshot_DropsBooksWithoutID(t *testing.T) {
	snap := catalog.NewSnapshot([]model.Book{
		{ID: "", Title: "orphan", Selected: true},
		{ID: "b", Selected: true},
		{ID: "c", Selected: true},
	})

	require.Equal(t, 2, snap.Len())
	assert.Equal(t, "b", snap.SelectedID())
	assert.Equal(t, 1, selectedCount(snap))
	_, ok := snap.Get("")
	assert.False(t, ok)
}

func TestSnapshot_Add(t *testing.T) {
	snap := catalog.NewSnapshot([]model.Book{{ID: "a", Title: "first"}})

	tests := []struct {
		name    string
		book    model.Book
		want    catalog.Outcome
		wantLen int
	}{
		{"new id", model.Book{ID: "b", Selected: true}, catalog.Applied, 2},
		{"duplicate id", model.Book{ID: "a", Title: "second"}, catalog.Unchanged, 1},
		{"blank id", model.Book{Title: "no id"}, catalog.Unchanged, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, outcome := snap.Add(tt.book)

			assert.Equal(t, tt.want, outcome)
			assert.Equal(t, tt.wantLen, next.Len())
			assert.Equal(t, 0, selectedCount(next))
			a, _ := next.Get("a")
			assert.Equal(t, "first", a.Title)
		})
	}
}

func TestAdd_AppliesDefaults(t *testing.T) {
	store := newTestStore(t, seedBooks()...)

	b := store.Add(model.Draft{Title: "New", Author: "Someone"})

	assert.Equal(t, "user-1", b.ID)
	assert.True(t, b.IsUserAdded)
	assert.False(t, b.Selected)
	assert.False(t, b.IsOnLoan())
	assert.Equal(t, catalog.DefaultPlaceholderImage, b.Image)
	assert.Equal(t, catalog.DefaultURL, b.URL)

	books := store.Snapshot().Books()
	require.Len(t, books, 5)
	assert.Equal(t, b, books[4])
}

func TestAdd_UsesURLAsImage(t *testing.T) {
	store := newTestStore(t)

	b := store.Add(model.Draft{Title: "Cover", URL: "https://example.com/c.jpg"})

	assert.Equal(t, "https://example.com/c.jpg", b.Image)
	assert.Equal(t, "https://example.com/c.jpg", b.URL)
}

func TestAdd_NeverReusesIDs(t *testing.T) {
	ids := []string{"x", "x", "", "y", "x", "z"}
	store := catalog.NewStore(catalog.Snapshot{}, catalog.Options{
		NewID: func() string {
			id := ids[0]
			ids = ids[1:]
			return id
		},
	})

	first := store.Add(model.Draft{Title: "one"})
	second := store.Add(model.Draft{Title: "two"})
	store.Delete(first.ID)
	third := store.Add(model.Draft{Title: "three"})

	assert.Equal(t, "x", first.ID)
	assert.Equal(t, "y", second.ID)
	assert.Equal(t, "z", third.ID)
}

func TestAdd_FallsBackWhenNewIDKeepsColliding(t *testing.T) {
	store := catalog.NewStore(catalog.NewSnapshot([]model.Book{{ID: "taken"}}), catalog.Options{
		NewID: func() string { return "taken" },
	})

	b := store.Add(model.Draft{Title: "fresh"})
	assert.NotEqual(t, "taken", b.ID)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, 2, store.Snapshot().Len())

	blank := catalog.NewStore(catalog.Snapshot{}, catalog.Options{
		NewID: func() string { return "" },
	})
	assert.NotEmpty(t, blank.Add(model.Draft{Title: "fresh"}).ID)
}

func TestToggleSelect_SingleSelectionInvariant(t *testing.T) {
	store := newTestStore(t, seedBooks()...)

	for _, id := range []string{"b1", "b2", "b2", "b3", "missing", "b1", "b4", "b4", "b3"} {
		store.ToggleSelect(id)
		assert.LessOrEqual(t, selectedCount(store.Snapshot()), 1, "after toggling %s", id)
	}
}

func TestToggleSelect(t *testing.T) {
	store := newTestStore(t, seedBooks()...)

	assert.Equal(t, catalog.Applied, store.ToggleSelect("b2"))
	selected, ok := store.Snapshot().Selected()
	require.True(t, ok)
	assert.Equal(t, "b2", selected.ID)

	assert.Equal(t, catalog.Applied, store.ToggleSelect("b3"))
	assert.Equal(t, "b3", store.Snapshot().SelectedID())
	b2, _ := store.Snapshot().Get("b2")
	assert.False(t, b2.Selected)

	assert.Equal(t, catalog.Applied, store.ToggleSelect("b3"))
	_, ok = store.Snapshot().Selected()
	assert.False(t, ok)

	assert.Equal(t, catalog.Unchanged, store.ToggleSelect("missing"))
}

func TestSnapshot_TransitionsDoNotMutateReceiver(t *testing.T) {
	before := catalog.NewSnapshot(seedBooks())
	books := before.Books()

	next, _ := before.ToggleSelect("b1")
	next, _ = next.Loan("b2", "Alice", 2, fixedNow)
	next, _ = next.Edit("b3", model.Patch{Title: model.Text("changed")})
	_, _ = next.Delete("b4")

	assert.Equal(t, books, before.Books())
	assert.Empty(t, before.SelectedID())
}

func TestDelete(t *testing.T) {
	store := newTestStore(t, seedBooks()...)
	store.ToggleSelect("b2")

	assert.Equal(t, catalog.Applied, store.Delete("b2"))
	assert.Equal(t, 3, store.Snapshot().Len())
	_, ok := store.Snapshot().Selected()
	assert.False(t, ok, "deleting the selected book clears the selection")

	assert.Equal(t, catalog.Unchanged, store.Delete("b2"))
	assert.Equal(t, 3, store.Snapshot().Len())
}

func TestDeleteSelected_NoSelection(t *testing.T) {
	store := newTestStore(t, seedBooks()...)
	before := store.Snapshot().Books()

	_, err := store.DeleteSelected()

	require.ErrorIs(t, err, catalog.ErrNoSelection)
	assert.Equal(t, before, store.Snapshot().Books())
}

func TestDeleteSelected(t *testing.T) {
	store := newTestStore(t, seedBooks()...)
	store.ToggleSelect("b1")

	deleted, err := store.DeleteSelected()

	require.NoError(t, err)
	assert.Equal(t, "b1", deleted.ID)
	_, ok := store.Snapshot().Get("b1")
	assert.False(t, ok)
}

func TestEdit_PreservesUnspecifiedFields(t *testing.T) {
	store := newTestStore(t, model.Book{ID: "b1", Title: "A", Author: "B", Image: "img", URL: "u"})
	store.ToggleSelect("b1")

	assert.Equal(t, catalog.Applied, store.Edit("b1", model.Patch{Title: model.Text("A2")}))

	b, _ := store.Snapshot().Get("b1")
	assert.Equal(t, "A2", b.Title)
	assert.Equal(t, "B", b.Author)
	assert.Equal(t, "img", b.Image)
	assert.True(t, b.Selected)
}

func TestEdit_UnknownOrNoop(t *testing.T) {
	store := newTestStore(t, model.Book{ID: "b1", Title: "A"})

	assert.Equal(t, catalog.Unchanged, store.Edit("missing", model.Patch{Title: model.Text("x")}))
	assert.Equal(t, catalog.Unchanged, store.Edit("b1", model.Patch{Title: model.Text("A")}))
	assert.Equal(t, catalog.Unchanged, store.Edit("b1", model.Patch{}))
}

func TestEditSelected_NoSelection(t *testing.T) {
	store := newTestStore(t, seedBooks()...)

	_, outcome, err := store.EditSelected(model.Patch{Title: model.Text("x")})

	require.ErrorIs(t, err, catalog.ErrNoSelection)
	assert.Equal(t, catalog.Unchanged, outcome)
}

func TestEditSelected(t *testing.T) {
	store := newTestStore(t, seedBooks()...)
	store.ToggleSelect("b2")

	b, outcome, err := store.EditSelected(model.Patch{URL: model.Text("https://example.com/emma.jpg")})

	require.NoError(t, err)
	assert.Equal(t, catalog.Applied, outcome)
	assert.Equal(t, "https://example.com/emma.jpg", b.Image)
	assert.Equal(t, "Emma", b.Title)
}

func TestLoan_ClampsWeeks(t *testing.T) {
	tests := []struct {
		weeks int
		want  int
	}{
		{0, 1},
		{9, 4},
		{3, 3},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("weeks=%d", tt.weeks), func(t *testing.T) {
			store := newTestStore(t, seedBooks()...)

			require.Equal(t, catalog.Applied, store.Loan("b1", "Alice", tt.weeks))

			b, _ := store.Snapshot().Get("b1")
			loan, ok := b.ActiveLoan()
			require.True(t, ok)
			assert.Equal(t, tt.want, loan.Weeks)
		})
	}
}

func TestLoan_DueDateDerivation(t *testing.T) {
	store := newTestStore(t, seedBooks()...)

	store.Loan("b1", "Alice", 2)

	b, _ := store.Snapshot().Get("b1")
	loan, _ := b.ActiveLoan()
	assert.Equal(t, fixedNow, loan.BorrowedAt)
	assert.Equal(t, fixedNow.Add(14*24*time.Hour), loan.DueDate)
}

func TestLoan_RejectsBlankBorrower(t *testing.T) {
	store := newTestStore(t, model.Book{ID: "b1", Title: "Only"})

	assert.Equal(t, catalog.Rejected, store.Loan("b1", "  ", 2))

	b, _ := store.Snapshot().Get("b1")
	assert.False(t, b.IsOnLoan())
}

func TestLoan_UnknownID(t *testing.T) {
	store := newTestStore(t, seedBooks()...)

	assert.Equal(t, catalog.Unchanged, store.Loan("missing", "Alice", 2))
	assert.Empty(t, store.Snapshot().OnLoan())
}

func TestLoan_ReloanOverwritesTerms(t *testing.T) {
	now := fixedNow
	store := catalog.NewStore(catalog.NewSnapshot(seedBooks()), catalog.Options{
		Now: func() time.Time { return now },
	})
	store.Loan("b1", "Alice", 2)

	now = now.Add(72 * time.Hour)
	require.Equal(t, catalog.Applied, store.Loan("b1", "Bob", 1))

	b, _ := store.Snapshot().Get("b1")
	loan, ok := b.ActiveLoan()
	require.True(t, ok)
	assert.Equal(t, "Bob", loan.Borrower)
	assert.Equal(t, 1, loan.Weeks)
	assert.Equal(t, now, loan.BorrowedAt)
	assert.Equal(t, now.AddDate(0, 0, 7), loan.DueDate)
}

func TestReturn_IsIdempotent(t *testing.T) {
	store := newTestStore(t, seedBooks()...)
	store.Loan("b1", "Alice", 2)

	assert.Equal(t, catalog.Applied, store.Return("b1"))
	after := store.Snapshot().Books()

	assert.Equal(t, catalog.Unchanged, store.Return("b1"))
	assert.Equal(t, after, store.Snapshot().Books())

	b, _ := store.Snapshot().Get("b1")
	assert.IsType(t, model.Available{}, b.Loan)
	assert.Equal(t, catalog.Unchanged, store.Return("missing"))
}

func TestFilterByAuthor(t *testing.T) {
	snap := catalog.NewSnapshot(seedBooks())

	all := slices.Collect(snap.FilterByAuthor(""))
	assert.Equal(t, snap.Books(), all)

	herbert := slices.Collect(snap.FilterByAuthor("Frank Herbert"))
	require.Len(t, herbert, 2)
	assert.Equal(t, "b1", herbert[0].ID)
	assert.Equal(t, "b3", herbert[1].ID)

	assert.Empty(t, slices.Collect(snap.FilterByAuthor("frank herbert")))
}

func TestFilterByAuthor_StopsEarly(t *testing.T) {
	snap := catalog.NewSnapshot(seedBooks())

	var seen []string
	for b := range snap.FilterByAuthor("") {
		seen = append(seen, b.ID)
		if len(seen) == 2 {
			break
		}
	}

	assert.Equal(t, []string{"b1", "b2"}, seen)
}

func TestAuthors(t *testing.T) {
	snap := catalog.NewSnapshot(append(seedBooks(), model.Book{ID: "b5", Author: "Anne Rice"}))

	assert.Equal(t, []string{"Anne Rice", "Frank Herbert", "Jane Austen"}, snap.Authors())
	assert.Empty(t, catalog.Snapshot{}.Authors())
}

func TestAvailableAndOnLoan(t *testing.T) {
	store := newTestStore(t, seedBooks()...)
	store.Loan("b3", "Alice", 1)
	store.Loan("b1", "Bob", 1)

	var available, onLoan []string
	for _, b := range store.Snapshot().Available() {
		available = append(available, b.ID)
	}
	for _, b := range store.Snapshot().OnLoan() {
		onLoan = append(onLoan, b.ID)
	}

	assert.Equal(t, []string{"b2", "b4"}, available)
	assert.Equal(t, []string{"b1", "b3"}, onLoan)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "applied", catalog.Applied.String())
	assert.Equal(t, "unchanged", catalog.Unchanged.String())
	assert.Equal(t, "rejected", catalog.Rejected.String())
	assert.True(t, catalog.Applied.Changed())
	assert.False(t, catalog.Rejected.Changed())
}
