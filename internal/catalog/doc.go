// Package catalog holds the book collection and the rules that change it.
//
// A Snapshot is an immutable, ordered collection of books. Every transition
// (Add, ToggleSelect, Delete, Edit, Loan, Return) returns a new Snapshot and
// an Outcome, leaving the receiver untouched:
//
//	next, outcome := snap.Loan(id, "Alice", 2, time.Now())
//	if outcome.Changed() {
//	    // persist next
//	}
//
// A Store is the mutable handle owned by the application entry point. It
// carries the current Snapshot together with the id generator, the clock
// and the defaults used for new books:
//
//	store := catalog.NewStore(catalog.NewSnapshot(books), catalog.Options{})
//	book := store.Add(model.Draft{Title: "Dune", Author: "Frank Herbert"})
//	store.ToggleSelect(book.ID)
//	if _, err := store.DeleteSelected(); errors.Is(err, catalog.ErrNoSelection) {
//	    // tell the user to pick a book first
//	}
//
// Invariants kept by both types:
//   - at most one book is selected
//   - a book's loan is either absent or a complete Loan with a derived due date
//   - ids are unique within a collection
//
// A Store is not safe for concurrent use; Snapshots are.
package catalog
