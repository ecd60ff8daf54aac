// Package library hosts the catalog for the presentation layers.
//
// A Manager owns the catalog.Store, loads the saved collection when it is
// opened and writes the whole collection back after every operation that
// changed it. User-facing results are reported through an event callback,
// diagnostics through slog:
//
//	mgr, err := library.Open(ctx, settings, logger, func(e event.Event) {
//	    fmt.Println(e.Message)
//	})
//	defer mgr.Close()
//
//	book, err := mgr.Add(ctx, model.Draft{Title: "Dune", Author: "Frank Herbert"})
//	_, err = mgr.Loan(ctx, book.ID, "Alice", 2)
//	if _, err := mgr.DeleteSelected(ctx); errors.Is(err, catalog.ErrNoSelection) {
//	    // "Please select a book to delete."
//	}
//
// Operations that leave the collection unchanged (unknown id, blank
// borrower, returning an available book) are not saved.
package library
