package model

// Book represents a single catalog entry.
type Book struct {
	// ID is the primary key (isbn13 for seeded books, a random UUID for
	// books added by the user). It is immutable.
	ID string

	// Title is the book title.
	Title string

	// Author is the author name. Filtering by author is an exact match.
	Author string

	// Image is the cover image URL shown on the card.
	Image string

	// URL is the book's link. "#" means no link.
	URL string

	// IsUserAdded is true for books added manually. Their loans can only be
	// managed from the full loan page, not from the selection panel.
	IsUserAdded bool

	// Selected marks the book the user is currently acting upon.
	// At most one book in a collection is selected.
	Selected bool

	// Loan is the loan state. A nil Loan is treated as Available.
	Loan LoanState
}

// LoanState returns the book's loan state, never nil.
func (b Book) LoanState() LoanState {
	if b.Loan == nil {
		return Available{}
	}
	return b.Loan
}

// ActiveLoan returns the current loan and true if the book is on loan.
func (b Book) ActiveLoan() (Loan, bool) {
	if s, ok := b.Loan.(OnLoan); ok {
		return s.Loan, true
	}
	return Loan{}, false
}

// IsOnLoan reports whether the book is currently borrowed.
func (b Book) IsOnLoan() bool {
	_, ok := b.ActiveLoan()
	return ok
}

// Draft holds the user input for a new book.
//
// Missing fields are tolerated; defaults are filled in when the book is
// added to a catalog.
type Draft struct {
	Title  string
	Author string
	URL    string
}

// Patch describes an edit to an existing book.
//
// A nil field is left untouched. A non-empty URL also replaces the image.
type Patch struct {
	Title  *string
	Author *string
	URL    *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Author == nil && p.URL == nil
}

// Apply returns a copy of b with the patch merged in. ID, Selected,
// IsUserAdded and Loan are never changed.
func (p Patch) Apply(b Book) Book {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.URL != nil {
		b.URL = *p.URL
		if *p.URL != "" {
			b.Image = *p.URL
		}
	}
	return b
}

// Text returns a pointer to s, for building a Patch.
func Text(s string) *string {
	return &s
}
