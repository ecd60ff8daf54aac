package catalog

import "errors"

var (
	// ErrNoSelection is returned by operations on the selected book when
	// nothing is selected.
	ErrNoSelection = errors.New("no book selected")

	// ErrNotFound is returned when a caller asks for a specific book that
	// is not in the catalog.
	ErrNotFound = errors.New("book not found")
)

// Outcome reports what a transition did.
type Outcome int

const (
	// Unchanged means the collection is the same as before, e.g. an unknown
	// id or returning a book that is not on loan.
	Unchanged Outcome = iota

	// Applied means the collection changed and should be saved.
	Applied

	// Rejected means the input was incomplete (a blank borrower name).
	// The collection is unchanged.
	Rejected
)

// Changed reports whether the collection was modified.
func (o Outcome) Changed() bool {
	return o == Applied
}

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Rejected:
		return "rejected"
	default:
		return "unchanged"
	}
}
