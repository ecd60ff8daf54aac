package storage

import (
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/handiism/book-catalog/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// bookRecord is the stored shape of a model.Book.
type bookRecord struct {
	ISBN13      string      `json:"isbn13"`
	Title       string      `json:"title"`
	Author      string      `json:"author"`
	Image       string      `json:"image"`
	URL         string      `json:"url"`
	IsUserAdded bool        `json:"isUserAdded"`
	Selected    bool        `json:"selected"`
	Loan        *loanRecord `json:"loan,omitempty"`
}

type loanRecord struct {
	Borrower   string    `json:"borrower"`
	Weeks      int       `json:"weeks"`
	BorrowedAt time.Time `json:"borrowedAt"`
	DueDate    time.Time `json:"dueDate"`
}

// Encode serialises books as a JSON array.
func Encode(books []model.Book) ([]byte, error) {
	records := make([]bookRecord, 0, len(books))
	for _, b := range books {
		records = append(records, toRecord(b))
	}
	return json.Marshal(records)
}

// Decode parses a JSON array of book records.
//
// It fails only if data is not a JSON array. Records without an id are
// skipped and reported in the returned count. Loans are rebuilt with
// model.NewLoan, so weeks are clamped and the due date is recomputed; a
// loan without a borrower or start time is dropped.
func Decode(data []byte) (books []model.Book, skipped int, err error) {
	var raw []jsoniter.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("decode collection: %w", err)
	}
	if raw == nil {
		return nil, 0, fmt.Errorf("decode collection: not an array")
	}

	books = make([]model.Book, 0, len(raw))
	for _, item := range raw {
		var r bookRecord
		if err := json.Unmarshal(item, &r); err != nil || strings.TrimSpace(r.ISBN13) == "" {
			skipped++
			continue
		}
		books = append(books, fromRecord(r))
	}

	return books, skipped, nil
}

func toRecord(b model.Book) bookRecord {
	r := bookRecord{
		ISBN13:      b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Image:       b.Image,
		URL:         b.URL,
		IsUserAdded: b.IsUserAdded,
		Selected:    b.Selected,
	}

	switch s := b.LoanState().(type) {
	case model.OnLoan:
		r.Loan = &loanRecord{
			Borrower:   s.Loan.Borrower,
			Weeks:      s.Loan.Weeks,
			BorrowedAt: s.Loan.BorrowedAt,
			DueDate:    s.Loan.DueDate,
		}
	case model.Available:
	}

	return r
}

func fromRecord(r bookRecord) model.Book {
	b := model.Book{
		ID:          r.ISBN13,
		Title:       r.Title,
		Author:      r.Author,
		Image:       r.Image,
		URL:         r.URL,
		IsUserAdded: r.IsUserAdded,
		Selected:    r.Selected,
		Loan:        model.Available{},
	}

	if r.Loan != nil && !r.Loan.BorrowedAt.IsZero() {
		if loan, ok := model.NewLoan(r.Loan.Borrower, r.Loan.Weeks, r.Loan.BorrowedAt); ok {
			b.Loan = model.OnLoan{Loan: loan}
		}
	}

	return b
}
