package model

import (
	"strings"
	"time"
)

const (
	// MinLoanWeeks is the shortest loan period.
	MinLoanWeeks = 1

	// MaxLoanWeeks is the longest loan period.
	MaxLoanWeeks = 4

	daysPerWeek = 7
)

// Loan is a time-bounded borrowing of a book.
//
// DueDate is always BorrowedAt + Weeks*7 days. Use NewLoan to build one.
type Loan struct {
	// Borrower is the trimmed, non-empty borrower name.
	Borrower string

	// Weeks is the loan period, within [MinLoanWeeks, MaxLoanWeeks].
	Weeks int

	// BorrowedAt is when the loan was created, in UTC.
	BorrowedAt time.Time

	// DueDate is when the book is expected back, in UTC.
	DueDate time.Time
}

// NewLoan builds a loan starting at borrowedAt.
//
// The borrower is trimmed and weeks is clamped with ClampWeeks. It returns
// false if the borrower is empty after trimming.
func NewLoan(borrower string, weeks int, borrowedAt time.Time) (Loan, bool) {
	borrower = strings.TrimSpace(borrower)
	if borrower == "" {
		return Loan{}, false
	}

	weeks = ClampWeeks(weeks)
	borrowedAt = borrowedAt.UTC()

	return Loan{
		Borrower:   borrower,
		Weeks:      weeks,
		BorrowedAt: borrowedAt,
		DueDate:    DueDate(borrowedAt, weeks),
	}, true
}

// ClampWeeks limits a raw loan period to [MinLoanWeeks, MaxLoanWeeks].
func ClampWeeks(weeks int) int {
	if weeks < MinLoanWeeks {
		return MinLoanWeeks
	}
	if weeks > MaxLoanWeeks {
		return MaxLoanWeeks
	}
	return weeks
}

// DueDate returns borrowedAt plus weeks*7 days.
func DueDate(borrowedAt time.Time, weeks int) time.Time {
	return borrowedAt.AddDate(0, 0, weeks*daysPerWeek)
}

// IsOverdue reports whether the loan is past its due date at now.
func (l Loan) IsOverdue(now time.Time) bool {
	return now.After(l.DueDate)
}

// LoanState is either Available or OnLoan.
type LoanState interface {
	isLoanState()
}

// Available means the book is on the shelf.
type Available struct{}

// OnLoan means the book is borrowed under Loan.
type OnLoan struct {
	Loan Loan
}

func (Available) isLoanState() {}
func (OnLoan) isLoanState()    {}
