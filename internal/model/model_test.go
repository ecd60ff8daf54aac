package model

import (
	"testing"
	"time"
)

func TestClampWeeks(t *testing.T) {
	tests := []struct {
		input int
		want  int
	}{
		{-3, 1},
		{0, 1},
		{1, 1},
		{3, 3},
		{4, 4},
		{9, 4},
	}

	for _, tt := range tests {
		if got := ClampWeeks(tt.input); got != tt.want {
			t.Errorf("ClampWeeks(%d) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestNewLoan(t *testing.T) {
	borrowedAt := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)

	loan, ok := NewLoan("  Alice  ", 2, borrowedAt)
	if !ok {
		t.Fatal("NewLoan should accept a non-blank borrower")
	}
	if loan.Borrower != "Alice" {
		t.Errorf("Borrower = %q, want %q", loan.Borrower, "Alice")
	}
	if loan.Weeks != 2 {
		t.Errorf("Weeks = %d, want 2", loan.Weeks)
	}

	want := borrowedAt.Add(14 * 24 * time.Hour)
	if !loan.DueDate.Equal(want) {
		t.Errorf("DueDate = %v, want %v", loan.DueDate, want)
	}
}

func TestNewLoan_BlankBorrower(t *testing.T) {
	for _, name := range []string{"", "   ", "\t\n"} {
		if _, ok := NewLoan(name, 2, time.Now()); ok {
			t.Errorf("NewLoan(%q) should be rejected", name)
		}
	}
}

func TestNewLoan_NormalisesToUTC(t *testing.T) {
	zone := time.FixedZone("ICT", 7*60*60)
	borrowedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, zone)

	loan, _ := NewLoan("Bob", 1, borrowedAt)

	if loan.BorrowedAt.Location() != time.UTC {
		t.Errorf("BorrowedAt location = %v, want UTC", loan.BorrowedAt.Location())
	}
	if !loan.BorrowedAt.Equal(borrowedAt) {
		t.Errorf("BorrowedAt = %v, want same instant as %v", loan.BorrowedAt, borrowedAt)
	}
}

func TestLoan_IsOverdue(t *testing.T) {
	borrowedAt := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	loan, _ := NewLoan("Carol", 1, borrowedAt)

	if loan.IsOverdue(borrowedAt.AddDate(0, 0, 7)) {
		t.Error("loan should not be overdue exactly at the due date")
	}
	if !loan.IsOverdue(borrowedAt.AddDate(0, 0, 8)) {
		t.Error("loan should be overdue a day after the due date")
	}
}

func TestBook_LoanState(t *testing.T) {
	var b Book
	if _, ok := b.LoanState().(Available); !ok {
		t.Errorf("zero Book LoanState = %T, want Available", b.LoanState())
	}
	if b.IsOnLoan() {
		t.Error("zero Book should not be on loan")
	}

	loan, _ := NewLoan("Dan", 3, time.Now())
	b.Loan = OnLoan{Loan: loan}

	got, ok := b.ActiveLoan()
	if !ok || got.Borrower != "Dan" {
		t.Errorf("ActiveLoan() = %+v, %v; want Dan, true", got, ok)
	}
}

func TestPatch_Apply(t *testing.T) {
	loan, _ := NewLoan("Eve", 1, time.Now())
	book := Book{
		ID:       "b1",
		Title:    "A",
		Author:   "B",
		Image:    "https://example.com/old.jpg",
		URL:      "https://example.com/old.jpg",
		Selected: true,
		Loan:     OnLoan{Loan: loan},
	}

	tests := []struct {
		name      string
		patch     Patch
		wantTitle string
		wantAuth  string
		wantURL   string
		wantImage string
	}{
		{"title only", Patch{Title: Text("A2")}, "A2", "B", book.URL, book.Image},
		{"author only", Patch{Author: Text("C")}, "A", "C", book.URL, book.Image},
		{"new url replaces image", Patch{URL: Text("https://example.com/new.jpg")}, "A", "B", "https://example.com/new.jpg", "https://example.com/new.jpg"},
		{"empty url keeps image", Patch{URL: Text("")}, "A", "B", "", book.Image},
		{"empty patch", Patch{}, "A", "B", book.URL, book.Image},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.patch.Apply(book)
			if got.Title != tt.wantTitle || got.Author != tt.wantAuth {
				t.Errorf("title/author = %q/%q, want %q/%q", got.Title, got.Author, tt.wantTitle, tt.wantAuth)
			}
			if got.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", got.URL, tt.wantURL)
			}
			if got.Image != tt.wantImage {
				t.Errorf("Image = %q, want %q", got.Image, tt.wantImage)
			}
			if got.ID != book.ID || got.Selected != book.Selected || !got.IsOnLoan() {
				t.Error("Apply must not touch ID, Selected or Loan")
			}
		})
	}
}
