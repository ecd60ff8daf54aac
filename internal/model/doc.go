// Package model defines the core data structures used throughout
// the book-catalog application.
//
// # Book
//
// Book is a single catalog entry. Its ID is assigned once, when the book is
// added, and never changes:
//
//	book := model.Book{ID: "9780000000001", Title: "Dune", Author: "Frank Herbert"}
//	fmt.Println(book.IsOnLoan()) // false
//
// # Loan state
//
// Every book is either Available or OnLoan. LoanState is a closed sum type,
// so a type switch over it is exhaustive:
//
//	switch s := book.LoanState().(type) {
//	case model.Available:
//	    // on the shelf
//	case model.OnLoan:
//	    fmt.Println(s.Loan.Borrower, s.Loan.DueDate)
//	}
//
// # Loans
//
// NewLoan trims the borrower name, clamps the period to [MinLoanWeeks,
// MaxLoanWeeks] and derives the due date:
//
//	loan, ok := model.NewLoan("  Alice ", 9, time.Now())
//	// ok == true, loan.Borrower == "Alice", loan.Weeks == 4
//	// loan.DueDate == loan.BorrowedAt + 28 days
package model
