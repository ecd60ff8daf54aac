package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/handiism/book-catalog/internal/model"
)

// Format is a loan report output format.
type Format int

const (
	// FormatText renders aligned columns for the terminal.
	FormatText Format = iota

	// FormatCSV renders comma-separated values with a header row.
	FormatCSV

	// FormatMarkdown renders a Markdown table.
	FormatMarkdown
)

const dateLayout = "2006-01-02"

// ParseFormat converts a flag value into a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	default:
		return FormatText, fmt.Errorf("unknown report format %q (want text, csv or markdown)", s)
	}
}

// LoanReport renders books on loan. Loans past their due date at Now are
// flagged as overdue.
type LoanReport struct {
	format Format
	now    time.Time
}

// NewLoanReport creates a LoanReport evaluated at now.
func NewLoanReport(format Format, now time.Time) *LoanReport {
	return &LoanReport{format: format, now: now}
}

type row struct {
	id, title, borrower string
	weeks               int
	borrowed, due       string
	overdue             bool
}

// Render produces the report for books. Books that are not on loan are
// ignored.
func (r *LoanReport) Render(books []model.Book) (string, error) {
	rows := make([]row, 0, len(books))
	for _, b := range books {
		loan, ok := b.ActiveLoan()
		if !ok {
			continue
		}
		rows = append(rows, row{
			id:       b.ID,
			title:    b.Title,
			borrower: loan.Borrower,
			weeks:    loan.Weeks,
			borrowed: loan.BorrowedAt.Format(dateLayout),
			due:      loan.DueDate.Format(dateLayout),
			overdue:  loan.IsOverdue(r.now),
		})
	}

	switch r.format {
	case FormatCSV:
		return r.renderCSV(rows)
	case FormatMarkdown:
		return r.renderMarkdown(rows), nil
	default:
		return r.renderText(rows)
	}
}

// renderText generates aligned columns:
//
//	TITLE  BORROWER  WEEKS  DUE         STATUS
//	Dune   Alice     2      2025-01-15  overdue
func (r *LoanReport) renderText(rows []row) (string, error) {
	if len(rows) == 0 {
		return "No active loans.\n", nil
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TITLE\tBORROWER\tWEEKS\tDUE\tSTATUS")
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", row.title, row.borrower, row.weeks, row.due, status(row.overdue))
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renderCSV generates:
//
//	id,title,borrower,weeks,borrowed_at,due_date,overdue
//	978...,Dune,Alice,2,2025-01-01,2025-01-15,true
func (r *LoanReport) renderCSV(rows []row) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{{"id", "title", "borrower", "weeks", "borrowed_at", "due_date", "overdue"}}
	for _, row := range rows {
		records = append(records, []string{
			row.id,
			row.title,
			row.borrower,
			strconv.Itoa(row.weeks),
			row.borrowed,
			row.due,
			strconv.FormatBool(row.overdue),
		})
	}

	if err := w.WriteAll(records); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renderMarkdown generates a table with the same columns as the text format.
func (r *LoanReport) renderMarkdown(rows []row) string {
	var sb strings.Builder

	sb.WriteString("| Title | Borrower | Weeks | Due | Status |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("| %s | %s | %d | %s | %s |\n",
			escapeMarkdown(row.title),
			escapeMarkdown(row.borrower),
			row.weeks,
			row.due,
			status(row.overdue)))
	}

	return sb.String()
}

func status(overdue bool) string {
	if overdue {
		return "overdue"
	}
	return "on loan"
}

// escapeMarkdown escapes characters that break a table cell.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
