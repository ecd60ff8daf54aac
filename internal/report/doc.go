// Package report renders the list of books currently on loan.
//
// Supported formats:
//   - FormatText: aligned plain text for the terminal
//   - FormatCSV: one row per loan, with a header
//   - FormatMarkdown: a Markdown table
//
// Example:
//
//	r := report.NewLoanReport(report.FormatCSV, time.Now())
//	content, err := r.Render(snap.OnLoan())
package report
