package report

import (
	"strings"
	"testing"
	"time"

	"github.com/handiism/book-catalog/internal/model"
)

var reportNow = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

func createTestBooks() []model.Book {
	late, _ := model.NewLoan("Alice", 1, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	fresh, _ := model.NewLoan("Bob", 4, time.Date(2025, 1, 30, 0, 0, 0, 0, time.UTC))

	return []model.Book{
		{ID: "b1", Title: "Dune", Loan: model.OnLoan{Loan: late}},
		{ID: "b2", Title: "On the shelf", Loan: model.Available{}},
		{ID: "b3", Title: "Pipes | and, commas", Loan: model.OnLoan{Loan: fresh}},
	}
}

func TestLoanReport_Text(t *testing.T) {
	content, err := NewLoanReport(FormatText, reportNow).Render(createTestBooks())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.HasPrefix(content, "TITLE") {
		t.Error("text report should start with a header")
	}
	if strings.Contains(content, "On the shelf") {
		t.Error("available books must not be listed")
	}
	if !strings.Contains(content, "overdue") {
		t.Error("late loan should be flagged overdue")
	}
}

func TestLoanReport_TextEmpty(t *testing.T) {
	content, _ := NewLoanReport(FormatText, reportNow).Render(nil)
	if content != "No active loans.\n" {
		t.Errorf("empty report = %q", content)
	}
}

func TestLoanReport_CSV(t *testing.T) {
	content, err := NewLoanReport(FormatCSV, reportNow).Render(createTestBooks())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) != 3 {
		t.Fatalf("CSV should have a header and two rows, got %d lines", len(lines))
	}
	if lines[1] != "b1,Dune,Alice,1,2025-01-01,2025-01-08,true" {
		t.Errorf("row 1 = %q", lines[1])
	}
	if !strings.Contains(lines[2], `"Pipes | and, commas"`) {
		t.Errorf("row 2 should quote the title: %q", lines[2])
	}
}

func TestLoanReport_Markdown(t *testing.T) {
	content, err := NewLoanReport(FormatMarkdown, reportNow).Render(createTestBooks())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.HasPrefix(content, "| Title |") {
		t.Error("Markdown should start with a table header")
	}
	if !strings.Contains(content, `Pipes \| and, commas`) {
		t.Error("Markdown should escape pipes in cells")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"", FormatText},
		{"text", FormatText},
		{"CSV", FormatCSV},
		{"md", FormatMarkdown},
		{"markdown", FormatMarkdown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, %v; want %v", tt.input, got, err, tt.want)
			}
		})
	}

	if _, err := ParseFormat("pdf"); err == nil {
		t.Error("ParseFormat(pdf) should fail")
	}
}
