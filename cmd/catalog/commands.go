package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/handiism/book-catalog/internal/catalog"
	"github.com/handiism/book-catalog/internal/covers"
	"github.com/handiism/book-catalog/internal/model"
	"github.com/handiism/book-catalog/internal/report"
)

const dueLayout = "Jan 2, 2006"

func newListCmd(a *app) *cobra.Command {
	var author string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books, optionally only those by one author",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := a.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer mgr.Close()

			now := time.Now()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "\tID\tTITLE\tAUTHOR\tLOAN")
			for b := range mgr.Snapshot().FilterByAuthor(author) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", selectionMark(b), b.ID, b.Title, b.Author, loanSummary(b, now))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "only books by this author (exact match)")
	return cmd
}

func selectionMark(b model.Book) string {
	if b.Selected {
		return "*"
	}
	return ""
}

func loanSummary(b model.Book, now time.Time) string {
	l, ok := b.ActiveLoan()
	if !ok {
		return "-"
	}
	s := fmt.Sprintf("%s until %s", l.Borrower, l.DueDate.Local().Format(dueLayout))
	if l.IsOverdue(now) {
		s += " (overdue)"
	}
	return s
}

func newAuthorsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "authors",
		Short: "List the distinct authors in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := a.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer mgr.Close()

			for _, author := range mgr.Snapshot().Authors() {
				fmt.Fprintln(cmd.OutOrStdout(), author)
			}
			return nil
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	var d model.Draft

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := a.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer mgr.Close()

			b, err := mgr.Add(cmd.Context(), d)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), b.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&d.Title, "title", "", "book title")
	cmd.Flags().StringVar(&d.Author, "author", "", "book author")
	cmd.Flags().StringVar(&d.URL, "url", "", "link to the book; also used as its cover image")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newSelectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "select ID",
		Short: "Select a book, or clear the selection if it is already selected",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := a.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer mgr.Close()

			if _, err := mgr.Find(args[0]); err != nil {
				return err
			}
			if _, err := mgr.ToggleSelect(cmd.Context(), args[0]); err != nil {
				return err
			}

			if id := mgr.Snapshot().SelectedID(); id != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Selected %s\n", id)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Selection cleared")
			}
			return nil
		},
	}
}

func newEditCmd(a *app) *cobra.Command {
	var title, author, url string

	cmd := &cobra.Command{
		Use:   "edit [ID]",
		Short: "Edit a book, or the selected book when no ID is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch model.Patch
			if cmd.Flags().Changed("title") {
				patch.Title = model.Text(title)
			}
			if cmd.Flags().Changed("author") {
				patch.Author = model.Text(author)
			}
			if cmd.Flags().Changed("url") {
				patch.URL = model.Text(url)
			}
			if patch.IsEmpty() {
				return errors.New("nothing to change: pass --title, --author or --url")
			}

			mgr, err := a.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer mgr.Close()

			if len(args) == 0 {
				_, err := mgr.EditSelected(cmd.Context(), patch)
				return err
			}

			if _, err := mgr.Find(args[0]); err != nil {
				return err
			}
			outcome, err := mgr.Edit(cmd.Context(), args[0], patch)
			if err == nil && outcome == catalog.Unchanged {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing changed")
			}
			return err
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&author, "author", "", "new author")
	cmd.Flags().StringVar(&url, "url", "", "new link; a non-empty link also replaces the cover image")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [ID]",
		Short: "Delete a book, or the selected book when no ID is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := a.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer mgr.Close()

			if len(args) == 0 {
				_, err := mgr.DeleteSelected(cmd.Context())
				return err
			}

			if _, err := mgr.Find(args[0]); err != nil {
				return err
			}
			_, err = mgr.Delete(cmd.Context(), args[0])
			return err
		},
	}
}

func newLoanCmd(a *app) *cobra.Command {
	var (
		borrower string
		weeks    int
	)

	cmd := &cobra.Command{
		Use:   "loan ID",
		Short: "Lend a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := a.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer mgr.Close()

			if _, err := mgr.Find(args[0]); err != nil {
				return err
			}
			outcome, err := mgr.Loan(cmd.Context(), args[0], borrower, weeks)
			if err != nil {
				return err
			}
			if outcome == catalog.Rejected {
				return errors.New("borrower name is required")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&borrower, "borrower", "", "who borrows the book")
	cmd.Flags().IntVar(&weeks, "weeks", model.MinLoanWeeks, fmt.Sprintf("loan length in weeks (%d-%d)", model.MinLoanWeeks, model.MaxLoanWeeks))
	return cmd
}

func newReturnCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "return ID",
		Short: "Mark a book as returned",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := a.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer mgr.Close()

			if _, err := mgr.Find(args[0]); err != nil {
				return err
			}
			outcome, err := mgr.Return(cmd.Context(), args[0])
			if err == nil && outcome == catalog.Unchanged {
				fmt.Fprintln(cmd.OutOrStdout(), "Book is not on loan")
			}
			return err
		},
	}
}

func newLoansCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "loans",
		Short: "Report the books currently on loan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			mgr, err := a.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer mgr.Close()

			out, err := report.NewLoanReport(f, time.Now()).Render(mgr.Snapshot().OnLoan())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, csv or markdown")
	return cmd
}

func newCoversCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "covers",
		Short: "Download and cache cover thumbnails",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, err := a.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer mgr.Close()

			a.logger.Debug("syncing covers", "dir", a.settings.CoverCacheDir)
			fetcher := covers.NewFetcher(a.settings, a.printer(cmd))
			result, err := fetcher.Sync(cmd.Context(), mgr.Snapshot().Books())
			if err != nil {
				return err
			}
			if result.Failed > 0 {
				return fmt.Errorf("%d cover(s) could not be fetched", result.Failed)
			}
			return nil
		},
	}
}

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI(cmd.Context())
		},
	}
}
