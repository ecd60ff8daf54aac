package tui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/handiism/book-catalog/internal/catalog"
	"github.com/handiism/book-catalog/internal/model"
)

const userAddedNotice = "This book was added by you. Manage its loan on the Loans page."

func newBorrowerInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Borrower name"
	ti.CharLimit = 100
	ti.Width = 30
	return ti
}

func newWeeksInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "1-4"
	ti.CharLimit = 2
	ti.Width = 4
	ti.SetValue("1")
	return ti
}

// parseWeeks reads the weeks field. Blank, zero or unparseable input counts
// as one week; the catalog clamps the rest.
func parseWeeks(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n == 0 {
		return model.MinLoanWeeks
	}
	return n
}

// loanPanel manages the loan of the selected book.
type loanPanel struct {
	bookID    string
	userAdded bool
	borrower  textinput.Model
	weeks     textinput.Model
	focus     int
}

func newLoanPanel(b model.Book) loanPanel {
	p := loanPanel{
		bookID:    b.ID,
		userAdded: b.IsUserAdded,
		borrower:  newBorrowerInput(),
		weeks:     newWeeksInput(),
	}
	if l, ok := b.ActiveLoan(); ok {
		p.borrower.SetValue(l.Borrower)
		p.weeks.SetValue(strconv.Itoa(l.Weeks))
	}
	return p
}

func (p *loanPanel) setFocus(i int) tea.Cmd {
	if p.userAdded {
		return nil
	}
	p.focus = (i + 2) % 2
	if p.focus == 0 {
		p.weeks.Blur()
		return p.borrower.Focus()
	}
	p.borrower.Blur()
	return p.weeks.Focus()
}

func (p loanPanel) update(msg tea.Msg) (loanPanel, tea.Cmd) {
	var cmd tea.Cmd
	if p.focus == 0 {
		p.borrower, cmd = p.borrower.Update(msg)
	} else {
		p.weeks, cmd = p.weeks.Update(msg)
	}
	return p, cmd
}

func (p loanPanel) view(snap catalog.Snapshot) string {
	var b strings.Builder

	book, ok := snap.Get(p.bookID)
	if !ok {
		return dimStyle.Render("This book is no longer in the catalog.")
	}

	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Loan: %s", book.Title)))
	b.WriteString("\n\n")

	if p.userAdded {
		b.WriteString(warningStyle.Render(userAddedNotice))
		return boxStyle.Render(b.String())
	}

	if l, ok := book.ActiveLoan(); ok {
		b.WriteString(infoStyle.Render(fmt.Sprintf(
			"On loan to %s until %s", l.Borrower, l.DueDate.Local().Format("Mon, Jan 2 2006"),
		)))
		b.WriteString("\n\n")
	}

	labels := []string{"Borrower:", "Weeks:"}
	views := []string{p.borrower.View(), p.weeks.View()}
	for i := range labels {
		style := labelStyle
		if i == p.focus {
			style = focusedLabelStyle
		}
		b.WriteString(style.Render(labels[i]) + views[i] + "\n")
	}

	return boxStyle.Render(b.String())
}

func (m Model) updateLoanPanel(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = ViewCatalog
		return m, nil

	case "enter":
		if m.panel.userAdded {
			return m.openLoanPage()
		}
		_, _ = m.manager.Loan(m.ctx, m.panel.bookID, m.panel.borrower.Value(), parseWeeks(m.panel.weeks.Value()))
		if b, ok := m.manager.Snapshot().Get(m.panel.bookID); ok && b.IsOnLoan() {
			m.view = ViewCatalog
		}
		return m, nil

	case "ctrl+r":
		if m.panel.userAdded {
			return m, nil
		}
		_, _ = m.manager.Return(m.ctx, m.panel.bookID)
		m.view = ViewCatalog
		return m, nil

	case "tab", "shift+tab", "up", "down":
		return m, m.panel.setFocus(m.panel.focus + 1)
	}

	if m.panel.userAdded {
		return m, nil
	}
	var cmd tea.Cmd
	m.panel, cmd = m.panel.update(msg)
	return m, cmd
}

const (
	pageBorrower = iota
	pageBook
	pageWeeks
	pageOnLoan
	pageFields
)

// loanPage lends any available book and returns books on loan.
type loanPage struct {
	borrower   textinput.Model
	weeks      textinput.Model
	pickID     string
	focus      int
	listCursor int
}

func newLoanPage(snap catalog.Snapshot) loanPage {
	p := loanPage{
		borrower: newBorrowerInput(),
		weeks:    newWeeksInput(),
	}
	if available := snap.Available(); len(available) > 0 {
		p.pickID = available[0].ID
	}
	return p
}

func (p *loanPage) setFocus(i int) tea.Cmd {
	p.focus = (i + pageFields) % pageFields
	p.borrower.Blur()
	p.weeks.Blur()
	switch p.focus {
	case pageBorrower:
		return p.borrower.Focus()
	case pageWeeks:
		return p.weeks.Focus()
	}
	return nil
}

func (p loanPage) update(msg tea.Msg) (loanPage, tea.Cmd) {
	var cmd tea.Cmd
	switch p.focus {
	case pageBorrower:
		p.borrower, cmd = p.borrower.Update(msg)
	case pageWeeks:
		p.weeks, cmd = p.weeks.Update(msg)
	}
	return p, cmd
}

// picked returns the chosen book, falling back to the first available one
// when the previous choice was lent or removed.
func (p loanPage) picked(available []model.Book) (model.Book, bool) {
	if i := slices.IndexFunc(available, func(b model.Book) bool { return b.ID == p.pickID }); i >= 0 {
		return available[i], true
	}
	if len(available) > 0 {
		return available[0], true
	}
	return model.Book{}, false
}

func (p *loanPage) cycle(available []model.Book, step int) {
	if len(available) == 0 {
		p.pickID = ""
		return
	}
	i := slices.IndexFunc(available, func(b model.Book) bool { return b.ID == p.pickID })
	i = (max(i, 0) + step + len(available)) % len(available)
	p.pickID = available[i].ID
}

func (p loanPage) view(snap catalog.Snapshot, now time.Time) string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Manage loans"))
	b.WriteString("\n\n")

	label := func(field int, text string) string {
		if field == p.focus {
			return focusedLabelStyle.Render(text)
		}
		return labelStyle.Render(text)
	}

	available := snap.Available()
	bookText := dimStyle.Render("No books available")
	if book, ok := p.picked(available); ok {
		bookText = fmt.Sprintf("‹ %s ›", book.Title)
	}

	b.WriteString(label(pageBorrower, "Borrower:") + p.borrower.View() + "\n")
	b.WriteString(label(pageBook, "Book:") + bookText + "\n")
	b.WriteString(label(pageWeeks, "Weeks:") + p.weeks.View() + "\n\n")

	b.WriteString(label(pageOnLoan, "Currently on loan"))
	b.WriteString("\n")
	onLoan := snap.OnLoan()
	if len(onLoan) == 0 {
		b.WriteString(dimStyle.Render("  Nothing is on loan."))
		b.WriteString("\n")
	}
	for i, book := range onLoan {
		l, _ := book.ActiveLoan()
		cursor := "  "
		if p.focus == pageOnLoan && i == p.listCursor {
			cursor = cursorStyle.Render("> ")
		}
		b.WriteString(fmt.Sprintf("%s%s · %s ", cursor, book.Title, l.Borrower))
		b.WriteString(loanBadge(l, now))
		b.WriteString("\n")
	}

	return boxStyle.Render(b.String())
}

func (m Model) updateLoanPage(msg tea.KeyMsg) (Model, tea.Cmd) {
	snap := m.manager.Snapshot()

	switch msg.String() {
	case "esc":
		m.view = ViewCatalog
		return m, nil

	case "tab":
		return m, m.page.setFocus(m.page.focus + 1)

	case "shift+tab":
		return m, m.page.setFocus(m.page.focus - 1)

	case "left", "right":
		if m.page.focus == pageBook {
			step := 1
			if msg.String() == "left" {
				step = -1
			}
			m.page.cycle(snap.Available(), step)
			return m, nil
		}

	case "up", "down":
		if m.page.focus == pageOnLoan {
			n := len(snap.OnLoan())
			if msg.String() == "up" && m.page.listCursor > 0 {
				m.page.listCursor--
			}
			if msg.String() == "down" && m.page.listCursor < n-1 {
				m.page.listCursor++
			}
			return m, nil
		}

	case "enter":
		if m.page.focus == pageOnLoan {
			return m.returnFromPage(snap), nil
		}
		return m.lendFromPage(snap)
	}

	var cmd tea.Cmd
	m.page, cmd = m.page.update(msg)
	return m, cmd
}

// lendFromPage lends the picked book. A blank borrower or an empty picker
// does nothing.
func (m Model) lendFromPage(snap catalog.Snapshot) (Model, tea.Cmd) {
	available := snap.Available()
	book, ok := m.page.picked(available)
	borrower := strings.TrimSpace(m.page.borrower.Value())
	if !ok || borrower == "" {
		return m, nil
	}

	outcome, err := m.manager.Loan(m.ctx, book.ID, borrower, parseWeeks(m.page.weeks.Value()))
	if err != nil || !outcome.Changed() {
		return m, nil
	}

	m.page.borrower.SetValue("")
	m.page.weeks.SetValue("1")
	m.page.pickID = ""
	for _, b := range available {
		if b.ID != book.ID {
			m.page.pickID = b.ID
			break
		}
	}
	return m, m.page.setFocus(pageBorrower)
}

func (m Model) returnFromPage(snap catalog.Snapshot) Model {
	onLoan := snap.OnLoan()
	if m.page.listCursor >= len(onLoan) {
		return m
	}
	_, _ = m.manager.Return(m.ctx, onLoan[m.page.listCursor].ID)
	m.page.listCursor = max(min(m.page.listCursor, len(onLoan)-2), 0)
	return m
}
