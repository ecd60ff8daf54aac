// Package tui provides a Bubble Tea terminal user interface for the book catalog.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/book-catalog/internal/catalog"
	"github.com/handiism/book-catalog/internal/config"
	"github.com/handiism/book-catalog/internal/covers"
	"github.com/handiism/book-catalog/internal/event"
	"github.com/handiism/book-catalog/internal/library"
	"github.com/handiism/book-catalog/internal/model"
)

// View identifies the screen currently shown.
type View int

const (
	ViewCatalog View = iota
	ViewForm
	ViewLoanPanel
	ViewLoanPage
	ViewCovers
)

// Model is the Bubble Tea model for the TUI.
type Model struct {
	ctx     context.Context
	manager *library.Manager
	fetcher *covers.Fetcher
	sink    *Sink

	view   View
	cursor int
	author string
	notice string

	form  bookForm
	panel loanPanel
	page  loanPage

	spinner    spinner.Model
	progress   progress.Model
	syncing    bool
	syncCancel context.CancelFunc
	lastSync   *covers.Result

	logs    []event.Event
	verbose bool

	width  int
	height int
}

// NewModel creates a new TUI model showing events queued on sink.
func NewModel(ctx context.Context, manager *library.Manager, fetcher *covers.Fetcher, sink *Sink) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	if sink == nil {
		sink = &Sink{}
	}

	return Model{
		ctx:      ctx,
		manager:  manager,
		fetcher:  fetcher,
		sink:     sink,
		spinner:  sp,
		progress: prog,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Message types
type (
	// CoversDoneMsg is sent when a cover sync finishes.
	CoversDoneMsg struct {
		Result covers.Result
		Err    error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			if m.syncCancel != nil {
				m.syncCancel()
			}
			return m, tea.Quit
		}
		if m.notice != "" {
			m.notice = ""
			return m, nil
		}

		var cmd tea.Cmd
		switch m.view {
		case ViewCatalog:
			m, cmd = m.updateCatalog(msg)
		case ViewForm:
			m, cmd = m.updateForm(msg)
		case ViewLoanPanel:
			m, cmd = m.updateLoanPanel(msg)
		case ViewLoanPage:
			m, cmd = m.updateLoanPage(msg)
		case ViewCovers:
			if msg.String() == "esc" && m.syncCancel != nil {
				m.syncCancel()
			}
		}
		m.drainEvents()
		return m, cmd

	case spinner.TickMsg:
		if m.syncing {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case TickMsg:
		if m.syncing && m.fetcher != nil {
			done, total := m.fetcher.Progress()
			var percent float64
			if total > 0 {
				percent = float64(done) / float64(total)
			}
			m.drainEvents()
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case CoversDoneMsg:
		m.syncing = false
		if m.syncCancel != nil {
			m.syncCancel()
			m.syncCancel = nil
		}
		m.view = ViewCatalog
		m.drainEvents()
		switch {
		case errors.Is(msg.Err, context.Canceled):
			m.logs = append(m.logs, event.Event{Message: "Cover sync cancelled", Level: event.LevelWarning})
		case msg.Err != nil:
			m.logs = append(m.logs, event.Event{Message: msg.Err.Error(), Level: event.LevelError})
		default:
			result := msg.Result
			m.lastSync = &result
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)

	default:
		// cursor blink and other input messages
		var cmd tea.Cmd
		switch m.view {
		case ViewForm:
			m.form, cmd = m.form.update(msg)
		case ViewLoanPanel:
			m.panel, cmd = m.panel.update(msg)
		case ViewLoanPage:
			m.page, cmd = m.page.update(msg)
		}
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// visibleBooks returns the catalog filtered by the active author.
func (m Model) visibleBooks() []model.Book {
	return slices.Collect(m.manager.Snapshot().FilterByAuthor(m.author))
}

func (m Model) updateCatalog(msg tea.KeyMsg) (Model, tea.Cmd) {
	books := m.visibleBooks()

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(books)-1 {
			m.cursor++
		}

	case " ", "space", "enter":
		if m.cursor < len(books) {
			if _, err := m.manager.ToggleSelect(m.ctx, books[m.cursor].ID); err != nil {
				return m, nil
			}
		}

	case "f":
		m.author = nextAuthor(m.manager.Snapshot().Authors(), m.author)
		m.cursor = 0

	case "F":
		m.author = ""
		m.cursor = 0

	case "a":
		m.form = newBookForm(nil)
		m.view = ViewForm
		return m, m.form.setFocus(0)

	case "e":
		b, ok := m.manager.Snapshot().Selected()
		if !ok {
			m.notice = "Please select a book to edit."
			return m, nil
		}
		m.form = newBookForm(&b)
		m.view = ViewForm
		return m, m.form.setFocus(0)

	case "d", "delete":
		if _, err := m.manager.DeleteSelected(m.ctx); errors.Is(err, catalog.ErrNoSelection) {
			m.notice = "Please select a book to delete."
		}
		m.cursor = min(m.cursor, max(len(m.visibleBooks())-1, 0))

	case "l":
		b, ok := m.manager.Snapshot().Selected()
		if !ok {
			m.notice = "Select a book to manage its loan."
			return m, nil
		}
		m.panel = newLoanPanel(b)
		m.view = ViewLoanPanel
		return m, m.panel.setFocus(0)

	case "m":
		return m.openLoanPage()

	case "c":
		return m.startCoverSync()

	case "v":
		m.verbose = !m.verbose
	}

	return m, nil
}

func (m Model) openLoanPage() (Model, tea.Cmd) {
	m.page = newLoanPage(m.manager.Snapshot())
	m.view = ViewLoanPage
	return m, m.page.setFocus(0)
}

// nextAuthor cycles through authors, then back to no filter.
func nextAuthor(authors []string, current string) string {
	if len(authors) == 0 {
		return ""
	}
	if current == "" {
		return authors[0]
	}
	i := slices.Index(authors, current)
	if i < 0 || i == len(authors)-1 {
		return ""
	}
	return authors[i+1]
}

func (m Model) startCoverSync() (Model, tea.Cmd) {
	if m.fetcher == nil {
		m.notice = "Cover cache is not configured."
		return m, nil
	}

	ctx, cancel := context.WithCancel(m.ctx)
	m.syncCancel = cancel
	m.syncing = true
	m.view = ViewCovers

	fetcher := m.fetcher
	books := m.manager.Snapshot().Books()
	run := func() tea.Msg {
		result, err := fetcher.Sync(ctx, books)
		return CoversDoneMsg{Result: result, Err: err}
	}

	return m, tea.Batch(run, m.spinner.Tick, m.tickProgress())
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("📚 Book Catalog"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Keep track of your books and who borrowed them"))
	b.WriteString("\n\n")

	switch m.view {
	case ViewCatalog:
		b.WriteString(m.viewCatalog())
	case ViewForm:
		b.WriteString(m.form.view())
	case ViewLoanPanel:
		b.WriteString(m.panel.view(m.manager.Snapshot()))
	case ViewLoanPage:
		b.WriteString(m.page.view(m.manager.Snapshot(), time.Now()))
	case ViewCovers:
		b.WriteString(m.viewCovers())
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(m.notice + "\n\n" + dimStyle.Render("press any key")))
		b.WriteString("\n")
	}

	if len(m.logs) > 0 {
		b.WriteString("\n")
		b.WriteString(m.renderLogs())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewCatalog() string {
	var b strings.Builder
	snap := m.manager.Snapshot()

	author := "All"
	if m.author != "" {
		author = m.author
	}
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Author: %s", author)))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  (%d books)", snap.Len())))
	b.WriteString("\n\n")

	books := m.visibleBooks()
	if len(books) == 0 {
		b.WriteString(dimStyle.Render("  No books yet. Press a to add one."))
		b.WriteString("\n")
	}

	now := time.Now()
	for i, book := range books {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		check := "○"
		line := fmt.Sprintf("%s by %s", book.Title, book.Author)
		if book.Selected {
			check = "●"
			line = selectedStyle.Render(line)
		}
		b.WriteString(fmt.Sprintf("%s%s %s", cursor, check, line))
		if l, ok := book.ActiveLoan(); ok {
			b.WriteString(" ")
			b.WriteString(loanBadge(l, now))
		}
		b.WriteString("\n")
	}

	if m.lastSync != nil {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf(
			"Covers: %d fetched, %d skipped, %d failed",
			m.lastSync.Fetched, m.lastSync.Skipped, m.lastSync.Failed,
		)))
		b.WriteString("\n")
	}

	return b.String()
}

func loanBadge(l model.Loan, now time.Time) string {
	if l.IsOverdue(now) {
		return overdueBadgeStyle.Render("Overdue · " + l.DueDate.Local().Format("Jan 2"))
	}
	return badgeStyle.Render("On loan · due " + l.DueDate.Local().Format("Jan 2"))
}

func (m Model) viewCovers() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Fetching covers..."))
	b.WriteString("\n\n")

	var done, total int32
	if m.fetcher != nil {
		done, total = m.fetcher.Progress()
	}
	var percent float64
	if total > 0 {
		percent = float64(done) / float64(total)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Covers: %d/%d", done, total)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) getHelpText() string {
	if m.notice != "" {
		return "any key: dismiss"
	}
	switch m.view {
	case ViewCatalog:
		return "↑/↓: move • space: select • a: add • e: edit • d: delete • l: loan • m: manage loans • f: author • c: covers • v: verbose • q: quit"
	case ViewForm:
		return "tab: next field • enter: save • esc: cancel"
	case ViewLoanPanel:
		if m.panel.userAdded {
			return "enter: open manage loans • esc: back"
		}
		return "tab: next field • enter: save loan • ctrl+r: return • esc: back"
	case ViewLoanPage:
		return "tab: next field • ←/→: pick book • enter: loan/return • esc: back"
	case ViewCovers:
		return "esc: cancel"
	}
	return ""
}

// Run starts the TUI application. The manager and fetcher should report to
// sink.Push so their events reach the log strip.
func Run(ctx context.Context, manager *library.Manager, fetcher *covers.Fetcher, sink *Sink) error {
	p := tea.NewProgram(NewModel(ctx, manager, fetcher, sink), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Start opens the catalog described by settings and runs the TUI on it.
func Start(ctx context.Context, settings *config.Settings, logger *slog.Logger) error {
	sink := NewSink()

	manager, err := library.Open(ctx, settings, logger, sink.Push)
	if err != nil {
		return err
	}
	defer manager.Close()

	return Run(ctx, manager, covers.NewFetcher(settings, sink.Push), sink)
}
