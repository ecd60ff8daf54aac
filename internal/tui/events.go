package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/book-catalog/internal/event"
)

const maxLogs = 8

// Sink collects events from the manager and the cover fetcher until the
// model shows them. The fetcher emits from its worker goroutines.
type Sink struct {
	mu      sync.Mutex
	pending []event.Event
}

// NewSink returns an empty sink.
func NewSink() *Sink {
	return &Sink{}
}

// Push queues e. It satisfies event.Func.
func (s *Sink) Push(e event.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, e)
}

func (s *Sink) drain() []event.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.pending
	s.pending = nil
	return out
}

// drainEvents moves pending events into the visible log.
func (m *Model) drainEvents() {
	for _, e := range m.sink.drain() {
		if e.Level == event.LevelVerbose && !m.verbose {
			continue
		}
		m.logs = append(m.logs, e)
	}
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case event.LevelError:
			style = errorStyle
			prefix = "✗"
		case event.LevelWarning:
			style = warningStyle
			prefix = "!"
		case event.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case event.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}
