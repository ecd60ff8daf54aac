package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/handiism/book-catalog/internal/model"
)

const (
	fieldTitle = iota
	fieldAuthor
	fieldURL
)

var formLabels = [...]string{"Title", "Author", "Link"}

// bookForm backs both the add and the edit screen.
type bookForm struct {
	inputs  []textinput.Model
	focus   int
	editing bool

	// url the edited book had when the form opened
	origURL string
}

func newBookForm(b *model.Book) bookForm {
	inputs := make([]textinput.Model, len(formLabels))
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 300
		ti.Width = 50
		inputs[i] = ti
	}
	inputs[fieldTitle].Placeholder = "Title"
	inputs[fieldAuthor].Placeholder = "Author"
	inputs[fieldURL].Placeholder = "https://..."

	f := bookForm{inputs: inputs}
	if b != nil {
		f.editing = true
		f.inputs[fieldTitle].SetValue(b.Title)
		f.inputs[fieldAuthor].SetValue(b.Author)
		f.inputs[fieldURL].SetValue(b.URL)
		f.origURL = b.URL
	}
	return f
}

func (f *bookForm) setFocus(i int) tea.Cmd {
	f.focus = (i + len(f.inputs)) % len(f.inputs)
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == f.focus {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return cmd
}

func (f bookForm) update(msg tea.Msg) (bookForm, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f bookForm) value(field int) string {
	return strings.TrimSpace(f.inputs[field].Value())
}

func (f bookForm) draft() model.Draft {
	return model.Draft{
		Title:  f.value(fieldTitle),
		Author: f.value(fieldAuthor),
		URL:    f.value(fieldURL),
	}
}

// patch sends title and author as shown, so clearing one clears it on the
// book. The link is only sent when it was changed, since a new link also
// replaces the cover image.
func (f bookForm) patch() model.Patch {
	p := model.Patch{
		Title:  model.Text(f.value(fieldTitle)),
		Author: model.Text(f.value(fieldAuthor)),
	}
	if url := f.value(fieldURL); url != f.origURL {
		p.URL = model.Text(url)
	}
	return p
}

func (f bookForm) view() string {
	var b strings.Builder

	heading := "Add a book"
	if f.editing {
		heading = "Edit book"
	}
	b.WriteString(subtitleStyle.Render(heading))
	b.WriteString("\n\n")

	for i, label := range formLabels {
		style := labelStyle
		if i == f.focus {
			style = focusedLabelStyle
		}
		b.WriteString(fmt.Sprintf("%s%s\n", style.Render(label+":"), f.inputs[i].View()))
	}

	return boxStyle.Render(b.String())
}

func (m Model) updateForm(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = ViewCatalog
		return m, nil

	case "tab", "down":
		return m, m.form.setFocus(m.form.focus + 1)

	case "shift+tab", "up":
		return m, m.form.setFocus(m.form.focus - 1)

	case "enter":
		// failures reach the log strip through the manager's events
		if m.form.editing {
			_, _ = m.manager.EditSelected(m.ctx, m.form.patch())
		} else if _, err := m.manager.Add(m.ctx, m.form.draft()); err == nil {
			m.cursor = max(len(m.visibleBooks())-1, 0)
		}
		m.view = ViewCatalog
		return m, nil
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}
