// Package quickentry is the one-line quick add input. It parses the text
// and hands the result to the task form.
package quickentry

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskgenius/internal/quickadd"
	"github.com/nhle/taskgenius/internal/theme"
)

// ParsedMsg carries the parsed quick add text.
type ParsedMsg struct {
	Result quickadd.Result
}

// CancelMsg is sent when the user leaves the input without parsing.
type CancelMsg struct{}

// Model is the quick add input.
type Model struct {
	input textinput.Model
	now   func() time.Time
	width int
}

// New creates the quick add input.
func New(width int) Model {
	ti := textinput.New()
	ti.Placeholder = "e.g. Order rebar due tomorrow priority high"
	ti.Prompt = "+ "
	ti.CharLimit = 500
	ti.Width = width - 6

	return Model{input: ti, now: time.Now, width: width}
}

// Focus clears the input and gives it keyboard focus.
func (m *Model) Focus() tea.Cmd {
	m.input.Reset()
	return m.input.Focus()
}

// SetValue replaces the input text.
func (m *Model) SetValue(s string) {
	m.input.SetValue(s)
}

// Update handles messages for the input.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			m.input.Blur()
			return m, func() tea.Msg { return CancelMsg{} }
		case "enter":
			text := m.input.Value()
			if strings.TrimSpace(text) == "" {
				return m, nil
			}
			m.input.Blur()
			result := quickadd.Parse(text, m.now())
			return m, func() tea.Msg { return ParsedMsg{Result: result} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the input with a live preview of what will be parsed.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorText).
		MarginBottom(1)

	lines := []string{titleStyle.Render("Quick Add"), m.input.View()}

	if text := m.input.Value(); strings.TrimSpace(text) != "" {
		r := quickadd.Parse(text, m.now())
		due := "none"
		if r.HasDueDate() {
			due = r.DueDate
		}
		preview := fmt.Sprintf("title %q | due %s | priority %s", r.Title, due, r.Priority)
		lines = append(lines, "", theme.HelpStyle.Render(preview))
	}

	return theme.DetailPanelStyle.
		Width(max(m.width-4, 0)).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// SetSize updates the input width.
func (m *Model) SetSize(width int) {
	m.width = width
	m.input.Width = width - 6
}
