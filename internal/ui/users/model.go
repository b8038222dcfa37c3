// Package users lists the other user accounts. Owners can delete them.
package users

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskgenius/internal/keys"
	"github.com/nhle/taskgenius/internal/model"
	"github.com/nhle/taskgenius/internal/theme"
)

// DeleteMsg asks the parent to delete a user.
type DeleteMsg struct {
	UserID string
	Name   string
}

// CloseMsg signals the parent to close the view.
type CloseMsg struct{}

type bindings struct {
	confirm bool
}

// Model is the user table.
type Model struct {
	table       table.Model
	users       []model.User
	canDelete   bool
	confirmForm *huh.Form
	pending     model.User
	b           *bindings
	keys        *keys.KeyMap
	statusMsg   string
	width       int
	height      int
}

var columns = []table.Column{
	{Title: "Name", Width: 24},
	{Title: "Email", Width: 32},
	{Title: "Role", Width: 10},
	{Title: "Joined", Width: 30},
}

// New creates the user table.
func New(k *keys.KeyMap, width, height int) Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(height-6, 3)),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.ColorBorder).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(theme.ColorText).
		Background(theme.ColorAccent).
		Bold(false)
	t.SetStyles(s)

	return Model{table: t, b: &bindings{}, keys: k, width: width, height: height}
}

// SetUsers replaces the rows. canDelete enables deletion for owners.
func (m *Model) SetUsers(users []model.User, canDelete bool) {
	m.users = users
	m.canDelete = canDelete
	rows := make([]table.Row, len(users))
	for i, u := range users {
		rows[i] = table.Row{u.Name, u.Email, u.Role, u.CreatedAt}
	}
	m.table.SetRows(rows)
}

// SetStatus shows a line under the table.
func (m *Model) SetStatus(s string) { m.statusMsg = s }

// Confirming reports whether the delete confirmation is open.
func (m Model) Confirming() bool { return m.confirmForm != nil }

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm != nil {
		return m.updateConfirm(msg)
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, m.keys.Back):
			return m, func() tea.Msg { return CloseMsg{} }

		case key.Matches(km, m.keys.Delete):
			if !m.canDelete {
				m.statusMsg = "Only owners can delete users"
				return m, nil
			}
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.users) {
				return m, nil
			}
			m.pending = m.users[idx]
			m.b.confirm = false
			m.confirmForm = huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().
						Title(fmt.Sprintf("Delete user %q?", m.pending.Name)).
						Description("Their comments stay but lose the author.").
						Affirmative("Yes, delete").
						Negative("Cancel").
						Value(&m.b.confirm),
				),
			).WithWidth(min(max(m.width-4, 40), 80))
			return m, m.confirmForm.Init()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}

	switch m.confirmForm.State {
	case huh.StateCompleted:
		m.confirmForm = nil
		if !m.b.confirm {
			return m, nil
		}
		del := DeleteMsg{UserID: m.pending.ID, Name: m.pending.Name}
		return m, func() tea.Msg { return del }
	case huh.StateAborted:
		m.confirmForm = nil
		return m, nil
	}
	return m, cmd
}

// View renders the table.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.ColorText).Render("Users"))
	b.WriteString("\n\n")

	if m.confirmForm != nil {
		b.WriteString(m.confirmForm.View())
	} else {
		b.WriteString(theme.BorderStyle.Render(m.table.View()))
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorWarning).Italic(true).Render(m.statusMsg))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(height-6, 3))
}
