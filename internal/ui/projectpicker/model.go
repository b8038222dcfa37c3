package projectpicker

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskgenius/internal/keys"
	"github.com/nhle/taskgenius/internal/model"
	"github.com/nhle/taskgenius/internal/store"
	"github.com/nhle/taskgenius/internal/theme"
)

// CloseMsg signals the parent to close the picker.
type CloseMsg struct{}

// SelectedMsg signals that the user picked a project.
type SelectedMsg struct {
	Project model.Project
}

type cachedProjectsMsg struct {
	projects []model.Project
}

// Model lists the projects visible to the user.
type Model struct {
	store       store.Store
	keys        *keys.KeyMap
	projects    []model.Project
	activeID    string
	selectedIdx int
	fromCache   bool
	width       int
	height      int
}

// New creates a new project picker. s may be nil, in which case no
// cached projects are shown before the first fetch.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	return Model{
		store:  s,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init loads the cached project list so the picker is usable before the
// API answers.
func (m Model) Init() tea.Cmd {
	if m.store == nil || len(m.projects) > 0 {
		return nil
	}
	s := m.store
	return func() tea.Msg {
		projects, err := s.GetProjects(context.Background())
		if err != nil {
			return cachedProjectsMsg{}
		}
		return cachedProjectsMsg{projects: projects}
	}
}

// SetProjects replaces the list with freshly fetched projects.
func (m *Model) SetProjects(projects []model.Project) {
	m.projects = projects
	m.fromCache = false
	m.clampSelection()
}

// SetActive marks the project currently shown on the board and moves the
// cursor onto it.
func (m *Model) SetActive(id string) {
	m.activeID = id
	for i, p := range m.projects {
		if p.ID == id {
			m.selectedIdx = i
			return
		}
	}
}

// Projects returns the listed projects.
func (m Model) Projects() []model.Project { return m.projects }

func (m *Model) clampSelection() {
	if m.selectedIdx >= len(m.projects) {
		m.selectedIdx = max(len(m.projects)-1, 0)
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case cachedProjectsMsg:
		if len(m.projects) == 0 && len(msg.projects) > 0 {
			m.projects = msg.projects
			m.fromCache = true
			m.SetActive(m.activeID)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.projects) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.projects)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.projects) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.projects) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if len(m.projects) == 0 {
			return m, nil
		}
		p := m.projects[m.selectedIdx]
		return m, func() tea.Msg { return SelectedMsg{Project: p} }
	}
	return m, nil
}

// View renders the picker.
func (m Model) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorText).MarginBottom(1)
	b.WriteString(titleStyle.Render("Projects"))
	b.WriteString("\n\n")

	if len(m.projects) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorMuted).Italic(true)
		b.WriteString(emptyStyle.Render("No projects available. Ask a project owner for an invitation."))
	} else {
		descStyle := lipgloss.NewStyle().Foreground(theme.ColorMuted)
		for i, p := range m.projects {
			marker := "  "
			if p.ID == m.activeID {
				marker = "● "
			}
			label := marker + p.Name
			if p.Description != nil && *p.Description != "" {
				label += descStyle.Render(fmt.Sprintf("  %s", *p.Description))
			}

			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(label))
			} else {
				b.WriteString(theme.ListItemStyle.Render(label))
			}
			b.WriteString("\n")
		}
	}

	if m.fromCache {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorWarning).Italic(true).Render("Showing cached projects"))
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorMuted).Render(
		"j/k move | enter select | esc back",
	))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
