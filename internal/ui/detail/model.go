package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskgenius/internal/board"
	"github.com/nhle/taskgenius/internal/keys"
	"github.com/nhle/taskgenius/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// CommentMsg asks the parent to post a comment on a task.
type CommentMsg struct {
	TaskID int64
	Text   string
}

// Model is the task detail view component.
type Model struct {
	detail     board.Detail
	hasDetail  bool
	viewport   viewport.Model
	input      textinput.Model
	commenting bool
	keys       *keys.KeyMap
	width      int
	height     int
	loading    bool
}

// New creates a new detail view model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	ti := textinput.New()
	ti.Placeholder = "write a comment..."
	ti.Prompt = "> "
	ti.CharLimit = 1000
	ti.Width = width - 4

	return Model{
		viewport: vp,
		input:    ti,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetDetail shows d. The scroll position is kept when the same task is
// re-rendered after a refresh.
func (m *Model) SetDetail(d board.Detail) {
	sameTask := m.hasDetail && m.detail.Task.ID == d.Task.ID
	m.detail = d
	m.hasDetail = true
	m.loading = false
	m.viewport.SetContent(m.renderContent())
	if !sameTask {
		m.viewport.GotoTop()
	}
}

// Clear empties the view and abandons any comment being typed.
func (m *Model) Clear() {
	m.detail = board.Detail{}
	m.hasDetail = false
	m.loading = false
	m.stopCommenting()
	m.viewport.SetContent("")
}

// SetLoading sets the loading state.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// Commenting reports whether the comment input has focus.
func (m Model) Commenting() bool { return m.commenting }

// TaskID returns the id of the displayed task.
func (m Model) TaskID() (int64, bool) {
	return m.detail.Task.ID, m.hasDetail
}

func (m *Model) stopCommenting() {
	m.commenting = false
	m.input.Blur()
	m.input.Reset()
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.commenting {
			return m.handleCommentKeys(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.Comment):
			if m.hasDetail {
				m.commenting = true
				return m, m.input.Focus()
			}
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleCommentKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.stopCommenting()
		return m, nil

	case "enter":
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		taskID := m.detail.Task.ID
		m.stopCommenting()
		return m, func() tea.Msg {
			return CommentMsg{TaskID: taskID, Text: text}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	placeholder := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorMuted)

	if m.loading {
		return placeholder.Render("Loading task details...")
	}
	if !m.hasDetail {
		return placeholder.Render("No task selected")
	}

	if m.commenting {
		return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), m.input.View())
	}
	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if !m.hasDetail {
		return ""
	}

	task := m.detail.Task
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorText)
	sections = append(sections, titleStyle.Render(task.Title))

	// Badges line: status + priority + overdue
	badges := []string{
		theme.StatusStyle(task.Status).Render(task.Status),
		theme.PriorityStyle(task.Priority).Render(string(task.Priority)),
	}
	if m.detail.Overdue {
		badges = append(badges, theme.OverdueStyle.Render("OVERDUE"))
	}
	sections = append(sections, strings.Join(badges, "  "), "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorMuted)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorText)
	meta := func(label, value string) {
		sections = append(sections, fmt.Sprintf("%s %s",
			metaStyle.Render(fmt.Sprintf("%-9s", label+":")),
			valStyle.Render(value)))
	}

	assignee := "Unassigned"
	if task.AssigneeName != nil && *task.AssigneeName != "" {
		assignee = *task.AssigneeName
	}
	meta("Assignee", assignee)
	if due := task.DueDateString(); due != "" {
		meta("Due", due)
	}
	if task.CreatedAt != "" {
		meta("Created", task.CreatedAt)
	}

	separator := lipgloss.NewStyle().
		Foreground(theme.ColorSubtle).
		Render(strings.Repeat("─", max(min(m.width-4, 80), 0)))
	sections = append(sections, "", separator, "")

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorText)
	sections = append(sections, headerStyle.Render("Description"))

	body := task.DescriptionString()
	if body == "" {
		body = lipgloss.NewStyle().
			Foreground(theme.ColorMuted).
			Italic(true).
			Render("No description")
	}
	sections = append(sections, body, "", separator, "")

	sections = append(sections, headerStyle.Render(
		fmt.Sprintf("Comments (%d)", len(m.detail.Comments)),
	), "")

	authorStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorAccent)
	timeStyle := lipgloss.NewStyle().Foreground(theme.ColorMuted)

	for _, c := range m.detail.Comments {
		header := fmt.Sprintf("%s  %s",
			authorStyle.Render(c.Author()),
			timeStyle.Render(c.CreatedAt))
		text := c.Text
		if c.IsAlert {
			text = theme.AlertCommentStyle.Render("! " + text)
		}
		sections = append(sections, header, text, "")
	}

	if len(m.detail.Comments) == 0 {
		sections = append(sections, metaStyle.Italic(true).Render("No comments yet. Press c to add one."))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.input.Width = width - 4
	if m.hasDetail {
		m.viewport.SetContent(m.renderContent())
	}
}
