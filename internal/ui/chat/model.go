// Package chat is the team chat panel for a conversation.
package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskgenius/internal/keys"
	"github.com/nhle/taskgenius/internal/model"
	"github.com/nhle/taskgenius/internal/theme"
)

// SendMsg asks the parent to post a message.
type SendMsg struct {
	ConversationID string
	Text           string
}

// CloseMsg signals the parent to close the panel.
type CloseMsg struct{}

// Model shows a conversation and an input line.
type Model struct {
	conversationID string
	title          string
	selfID         string
	messages       []model.Message
	viewport       viewport.Model
	input          textinput.Model
	keys           *keys.KeyMap
	width          int
	height         int
}

// New creates the chat panel.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-3)

	ti := textinput.New()
	ti.Placeholder = "message the team..."
	ti.Prompt = "> "
	ti.CharLimit = 2000
	ti.Width = width - 4

	return Model{viewport: vp, input: ti, keys: k, width: width, height: height}
}

// Open switches to a conversation. selfID marks the user's own messages.
func (m *Model) Open(conversationID, title, selfID string) tea.Cmd {
	if conversationID != m.conversationID {
		m.messages = nil
		m.viewport.SetContent("")
	}
	m.conversationID = conversationID
	m.title = title
	m.selfID = selfID
	return m.input.Focus()
}

// ConversationID returns the open conversation.
func (m Model) ConversationID() string { return m.conversationID }

// SetMessages replaces the transcript. Messages for another conversation
// are ignored.
func (m *Model) SetMessages(conversationID string, msgs []model.Message) {
	if conversationID != m.conversationID {
		return
	}
	m.messages = msgs
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

// Messages returns the transcript.
func (m Model) Messages() []model.Message { return m.messages }

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, m.keys.Back):
			m.input.Blur()
			return m, func() tea.Msg { return CloseMsg{} }

		case km.String() == "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.conversationID == "" {
				return m, nil
			}
			m.input.Reset()
			send := SendMsg{ConversationID: m.conversationID, Text: text}
			return m, func() tea.Msg { return send }

		case km.String() == "pgup", km.String() == "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) renderMessages() string {
	if len(m.messages) == 0 {
		return lipgloss.NewStyle().Foreground(theme.ColorMuted).Italic(true).Render("No messages yet.")
	}

	nameStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorAccent)
	selfStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorSuccess)
	timeStyle := lipgloss.NewStyle().Foreground(theme.ColorMuted)

	var lines []string
	for _, msg := range m.messages {
		style := nameStyle
		if msg.UserID == m.selfID {
			style = selfStyle
		}
		lines = append(lines, fmt.Sprintf("%s %s", style.Render(msg.UserName), timeStyle.Render(msg.CreatedAt)))
		lines = append(lines, msg.Text, "")
	}
	return strings.Join(lines, "\n")
}

// View renders the panel.
func (m Model) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorText).Render("Chat · " + m.title)
	return lipgloss.JoinVertical(lipgloss.Left, title, m.viewport.View(), m.input.View())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 3
	m.input.Width = width - 4
	if m.conversationID != "" {
		m.viewport.SetContent(m.renderMessages())
	}
}
