package command

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskgenius/internal/theme"
)

// maxHistory bounds the recalled command lines.
const maxHistory = 20

// CommandMsg is emitted when the user executes a command. Name is always
// the canonical name, never an alias.
type CommandMsg struct {
	Name string
	Args []string
}

// CancelMsg is emitted when the palette is dismissed.
type CancelMsg struct{}

// Spec describes a palette command.
type Spec struct {
	Name    string
	Aliases []string
	Args    string
	Help    string
}

// Usage renders the command with its arguments, e.g. "chat [room]".
func (s Spec) Usage() string {
	if s.Args == "" {
		return s.Name
	}
	return s.Name + " " + s.Args
}

// Specs are the commands the palette accepts.
var Specs = []Spec{
	{Name: "refresh", Aliases: []string{"sync"}, Help: "re-fetch the active project"},
	{Name: "projects", Aliases: []string{"project"}, Args: "[id]", Help: "pick or switch project"},
	{Name: "new", Help: "open a blank task form"},
	{Name: "quick", Aliases: []string{"add"}, Args: "[text]", Help: "parse a phrase into a task"},
	{Name: "invite", Help: "invitations for the active project"},
	{Name: "inbox", Help: "scan the mailbox for invitations"},
	{Name: "mailbox", Help: "configure the invitation mailbox"},
	{Name: "chat", Args: "[room]", Help: "open team chat"},
	{Name: "users", Help: "list users"},
	{Name: "delete-user", Args: "[id]", Help: "delete a user (owner)"},
	{Name: "login", Help: "sign in"},
	{Name: "logout", Help: "sign out and forget the password"},
	{Name: "help", Help: "show key bindings"},
	{Name: "quit", Aliases: []string{"q"}, Help: "exit"},
}

// Commands are the canonical names offered as completions.
var Commands = names()

func names() []string {
	out := make([]string, len(Specs))
	for i, s := range Specs {
		out[i] = s.Name
	}
	return out
}

// Lookup finds the command for a name or alias.
func Lookup(name string) (Spec, bool) {
	name = strings.ToLower(name)
	for _, s := range Specs {
		if s.Name == name {
			return s, true
		}
		for _, a := range s.Aliases {
			if a == name {
				return s, true
			}
		}
	}
	return Spec{}, false
}

// Parse splits a command line into its name and arguments. The name is
// lower-cased and aliases resolve to the canonical name; unknown names are
// passed through. An empty line yields ok false.
func Parse(line string) (CommandMsg, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return CommandMsg{}, false
	}
	name := strings.ToLower(fields[0])
	if s, ok := Lookup(name); ok {
		name = s.Name
	}
	return CommandMsg{Name: name, Args: fields[1:]}, true
}

// Model is the command palette view.
type Model struct {
	input   textinput.Model
	history []string
	recall  int
	width   int
	height  int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.Width = width - 6
	ti.ShowSuggestions = true
	ti.SetSuggestions(Commands)

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette. Up and down walk the
// history of executed lines.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			m.input.Reset()
			return m, func() tea.Msg { return CancelMsg{} }
		case "enter":
			line := m.input.Value()
			cmd, ok := Parse(line)
			m.input.Reset()
			if !ok {
				return m, func() tea.Msg { return CancelMsg{} }
			}
			m.remember(strings.TrimSpace(line))
			return m, func() tea.Msg { return cmd }
		case "up":
			if m.recall > 0 {
				m.recall--
				m.input.SetValue(m.history[m.recall])
				m.input.CursorEnd()
			}
			return m, nil
		case "down":
			if m.recall < len(m.history)-1 {
				m.recall++
				m.input.SetValue(m.history[m.recall])
				m.input.CursorEnd()
			} else {
				m.recall = len(m.history)
				m.input.Reset()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) remember(line string) {
	if n := len(m.history); n == 0 || m.history[n-1] != line {
		m.history = append(m.history, line)
	}
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
	m.recall = len(m.history)
}

// View renders the command palette with the usage of the command being
// typed, or the full command list when nothing matches yet.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorText).
		MarginBottom(1)

	title := titleStyle.Render("Command Palette")
	content := lipgloss.JoinVertical(lipgloss.Left, title, m.input.View(), "", m.usage())

	return theme.DetailPanelStyle.
		Width(max(m.width-4, 0)).
		Render(content)
}

func (m Model) usage() string {
	fields := strings.Fields(m.input.Value())
	if len(fields) > 0 {
		if s, ok := Lookup(fields[0]); ok {
			return theme.HelpStyle.Render(fmt.Sprintf("%s  %s", s.Usage(), s.Help))
		}
	}
	return theme.HelpStyle.Render("tab completes | " + strings.Join(Commands, " "))
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	m.input.Reset()
	m.recall = len(m.history)
	return m.input.Focus()
}
