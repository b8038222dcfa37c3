package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskgenius/internal/keys"
	"github.com/nhle/taskgenius/internal/quickadd"
	"github.com/nhle/taskgenius/internal/theme"
	"github.com/nhle/taskgenius/internal/ui/command"
)

// Model is the help overlay: key bindings by area, the phrases quick add
// understands and the palette commands.
type Model struct {
	keys     *keys.KeyMap
	help     help.Model
	viewport viewport.Model
	width    int
	height   int
}

// New creates a new help view model.
func New(k *keys.KeyMap, width, height int) Model {
	m := Model{
		keys:     k,
		help:     help.New(),
		viewport: viewport.New(width-4, height-4),
		width:    width,
		height:   height,
	}
	m.help.ShowAll = true
	m.viewport.SetContent(m.renderContent())
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update scrolls the overlay with the viewport's keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the help overlay.
func (m Model) View() string {
	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(m.viewport.View())
}

func (m Model) renderContent() string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorText)
	section := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorAccent).MarginTop(1)

	var b strings.Builder
	b.WriteString(heading.Render("Keyboard Shortcuts"))
	b.WriteString("\n")

	for _, g := range m.keys.Groups() {
		b.WriteString(section.Render(g.Title))
		b.WriteString("\n")
		b.WriteString(m.help.FullHelpView([][]key.Binding{g.Bindings}))
		b.WriteString("\n")
	}

	due, priority := quickadd.Phrases()
	b.WriteString(section.Render("Quick add"))
	b.WriteString("\n")
	b.WriteString(theme.DimmedStyle.Render(`e.g. "Inspect fence due tomorrow high priority"`))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  due:      %s\n", strings.Join(due, ", ")))
	b.WriteString(fmt.Sprintf("  priority: %s\n", strings.Join(priority, ", ")))

	b.WriteString(section.Render("Commands"))
	b.WriteString("\n")
	for _, c := range command.Specs {
		b.WriteString(fmt.Sprintf("  :%-20s %s\n", c.Usage(), theme.DimmedStyle.Render(c.Help)))
	}
	return b.String()
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 8
	m.viewport.Width = width - 4
	m.viewport.Height = height - 4
	m.viewport.SetContent(m.renderContent())
}
