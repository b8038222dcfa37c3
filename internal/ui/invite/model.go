// Package invite is the invitation panel: owners invite people to the
// active project and everyone can see invitations found in their mailbox.
package invite

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskgenius/internal/keys"
	"github.com/nhle/taskgenius/internal/model"
	"github.com/nhle/taskgenius/internal/store"
	"github.com/nhle/taskgenius/internal/theme"
)

// SubmitMsg asks the parent to create an invitation.
type SubmitMsg struct {
	Email string
	Role  string
}

// ScanMsg asks the parent to scan the mailbox for invitations.
type ScanMsg struct{}

// CloseMsg signals the parent to close the panel.
type CloseMsg struct{}

// LoadedMsg carries the recorded invitations.
type LoadedMsg struct {
	Invitations []model.Invitation
	Err         error
}

type mode int

const (
	modeList mode = iota
	modeForm
)

type bindings struct {
	email string
	role  string
}

// Model is the invitation panel.
type Model struct {
	mode        mode
	store       store.Store
	keys        *keys.KeyMap
	form        *huh.Form
	b           *bindings
	canInvite   bool
	invitations []model.Invitation
	lastLink    string
	statusMsg   string
	width       int
	height      int
}

// New creates the panel. canInvite is true for project owners.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	return Model{
		store:  s,
		keys:   k,
		b:      &bindings{role: model.RoleWorker},
		width:  width,
		height: height,
	}
}

// SetCanInvite enables the invitation form.
func (m *Model) SetCanInvite(ok bool) { m.canInvite = ok }

// Init reloads the recorded invitations.
func (m Model) Init() tea.Cmd {
	return Load(m.store)
}

// Load returns a command that reads recorded invitations from s.
func Load(s store.Store) tea.Cmd {
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		invs, err := s.GetInvitations(context.Background())
		return LoadedMsg{Invitations: invs, Err: err}
	}
}

// Created records the link of a newly created invitation.
func (m *Model) Created(inv model.Invitation) {
	m.mode = modeList
	m.lastLink = inv.InviteLink
	m.statusMsg = fmt.Sprintf("Invited %s as %s", inv.Email, inv.Role)
}

// SetStatus shows a transient line under the list.
func (m *Model) SetStatus(s string) {
	m.statusMsg = s
}

// Invitations returns the listed invitations.
func (m Model) Invitations() []model.Invitation { return m.invitations }

// Editing reports whether the invitation form is open.
func (m Model) Editing() bool { return m.mode == modeForm }

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.Err != nil {
			m.statusMsg = fmt.Sprintf("Error loading invitations: %v", msg.Err)
			return m, nil
		}
		m.invitations = msg.Invitations
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeForm {
			return m.updateForm(msg)
		}
		return m.handleListKey(msg)
	}

	if m.mode == modeForm {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.New):
		if !m.canInvite {
			m.statusMsg = "Only the project owner can send invitations"
			return m, nil
		}
		m.b.email = ""
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case msg.String() == "s":
		m.statusMsg = "Scanning mailbox..."
		return m, func() tea.Msg { return ScanMsg{} }
	}
	return m, nil
}

func (m *Model) buildForm() *huh.Form {
	roles := make([]huh.Option[string], len(model.InvitableRoles))
	for i, r := range model.InvitableRoles {
		roles[i] = huh.NewOption(r, r)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("worker@example.com").
				Value(&m.b.email).
				Validate(validateEmail),
			huh.NewSelect[string]().
				Title("Role").
				Options(roles...).
				Value(&m.b.role),
		),
	).WithWidth(min(max(m.width-4, 40), 80))
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		m.mode = modeList
		return m, nil
	}
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, m.keys.Back) {
		m.mode = modeList
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.mode = modeList
		submit := SubmitMsg{Email: strings.TrimSpace(m.b.email), Role: m.b.role}
		m.statusMsg = "Sending invitation..."
		return m, func() tea.Msg { return submit }
	case huh.StateAborted:
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

// View renders the panel.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorText).MarginBottom(1)
	grayStyle := lipgloss.NewStyle().Foreground(theme.ColorMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Invitations"))
	b.WriteString("\n\n")

	if m.mode == modeForm && m.form != nil {
		b.WriteString(m.form.View())
		return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	}

	if m.lastLink != "" {
		b.WriteString("Invitation link: ")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorAccent).Underline(true).Render(m.lastLink))
		b.WriteString("\n\n")
	}

	if len(m.invitations) == 0 {
		b.WriteString(grayStyle.Italic(true).Render("No invitations recorded."))
		b.WriteString("\n")
	}
	for _, inv := range m.invitations {
		direction := "→"
		if inv.Source == model.InvitationReceived {
			direction = "←"
		}
		line := fmt.Sprintf("%s %s %s", direction, inv.Email, theme.RoleStyle(inv.Role).Render(inv.Role))
		if inv.Source == model.InvitationReceived && inv.InviteLink != "" {
			line += grayStyle.Render("  " + inv.InviteLink)
		}
		b.WriteString(theme.ListItemStyle.Render(line))
		b.WriteString("\n")
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorWarning).Italic(true).Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	hints := "s scan mailbox | esc back"
	if m.canInvite {
		hints = "n invite | " + hints
	}
	b.WriteString(grayStyle.Render(hints))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 || strings.ContainsAny(s, " \t") {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}
