package taskform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskgenius/internal/form"
	"github.com/nhle/taskgenius/internal/model"
	"github.com/nhle/taskgenius/internal/theme"
)

// SubmitMsg is dispatched when the user confirms the form. The values are
// already in the controller's Fields.
type SubmitMsg struct{}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// bindings holds values that are not part of form.Fields on the heap so
// that huh's Value() pointers remain valid across Bubble Tea model copies.
type bindings struct {
	confirmed bool
}

// Model renders the task input area. Field values are bound directly to
// the controller's Fields so the controller stays the single owner of
// form state.
type Model struct {
	form    *huh.Form
	fields  *form.Fields
	b       *bindings
	mode    form.Mode
	label   string
	members []model.Member
	width   int
	height  int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		b:      &bindings{},
		width:  width,
		height: height,
	}
}

// SetMembers sets the assignee options.
func (m *Model) SetMembers(members []model.Member) {
	m.members = members
}

// Start builds a form bound to c's current state.
func (m *Model) Start(c *form.Controller) tea.Cmd {
	m.fields = c.Fields()
	m.mode = c.Mode()
	m.label = c.SubmitLabel()
	m.b.confirmed = true
	m.form = m.buildForm()
	return m.form.Init()
}

// Active reports whether a form has been started.
func (m Model) Active() bool { return m.form != nil }

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		if m.b.confirmed {
			return m, func() tea.Msg { return SubmitMsg{} }
		}
		return m, func() tea.Msg { return CancelMsg{} }
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Task"
	if m.mode == form.ModeEdit {
		titleText = "Edit Task"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorText).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth()).WithHeight(m.formHeight())
	}
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("What needs to be done?").
				Value(&m.fields.Title).
				Validate(validateRequired("Title")),
			huh.NewText().
				Title("Description").
				Placeholder("Optional details...").
				Value(&m.fields.Description),
			huh.NewSelect[model.Priority]().
				Title("Priority").
				Options(priorityOptions()...).
				Value(&m.fields.Priority),
			huh.NewInput().
				Title("Due Date").
				Placeholder("YYYY-MM-DD (optional)").
				Value(&m.fields.DueDate).
				Validate(validateOptionalDate),
			huh.NewSelect[string]().
				Title("Assignee").
				Options(m.assigneeOptions()...).
				Value(&m.fields.AssigneeID),
			huh.NewConfirm().
				Affirmative(m.label).
				Negative("Cancel").
				Value(&m.b.confirmed),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func priorityOptions() []huh.Option[model.Priority] {
	opts := make([]huh.Option[model.Priority], len(model.Priorities))
	for i, p := range model.Priorities {
		opts[i] = huh.NewOption(string(p), p)
	}
	return opts
}

// assigneeOptions lists the project members. A current assignee that is
// not a known member is kept as its own option so editing never drops it.
func (m *Model) assigneeOptions() []huh.Option[string] {
	unassigned := "Unassigned"
	if m.mode == form.ModeCreate {
		unassigned = "Me"
	}
	opts := []huh.Option[string]{huh.NewOption(unassigned, "")}

	current := m.fields.AssigneeID
	found := current == ""
	for _, mem := range m.members {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s)", mem.Name, mem.Role), mem.ID))
		if mem.ID == current {
			found = true
		}
	}
	if !found {
		opts = append(opts, huh.NewOption(current, current))
	}
	return opts
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(model.DateLayout, s); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
