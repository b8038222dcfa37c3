package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskgenius/internal/model"
	"github.com/nhle/taskgenius/internal/theme"
)

// Mode represents the current screen of the settings view.
type Mode int

const (
	ModeLogin          Mode = iota // Server and account form
	ModeAuthenticating             // Waiting for the login response
	ModeInbox                      // Invitation mailbox form
)

// LoginSubmitMsg asks the parent to log in with the entered credentials.
type LoginSubmitMsg struct {
	BaseURL  string
	Email    string
	Password string
	Remember bool
}

// InboxSubmitMsg carries the edited mailbox settings.
type InboxSubmitMsg struct {
	Inbox    model.InboxConfig
	Password string
}

// DoneMsg signals the parent to close the settings view.
type DoneMsg struct{}

// bindings holds form values on the heap so that huh's Value() pointers
// remain valid across Bubble Tea model copies.
type bindings struct {
	baseURL  string
	email    string
	password string
	remember bool

	imapHost     string
	imapPort     string
	imapUser     string
	imapPassword string
	imapTLS      bool
	imapEnabled  bool
	lookbackDays string
}

// Model is the settings view: logging in and configuring the mailbox
// scanned for invitations.
type Model struct {
	mode      Mode
	loginForm *huh.Form
	inboxForm *huh.Form
	b         *bindings
	spinner   spinner.Model
	errMsg    string

	width, height int
}

// New creates a new settings view model.
func New(width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		mode:    ModeLogin,
		b:       &bindings{remember: true, imapTLS: true},
		spinner: sp,
		width:   width,
		height:  height,
	}
}

// Mode returns the current screen.
func (m Model) Mode() Mode { return m.mode }

// StartLogin shows the login form prefilled from cfg. errMsg, when set,
// is shown above the form.
func (m *Model) StartLogin(cfg *model.AppConfig, errMsg string) tea.Cmd {
	m.mode = ModeLogin
	m.errMsg = errMsg
	m.b.baseURL = cfg.Server.BaseURL
	m.b.email = cfg.Account.Email
	m.b.password = ""
	m.loginForm = m.buildLoginForm()
	return m.loginForm.Init()
}

// StartInbox shows the mailbox form prefilled from cfg.
func (m *Model) StartInbox(cfg *model.AppConfig) tea.Cmd {
	m.mode = ModeInbox
	m.errMsg = ""
	m.b.imapEnabled = cfg.Inbox.Enabled
	m.b.imapHost = cfg.Inbox.Host
	m.b.imapPort = cfg.Inbox.Port
	m.b.imapUser = cfg.Inbox.Username
	m.b.imapPassword = ""
	m.b.imapTLS = cfg.Inbox.TLS
	m.b.lookbackDays = strconv.Itoa(cfg.Inbox.LookbackDays)
	m.inboxForm = m.buildInboxForm()
	return m.inboxForm.Init()
}

// LoginFailed returns to the login form showing err.
func (m *Model) LoginFailed(errMsg string) tea.Cmd {
	m.mode = ModeLogin
	m.errMsg = errMsg
	m.b.password = ""
	m.loginForm = m.buildLoginForm()
	return m.loginForm.Init()
}

// Update handles messages and dispatches based on current mode.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.mode == ModeAuthenticating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch m.mode {
	case ModeLogin:
		return m.updateLoginForm(msg)
	case ModeInbox:
		return m.updateInboxForm(msg)
	}
	return m, nil
}

func (m *Model) buildLoginForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Server").
				Description("TaskGenius server URL").
				Placeholder("http://localhost:5000").
				Value(&m.b.baseURL).
				Validate(validateURL),
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&m.b.email).
				Validate(validateRequired("Email")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.b.password).
				Validate(validateRequired("Password")),
			huh.NewConfirm().
				Title("Remember password").
				Description("Store the password in the system keyring").
				Affirmative("Yes").
				Negative("No").
				Value(&m.b.remember),
		),
	).WithWidth(m.formWidth())
}

func (m *Model) buildInboxForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Scan mailbox for invitations").
				Affirmative("Yes").
				Negative("No").
				Value(&m.b.imapEnabled),
			huh.NewInput().
				Title("IMAP Host").
				Placeholder("imap.example.com").
				Value(&m.b.imapHost),
			huh.NewInput().
				Title("IMAP Port").
				Placeholder("993").
				Value(&m.b.imapPort).
				Validate(validatePort),
			huh.NewInput().
				Title("Username").
				Placeholder("user@example.com").
				Value(&m.b.imapUser),
			huh.NewInput().
				Title("Password").
				Description("Leave blank to keep the stored password").
				EchoMode(huh.EchoModePassword).
				Value(&m.b.imapPassword),
			huh.NewConfirm().
				Title("Use TLS").
				Affirmative("Yes").
				Negative("No").
				Value(&m.b.imapTLS),
			huh.NewInput().
				Title("Look back (days)").
				Placeholder("30").
				Value(&m.b.lookbackDays).
				Validate(validatePositiveInt),
		),
	).WithWidth(m.formWidth())
}

func (m Model) updateLoginForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.loginForm == nil {
		return m, nil
	}

	mdl, cmd := m.loginForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.loginForm = f
	}

	switch m.loginForm.State {
	case huh.StateCompleted:
		m.mode = ModeAuthenticating
		m.errMsg = ""
		submit := LoginSubmitMsg{
			BaseURL:  strings.TrimRight(strings.TrimSpace(m.b.baseURL), "/"),
			Email:    strings.TrimSpace(m.b.email),
			Password: m.b.password,
			Remember: m.b.remember,
		}
		return m, tea.Batch(
			m.spinner.Tick,
			func() tea.Msg { return submit },
		)
	case huh.StateAborted:
		return m, func() tea.Msg { return DoneMsg{} }
	}

	return m, cmd
}

func (m Model) updateInboxForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.inboxForm == nil {
		return m, nil
	}

	mdl, cmd := m.inboxForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.inboxForm = f
	}

	switch m.inboxForm.State {
	case huh.StateCompleted:
		days, _ := strconv.Atoi(strings.TrimSpace(m.b.lookbackDays))
		submit := InboxSubmitMsg{
			Inbox: model.InboxConfig{
				Enabled:      m.b.imapEnabled,
				Host:         strings.TrimSpace(m.b.imapHost),
				Port:         strings.TrimSpace(m.b.imapPort),
				Username:     strings.TrimSpace(m.b.imapUser),
				TLS:          m.b.imapTLS,
				LookbackDays: days,
			},
			Password: m.b.imapPassword,
		}
		return m, func() tea.Msg { return submit }
	case huh.StateAborted:
		return m, func() tea.Msg { return DoneMsg{} }
	}

	return m, cmd
}

// View renders the settings view.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorText).MarginBottom(1)
	errStyle := lipgloss.NewStyle().Foreground(theme.ColorDanger)

	var b strings.Builder
	switch m.mode {
	case ModeAuthenticating:
		b.WriteString(titleStyle.Render("Sign in"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("%s Signing in as %s...", m.spinner.View(), m.b.email))

	case ModeInbox:
		b.WriteString(titleStyle.Render("Invitation mailbox"))
		b.WriteString("\n\n")
		if m.inboxForm != nil {
			b.WriteString(m.inboxForm.View())
		}

	default:
		b.WriteString(titleStyle.Render("Sign in to TaskGenius"))
		b.WriteString("\n\n")
		if m.errMsg != "" {
			b.WriteString(errStyle.Render(m.errMsg))
			b.WriteString("\n\n")
		}
		if m.loginForm != nil {
			b.WriteString(m.loginForm.View())
		}
	}

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("server URL is required")
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("enter a full URL such as http://localhost:5000")
	}
	return nil
}

func validatePort(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	port, err := strconv.Atoi(s)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("port must be a number between 1 and 65535")
	}
	return nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a positive number of days")
	}
	return nil
}
