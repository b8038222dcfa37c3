package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskgenius/internal/board"
	"github.com/nhle/taskgenius/internal/form"
	"github.com/nhle/taskgenius/internal/gateway"
	"github.com/nhle/taskgenius/internal/invite"
	"github.com/nhle/taskgenius/internal/keys"
	"github.com/nhle/taskgenius/internal/model"
	"github.com/nhle/taskgenius/internal/store"
	appsync "github.com/nhle/taskgenius/internal/sync"
	"github.com/nhle/taskgenius/internal/ui"
	"github.com/nhle/taskgenius/internal/ui/chat"
	"github.com/nhle/taskgenius/internal/ui/command"
	configview "github.com/nhle/taskgenius/internal/ui/config"
	"github.com/nhle/taskgenius/internal/ui/detail"
	helpview "github.com/nhle/taskgenius/internal/ui/help"
	inviteview "github.com/nhle/taskgenius/internal/ui/invite"
	"github.com/nhle/taskgenius/internal/ui/projectpicker"
	"github.com/nhle/taskgenius/internal/ui/quickentry"
	"github.com/nhle/taskgenius/internal/ui/taskform"
	"github.com/nhle/taskgenius/internal/ui/tasklist"
	"github.com/nhle/taskgenius/internal/ui/users"
)

// noticeTTL is how long a notice replaces the key hints.
const noticeTTL = 8 * time.Second

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewDetail
	ViewForm
	ViewQuickAdd
	ViewConfirm
	ViewProjects
	ViewInvite
	ViewChat
	ViewUsers
	ViewSettings
	ViewHelp
	ViewCommand
)

// API is the part of the TaskGenius API the application calls.
// *gateway.Client implements it.
type API interface {
	board.TaskSource
	form.TaskWriter

	Login(ctx context.Context, email, password string) (model.User, error)
	Logout(ctx context.Context) error
	ListUsers(ctx context.Context) ([]model.User, error)
	DeleteUser(ctx context.Context, userID string) (string, error)
	ListProjects(ctx context.Context) ([]model.Project, error)
	SelectProject(ctx context.Context, projectID string) (model.Project, error)
	ListMembers(ctx context.Context, projectID string) ([]model.Member, error)
	CreateInvitation(ctx context.Context, projectID, email, role string) (model.Invitation, error)
	SetCompleted(ctx context.Context, id int64, done bool) error
	DeleteTask(ctx context.Context, id int64) error
	ListComments(ctx context.Context, taskID int64) ([]model.Comment, error)
	AddComment(ctx context.Context, taskID int64, text string) (int64, error)
	ListMessages(ctx context.Context, conversationID string) ([]model.Message, error)
	PostMessage(ctx context.Context, conversationID, text string) (model.Message, error)
}

// Credentials stores secrets. *credential.Store implements it.
type Credentials interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// InboxScanner finds invitation e-mails. *invite.Inbox implements it.
type InboxScanner interface {
	Scan(ctx context.Context) ([]invite.Found, error)
	Username() string
}

// Deps are the collaborators of the application. Config and API are
// required; everything else may be left nil.
type Deps struct {
	Config     *model.AppConfig
	ConfigPath string

	API API
	// Dial connects to another server when the login form changes the URL.
	Dial func(baseURL string) (API, error)

	Store       store.Store
	Credentials Credentials
	Inbox       InboxScanner
	// OpenInbox builds a scanner from mailbox settings.
	OpenInbox func(cfg model.InboxConfig, password string) InboxScanner

	Refresher *appsync.Refresher
	Logger    *slog.Logger
	Now       func() time.Time
}

// session is the signed-in state. The board reads tasks through it, so a
// reconnect to another server is picked up without rebuilding the board.
type session struct {
	api      API
	user     model.User
	signedIn bool
}

func (s *session) ListTasks(ctx context.Context, projectID string) ([]model.Task, error) {
	return s.api.ListTasks(ctx, projectID)
}

type confirmBinding struct {
	ok bool
}

// Model is the root Bubble Tea model that manages view routing, the task
// board and the calls to the API.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap
	ready        bool

	cfg        *model.AppConfig
	configPath string
	sess       *session
	dial       func(baseURL string) (API, error)
	store      store.Store
	creds      Credentials
	inbox      InboxScanner
	openInbox  func(cfg model.InboxConfig, password string) InboxScanner
	refresher  *appsync.Refresher
	logger     *slog.Logger
	now        func() time.Time

	board       *board.Board
	form        *form.Controller
	projectName string
	notice      model.Notice

	confirm       *huh.Form
	confirmB      *confirmBinding
	pendingDelete model.Task
	confirmReturn ViewState

	taskList    tasklist.Model
	detail      detail.Model
	taskForm    taskform.Model
	quickEntry  quickentry.Model
	picker      projectpicker.Model
	invitePanel inviteview.Model
	chat        chat.Model
	users       users.Model
	configView  configview.Model
	helpView    helpview.Model
	commandView command.Model
}

// New creates the root application model.
func New(d Deps) Model {
	k := keys.DefaultKeyMap()

	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}
	openInbox := d.OpenInbox
	if openInbox == nil {
		openInbox = func(cfg model.InboxConfig, password string) InboxScanner {
			return invite.NewInbox(cfg.Host, cfg.Port, cfg.Username, password, cfg.TLS, cfg.LookbackDays, logger)
		}
	}

	sess := &session{api: d.API}
	b := board.New(sess)

	return Model{
		currentView: ViewList,
		keys:        k,
		cfg:         d.Config,
		configPath:  d.ConfigPath,
		sess:        sess,
		dial:        d.Dial,
		store:       d.Store,
		creds:       d.Credentials,
		inbox:       d.Inbox,
		openInbox:   openInbox,
		refresher:   d.Refresher,
		logger:      logger,
		now:         now,
		board:       b,
		form:        form.New(b),
		confirmB:    &confirmBinding{},
		taskList:    tasklist.New(k, 80, 24),
		detail:      detail.New(k, 80, 24),
		taskForm:    taskform.New(80, 24),
		quickEntry:  quickentry.New(80),
		picker:      projectpicker.New(d.Store, k, 80, 24),
		invitePanel: inviteview.New(d.Store, k, 80, 24),
		chat:        chat.New(k, 80, 24),
		users:       users.New(k, 80, 24),
		configView:  configview.New(80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
	}
}

// Init restores the cached board, signs in with the stored password and
// starts the background refresher.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.restoreCache(m.cfg.Workspace.ProjectID),
		m.autoLogin(),
	}
	if m.inbox == nil && m.cfg.Inbox.Enabled {
		cmds = append(cmds, m.configureInbox(m.cfg.Inbox, ""))
	}
	if m.refresher != nil {
		cmds = append(cmds, m.refresher.Start())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.taskList.SetSize(w, h)
		m.detail.SetSize(w, h)
		m.taskForm.SetSize(w, h)
		m.quickEntry.SetSize(w)
		m.picker.SetSize(w, h)
		m.invitePanel.SetSize(w, h)
		m.chat.SetSize(w, h)
		m.users.SetSize(w, h)
		m.configView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	// === Session ===

	case loginRequiredMsg:
		if msg.err != nil {
			m.logger.Warn("reading stored password failed", slog.String("error", msg.err.Error()))
		}
		cmd := m.openSettingsLogin("")
		return m, cmd

	case configview.LoginSubmitMsg:
		if msg.BaseURL != "" && msg.BaseURL != m.cfg.Server.BaseURL && m.dial != nil {
			api, err := m.dial(msg.BaseURL)
			if err != nil {
				cmd := m.configView.LoginFailed(err.Error())
				return m, cmd
			}
			m.sess.api = api
		}
		cmd := m.login(msg.BaseURL, msg.Email, msg.Password, msg.Remember, false)
		return m, cmd

	case loginResultMsg:
		return m.handleLogin(msg)

	case loggedOutMsg:
		m.sess.signedIn = false
		m.sess.user = model.User{}
		m.board.SetProject("")
		m.projectName = ""
		m.detail.Clear()
		m.form.Reset()
		if msg.err != nil {
			m.logger.Warn("logout request failed", slog.String("error", msg.err.Error()))
		}
		m.info("Signed out")
		cmd := tea.Batch(m.syncBoard(), m.openSettingsLogin(""))
		return m, cmd

	case configview.InboxSubmitMsg:
		m.cfg.Inbox = msg.Inbox
		m.currentView = ViewList
		cmd := tea.Batch(m.saveConfig(), m.configureInbox(msg.Inbox, msg.Password))
		return m, cmd

	case inboxConfiguredMsg:
		m.inbox = msg.inbox
		if msg.err != nil {
			m.setError(msg.err)
		}
		return m, nil

	case configview.DoneMsg:
		m.currentView = ViewList
		return m, nil

	case configSavedMsg:
		if msg.err != nil {
			m.setError(msg.err)
		}
		return m, nil

	// === Projects and tasks ===

	case cacheRestoredMsg:
		if m.board.ProjectID() != "" && m.board.ProjectID() != msg.snap.ProjectID {
			return m, nil
		}
		if !m.board.FetchedAt().IsZero() && !m.board.Stale() {
			return m, nil
		}
		m.board.Restore(board.Snapshot{
			ProjectID: msg.snap.ProjectID,
			Tasks:     msg.snap.Tasks,
			FetchedAt: msg.snap.FetchedAt,
		})
		m.setProjectName(msg.snap.ProjectID, msg.projects)
		cmd := m.syncBoard()
		return m, cmd

	case projectsLoadedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.picker.SetProjects(msg.projects)
		m.picker.SetActive(m.board.ProjectID())
		m.setProjectName(m.board.ProjectID(), msg.projects)
		return m, nil

	case projectpicker.SelectedMsg:
		m.currentView = ViewList
		cmd := m.selectProject(msg.Project.ID)
		return m, cmd

	case projectpicker.CloseMsg:
		m.currentView = ViewList
		return m, nil

	case projectSelectedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		if msg.project.ID != m.board.ProjectID() {
			m.detail.Clear()
			if m.currentView == ViewDetail {
				m.currentView = ViewList
			}
		}
		m.board.SetProject(msg.project.ID)
		m.projectName = msg.project.Name
		m.setProjectName(msg.project.ID, m.picker.Projects())
		m.cfg.Workspace.ProjectID = msg.project.ID
		cmd := tea.Batch(
			m.syncBoard(),
			m.saveConfig(),
			m.refresh(appsync.ReasonManual),
			m.fetchMembers(msg.project.ID),
		)
		return m, cmd

	case membersLoadedMsg:
		if msg.err != nil {
			m.logger.Warn("loading members failed",
				slog.String("project", msg.projectID),
				slog.String("error", msg.err.Error()))
			return m, nil
		}
		if msg.projectID == m.board.ProjectID() {
			m.taskForm.SetMembers(msg.members)
		}
		return m, nil

	case appsync.RefreshMsg:
		cmds := []tea.Cmd{m.refresh(msg.Reason)}
		if m.currentView == ViewChat && m.sess.signedIn {
			cmds = append(cmds, m.loadMessages(m.chat.ConversationID()))
		}
		if m.refresher != nil {
			cmds = append(cmds, m.refresher.WaitForNext())
		}
		return m, tea.Batch(cmds...)

	case tasksFetchedMsg:
		if m.refresher != nil {
			m.refresher.Record(msg.err)
		}
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		if !msg.ok {
			return m, nil
		}
		m.board.Replace(msg.snap)
		cmds := []tea.Cmd{m.syncBoard()}
		if id, open := m.board.DetailID(); open && msg.reason != appsync.ReasonInterval {
			cmds = append(cmds, m.loadComments(id))
		}
		return m, tea.Batch(cmds...)

	case mutationDoneMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.info(msg.done)
		cmd := m.refresh(appsync.ReasonMutation)
		return m, cmd

	// === Task list and detail ===

	case tasklist.SelectedTaskMsg:
		if !m.board.OpenDetail(msg.TaskID) {
			return m, nil
		}
		if d, ok := m.board.Detail(m.now()); ok {
			m.detail.SetDetail(d)
		}
		m.previousView = m.currentView
		m.currentView = ViewDetail
		cmd := m.loadComments(msg.TaskID)
		return m, cmd

	case commentsLoadedMsg:
		if msg.err != nil {
			m.setError(msg.err)
		}
		if msg.err == nil || msg.fromCache {
			m.board.SetComments(msg.taskID, msg.comments)
			if d, ok := m.board.Detail(m.now()); ok {
				m.detail.SetDetail(d)
			}
		}
		return m, nil

	case detail.BackMsg:
		m.board.CloseDetail()
		m.detail.Clear()
		m.currentView = ViewList
		return m, nil

	case detail.CommentMsg:
		cmd := m.addComment(msg.TaskID, msg.Text)
		return m, cmd

	case commentAddedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.info("Comment added")
		cmd := m.loadComments(msg.taskID)
		return m, cmd

	// === Task form ===

	case quickentry.ParsedMsg:
		m.form.Prefill(msg.Result)
		cmd := m.openForm()
		return m, cmd

	case quickentry.CancelMsg:
		m.currentView = ViewList
		return m, nil

	case taskform.SubmitMsg:
		return m.submitForm()

	case taskform.CancelMsg:
		m.form.Reset()
		m.currentView = ViewList
		return m, nil

	case submitDoneMsg:
		if msg.err != nil {
			m.setError(msg.err)
			if m.currentView == ViewList && m.form.Visible() && m.form.Holds(msg.sub) {
				m.currentView = ViewForm
				cmd := m.taskForm.Start(m.form)
				return m, cmd
			}
			return m, nil
		}
		if m.form.Submitted(msg.sub) && m.currentView == ViewForm {
			m.currentView = ViewList
		}
		if msg.sub.Mode == form.ModeEdit {
			m.info("Task updated")
		} else {
			m.info("Task added")
		}
		cmd := m.refresh(appsync.ReasonMutation)
		return m, cmd

	// === Invitations ===

	case inviteview.LoadedMsg:
		var cmd tea.Cmd
		m.invitePanel, cmd = m.invitePanel.Update(msg)
		return m, cmd

	case inviteview.SubmitMsg:
		cmd := m.createInvitation(m.board.ProjectID(), msg.Email, msg.Role)
		return m, cmd

	case invitationCreatedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			m.invitePanel.SetStatus(m.notice.Message)
			return m, nil
		}
		m.invitePanel.Created(msg.inv)
		cmd := inviteview.Load(m.store)
		return m, cmd

	case inviteview.ScanMsg:
		if m.inbox == nil {
			m.invitePanel.SetStatus("No mailbox configured. Run :mailbox to set one up.")
			return m, nil
		}
		cmd := m.scanInbox()
		return m, cmd

	case inboxScannedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			m.invitePanel.SetStatus(m.notice.Message)
			if msg.found == 0 {
				return m, nil
			}
		} else {
			m.invitePanel.SetStatus(fmt.Sprintf("Found %d invitation(s), %d new", msg.found, msg.added))
		}
		cmd := inviteview.Load(m.store)
		return m, cmd

	case inviteview.CloseMsg:
		m.currentView = ViewList
		return m, nil

	// === Chat ===

	case chat.SendMsg:
		cmd := m.postMessage(msg.ConversationID, msg.Text)
		return m, cmd

	case messagesLoadedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.chat.SetMessages(msg.conversationID, msg.messages)
		return m, nil

	case messagePostedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		cmd := m.loadMessages(msg.conversationID)
		return m, cmd

	case chat.CloseMsg:
		m.currentView = ViewList
		return m, nil

	// === Users ===

	case usersLoadedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			m.users.SetStatus(m.notice.Message)
			return m, nil
		}
		m.users.SetUsers(msg.users, m.sess.user.IsOwner())
		return m, nil

	case users.DeleteMsg:
		cmd := m.deleteUser(msg.UserID, msg.Name)
		return m, cmd

	case userDeletedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			m.users.SetStatus(m.notice.Message)
			return m, nil
		}
		status := msg.message
		if status == "" {
			status = fmt.Sprintf("Deleted %s", msg.name)
		}
		m.users.SetStatus(status)
		m.info(status)
		cmd := m.listUsers()
		return m, cmd

	case users.CloseMsg:
		m.currentView = ViewList
		return m, nil

	// === Command palette ===

	case command.CommandMsg:
		m.currentView = m.previousView
		cmd := m.executeCommand(msg)
		return m, cmd

	case command.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			cmd := m.quit()
			return m, cmd
		}
		if m.currentView == ViewConfirm {
			return m.updateConfirm(msg)
		}
		if !m.capturesKeys() {
			if next, cmd, handled := m.handleKey(msg); handled {
				return next, cmd
			}
		}
	}

	if m.currentView == ViewConfirm {
		return m.updateConfirm(msg)
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// capturesKeys reports whether the active view is taking text input, in
// which case single-letter shortcuts are not intercepted.
func (m Model) capturesKeys() bool {
	switch m.currentView {
	case ViewForm, ViewQuickAdd, ViewCommand, ViewChat, ViewSettings:
		return true
	case ViewList:
		return m.taskList.Searching()
	case ViewDetail:
		return m.detail.Commenting()
	case ViewInvite:
		return m.invitePanel.Editing()
	case ViewUsers:
		return m.users.Confirming()
	}
	return false
}

// handleKey processes shortcuts. handled is false when the key should be
// passed to the active view.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		cmd := m.commandView.Focus()
		return m, cmd, true
	}

	if m.currentView == ViewHelp {
		if key.Matches(msg, m.keys.Back, m.keys.Quit) {
			m.currentView = m.previousView
			return m, nil, true
		}
		return m, nil, false
	}

	if m.currentView != ViewList && m.currentView != ViewDetail {
		return m, nil, false
	}

	task, hasTask := m.currentTask()

	switch {
	case key.Matches(msg, m.keys.Quit) && m.currentView == ViewList:
		cmd := m.quit()
		return m, cmd, true

	case key.Matches(msg, m.keys.Refresh):
		if m.refresher != nil {
			m.refresher.Trigger(appsync.ReasonManual)
			return m, nil, true
		}
		cmd := m.refresh(appsync.ReasonManual)
		return m, cmd, true

	case key.Matches(msg, m.keys.Edit):
		if !hasTask {
			return m, nil, true
		}
		m.form.EnterEdit(task)
		m.detail.Clear()
		cmd := m.openForm()
		return m, cmd, true

	case key.Matches(msg, m.keys.Toggle):
		if !hasTask {
			return m, nil, true
		}
		cmd := m.toggleTask(task)
		return m, cmd, true

	case key.Matches(msg, m.keys.Delete):
		if !hasTask {
			return m, nil, true
		}
		cmd := m.confirmDelete(task)
		return m, cmd, true
	}

	if m.currentView != ViewList {
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.New):
		m.form.Show()
		cmd := m.openForm()
		return m, cmd, true

	case key.Matches(msg, m.keys.QuickAdd):
		m.currentView = ViewQuickAdd
		cmd := m.quickEntry.Focus()
		return m, cmd, true

	case key.Matches(msg, m.keys.Projects):
		cmd := m.openProjects()
		return m, cmd, true

	case key.Matches(msg, m.keys.Invite):
		cmd := m.openInvite()
		return m, cmd, true

	case key.Matches(msg, m.keys.Chat):
		cmd := m.openChat()
		return m, cmd, true
	}

	return m, nil, false
}

// currentTask returns the task under the cursor or in the detail view.
func (m Model) currentTask() (model.Task, bool) {
	if m.currentView == ViewDetail {
		id, open := m.board.DetailID()
		if !open {
			return model.Task{}, false
		}
		return m.board.Task(id)
	}
	return m.taskList.SelectedTask()
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewForm:
		m.taskForm, cmd = m.taskForm.Update(msg)
	case ViewQuickAdd:
		m.quickEntry, cmd = m.quickEntry.Update(msg)
	case ViewProjects:
		m.picker, cmd = m.picker.Update(msg)
	case ViewInvite:
		m.invitePanel, cmd = m.invitePanel.Update(msg)
	case ViewChat:
		m.chat, cmd = m.chat.Update(msg)
	case ViewUsers:
		m.users, cmd = m.users.Update(msg)
	case ViewSettings:
		m.configView, cmd = m.configView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// syncBoard pushes the board's rows and detail into the views.
func (m *Model) syncBoard() tea.Cmd {
	now := m.now()
	m.taskList.SetTitle(m.listTitle())
	cmd := m.taskList.SetRows(m.board.Rows(now), m.board.ProjectID() != "")

	if d, ok := m.board.Detail(now); ok {
		m.detail.SetDetail(d)
	} else if m.currentView == ViewDetail {
		m.detail.Clear()
		m.currentView = ViewList
	}
	return cmd
}

func (m Model) listTitle() string {
	switch {
	case m.projectName != "":
		return m.projectName
	case m.board.ProjectID() != "":
		return m.board.ProjectID()
	default:
		return "Tasks"
	}
}

// setProjectName looks up the display name of id in projects.
func (m *Model) setProjectName(id string, projects []model.Project) {
	for _, p := range projects {
		if p.ID == id && p.Name != "" {
			m.projectName = p.Name
			m.taskList.SetTitle(p.Name)
			return
		}
	}
}

// openForm shows the task form if the controller asked for focus.
func (m *Model) openForm() tea.Cmd {
	if !m.form.TakeFocus() {
		return nil
	}
	m.currentView = ViewForm
	return m.taskForm.Start(m.form)
}

// submitForm validates the form and sends it. On a validation failure
// the form is reopened as it was entered.
func (m Model) submitForm() (tea.Model, tea.Cmd) {
	sub, err := m.form.Submission(m.board.ProjectID(), m.sess.user.ID)
	if err != nil {
		m.setError(err)
		m.currentView = ViewForm
		cmd := m.taskForm.Start(m.form)
		return m, cmd
	}
	m.currentView = ViewList
	m.info("Saving...")
	cmd := m.submit(sub)
	return m, cmd
}

// confirmDelete asks before deleting task.
func (m *Model) confirmDelete(task model.Task) tea.Cmd {
	m.pendingDelete = task
	m.confirmReturn = m.currentView
	m.confirmB.ok = false
	m.confirm = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", task.Title)).
				Description("Its comments are deleted too.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(&m.confirmB.ok),
		),
	).WithWidth(min(max(m.layout.ContentWidth()-4, 40), 80))
	m.currentView = ViewConfirm
	return m.confirm.Init()
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.confirm == nil {
		m.currentView = m.confirmReturn
		return m, nil
	}

	mdl, cmd := m.confirm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirm = f
	}

	switch m.confirm.State {
	case huh.StateCompleted:
		cmd = m.resolveConfirm(m.confirmB.ok)
		return m, cmd
	case huh.StateAborted:
		cmd = m.resolveConfirm(false)
		return m, cmd
	}
	return m, cmd
}

// resolveConfirm closes the delete confirmation and deletes the pending
// task when ok.
func (m *Model) resolveConfirm(ok bool) tea.Cmd {
	m.confirm = nil
	m.currentView = m.confirmReturn
	task := m.pendingDelete
	m.pendingDelete = model.Task{}
	if !ok {
		return nil
	}
	return m.deleteTask(task)
}

func (m *Model) openSettingsLogin(errMsg string) tea.Cmd {
	m.currentView = ViewSettings
	return m.configView.StartLogin(m.cfg, errMsg)
}

func (m *Model) openProjects() tea.Cmd {
	m.currentView = ViewProjects
	m.picker.SetActive(m.board.ProjectID())
	if !m.sess.signedIn {
		return m.picker.Init()
	}
	return tea.Batch(m.picker.Init(), m.fetchProjects())
}

func (m *Model) openInvite() tea.Cmd {
	m.currentView = ViewInvite
	m.invitePanel.SetCanInvite(m.sess.user.IsOwner() && m.board.ProjectID() != "")
	return m.invitePanel.Init()
}

// conversationID is the configured chat room, or the active project.
func (m Model) conversationID() string {
	if m.cfg.Workspace.ConversationID != "" {
		return m.cfg.Workspace.ConversationID
	}
	return m.board.ProjectID()
}

func (m *Model) openChat() tea.Cmd {
	if !m.sess.signedIn {
		m.info("Sign in to use chat")
		return nil
	}
	conv := m.conversationID()
	if conv == "" {
		m.info("Select a project or run :chat <room> first")
		return nil
	}
	title := conv
	if conv == m.board.ProjectID() && m.projectName != "" {
		title = m.projectName
	}
	m.currentView = ViewChat
	return tea.Batch(m.chat.Open(conv, title, m.sess.user.ID), m.loadMessages(conv))
}

func (m *Model) openUsers() tea.Cmd {
	m.currentView = ViewUsers
	return m.listUsers()
}

func (m *Model) quit() tea.Cmd {
	if m.refresher != nil {
		m.refresher.Stop()
	}
	return tea.Quit
}

// setError shows err as a notice and logs it.
func (m *Model) setError(err error) {
	n := gateway.Notice(err)
	n.CreatedAt = m.now()
	m.notice = n
	m.logger.Warn("operation failed", slog.String("error", err.Error()))
}

func (m *Model) info(text string) {
	m.notice = model.Notice{Kind: model.NoticeInfo, Message: text, CreatedAt: m.now()}
}

// activeNotice returns the notice if it has not expired.
func (m Model) activeNotice() (model.Notice, bool) {
	if m.notice.Message == "" {
		return model.Notice{}, false
	}
	if m.now().Sub(m.notice.CreatedAt) > noticeTTL {
		return model.Notice{}, false
	}
	return m.notice, true
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(m.headerTitle(), m.syncStatus())
	content := m.renderContent()

	var statusBar string
	if n, ok := m.activeNotice(); ok {
		statusBar = m.layout.RenderNotice(n)
	} else {
		statusBar = m.layout.RenderStatusBar(m.keyHints())
	}

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.taskList.View()
	case ViewDetail:
		return m.detail.View()
	case ViewForm:
		return m.taskForm.View()
	case ViewQuickAdd:
		return lipgloss.JoinVertical(lipgloss.Left, m.quickEntry.View(), m.taskList.View())
	case ViewConfirm:
		if m.confirm == nil {
			return ""
		}
		return lipgloss.NewStyle().Padding(1, 2).Render(m.confirm.View())
	case ViewProjects:
		return m.picker.View()
	case ViewInvite:
		return m.invitePanel.View()
	case ViewChat:
		return m.chat.View()
	case ViewUsers:
		return m.users.View()
	case ViewSettings:
		return m.configView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

func (m Model) headerTitle() string {
	parts := []string{"TaskGenius"}
	if m.projectName != "" {
		parts = append(parts, m.projectName)
	}
	if m.sess.signedIn {
		parts = append(parts, m.sess.user.Name)
	}
	return strings.Join(parts, " · ")
}

// syncStatus summarises the board and the last refresh.
func (m Model) syncStatus() string {
	var parts []string

	if m.board.ProjectID() != "" {
		s := m.board.Summary(m.now())
		parts = append(parts, fmt.Sprintf("%d open", s.Open))
		if s.Overdue > 0 {
			parts = append(parts, fmt.Sprintf("%d overdue", s.Overdue))
		}
		parts = append(parts, fmt.Sprintf("%d done", s.Done))
	}
	if m.board.Stale() {
		parts = append(parts, "cached")
	}

	if m.refresher != nil {
		st := m.refresher.Status()
		switch st.State {
		case appsync.SyncRunning:
			parts = append(parts, "syncing")
		case appsync.SyncError:
			parts = append(parts, "⚠ offline")
		default:
			if !st.LastSync.IsZero() {
				parts = append(parts, "synced "+st.LastSync.Format("15:04"))
			}
		}
	}

	if !m.sess.signedIn {
		parts = append(parts, "signed out")
	}
	return strings.Join(parts, " · ")
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | tab complete | esc back"
	case ViewDetail:
		if m.detail.Commenting() {
			return "enter post | esc cancel"
		}
		return "esc back | e edit | x toggle | d delete | c comment | j/k scroll"
	case ViewForm, ViewConfirm:
		return "enter submit | esc cancel"
	case ViewQuickAdd:
		return "enter parse | esc cancel"
	case ViewProjects:
		return "j/k move | enter select | esc back"
	case ViewInvite:
		return "n invite | s scan mailbox | esc back"
	case ViewChat:
		return "enter send | pgup/pgdn scroll | esc back"
	case ViewUsers:
		return "d delete | esc back"
	case ViewSettings:
		return "enter next | esc cancel"
	default:
		if q := m.taskList.Query(); q != "" {
			return fmt.Sprintf("search %q | / edit | esc clear", q)
		}
		return "q quit | ? help | n new | a quick add | e edit | x toggle | d delete | p projects | : command"
	}
}
