package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskgenius/internal/board"
	"github.com/nhle/taskgenius/internal/credential"
	"github.com/nhle/taskgenius/internal/form"
	"github.com/nhle/taskgenius/internal/gateway"
	"github.com/nhle/taskgenius/internal/model"
	"github.com/nhle/taskgenius/internal/store"
	appsync "github.com/nhle/taskgenius/internal/sync"
)

// loginRequiredMsg is sent when no stored password is available.
type loginRequiredMsg struct{ err error }

// loginResultMsg carries the outcome of a login.
type loginResultMsg struct {
	user    model.User
	email   string
	baseURL string
	auto    bool
	err     error
}

// loggedOutMsg is sent after the session has been closed.
type loggedOutMsg struct{ err error }

// configSavedMsg reports a failed config write.
type configSavedMsg struct{ err error }

// inboxConfiguredMsg carries the scanner built from new mailbox settings.
type inboxConfiguredMsg struct {
	inbox InboxScanner
	err   error
}

// cacheRestoredMsg carries the cached snapshot of the last project.
type cacheRestoredMsg struct {
	snap     store.TaskSnapshot
	projects []model.Project
}

// projectsLoadedMsg carries the visible projects.
type projectsLoadedMsg struct {
	projects []model.Project
	err      error
}

// projectSelectedMsg is sent after the server accepted a project switch.
type projectSelectedMsg struct {
	project model.Project
	err     error
}

// membersLoadedMsg carries the members of a project.
type membersLoadedMsg struct {
	projectID string
	members   []model.Member
	err       error
}

// tasksFetchedMsg carries a full fetch of the active project.
type tasksFetchedMsg struct {
	snap   board.Snapshot
	ok     bool
	reason appsync.Reason
	err    error
}

// submitDoneMsg is sent after a form submission has been executed. sub is
// the request that was sent, not the form as it is now.
type submitDoneMsg struct {
	sub form.Submission
	err error
}

// mutationDoneMsg is sent after a toggle or delete. done is the notice
// shown on success.
type mutationDoneMsg struct {
	done string
	err  error
}

// commentsLoadedMsg carries the comments of a task. fromCache is set when
// the fetch failed and the cached comments were loaded instead.
type commentsLoadedMsg struct {
	taskID    int64
	comments  []model.Comment
	fromCache bool
	err       error
}

// commentAddedMsg is sent after a comment was posted.
type commentAddedMsg struct {
	taskID int64
	err    error
}

// invitationCreatedMsg carries a created invitation.
type invitationCreatedMsg struct {
	inv model.Invitation
	err error
}

// inboxScannedMsg reports a mailbox scan.
type inboxScannedMsg struct {
	found int
	added int
	err   error
}

// messagesLoadedMsg carries a chat transcript.
type messagesLoadedMsg struct {
	conversationID string
	messages       []model.Message
	err            error
}

// messagePostedMsg is sent after a chat message was posted.
type messagePostedMsg struct {
	conversationID string
	err            error
}

// usersLoadedMsg carries the user list.
type usersLoadedMsg struct {
	users []model.User
	err   error
}

// userDeletedMsg is sent after a user was deleted.
type userDeletedMsg struct {
	name    string
	message string
	err     error
}

// === Session ===

// autoLogin signs in with the password stored for the configured account.
func (m Model) autoLogin() tea.Cmd {
	email := m.cfg.Account.Email
	creds := m.creds
	if email == "" || creds == nil {
		return func() tea.Msg { return loginRequiredMsg{} }
	}
	api := m.sess.api
	baseURL := m.cfg.Server.BaseURL

	return func() tea.Msg {
		password, err := creds.Get(credential.APIPasswordKey(email))
		if errors.Is(err, credential.ErrNotFound) {
			return loginRequiredMsg{}
		}
		if err != nil {
			return loginRequiredMsg{err: err}
		}
		user, err := api.Login(context.Background(), email, password)
		return loginResultMsg{user: user, email: email, baseURL: baseURL, auto: true, err: err}
	}
}

// login signs in and, when remember is set, stores the password.
func (m Model) login(baseURL, email, password string, remember, auto bool) tea.Cmd {
	api := m.sess.api
	creds := m.creds
	logger := m.logger

	return func() tea.Msg {
		user, err := api.Login(context.Background(), email, password)
		if err != nil {
			return loginResultMsg{email: email, baseURL: baseURL, auto: auto, err: err}
		}
		if remember && creds != nil {
			if err := creds.Set(credential.APIPasswordKey(email), password); err != nil {
				logger.Warn("storing password failed", slog.String("error", err.Error()))
			}
		}
		return loginResultMsg{user: user, email: email, baseURL: baseURL, auto: auto}
	}
}

func (m Model) handleLogin(msg loginResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Warn("login failed",
			slog.String("email", msg.email),
			slog.String("error", msg.err.Error()))
		text := gateway.Notice(msg.err).Message
		if msg.auto {
			cmd := m.openSettingsLogin(text)
			return m, cmd
		}
		cmd := m.configView.LoginFailed(text)
		return m, cmd
	}

	m.sess.user = msg.user
	m.sess.signedIn = true
	m.cfg.Account.Email = msg.email
	if msg.baseURL != "" {
		m.cfg.Server.BaseURL = msg.baseURL
	}
	if m.currentView == ViewSettings {
		m.currentView = ViewList
	}
	m.info(fmt.Sprintf("Signed in as %s", msg.user.Name))
	m.logger.Info("signed in", slog.String("email", msg.email), slog.String("role", msg.user.Role))

	cmds := []tea.Cmd{m.saveConfig(), m.fetchProjects()}
	if id := m.cfg.Workspace.ProjectID; id != "" {
		cmds = append(cmds, m.selectProject(id))
	} else {
		cmds = append(cmds, m.openProjects())
	}
	return m, tea.Batch(cmds...)
}

// logout closes the session and forgets the stored password.
func (m Model) logout() tea.Cmd {
	api := m.sess.api
	creds := m.creds
	email := m.cfg.Account.Email
	logger := m.logger

	return func() tea.Msg {
		err := api.Logout(context.Background())
		if creds != nil && email != "" {
			if derr := creds.Delete(credential.APIPasswordKey(email)); derr != nil && !errors.Is(derr, credential.ErrNotFound) {
				logger.Warn("removing stored password failed", slog.String("error", derr.Error()))
			}
		}
		return loggedOutMsg{err: err}
	}
}

// saveConfig writes the current configuration.
func (m Model) saveConfig() tea.Cmd {
	if m.configPath == "" {
		return nil
	}
	path := m.configPath
	cfg := *m.cfg
	return func() tea.Msg {
		if err := model.SaveConfig(path, &cfg); err != nil {
			return configSavedMsg{err: err}
		}
		return nil
	}
}

// configureInbox stores the mailbox password and builds a scanner. An
// empty password reuses the stored one.
func (m Model) configureInbox(cfg model.InboxConfig, password string) tea.Cmd {
	creds := m.creds
	open := m.openInbox

	return func() tea.Msg {
		if !cfg.Enabled || cfg.Host == "" || cfg.Username == "" {
			return inboxConfiguredMsg{}
		}
		key := credential.InboxPasswordKey(cfg.Username)
		switch {
		case password != "" && creds != nil:
			if err := creds.Set(key, password); err != nil {
				return inboxConfiguredMsg{err: fmt.Errorf("storing mailbox password: %w", err)}
			}
		case password == "" && creds != nil:
			stored, err := creds.Get(key)
			if err != nil {
				return inboxConfiguredMsg{err: fmt.Errorf("reading mailbox password for %s: %w", cfg.Username, err)}
			}
			password = stored
		}
		return inboxConfiguredMsg{inbox: open(cfg, password)}
	}
}

// === Projects and tasks ===

// restoreCache loads the cached snapshot of projectID.
func (m Model) restoreCache(projectID string) tea.Cmd {
	s := m.store
	if s == nil || projectID == "" {
		return nil
	}
	logger := m.logger

	return func() tea.Msg {
		ctx := context.Background()
		snap, err := s.GetTasks(ctx, projectID)
		if err != nil {
			if !errors.Is(err, store.ErrNotCached) {
				logger.Warn("reading task cache failed", slog.String("error", err.Error()))
			}
			return nil
		}
		projects, err := s.GetProjects(ctx)
		if err != nil {
			logger.Warn("reading project cache failed", slog.String("error", err.Error()))
		}
		return cacheRestoredMsg{snap: snap, projects: projects}
	}
}

// fetchProjects lists the projects and caches them.
func (m Model) fetchProjects() tea.Cmd {
	api := m.sess.api
	s := m.store
	logger := m.logger
	now := m.now

	return func() tea.Msg {
		ctx := context.Background()
		projects, err := api.ListProjects(ctx)
		if err != nil {
			return projectsLoadedMsg{err: err}
		}
		if s != nil {
			if err := s.ReplaceProjects(ctx, projects, now()); err != nil {
				logger.Warn("caching projects failed", slog.String("error", err.Error()))
			}
		}
		return projectsLoadedMsg{projects: projects}
	}
}

// selectProject makes projectID the session's project.
func (m Model) selectProject(projectID string) tea.Cmd {
	api := m.sess.api
	return func() tea.Msg {
		p, err := api.SelectProject(context.Background(), projectID)
		if err != nil {
			return projectSelectedMsg{err: err}
		}
		if p.ID == "" {
			p.ID = projectID
		}
		return projectSelectedMsg{project: p}
	}
}

func (m Model) fetchMembers(projectID string) tea.Cmd {
	api := m.sess.api
	return func() tea.Msg {
		members, err := api.ListMembers(context.Background(), projectID)
		return membersLoadedMsg{projectID: projectID, members: members, err: err}
	}
}

// refresh re-fetches the active project. Without a session or a project
// there is nothing to fetch.
func (m Model) refresh(reason appsync.Reason) tea.Cmd {
	if !m.sess.signedIn || m.board.ProjectID() == "" {
		return nil
	}
	if m.refresher != nil {
		m.refresher.Begin()
	}
	return m.fetchTasks(reason)
}

// fetchTasks loads a snapshot of the active project and caches it.
func (m Model) fetchTasks(reason appsync.Reason) tea.Cmd {
	api := m.sess.api
	s := m.store
	projectID := m.board.ProjectID()
	logger := m.logger

	return func() tea.Msg {
		ctx := context.Background()
		snap, ok, err := board.Fetch(ctx, api, projectID)
		if err != nil {
			return tasksFetchedMsg{reason: reason, err: err}
		}
		if ok && s != nil {
			if _, err := s.ReplaceTasks(ctx, snap.ProjectID, snap.Tasks, snap.FetchedAt); err != nil {
				logger.Warn("caching tasks failed",
					slog.String("project", snap.ProjectID),
					slog.String("error", err.Error()))
			}
		}
		logger.Debug("fetched tasks",
			slog.String("project", projectID),
			slog.Int("count", len(snap.Tasks)))
		return tasksFetchedMsg{snap: snap, ok: ok, reason: reason}
	}
}

// submit executes a validated form submission.
func (m Model) submit(sub form.Submission) tea.Cmd {
	api := m.sess.api
	return func() tea.Msg {
		err := sub.Execute(context.Background(), api)
		return submitDoneMsg{sub: sub, err: err}
	}
}

func (m Model) toggleTask(task model.Task) tea.Cmd {
	api := m.sess.api
	done := !task.IsCompleted()
	return func() tea.Msg {
		if err := api.SetCompleted(context.Background(), task.ID, done); err != nil {
			return mutationDoneMsg{err: err}
		}
		if done {
			return mutationDoneMsg{done: fmt.Sprintf("Completed %q", task.Title)}
		}
		return mutationDoneMsg{done: fmt.Sprintf("Reopened %q", task.Title)}
	}
}

func (m Model) deleteTask(task model.Task) tea.Cmd {
	api := m.sess.api
	return func() tea.Msg {
		if err := api.DeleteTask(context.Background(), task.ID); err != nil {
			return mutationDoneMsg{err: err}
		}
		return mutationDoneMsg{done: fmt.Sprintf("Deleted %q", task.Title)}
	}
}

// loadComments fetches the comments of taskID and caches them. When the
// fetch fails the cached comments are returned with the error.
func (m Model) loadComments(taskID int64) tea.Cmd {
	api := m.sess.api
	s := m.store
	logger := m.logger

	return func() tea.Msg {
		ctx := context.Background()
		comments, err := api.ListComments(ctx, taskID)
		if err != nil {
			if s == nil {
				return commentsLoadedMsg{taskID: taskID, err: err}
			}
			cached, cerr := s.GetComments(ctx, taskID)
			if cerr != nil {
				return commentsLoadedMsg{taskID: taskID, err: err}
			}
			return commentsLoadedMsg{taskID: taskID, comments: cached, fromCache: true, err: err}
		}
		if s != nil {
			if err := s.ReplaceComments(ctx, taskID, comments); err != nil {
				logger.Warn("caching comments failed", slog.String("error", err.Error()))
			}
		}
		return commentsLoadedMsg{taskID: taskID, comments: comments}
	}
}

func (m Model) addComment(taskID int64, text string) tea.Cmd {
	api := m.sess.api
	return func() tea.Msg {
		_, err := api.AddComment(context.Background(), taskID, text)
		return commentAddedMsg{taskID: taskID, err: err}
	}
}

// === Invitations ===

// createInvitation invites email and records the invitation locally.
func (m Model) createInvitation(projectID, email, role string) tea.Cmd {
	api := m.sess.api
	s := m.store
	logger := m.logger

	return func() tea.Msg {
		if projectID == "" {
			return invitationCreatedMsg{err: form.ErrNoProject}
		}
		ctx := context.Background()
		inv, err := api.CreateInvitation(ctx, projectID, email, role)
		if err != nil {
			return invitationCreatedMsg{err: err}
		}
		if s != nil {
			if _, err := s.RecordInvitation(ctx, inv); err != nil {
				logger.Warn("recording invitation failed", slog.String("error", err.Error()))
			}
		}
		return invitationCreatedMsg{inv: inv}
	}
}

// scanInbox records every invitation found in the mailbox.
func (m Model) scanInbox() tea.Cmd {
	inbox := m.inbox
	s := m.store
	recipient := m.cfg.Account.Email
	if recipient == "" {
		recipient = inbox.Username()
	}

	return func() tea.Msg {
		ctx := context.Background()
		found, err := inbox.Scan(ctx)
		added := 0
		if s != nil {
			for _, f := range found {
				isNew, rerr := s.RecordInvitation(ctx, f.Invitation(recipient))
				if rerr != nil {
					err = errors.Join(err, rerr)
					continue
				}
				if isNew {
					added++
				}
			}
		}
		return inboxScannedMsg{found: len(found), added: added, err: err}
	}
}

// === Chat ===

func (m Model) loadMessages(conversationID string) tea.Cmd {
	if conversationID == "" {
		return nil
	}
	api := m.sess.api
	return func() tea.Msg {
		msgs, err := api.ListMessages(context.Background(), conversationID)
		return messagesLoadedMsg{conversationID: conversationID, messages: msgs, err: err}
	}
}

func (m Model) postMessage(conversationID, text string) tea.Cmd {
	api := m.sess.api
	return func() tea.Msg {
		_, err := api.PostMessage(context.Background(), conversationID, text)
		return messagePostedMsg{conversationID: conversationID, err: err}
	}
}

// === Users ===

func (m Model) listUsers() tea.Cmd {
	api := m.sess.api
	return func() tea.Msg {
		list, err := api.ListUsers(context.Background())
		return usersLoadedMsg{users: list, err: err}
	}
}

func (m Model) deleteUser(userID, name string) tea.Cmd {
	api := m.sess.api
	return func() tea.Msg {
		text, err := api.DeleteUser(context.Background(), userID)
		return userDeletedMsg{name: name, message: text, err: err}
	}
}
