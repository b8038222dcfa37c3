package app

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskgenius/internal/credential"
	"github.com/nhle/taskgenius/internal/form"
	"github.com/nhle/taskgenius/internal/gateway"
	"github.com/nhle/taskgenius/internal/invite"
	"github.com/nhle/taskgenius/internal/model"
	"github.com/nhle/taskgenius/internal/quickadd"
	"github.com/nhle/taskgenius/internal/store"
	appsync "github.com/nhle/taskgenius/internal/sync"
	"github.com/nhle/taskgenius/internal/ui/chat"
	"github.com/nhle/taskgenius/internal/ui/command"
	configview "github.com/nhle/taskgenius/internal/ui/config"
	"github.com/nhle/taskgenius/internal/ui/detail"
	inviteview "github.com/nhle/taskgenius/internal/ui/invite"
	"github.com/nhle/taskgenius/internal/ui/quickentry"
	"github.com/nhle/taskgenius/internal/ui/taskform"
	"github.com/nhle/taskgenius/internal/ui/tasklist"
	"github.com/nhle/taskgenius/tests/testutil"
)

const (
	ownerEmail = "owner@example.com"
	token      = "8d0f4c1e-3b1a-4c55-9a8e-2f5d6b7c8e90"
)

var fixedNow = time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)

// fakeAPI is an in-memory TaskGenius server.
type fakeAPI struct {
	user     model.User
	projects []model.Project
	tasks    map[string][]model.Task
	comments map[int64][]model.Comment
	messages map[string][]model.Message
	users    []model.User
	members  []model.Member
	nextID   int64

	loginErr    error
	listErr     error
	createErr   error
	commentsErr error

	selected     string
	created      []model.TaskInput
	updated      map[int64]model.TaskInput
	deleted      []int64
	deletedUsers []string
	loggedOut    bool
}

func newFakeAPI() *fakeAPI {
	alpha := []model.Task{
		testutil.NewTask(2, "Inspect fence", "2024-03-10", model.StatusToDo),
		testutil.NewTask(1, "Order rebar", "", model.StatusToDo),
	}
	return &fakeAPI{
		user: model.User{ID: "u_owner", Email: ownerEmail, Name: "Olivia Owner", Role: model.RoleOwner},
		projects: []model.Project{
			{ID: "proj_alpha", Name: "Project Alpha"},
			{ID: "proj_beta", Name: "Project Beta"},
		},
		tasks: map[string][]model.Task{"proj_alpha": alpha},
		comments: map[int64][]model.Comment{
			1: {{ID: 10, TaskID: 1, Text: "Supplier confirmed", UserName: testutil.Ptr("Worker Bob")}},
		},
		messages: map[string][]model.Message{
			"site-crew": {{ID: 1, ConversationID: "site-crew", UserID: "u_bob", UserName: "Worker Bob", Text: "Morning"}},
		},
		users: []model.User{
			{ID: "u_bob", Name: "Worker Bob", Role: model.RoleWorker},
		},
		members: []model.Member{{ID: "u_bob", Name: "Worker Bob", Role: model.RoleWorker}},
		nextID:  100,
		updated: map[int64]model.TaskInput{},
	}
}

func (f *fakeAPI) Login(_ context.Context, email, _ string) (model.User, error) {
	if f.loginErr != nil {
		return model.User{}, f.loginErr
	}
	u := f.user
	u.Email = email
	return u, nil
}

func (f *fakeAPI) Logout(context.Context) error {
	f.loggedOut = true
	return nil
}

func (f *fakeAPI) ListUsers(context.Context) ([]model.User, error) { return f.users, nil }

func (f *fakeAPI) DeleteUser(_ context.Context, userID string) (string, error) {
	f.deletedUsers = append(f.deletedUsers, userID)
	return "User deleted", nil
}

func (f *fakeAPI) ListProjects(context.Context) ([]model.Project, error) { return f.projects, nil }

func (f *fakeAPI) SelectProject(_ context.Context, projectID string) (model.Project, error) {
	for _, p := range f.projects {
		if p.ID == projectID {
			f.selected = projectID
			return p, nil
		}
	}
	return model.Project{}, &gateway.APIError{Status: 404, Message: "Project not found"}
}

func (f *fakeAPI) ListMembers(context.Context, string) ([]model.Member, error) { return f.members, nil }

func (f *fakeAPI) CreateInvitation(_ context.Context, projectID, email, role string) (model.Invitation, error) {
	return model.Invitation{
		Token:      token,
		Email:      email,
		ProjectID:  projectID,
		Role:       role,
		Status:     model.InvitationPending,
		InviteLink: "https://YourAppDomain.com/register?token=" + token,
		Source:     model.InvitationSent,
	}, nil
}

func (f *fakeAPI) ListTasks(_ context.Context, projectID string) ([]model.Task, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return slices.Clone(f.tasks[projectID]), nil
}

func (f *fakeAPI) CreateTask(_ context.Context, projectID string, in model.TaskInput) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.created = append(f.created, in)
	f.nextID++
	t := model.Task{
		ID:         f.nextID,
		ProjectID:  projectID,
		Title:      in.Title,
		Status:     model.StatusToDo,
		Priority:   in.Priority,
		DueDate:    in.DueDate,
		AssigneeID: in.AssigneeID,
	}
	f.tasks[projectID] = append([]model.Task{t}, f.tasks[projectID]...)
	return t.ID, nil
}

func (f *fakeAPI) UpdateTask(_ context.Context, id int64, in model.TaskInput) error {
	f.updated[id] = in
	f.editTask(id, func(t *model.Task) {
		t.Title = in.Title
		t.Priority = in.Priority
		t.DueDate = in.DueDate
		t.AssigneeID = in.AssigneeID
	})
	return nil
}

func (f *fakeAPI) SetCompleted(_ context.Context, id int64, done bool) error {
	f.editTask(id, func(t *model.Task) {
		t.Completed = done
		t.Status = model.StatusToDo
		if done {
			t.Status = model.StatusDone
		}
	})
	return nil
}

func (f *fakeAPI) DeleteTask(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	for pid, tasks := range f.tasks {
		f.tasks[pid] = slices.DeleteFunc(tasks, func(t model.Task) bool { return t.ID == id })
	}
	return nil
}

func (f *fakeAPI) ListComments(_ context.Context, taskID int64) ([]model.Comment, error) {
	if f.commentsErr != nil {
		return nil, f.commentsErr
	}
	return f.comments[taskID], nil
}

func (f *fakeAPI) AddComment(_ context.Context, taskID int64, text string) (int64, error) {
	id := int64(len(f.comments[taskID]) + 100)
	f.comments[taskID] = append(f.comments[taskID], model.Comment{ID: id, TaskID: taskID, Text: text})
	return id, nil
}

func (f *fakeAPI) ListMessages(_ context.Context, conversationID string) ([]model.Message, error) {
	return f.messages[conversationID], nil
}

func (f *fakeAPI) PostMessage(_ context.Context, conversationID, text string) (model.Message, error) {
	msg := model.Message{
		ID:             int64(len(f.messages[conversationID]) + 1),
		ConversationID: conversationID,
		UserID:         f.user.ID,
		UserName:       f.user.Name,
		Text:           text,
	}
	f.messages[conversationID] = append(f.messages[conversationID], msg)
	return msg, nil
}

func (f *fakeAPI) editTask(id int64, edit func(*model.Task)) {
	for _, tasks := range f.tasks {
		for i := range tasks {
			if tasks[i].ID == id {
				edit(&tasks[i])
			}
		}
	}
}

type fakeCredentials map[string]string

func (c fakeCredentials) Get(key string) (string, error) {
	v, ok := c[key]
	if !ok {
		return "", credential.ErrNotFound
	}
	return v, nil
}

func (c fakeCredentials) Set(key, value string) error {
	c[key] = value
	return nil
}

func (c fakeCredentials) Delete(key string) error {
	if _, ok := c[key]; !ok {
		return credential.ErrNotFound
	}
	delete(c, key)
	return nil
}

type fakeInbox struct {
	found []invite.Found
}

func (f fakeInbox) Scan(context.Context) ([]invite.Found, error) { return f.found, nil }
func (f fakeInbox) Username() string                              { return "carol@example.com" }

type harness struct {
	api   *fakeAPI
	creds fakeCredentials
	store *store.SQLiteStore
	path  string
	deps  Deps
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		api:   newFakeAPI(),
		creds: fakeCredentials{credential.APIPasswordKey(ownerEmail): "secret"},
		store: testutil.NewTestStore(t),
		path:  filepath.Join(t.TempDir(), "config.yaml"),
	}
	cfg, err := model.LoadConfig(h.path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	cfg.Account.Email = ownerEmail
	cfg.Workspace.ProjectID = "proj_alpha"

	h.deps = Deps{
		Config:      cfg,
		ConfigPath:  h.path,
		API:         h.api,
		Store:       h.store,
		Credentials: h.creds,
		Now:         func() time.Time { return fixedNow },
	}
	return h
}

func (h *harness) model() Model {
	return New(h.deps)
}

// signedIn returns a model that has logged in and loaded proj_alpha.
func (h *harness) signedIn(t *testing.T) Model {
	t.Helper()
	m := h.model()
	m = applyCmd(t, m, m.autoLogin())
	if !m.sess.signedIn {
		t.Fatal("auto login did not sign in")
	}
	if got := len(m.board.Tasks()); got != len(h.api.tasks["proj_alpha"]) {
		t.Fatalf("board has %d tasks, want %d", got, len(h.api.tasks["proj_alpha"]))
	}
	return m
}

// applyMsg sends msg to m and drains the resulting commands.
func applyMsg(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	out, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	return applyCmd(t, out, cmd)
}

// applyCmd runs cmd and every command it leads to, feeding the messages
// back into the model. Commands that do not return promptly (cursor
// blinks, spinner ticks) are dropped.
func applyCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0 && steps < 300; steps++ {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg, ok := runCmd(next)
		if !ok || msg == nil {
			continue
		}
		switch msg := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
			continue
		case tea.QuitMsg:
			continue
		}
		updated, nextCmd := m.Update(msg)
		casted, isModel := updated.(Model)
		if !isModel {
			t.Fatalf("expected Model, got %T", updated)
		}
		m = casted
		queue = append(queue, nextCmd)
	}
	return m
}

func runCmd(cmd tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(300 * time.Millisecond):
		return nil, false
	}
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestAutoLoginSelectsSavedProject(t *testing.T) {
	h := newHarness(t)
	m := h.signedIn(t)

	if h.api.selected != "proj_alpha" {
		t.Fatalf("selected project = %q, want proj_alpha", h.api.selected)
	}
	if m.currentView != ViewList {
		t.Fatalf("view = %v, want list", m.currentView)
	}
	if m.projectName != "Project Alpha" {
		t.Fatalf("project name = %q", m.projectName)
	}
	if m.board.Stale() {
		t.Fatal("board still stale after a fetch")
	}

	snap, err := h.store.GetTasks(context.Background(), "proj_alpha")
	if err != nil {
		t.Fatalf("GetTasks() error: %v", err)
	}
	if len(snap.Tasks) != 2 {
		t.Fatalf("cached %d tasks, want 2", len(snap.Tasks))
	}

	cfg, err := model.LoadConfig(h.path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Account.Email != ownerEmail || cfg.Workspace.ProjectID != "proj_alpha" {
		t.Fatalf("saved config = %+v / %+v", cfg.Account, cfg.Workspace)
	}
}

func TestAutoLoginWithoutStoredPassword(t *testing.T) {
	h := newHarness(t)
	delete(h.creds, credential.APIPasswordKey(ownerEmail))

	m := h.model()
	m = applyCmd(t, m, m.autoLogin())

	if m.sess.signedIn {
		t.Fatal("signed in without a password")
	}
	if m.currentView != ViewSettings || m.configView.Mode() != configview.ModeLogin {
		t.Fatalf("view = %v, mode = %v, want the login form", m.currentView, m.configView.Mode())
	}
}

func TestAutoLoginRejected(t *testing.T) {
	h := newHarness(t)
	h.api.loginErr = &gateway.APIError{Status: 401, Message: "Invalid credentials"}

	m := h.model()
	m = applyCmd(t, m, m.autoLogin())

	if m.sess.signedIn {
		t.Fatal("signed in despite a rejected login")
	}
	if m.currentView != ViewSettings {
		t.Fatalf("view = %v, want settings", m.currentView)
	}
}

func TestRestoreCacheShowsStaleBoard(t *testing.T) {
	h := newHarness(t)
	testutil.SeedTasks(t, h.store, "proj_alpha", fixedNow.Add(-time.Hour),
		testutil.NewTask(7, "Cached task", "", model.StatusToDo))
	testutil.SeedProjects(t, h.store, fixedNow, h.api.projects...)

	m := h.model()
	m = applyCmd(t, m, m.restoreCache("proj_alpha"))

	if !m.board.Stale() {
		t.Fatal("restored board is not stale")
	}
	if _, ok := m.board.Task(7); !ok {
		t.Fatal("cached task not on the board")
	}
	if m.projectName != "Project Alpha" {
		t.Fatalf("project name = %q", m.projectName)
	}
	if !strings.Contains(m.syncStatus(), "cached") {
		t.Fatalf("sync status = %q, want it to mention the cache", m.syncStatus())
	}
}

func TestHeaderCountsOverdue(t *testing.T) {
	h := newHarness(t)
	m := h.signedIn(t)

	status := m.syncStatus()
	for _, want := range []string{"2 open", "1 overdue", "0 done"} {
		if !strings.Contains(status, want) {
			t.Errorf("sync status %q missing %q", status, want)
		}
	}
}

func TestToggleCompletesAndRefetches(t *testing.T) {
	h := newHarness(t)
	m := h.signedIn(t)

	selected, ok := m.taskList.SelectedTask()
	if !ok {
		t.Fatal("no task selected")
	}
	m = applyMsg(t, m, keyRune('x'))

	got, ok := m.board.Task(selected.ID)
	if !ok || !got.IsCompleted() {
		t.Fatalf("task %d not completed after toggle: %+v", selected.ID, got)
	}
	if m.notice.Kind != model.NoticeInfo || !strings.Contains(m.notice.Message, selected.Title) {
		t.Fatalf("notice = %+v", m.notice)
	}
}

func TestCreateFallsBackToActor(t *testing.T) {
	h := newHarness(t)
	m := h.signedIn(t)

	m.form.Show()
	m.form.Fields().Title = "  Pour slab  "
	m = applyMsg(t, m, taskform.SubmitMsg{})

	if len(h.api.created) != 1 {
		t.Fatalf("created %d tasks, want 1", len(h.api.created))
	}
	in := h.api.created[0]
	if in.Title != "Pour slab" {
		t.Fatalf("title = %q", in.Title)
	}
	if in.AssigneeID == nil || *in.AssigneeID != "u_owner" {
		t.Fatalf("assignee = %v, want the acting user", in.AssigneeID)
	}
	if m.form.Visible() || m.form.Fields().Title != "" {
		t.Fatal("form not reset after a successful create")
	}
	if got := len(m.board.Tasks()); got != 3 {
		t.Fatalf("board has %d tasks after create, want 3", got)
	}
}

func TestUpdateClearsAssignee(t *testing.T) {
	h := newHarness(t)
	h.api.tasks["proj_alpha"][0].AssigneeID = testutil.Ptr("u_bob")
	m := h.signedIn(t)

	task, _ := m.board.Task(2)
	m.form.EnterEdit(task)
	m.form.Fields().AssigneeID = ""
	m = applyMsg(t, m, taskform.SubmitMsg{})

	in, ok := h.api.updated[2]
	if !ok {
		t.Fatal("task 2 was not updated")
	}
	if in.AssigneeID != nil {
		t.Fatalf("assignee = %q, want null", *in.AssigneeID)
	}
	if m.form.Mode() != form.ModeCreate {
		t.Fatalf("mode = %v, want create after submit", m.form.Mode())
	}
}

func TestSubmitFailureKeepsForm(t *testing.T) {
	h := newHarness(t)
	h.api.createErr = &gateway.APIError{Status: 500, Message: "database is locked"}
	m := h.signedIn(t)

	m.form.Show()
	m.form.Fields().Title = "Pour slab"
	m = applyMsg(t, m, taskform.SubmitMsg{})

	if !m.form.Visible() || m.form.Fields().Title != "Pour slab" {
		t.Fatal("form state lost after a failed submit")
	}
	if m.notice.Kind != model.NoticeAlert || m.notice.Message != "database is locked" {
		t.Fatalf("notice = %+v", m.notice)
	}
	if m.currentView != ViewForm {
		t.Fatalf("view = %v, want the form reopened", m.currentView)
	}
}

func TestCreateWithoutProject(t *testing.T) {
	h := newHarness(t)
	m := h.model()

	m.form.Show()
	m.form.Fields().Title = "Pour slab"
	m = applyMsg(t, m, taskform.SubmitMsg{})

	if len(h.api.created) != 0 {
		t.Fatal("task created without a project")
	}
	if m.notice.Message != form.ErrNoProject.Error() {
		t.Fatalf("notice = %q", m.notice.Message)
	}
	if !m.form.Visible() {
		t.Fatal("form hidden after a rejected submit")
	}
	if m.currentView != ViewForm {
		t.Fatalf("view = %v, want the form reopened", m.currentView)
	}
}

func TestBlankTitleReopensForm(t *testing.T) {
	h := newHarness(t)
	m := h.signedIn(t)

	m.form.Show()
	m.form.Fields().Title = "   "
	m.form.Fields().Description = "north side"
	m = applyMsg(t, m, taskform.SubmitMsg{})

	if len(h.api.created) != 0 {
		t.Fatal("task created with a blank title")
	}
	if m.notice.Message != form.ErrTitleRequired.Error() {
		t.Fatalf("notice = %q", m.notice.Message)
	}
	if m.currentView != ViewForm || m.form.Fields().Description != "north side" {
		t.Fatalf("view = %v, fields = %+v; want the form reopened as entered", m.currentView, *m.form.Fields())
	}
}

func TestLateSaveKeepsNewerEdit(t *testing.T) {
	h := newHarness(t)
	m := h.signedIn(t)

	fence, _ := m.board.Task(2)
	m.form.EnterEdit(fence)
	m.form.Fields().Title = "Inspect fence (north)"
	updated, held := m.Update(taskform.SubmitMsg{})
	m = updated.(Model)
	if held == nil {
		t.Fatal("submit returned no command")
	}

	// The user starts editing another task before the save returns.
	rebar, _ := m.board.Task(1)
	m.form.EnterEdit(rebar)
	_ = m.openForm()

	msg, ok := runCmd(held)
	if !ok {
		t.Fatal("save did not return")
	}
	if _, isDone := msg.(submitDoneMsg); !isDone {
		t.Fatalf("save returned %T", msg)
	}
	m = applyMsg(t, m, msg)

	if id, editing := m.form.EditingID(); !editing || id != 1 {
		t.Fatalf("form mode = %v, editing %d; want the edit of task 1 kept", m.form.Mode(), id)
	}
	if m.currentView != ViewForm {
		t.Fatalf("view = %v, want the form left open", m.currentView)
	}

	m.form.Fields().Title = "Order rebar (edited)"
	m = applyMsg(t, m, taskform.SubmitMsg{})

	if len(h.api.created) != 0 {
		t.Fatalf("edit of task 1 was sent as a create: %+v", h.api.created)
	}
	if in, ok := h.api.updated[1]; !ok || in.Title != "Order rebar (edited)" {
		t.Fatalf("task 1 update = %+v, %v", in, ok)
	}
	if in := h.api.updated[2]; in.Title != "Inspect fence (north)" {
		t.Fatalf("task 2 update = %+v", in)
	}
}

func TestNetworkErrorKeepsBoard(t *testing.T) {
	h := newHarness(t)
	m := h.signedIn(t)

	h.api.listErr = &gateway.NetworkError{Method: "GET", Path: "/projects/proj_alpha/tasks", Err: errors.New("connection refused")}
	m = applyCmd(t, m, m.refresh(appsync.ReasonManual))

	if m.notice.Kind != model.NoticeConnectivity {
		t.Fatalf("notice kind = %v, want connectivity", m.notice.Kind)
	}
	if got := len(m.board.Tasks()); got != 2 {
		t.Fatalf("board has %d tasks after a failed fetch, want 2", got)
	}
}

func TestOpenDetailLoadsComments(t *testing.T) {
	h := newHarness(t)
	m := h.signedIn(t)

	m = applyMsg(t, m, tasklist.SelectedTaskMsg{TaskID: 1})

	if m.currentView != ViewDetail {
		t.Fatalf("view = %v, want detail", m.currentView)
	}
	d, ok := m.board.Detail(fixedNow)
	if !ok || len(d.Comments) != 1 {
		t.Fatalf("detail = %+v, ok = %v", d, ok)
	}
	cached, err := h.store.GetComments(context.Background(), 1)
	if err != nil || len(cached) != 1 {
		t.Fatalf("cached comments = %v, err = %v", cached, err)
	}
}

func TestCommentsFallBackToCache(t *testing.T) {
	h := newHarness(t)
	m := h.signedIn(t)

	testutil.SeedComments(t, h.store, 1, model.Comment{ID: 5, TaskID: 1, Text: "From last session"})
	h.api.commentsErr = &gateway.NetworkError{Method: "GET", Path: "/tasks/1/comments", Err: errors.New("timeout")}

	m = applyMsg(t, m, tasklist.SelectedTaskMsg{TaskID: 1})

	d, ok := m.board.Detail(fixedNow)
	if !ok || len(d.Comments) != 1 || d.Comments[0].Text != "From last session" {
		t.Fatalf("detail comments = %+v", d.Comments)
	}
	if m.notice.Kind != model.NoticeConnectivity {
		t.Fatalf("notice kind = %v, want connectivity", m.notice.Kind)
	}
}

func TestAddCommentReloads(t *testing.T) {
	h := newHarness(t)
	m := h.signedIn(t)
	m = applyMsg(t, m, tasklist.SelectedTaskMsg{TaskID: 1})

	m = applyMsg(t, m, detail.CommentMsg{TaskID: 1, Text: "Delivered"})

	d, _ := m.board.Detail(fixedNow)
	if len(d.Comments) != 2 || d.Comments[1].Text != "Delivered" {
		t.Fatalf("comments = %+v", d.Comments)
	}
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	h := newHarness(t)
	m := h.signedIn(t)

	selected, _ := m.taskList.SelectedTask()
	m = applyMsg(t, m, keyRune('d'))

	if m.currentView != ViewConfirm {
		t.Fatalf("view = %v, want confirm", m.currentView)
	}
	if len(h.api.deleted) != 0 {
		t.Fatal("deleted before confirmation")
	}

	cancelled := m
	cmd := cancelled.resolveConfirm(false)
	cancelled = applyCmd(t, cancelled, cmd)
	if len(h.api.deleted) != 0 || cancelled.currentView != ViewList {
		t.Fatalf("cancel deleted %v, view = %v", h.api.deleted, cancelled.currentView)
	}

	cmd = m.resolveConfirm(true)
	m = applyCmd(t, m, cmd)
	if !slices.Equal(h.api.deleted, []int64{selected.ID}) {
		t.Fatalf("deleted = %v, want [%d]", h.api.deleted, selected.ID)
	}
	if _, ok := m.board.Task(selected.ID); ok {
		t.Fatal("deleted task still on the board")
	}
}

func TestDetailClosesWhenTaskDisappears(t *testing.T) {
	h := newHarness(t)
	m := h.signedIn(t)
	m = applyMsg(t, m, tasklist.SelectedTaskMsg{TaskID: 1})

	h.api.tasks["proj_alpha"] = h.api.tasks["proj_alpha"][:1]
	m = applyCmd(t, m, m.refresh(appsync.ReasonInterval))

	if _, open := m.board.DetailID(); open {
		t.Fatal("detail still open for a removed task")
	}
	if m.currentView != ViewList {
		t.Fatalf("view = %v, want list", m.currentView)
	}
}

func TestQuickAddPrefillsForm(t *testing.T) {
	h := newHarness(t)
	m := h.signedIn(t)

	result := quickadd.Result{Title: "Order rebar", DueDate: "2024-03-14", Priority: model.PriorityHigh}
	m = applyMsg(t, m, quickentry.ParsedMsg{Result: result})

	if m.currentView != ViewForm {
		t.Fatalf("view = %v, want form", m.currentView)
	}
	f := m.form.Fields()
	if f.Title != "Order rebar" || f.DueDate != "2024-03-14" || f.Priority != model.PriorityHigh {
		t.Fatalf("fields = %+v", *f)
	}
}

func TestInviteCreatesAndRecords(t *testing.T) {
	h := newHarness(t)
	m := h.signedIn(t)

	m = applyMsg(t, m, inviteview.SubmitMsg{Email: "carol@example.com", Role: model.RoleWorker})

	invs, err := h.store.GetInvitations(context.Background())
	if err != nil {
		t.Fatalf("GetInvitations() error: %v", err)
	}
	if len(invs) != 1 || invs[0].Token != token || invs[0].Source != model.InvitationSent {
		t.Fatalf("invitations = %+v", invs)
	}
	if got := len(m.invitePanel.Invitations()); got != 1 {
		t.Fatalf("panel lists %d invitations, want 1", got)
	}
}

func TestInboxScanRecordsReceived(t *testing.T) {
	h := newHarness(t)
	h.deps.Inbox = fakeInbox{found: []invite.Found{{
		Token:   token,
		Link:    "https://YourAppDomain.com/register?token=" + token,
		Role:    model.RoleForeman,
		Subject: "You're invited to Project Alpha",
	}}}
	m := h.signedIn(t)

	m = applyMsg(t, m, inviteview.ScanMsg{})
	m = applyMsg(t, m, inviteview.ScanMsg{})

	invs, err := h.store.GetInvitations(context.Background())
	if err != nil {
		t.Fatalf("GetInvitations() error: %v", err)
	}
	if len(invs) != 1 {
		t.Fatalf("recorded %d invitations, want 1", len(invs))
	}
	if invs[0].Source != model.InvitationReceived || invs[0].Role != model.RoleForeman {
		t.Fatalf("invitation = %+v", invs[0])
	}
	if got := len(m.invitePanel.Invitations()); got != 1 {
		t.Fatalf("panel lists %d invitations, want 1", got)
	}
}

func TestScanWithoutMailbox(t *testing.T) {
	h := newHarness(t)
	m := h.signedIn(t)

	m = applyMsg(t, m, inviteview.ScanMsg{})

	invs, _ := h.store.GetInvitations(context.Background())
	if len(invs) != 0 {
		t.Fatalf("recorded %d invitations without a mailbox", len(invs))
	}
}

func TestChatCommandOpensConversation(t *testing.T) {
	h := newHarness(t)
	m := h.signedIn(t)

	m = applyMsg(t, m, command.CommandMsg{Name: "chat", Args: []string{"site-crew"}})

	if m.currentView != ViewChat || m.chat.ConversationID() != "site-crew" {
		t.Fatalf("view = %v, conversation = %q", m.currentView, m.chat.ConversationID())
	}
	if m.cfg.Workspace.ConversationID != "site-crew" {
		t.Fatalf("conversation not remembered: %q", m.cfg.Workspace.ConversationID)
	}
	if got := len(m.chat.Messages()); got != 1 {
		t.Fatalf("loaded %d messages, want 1", got)
	}

	m = applyMsg(t, m, chat.SendMsg{ConversationID: "site-crew", Text: "On my way"})
	msgs := m.chat.Messages()
	if len(msgs) != 2 || msgs[1].Text != "On my way" {
		t.Fatalf("messages = %+v", msgs)
	}
}

func TestLogoutForgetsPassword(t *testing.T) {
	h := newHarness(t)
	m := h.signedIn(t)

	m = applyMsg(t, m, command.CommandMsg{Name: "logout"})

	if m.sess.signedIn || !h.api.loggedOut {
		t.Fatal("session not closed")
	}
	if _, ok := h.creds[credential.APIPasswordKey(ownerEmail)]; ok {
		t.Fatal("password still stored after logout")
	}
	if m.board.ProjectID() != "" {
		t.Fatalf("board still on %q", m.board.ProjectID())
	}
	if m.currentView != ViewSettings {
		t.Fatalf("view = %v, want the login form", m.currentView)
	}
}

func TestDeleteUserRequiresOwner(t *testing.T) {
	tests := []struct {
		name string
		role string
		want []string
	}{
		{"owner", model.RoleOwner, []string{"u_bob"}},
		{"foreman", model.RoleForeman, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.api.user.Role = tt.role
			m := h.signedIn(t)

			_ = applyMsg(t, m, command.CommandMsg{Name: "delete-user", Args: []string{"u_bob"}})

			if !slices.Equal(h.api.deletedUsers, tt.want) {
				t.Fatalf("deleted users = %v, want %v", h.api.deletedUsers, tt.want)
			}
		})
	}
}

func TestRefreshWithoutSession(t *testing.T) {
	h := newHarness(t)
	m := h.model()

	_, cmd := m.Update(appsync.RefreshMsg{Reason: appsync.ReasonInterval, At: fixedNow})
	if cmd != nil {
		t.Fatal("refresh issued a fetch without a session")
	}
}

func TestShortcutsIgnoredWhileSearching(t *testing.T) {
	h := newHarness(t)
	m := h.signedIn(t)

	m = applyMsg(t, m, keyRune('/'))
	m = applyMsg(t, m, keyRune('n'))

	if m.currentView != ViewList || m.form.Visible() {
		t.Fatal("n opened the form while typing a search")
	}
}
