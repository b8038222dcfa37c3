// Package form holds the task input state: create or edit mode, the task
// being edited, field values and visibility. It knows nothing about
// rendering; the huh form in ui/taskform binds directly to Fields.
package form

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nhle/taskgenius/internal/model"
	"github.com/nhle/taskgenius/internal/quickadd"
)

// ErrTitleRequired is returned when a submission has a blank title.
var ErrTitleRequired = errors.New("task title is required")

// ErrNoProject is returned when a task is created without an active project.
var ErrNoProject = errors.New("no active project selected")

// Submit button labels.
const (
	LabelAdd  = "Add Task"
	LabelSave = "Save Changes"
)

// Mode is the current form mode.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Fields are the editable values of the form.
type Fields struct {
	Title       string
	Description string
	DueDate     string
	Priority    model.Priority
	AssigneeID  string
}

// DetailCloser closes an open task detail view.
type DetailCloser interface {
	CloseDetail()
}

// TaskWriter issues task mutations against the API.
type TaskWriter interface {
	CreateTask(ctx context.Context, projectID string, in model.TaskInput) (int64, error)
	UpdateTask(ctx context.Context, id int64, in model.TaskInput) error
}

// Refresher re-fetches the task collection.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Controller owns the form state. Use New; the zero value has no detail
// closer and an empty priority.
type Controller struct {
	mode    Mode
	editID  int64
	visible bool
	focus   bool
	fields  *Fields
	detail  DetailCloser
}

// New returns a controller in create mode. detail may be nil.
func New(detail DetailCloser) *Controller {
	c := &Controller{
		fields: &Fields{},
		detail: detail,
	}
	c.Reset()
	return c
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode { return c.mode }

// EditingID returns the id of the task being edited, if any.
func (c *Controller) EditingID() (int64, bool) {
	if c.mode != ModeEdit {
		return 0, false
	}
	return c.editID, true
}

// Visible reports whether the input area is shown.
func (c *Controller) Visible() bool { return c.visible }

// SubmitLabel is the label of the submit action for the current mode.
func (c *Controller) SubmitLabel() string {
	if c.mode == ModeEdit {
		return LabelSave
	}
	return LabelAdd
}

// Fields returns the live field values. The pointer stays valid for the
// lifetime of the controller so form widgets can bind to it.
func (c *Controller) Fields() *Fields { return c.fields }

// TakeFocus reports whether the input area asked to be focused and
// clears the request.
func (c *Controller) TakeFocus() bool {
	f := c.focus
	c.focus = false
	return f
}

// EnterEdit loads task into the form and switches to edit mode.
func (c *Controller) EnterEdit(task model.Task) {
	c.mode = ModeEdit
	c.editID = task.ID
	*c.fields = Fields{
		Title:       task.Title,
		Description: task.DescriptionString(),
		DueDate:     task.DueDateString(),
		Priority:    model.ParsePriority(string(task.Priority)),
		AssigneeID:  task.AssigneeIDString(),
	}
	c.visible = true
	c.focus = true
	if c.detail != nil {
		c.detail.CloseDetail()
	}
}

// Reset returns to create mode with blank fields and hides the form.
func (c *Controller) Reset() {
	c.mode = ModeCreate
	c.editID = 0
	*c.fields = Fields{Priority: model.PriorityMedium}
	c.visible = false
	c.focus = false
}

// Show reveals the form for a new task. An edit in progress is discarded.
func (c *Controller) Show() {
	if c.mode == ModeEdit {
		c.Reset()
	}
	c.visible = true
	c.focus = true
}

// Prefill populates the form from a quick-add result. An edit in progress
// is discarded first. The due date is only replaced when the result has
// one; the assignee is always cleared.
func (c *Controller) Prefill(r quickadd.Result) {
	if c.mode == ModeEdit {
		c.Reset()
	}
	c.fields.Title = r.Title
	c.fields.Description = r.Description
	c.fields.Priority = r.Priority
	if r.HasDueDate() {
		c.fields.DueDate = r.DueDate
	}
	c.fields.AssigneeID = ""
	c.visible = true
	c.focus = true
}

// Submission is a validated create or update request.
type Submission struct {
	Mode      Mode
	TaskID    int64
	ProjectID string
	Input     model.TaskInput
}

// Execute sends the request through w.
func (s Submission) Execute(ctx context.Context, w TaskWriter) error {
	if s.Mode == ModeEdit {
		if err := w.UpdateTask(ctx, s.TaskID, s.Input); err != nil {
			return fmt.Errorf("updating task %d: %w", s.TaskID, err)
		}
		return nil
	}
	if _, err := w.CreateTask(ctx, s.ProjectID, s.Input); err != nil {
		return fmt.Errorf("creating task: %w", err)
	}
	return nil
}

// Submission validates the fields and builds the request for the current
// mode. A blank assignee becomes null on update but falls back to actorID
// on create. The controller state is not changed.
func (c *Controller) Submission(projectID, actorID string) (Submission, error) {
	title := strings.TrimSpace(c.fields.Title)
	if title == "" {
		return Submission{}, ErrTitleRequired
	}

	priority := c.fields.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	in := model.TaskInput{
		Title:       title,
		Description: strings.TrimSpace(c.fields.Description),
		DueDate:     model.StringPtr(c.fields.DueDate),
		Priority:    priority,
		AssigneeID:  model.StringPtr(c.fields.AssigneeID),
	}

	if c.mode == ModeEdit {
		return Submission{Mode: ModeEdit, TaskID: c.editID, Input: in}, nil
	}

	if projectID == "" {
		return Submission{}, ErrNoProject
	}
	if in.AssigneeID == nil {
		in.AssigneeID = model.StringPtr(actorID)
	}
	return Submission{Mode: ModeCreate, ProjectID: projectID, Input: in}, nil
}

// Holds reports whether the form is still on sub: the same mode and, for
// an edit, the same task.
func (c *Controller) Holds(sub Submission) bool {
	if c.mode != sub.Mode {
		return false
	}
	return sub.Mode != ModeEdit || c.editID == sub.TaskID
}

// Submitted records a successful sub. The form is reset to create mode
// only while it still holds sub; a newer edit is left alone. It reports
// whether the form was reset.
func (c *Controller) Submitted(sub Submission) bool {
	if !c.Holds(sub) {
		return false
	}
	c.Reset()
	return true
}

// Submit is the synchronous form of a submission: validate, send, reset
// and refresh in one call. The TUI runs the same steps across tea.Cmds
// (Submission, Execute, Submitted, then a board fetch). On failure the
// form is left as it was. A refresh failure is returned after the form
// has been reset.
func (c *Controller) Submit(ctx context.Context, w TaskWriter, r Refresher, projectID, actorID string) error {
	sub, err := c.Submission(projectID, actorID)
	if err != nil {
		return err
	}
	if err := sub.Execute(ctx, w); err != nil {
		return err
	}
	c.Submitted(sub)
	if r == nil {
		return nil
	}
	if err := r.Refresh(ctx); err != nil {
		return fmt.Errorf("refreshing tasks: %w", err)
	}
	return nil
}
