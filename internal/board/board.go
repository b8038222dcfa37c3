// Package board holds the in-memory task collection of the active project
// and derives the list rows and detail projection rendered by the UI.
//
// The collection is only ever replaced wholesale from a full fetch, so a
// reader sees either the previous snapshot or the new one.
package board

import (
	"context"
	"fmt"
	"time"

	"github.com/nhle/taskgenius/internal/model"
)

// TaskSource lists the tasks of a project.
type TaskSource interface {
	ListTasks(ctx context.Context, projectID string) ([]model.Task, error)
}

// Snapshot is the result of a full fetch of a project's tasks.
type Snapshot struct {
	ProjectID string
	Tasks     []model.Task
	FetchedAt time.Time
}

// Fetch loads a snapshot for projectID. With no project the fetch is
// skipped and ok is false.
func Fetch(ctx context.Context, src TaskSource, projectID string) (snap Snapshot, ok bool, err error) {
	if projectID == "" {
		return Snapshot{}, false, nil
	}
	tasks, err := src.ListTasks(ctx, projectID)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("fetching tasks for %s: %w", projectID, err)
	}
	return Snapshot{ProjectID: projectID, Tasks: tasks, FetchedAt: time.Now()}, true, nil
}

// Board is the task collection plus the open detail view.
type Board struct {
	src       TaskSource
	projectID string
	tasks     []model.Task
	fetchedAt time.Time
	stale     bool

	detailOpen bool
	detailID   int64
	comments   []model.Comment
}

// New returns an empty board backed by src.
func New(src TaskSource) *Board {
	return &Board{src: src}
}

// ProjectID returns the active project, or "" when none is selected.
func (b *Board) ProjectID() string { return b.projectID }

// SetProject switches the active project. The collection is cleared and
// any open detail is closed when the project changes.
func (b *Board) SetProject(id string) {
	if id == b.projectID {
		return
	}
	b.projectID = id
	b.tasks = nil
	b.fetchedAt = time.Time{}
	b.stale = false
	b.CloseDetail()
}

// Replace swaps in a fetched snapshot. Snapshots for another project are
// ignored. The open detail is closed when its task has disappeared.
func (b *Board) Replace(snap Snapshot) {
	if snap.ProjectID != b.projectID {
		return
	}
	tasks := make([]model.Task, len(snap.Tasks))
	copy(tasks, snap.Tasks)
	b.tasks = tasks
	b.fetchedAt = snap.FetchedAt
	b.stale = false

	if b.detailOpen {
		if _, ok := b.Task(b.detailID); !ok {
			b.CloseDetail()
		}
	}
}

// Restore seeds the board from a cached snapshot. The board stays stale
// until the next successful Replace.
func (b *Board) Restore(snap Snapshot) {
	b.projectID = snap.ProjectID
	b.Replace(snap)
	b.stale = true
}

// Refresh fetches and replaces the collection in one call. It is a no-op
// when no project is active. The TUI splits the same steps, running Fetch
// in a tea.Cmd and Replace when the result arrives.
func (b *Board) Refresh(ctx context.Context) error {
	snap, ok, err := Fetch(ctx, b.src, b.projectID)
	if err != nil {
		return err
	}
	if ok {
		b.Replace(snap)
	}
	return nil
}

// Stale reports whether the collection came from the cache and has not
// been confirmed by a fetch.
func (b *Board) Stale() bool { return b.stale }

// FetchedAt returns when the collection was fetched.
func (b *Board) FetchedAt() time.Time { return b.fetchedAt }

// Tasks returns a copy of the collection in server order.
func (b *Board) Tasks() []model.Task {
	out := make([]model.Task, len(b.tasks))
	copy(out, b.tasks)
	return out
}

// Task looks up a task by id.
func (b *Board) Task(id int64) (model.Task, bool) {
	for _, t := range b.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// OpenDetail opens the detail view for id. Previously fetched comments
// are dropped. It reports false when the task is not on the board.
func (b *Board) OpenDetail(id int64) bool {
	if _, ok := b.Task(id); !ok {
		return false
	}
	b.detailOpen = true
	b.detailID = id
	b.comments = nil
	return true
}

// CloseDetail closes the detail view.
func (b *Board) CloseDetail() {
	b.detailOpen = false
	b.detailID = 0
	b.comments = nil
}

// DetailID returns the task shown in the detail view, if one is open.
func (b *Board) DetailID() (int64, bool) {
	return b.detailID, b.detailOpen
}

// SetComments stores the comments fetched for taskID. Comments for a task
// other than the open one are ignored.
func (b *Board) SetComments(taskID int64, comments []model.Comment) {
	if !b.detailOpen || b.detailID != taskID {
		return
	}
	b.comments = append([]model.Comment(nil), comments...)
}

// Row is one line of the task list.
type Row struct {
	Task      model.Task
	Completed bool
	Overdue   bool
}

// Rows returns the list rows with the overdue flag evaluated against now.
func (b *Board) Rows(now time.Time) []Row {
	rows := make([]Row, len(b.tasks))
	for i, t := range b.tasks {
		rows[i] = Row{
			Task:      t,
			Completed: t.IsCompleted(),
			Overdue:   t.IsOverdue(now),
		}
	}
	return rows
}

// Detail is the projection rendered by the detail view.
type Detail struct {
	Row
	Comments []model.Comment
}

// Detail returns the open task and its comments. ok is false when no
// detail view is open.
func (b *Board) Detail(now time.Time) (d Detail, ok bool) {
	if !b.detailOpen {
		return Detail{}, false
	}
	t, found := b.Task(b.detailID)
	if !found {
		return Detail{}, false
	}
	return Detail{
		Row: Row{
			Task:      t,
			Completed: t.IsCompleted(),
			Overdue:   t.IsOverdue(now),
		},
		Comments: append([]model.Comment(nil), b.comments...),
	}, true
}

// Summary counts tasks by state.
type Summary struct {
	Total   int
	Open    int
	Done    int
	Overdue int
}

// Summary returns the counts for the header.
func (b *Board) Summary(now time.Time) Summary {
	var s Summary
	for _, t := range b.tasks {
		s.Total++
		switch {
		case t.IsCompleted():
			s.Done++
		case t.IsOverdue(now):
			s.Open++
			s.Overdue++
		default:
			s.Open++
		}
	}
	return s
}
