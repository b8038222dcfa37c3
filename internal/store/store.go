package store

import (
	"context"
	"errors"
	"time"

	"github.com/nhle/taskgenius/internal/model"
)

// ErrNotCached is returned when no snapshot exists for a project.
var ErrNotCached = errors.New("no cached snapshot")

// TaskSnapshot is the cached task collection of one project.
type TaskSnapshot struct {
	ProjectID  string
	SnapshotID string
	FetchedAt  time.Time
	Tasks      []model.Task
}

// Store is the local snapshot cache of API data. It lets the client start
// with the last known state while the first fetch is in flight.
type Store interface {
	// === Projects ===

	ReplaceProjects(ctx context.Context, projects []model.Project, fetchedAt time.Time) error
	GetProjects(ctx context.Context) ([]model.Project, error)

	// === Task snapshots ===

	ReplaceTasks(ctx context.Context, projectID string, tasks []model.Task, fetchedAt time.Time) (string, error)
	GetTasks(ctx context.Context, projectID string) (TaskSnapshot, error)

	// === Comments ===

	ReplaceComments(ctx context.Context, taskID int64, comments []model.Comment) error
	GetComments(ctx context.Context, taskID int64) ([]model.Comment, error)

	// === Invitations ===

	RecordInvitation(ctx context.Context, inv model.Invitation) (bool, error)
	GetInvitations(ctx context.Context) ([]model.Invitation, error)
}
