package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/nhle/taskgenius/internal/model"
	"github.com/nhle/taskgenius/internal/store"
)

// NewTestStore opens an in-memory cache with the schema applied. The store
// is closed when the test ends.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})
	return s
}

// SeedTasks caches tasks as the snapshot of projectID fetched at fetchedAt.
func SeedTasks(t *testing.T, s *store.SQLiteStore, projectID string, fetchedAt time.Time, tasks ...model.Task) {
	t.Helper()

	if _, err := s.ReplaceTasks(context.Background(), projectID, tasks, fetchedAt); err != nil {
		t.Fatalf("seeding tasks of %s: %v", projectID, err)
	}
}

// SeedProjects caches the project list.
func SeedProjects(t *testing.T, s *store.SQLiteStore, fetchedAt time.Time, projects ...model.Project) {
	t.Helper()

	if err := s.ReplaceProjects(context.Background(), projects, fetchedAt); err != nil {
		t.Fatalf("seeding projects: %v", err)
	}
}

// SeedComments caches the comments of a task.
func SeedComments(t *testing.T, s *store.SQLiteStore, taskID int64, comments ...model.Comment) {
	t.Helper()

	if err := s.ReplaceComments(context.Background(), taskID, comments); err != nil {
		t.Fatalf("seeding comments of task %d: %v", taskID, err)
	}
}
