package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nhle/taskgenius/internal/model"
	"github.com/nhle/taskgenius/internal/store"
	"github.com/nhle/taskgenius/tests/testutil"
)

var fetchedAt = time.Date(2024, time.March, 13, 9, 30, 0, 0, time.UTC)

func TestMigrationsApplied(t *testing.T) {
	s := testutil.NewTestStore(t)
	v, err := s.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion() error: %v", err)
	}
	if v != 2 {
		t.Fatalf("schema version = %d, want 2", v)
	}
}

func TestGetTasks_NotCached(t *testing.T) {
	s := testutil.NewTestStore(t)
	_, err := s.GetTasks(context.Background(), "proj_alpha")
	if !errors.Is(err, store.ErrNotCached) {
		t.Fatalf("err = %v, want ErrNotCached", err)
	}
}

func TestReplaceTasks_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	fence := testutil.NewTask(2, "Inspect fence", "2024-03-14", model.StatusToDo)
	fence.Description = testutil.Ptr("North side")
	fence.AssigneeID = testutil.Ptr("workerX")
	fence.AssigneeName = testutil.Ptr("Worker Bob")
	fence.Priority = model.PriorityHigh
	rebar := testutil.NewTask(1, "Order rebar", "", model.StatusDone)

	snapID, err := s.ReplaceTasks(ctx, "proj_alpha", []model.Task{fence, rebar}, fetchedAt)
	if err != nil {
		t.Fatalf("ReplaceTasks() error: %v", err)
	}
	if snapID == "" {
		t.Fatal("empty snapshot id")
	}

	snap, err := s.GetTasks(ctx, "proj_alpha")
	if err != nil {
		t.Fatalf("GetTasks() error: %v", err)
	}
	if snap.SnapshotID != snapID {
		t.Fatalf("snapshot id = %q, want %q", snap.SnapshotID, snapID)
	}
	if !snap.FetchedAt.Equal(fetchedAt) {
		t.Fatalf("fetched at = %v, want %v", snap.FetchedAt, fetchedAt)
	}
	if len(snap.Tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(snap.Tasks))
	}

	got := snap.Tasks[0]
	if got.ID != 2 || got.Title != "Inspect fence" || got.Priority != model.PriorityHigh {
		t.Fatalf("first task = %+v, want server order preserved", got)
	}
	if got.DescriptionString() != "North side" || got.DueDateString() != "2024-03-14" || *got.AssigneeName != "Worker Bob" {
		t.Fatalf("optional fields lost: %+v", got)
	}
	if got.CreatorID != nil {
		t.Fatalf("creator = %v, want nil", *got.CreatorID)
	}
	if !snap.Tasks[1].IsCompleted() || !snap.Tasks[1].Completed {
		t.Fatalf("second task should be completed: %+v", snap.Tasks[1])
	}
}

func TestReplaceTasks_IsWholesale(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	first := []model.Task{
		testutil.NewTask(1, "A", "", model.StatusToDo),
		testutil.NewTask(2, "B", "", model.StatusToDo),
	}
	firstID, err := s.ReplaceTasks(ctx, "proj_alpha", first, fetchedAt)
	if err != nil {
		t.Fatalf("ReplaceTasks() error: %v", err)
	}
	if err := s.ReplaceComments(ctx, 2, []model.Comment{{ID: 10, Text: "kept"}}); err != nil {
		t.Fatalf("ReplaceComments() error: %v", err)
	}
	if err := s.ReplaceComments(ctx, 1, []model.Comment{{ID: 11, Text: "dropped"}}); err != nil {
		t.Fatalf("ReplaceComments() error: %v", err)
	}

	renamed := testutil.NewTask(2, "B renamed", "", model.StatusDone)
	secondID, err := s.ReplaceTasks(ctx, "proj_alpha", []model.Task{renamed}, fetchedAt.Add(time.Minute))
	if err != nil {
		t.Fatalf("ReplaceTasks() error: %v", err)
	}
	if secondID == firstID {
		t.Fatal("snapshot id should change on replace")
	}

	snap, err := s.GetTasks(ctx, "proj_alpha")
	if err != nil {
		t.Fatalf("GetTasks() error: %v", err)
	}
	if len(snap.Tasks) != 1 || snap.Tasks[0].Title != "B renamed" {
		t.Fatalf("tasks = %+v", snap.Tasks)
	}

	kept, err := s.GetComments(ctx, 2)
	if err != nil {
		t.Fatalf("GetComments() error: %v", err)
	}
	if len(kept) != 1 {
		t.Fatalf("comments of surviving task = %d, want 1", len(kept))
	}
	dropped, err := s.GetComments(ctx, 1)
	if err != nil {
		t.Fatalf("GetComments() error: %v", err)
	}
	if len(dropped) != 0 {
		t.Fatalf("comments of deleted task = %d, want 0", len(dropped))
	}
}

func TestReplaceTasks_EmptyClearsProject(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	if _, err := s.ReplaceTasks(ctx, "proj_alpha", []model.Task{testutil.NewTask(1, "A", "", model.StatusToDo)}, fetchedAt); err != nil {
		t.Fatalf("ReplaceTasks() error: %v", err)
	}
	beta := testutil.NewTask(5, "Beta task", "", model.StatusToDo)
	if _, err := s.ReplaceTasks(ctx, "proj_beta", []model.Task{beta}, fetchedAt); err != nil {
		t.Fatalf("ReplaceTasks() error: %v", err)
	}
	if _, err := s.ReplaceTasks(ctx, "proj_alpha", nil, fetchedAt); err != nil {
		t.Fatalf("ReplaceTasks() error: %v", err)
	}

	alpha, err := s.GetTasks(ctx, "proj_alpha")
	if err != nil {
		t.Fatalf("GetTasks() error: %v", err)
	}
	if len(alpha.Tasks) != 0 {
		t.Fatalf("alpha tasks = %d, want 0", len(alpha.Tasks))
	}
	other, err := s.GetTasks(ctx, "proj_beta")
	if err != nil {
		t.Fatalf("GetTasks() error: %v", err)
	}
	if len(other.Tasks) != 1 || other.Tasks[0].ProjectID != "proj_beta" {
		t.Fatalf("beta tasks = %+v", other.Tasks)
	}
}

func TestComments_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	if _, err := s.ReplaceTasks(ctx, "proj_alpha", []model.Task{testutil.NewTask(4, "Fence", "", model.StatusToDo)}, fetchedAt); err != nil {
		t.Fatalf("ReplaceTasks() error: %v", err)
	}
	comments := []model.Comment{
		{ID: 1, Text: "Posts loose", UserName: testutil.Ptr("Foreman Alice"), CreatedAt: "2024-03-13T09:30:00"},
		{ID: 2, Text: "Fixed", IsAlert: true, CreatedAt: "2024-03-13T11:00:00"},
	}
	if err := s.ReplaceComments(ctx, 4, comments); err != nil {
		t.Fatalf("ReplaceComments() error: %v", err)
	}

	got, err := s.GetComments(ctx, 4)
	if err != nil {
		t.Fatalf("GetComments() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d comments, want 2", len(got))
	}
	if got[0].Author() != "Foreman Alice" || got[0].TaskID != 4 {
		t.Fatalf("first comment = %+v", got[0])
	}
	if got[1].Author() != "Unknown" || !got[1].IsAlert {
		t.Fatalf("second comment = %+v", got[1])
	}
}

func TestComments_RequireCachedTask(t *testing.T) {
	s := testutil.NewTestStore(t)
	err := s.ReplaceComments(context.Background(), 99, []model.Comment{{ID: 1, Text: "orphan"}})
	if err == nil {
		t.Fatal("expected foreign key error for uncached task")
	}
}

func TestProjects_Replace(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	first := []model.Project{
		{ID: "proj_beta", Name: "Project Beta"},
		{ID: "proj_alpha", Name: "Project Alpha", Description: testutil.Ptr("Renovation of library.")},
	}
	if err := s.ReplaceProjects(ctx, first, fetchedAt); err != nil {
		t.Fatalf("ReplaceProjects() error: %v", err)
	}
	if err := s.ReplaceProjects(ctx, first[1:], fetchedAt); err != nil {
		t.Fatalf("ReplaceProjects() error: %v", err)
	}

	got, err := s.GetProjects(ctx)
	if err != nil {
		t.Fatalf("GetProjects() error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "proj_alpha" {
		t.Fatalf("projects = %+v", got)
	}
	if got[0].Description == nil || *got[0].Description != "Renovation of library." {
		t.Fatalf("description = %v", got[0].Description)
	}
	if !got[0].FetchedAt.Equal(fetchedAt) {
		t.Fatalf("fetched at = %v, want %v", got[0].FetchedAt, fetchedAt)
	}
}

func TestRecordInvitation_Dedupes(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	inv := model.Invitation{
		Token:      "8d0f4c1e-3b1a-4c55-9a8e-2f5d6b7c8e90",
		Email:      "carol@example.com",
		Role:       model.RoleWorker,
		InviteLink: "https://YourAppDomain.com/register?token=8d0f4c1e-3b1a-4c55-9a8e-2f5d6b7c8e90",
		Source:     model.InvitationReceived,
	}
	added, err := s.RecordInvitation(ctx, inv)
	if err != nil || !added {
		t.Fatalf("first RecordInvitation() = %v, %v; want true, nil", added, err)
	}
	added, err = s.RecordInvitation(ctx, inv)
	if err != nil || added {
		t.Fatalf("second RecordInvitation() = %v, %v; want false, nil", added, err)
	}

	if _, err := s.RecordInvitation(ctx, model.Invitation{Email: "x@example.com"}); err == nil {
		t.Fatal("expected error for missing token")
	}

	got, err := s.GetInvitations(ctx)
	if err != nil {
		t.Fatalf("GetInvitations() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d invitations, want 1", len(got))
	}
	if got[0].Status != model.InvitationPending || got[0].Source != model.InvitationReceived {
		t.Fatalf("invitation = %+v", got[0])
	}
}
