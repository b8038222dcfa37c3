package testutil

import "github.com/nhle/taskgenius/internal/model"

// Ptr returns a pointer to s.
func Ptr(s string) *string { return &s }

// NewTask builds a task in proj_alpha. An empty due leaves the due date
// unset; status Done marks it completed.
func NewTask(id int64, title, due, status string) model.Task {
	t := model.Task{
		ID:        id,
		ProjectID: "proj_alpha",
		Title:     title,
		Status:    status,
		Completed: status == model.StatusDone,
		Priority:  model.PriorityMedium,
	}
	if due != "" {
		t.DueDate = Ptr(due)
	}
	return t
}
