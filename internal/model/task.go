package model

import (
	"strings"
	"time"
)

// Task status values as stored by the API.
const (
	StatusToDo = "To Do"
	StatusDone = "Done"
)

// Priority is one of the closed set of priority labels.
type Priority string

// Priority labels. Medium is the default.
const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities lists the labels in display order.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// ParsePriority normalises a free-text label onto the closed set.
// Unknown or empty labels resolve to PriorityMedium.
func ParsePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return PriorityHigh
	case "low":
		return PriorityLow
	default:
		return PriorityMedium
	}
}

// DateLayout is the ISO calendar date layout used for due dates.
const DateLayout = "2006-01-02"

// Task is a unit of work inside a project.
type Task struct {
	ID           int64     `json:"id" db:"id"`
	ProjectID    string    `json:"project_id,omitempty" db:"project_id"`
	Title        string    `json:"title" db:"title"`
	Description  *string   `json:"description" db:"description"`
	Status       string    `json:"status" db:"status"`
	Completed    bool      `json:"is_completed" db:"is_completed"`
	Priority     Priority  `json:"priority" db:"priority"`
	DueDate      *string   `json:"due_date" db:"due_date"`
	CreatorID    *string   `json:"creator_id,omitempty" db:"creator_id"`
	AssigneeID   *string   `json:"assignee_id" db:"assignee_id"`
	AssigneeName *string   `json:"assignee_name" db:"assignee_name"`
	CreatedAt    string    `json:"created_at,omitempty" db:"created_at"`
}

// IsCompleted reports whether the task is done. The API reports both the
// status label and the derived flag; either one marks completion.
func (t Task) IsCompleted() bool {
	return t.Completed || t.Status == StatusDone
}

// DueDateString returns the due date or "" when none is set.
func (t Task) DueDateString() string {
	if t.DueDate == nil {
		return ""
	}
	return *t.DueDate
}

// DescriptionString returns the description or "" when none is set.
func (t Task) DescriptionString() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}

// AssigneeIDString returns the assignee id or "" when unassigned.
func (t Task) AssigneeIDString() string {
	if t.AssigneeID == nil {
		return ""
	}
	return *t.AssigneeID
}

// IsOverdue reports whether an incomplete task's due date is strictly
// earlier than today. Dates are compared as ISO strings.
func (t Task) IsOverdue(now time.Time) bool {
	due := t.DueDateString()
	if due == "" || t.IsCompleted() {
		return false
	}
	return due < now.Format(DateLayout)
}

// TaskInput is the request body for creating or updating a task.
// AssigneeID and DueDate serialise as null when nil.
type TaskInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     *string  `json:"due_date"`
	Priority    Priority `json:"priority"`
	AssigneeID  *string  `json:"assignee_id"`
}

// StringPtr returns nil for an empty (after trimming) string and a
// pointer to the trimmed value otherwise.
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
