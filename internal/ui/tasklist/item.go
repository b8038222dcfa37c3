package tasklist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskgenius/internal/board"
	"github.com/nhle/taskgenius/internal/model"
	"github.com/nhle/taskgenius/internal/theme"
)

// TaskItem wraps a board row so it can be used in a bubbles/list.
type TaskItem struct {
	Row board.Row
}

// FilterValue returns the string used for filtering.
func (i TaskItem) FilterValue() string { return i.Row.Task.Title }

// Title returns the task title for the list.
func (i TaskItem) Title() string { return i.Row.Task.Title }

// Description returns a short summary line for the list.
func (i TaskItem) Description() string {
	parts := []string{i.Row.Task.Status, string(i.Row.Task.Priority)}
	if due := i.Row.Task.DueDateString(); due != "" {
		parts = append(parts, "due "+due)
	}
	return strings.Join(parts, " | ")
}

// TaskDelegate implements list.ItemDelegate for rendering task rows.
type TaskDelegate struct{}

// Height returns the number of lines each item takes.
func (d TaskDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d TaskDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d TaskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single task row.
func (d TaskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}
	fmt.Fprint(w, renderRow(ti.Row, index == m.Index()))
}

// renderRow builds the line for one row: check mark, priority, title,
// assignee, due date and the overdue badge.
func renderRow(row board.Row, isSelected bool) string {
	task := row.Task

	prefix := "○"
	if row.Completed {
		prefix = "✓"
	}

	priBadge := theme.PriorityStyle(task.Priority).Render(priorityLabel(task.Priority))

	assignee := ""
	if task.AssigneeName != nil && *task.AssigneeName != "" {
		assignee = lipgloss.NewStyle().
			Foreground(theme.ColorHighlight).
			Render(" @" + *task.AssigneeName)
	}

	dueDateStr := ""
	if due := task.DueDateString(); due != "" {
		dueDateStr = theme.DueDateStyle.Render(" " + due)
	}

	overdueStr := ""
	if row.Overdue {
		overdueStr = theme.OverdueStyle.Render(" OVERDUE")
	}

	line := fmt.Sprintf("%s %s %s%s%s%s",
		prefix, priBadge, task.Title, assignee, dueDateStr, overdueStr)

	if row.Completed {
		line = theme.DimmedStyle.Render(line)
	}

	if isSelected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

// priorityLabel returns a short label for a priority.
func priorityLabel(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "H"
	case model.PriorityMedium:
		return "M"
	case model.PriorityLow:
		return "L"
	default:
		return "?"
	}
}
