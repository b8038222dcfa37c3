package detail

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskgenius/internal/board"
	"github.com/nhle/taskgenius/internal/keys"
	"github.com/nhle/taskgenius/internal/model"
	"github.com/nhle/taskgenius/tests/testutil"
)

func sampleDetail() board.Detail {
	task := testutil.NewTask(7, "Inspect fence", "2024-03-10", model.StatusToDo)
	return board.Detail{
		Row: board.Row{Task: task, Overdue: true},
		Comments: []model.Comment{
			{ID: 1, TaskID: 7, Text: "Gate hinge is loose", UserName: testutil.Ptr("Worker Bob")},
			{ID: 2, TaskID: 7, Text: "Stop work", IsAlert: true},
		},
	}
}

func TestRenderContent(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 100, 40)
	m.SetDetail(sampleDetail())

	out := m.renderContent()
	for _, want := range []string{"Inspect fence", "OVERDUE", "Unassigned", "2024-03-10", "Comments (2)", "Worker Bob", "Unknown", "Stop work"} {
		if !strings.Contains(out, want) {
			t.Errorf("content missing %q", want)
		}
	}
}

func TestCommentFlow(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 100, 40)
	m.SetDetail(sampleDetail())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	if !m.Commenting() {
		t.Fatal("c did not start a comment")
	}
	m.input.SetValue("  Fixed the hinge ")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.Commenting() {
		t.Fatal("still commenting after enter")
	}
	msg, ok := cmd().(CommentMsg)
	if !ok {
		t.Fatalf("got %T, want CommentMsg", cmd())
	}
	if msg.TaskID != 7 || msg.Text != "Fixed the hinge" {
		t.Fatalf("msg = %+v", msg)
	}
}

func TestCommentEscCancels(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 100, 40)
	m.SetDetail(sampleDetail())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	m.input.SetValue("draft")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.Commenting() || cmd != nil {
		t.Fatal("esc did not cancel the comment")
	}
}

func TestBackWithoutComment(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 100, 40)
	m.SetDetail(sampleDetail())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(BackMsg); !ok {
		t.Fatalf("got %T, want BackMsg", cmd())
	}
}

func TestClear(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 100, 40)
	m.SetDetail(sampleDetail())
	m.Clear()

	if _, ok := m.TaskID(); ok {
		t.Fatal("detail still set after Clear")
	}
	if !strings.Contains(m.View(), "No task selected") {
		t.Fatalf("view = %q", m.View())
	}
}
