package quickentry

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskgenius/internal/model"
)

func fixedNow() time.Time {
	return time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)
}

func TestEnterParsesText(t *testing.T) {
	m := New(80)
	m.now = fixedNow
	m.Focus()
	m.input.SetValue("Order rebar due tomorrow priority high")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(ParsedMsg)
	if !ok {
		t.Fatalf("got %T, want ParsedMsg", cmd())
	}
	r := msg.Result
	if r.Title != "Order rebar" || r.DueDate != "2024-03-14" || r.Priority != model.PriorityHigh {
		t.Fatalf("result = %+v", r)
	}
}

func TestEnterOnBlankDoesNothing(t *testing.T) {
	m := New(80)
	m.Focus()
	m.input.SetValue("   ")

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Fatalf("blank input produced %T", cmd())
	}
}

func TestEscCancels(t *testing.T) {
	m := New(80)
	m.Focus()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(CancelMsg); !ok {
		t.Fatalf("got %T, want CancelMsg", cmd())
	}
}
