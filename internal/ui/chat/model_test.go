package chat

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskgenius/internal/keys"
	"github.com/nhle/taskgenius/internal/model"
)

func TestEnterSendsToOpenConversation(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.Open("proj_alpha", "Project Alpha", "owner01")
	m.input.SetValue("  Concrete arrives at 7  ")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(SendMsg)
	if !ok {
		t.Fatalf("got %T, want SendMsg", cmd())
	}
	if msg.ConversationID != "proj_alpha" || msg.Text != "Concrete arrives at 7" {
		t.Fatalf("msg = %+v", msg)
	}
}

func TestEnterOnBlankDoesNothing(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.Open("proj_alpha", "Project Alpha", "owner01")

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Fatalf("blank input produced %T", cmd())
	}
}

func TestSetMessagesIgnoresOtherConversation(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.Open("proj_alpha", "Project Alpha", "owner01")

	m.SetMessages("proj_beta", []model.Message{{ID: 1, Text: "wrong room"}})
	if len(m.Messages()) != 0 {
		t.Fatal("messages for another conversation were shown")
	}

	m.SetMessages("proj_alpha", []model.Message{{ID: 2, Text: "hello"}})
	if len(m.Messages()) != 1 {
		t.Fatalf("got %d messages, want 1", len(m.Messages()))
	}
}

func TestOpenOtherConversationClearsTranscript(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.Open("proj_alpha", "Project Alpha", "owner01")
	m.SetMessages("proj_alpha", []model.Message{{ID: 2, Text: "hello"}})

	m.Open("proj_beta", "Project Beta", "owner01")
	if len(m.Messages()) != 0 {
		t.Fatal("transcript kept after switching conversation")
	}
}
