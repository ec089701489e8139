// ABOUTME: Tests for the chat screen model
// ABOUTME: Verifies transcript handling, submission, and conversation id tracking

package chat

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeAndSend(t *testing.T, m *Model, text string) tea.Cmd {
	t.Helper()
	m.input.SetValue(text)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

func TestSubmitEmitsMessage(t *testing.T) {
	m := New()

	cmd := typeAndSend(t, m, "what's due today?")
	if cmd == nil {
		t.Fatal("expected a command after enter")
	}

	found := false
	for _, msg := range collectMsgs(cmd) {
		if submit, ok := msg.(SubmitMsg); ok {
			found = true
			if submit.Message != "what's due today?" {
				t.Errorf("unexpected message %q", submit.Message)
			}
			if submit.ConversationID != "" {
				t.Errorf("expected empty conversation id on first turn, got %q", submit.ConversationID)
			}
		}
	}
	if !found {
		t.Error("expected SubmitMsg emitted")
	}
	if !m.waiting {
		t.Error("expected waiting state after submit")
	}
}

func TestReplyTracksConversation(t *testing.T) {
	m := New()
	typeAndSend(t, m, "add a task")

	m.Update(ReplyMsg{Response: "Added it.", ConversationID: "conv-7"})

	if m.waiting {
		t.Error("expected waiting cleared after reply")
	}
	if m.conversationID != "conv-7" {
		t.Errorf("expected conversation id recorded, got %q", m.conversationID)
	}

	cmd := typeAndSend(t, m, "now complete it")
	for _, msg := range collectMsgs(cmd) {
		if submit, ok := msg.(SubmitMsg); ok {
			if submit.ConversationID != "conv-7" {
				t.Errorf("expected follow-up to carry conv-7, got %q", submit.ConversationID)
			}
		}
	}
}

func TestReplyErrorShownInTranscript(t *testing.T) {
	m := New()
	typeAndSend(t, m, "hello")

	m.Update(ReplyMsg{Err: errors.New("backend unreachable")})

	if m.waiting {
		t.Error("expected waiting cleared after error")
	}
	view := m.View()
	if !strings.Contains(view, "backend unreachable") {
		t.Error("expected error text in transcript")
	}
}

func TestBlankInputIgnored(t *testing.T) {
	m := New()

	if cmd := typeAndSend(t, m, "   "); cmd != nil {
		t.Error("expected no command for blank input")
	}
	if m.waiting {
		t.Error("expected no waiting state for blank input")
	}
}

func TestEscCancels(t *testing.T) {
	m := New()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected a command after esc")
	}
	if _, ok := cmd().(CancelledMsg); !ok {
		t.Error("expected CancelledMsg")
	}
}

// collectMsgs flattens a possibly batched command into its messages
func collectMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collectMsgs(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}
