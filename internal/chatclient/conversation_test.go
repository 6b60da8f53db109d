package chatclient

import (
	"testing"
	"time"
)

func msg(id, role, content string) Message {
	return Message{ID: id, Role: role, Content: content, CreatedAt: time.Unix(1700000000, 0)}
}

func assertMessages(t *testing.T, got, want []Message) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("message %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestConversationBeginCommit(t *testing.T) {
	conv := NewConversation([]Message{msg("1", RoleUser, "hi"), msg("2", RoleAssistant, "hello")})

	userMsg := msg("3", RoleUser, "something sweet?")
	staged := conv.Begin(userMsg)

	if !staged.Pending() {
		t.Error("expected staged conversation to be pending")
	}
	if staged.Len() != 3 {
		t.Errorf("expected 3 messages after Begin, got %d", staged.Len())
	}

	assistantMsg := msg("4", RoleAssistant, "Try a mocha.")
	committed := staged.Commit(assistantMsg)

	if committed.Pending() {
		t.Error("expected committed conversation to not be pending")
	}
	assertMessages(t, committed.Messages(), []Message{
		msg("1", RoleUser, "hi"),
		msg("2", RoleAssistant, "hello"),
		userMsg,
		assistantMsg,
	})
}

func TestConversationRollbackRestoresPriorState(t *testing.T) {
	before := NewConversation([]Message{msg("1", RoleUser, "hi"), msg("2", RoleAssistant, "hello")})

	rolled := before.Begin(msg("3", RoleUser, "oops")).Rollback()

	assertMessages(t, rolled.Messages(), before.Messages())
	if rolled.Pending() {
		t.Error("expected rolled-back conversation to not be pending")
	}
}

func TestConversationRollbackWithoutStage(t *testing.T) {
	conv := NewConversation([]Message{msg("1", RoleUser, "hi")})

	rolled := conv.Rollback()

	assertMessages(t, rolled.Messages(), conv.Messages())
}

func TestConversationEmptyRollback(t *testing.T) {
	var conv Conversation

	rolled := conv.Rollback()

	if rolled.Len() != 0 {
		t.Errorf("expected empty conversation, got %d messages", rolled.Len())
	}
}

func TestConversationValueSemantics(t *testing.T) {
	conv := NewConversation([]Message{msg("1", RoleUser, "hi")})

	staged := conv.Begin(msg("2", RoleUser, "more"))
	staged.Commit(msg("3", RoleAssistant, "reply"))

	assertMessages(t, conv.Messages(), []Message{msg("1", RoleUser, "hi")})
	if conv.Pending() {
		t.Error("expected original conversation to be unaffected by Begin")
	}

	got := conv.Messages()
	got[0].Content = "mutated"
	if conv.Messages()[0].Content != "hi" {
		t.Error("expected Messages to return a copy")
	}
}
