package chatclient

import (
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one rendered conversation message. Messages are never mutated
// after creation; an optimistic user message is only ever removed by a
// rollback.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Conversation is the turn state machine as a pure reducer: Begin stages an
// optimistic user message, Commit finalizes the turn with the assistant
// reply, Rollback restores the exact pre-Begin list. Every method returns a
// new value and never aliases the receiver's backing array, so callers can
// hold old states for comparison.
type Conversation struct {
	messages []Message
	staged   bool
}

func NewConversation(messages []Message) Conversation {
	return Conversation{messages: cloneMessages(messages)}
}

// Messages returns a copy of the current list, oldest first.
func (c Conversation) Messages() []Message {
	return cloneMessages(c.messages)
}

func (c Conversation) Len() int {
	return len(c.messages)
}

// Pending reports whether a turn is staged but not yet committed or rolled
// back.
func (c Conversation) Pending() bool {
	return c.staged
}

// Begin appends the optimistic user message for a new turn.
func (c Conversation) Begin(userMsg Message) Conversation {
	next := append(cloneMessages(c.messages), userMsg)
	return Conversation{messages: next, staged: true}
}

// Commit appends the assistant reply and completes the staged turn.
func (c Conversation) Commit(assistantMsg Message) Conversation {
	next := append(cloneMessages(c.messages), assistantMsg)
	return Conversation{messages: next}
}

// Rollback removes the staged user message, restoring the pre-Begin list.
// The assistant never half-completes a turn: a failed turn leaves no trace.
func (c Conversation) Rollback() Conversation {
	if !c.staged || len(c.messages) == 0 {
		return Conversation{messages: cloneMessages(c.messages)}
	}
	return Conversation{messages: cloneMessages(c.messages[:len(c.messages)-1])}
}

func cloneMessages(messages []Message) []Message {
	if len(messages) == 0 {
		return nil
	}
	out := make([]Message, len(messages))
	copy(out, messages)
	return out
}
