package chatclient

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"brewhaven-backend/internal/models"
)

// historyLimit caps a history load at the 50 most recent stored pairs.
const historyLimit = 50

var (
	// ErrEmptyMessage rejects a submission that trims to nothing.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrTurnInFlight is returned when a submission arrives while a prior
	// one is still pending. The conversation is left untouched.
	ErrTurnInFlight = errors.New("a turn is already in flight")
)

// Relay sends one message plus prior history and returns the assistant's
// reply text.
type Relay interface {
	Send(ctx context.Context, message string, history []models.HistoryEntry) (string, error)
}

// HistoryStore persists and recalls completed turns for the signed-in user.
type HistoryStore interface {
	SaveExchange(ctx context.Context, message, botResponse string) error
	ListExchanges(ctx context.Context, limit int) ([]models.ChatExchange, error)
}

// Session drives one user's conversation: optimistic append, relay call,
// commit or full rollback, and fire-and-forget persistence. At most one
// turn is in flight at a time.
type Session struct {
	relay Relay
	store HistoryStore

	mu       sync.Mutex
	conv     Conversation
	inFlight bool

	logf func(format string, args ...interface{})
}

func NewSession(relay Relay, store HistoryStore) *Session {
	return &Session{
		relay: relay,
		store: store,
		logf:  log.Printf,
	}
}

// Messages returns the current conversation, oldest first.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.Messages()
}

// Submit runs one conversational turn end to end. On success the returned
// Message is the appended assistant reply. On any failure the conversation
// is exactly what it was before the call.
func (s *Session) Submit(ctx context.Context, userText string) (Message, error) {
	text := strings.TrimSpace(userText)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return Message{}, ErrTurnInFlight
	}
	s.inFlight = true

	prior := s.conv.Messages()
	userMsg := Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   text,
		CreatedAt: time.Now(),
	}
	s.conv = s.conv.Begin(userMsg)
	s.mu.Unlock()

	// Every exit path releases the pending flag and, unless the turn was
	// committed, rolls the staged message back. Panics included: a relay
	// that blows up must not leave a dangling user turn behind.
	committed := false
	defer func() {
		s.mu.Lock()
		if !committed {
			s.conv = s.conv.Rollback()
		}
		s.inFlight = false
		s.mu.Unlock()
	}()

	reply, err := s.relay.Send(ctx, text, toHistoryEntries(prior))
	if err != nil {
		return Message{}, err
	}

	assistantMsg := Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Content:   reply,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.conv = s.conv.Commit(assistantMsg)
	committed = true
	s.mu.Unlock()

	// Persistence is fire-and-forget: its failure never rolls back the
	// displayed conversation and is only logged.
	go func() {
		pctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.store.SaveExchange(pctx, text, reply); err != nil {
			s.logf("failed to persist chat exchange: %v", err)
		}
	}()

	return assistantMsg, nil
}

// LoadHistory replaces the conversation with the user's stored turns,
// oldest first. Each stored pair expands into a user message and, when a
// reply was recorded, an assistant message. A fetch error fails the whole
// load; nothing partial is rendered.
func (s *Session) LoadHistory(ctx context.Context) error {
	exchanges, err := s.store.ListExchanges(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to load chat history: %w", err)
	}

	messages := make([]Message, 0, len(exchanges)*2)
	for _, ex := range exchanges {
		messages = append(messages, Message{
			ID:        ex.ID.String() + "-user",
			Role:      RoleUser,
			Content:   ex.Message,
			CreatedAt: ex.CreatedAt,
		})
		if ex.BotResponse != nil {
			messages = append(messages, Message{
				ID:        ex.ID.String() + "-bot",
				Role:      RoleAssistant,
				Content:   *ex.BotResponse,
				CreatedAt: ex.CreatedAt,
			})
		}
	}

	s.mu.Lock()
	s.conv = NewConversation(messages)
	s.mu.Unlock()
	return nil
}

// toHistoryEntries projects messages onto the relay's wire form. The relay
// imposes no length cap; the practical bound is what the session holds in
// memory.
func toHistoryEntries(messages []Message) []models.HistoryEntry {
	entries := make([]models.HistoryEntry, 0, len(messages))
	for _, m := range messages {
		entries = append(entries, models.HistoryEntry{Role: m.Role, Content: m.Content})
	}
	return entries
}
