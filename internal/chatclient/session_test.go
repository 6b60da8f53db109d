package chatclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"brewhaven-backend/internal/models"
)

type fakeRelay struct {
	reply   string
	err     error
	block   chan struct{}
	history []models.HistoryEntry
	message string
	calls   int
}

func (r *fakeRelay) Send(ctx context.Context, message string, history []models.HistoryEntry) (string, error) {
	r.calls++
	r.message = message
	r.history = history
	if r.block != nil {
		<-r.block
	}
	return r.reply, r.err
}

type fakeStore struct {
	saves     chan [2]string
	saveErr   error
	exchanges []models.ChatExchange
	listErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{saves: make(chan [2]string, 1)}
}

func (s *fakeStore) SaveExchange(ctx context.Context, message, botResponse string) error {
	s.saves <- [2]string{message, botResponse}
	return s.saveErr
}

func (s *fakeStore) ListExchanges(ctx context.Context, limit int) ([]models.ChatExchange, error) {
	return s.exchanges, s.listErr
}

func TestSubmitSuccess(t *testing.T) {
	relay := &fakeRelay{reply: "Try a mocha."}
	store := newFakeStore()
	session := NewSession(relay, store)

	reply, err := session.Submit(context.Background(), "recommend something sweet")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if reply.Role != RoleAssistant || reply.Content != "Try a mocha." {
		t.Errorf("unexpected reply: %+v", reply)
	}

	messages := session.Messages()
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Role != RoleUser || messages[0].Content != "recommend something sweet" {
		t.Errorf("unexpected user message: %+v", messages[0])
	}
	if messages[1].Role != RoleAssistant || messages[1].Content != "Try a mocha." {
		t.Errorf("unexpected assistant message: %+v", messages[1])
	}

	select {
	case saved := <-store.saves:
		if saved[0] != "recommend something sweet" || saved[1] != "Try a mocha." {
			t.Errorf("unexpected persisted exchange: %v", saved)
		}
	case <-time.After(time.Second):
		t.Error("expected exchange to be persisted")
	}
}

func TestSubmitSendsHistoryWithoutOptimisticMessage(t *testing.T) {
	relay := &fakeRelay{reply: "hello there"}
	session := NewSession(relay, newFakeStore())

	if _, err := session.Submit(context.Background(), "first"); err != nil {
		t.Fatalf("first turn failed: %v", err)
	}
	if len(relay.history) != 0 {
		t.Errorf("expected empty history on first turn, got %d entries", len(relay.history))
	}

	if _, err := session.Submit(context.Background(), "second"); err != nil {
		t.Fatalf("second turn failed: %v", err)
	}
	if len(relay.history) != 2 {
		t.Fatalf("expected 2 history entries on second turn, got %d", len(relay.history))
	}
	if relay.history[0].Role != RoleUser || relay.history[0].Content != "first" {
		t.Errorf("unexpected history entry: %+v", relay.history[0])
	}
	if relay.history[1].Role != RoleAssistant || relay.history[1].Content != "hello there" {
		t.Errorf("unexpected history entry: %+v", relay.history[1])
	}
}

func TestSubmitRollsBackOnRelayError(t *testing.T) {
	relay := &fakeRelay{err: &RelayStatusError{Status: 429, Message: "Rate limit exceeded. Please try again later."}}
	session := NewSession(relay, newFakeStore())

	if _, err := session.Submit(context.Background(), "hi"); err == nil {
		t.Fatal("expected error")
	}

	if len(session.Messages()) != 0 {
		t.Errorf("expected conversation rolled back to empty, got %d messages", len(session.Messages()))
	}
}

func TestSubmitRollsBackOnTransportError(t *testing.T) {
	relay := &fakeRelay{reply: "ok"}
	store := newFakeStore()
	session := NewSession(relay, store)

	if _, err := session.Submit(context.Background(), "hi"); err != nil {
		t.Fatalf("seed turn failed: %v", err)
	}
	<-store.saves
	before := session.Messages()

	relay.err = &TransportError{Err: errors.New("connection refused")}
	relay.reply = ""

	_, err := session.Submit(context.Background(), "again")
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}

	after := session.Messages()
	if len(after) != len(before) {
		t.Fatalf("expected %d messages after rollback, got %d", len(before), len(after))
	}
	for i := range before {
		if after[i] != before[i] {
			t.Errorf("message %d changed after rollback: %+v vs %+v", i, before[i], after[i])
		}
	}
}

type panickyRelay struct{}

func (panickyRelay) Send(ctx context.Context, message string, history []models.HistoryEntry) (string, error) {
	panic("relay blew up")
}

func TestSubmitPanickingRelayRollsBack(t *testing.T) {
	session := NewSession(panickyRelay{}, newFakeStore())

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected the panic to propagate")
			}
		}()
		session.Submit(context.Background(), "hi")
	}()

	if len(session.Messages()) != 0 {
		t.Errorf("expected staged message rolled back, got %d messages", len(session.Messages()))
	}

	// The guard is released too: a later turn on a sane relay works.
	session.relay = &fakeRelay{reply: "ok"}
	if _, err := session.Submit(context.Background(), "hi again"); err != nil {
		t.Errorf("expected follow-up turn to succeed, got %v", err)
	}
}

func TestSubmitRejectsEmptyMessage(t *testing.T) {
	relay := &fakeRelay{}
	session := NewSession(relay, newFakeStore())

	for _, input := range []string{"", "   ", "\n\t"} {
		if _, err := session.Submit(context.Background(), input); !errors.Is(err, ErrEmptyMessage) {
			t.Errorf("input %q: expected ErrEmptyMessage, got %v", input, err)
		}
	}
	if relay.calls != 0 {
		t.Errorf("expected no relay calls, got %d", relay.calls)
	}
}

func TestSubmitRejectsConcurrentTurn(t *testing.T) {
	relay := &fakeRelay{reply: "ok", block: make(chan struct{})}
	session := NewSession(relay, newFakeStore())

	done := make(chan error, 1)
	go func() {
		_, err := session.Submit(context.Background(), "slow turn")
		done <- err
	}()

	// Wait until the first turn is staged.
	deadline := time.After(time.Second)
	for {
		if len(session.Messages()) == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("first turn never staged")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if _, err := session.Submit(context.Background(), "too eager"); !errors.Is(err, ErrTurnInFlight) {
		t.Errorf("expected ErrTurnInFlight, got %v", err)
	}

	close(relay.block)
	if err := <-done; err != nil {
		t.Fatalf("first turn failed: %v", err)
	}

	// The guard is released once the turn completes.
	if _, err := session.Submit(context.Background(), "next"); err != nil {
		t.Errorf("expected follow-up turn to succeed, got %v", err)
	}
}

func TestLoadHistoryExpandsPairs(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	reply := "A latte suits you."
	store := newFakeStore()
	store.exchanges = []models.ChatExchange{
		{ID: first, Message: "what do you have?", BotResponse: &reply, CreatedAt: time.Unix(1700000000, 0)},
		{ID: second, Message: "never answered", BotResponse: nil, CreatedAt: time.Unix(1700000100, 0)},
	}
	session := NewSession(&fakeRelay{}, store)

	if err := session.LoadHistory(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	messages := session.Messages()
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	if messages[0].ID != first.String()+"-user" || messages[0].Role != RoleUser {
		t.Errorf("unexpected first message: %+v", messages[0])
	}
	if messages[1].ID != first.String()+"-bot" || messages[1].Content != reply {
		t.Errorf("unexpected second message: %+v", messages[1])
	}
	if messages[2].ID != second.String()+"-user" || messages[2].Content != "never answered" {
		t.Errorf("unexpected third message: %+v", messages[2])
	}
}

func TestLoadHistoryFailureLeavesConversation(t *testing.T) {
	relay := &fakeRelay{reply: "ok"}
	store := newFakeStore()
	session := NewSession(relay, store)

	if _, err := session.Submit(context.Background(), "hi"); err != nil {
		t.Fatalf("seed turn failed: %v", err)
	}
	<-store.saves

	store.listErr = errors.New("db down")
	if err := session.LoadHistory(context.Background()); err == nil {
		t.Fatal("expected error")
	}

	if len(session.Messages()) != 2 {
		t.Errorf("expected conversation untouched, got %d messages", len(session.Messages()))
	}
}
