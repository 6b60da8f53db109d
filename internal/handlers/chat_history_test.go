package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"brewhaven-backend/internal/middleware"
	"brewhaven-backend/internal/models"
)

type stubHistoryRepo struct {
	exchanges []models.ChatExchange
	saved     *models.ChatExchange
	lastUser  uuid.UUID
	lastLimit int
	err       error
}

func (s *stubHistoryRepo) Save(ctx context.Context, userID uuid.UUID, message, botResponse string) (*models.ChatExchange, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.lastUser = userID
	saved := &models.ChatExchange{
		ID:        uuid.New(),
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if botResponse != "" {
		saved.BotResponse = &botResponse
	}
	s.saved = saved
	return saved, nil
}

func (s *stubHistoryRepo) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.ChatExchange, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.lastUser = userID
	s.lastLimit = limit
	return s.exchanges, nil
}

func authedRequest(method, target string, body string, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))
}

func TestChatHistoryList(t *testing.T) {
	userID := uuid.New()
	reply := "Try a latte."
	repo := &stubHistoryRepo{
		exchanges: []models.ChatExchange{
			{ID: uuid.New(), UserID: userID, Message: "hi", BotResponse: &reply, CreatedAt: time.Now()},
		},
	}
	h := NewChatHistoryHandler(repo)

	rr := httptest.NewRecorder()
	h.List(rr, authedRequest(http.MethodGet, "/api/v1/chat/history", "", userID))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if repo.lastUser != userID {
		t.Errorf("expected lookup for %s, got %s", userID, repo.lastUser)
	}
	if repo.lastLimit != historyLimit {
		t.Errorf("expected limit %d, got %d", historyLimit, repo.lastLimit)
	}

	var resp struct {
		Exchanges []models.ChatExchange `json:"exchanges"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Exchanges) != 1 || resp.Exchanges[0].Message != "hi" {
		t.Errorf("unexpected exchanges: %+v", resp.Exchanges)
	}
}

func TestChatHistorySave(t *testing.T) {
	userID := uuid.New()
	repo := &stubHistoryRepo{}
	h := NewChatHistoryHandler(repo)

	body := `{"message":"what do you have?","bot_response":"Lots of espresso drinks."}`
	rr := httptest.NewRecorder()
	h.Save(rr, authedRequest(http.MethodPost, "/api/v1/chat/history", body, userID))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if repo.saved == nil {
		t.Fatal("expected exchange to be saved")
	}
	if repo.saved.UserID != userID {
		t.Errorf("expected exchange owned by %s, got %s", userID, repo.saved.UserID)
	}
	if repo.saved.BotResponse == nil || *repo.saved.BotResponse != "Lots of espresso drinks." {
		t.Errorf("unexpected bot response: %v", repo.saved.BotResponse)
	}
}

func TestChatHistorySaveValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "invalid JSON", body: "{not json"},
		{name: "missing message", body: `{"bot_response":"orphaned"}`},
		{name: "whitespace message", body: `{"message":"   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubHistoryRepo{}
			h := NewChatHistoryHandler(repo)

			rr := httptest.NewRecorder()
			h.Save(rr, authedRequest(http.MethodPost, "/api/v1/chat/history", tt.body, uuid.New()))

			if rr.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", rr.Code)
			}
			if repo.saved != nil {
				t.Error("expected nothing saved")
			}
		})
	}
}
