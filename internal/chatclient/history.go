package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"brewhaven-backend/internal/models"
)

// HTTPHistoryStore talks to the backend's chat history endpoints with the
// signed-in user's access token.
type HTTPHistoryStore struct {
	baseURL     string
	accessToken string
	client      *http.Client
}

func NewHTTPHistoryStore(baseURL, accessToken string) *HTTPHistoryStore {
	return &HTTPHistoryStore{
		baseURL:     baseURL,
		accessToken: accessToken,
		client:      &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *HTTPHistoryStore) SaveExchange(ctx context.Context, message, botResponse string) error {
	body, err := json.Marshal(models.SaveExchangeRequest{
		Message:     message,
		BotResponse: botResponse,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal exchange: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/api/v1/chat/history", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("save exchange failed with status %d", resp.StatusCode)
	}
	return nil
}

func (s *HTTPHistoryStore) ListExchanges(ctx context.Context, limit int) ([]models.ChatExchange, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.baseURL+"/api/v1/chat/history?limit="+strconv.Itoa(limit), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list exchanges failed with status %d", resp.StatusCode)
	}

	var payload struct {
		Exchanges []models.ChatExchange `json:"exchanges"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	return payload.Exchanges, nil
}
