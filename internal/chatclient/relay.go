package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"brewhaven-backend/internal/models"
)

// RelayStatusError is an in-band error answer from the relay: the request
// arrived and the relay classified the failure into a status code.
type RelayStatusError struct {
	Status  int
	Message string
}

func (e *RelayStatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("relay error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("relay error (status %d)", e.Status)
}

// TransportError means the request never produced a relay response: the
// endpoint is unreachable or not deployed.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("chat service unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPRelay talks to the coffee-chat relay endpoint.
type HTTPRelay struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPRelay takes the full relay URL and the public API key sent as a
// bearer credential.
func NewHTTPRelay(endpoint, apiKey string) *HTTPRelay {
	return &HTTPRelay{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 70 * time.Second},
	}
}

func (c *HTTPRelay) Send(ctx context.Context, message string, history []models.HistoryEntry) (string, error) {
	payload := struct {
		Message             string                `json:"message"`
		ConversationHistory []models.HistoryEntry `json:"conversationHistory"`
	}{
		Message:             message,
		ConversationHistory: history,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var relayErr models.RelayError
		json.Unmarshal(raw, &relayErr)
		return "", &RelayStatusError{Status: resp.StatusCode, Message: relayErr.Error}
	}

	var success models.RelayResponse
	if err := json.Unmarshal(raw, &success); err != nil {
		return "", fmt.Errorf("malformed relay response: %w", err)
	}
	if success.Response == "" {
		return "", fmt.Errorf("malformed relay response: missing response text")
	}
	return success.Response, nil
}
