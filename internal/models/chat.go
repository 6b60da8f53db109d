package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// HistoryEntry is the wire projection of a conversation message: role plus
// content, nothing else.
type HistoryEntry struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// RelayRequest is the payload accepted by the coffee-chat relay endpoint.
// ConversationHistory stays raw so the handler can distinguish "absent",
// "not an array", and "array of entries" and report each correctly.
type RelayRequest struct {
	Message             string          `json:"message"`
	ConversationHistory json.RawMessage `json:"conversationHistory,omitempty"`
}

// RelayResponse is the relay's success body.
type RelayResponse struct {
	Response string `json:"response"`
}

// RelayError is the relay's failure body. The classification lives in the
// HTTP status code.
type RelayError struct {
	Error string `json:"error"`
}

// ChatExchange is one stored turn: the user's message paired with the
// assistant's reply. BotResponse is nil when the reply was never recorded.
type ChatExchange struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Message     string    `json:"message"`
	BotResponse *string   `json:"bot_response"`
	CreatedAt   time.Time `json:"created_at"`
}

// SaveExchangeRequest is the body of POST /api/v1/chat/history.
type SaveExchangeRequest struct {
	Message     string `json:"message"`
	BotResponse string `json:"bot_response"`
}
