package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"brewhaven-backend/internal/models"
	"brewhaven-backend/internal/services"
)

// relayCORS is the fixed header set the relay attaches to every response,
// including failures. The browser client lives on a different origin; a
// response without these headers is unreadable there, so the handler may
// never emit one.
var relayCORS = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "authorization, x-client-info, apikey, content-type",
	"Access-Control-Allow-Methods": "POST, GET, OPTIONS",
	"Access-Control-Max-Age":       "86400",
}

type replyGenerator interface {
	Configured() bool
	GenerateReply(ctx context.Context, contents []services.GeminiContent) (string, error)
}

// RelayHandler is the stateless coffee-chat endpoint. Each invocation is
// independent; nothing is retained between requests and nothing is retried.
type RelayHandler struct {
	gemini replyGenerator
}

func NewRelayHandler(gemini replyGenerator) *RelayHandler {
	return &RelayHandler{gemini: gemini}
}

func (h *RelayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	for k, v := range relayCORS {
		w.Header().Set(k, v)
	}

	// Preflight succeeds before any validation runs.
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("panic in coffee-chat relay: %v", rec)
			writeRelayJSON(w, http.StatusInternalServerError,
				models.RelayError{Error: fmt.Sprintf("%v", rec)})
		}
	}()

	var req models.RelayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRelayJSON(w, http.StatusBadRequest,
			models.RelayError{Error: "Invalid JSON in request body"})
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeRelayJSON(w, http.StatusBadRequest,
			models.RelayError{Error: "Message is required and must be a non-empty string"})
		return
	}

	history, err := parseHistory(req.ConversationHistory)
	if err != nil {
		writeRelayJSON(w, http.StatusBadRequest,
			models.RelayError{Error: "conversationHistory must be an array"})
		return
	}

	if !h.gemini.Configured() {
		writeRelayJSON(w, http.StatusInternalServerError,
			models.RelayError{Error: "AI service not configured. Please set AI_API_KEY (Google Gemini API key) in the server environment."})
		return
	}

	reply, err := h.gemini.GenerateReply(r.Context(), services.BuildContents(history, req.Message))
	if err != nil {
		status, message := classifyProviderError(err)
		log.Printf("coffee-chat upstream failure: %v", err)
		writeRelayJSON(w, status, models.RelayError{Error: message})
		return
	}

	writeRelayJSON(w, http.StatusOK, models.RelayResponse{Response: reply})
}

// parseHistory rejects a present-but-non-array conversationHistory. Entries
// that are not objects are skipped, matching the permissive handling of
// entries without content further down.
func parseHistory(raw json.RawMessage) ([]models.HistoryEntry, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}

	entries := make([]models.HistoryEntry, 0, len(items))
	for _, item := range items {
		var entry models.HistoryEntry
		if err := json.Unmarshal(item, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// classifyProviderError maps an upstream failure to the status and message
// the client contract promises.
func classifyProviderError(err error) (int, string) {
	if errors.Is(err, services.ErrEmptyReply) {
		return http.StatusInternalServerError, "No response from AI. Please try again."
	}

	var pe *services.ProviderError
	if errors.As(err, &pe) {
		switch pe.StatusCode {
		case http.StatusTooManyRequests:
			return http.StatusTooManyRequests, "Rate limit exceeded. Please try again later."
		case http.StatusBadRequest:
			if pe.Message != "" {
				return http.StatusBadRequest, pe.Message
			}
			if pe.Body != "" {
				return http.StatusBadRequest, pe.Body
			}
			return http.StatusBadRequest, "Invalid request to AI service."
		case http.StatusNotFound:
			return http.StatusNotFound, "Model not found. Please verify your API key has access to Gemini 1.5 Flash."
		}
	}

	return http.StatusInternalServerError, "Failed to get AI response. Please check your API key and try again."
}

func writeRelayJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
