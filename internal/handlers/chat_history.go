package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"brewhaven-backend/internal/middleware"
	"brewhaven-backend/internal/models"
)

// historyLimit caps how many stored pairs a history load returns.
const historyLimit = 50

type chatHistoryRepository interface {
	Save(ctx context.Context, userID uuid.UUID, message, botResponse string) (*models.ChatExchange, error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.ChatExchange, error)
}

type ChatHistoryHandler struct {
	historyRepo chatHistoryRepository
}

func NewChatHistoryHandler(historyRepo chatHistoryRepository) *ChatHistoryHandler {
	return &ChatHistoryHandler{historyRepo: historyRepo}
}

// List returns the authenticated user's stored exchanges, oldest first.
func (h *ChatHistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	exchanges, err := h.historyRepo.ListRecent(r.Context(), userID, historyLimit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load chat history", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"exchanges": exchanges})
}

// Save records one completed turn as a single paired row.
func (h *ChatHistoryHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.SaveExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Message is required", r))
		return
	}

	exchange, err := h.historyRepo.Save(r.Context(), userID, req.Message, req.BotResponse)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save exchange", r))
		return
	}

	writeJSON(w, http.StatusCreated, exchange)
}
