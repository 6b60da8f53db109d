package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"brewhaven-backend/internal/models"
	"brewhaven-backend/internal/repository"
)

type statsCounters interface {
	CountUsers(ctx context.Context) (int, error)
}

type chatCounter interface {
	CountAll(ctx context.Context) (int, error)
}

type CoffeeHandler struct {
	coffeeRepo *repository.CoffeeRepo
	users      statsCounters
	chats      chatCounter
}

func NewCoffeeHandler(coffeeRepo *repository.CoffeeRepo, users statsCounters, chats chatCounter) *CoffeeHandler {
	return &CoffeeHandler{coffeeRepo: coffeeRepo, users: users, chats: chats}
}

func (h *CoffeeHandler) List(w http.ResponseWriter, r *http.Request) {
	coffees, err := h.coffeeRepo.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load coffees", r))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"coffees": coffees})
}

func (h *CoffeeHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.coffeeRepo.ListCategories(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load categories", r))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

func (h *CoffeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	coffee, ok := h.decodeCoffee(w, r)
	if !ok {
		return
	}

	if err := h.coffeeRepo.Create(r.Context(), coffee); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create coffee", r))
		return
	}
	writeJSON(w, http.StatusCreated, coffee)
}

func (h *CoffeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid coffee ID", r))
		return
	}

	coffee, ok := h.decodeCoffee(w, r)
	if !ok {
		return
	}
	coffee.ID = id

	if err := h.coffeeRepo.Update(r.Context(), coffee); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update coffee", r))
		return
	}
	writeJSON(w, http.StatusOK, coffee)
}

func (h *CoffeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid coffee ID", r))
		return
	}

	if err := h.coffeeRepo.Delete(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete coffee", r))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Coffee deleted"})
}

// Stats backs the admin dashboard counters.
func (h *CoffeeHandler) Stats(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.CountUsers(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load stats", r))
		return
	}
	chats, err := h.chats.CountAll(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load stats", r))
		return
	}
	coffees, err := h.coffeeRepo.CountCoffees(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load stats", r))
		return
	}

	writeJSON(w, http.StatusOK, models.AdminStats{
		TotalUsers:   users,
		TotalChats:   chats,
		TotalCoffees: coffees,
	})
}

func (h *CoffeeHandler) decodeCoffee(w http.ResponseWriter, r *http.Request) (*models.Coffee, bool) {
	var req models.CoffeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return nil, false
	}

	fields := make(map[string]string)
	if req.Name == "" {
		fields["name"] = "Name is required"
	}
	if req.Description == "" {
		fields["description"] = "Description is required"
	}
	if req.Type != "Hot" && req.Type != "Cold" {
		fields["type"] = "Type must be Hot or Cold"
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		fields["category_id"] = "Valid category is required"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return nil, false
	}

	return &models.Coffee{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		CategoryID:  categoryID,
		ImageURL:    req.ImageURL,
		Price:       req.Price,
	}, true
}
