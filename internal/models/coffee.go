package models

import (
	"time"

	"github.com/google/uuid"
)

type Coffee struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Type        string    `json:"type"` // "Hot" or "Cold"
	CategoryID  uuid.UUID `json:"category_id"`
	ImageURL    *string   `json:"image_url"`
	Price       *float64  `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}

type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type CoffeeRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	CategoryID  string   `json:"category_id"`
	ImageURL    *string  `json:"image_url"`
	Price       *float64 `json:"price"`
}

// AdminStats backs the admin dashboard counters.
type AdminStats struct {
	TotalUsers   int `json:"total_users"`
	TotalChats   int `json:"total_chats"`
	TotalCoffees int `json:"total_coffees"`
}
