package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User is a stored account. PasswordHash never serializes to JSON.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ReportRecord is one immutable report snapshot. Data holds the full
// report JSON; title, address and inspector are denormalized for listing.
type ReportRecord struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Title     string          `json:"title"`
	Address   string          `json:"address"`
	Inspector string          `json:"inspector,omitempty"`
	Data      json.RawMessage `json:"data"`
	SavedAt   time.Time       `json:"saved_at"`
}

// ReportSummary is a listing row without the snapshot payload.
type ReportSummary struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Address   string    `json:"address"`
	Inspector string    `json:"inspector,omitempty"`
	SavedAt   time.Time `json:"saved_at"`
}
