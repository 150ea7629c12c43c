package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ProjectStatusActive   = "active"
	ProjectStatusArchived = "archived"
)

// Project belongs to exactly one user (the owning tenant). Rows are only
// visible through a session bound to that tenant.
type Project struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
