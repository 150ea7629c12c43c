package models

import (
	"time"

	"github.com/google/uuid"
)

// SystemUserID is the well-known user seeded at provisioning time. Until
// real authentication lands, the HTTP layer resolves every request to this
// tenant.
var SystemUserID = uuid.MustParse("00000000-0000-0000-0000-000000000000")

// User is the tenant root. Every tenant-scoped row is owned, directly or
// via its parent project, by exactly one user.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
