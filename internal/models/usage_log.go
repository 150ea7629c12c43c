package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Usage log actions written as side effects of resource creation.
const (
	ActionProjectCreated  = "project_created"
	ActionAgentRunStarted = "agent_run_started"
)

// UsageLog is an append-only audit record owned by a single user. The API
// never updates or deletes these rows.
type UsageLog struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Action    string          `json:"action"`
	Details   json.RawMessage `json:"details,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
