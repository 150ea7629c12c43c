package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AgentRun states. Runs are created in the running state by the API and
// transition to completed or failed when an executor reports back.
const (
	RunStatusPending   = "pending"
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// AgentRun records a single invocation of an agent against a project. The
// input and output payloads are opaque to this service and stored as JSONB.
// Visibility follows the parent project's owner.
type AgentRun struct {
	ID           uuid.UUID       `json:"id"`
	ProjectID    uuid.UUID       `json:"project_id"`
	AgentType    string          `json:"agent_type"`
	InputData    json.RawMessage `json:"input_data,omitempty"`
	OutputData   json.RawMessage `json:"output_data,omitempty"`
	Status       string          `json:"status"`
	StartedAt    time.Time       `json:"started_at"`
	CompletedAt  *time.Time      `json:"completed_at"`
	ErrorMessage *string         `json:"error_message,omitempty"`
}
