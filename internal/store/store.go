package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/wolfeidau/aistudio/internal/models"
)

// Sentinel errors for common error conditions.
//
// ErrProjectNotFound is deliberately returned both when a row does not exist
// and when it exists under a different tenant. Callers must not be able to
// distinguish the two, otherwise the API becomes a tenant-existence oracle.
var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrAgentRunNotFound = errors.New("agent run not found")
	ErrTenantBinding    = errors.New("failed to bind tenant to session")
)

// CreateProjectParams carries the caller-supplied fields for a new project.
type CreateProjectParams struct {
	Name        string
	Description *string
}

// UpdateProjectParams updates only the fields that are non-nil, matching
// COALESCE semantics in the store.
type UpdateProjectParams struct {
	Name        *string
	Description *string
}

// CreateAgentRunParams carries the caller-supplied fields for a new run.
type CreateAgentRunParams struct {
	ProjectID uuid.UUID
	AgentType string
	InputData json.RawMessage
}

// CreateUsageLogParams carries the caller-supplied fields for a usage log
// entry.
type CreateUsageLogParams struct {
	Action  string
	Details json.RawMessage
}

// ProjectStore defines project storage operations. Implementations receive
// the acting tenant and are responsible for binding it to the session before
// any query runs; the queries themselves carry no tenant predicates.
type ProjectStore interface {
	Create(ctx context.Context, tenantID uuid.UUID, params CreateProjectParams) (*models.Project, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]*models.Project, error)
	Get(ctx context.Context, tenantID uuid.UUID, projectID uuid.UUID) (*models.Project, error)
	Update(ctx context.Context, tenantID uuid.UUID, projectID uuid.UUID, params UpdateProjectParams) error
	Delete(ctx context.Context, tenantID uuid.UUID, projectID uuid.UUID) error
}

// AgentRunStore defines agent run storage operations. Listing optionally
// filters by project.
type AgentRunStore interface {
	Create(ctx context.Context, tenantID uuid.UUID, params CreateAgentRunParams) (*models.AgentRun, error)
	List(ctx context.Context, tenantID uuid.UUID, projectID *uuid.UUID) ([]*models.AgentRun, error)
}

// UsageLogStore defines usage log storage operations. Logs are append-only.
type UsageLogStore interface {
	Create(ctx context.Context, tenantID uuid.UUID, params CreateUsageLogParams) (*models.UsageLog, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]*models.UsageLog, error)
}
