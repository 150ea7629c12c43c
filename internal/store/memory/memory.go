// Package memory provides in-memory implementations of the store
// interfaces for development mode and handler tests. Tenant isolation is
// applied with explicit filtering here; the PostgreSQL implementation
// delegates it to row security policies.
package memory

import (
	"sync"

	"github.com/google/uuid"
	"github.com/wolfeidau/aistudio/internal/models"
)

// state is the shared backing store. A single mutex covers all entities so
// cross-entity operations (cascade delete, usage log side effects) stay
// consistent.
type state struct {
	mu sync.RWMutex

	projects     map[uuid.UUID]*models.Project
	projectOrder []uuid.UUID

	runs     map[uuid.UUID]*models.AgentRun
	runOrder []uuid.UUID

	logs []*models.UsageLog
}

// Stores bundles the in-memory store implementations over one shared state.
type Stores struct {
	Projects *ProjectStore
	Runs     *AgentRunStore
	Logs     *UsageLogStore
}

// New creates a fresh set of in-memory stores.
func New() *Stores {
	st := &state{
		projects: make(map[uuid.UUID]*models.Project),
		runs:     make(map[uuid.UUID]*models.AgentRun),
	}

	return &Stores{
		Projects: &ProjectStore{state: st},
		Runs:     &AgentRunStore{state: st},
		Logs:     &UsageLogStore{state: st},
	}
}

// appendLog records a usage log entry. Caller must hold the write lock.
func (st *state) appendLog(entry *models.UsageLog) {
	st.logs = append(st.logs, entry)
}
