package memory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/wolfeidau/aistudio/internal/models"
	"github.com/wolfeidau/aistudio/internal/store"
)

// AgentRunStore implements store.AgentRunStore in memory.
type AgentRunStore struct {
	state *state
}

var _ store.AgentRunStore = (*AgentRunStore)(nil)

func (s *AgentRunStore) Create(_ context.Context, tenantID uuid.UUID, params store.CreateAgentRunParams) (*models.AgentRun, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	// A project owned by another tenant is indistinguishable from a missing
	// one, matching the row security behavior.
	p, ok := s.state.projects[params.ProjectID]
	if !ok || p.UserID != tenantID {
		return nil, store.ErrProjectNotFound
	}

	now := time.Now()
	run := &models.AgentRun{
		ID:        uuid.New(),
		ProjectID: params.ProjectID,
		AgentType: params.AgentType,
		InputData: params.InputData,
		Status:    models.RunStatusRunning,
		StartedAt: now,
	}

	s.state.runs[run.ID] = run
	s.state.runOrder = append(s.state.runOrder, run.ID)

	details, _ := json.Marshal(map[string]string{
		"run_id":     run.ID.String(),
		"agent_type": run.AgentType,
	})
	s.state.appendLog(&models.UsageLog{
		ID:        uuid.New(),
		UserID:    tenantID,
		Action:    models.ActionAgentRunStarted,
		Details:   details,
		CreatedAt: now,
	})

	out := *run
	return &out, nil
}

func (s *AgentRunStore) List(_ context.Context, tenantID uuid.UUID, projectID *uuid.UUID) ([]*models.AgentRun, error) {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	var runs []*models.AgentRun
	for i := len(s.state.runOrder) - 1; i >= 0; i-- {
		run, ok := s.state.runs[s.state.runOrder[i]]
		if !ok {
			continue
		}

		p, ok := s.state.projects[run.ProjectID]
		if !ok || p.UserID != tenantID {
			continue
		}

		if projectID != nil && run.ProjectID != *projectID {
			continue
		}

		out := *run
		runs = append(runs, &out)
	}

	return runs, nil
}
