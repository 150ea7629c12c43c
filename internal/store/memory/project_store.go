package memory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/wolfeidau/aistudio/internal/models"
	"github.com/wolfeidau/aistudio/internal/store"
)

// ProjectStore implements store.ProjectStore in memory.
type ProjectStore struct {
	state *state
}

var _ store.ProjectStore = (*ProjectStore)(nil)

func (s *ProjectStore) Create(_ context.Context, tenantID uuid.UUID, params store.CreateProjectParams) (*models.Project, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	now := time.Now()
	project := &models.Project{
		ID:          uuid.New(),
		UserID:      tenantID,
		Name:        params.Name,
		Description: params.Description,
		Status:      models.ProjectStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.state.projects[project.ID] = project
	s.state.projectOrder = append(s.state.projectOrder, project.ID)

	details, _ := json.Marshal(map[string]string{"project_id": project.ID.String()})
	s.state.appendLog(&models.UsageLog{
		ID:        uuid.New(),
		UserID:    tenantID,
		Action:    models.ActionProjectCreated,
		Details:   details,
		CreatedAt: now,
	})

	out := *project
	return &out, nil
}

func (s *ProjectStore) List(_ context.Context, tenantID uuid.UUID) ([]*models.Project, error) {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	var projects []*models.Project
	// Insertion order reversed, matching created_at DESC.
	for i := len(s.state.projectOrder) - 1; i >= 0; i-- {
		p, ok := s.state.projects[s.state.projectOrder[i]]
		if !ok || p.UserID != tenantID {
			continue
		}
		out := *p
		projects = append(projects, &out)
	}

	return projects, nil
}

func (s *ProjectStore) Get(_ context.Context, tenantID uuid.UUID, projectID uuid.UUID) (*models.Project, error) {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	p, ok := s.state.projects[projectID]
	if !ok || p.UserID != tenantID {
		return nil, store.ErrProjectNotFound
	}

	out := *p
	return &out, nil
}

func (s *ProjectStore) Update(_ context.Context, tenantID uuid.UUID, projectID uuid.UUID, params store.UpdateProjectParams) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	p, ok := s.state.projects[projectID]
	if !ok || p.UserID != tenantID {
		return store.ErrProjectNotFound
	}

	if params.Name != nil {
		p.Name = *params.Name
	}
	if params.Description != nil {
		p.Description = params.Description
	}
	p.UpdatedAt = time.Now()

	return nil
}

func (s *ProjectStore) Delete(_ context.Context, tenantID uuid.UUID, projectID uuid.UUID) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	p, ok := s.state.projects[projectID]
	if !ok || p.UserID != tenantID {
		return store.ErrProjectNotFound
	}

	delete(s.state.projects, projectID)

	// Cascade to agent runs, as the database FK does.
	for id, run := range s.state.runs {
		if run.ProjectID == projectID {
			delete(s.state.runs, id)
		}
	}

	return nil
}
