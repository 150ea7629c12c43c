package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wolfeidau/aistudio/internal/models"
	"github.com/wolfeidau/aistudio/internal/store"
)

const listUsageLogsLimit = 100

// UsageLogStore implements store.UsageLogStore in memory.
type UsageLogStore struct {
	state *state
}

var _ store.UsageLogStore = (*UsageLogStore)(nil)

func (s *UsageLogStore) Create(_ context.Context, tenantID uuid.UUID, params store.CreateUsageLogParams) (*models.UsageLog, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	entry := &models.UsageLog{
		ID:        uuid.New(),
		UserID:    tenantID,
		Action:    params.Action,
		Details:   params.Details,
		CreatedAt: time.Now(),
	}
	s.state.appendLog(entry)

	out := *entry
	return &out, nil
}

func (s *UsageLogStore) List(_ context.Context, tenantID uuid.UUID) ([]*models.UsageLog, error) {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	var logs []*models.UsageLog
	for i := len(s.state.logs) - 1; i >= 0 && len(logs) < listUsageLogsLimit; i-- {
		entry := s.state.logs[i]
		if entry.UserID != tenantID {
			continue
		}
		out := *entry
		logs = append(logs, &out)
	}

	return logs, nil
}
