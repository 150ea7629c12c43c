package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/aistudio/internal/models"
	"github.com/wolfeidau/aistudio/internal/store"
)

// AgentRunStore implements store.AgentRunStore using PostgreSQL. Runs are
// isolated transitively: the row security policy joins through the parent
// project to its owner.
type AgentRunStore struct {
	db *DB
}

// NewAgentRunStore creates a new PostgreSQL-backed agent run store sharing
// the given DB handle.
func NewAgentRunStore(db *DB) *AgentRunStore {
	return &AgentRunStore{db: db}
}

var _ store.AgentRunStore = (*AgentRunStore)(nil)

// Create starts a run against a project and appends an agent_run_started
// usage log on the same bound session. Inserting against a project the
// tenant does not own fails the row security check and reports
// store.ErrProjectNotFound.
func (s *AgentRunStore) Create(ctx context.Context, tenantID uuid.UUID, params store.CreateAgentRunParams) (*models.AgentRun, error) {
	var run models.AgentRun

	err := s.db.WithTenant(ctx, tenantID, func(tx pgx.Tx) error {
		query := `
			INSERT INTO agent_runs (project_id, agent_type, input_data, status)
			VALUES ($1, $2, $3, 'running')
			RETURNING id, project_id, agent_type, input_data, output_data, status,
			          started_at, completed_at, error_message
		`

		err := tx.QueryRow(ctx, query, params.ProjectID, params.AgentType, params.InputData).Scan(
			&run.ID,
			&run.ProjectID,
			&run.AgentType,
			&run.InputData,
			&run.OutputData,
			&run.Status,
			&run.StartedAt,
			&run.CompletedAt,
			&run.ErrorMessage,
		)
		if err != nil {
			return fmt.Errorf("failed to create agent run: %w", mapPostgresError(err))
		}

		return appendUsageLog(ctx, tx, tenantID, models.ActionAgentRunStarted, map[string]string{
			"run_id":     run.ID.String(),
			"agent_type": run.AgentType,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("run_id", run.ID.String()).
		Str("project_id", run.ProjectID.String()).
		Str("agent_type", run.AgentType).
		Msg("Started agent run")

	return &run, nil
}

// List returns the bound tenant's agent runs, newest first, optionally
// restricted to one project.
func (s *AgentRunStore) List(ctx context.Context, tenantID uuid.UUID, projectID *uuid.UUID) ([]*models.AgentRun, error) {
	var runs []*models.AgentRun

	err := s.db.WithTenant(ctx, tenantID, func(tx pgx.Tx) error {
		query := `
			SELECT id, project_id, agent_type, input_data, output_data, status,
			       started_at, completed_at, error_message
			FROM agent_runs
			ORDER BY started_at DESC
		`
		args := []any{}

		if projectID != nil {
			query = `
				SELECT id, project_id, agent_type, input_data, output_data, status,
				       started_at, completed_at, error_message
				FROM agent_runs
				WHERE project_id = $1
				ORDER BY started_at DESC
			`
			args = append(args, *projectID)
		}

		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to list agent runs: %w", mapPostgresError(err))
		}
		defer rows.Close()

		for rows.Next() {
			var r models.AgentRun
			if err := rows.Scan(&r.ID, &r.ProjectID, &r.AgentType, &r.InputData, &r.OutputData,
				&r.Status, &r.StartedAt, &r.CompletedAt, &r.ErrorMessage); err != nil {
				return fmt.Errorf("failed to scan agent run: %w", err)
			}
			runs = append(runs, &r)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return runs, nil
}
