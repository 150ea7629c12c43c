package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/aistudio/internal/models"
	"github.com/wolfeidau/aistudio/internal/store"
)

// ProjectStore implements store.ProjectStore using PostgreSQL.
//
// None of the queries carry a tenant predicate. Visibility is enforced by
// the row security policies provisioned at startup, scoped to the tenant
// bound by DB.WithTenant.
type ProjectStore struct {
	db *DB
}

// NewProjectStore creates a new PostgreSQL-backed project store sharing the
// given DB handle.
func NewProjectStore(db *DB) *ProjectStore {
	return &ProjectStore{db: db}
}

var _ store.ProjectStore = (*ProjectStore)(nil)

// Create inserts a new project and appends a project_created usage log on
// the same bound session.
func (s *ProjectStore) Create(ctx context.Context, tenantID uuid.UUID, params store.CreateProjectParams) (*models.Project, error) {
	var project models.Project

	err := s.db.WithTenant(ctx, tenantID, func(tx pgx.Tx) error {
		query := `
			INSERT INTO projects (user_id, name, description)
			VALUES ($1, $2, $3)
			RETURNING id, user_id, name, description, status, created_at, updated_at
		`

		err := tx.QueryRow(ctx, query, tenantID, params.Name, params.Description).Scan(
			&project.ID,
			&project.UserID,
			&project.Name,
			&project.Description,
			&project.Status,
			&project.CreatedAt,
			&project.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create project: %w", mapPostgresError(err))
		}

		return appendUsageLog(ctx, tx, tenantID, models.ActionProjectCreated, map[string]string{
			"project_id": project.ID.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("project_id", project.ID.String()).
		Str("user_id", tenantID.String()).
		Msg("Created project")

	return &project, nil
}

// List returns the bound tenant's projects, newest first.
func (s *ProjectStore) List(ctx context.Context, tenantID uuid.UUID) ([]*models.Project, error) {
	var projects []*models.Project

	err := s.db.WithTenant(ctx, tenantID, func(tx pgx.Tx) error {
		query := `
			SELECT id, user_id, name, description, status, created_at, updated_at
			FROM projects
			ORDER BY created_at DESC
		`

		rows, err := tx.Query(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to list projects: %w", mapPostgresError(err))
		}
		defer rows.Close()

		for rows.Next() {
			var p models.Project
			if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
				return fmt.Errorf("failed to scan project: %w", err)
			}
			projects = append(projects, &p)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return projects, nil
}

// Get retrieves a single project by id. Rows owned by another tenant are
// invisible and report store.ErrProjectNotFound.
func (s *ProjectStore) Get(ctx context.Context, tenantID uuid.UUID, projectID uuid.UUID) (*models.Project, error) {
	var project models.Project

	err := s.db.WithTenant(ctx, tenantID, func(tx pgx.Tx) error {
		query := `
			SELECT id, user_id, name, description, status, created_at, updated_at
			FROM projects
			WHERE id = $1
		`

		err := tx.QueryRow(ctx, query, projectID).Scan(
			&project.ID,
			&project.UserID,
			&project.Name,
			&project.Description,
			&project.Status,
			&project.CreatedAt,
			&project.UpdatedAt,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return store.ErrProjectNotFound
			}
			return fmt.Errorf("failed to get project: %w", mapPostgresError(err))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &project, nil
}

// Update applies partial updates with COALESCE semantics. A zero-row update
// means the project is absent or invisible; both report
// store.ErrProjectNotFound.
func (s *ProjectStore) Update(ctx context.Context, tenantID uuid.UUID, projectID uuid.UUID, params store.UpdateProjectParams) error {
	return s.db.WithTenant(ctx, tenantID, func(tx pgx.Tx) error {
		query := `
			UPDATE projects
			SET name = COALESCE($1, name),
			    description = COALESCE($2, description),
			    updated_at = NOW()
			WHERE id = $3
		`

		tag, err := tx.Exec(ctx, query, params.Name, params.Description, projectID)
		if err != nil {
			return fmt.Errorf("failed to update project: %w", mapPostgresError(err))
		}

		if tag.RowsAffected() == 0 {
			return store.ErrProjectNotFound
		}

		return nil
	})
}

// Delete removes a project; agent runs cascade at the database level.
func (s *ProjectStore) Delete(ctx context.Context, tenantID uuid.UUID, projectID uuid.UUID) error {
	err := s.db.WithTenant(ctx, tenantID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM projects WHERE id = $1`, projectID)
		if err != nil {
			return fmt.Errorf("failed to delete project: %w", mapPostgresError(err))
		}

		if tag.RowsAffected() == 0 {
			return store.ErrProjectNotFound
		}

		return nil
	})
	if err != nil {
		return err
	}

	log.Debug().
		Str("project_id", projectID.String()).
		Str("user_id", tenantID.String()).
		Msg("Deleted project")

	return nil
}
