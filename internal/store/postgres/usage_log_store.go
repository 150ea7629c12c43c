package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/wolfeidau/aistudio/internal/models"
	"github.com/wolfeidau/aistudio/internal/store"
)

// listUsageLogsLimit caps list responses; logs are append-only and the API
// has no pagination.
const listUsageLogsLimit = 100

// UsageLogStore implements store.UsageLogStore using PostgreSQL.
type UsageLogStore struct {
	db *DB
}

// NewUsageLogStore creates a new PostgreSQL-backed usage log store sharing
// the given DB handle.
func NewUsageLogStore(db *DB) *UsageLogStore {
	return &UsageLogStore{db: db}
}

var _ store.UsageLogStore = (*UsageLogStore)(nil)

// Create appends a usage log entry for the bound tenant.
func (s *UsageLogStore) Create(ctx context.Context, tenantID uuid.UUID, params store.CreateUsageLogParams) (*models.UsageLog, error) {
	var entry models.UsageLog

	err := s.db.WithTenant(ctx, tenantID, func(tx pgx.Tx) error {
		query := `
			INSERT INTO usage_logs (user_id, action, details)
			VALUES ($1, $2, $3)
			RETURNING id, user_id, action, details, created_at
		`

		err := tx.QueryRow(ctx, query, tenantID, params.Action, params.Details).Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Action,
			&entry.Details,
			&entry.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create usage log: %w", mapPostgresError(err))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// List returns the bound tenant's most recent usage logs, newest first.
func (s *UsageLogStore) List(ctx context.Context, tenantID uuid.UUID) ([]*models.UsageLog, error) {
	var logs []*models.UsageLog

	err := s.db.WithTenant(ctx, tenantID, func(tx pgx.Tx) error {
		query := `
			SELECT id, user_id, action, details, created_at
			FROM usage_logs
			ORDER BY created_at DESC
			LIMIT $1
		`

		rows, err := tx.Query(ctx, query, listUsageLogsLimit)
		if err != nil {
			return fmt.Errorf("failed to list usage logs: %w", mapPostgresError(err))
		}
		defer rows.Close()

		for rows.Next() {
			var l models.UsageLog
			if err := rows.Scan(&l.ID, &l.UserID, &l.Action, &l.Details, &l.CreatedAt); err != nil {
				return fmt.Errorf("failed to scan usage log: %w", err)
			}
			logs = append(logs, &l)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return logs, nil
}

// appendUsageLog inserts an audit row on the same bound session and
// transaction as a primary write. Sequenced after the primary statement;
// both commit or roll back together.
func appendUsageLog(ctx context.Context, tx pgx.Tx, tenantID uuid.UUID, action string, details any) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to marshal usage log details: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO usage_logs (user_id, action, details) VALUES ($1, $2, $3)`,
		tenantID, action, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to append usage log: %w", mapPostgresError(err))
	}

	return nil
}
