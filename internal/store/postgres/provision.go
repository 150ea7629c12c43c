package postgres

import (
	"context"
	"embed"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// provisionLockID is the advisory lock key serialising schema provisioning.
// Arbitrary but fixed: concurrent instances starting against the same
// database queue here instead of racing the existence checks.
const provisionLockID = int64(0x61697374756469) // "aistudi"

// Provision creates the schema, row security policies and seed data if they
// do not already exist. Every statement is idempotent, so it is safe to run
// on every startup; the advisory lock makes a true concurrent first run safe
// as well. Any failure is returned to the caller, which must treat it as
// fatal and not begin serving traffic.
func Provision(ctx context.Context, pool *pgxpool.Pool) error {
	entries, err := schemaFS.ReadDir("schema")
	if err != nil {
		return fmt.Errorf("failed to read schema directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin provisioning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback is safe to call after commit

	// Held until commit; released automatically even if the connection dies.
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", provisionLockID); err != nil {
		return fmt.Errorf("failed to acquire provisioning lock: %w", err)
	}

	for _, name := range names {
		content, err := schemaFS.ReadFile("schema/" + name)
		if err != nil {
			return fmt.Errorf("failed to read schema file %s: %w", name, err)
		}

		log.Debug().Str("file", name).Msg("Applying schema file")

		if _, err := tx.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("schema file %s failed: %w", name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit provisioning: %w", err)
	}

	log.Info().Int("files", len(names)).Msg("Database schema provisioned")
	return nil
}
