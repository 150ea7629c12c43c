package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wolfeidau/aistudio/internal/store"
)

// DB wraps the shared connection pool and hands out tenant-bound units of
// work. Stores never talk to the pool directly; every query runs inside
// WithTenant so the row security policies always see a bound tenant.
type DB struct {
	pool *pgxpool.Pool
}

// NewDB wraps an existing connection pool.
func NewDB(pool *pgxpool.Pool) *DB {
	return &DB{pool: pool}
}

// Open creates the connection pool and wraps it. The caller owns the
// returned DB and must Close it.
func Open(ctx context.Context, cfg *PoolConfig) (*DB, error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &DB{pool: pool}, nil
}

// Pool exposes the underlying pool for provisioning and health checks.
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}

// Close closes the underlying connection pool.
func (d *DB) Close() {
	d.pool.Close()
}

// WithTenant runs fn as a single unit of work bound to tenantID.
//
// It borrows one pooled connection, opens a transaction on it and binds the
// tenant with set_config(..., is_local => true). A transaction-local setting
// expires when the transaction ends, so the binding can never leak into
// another unit of work when the connection returns to the pool, and a
// concurrently borrowed connection can never observe it.
//
// The whole unit of work is one transaction: the primary write and any
// usage log side effect commit or roll back together.
func (d *DB) WithTenant(ctx context.Context, tenantID uuid.UUID, fn func(tx pgx.Tx) error) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback is safe to call after commit

	_, err = tx.Exec(ctx, "SELECT set_config('app.current_user_id', $1, true)", tenantID.String())
	if err != nil {
		return fmt.Errorf("%w: %s", store.ErrTenantBinding, err)
	}

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit unit of work: %w", err)
	}

	return nil
}
