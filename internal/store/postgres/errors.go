package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/wolfeidau/aistudio/internal/store"
)

// mapPostgresError maps PostgreSQL-specific errors to sentinel errors.
// Returns the original error if it's not a PostgreSQL error or doesn't match
// known patterns.
func mapPostgresError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.InsufficientPrivilege:
		// A write rejected by a row security policy references a row the
		// bound tenant cannot see. Reported as not-found so callers cannot
		// probe for other tenants' rows.
		return store.ErrProjectNotFound

	case pgerrcode.ForeignKeyViolation:
		// Referenced parent row is gone (e.g. project deleted between
		// lookup and insert).
		return fmt.Errorf("%w: %s", store.ErrProjectNotFound, pgErr.Detail)

	case pgerrcode.UniqueViolation:
		return fmt.Errorf("unique constraint violation: %s: %w", pgErr.ConstraintName, err)

	case pgerrcode.InvalidTextRepresentation:
		// The session setting could not be cast to a UUID, meaning the
		// tenant binding itself was malformed.
		return fmt.Errorf("%w: %s", store.ErrTenantBinding, pgErr.Message)

	case pgerrcode.ConnectionException,
		pgerrcode.ConnectionDoesNotExist,
		pgerrcode.ConnectionFailure,
		pgerrcode.CannotConnectNow:
		return fmt.Errorf("database connection error: %w", err)

	case pgerrcode.QueryCanceled:
		return fmt.Errorf("query canceled: %w", err)

	default:
		return fmt.Errorf("postgres error [%s]: %s: %w", pgErr.Code, pgErr.Message, err)
	}
}
