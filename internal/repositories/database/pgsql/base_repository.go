package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes the repositories translate into domain errors.
const (
	pgUniqueViolation     = "23505"
	pgExclusionViolation  = "23P01"
	pgForeignKeyViolation = "23503"
	pgLockNotAvailable    = "55P03"
	pgDeadlockDetected    = "40P01"
	pgSerializationFail   = "40001"
)

// dbtx is the subset of pgxpool.Pool and pgx.Tx the repositories need, so the
// same code runs against the pool or inside a unit of work.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	DB dbtx
}

// mapError converts driver errors into the application's error vocabulary.
// action describes the failed operation, e.g. "find account 42".
func mapError(err error, action string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, action)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgExclusionViolation:
			return fmt.Errorf("%w: %s: %s", apperrors.ErrDuplicate, action, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s: %s", apperrors.ErrNotFound, action, pgErr.ConstraintName)
		case pgLockNotAvailable, pgDeadlockDetected, pgSerializationFail:
			return fmt.Errorf("%w: %s", apperrors.ErrLockTimeout, action)
		}
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return apperrors.NewAppError(503, "failed to "+action, errors.Join(apperrors.ErrStoreUnavailable, err))
	}
	return apperrors.NewAppError(500, "failed to "+action, err)
}

// expectAffected turns an UPDATE or DELETE that matched no row into ErrNotFound.
func expectAffected(tag pgconn.CommandTag, action string) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, action)
	}
	return nil
}
