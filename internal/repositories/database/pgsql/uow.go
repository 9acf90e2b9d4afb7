package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxUnitOfWork runs a TxFunc inside one READ COMMITTED transaction. Row
// locks taken inside it wait at most lockTimeout before the statement fails
// with ErrLockTimeout.
type PgxUnitOfWork struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

func newPgxUnitOfWork(pool *pgxpool.Pool, lockTimeout time.Duration) *PgxUnitOfWork {
	return &PgxUnitOfWork{pool: pool, lockTimeout: lockTimeout}
}

var _ portsrepo.UnitOfWork = (*PgxUnitOfWork)(nil)

type pgxTxRepositories struct {
	tx pgx.Tx
}

func (t pgxTxRepositories) Accounts() portsrepo.AccountRepositoryFacade {
	return newPgxAccountRepository(t.tx)
}

func (t pgxTxRepositories) Periods() portsrepo.FiscalPeriodRepositoryFacade {
	return newPgxFiscalPeriodRepository(t.tx)
}

func (t pgxTxRepositories) Journals() portsrepo.JournalRepositoryFacade {
	return newPgxJournalRepository(t.tx)
}

func (t pgxTxRepositories) Outbox() portsrepo.OutboxRepositoryFacade {
	return newPgxOutboxRepository(t.tx)
}

// WithinTx commits when fn returns nil and rolls back on error or panic.
func (u *PgxUnitOfWork) WithinTx(ctx context.Context, fn portsrepo.TxFunc) (err error) {
	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return mapError(err, "begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			u.rollback(ctx, tx)
			panic(p)
		}
		if err != nil {
			u.rollback(ctx, tx)
		}
	}()

	if u.lockTimeout > 0 {
		// SET LOCAL takes no bind parameters; set_config(..., true) is its parameterised form.
		timeout := fmt.Sprintf("%dms", u.lockTimeout.Milliseconds())
		if _, err = tx.Exec(ctx, `SELECT set_config('lock_timeout', $1, true);`, timeout); err != nil {
			return mapError(err, "set lock timeout")
		}
	}

	if err = fn(ctx, pgxTxRepositories{tx: tx}); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return mapError(err, "commit transaction")
	}
	return nil
}

func (u *PgxUnitOfWork) rollback(ctx context.Context, tx pgx.Tx) {
	// the caller's context may already be cancelled; the rollback must still reach the server
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		appErr := apperrors.NewAppError(500, "failed to rollback transaction", err)
		middleware.GetLoggerFromCtx(ctx).Warn(appErr.Error())
	}
}
