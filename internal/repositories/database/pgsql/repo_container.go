package pgsql

import (
	"time"

	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the pool-backed repositories and the unit of
// work. lockTimeout bounds row-lock waits inside transactions.
func NewRepositoryProvider(dbPool *pgxpool.Pool, lockTimeout time.Duration) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo: newPgxAccountRepository(dbPool),
		PeriodRepo:  newPgxFiscalPeriodRepository(dbPool),
		JournalRepo: newPgxJournalRepository(dbPool),
		OutboxRepo:  newPgxOutboxRepository(dbPool),
		UnitOfWork:  newPgxUnitOfWork(dbPool, lockTimeout),
	}
}
