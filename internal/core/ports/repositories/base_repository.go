package repositories

import "context"

// TxFunc is the body of a unit of work. Every read and write inside it goes
// through tx so that it commits or rolls back as one.
type TxFunc func(ctx context.Context, tx TxRepositories) error

// TxRepositories exposes the repositories bound to an open transaction.
type TxRepositories interface {
	Accounts() AccountRepositoryFacade
	Periods() FiscalPeriodRepositoryFacade
	Journals() JournalRepositoryFacade
	Outbox() OutboxRepositoryFacade
}

// UnitOfWork runs a function inside a single storage transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}
