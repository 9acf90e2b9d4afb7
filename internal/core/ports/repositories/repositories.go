package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// The repositories run outside any transaction; transactional work goes through UnitOfWork.
type RepositoryProvider struct {
	AccountRepo AccountRepositoryFacade
	PeriodRepo  FiscalPeriodRepositoryFacade
	JournalRepo JournalRepositoryFacade
	OutboxRepo  OutboxRepositoryFacade
	UnitOfWork  UnitOfWork
}
