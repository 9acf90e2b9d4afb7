package services

import (
	"github.com/SscSPs/ledger_core/internal/core/ports/messaging"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/platform/config"
	"github.com/SscSPs/ledger_core/internal/platform/lock"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, locker lock.Locker, publisher messaging.EventPublisher, opts ...Option) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Account: NewAccountService(repos.AccountRepo, repos.UnitOfWork, opts...),
		Period:  NewFiscalPeriodService(repos.PeriodRepo, repos.UnitOfWork, opts...),
		Ledger:  NewLedgerService(repos, locker, cfg.EntryNumberPrefix, opts...),
		Outbox:  NewOutboxRelay(repos.OutboxRepo, publisher, cfg.OutboxBatchSize, opts...),
	}
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade      = (*accountService)(nil)
	_ portssvc.FiscalPeriodSvcFacade = (*fiscalPeriodService)(nil)
	_ portssvc.LedgerSvcFacade       = (*ledgerService)(nil)
)
