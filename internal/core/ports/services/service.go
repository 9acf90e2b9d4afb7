package services

import "context"

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Account AccountSvcFacade
	Period  FiscalPeriodSvcFacade
	Ledger  LedgerSvcFacade
	Outbox  OutboxDispatcher
}

// OutboxDispatcher relays committed outbox messages to the broker.
type OutboxDispatcher interface {
	// DispatchPending publishes one batch and returns how many messages were delivered.
	DispatchPending(ctx context.Context) (int, error)
}
