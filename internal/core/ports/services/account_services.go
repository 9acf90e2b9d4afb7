package services

import (
	"context"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	GetAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error)

	// ListAccounts returns the tenant's accounts ordered by account number.
	ListAccounts(ctx context.Context, tenantID string, params dto.ListAccountsParams) ([]domain.Account, error)

	// GetChartOfAccounts returns the active and inactive accounts of the tenant as a forest.
	GetChartOfAccounts(ctx context.Context, tenantID string) ([]*domain.ChartNode, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, actorID string) (*domain.Account, error)

	// UpdateAccount changes descriptive fields and the parent. The balance is never touched.
	UpdateAccount(ctx context.Context, tenantID, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.Account, error)

	// DeleteAccount soft-deletes an account that is not a system account, has no
	// journal lines and no child accounts.
	DeleteAccount(ctx context.Context, tenantID, accountID, actorID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
