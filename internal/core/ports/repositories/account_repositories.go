package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountFilter narrows ListAccounts.
type AccountFilter struct {
	AccountType     *domain.AccountType
	IncludeInactive bool
}

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a non-deleted account of the tenant.
	FindAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error)

	// FindAccountByNumber retrieves an account by its tenant-unique number.
	FindAccountByNumber(ctx context.Context, tenantID, accountNumber string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs. Missing ids are simply absent from the map.
	FindAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts returns the tenant's non-deleted accounts ordered by account number.
	ListAccounts(ctx context.Context, tenantID string, filter AccountFilter) ([]domain.Account, error)

	// MaxAccountNumber returns the highest account number starting with prefix, or "" when there is none.
	MaxAccountNumber(ctx context.Context, tenantID, prefix string) (string, error)

	// HasChildAccounts reports whether any non-deleted account names accountID as its parent.
	HasChildAccounts(ctx context.Context, tenantID, accountID string) (bool, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount persists the descriptive fields of an account. Balance is not written.
	UpdateAccount(ctx context.Context, account domain.Account) error

	SoftDeleteAccount(ctx context.Context, tenantID, accountID, actorID string, now time.Time) error
}

// AccountTransactionSupport is only meaningful on repositories bound to a transaction.
type AccountTransactionSupport interface {
	// LockAccountsForUpdate loads the accounts and locks them for the rest of the transaction.
	// Rows are locked in ascending id order. A missing account yields apperrors.ErrNotFound.
	LockAccountsForUpdate(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error)

	// ShareLockAccounts loads the non-deleted accounts and holds a shared lock on them until the
	// transaction ends, so they cannot be deleted, deactivated or re-parented meanwhile.
	// Missing ids are simply absent from the map.
	ShareLockAccounts(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalances overwrites the balance of each account with the given value.
	UpdateAccountBalances(ctx context.Context, balances map[string]decimal.Decimal, actorID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}
