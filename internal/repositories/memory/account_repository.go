package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type accountRepo struct {
	v view
}

var _ portsrepo.AccountRepositoryFacade = (*accountRepo)(nil)

func liveAccount(st *state, tenantID, accountID string) (domain.Account, bool) {
	acc, ok := st.accounts[accountID]
	if !ok || acc.TenantID != tenantID || acc.IsDeleted() {
		return domain.Account{}, false
	}
	return acc, true
}

func (r *accountRepo) FindAccountByID(_ context.Context, tenantID, accountID string) (*domain.Account, error) {
	var (
		acc domain.Account
		ok  bool
	)
	r.v.read(func(st *state) { acc, ok = liveAccount(st, tenantID, accountID) })
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return &acc, nil
}

// FindAccountByNumber includes soft-deleted accounts: numbers are never reused.
func (r *accountRepo) FindAccountByNumber(_ context.Context, tenantID, accountNumber string) (*domain.Account, error) {
	var found *domain.Account
	r.v.read(func(st *state) {
		for _, acc := range st.accounts {
			if acc.TenantID == tenantID && acc.AccountNumber == accountNumber {
				found = &acc
				return
			}
		}
	})
	if found == nil {
		return nil, fmt.Errorf("%w: account number %s", apperrors.ErrNotFound, accountNumber)
	}
	return found, nil
}

func (r *accountRepo) FindAccountsByIDs(_ context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	r.v.read(func(st *state) {
		for _, id := range accountIDs {
			if acc, ok := liveAccount(st, tenantID, id); ok {
				out[id] = acc
			}
		}
	})
	return out, nil
}

func (r *accountRepo) ListAccounts(_ context.Context, tenantID string, filter portsrepo.AccountFilter) ([]domain.Account, error) {
	var out []domain.Account
	r.v.read(func(st *state) {
		for _, acc := range st.accounts {
			if acc.TenantID != tenantID || acc.IsDeleted() {
				continue
			}
			if !filter.IncludeInactive && !acc.IsActive {
				continue
			}
			if filter.AccountType != nil && acc.AccountType != *filter.AccountType {
				continue
			}
			out = append(out, acc)
		}
	})
	slices.SortFunc(out, func(a, b domain.Account) int { return strings.Compare(a.AccountNumber, b.AccountNumber) })
	return out, nil
}

func (r *accountRepo) MaxAccountNumber(_ context.Context, tenantID, prefix string) (string, error) {
	highest := ""
	r.v.read(func(st *state) {
		for _, acc := range st.accounts {
			n := acc.AccountNumber
			if acc.TenantID == tenantID && len(n) == 4 && strings.HasPrefix(n, prefix) && n > highest {
				highest = n
			}
		}
	})
	return highest, nil
}

func (r *accountRepo) HasChildAccounts(_ context.Context, tenantID, accountID string) (bool, error) {
	found := false
	r.v.read(func(st *state) {
		for _, acc := range st.accounts {
			if acc.TenantID == tenantID && !acc.IsDeleted() && acc.ParentAccountID != nil && *acc.ParentAccountID == accountID {
				found = true
				return
			}
		}
	})
	return found, nil
}

func (r *accountRepo) SaveAccount(_ context.Context, account domain.Account) error {
	return r.v.write(func(st *state) error {
		if _, exists := st.accounts[account.AccountID]; exists {
			return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
		}
		for _, acc := range st.accounts {
			if acc.TenantID == account.TenantID && acc.AccountNumber == account.AccountNumber {
				return fmt.Errorf("%w: account number %s", apperrors.ErrDuplicate, account.AccountNumber)
			}
		}
		st.accounts[account.AccountID] = account
		return nil
	})
}

func (r *accountRepo) UpdateAccount(_ context.Context, account domain.Account) error {
	return r.v.write(func(st *state) error {
		current, ok := liveAccount(st, account.TenantID, account.AccountID)
		if !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, account.AccountID)
		}
		account.Balance = current.Balance
		st.accounts[account.AccountID] = account
		return nil
	})
}

func (r *accountRepo) SoftDeleteAccount(_ context.Context, tenantID, accountID, actorID string, now time.Time) error {
	return r.v.write(func(st *state) error {
		acc, ok := liveAccount(st, tenantID, accountID)
		if !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		acc.DeletedAt = &now
		acc.IsActive = false
		acc.Touch(actorID, now)
		st.accounts[accountID] = acc
		return nil
	})
}

func (r *accountRepo) LockAccountsForUpdate(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	found, err := r.FindAccountsByIDs(ctx, tenantID, accountIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range accountIDs {
		if _, ok := found[id]; !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return found, nil
}

// ShareLockAccounts needs no extra locking: WithinTx already holds the store exclusively.
func (r *accountRepo) ShareLockAccounts(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	return r.FindAccountsByIDs(ctx, tenantID, accountIDs)
}

func (r *accountRepo) UpdateAccountBalances(_ context.Context, balances map[string]decimal.Decimal, actorID string, now time.Time) error {
	return r.v.write(func(st *state) error {
		for id := range balances {
			if _, ok := st.accounts[id]; !ok {
				return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
			}
		}
		for id, balance := range balances {
			acc := st.accounts[id]
			acc.Balance = balance
			acc.Touch(actorID, now)
			st.accounts[id] = acc
		}
		return nil
	})
}
