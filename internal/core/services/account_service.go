package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/utils/numbering"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// accountNumberAttempts bounds retries when two creates race for the same auto-assigned number.
const accountNumberAttempts = 3

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	uow         portsrepo.UnitOfWork
}

// NewAccountService creates a new account service with the provided options.
// Writes run inside uow so their guards hold until commit.
func NewAccountService(accountRepo portsrepo.AccountReader, uow portsrepo.UnitOfWork, opts ...Option) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService: newBaseService(opts...),
		accountRepo: accountRepo,
		uow:         uow,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, actorID string) (*domain.Account, error) {
	if err := dto.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %s", apperrors.ErrValidation, req.AccountType)
	}
	if req.ParentAccountID != nil && *req.ParentAccountID == "" {
		req.ParentAccountID = nil
	}

	now := s.Now()
	account := domain.Account{
		AccountID:          uuid.NewString(),
		AccountNumber:      req.AccountNumber,
		TenantID:           tenantID,
		Name:               req.Name,
		AccountType:        req.AccountType,
		SubType:            req.SubType,
		CurrencyCode:       strings.ToUpper(req.CurrencyCode),
		ParentAccountID:    req.ParentAccountID,
		Description:        req.Description,
		Balance:            decimal.Zero,
		IsActive:           true,
		IsSystem:           req.IsSystem,
		AllowManualEntries: req.AllowManualEntries == nil || *req.AllowManualEntries,
		AuditFields:        domain.NewAuditFields(actorID, now),
	}

	var err error
	if account.AccountNumber != "" {
		err = s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
			return s.saveWithSuppliedNumber(ctx, tx.Accounts(), account)
		})
	} else {
		err = s.saveWithNextNumber(ctx, &account)
	}
	if err != nil {
		if !apperrors.IsDomainError(err) {
			s.LogError(ctx, err, "Failed to create account", slog.String("tenant_id", tenantID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Account created",
		slog.String("account_id", account.AccountID),
		slog.String("account_number", account.AccountNumber),
		slog.String("tenant_id", tenantID))
	return &account, nil
}

// lockParent share-locks the parent so it cannot be deleted before the child commits.
func lockParent(ctx context.Context, repo portsrepo.AccountRepositoryFacade, tenantID string, parentID *string) error {
	if parentID == nil {
		return nil
	}
	found, err := repo.ShareLockAccounts(ctx, tenantID, []string{*parentID})
	if err != nil {
		return err
	}
	if _, ok := found[*parentID]; !ok {
		return fmt.Errorf("%w: parent account %s not found", apperrors.ErrValidation, *parentID)
	}
	return nil
}

func (s *accountService) saveWithSuppliedNumber(ctx context.Context, repo portsrepo.AccountRepositoryFacade, account domain.Account) error {
	if err := lockParent(ctx, repo, account.TenantID, account.ParentAccountID); err != nil {
		return err
	}
	_, err := repo.FindAccountByNumber(ctx, account.TenantID, account.AccountNumber)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %w: account number %s", apperrors.ErrValidation, apperrors.ErrDuplicate, account.AccountNumber)
	case !errors.Is(err, apperrors.ErrNotFound):
		return err
	}
	if err := repo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
		}
		return err
	}
	return nil
}

// saveWithNextNumber assigns the next free number in the classification range and saves.
// Each attempt is its own transaction; a lost race on the number is retried.
func (s *accountService) saveWithNextNumber(ctx context.Context, account *domain.Account) error {
	prefix := account.AccountType.NumberPrefix()
	var lastErr error
	for attempt := 0; attempt < accountNumberAttempts; attempt++ {
		lastErr = s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
			if err := lockParent(ctx, tx.Accounts(), account.TenantID, account.ParentAccountID); err != nil {
				return err
			}
			highest, err := tx.Accounts().MaxAccountNumber(ctx, account.TenantID, prefix)
			if err != nil {
				return err
			}
			next, err := numbering.NextAccountNumber(prefix, highest)
			if err != nil {
				return fmt.Errorf("%w: %v", apperrors.ErrConflict, err)
			}
			account.AccountNumber = next
			return tx.Accounts().SaveAccount(ctx, *account)
		})
		if lastErr == nil || !errors.Is(lastErr, apperrors.ErrDuplicate) {
			return lastErr
		}
		s.LogDebug(ctx, "Account number taken, retrying", slog.String("account_number", account.AccountNumber))
	}
	return fmt.Errorf("%w: could not assign an account number: %w", apperrors.ErrConflict, lastErr)
}

func (s *accountService) GetAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, tenantID string, params dto.ListAccountsParams) ([]domain.Account, error) {
	filter := portsrepo.AccountFilter{IncludeInactive: params.IncludeInactive}
	if params.AccountType != nil && *params.AccountType != "" {
		t := domain.AccountType(strings.ToUpper(*params.AccountType))
		if !t.IsValid() {
			return nil, fmt.Errorf("%w: unknown account type %s", apperrors.ErrValidation, *params.AccountType)
		}
		filter.AccountType = &t
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, tenantID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("tenant_id", tenantID))
		return nil, err
	}
	return accounts, nil
}

// GetChartOfAccounts builds the account forest from the id-indexed arena.
// Accounts whose parent is missing are returned as roots.
func (s *accountService) GetChartOfAccounts(ctx context.Context, tenantID string) ([]*domain.ChartNode, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, tenantID, portsrepo.AccountFilter{IncludeInactive: true})
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts for chart", slog.String("tenant_id", tenantID))
		return nil, err
	}

	nodes := make(map[string]*domain.ChartNode, len(accounts))
	for _, acc := range accounts {
		nodes[acc.AccountID] = &domain.ChartNode{Account: acc}
	}

	roots := make([]*domain.ChartNode, 0)
	for _, acc := range accounts {
		node := nodes[acc.AccountID]
		if acc.ParentAccountID != nil {
			if parent, ok := nodes[*acc.ParentAccountID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, tenantID, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.Account, error) {
	if err := dto.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	var updated domain.Account
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		locked, err := tx.Accounts().LockAccountsForUpdate(ctx, tenantID, []string{accountID})
		if err != nil {
			return err
		}
		account := locked[accountID]

		if req.Name != nil {
			account.Name = *req.Name
		}
		if req.Description != nil {
			account.Description = *req.Description
		}
		if req.SubType != nil {
			account.SubType = *req.SubType
		}
		if req.IsActive != nil {
			account.IsActive = *req.IsActive
		}
		if req.AllowManualEntries != nil {
			account.AllowManualEntries = *req.AllowManualEntries
		}
		if req.ParentAccountID != nil {
			if *req.ParentAccountID == "" {
				account.ParentAccountID = nil
			} else {
				if err := checkParent(ctx, tx.Accounts(), tenantID, accountID, *req.ParentAccountID); err != nil {
					return err
				}
				parentID := *req.ParentAccountID
				account.ParentAccountID = &parentID
			}
		}

		account.Touch(actorID, s.Now())
		updated = account
		return tx.Accounts().UpdateAccount(ctx, account)
	})
	if err != nil {
		if !apperrors.IsDomainError(err) {
			s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return &updated, nil
}

// checkParent rejects a parent that does not exist or that would close a cycle.
// Every ancestor visited is share-locked, so a concurrent re-parent of any of
// them (which holds that row for update) either waits for this transaction or
// makes it wait and then observe the new edge.
func checkParent(ctx context.Context, repo portsrepo.AccountRepositoryFacade, tenantID, accountID, parentID string) error {
	if parentID == accountID {
		return fmt.Errorf("%w: account cannot be its own parent", apperrors.ErrValidation)
	}

	seen := make(map[string]struct{})
	for cur := parentID; ; {
		if cur == accountID {
			return fmt.Errorf("%w: parent %s would create a cycle", apperrors.ErrValidation, parentID)
		}
		if _, ok := seen[cur]; ok {
			return nil
		}
		seen[cur] = struct{}{}

		found, err := repo.ShareLockAccounts(ctx, tenantID, []string{cur})
		if err != nil {
			return err
		}
		acc, ok := found[cur]
		if !ok {
			if cur == parentID {
				return fmt.Errorf("%w: parent account %s not found", apperrors.ErrValidation, parentID)
			}
			return nil
		}
		if acc.ParentAccountID == nil {
			return nil
		}
		cur = *acc.ParentAccountID
	}
}

// DeleteAccount soft-deletes an account. The row is locked for update first;
// drafts and child accounts share-lock the accounts they reference, so the
// guards below cannot be invalidated before commit.
func (s *accountService) DeleteAccount(ctx context.Context, tenantID, accountID, actorID string) error {
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		locked, err := tx.Accounts().LockAccountsForUpdate(ctx, tenantID, []string{accountID})
		if err != nil {
			return err
		}
		if locked[accountID].IsSystem {
			return fmt.Errorf("%w: account %s is a system account", apperrors.ErrConflict, accountID)
		}

		hasLines, err := tx.Journals().AccountHasLines(ctx, accountID)
		if err != nil {
			return err
		}
		if hasLines {
			return fmt.Errorf("%w: account %s is referenced by journal lines", apperrors.ErrConflict, accountID)
		}

		hasChildren, err := tx.Accounts().HasChildAccounts(ctx, tenantID, accountID)
		if err != nil {
			return err
		}
		if hasChildren {
			return fmt.Errorf("%w: account %s has child accounts", apperrors.ErrConflict, accountID)
		}

		return tx.Accounts().SoftDeleteAccount(ctx, tenantID, accountID, actorID, s.Now())
	})
	if err != nil {
		if !apperrors.IsDomainError(err) {
			s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		}
		return err
	}
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID), slog.String("tenant_id", tenantID))
	return nil
}
