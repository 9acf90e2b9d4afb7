package pgsql

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/models"
	"github.com/SscSPs/ledger_core/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const accountColumns = `account_id, tenant_id, account_number, name, account_type, sub_type, currency_code,
	parent_account_id, description, balance, is_active, is_system, allow_manual_entries, deleted_at,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

func newPgxAccountRepository(db dbtx) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository{DB: db}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.TenantID,
		&m.AccountNumber,
		&m.Name,
		&m.AccountType,
		&m.SubType,
		&m.CurrencyCode,
		&m.ParentAccountID,
		&m.Description,
		&m.Balance,
		&m.IsActive,
		&m.IsSystem,
		&m.AllowManualEntries,
		&m.DeletedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Account{}, err
	}
	return mapping.ToDomainAccount(m), nil
}

func (r *PgxAccountRepository) queryAccounts(ctx context.Context, action, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, action)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, mapError(err, "scan account row")
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, action)
	}
	return accounts, nil
}

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE tenant_id = $1 AND account_id = $2 AND deleted_at IS NULL;`

	acc, err := scanAccount(r.DB.QueryRow(ctx, query, tenantID, accountID))
	if err != nil {
		return nil, mapError(err, "find account "+accountID)
	}
	return &acc, nil
}

// FindAccountByNumber includes soft-deleted accounts: numbers are never reused.
func (r *PgxAccountRepository) FindAccountByNumber(ctx context.Context, tenantID, accountNumber string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE tenant_id = $1 AND account_number = $2;`

	acc, err := scanAccount(r.DB.QueryRow(ctx, query, tenantID, accountNumber))
	if err != nil {
		return nil, mapError(err, "find account number "+accountNumber)
	}
	return &acc, nil
}

func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return out, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE tenant_id = $1 AND account_id = ANY($2) AND deleted_at IS NULL;`

	accounts, err := r.queryAccounts(ctx, "find accounts by ids", query, tenantID, accountIDs)
	if err != nil {
		return nil, err
	}
	for _, acc := range accounts {
		out[acc.AccountID] = acc
	}
	return out, nil
}

func (r *PgxAccountRepository) ListAccounts(ctx context.Context, tenantID string, filter portsrepo.AccountFilter) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE tenant_id = $1 AND deleted_at IS NULL`
	args := []any{tenantID}
	if !filter.IncludeInactive {
		query += ` AND is_active`
	}
	if filter.AccountType != nil {
		args = append(args, string(*filter.AccountType))
		query += fmt.Sprintf(` AND account_type = $%d`, len(args))
	}
	query += ` ORDER BY account_number;`

	return r.queryAccounts(ctx, "list accounts for tenant "+tenantID, query, args...)
}

func (r *PgxAccountRepository) MaxAccountNumber(ctx context.Context, tenantID, prefix string) (string, error) {
	query := `SELECT COALESCE(MAX(account_number), '') FROM accounts
		WHERE tenant_id = $1 AND length(account_number) = 4 AND starts_with(account_number, $2);`

	var highest string
	if err := r.DB.QueryRow(ctx, query, tenantID, prefix).Scan(&highest); err != nil {
		return "", mapError(err, "find highest account number")
	}
	return highest, nil
}

func (r *PgxAccountRepository) HasChildAccounts(ctx context.Context, tenantID, accountID string) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM accounts WHERE tenant_id = $1 AND parent_account_id = $2 AND deleted_at IS NULL);`

	var exists bool
	if err := r.DB.QueryRow(ctx, query, tenantID, accountID).Scan(&exists); err != nil {
		return false, mapError(err, "check child accounts of "+accountID)
	}
	return exists, nil
}

func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := r.DB.Exec(ctx, query,
		m.AccountID,
		m.TenantID,
		m.AccountNumber,
		m.Name,
		m.AccountType,
		m.SubType,
		m.CurrencyCode,
		m.ParentAccountID,
		m.Description,
		m.Balance,
		m.IsActive,
		m.IsSystem,
		m.AllowManualEntries,
		m.DeletedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	return mapError(err, "save account "+m.AccountID)
}

// UpdateAccount persists the descriptive fields. Balance is only ever written by UpdateAccountBalances.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts
		SET name = $3, sub_type = $4, parent_account_id = $5, description = $6,
		    is_active = $7, allow_manual_entries = $8, last_updated_at = $9, last_updated_by = $10
		WHERE tenant_id = $1 AND account_id = $2 AND deleted_at IS NULL;
	`
	tag, err := r.DB.Exec(ctx, query,
		m.TenantID,
		m.AccountID,
		m.Name,
		m.SubType,
		m.ParentAccountID,
		m.Description,
		m.IsActive,
		m.AllowManualEntries,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "update account "+m.AccountID)
	}
	return expectAffected(tag, "update account "+m.AccountID)
}

func (r *PgxAccountRepository) SoftDeleteAccount(ctx context.Context, tenantID, accountID, actorID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET deleted_at = $3, is_active = FALSE, last_updated_at = $3, last_updated_by = $4
		WHERE tenant_id = $1 AND account_id = $2 AND deleted_at IS NULL;
	`
	tag, err := r.DB.Exec(ctx, query, tenantID, accountID, now, actorID)
	if err != nil {
		return mapError(err, "delete account "+accountID)
	}
	return expectAffected(tag, "delete account "+accountID)
}

// LockAccountsForUpdate takes row locks in ascending id order so that two
// postings touching the same accounts cannot deadlock.
func (r *PgxAccountRepository) LockAccountsForUpdate(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	ids := slices.Clone(accountIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE tenant_id = $1 AND account_id = ANY($2) AND deleted_at IS NULL
		ORDER BY account_id
		FOR UPDATE;`

	accounts, err := r.queryAccounts(ctx, "lock accounts", query, tenantID, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		out[acc.AccountID] = acc
	}
	var missing []string
	for _, id := range ids {
		if _, ok := out[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: accounts %s", apperrors.ErrNotFound, strings.Join(missing, ", "))
	}
	return out, nil
}

func (r *PgxAccountRepository) ShareLockAccounts(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return out, nil
	}
	ids := slices.Clone(accountIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE tenant_id = $1 AND account_id = ANY($2) AND deleted_at IS NULL
		ORDER BY account_id
		FOR SHARE;`

	accounts, err := r.queryAccounts(ctx, "share lock accounts", query, tenantID, ids)
	if err != nil {
		return nil, err
	}
	for _, acc := range accounts {
		out[acc.AccountID] = acc
	}
	return out, nil
}

func (r *PgxAccountRepository) UpdateAccountBalances(ctx context.Context, balances map[string]decimal.Decimal, actorID string, now time.Time) error {
	if len(balances) == 0 {
		return nil
	}
	ids := make([]string, 0, len(balances))
	for id := range balances {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	query := `UPDATE accounts SET balance = $1, last_updated_at = $2, last_updated_by = $3 WHERE account_id = $4;`
	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(query, balances[id], now, actorID, id)
	}

	br := r.DB.SendBatch(ctx, batch)
	defer br.Close()
	for _, id := range ids {
		tag, err := br.Exec()
		if err != nil {
			return mapError(err, "update balance of account "+id)
		}
		if err := expectAffected(tag, "update balance of account "+id); err != nil {
			return err
		}
	}
	return nil
}
