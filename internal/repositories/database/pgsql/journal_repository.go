package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/models"
	"github.com/SscSPs/ledger_core/internal/utils/mapping"
	"github.com/SscSPs/ledger_core/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

const entryColumns = `entry_id, tenant_id, entry_number, entry_date, reference, description, fiscal_period_id,
	status, total_debit, total_credit, currency_code, source, posted_at, posted_by,
	reversed_entry_id, reversal_of_entry_id, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, line_no, account_id, description, debit_amount, credit_amount,
	currency_code, exchange_rate, created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
}

func newPgxJournalRepository(db dbtx) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository{DB: db}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanEntry(row pgx.Row) (domain.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.TenantID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.Reference,
		&m.Description,
		&m.FiscalPeriodID,
		&m.Status,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.CurrencyCode,
		&m.Source,
		&m.PostedAt,
		&m.PostedBy,
		&m.ReversedEntryID,
		&m.ReversalOfEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	return mapping.ToDomainJournalEntry(m), nil
}

func (r *PgxJournalRepository) findEntry(ctx context.Context, tenantID, entryID, lockClause string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries
		WHERE tenant_id = $1 AND entry_id = $2` + lockClause + `;`

	entry, err := scanEntry(r.DB.QueryRow(ctx, query, tenantID, entryID))
	if err != nil {
		return nil, mapError(err, "find journal entry "+entryID)
	}
	return &entry, nil
}

func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, tenantID, entryID, "")
}

func (r *PgxJournalRepository) FindEntryForUpdate(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, tenantID, entryID, " FOR UPDATE")
}

func (r *PgxJournalRepository) FindEntryByNumber(ctx context.Context, tenantID, entryNumber string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries
		WHERE tenant_id = $1 AND entry_number = $2;`

	entry, err := scanEntry(r.DB.QueryRow(ctx, query, tenantID, entryNumber))
	if err != nil {
		return nil, mapError(err, "find journal entry number "+entryNumber)
	}
	return &entry, nil
}

func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE entry_id = $1 ORDER BY line_no;`

	rows, err := r.DB.Query(ctx, query, entryID)
	if err != nil {
		return nil, mapError(err, "query lines for journal entry "+entryID)
	}
	defer rows.Close()

	var lines []domain.JournalLine
	for rows.Next() {
		var m models.JournalLine
		err := rows.Scan(
			&m.LineID,
			&m.EntryID,
			&m.LineNo,
			&m.AccountID,
			&m.Description,
			&m.DebitAmount,
			&m.CreditAmount,
			&m.CurrencyCode,
			&m.ExchangeRate,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, mapError(err, "scan line row for journal entry "+entryID)
		}
		lines = append(lines, mapping.ToDomainJournalLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate lines for journal entry "+entryID)
	}
	return lines, nil
}

// ListEntries pages through entries newest first. The sort key is
// (entry_date, created_at, entry_id) so the order is total and the cursor
// comparison never skips or repeats rows.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, tenantID string, filter portsrepo.EntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE tenant_id = $1`
	args := []any{tenantID}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if filter.FiscalPeriodID != nil {
		args = append(args, *filter.FiscalPeriodID)
		query += fmt.Sprintf(` AND fiscal_period_id = $%d`, len(args))
	}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, cursor.EntryDate, cursor.CreatedAt, cursor.EntryID)
		n := len(args)
		query += fmt.Sprintf(` AND (entry_date, created_at, entry_id) < ($%d::date, $%d, $%d)`, n-2, n-1, n)
	}
	args = append(args, fetchLimit)
	query += fmt.Sprintf(` ORDER BY entry_date DESC, created_at DESC, entry_id DESC LIMIT $%d;`, len(args))

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapError(err, "list journal entries for tenant "+tenantID)
	}
	defer rows.Close()

	entries := make([]domain.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, nil, mapError(err, "scan journal entry row")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, mapError(err, "iterate journal entry rows")
	}

	if len(entries) <= limit {
		return entries, nil, nil
	}
	page := entries[:limit]
	last := page[limit-1]
	token := pagination.EncodeToken(last.EntryDate, last.CreatedAt, last.EntryID)
	return page, &token, nil
}

func (r *PgxJournalRepository) MaxEntrySequence(ctx context.Context, tenantID, bucket string) (int, error) {
	// Compared numerically so a sixth digit sorts above 99999.
	query := `
		SELECT COALESCE(MAX(seq::bigint), 0)
		FROM (
			SELECT substr(entry_number, length($2) + 1) AS seq
			FROM journal_entries
			WHERE tenant_id = $1 AND starts_with(entry_number, $2)
		) s
		WHERE seq ~ '^[0-9]{5,18}$';`

	var highest int64
	if err := r.DB.QueryRow(ctx, query, tenantID, bucket).Scan(&highest); err != nil {
		return 0, mapError(err, "find highest entry sequence")
	}
	return int(highest), nil
}

func (r *PgxJournalRepository) AccountHasLines(ctx context.Context, accountID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM journal_lines WHERE account_id = $1);`, accountID).Scan(&exists)
	if err != nil {
		return false, mapError(err, "check journal lines of account "+accountID)
	}
	return exists, nil
}

func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err := r.DB.Exec(ctx, query,
		m.EntryID,
		m.TenantID,
		m.EntryNumber,
		m.EntryDate,
		m.Reference,
		m.Description,
		m.FiscalPeriodID,
		m.Status,
		m.TotalDebit,
		m.TotalCredit,
		m.CurrencyCode,
		m.Source,
		m.PostedAt,
		m.PostedBy,
		m.ReversedEntryID,
		m.ReversalOfEntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	return mapError(err, "save journal entry "+m.EntryNumber)
}

// SaveLines inserts every line in one round trip.
func (r *PgxJournalRepository) SaveLines(ctx context.Context, lines []domain.JournalLine) error {
	if len(lines) == 0 {
		return nil
	}
	query := `
		INSERT INTO journal_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	batch := &pgx.Batch{}
	for _, l := range lines {
		m := mapping.ToModelJournalLine(l)
		batch.Queue(query,
			m.LineID,
			m.EntryID,
			m.LineNo,
			m.AccountID,
			m.Description,
			m.DebitAmount,
			m.CreditAmount,
			m.CurrencyCode,
			m.ExchangeRate,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := r.DB.SendBatch(ctx, batch)
	defer br.Close()
	for _, l := range lines {
		if _, err := br.Exec(); err != nil {
			return mapError(err, fmt.Sprintf("save line %d of journal entry %s", l.LineNo, l.EntryID))
		}
	}
	return nil
}

func (r *PgxJournalRepository) UpdateEntry(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	query := `
		UPDATE journal_entries
		SET entry_number = $3, entry_date = $4, reference = $5, description = $6, fiscal_period_id = $7,
		    status = $8, total_debit = $9, total_credit = $10, currency_code = $11, source = $12,
		    posted_at = $13, posted_by = $14, reversed_entry_id = $15, reversal_of_entry_id = $16,
		    last_updated_at = $17, last_updated_by = $18
		WHERE tenant_id = $1 AND entry_id = $2;
	`
	tag, err := r.DB.Exec(ctx, query,
		m.TenantID,
		m.EntryID,
		m.EntryNumber,
		m.EntryDate,
		m.Reference,
		m.Description,
		m.FiscalPeriodID,
		m.Status,
		m.TotalDebit,
		m.TotalCredit,
		m.CurrencyCode,
		m.Source,
		m.PostedAt,
		m.PostedBy,
		m.ReversedEntryID,
		m.ReversalOfEntryID,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "update journal entry "+m.EntryID)
	}
	return expectAffected(tag, "update journal entry "+m.EntryID)
}

func (r *PgxJournalRepository) DeleteLines(ctx context.Context, entryID string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, entryID)
	return mapError(err, "delete lines of journal entry "+entryID)
}

func (r *PgxJournalRepository) DeleteEntry(ctx context.Context, tenantID, entryID string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM journal_entries WHERE tenant_id = $1 AND entry_id = $2;`, tenantID, entryID)
	if err != nil {
		return mapError(err, "delete journal entry "+entryID)
	}
	return expectAffected(tag, "delete journal entry "+entryID)
}
