package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/models"
	"github.com/SscSPs/ledger_core/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const periodColumns = `period_id, tenant_id, name, period_type, fiscal_year, start_date, end_date,
	status, closed_at, closed_by, created_at, created_by, last_updated_at, last_updated_by`

// narrowest first among periods starting the same day
const periodOrder = ` ORDER BY start_date,
	CASE period_type WHEN 'MONTH' THEN 0 WHEN 'QUARTER' THEN 1 ELSE 2 END`

type PgxFiscalPeriodRepository struct {
	BaseRepository
}

func newPgxFiscalPeriodRepository(db dbtx) *PgxFiscalPeriodRepository {
	return &PgxFiscalPeriodRepository{BaseRepository{DB: db}}
}

var _ portsrepo.FiscalPeriodRepositoryFacade = (*PgxFiscalPeriodRepository)(nil)

func scanPeriod(row pgx.Row) (domain.FiscalPeriod, error) {
	var m models.FiscalPeriod
	err := row.Scan(
		&m.PeriodID,
		&m.TenantID,
		&m.Name,
		&m.PeriodType,
		&m.FiscalYear,
		&m.StartDate,
		&m.EndDate,
		&m.Status,
		&m.ClosedAt,
		&m.ClosedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.FiscalPeriod{}, err
	}
	return mapping.ToDomainFiscalPeriod(m), nil
}

func (r *PgxFiscalPeriodRepository) queryPeriods(ctx context.Context, action, query string, args ...any) ([]domain.FiscalPeriod, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, action)
	}
	defer rows.Close()

	var periods []domain.FiscalPeriod
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, mapError(err, "scan fiscal period row")
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, action)
	}
	return periods, nil
}

func (r *PgxFiscalPeriodRepository) findOne(ctx context.Context, tenantID, periodID, lockClause string) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods
		WHERE tenant_id = $1 AND period_id = $2` + lockClause + `;`

	p, err := scanPeriod(r.DB.QueryRow(ctx, query, tenantID, periodID))
	if err != nil {
		return nil, mapError(err, "find fiscal period "+periodID)
	}
	return &p, nil
}

func (r *PgxFiscalPeriodRepository) FindPeriodByID(ctx context.Context, tenantID, periodID string) (*domain.FiscalPeriod, error) {
	return r.findOne(ctx, tenantID, periodID, "")
}

func (r *PgxFiscalPeriodRepository) ListPeriods(ctx context.Context, tenantID string, filter portsrepo.PeriodFilter) ([]domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods WHERE tenant_id = $1`
	args := []any{tenantID}
	if filter.PeriodType != nil {
		args = append(args, string(*filter.PeriodType))
		query += fmt.Sprintf(` AND period_type = $%d`, len(args))
	}
	if filter.FiscalYear != nil {
		args = append(args, *filter.FiscalYear)
		query += fmt.Sprintf(` AND fiscal_year = $%d`, len(args))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	return r.queryPeriods(ctx, "list fiscal periods", query+periodOrder+`;`, args...)
}

func (r *PgxFiscalPeriodRepository) FindPeriodsCovering(ctx context.Context, tenantID string, date time.Time) ([]domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods
		WHERE tenant_id = $1 AND start_date <= $2::date AND end_date >= $2::date` + periodOrder + `;`
	return r.queryPeriods(ctx, "find fiscal periods covering "+date.Format(time.DateOnly), query, tenantID, domain.DateOnly(date))
}

func (r *PgxFiscalPeriodRepository) FindOverlapping(ctx context.Context, tenantID string, periodType domain.PeriodType, start, end time.Time) ([]domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods
		WHERE tenant_id = $1 AND period_type = $2 AND start_date <= $4::date AND end_date >= $3::date` + periodOrder + `;`
	return r.queryPeriods(ctx, "find overlapping fiscal periods", query, tenantID, string(periodType), domain.DateOnly(start), domain.DateOnly(end))
}

// SavePeriod relies on the fiscal_periods_no_overlap exclusion constraint to
// reject a concurrent overlapping insert with ErrDuplicate.
func (r *PgxFiscalPeriodRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	m := mapping.ToModelFiscalPeriod(period)
	query := `
		INSERT INTO fiscal_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.DB.Exec(ctx, query,
		m.PeriodID,
		m.TenantID,
		m.Name,
		m.PeriodType,
		m.FiscalYear,
		m.StartDate,
		m.EndDate,
		m.Status,
		m.ClosedAt,
		m.ClosedBy,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	return mapError(err, "save fiscal period "+m.PeriodID)
}

func (r *PgxFiscalPeriodRepository) UpdatePeriodStatus(ctx context.Context, period domain.FiscalPeriod) error {
	query := `
		UPDATE fiscal_periods
		SET status = $3, closed_at = $4, closed_by = $5, last_updated_at = $6, last_updated_by = $7
		WHERE tenant_id = $1 AND period_id = $2;
	`
	tag, err := r.DB.Exec(ctx, query,
		period.TenantID,
		period.PeriodID,
		string(period.Status),
		period.ClosedAt,
		period.ClosedBy,
		period.LastUpdatedAt,
		period.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "update fiscal period "+period.PeriodID)
	}
	return expectAffected(tag, "update fiscal period "+period.PeriodID)
}

// FindPeriodForShare holds a shared row lock: postings run concurrently with
// each other but a close waits for them to commit.
func (r *PgxFiscalPeriodRepository) FindPeriodForShare(ctx context.Context, tenantID, periodID string) (*domain.FiscalPeriod, error) {
	return r.findOne(ctx, tenantID, periodID, " FOR SHARE")
}

func (r *PgxFiscalPeriodRepository) FindPeriodForUpdate(ctx context.Context, tenantID, periodID string) (*domain.FiscalPeriod, error) {
	return r.findOne(ctx, tenantID, periodID, " FOR UPDATE")
}
