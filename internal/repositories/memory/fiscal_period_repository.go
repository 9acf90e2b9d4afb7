package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
)

type periodRepo struct {
	v view
}

var _ portsrepo.FiscalPeriodRepositoryFacade = (*periodRepo)(nil)

func (r *periodRepo) FindPeriodByID(_ context.Context, tenantID, periodID string) (*domain.FiscalPeriod, error) {
	var (
		p  domain.FiscalPeriod
		ok bool
	)
	r.v.read(func(st *state) { p, ok = st.periods[periodID] })
	if !ok || p.TenantID != tenantID {
		return nil, fmt.Errorf("%w: fiscal period %s", apperrors.ErrNotFound, periodID)
	}
	return &p, nil
}

func (r *periodRepo) list(tenantID string, keep func(domain.FiscalPeriod) bool) []domain.FiscalPeriod {
	var out []domain.FiscalPeriod
	r.v.read(func(st *state) {
		for _, p := range st.periods {
			if p.TenantID == tenantID && keep(p) {
				out = append(out, p)
			}
		}
	})
	slices.SortFunc(out, func(a, b domain.FiscalPeriod) int {
		if c := a.StartDate.Compare(b.StartDate); c != 0 {
			return c
		}
		return a.PeriodType.Rank() - b.PeriodType.Rank()
	})
	return out
}

func (r *periodRepo) ListPeriods(_ context.Context, tenantID string, filter portsrepo.PeriodFilter) ([]domain.FiscalPeriod, error) {
	return r.list(tenantID, func(p domain.FiscalPeriod) bool {
		if filter.PeriodType != nil && p.PeriodType != *filter.PeriodType {
			return false
		}
		if filter.FiscalYear != nil && p.FiscalYear != *filter.FiscalYear {
			return false
		}
		if filter.Status != nil && p.Status != *filter.Status {
			return false
		}
		return true
	}), nil
}

func (r *periodRepo) FindPeriodsCovering(_ context.Context, tenantID string, date time.Time) ([]domain.FiscalPeriod, error) {
	return r.list(tenantID, func(p domain.FiscalPeriod) bool { return p.Covers(date) }), nil
}

func (r *periodRepo) FindOverlapping(_ context.Context, tenantID string, periodType domain.PeriodType, start, end time.Time) ([]domain.FiscalPeriod, error) {
	probe := domain.FiscalPeriod{StartDate: start, EndDate: end}
	return r.list(tenantID, func(p domain.FiscalPeriod) bool {
		return p.PeriodType == periodType && p.Overlaps(probe)
	}), nil
}

func (r *periodRepo) SavePeriod(_ context.Context, period domain.FiscalPeriod) error {
	return r.v.write(func(st *state) error {
		if _, exists := st.periods[period.PeriodID]; exists {
			return fmt.Errorf("%w: fiscal period %s", apperrors.ErrDuplicate, period.PeriodID)
		}
		st.periods[period.PeriodID] = period
		return nil
	})
}

func (r *periodRepo) UpdatePeriodStatus(_ context.Context, period domain.FiscalPeriod) error {
	return r.v.write(func(st *state) error {
		current, ok := st.periods[period.PeriodID]
		if !ok || current.TenantID != period.TenantID {
			return fmt.Errorf("%w: fiscal period %s", apperrors.ErrNotFound, period.PeriodID)
		}
		current.Status = period.Status
		current.ClosedAt = period.ClosedAt
		current.ClosedBy = period.ClosedBy
		current.LastUpdatedAt = period.LastUpdatedAt
		current.LastUpdatedBy = period.LastUpdatedBy
		st.periods[period.PeriodID] = current
		return nil
	})
}

// FindPeriodForShare needs no extra locking: a transaction already holds the store exclusively.
func (r *periodRepo) FindPeriodForShare(ctx context.Context, tenantID, periodID string) (*domain.FiscalPeriod, error) {
	return r.FindPeriodByID(ctx, tenantID, periodID)
}

func (r *periodRepo) FindPeriodForUpdate(ctx context.Context, tenantID, periodID string) (*domain.FiscalPeriod, error) {
	return r.FindPeriodByID(ctx, tenantID, periodID)
}
