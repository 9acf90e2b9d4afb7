package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// PeriodFilter narrows ListPeriods.
type PeriodFilter struct {
	PeriodType *domain.PeriodType
	FiscalYear *int
	Status     *domain.PeriodStatus
}

type FiscalPeriodReader interface {
	FindPeriodByID(ctx context.Context, tenantID, periodID string) (*domain.FiscalPeriod, error)

	// ListPeriods returns the tenant's periods ordered by start date.
	ListPeriods(ctx context.Context, tenantID string, filter PeriodFilter) ([]domain.FiscalPeriod, error)

	// FindPeriodsCovering returns every period whose range includes date, regardless of status.
	FindPeriodsCovering(ctx context.Context, tenantID string, date time.Time) ([]domain.FiscalPeriod, error)

	// FindOverlapping returns periods of the given type sharing at least one day with [start, end].
	FindOverlapping(ctx context.Context, tenantID string, periodType domain.PeriodType, start, end time.Time) ([]domain.FiscalPeriod, error)
}

type FiscalPeriodWriter interface {
	SavePeriod(ctx context.Context, period domain.FiscalPeriod) error

	// UpdatePeriodStatus persists Status, ClosedAt, ClosedBy and the audit fields.
	UpdatePeriodStatus(ctx context.Context, period domain.FiscalPeriod) error
}

// FiscalPeriodTransactionSupport is only meaningful on repositories bound to a transaction.
type FiscalPeriodTransactionSupport interface {
	// FindPeriodForShare reads the period and holds a shared lock so a concurrent
	// close waits for the posting transaction to finish.
	FindPeriodForShare(ctx context.Context, tenantID, periodID string) (*domain.FiscalPeriod, error)

	// FindPeriodForUpdate reads the period and holds an exclusive lock.
	FindPeriodForUpdate(ctx context.Context, tenantID, periodID string) (*domain.FiscalPeriod, error)
}

type FiscalPeriodRepositoryFacade interface {
	FiscalPeriodReader
	FiscalPeriodWriter
	FiscalPeriodTransactionSupport
}
