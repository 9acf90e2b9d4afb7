package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
)

type FiscalPeriodReaderSvc interface {
	GetPeriod(ctx context.Context, tenantID, periodID string) (*domain.FiscalPeriod, error)
	ListPeriods(ctx context.Context, tenantID string, params dto.ListPeriodsParams) ([]domain.FiscalPeriod, error)

	// GetPeriodCovering returns the narrowest period containing date, or nil when none does.
	GetPeriodCovering(ctx context.Context, tenantID string, date time.Time) (*domain.FiscalPeriod, error)

	// CanAccept reports whether the period exists, is open and contains date.
	CanAccept(ctx context.Context, tenantID, periodID string, date time.Time) (bool, error)
}

type FiscalPeriodWriterSvc interface {
	CreatePeriod(ctx context.Context, tenantID string, req dto.CreatePeriodRequest, actorID string) (*domain.FiscalPeriod, error)
	ClosePeriod(ctx context.Context, tenantID, periodID, actorID string) (*domain.FiscalPeriod, error)
	ReopenPeriod(ctx context.Context, tenantID, periodID, actorID string) (*domain.FiscalPeriod, error)
	LockPeriod(ctx context.Context, tenantID, periodID, actorID string) (*domain.FiscalPeriod, error)
}

type FiscalPeriodSvcFacade interface {
	FiscalPeriodReaderSvc
	FiscalPeriodWriterSvc
}
