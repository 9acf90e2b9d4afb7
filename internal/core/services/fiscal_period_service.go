package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/google/uuid"
)

type fiscalPeriodService struct {
	BaseService
	periodRepo portsrepo.FiscalPeriodRepositoryFacade
	uow        portsrepo.UnitOfWork
}

// NewFiscalPeriodService creates the fiscal period calendar.
func NewFiscalPeriodService(periodRepo portsrepo.FiscalPeriodRepositoryFacade, uow portsrepo.UnitOfWork, opts ...Option) portssvc.FiscalPeriodSvcFacade {
	return &fiscalPeriodService{
		BaseService: newBaseService(opts...),
		periodRepo:  periodRepo,
		uow:         uow,
	}
}

var _ portssvc.FiscalPeriodSvcFacade = (*fiscalPeriodService)(nil)

func (s *fiscalPeriodService) CreatePeriod(ctx context.Context, tenantID string, req dto.CreatePeriodRequest, actorID string) (*domain.FiscalPeriod, error) {
	if err := dto.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if !req.PeriodType.IsValid() {
		return nil, fmt.Errorf("%w: unknown period type %s", apperrors.ErrValidation, req.PeriodType)
	}

	start, end := domain.DateOnly(req.StartDate), domain.DateOnly(req.EndDate)
	if start.After(end) {
		return nil, fmt.Errorf("%w: start date %s is after end date %s", apperrors.ErrValidation,
			start.Format(time.DateOnly), end.Format(time.DateOnly))
	}

	overlapping, err := s.periodRepo.FindOverlapping(ctx, tenantID, req.PeriodType, start, end)
	if err != nil {
		s.LogError(ctx, err, "Failed to check overlapping periods", slog.String("tenant_id", tenantID))
		return nil, err
	}
	if len(overlapping) > 0 {
		return nil, fmt.Errorf("%w: %w: %s period overlaps %s", apperrors.ErrValidation, apperrors.ErrDuplicate,
			req.PeriodType, overlapping[0].Name)
	}

	period := domain.FiscalPeriod{
		PeriodID:    uuid.NewString(),
		TenantID:    tenantID,
		Name:        req.Name,
		PeriodType:  req.PeriodType,
		FiscalYear:  req.FiscalYear,
		StartDate:   start,
		EndDate:     end,
		Status:      domain.PeriodOpen,
		AuditFields: domain.NewAuditFields(actorID, s.Now()),
	}
	if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
		}
		s.LogError(ctx, err, "Failed to save fiscal period", slog.String("tenant_id", tenantID))
		return nil, err
	}

	s.LogInfo(ctx, "Fiscal period created",
		slog.String("period_id", period.PeriodID),
		slog.String("tenant_id", tenantID),
		slog.String("period_type", string(period.PeriodType)))
	return &period, nil
}

func (s *fiscalPeriodService) GetPeriod(ctx context.Context, tenantID, periodID string) (*domain.FiscalPeriod, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, tenantID, periodID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get fiscal period", slog.String("period_id", periodID))
		}
		return nil, err
	}
	return period, nil
}

func (s *fiscalPeriodService) ListPeriods(ctx context.Context, tenantID string, params dto.ListPeriodsParams) ([]domain.FiscalPeriod, error) {
	filter := portsrepo.PeriodFilter{FiscalYear: params.FiscalYear}
	if params.PeriodType != nil && *params.PeriodType != "" {
		t := domain.PeriodType(strings.ToUpper(*params.PeriodType))
		if !t.IsValid() {
			return nil, fmt.Errorf("%w: unknown period type %s", apperrors.ErrValidation, *params.PeriodType)
		}
		filter.PeriodType = &t
	}
	if params.Status != nil && *params.Status != "" {
		st := domain.PeriodStatus(strings.ToUpper(*params.Status))
		filter.Status = &st
	}

	periods, err := s.periodRepo.ListPeriods(ctx, tenantID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list fiscal periods", slog.String("tenant_id", tenantID))
		return nil, err
	}
	return periods, nil
}

func (s *fiscalPeriodService) GetPeriodCovering(ctx context.Context, tenantID string, date time.Time) (*domain.FiscalPeriod, error) {
	return coveringPeriod(ctx, s.periodRepo, tenantID, date)
}

// coveringPeriod returns the narrowest period containing date, or nil.
func coveringPeriod(ctx context.Context, repo portsrepo.FiscalPeriodReader, tenantID string, date time.Time) (*domain.FiscalPeriod, error) {
	periods, err := repo.FindPeriodsCovering(ctx, tenantID, domain.DateOnly(date))
	if err != nil {
		return nil, err
	}
	var best *domain.FiscalPeriod
	for i := range periods {
		p := &periods[i]
		if best == nil || p.PeriodType.Rank() < best.PeriodType.Rank() ||
			(p.PeriodType.Rank() == best.PeriodType.Rank() && p.Status == domain.PeriodOpen && best.Status != domain.PeriodOpen) {
			best = p
		}
	}
	return best, nil
}

func (s *fiscalPeriodService) CanAccept(ctx context.Context, tenantID, periodID string, date time.Time) (bool, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, tenantID, periodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		s.LogError(ctx, err, "Failed to load fiscal period", slog.String("period_id", periodID))
		return false, err
	}
	return period.CanAccept(date), nil
}

func (s *fiscalPeriodService) ClosePeriod(ctx context.Context, tenantID, periodID, actorID string) (*domain.FiscalPeriod, error) {
	return s.transition(ctx, tenantID, periodID, actorID, domain.PeriodClosed)
}

func (s *fiscalPeriodService) ReopenPeriod(ctx context.Context, tenantID, periodID, actorID string) (*domain.FiscalPeriod, error) {
	return s.transition(ctx, tenantID, periodID, actorID, domain.PeriodOpen)
}

func (s *fiscalPeriodService) LockPeriod(ctx context.Context, tenantID, periodID, actorID string) (*domain.FiscalPeriod, error) {
	return s.transition(ctx, tenantID, periodID, actorID, domain.PeriodLocked)
}

// transition changes the status under an exclusive row lock, so it waits for
// posting transactions holding the period for share.
func (s *fiscalPeriodService) transition(ctx context.Context, tenantID, periodID, actorID string, next domain.PeriodStatus) (*domain.FiscalPeriod, error) {
	var updated *domain.FiscalPeriod
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		period, err := tx.Periods().FindPeriodForUpdate(ctx, tenantID, periodID)
		if err != nil {
			return err
		}
		if !period.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidPeriodStatus, period.Status, next)
		}

		now := s.Now()
		period.Status = next
		switch next {
		case domain.PeriodOpen:
			period.ClosedAt, period.ClosedBy = nil, nil
		case domain.PeriodClosed:
			period.ClosedAt, period.ClosedBy = &now, &actorID
		}
		period.Touch(actorID, now)

		if err := tx.Periods().UpdatePeriodStatus(ctx, *period); err != nil {
			return err
		}
		updated = period
		return nil
	})
	if err != nil {
		if !apperrors.IsDomainError(err) {
			s.LogError(ctx, err, "Failed to change fiscal period status",
				slog.String("period_id", periodID), slog.String("status", string(next)))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Fiscal period status changed",
		slog.String("period_id", periodID),
		slog.String("tenant_id", tenantID),
		slog.String("status", string(next)))
	return updated, nil
}
