package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/core/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/repositories/memory"
	"github.com/stretchr/testify/suite"
)

type FiscalPeriodServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	now     time.Time
	service portssvc.FiscalPeriodSvcFacade
}

func (s *FiscalPeriodServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2026, time.February, 3, 10, 0, 0, 0, time.UTC)
	repos := memory.NewStore().Provider()
	s.service = services.NewFiscalPeriodService(repos.PeriodRepo, repos.UnitOfWork,
		services.WithLogger(discardLogger()),
		services.WithClock(func() time.Time { return s.now }))
}

func (s *FiscalPeriodServiceTestSuite) month(name string, m time.Month) *domain.FiscalPeriod {
	start := day(2026, m, 1)
	p, err := s.service.CreatePeriod(s.ctx, tenantID, dto.CreatePeriodRequest{
		Name: name, PeriodType: domain.PeriodMonth, FiscalYear: 2026,
		StartDate: start, EndDate: start.AddDate(0, 1, -1),
	}, actorID)
	s.Require().NoError(err)
	return p
}

func (s *FiscalPeriodServiceTestSuite) TestCreatePeriod() {
	jan := s.month("Jan", time.January)
	s.Equal(domain.PeriodOpen, jan.Status)
	s.Equal(day(2026, time.January, 31), jan.EndDate)

	// overlapping periods of the same type are rejected
	_, err := s.service.CreatePeriod(s.ctx, tenantID, dto.CreatePeriodRequest{
		Name: "Mid", PeriodType: domain.PeriodMonth, FiscalYear: 2026,
		StartDate: day(2026, time.January, 31), EndDate: day(2026, time.February, 27),
	}, actorID)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.ErrorIs(err, apperrors.ErrDuplicate)

	// a wider period may contain it
	_, err = s.service.CreatePeriod(s.ctx, tenantID, dto.CreatePeriodRequest{
		Name: "Q1", PeriodType: domain.PeriodQuarter, FiscalYear: 2026,
		StartDate: day(2026, time.January, 1), EndDate: day(2026, time.March, 31),
	}, actorID)
	s.NoError(err)

	_, err = s.service.CreatePeriod(s.ctx, tenantID, dto.CreatePeriodRequest{
		Name: "Backwards", PeriodType: domain.PeriodMonth, FiscalYear: 2026,
		StartDate: day(2026, time.May, 31), EndDate: day(2026, time.May, 1),
	}, actorID)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *FiscalPeriodServiceTestSuite) TestGetPeriodCovering() {
	jan := s.month("Jan", time.January)
	_, err := s.service.CreatePeriod(s.ctx, tenantID, dto.CreatePeriodRequest{
		Name: "FY", PeriodType: domain.PeriodYear, FiscalYear: 2026,
		StartDate: day(2026, time.January, 1), EndDate: day(2026, time.December, 31),
	}, actorID)
	s.Require().NoError(err)

	got, err := s.service.GetPeriodCovering(s.ctx, tenantID, time.Date(2026, time.January, 31, 23, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(jan.PeriodID, got.PeriodID)

	got, err = s.service.GetPeriodCovering(s.ctx, tenantID, day(2026, time.July, 1))
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(domain.PeriodYear, got.PeriodType)

	got, err = s.service.GetPeriodCovering(s.ctx, tenantID, day(2027, time.July, 1))
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *FiscalPeriodServiceTestSuite) TestCanAccept() {
	jan := s.month("Jan", time.January)

	ok, err := s.service.CanAccept(s.ctx, tenantID, jan.PeriodID, day(2026, time.January, 15))
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.service.CanAccept(s.ctx, tenantID, jan.PeriodID, day(2026, time.February, 1))
	s.Require().NoError(err)
	s.False(ok)

	ok, err = s.service.CanAccept(s.ctx, tenantID, "missing", day(2026, time.January, 15))
	s.Require().NoError(err)
	s.False(ok)

	ok, err = s.service.CanAccept(s.ctx, "tenant-2", jan.PeriodID, day(2026, time.January, 15))
	s.Require().NoError(err)
	s.False(ok)

	_, err = s.service.ClosePeriod(s.ctx, tenantID, jan.PeriodID, actorID)
	s.Require().NoError(err)
	ok, err = s.service.CanAccept(s.ctx, tenantID, jan.PeriodID, day(2026, time.January, 15))
	s.Require().NoError(err)
	s.False(ok)
}

func (s *FiscalPeriodServiceTestSuite) TestStatusTransitions() {
	jan := s.month("Jan", time.January)

	_, err := s.service.LockPeriod(s.ctx, tenantID, jan.PeriodID, actorID)
	s.ErrorIs(err, apperrors.ErrInvalidPeriodStatus, "open periods must be closed before locking")

	closed, err := s.service.ClosePeriod(s.ctx, tenantID, jan.PeriodID, actorID)
	s.Require().NoError(err)
	s.Equal(domain.PeriodClosed, closed.Status)
	s.Require().NotNil(closed.ClosedAt)
	s.Equal(s.now, *closed.ClosedAt)
	s.Equal(actorID, *closed.ClosedBy)

	reopened, err := s.service.ReopenPeriod(s.ctx, tenantID, jan.PeriodID, actorID)
	s.Require().NoError(err)
	s.Equal(domain.PeriodOpen, reopened.Status)
	s.Nil(reopened.ClosedAt)

	_, err = s.service.ClosePeriod(s.ctx, tenantID, jan.PeriodID, actorID)
	s.Require().NoError(err)
	locked, err := s.service.LockPeriod(s.ctx, tenantID, jan.PeriodID, actorID)
	s.Require().NoError(err)
	s.Equal(domain.PeriodLocked, locked.Status)

	_, err = s.service.ReopenPeriod(s.ctx, tenantID, jan.PeriodID, actorID)
	s.ErrorIs(err, apperrors.ErrInvalidPeriodStatus)
	_, err = s.service.ClosePeriod(s.ctx, tenantID, jan.PeriodID, actorID)
	s.ErrorIs(err, apperrors.ErrInvalidPeriodStatus)

	_, err = s.service.ClosePeriod(s.ctx, tenantID, "missing", actorID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *FiscalPeriodServiceTestSuite) TestListPeriods() {
	s.month("Jan", time.January)
	feb := s.month("Feb", time.February)
	_, err := s.service.ClosePeriod(s.ctx, tenantID, feb.PeriodID, actorID)
	s.Require().NoError(err)

	all, err := s.service.ListPeriods(s.ctx, tenantID, dto.ListPeriodsParams{})
	s.Require().NoError(err)
	s.Len(all, 2)

	closed, err := s.service.ListPeriods(s.ctx, tenantID, dto.ListPeriodsParams{Status: ptr("closed")})
	s.Require().NoError(err)
	s.Require().Len(closed, 1)
	s.Equal(feb.PeriodID, closed[0].PeriodID)

	years, err := s.service.ListPeriods(s.ctx, tenantID, dto.ListPeriodsParams{PeriodType: ptr("YEAR")})
	s.Require().NoError(err)
	s.Empty(years)
}

func TestFiscalPeriodServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FiscalPeriodServiceTestSuite))
}
