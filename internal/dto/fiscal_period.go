package dto

import (
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// CreatePeriodRequest defines the data needed to create a fiscal period.
type CreatePeriodRequest struct {
	Name       string            `json:"name" binding:"required,max=100"`
	PeriodType domain.PeriodType `json:"periodType" binding:"required,oneof=YEAR QUARTER MONTH"`
	FiscalYear int               `json:"fiscalYear" binding:"required,min=1900,max=9999"`
	StartDate  time.Time         `json:"startDate" binding:"required"`
	EndDate    time.Time         `json:"endDate" binding:"required"`
}

// PeriodResponse defines the data returned for a fiscal period.
type PeriodResponse struct {
	PeriodID   string              `json:"periodID"`
	Name       string              `json:"name"`
	PeriodType domain.PeriodType   `json:"periodType"`
	FiscalYear int                 `json:"fiscalYear"`
	StartDate  time.Time           `json:"startDate"`
	EndDate    time.Time           `json:"endDate"`
	Status     domain.PeriodStatus `json:"status"`
	ClosedAt   *time.Time          `json:"closedAt,omitempty"`
	ClosedBy   *string             `json:"closedBy,omitempty"`
	CreatedAt  time.Time           `json:"createdAt"`
	CreatedBy  string              `json:"createdBy"`
}

// ListPeriodsParams defines query parameters for listing periods.
type ListPeriodsParams struct {
	PeriodType *string `form:"periodType" binding:"omitempty,oneof=YEAR QUARTER MONTH"`
	FiscalYear *int    `form:"fiscalYear"`
	Status     *string `form:"status" binding:"omitempty,oneof=OPEN CLOSED LOCKED"`
}

// ListPeriodsResponse wraps the list of periods.
type ListPeriodsResponse struct {
	Periods []PeriodResponse `json:"periods"`
}

func ToPeriodResponse(p *domain.FiscalPeriod) PeriodResponse {
	return PeriodResponse{
		PeriodID:   p.PeriodID,
		Name:       p.Name,
		PeriodType: p.PeriodType,
		FiscalYear: p.FiscalYear,
		StartDate:  p.StartDate,
		EndDate:    p.EndDate,
		Status:     p.Status,
		ClosedAt:   p.ClosedAt,
		ClosedBy:   p.ClosedBy,
		CreatedAt:  p.CreatedAt,
		CreatedBy:  p.CreatedBy,
	}
}

func ToListPeriodsResponse(periods []domain.FiscalPeriod) ListPeriodsResponse {
	res := ListPeriodsResponse{Periods: make([]PeriodResponse, len(periods))}
	for i := range periods {
		res.Periods[i] = ToPeriodResponse(&periods[i])
	}
	return res
}
