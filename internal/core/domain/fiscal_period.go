package domain

import "time"

// PeriodType is the granularity of a fiscal period.
type PeriodType string

const (
	PeriodYear    PeriodType = "YEAR"
	PeriodQuarter PeriodType = "QUARTER"
	PeriodMonth   PeriodType = "MONTH"
)

// IsValid reports whether t is a known period type.
func (t PeriodType) IsValid() bool {
	return t == PeriodYear || t == PeriodQuarter || t == PeriodMonth
}

// Rank orders period types from narrowest (0) to widest.
func (t PeriodType) Rank() int {
	switch t {
	case PeriodMonth:
		return 0
	case PeriodQuarter:
		return 1
	default:
		return 2
	}
}

// PeriodStatus gates postings into a fiscal period.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
	PeriodLocked PeriodStatus = "LOCKED"
)

// FiscalPeriod is an inclusive date range with a posting status.
type FiscalPeriod struct {
	PeriodID   string       `json:"periodID"`
	TenantID   string       `json:"tenantID"`
	Name       string       `json:"name"`
	PeriodType PeriodType   `json:"periodType"`
	FiscalYear int          `json:"fiscalYear"`
	StartDate  time.Time    `json:"startDate"`
	EndDate    time.Time    `json:"endDate"`
	Status     PeriodStatus `json:"status"`
	ClosedAt   *time.Time   `json:"closedAt,omitempty"`
	ClosedBy   *string      `json:"closedBy,omitempty"`
	AuditFields
}

// Covers reports whether date falls inside [StartDate, EndDate].
func (p FiscalPeriod) Covers(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(p.StartDate)) && !d.After(DateOnly(p.EndDate))
}

// CanAccept reports whether a posting dated date may be recorded in the period.
func (p FiscalPeriod) CanAccept(date time.Time) bool {
	return p.Status == PeriodOpen && p.Covers(date)
}

// Overlaps reports whether the two periods share at least one day.
func (p FiscalPeriod) Overlaps(other FiscalPeriod) bool {
	return !DateOnly(p.EndDate).Before(DateOnly(other.StartDate)) &&
		!DateOnly(other.EndDate).Before(DateOnly(p.StartDate))
}

// CanTransitionTo reports whether the status change is allowed.
// OPEN -> CLOSED, CLOSED -> OPEN and CLOSED -> LOCKED; LOCKED is final.
func (p FiscalPeriod) CanTransitionTo(next PeriodStatus) bool {
	switch p.Status {
	case PeriodOpen:
		return next == PeriodClosed
	case PeriodClosed:
		return next == PeriodOpen || next == PeriodLocked
	}
	return false
}
