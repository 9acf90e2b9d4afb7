package dto

import (
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LineRequest is one debit or credit of an EntryRequest.
// Exactly one of DebitAmount and CreditAmount must be non-zero.
type LineRequest struct {
	AccountID    string           `json:"accountID" binding:"required"`
	Description  string           `json:"description" binding:"max=500"`
	DebitAmount  decimal.Decimal  `json:"debitAmount"`
	CreditAmount decimal.Decimal  `json:"creditAmount"`
	CurrencyCode string           `json:"currencyCode" binding:"omitempty,len=3"` // defaults to the entry currency
	ExchangeRate *decimal.Decimal `json:"exchangeRate,omitempty"`
}

// EntryRequest is the header and line data used to create or replace a draft entry.
type EntryRequest struct {
	EntryDate      time.Time          `json:"entryDate" binding:"required"`
	EntryNumber    string             `json:"entryNumber" binding:"max=50"` // assigned when empty
	Reference      string             `json:"reference" binding:"max=100"`
	Description    string             `json:"description" binding:"max=500"`
	FiscalPeriodID *string            `json:"fiscalPeriodID,omitempty"`
	CurrencyCode   string             `json:"currencyCode" binding:"required,len=3"`
	Source         domain.EntrySource `json:"source" binding:"omitempty,oneof=MANUAL SYSTEM"`
	Lines          []LineRequest      `json:"lines" binding:"dive"`
}

// ReverseRequest carries optional overrides for the reversal entry.
type ReverseRequest struct {
	EntryDate   *time.Time `json:"entryDate,omitempty"`
	Reference   *string    `json:"reference,omitempty" binding:"omitempty,max=100"`
	Description *string    `json:"description,omitempty" binding:"omitempty,max=500"`
}

// LineResponse defines the data returned for a journal line.
type LineResponse struct {
	LineID       string           `json:"lineID"`
	LineNo       int              `json:"lineNo"`
	AccountID    string           `json:"accountID"`
	Description  string           `json:"description"`
	DebitAmount  decimal.Decimal  `json:"debitAmount"`
	CreditAmount decimal.Decimal  `json:"creditAmount"`
	CurrencyCode string           `json:"currencyCode"`
	ExchangeRate *decimal.Decimal `json:"exchangeRate,omitempty"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID           string               `json:"entryID"`
	EntryNumber       string               `json:"entryNumber"`
	EntryDate         time.Time            `json:"entryDate"`
	Reference         string               `json:"reference"`
	Description       string               `json:"description"`
	FiscalPeriodID    string               `json:"fiscalPeriodID"`
	Status            domain.JournalStatus `json:"status"`
	TotalDebit        decimal.Decimal      `json:"totalDebit"`
	TotalCredit       decimal.Decimal      `json:"totalCredit"`
	CurrencyCode      string               `json:"currencyCode"`
	Source            domain.EntrySource   `json:"source"`
	PostedAt          *time.Time           `json:"postedAt,omitempty"`
	PostedBy          *string              `json:"postedBy,omitempty"`
	ReversedEntryID   *string              `json:"reversedEntryID,omitempty"`
	ReversalOfEntryID *string              `json:"reversalOfEntryID,omitempty"`
	CreatedAt         time.Time            `json:"createdAt"`
	CreatedBy         string               `json:"createdBy"`
	LastUpdatedAt     time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy     string               `json:"lastUpdatedBy"`
	Lines             []LineResponse       `json:"lines,omitempty"`
}

// ListEntriesParams defines query parameters for listing entries.
type ListEntriesParams struct {
	Limit          int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken      *string `form:"nextToken"`
	Status         *string `form:"status" binding:"omitempty,oneof=DRAFT POSTED REVERSED"`
	FiscalPeriodID *string `form:"fiscalPeriodID"`
}

// ListEntriesResponse wraps a page of entries.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToLineResponse converts a domain.JournalLine to LineResponse DTO.
func ToLineResponse(l domain.JournalLine) LineResponse {
	return LineResponse{
		LineID:       l.LineID,
		LineNo:       l.LineNo,
		AccountID:    l.AccountID,
		Description:  l.Description,
		DebitAmount:  l.DebitAmount,
		CreditAmount: l.CreditAmount,
		CurrencyCode: l.CurrencyCode,
		ExchangeRate: l.ExchangeRate,
	}
}

// ToEntryResponse converts a domain.JournalEntry, with whatever lines it carries, to EntryResponse DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	res := EntryResponse{
		EntryID:           e.EntryID,
		EntryNumber:       e.EntryNumber,
		EntryDate:         e.EntryDate,
		Reference:         e.Reference,
		Description:       e.Description,
		FiscalPeriodID:    e.FiscalPeriodID,
		Status:            e.Status,
		TotalDebit:        e.TotalDebit,
		TotalCredit:       e.TotalCredit,
		CurrencyCode:      e.CurrencyCode,
		Source:            e.Source,
		PostedAt:          e.PostedAt,
		PostedBy:          e.PostedBy,
		ReversedEntryID:   e.ReversedEntryID,
		ReversalOfEntryID: e.ReversalOfEntryID,
		CreatedAt:         e.CreatedAt,
		CreatedBy:         e.CreatedBy,
		LastUpdatedAt:     e.LastUpdatedAt,
		LastUpdatedBy:     e.LastUpdatedBy,
	}
	if len(e.Lines) > 0 {
		res.Lines = make([]LineResponse, len(e.Lines))
		for i, l := range e.Lines {
			res.Lines[i] = ToLineResponse(l)
		}
	}
	return res
}

// ToListEntriesResponse converts a page of entries.
func ToListEntriesResponse(entries []domain.JournalEntry, nextToken *string) ListEntriesResponse {
	res := ListEntriesResponse{Entries: make([]EntryResponse, len(entries)), NextToken: nextToken}
	for i := range entries {
		res.Entries[i] = ToEntryResponse(&entries[i])
	}
	return res
}
