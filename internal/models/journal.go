package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

// JournalEntry is a row of the journal_entries table.
type JournalEntry struct {
	EntryID           string          `db:"entry_id"`
	TenantID          string          `db:"tenant_id"`
	EntryNumber       string          `db:"entry_number"`
	EntryDate         time.Time       `db:"entry_date"`
	Reference         *string         `db:"reference"`
	Description       *string         `db:"description"`
	FiscalPeriodID    string          `db:"fiscal_period_id"`
	Status            JournalStatus   `db:"status"`
	TotalDebit        decimal.Decimal `db:"total_debit"`
	TotalCredit       decimal.Decimal `db:"total_credit"`
	CurrencyCode      string          `db:"currency_code"`
	Source            string          `db:"source"`
	PostedAt          *time.Time      `db:"posted_at"`
	PostedBy          *string         `db:"posted_by"`
	ReversedEntryID   *string         `db:"reversed_entry_id"`
	ReversalOfEntryID *string         `db:"reversal_of_entry_id"`
	AuditFields
}

// JournalLine is a row of the journal_lines table.
type JournalLine struct {
	LineID       string           `db:"line_id"`
	EntryID      string           `db:"entry_id"`
	LineNo       int              `db:"line_no"`
	AccountID    string           `db:"account_id"`
	Description  *string          `db:"description"`
	DebitAmount  decimal.Decimal  `db:"debit_amount"`
	CreditAmount decimal.Decimal  `db:"credit_amount"`
	CurrencyCode string           `db:"currency_code"`
	ExchangeRate *decimal.Decimal `db:"exchange_rate"`
	AuditFields
}
