package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft    JournalStatus = "DRAFT"
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// IsTerminal reports whether entries in this status are immutable.
func (s JournalStatus) IsTerminal() bool {
	return s == Posted || s == Reversed
}

// EntrySource tells whether an entry was keyed in by a person or produced by a workflow.
type EntrySource string

const (
	SourceManual EntrySource = "MANUAL"
	SourceSystem EntrySource = "SYSTEM"
)

// JournalEntry is the header of a double-entry transaction.
type JournalEntry struct {
	EntryID           string          `json:"entryID"`
	EntryNumber       string          `json:"entryNumber"`
	TenantID          string          `json:"tenantID"`
	EntryDate         time.Time       `json:"entryDate"`
	Reference         string          `json:"reference"`
	Description       string          `json:"description"`
	FiscalPeriodID    string          `json:"fiscalPeriodID"`
	Status            JournalStatus   `json:"status"`
	TotalDebit        decimal.Decimal `json:"totalDebit"`  // display cache, recomputed at post
	TotalCredit       decimal.Decimal `json:"totalCredit"` // display cache, recomputed at post
	CurrencyCode      string          `json:"currencyCode"`
	Source            EntrySource     `json:"source"`
	PostedAt          *time.Time      `json:"postedAt,omitempty"`
	PostedBy          *string         `json:"postedBy,omitempty"`
	ReversedEntryID   *string         `json:"reversedEntryID,omitempty"`
	ReversalOfEntryID *string         `json:"reversalOfEntryID,omitempty"`
	AuditFields
	Lines []JournalLine `json:"lines,omitempty"` // loaded on demand
}

// Totals sums the debit and credit sides of lines.
func Totals(lines []JournalLine) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range lines {
		debit = debit.Add(l.DebitAmount)
		credit = credit.Add(l.CreditAmount)
	}
	return debit.Round(2), credit.Round(2)
}

// IsBalanced recomputes totals from lines and compares them at two decimals.
func IsBalanced(lines []JournalLine) bool {
	debit, credit := Totals(lines)
	return debit.Equal(credit)
}

// AccountIDs returns the distinct account ids referenced by lines, in line order.
func AccountIDs(lines []JournalLine) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	return ids
}
