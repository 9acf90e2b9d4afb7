package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	errLineAccountMissing = errors.New("line account is required")
	errLineNegative       = errors.New("line amounts must not be negative")
	errLineBothSides      = errors.New("line cannot carry both a debit and a credit amount")
	errLineNoAmount       = errors.New("line must carry a debit or a credit amount")
	errLinePrecision      = errors.New("line amounts are limited to two decimal places")
)

// JournalLine is a single debit or credit against one account.
type JournalLine struct {
	LineID       string           `json:"lineID"`
	EntryID      string           `json:"entryID"`
	LineNo       int              `json:"lineNo"`
	AccountID    string           `json:"accountID"`
	Description  string           `json:"description"`
	DebitAmount  decimal.Decimal  `json:"debitAmount"`
	CreditAmount decimal.Decimal  `json:"creditAmount"`
	CurrencyCode string           `json:"currencyCode"`
	ExchangeRate *decimal.Decimal `json:"exchangeRate,omitempty"`
	AuditFields
}

// IsDebit reports whether the line is on the debit side.
func (l JournalLine) IsDebit() bool {
	return l.DebitAmount.IsPositive()
}

// Amount returns the non-zero side of the line.
func (l JournalLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.DebitAmount
	}
	return l.CreditAmount
}

// Validate enforces: account set, no negatives, exactly one side non-zero,
// at most two decimal places.
func (l JournalLine) Validate() error {
	if l.AccountID == "" {
		return errLineAccountMissing
	}
	if l.DebitAmount.IsNegative() || l.CreditAmount.IsNegative() {
		return errLineNegative
	}
	if l.DebitAmount.IsPositive() && l.CreditAmount.IsPositive() {
		return errLineBothSides
	}
	if l.DebitAmount.IsZero() && l.CreditAmount.IsZero() {
		return errLineNoAmount
	}
	if !l.DebitAmount.Equal(l.DebitAmount.Round(2)) || !l.CreditAmount.Equal(l.CreditAmount.Round(2)) {
		return errLinePrecision
	}
	return nil
}

// Swapped returns a copy of the line with debit and credit exchanged.
// Identity fields are cleared so the copy can be persisted as a new line.
func (l JournalLine) Swapped() JournalLine {
	out := l
	out.LineID = ""
	out.EntryID = ""
	out.DebitAmount, out.CreditAmount = l.CreditAmount, l.DebitAmount
	return out
}
