package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// BalanceSide is the side of an entry that increases an account's balance.
type BalanceSide string

const (
	DebitNormal  BalanceSide = "DEBIT"
	CreditNormal BalanceSide = "CREDIT"
)

// IsValid reports whether t is one of the five classifications.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// NormalSide returns the balance side for the classification.
// Asset and Expense accounts are debit-normal; the rest are credit-normal.
func (t AccountType) NormalSide() (BalanceSide, error) {
	switch t {
	case Asset, Expense:
		return DebitNormal, nil
	case Liability, Equity, Revenue:
		return CreditNormal, nil
	}
	return "", fmt.Errorf("unknown account type '%s'", t)
}

// NumberPrefix is the leading digit of auto-assigned account numbers.
func (t AccountType) NumberPrefix() string {
	switch t {
	case Asset:
		return "1"
	case Liability:
		return "2"
	case Equity:
		return "3"
	case Revenue:
		return "4"
	case Expense:
		return "5"
	}
	return ""
}

// Account represents a node of the chart of accounts.
type Account struct {
	AccountID          string          `json:"accountID"`
	AccountNumber      string          `json:"accountNumber"` // unique per tenant
	TenantID           string          `json:"tenantID"`
	Name               string          `json:"name"`
	AccountType        AccountType     `json:"accountType"`
	SubType            string          `json:"subType,omitempty"`
	CurrencyCode       string          `json:"currencyCode"`
	ParentAccountID    *string         `json:"parentAccountID,omitempty"`
	Description        string          `json:"description"`
	Balance            decimal.Decimal `json:"balance"`
	IsActive           bool            `json:"isActive"`
	IsSystem           bool            `json:"isSystem"`
	AllowManualEntries bool            `json:"allowManualEntries"`
	DeletedAt          *time.Time      `json:"deletedAt,omitempty"`
	AuditFields
}

// IsDeleted reports whether the account has been soft-deleted.
func (a Account) IsDeleted() bool {
	return a.DeletedAt != nil
}

// SignedDelta returns the change in balance caused by posting amount on the
// given side. It does not mutate the account.
func (a Account) SignedDelta(amount decimal.Decimal, isDebit bool) (decimal.Decimal, error) {
	side, err := a.AccountType.NormalSide()
	if err != nil {
		return decimal.Zero, fmt.Errorf("account %s: %w", a.AccountID, err)
	}
	if (side == DebitNormal) == isDebit {
		return amount, nil
	}
	return amount.Neg(), nil
}

// ApplyDelta returns the balance after posting amount on the given side,
// rounded to two decimal places.
func (a Account) ApplyDelta(amount decimal.Decimal, isDebit bool) (decimal.Decimal, error) {
	delta, err := a.SignedDelta(amount, isDebit)
	if err != nil {
		return decimal.Zero, err
	}
	return a.Balance.Add(delta).Round(2), nil
}

// ApplyLine returns the balance after posting a journal line against the account.
func (a Account) ApplyLine(line JournalLine) (decimal.Decimal, error) {
	if line.IsDebit() {
		return a.ApplyDelta(line.DebitAmount, true)
	}
	return a.ApplyDelta(line.CreditAmount, false)
}

// ChartNode is an account together with its children, used to render the tree.
type ChartNode struct {
	Account  Account      `json:"account"`
	Children []*ChartNode `json:"children,omitempty"`
}
