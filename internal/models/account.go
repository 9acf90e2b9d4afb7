package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

// Account is a row of the accounts table.
type Account struct {
	AccountID          string          `db:"account_id"`
	TenantID           string          `db:"tenant_id"`
	AccountNumber      string          `db:"account_number"`
	Name               string          `db:"name"`
	AccountType        AccountType     `db:"account_type"`
	SubType            *string         `db:"sub_type"` // Nullable
	CurrencyCode       string          `db:"currency_code"`
	ParentAccountID    *string         `db:"parent_account_id"` // Nullable
	Description        *string         `db:"description"`
	Balance            decimal.Decimal `db:"balance"`
	IsActive           bool            `db:"is_active"`
	IsSystem           bool            `db:"is_system"`
	AllowManualEntries bool            `db:"allow_manual_entries"`
	DeletedAt          *time.Time      `db:"deleted_at"`
	AuditFields
}
