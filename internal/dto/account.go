package dto

import (
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	AccountNumber      string             `json:"accountNumber" binding:"omitempty,numeric,max=20"` // assigned when empty
	Name               string             `json:"name" binding:"required,max=255"`
	AccountType        domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	SubType            string             `json:"subType" binding:"max=50"`
	CurrencyCode       string             `json:"currencyCode" binding:"required,len=3"`
	ParentAccountID    *string            `json:"parentAccountID"`
	Description        string             `json:"description"`
	IsSystem           bool               `json:"isSystem"`
	AllowManualEntries *bool              `json:"allowManualEntries"` // defaults to true
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name               *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description        *string `json:"description"`
	SubType            *string `json:"subType" binding:"omitempty,max=50"`
	IsActive           *bool   `json:"isActive"`
	AllowManualEntries *bool   `json:"allowManualEntries"`
	ParentAccountID    *string `json:"parentAccountID"` // "" detaches the account from its parent
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID          string             `json:"accountID"`
	AccountNumber      string             `json:"accountNumber"`
	Name               string             `json:"name"`
	AccountType        domain.AccountType `json:"accountType"`
	SubType            string             `json:"subType,omitempty"`
	CurrencyCode       string             `json:"currencyCode"`
	ParentAccountID    string             `json:"parentAccountID"` // Note: Empty string if null in DB
	Description        string             `json:"description"`
	Balance            decimal.Decimal    `json:"balance"`
	IsActive           bool               `json:"isActive"`
	IsSystem           bool               `json:"isSystem"`
	AllowManualEntries bool               `json:"allowManualEntries"`
	CreatedAt          time.Time          `json:"createdAt"`
	CreatedBy          string             `json:"createdBy"`
	LastUpdatedAt      time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy      string             `json:"lastUpdatedBy"`
}

// ChartNodeResponse is an account with its children.
type ChartNodeResponse struct {
	AccountResponse
	Children []ChartNodeResponse `json:"children,omitempty"`
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	AccountType     *string `form:"accountType" binding:"omitempty,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	IncludeInactive bool    `form:"includeInactive"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	res := AccountResponse{
		AccountID:          acc.AccountID,
		AccountNumber:      acc.AccountNumber,
		Name:               acc.Name,
		AccountType:        acc.AccountType,
		SubType:            acc.SubType,
		CurrencyCode:       acc.CurrencyCode,
		Description:        acc.Description,
		Balance:            acc.Balance,
		IsActive:           acc.IsActive,
		IsSystem:           acc.IsSystem,
		AllowManualEntries: acc.AllowManualEntries,
		CreatedAt:          acc.CreatedAt,
		CreatedBy:          acc.CreatedBy,
		LastUpdatedAt:      acc.LastUpdatedAt,
		LastUpdatedBy:      acc.LastUpdatedBy,
	}
	if acc.ParentAccountID != nil {
		res.ParentAccountID = *acc.ParentAccountID
	}
	return res
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ToChartResponse converts the chart-of-accounts roots recursively.
func ToChartResponse(nodes []*domain.ChartNode) []ChartNodeResponse {
	res := make([]ChartNodeResponse, len(nodes))
	for i, n := range nodes {
		res[i] = ChartNodeResponse{
			AccountResponse: ToAccountResponse(&n.Account),
			Children:        ToChartResponse(n.Children),
		}
	}
	return res
}
