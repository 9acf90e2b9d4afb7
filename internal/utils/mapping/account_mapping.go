package mapping

import (
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:          d.AccountID,
		TenantID:           d.TenantID,
		AccountNumber:      d.AccountNumber,
		Name:               d.Name,
		AccountType:        models.AccountType(d.AccountType),
		SubType:            nullable(d.SubType),
		CurrencyCode:       d.CurrencyCode,
		ParentAccountID:    d.ParentAccountID,
		Description:        nullable(d.Description),
		Balance:            d.Balance,
		IsActive:           d.IsActive,
		IsSystem:           d.IsSystem,
		AllowManualEntries: d.AllowManualEntries,
		DeletedAt:          d.DeletedAt,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:          m.AccountID,
		TenantID:           m.TenantID,
		AccountNumber:      m.AccountNumber,
		Name:               m.Name,
		AccountType:        domain.AccountType(m.AccountType),
		SubType:            deref(m.SubType),
		CurrencyCode:       m.CurrencyCode,
		ParentAccountID:    m.ParentAccountID,
		Description:        deref(m.Description),
		Balance:            m.Balance,
		IsActive:           m.IsActive,
		IsSystem:           m.IsSystem,
		AllowManualEntries: m.AllowManualEntries,
		DeletedAt:          m.DeletedAt,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
