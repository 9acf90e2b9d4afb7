package mapping

import (
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry header to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:           d.EntryID,
		TenantID:          d.TenantID,
		EntryNumber:       d.EntryNumber,
		EntryDate:         d.EntryDate,
		Reference:         nullable(d.Reference),
		Description:       nullable(d.Description),
		FiscalPeriodID:    d.FiscalPeriodID,
		Status:            models.JournalStatus(d.Status),
		TotalDebit:        d.TotalDebit,
		TotalCredit:       d.TotalCredit,
		CurrencyCode:      d.CurrencyCode,
		Source:            string(d.Source),
		PostedAt:          d.PostedAt,
		PostedBy:          d.PostedBy,
		ReversedEntryID:   d.ReversedEntryID,
		ReversalOfEntryID: d.ReversalOfEntryID,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry without lines
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:           m.EntryID,
		TenantID:          m.TenantID,
		EntryNumber:       m.EntryNumber,
		EntryDate:         domain.DateOnly(m.EntryDate),
		Reference:         deref(m.Reference),
		Description:       deref(m.Description),
		FiscalPeriodID:    m.FiscalPeriodID,
		Status:            domain.JournalStatus(m.Status),
		TotalDebit:        m.TotalDebit,
		TotalCredit:       m.TotalCredit,
		CurrencyCode:      m.CurrencyCode,
		Source:            domain.EntrySource(m.Source),
		PostedAt:          m.PostedAt,
		PostedBy:          m.PostedBy,
		ReversedEntryID:   m.ReversedEntryID,
		ReversalOfEntryID: m.ReversalOfEntryID,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:       d.LineID,
		EntryID:      d.EntryID,
		LineNo:       d.LineNo,
		AccountID:    d.AccountID,
		Description:  nullable(d.Description),
		DebitAmount:  d.DebitAmount,
		CreditAmount: d.CreditAmount,
		CurrencyCode: d.CurrencyCode,
		ExchangeRate: d.ExchangeRate,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:       m.LineID,
		EntryID:      m.EntryID,
		LineNo:       m.LineNo,
		AccountID:    m.AccountID,
		Description:  deref(m.Description),
		DebitAmount:  m.DebitAmount,
		CreditAmount: m.CreditAmount,
		CurrencyCode: m.CurrencyCode,
		ExchangeRate: m.ExchangeRate,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

func ToModelOutboxMessage(d domain.OutboxMessage) models.OutboxMessage {
	return models.OutboxMessage{
		MessageID:    d.MessageID,
		Topic:        d.Topic,
		MessageKey:   d.Key,
		Payload:      d.Payload,
		CreatedAt:    d.CreatedAt,
		DispatchedAt: d.DispatchedAt,
		Attempts:     d.Attempts,
		LastError:    d.LastError,
	}
}

func ToDomainOutboxMessage(m models.OutboxMessage) domain.OutboxMessage {
	return domain.OutboxMessage{
		MessageID:    m.MessageID,
		Topic:        m.Topic,
		Key:          m.MessageKey,
		Payload:      m.Payload,
		CreatedAt:    m.CreatedAt,
		DispatchedAt: m.DispatchedAt,
		Attempts:     m.Attempts,
		LastError:    m.LastError,
	}
}
