package services

import (
	"context"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
)

// LedgerReaderSvc defines read operations for journal entries
type LedgerReaderSvc interface {
	// GetEntry returns the entry with its lines.
	GetEntry(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error)

	// ListEntries returns a page of entry headers, newest first, and the token of the next page.
	ListEntries(ctx context.Context, tenantID string, params dto.ListEntriesParams) ([]domain.JournalEntry, *string, error)
}

// LedgerWriterSvc drives the journal entry state machine DRAFT -> POSTED -> REVERSED.
type LedgerWriterSvc interface {
	// CreateEntry stores a draft. Drafts may be unbalanced.
	CreateEntry(ctx context.Context, tenantID string, req dto.EntryRequest, actorID string) (*domain.JournalEntry, error)

	// UpdateEntry replaces the header and the full line set of a draft.
	UpdateEntry(ctx context.Context, tenantID, entryID string, req dto.EntryRequest, actorID string) (*domain.JournalEntry, error)

	// DeleteEntry removes a draft and its lines.
	DeleteEntry(ctx context.Context, tenantID, entryID, actorID string) error

	// PostEntry validates a draft and applies its lines to account balances atomically.
	PostEntry(ctx context.Context, tenantID, entryID, actorID string) (*domain.JournalEntry, error)

	// ReverseEntry posts a mirror of a posted entry and marks the original reversed.
	// It returns the reversal entry.
	ReverseEntry(ctx context.Context, tenantID, entryID string, req dto.ReverseRequest, actorID string) (*domain.JournalEntry, error)
}

// LedgerSvcFacade combines all ledger service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
