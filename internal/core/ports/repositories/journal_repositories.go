package repositories

import (
	"context"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// EntryFilter narrows ListEntries.
type EntryFilter struct {
	Status         *domain.JournalStatus
	FiscalPeriodID *string
}

// JournalReader defines read operations for journal entries and their lines
type JournalReader interface {
	// FindEntryByID retrieves an entry header. Lines are not loaded.
	FindEntryByID(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error)

	FindEntryByNumber(ctx context.Context, tenantID, entryNumber string) (*domain.JournalEntry, error)

	// FindLinesByEntryID returns the entry's lines ordered by line number.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// ListEntries retrieves a page of entries, newest first, using token-based pagination.
	// It returns the entries, a token for the next page, and an error.
	ListEntries(ctx context.Context, tenantID string, filter EntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// MaxEntrySequence returns the highest numeric sequence among entry numbers
	// shaped <bucket><5+ digits>, or 0 when there is none. Other numbers in the
	// bucket are ignored.
	MaxEntrySequence(ctx context.Context, tenantID, bucket string) (int, error)

	// AccountHasLines reports whether any journal line references the account.
	AccountHasLines(ctx context.Context, accountID string) (bool, error)
}

// JournalWriter defines write operations for journal entries and their lines
type JournalWriter interface {
	// SaveEntry inserts the header. A duplicate entry number yields apperrors.ErrDuplicate.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error

	// SaveLines inserts lines in a single round trip.
	SaveLines(ctx context.Context, lines []domain.JournalLine) error

	// UpdateEntry overwrites every mutable header column, including status, totals and reversal links.
	UpdateEntry(ctx context.Context, entry domain.JournalEntry) error

	DeleteLines(ctx context.Context, entryID string) error

	DeleteEntry(ctx context.Context, tenantID, entryID string) error
}

// JournalTransactionSupport is only meaningful on repositories bound to a transaction.
type JournalTransactionSupport interface {
	// FindEntryForUpdate reads the header and locks it for the rest of the transaction.
	FindEntryForUpdate(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	JournalTransactionSupport
}
