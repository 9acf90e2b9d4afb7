package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/utils/numbering"
	"github.com/SscSPs/ledger_core/internal/utils/pagination"
)

type journalRepo struct {
	v view
}

var _ portsrepo.JournalRepositoryFacade = (*journalRepo)(nil)

func (r *journalRepo) FindEntryByID(_ context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	var (
		e  domain.JournalEntry
		ok bool
	)
	r.v.read(func(st *state) { e, ok = st.entries[entryID] })
	if !ok || e.TenantID != tenantID {
		return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	return &e, nil
}

func (r *journalRepo) FindEntryByNumber(_ context.Context, tenantID, entryNumber string) (*domain.JournalEntry, error) {
	var found *domain.JournalEntry
	r.v.read(func(st *state) {
		for _, e := range st.entries {
			if e.TenantID == tenantID && e.EntryNumber == entryNumber {
				found = &e
				return
			}
		}
	})
	if found == nil {
		return nil, fmt.Errorf("%w: journal entry number %s", apperrors.ErrNotFound, entryNumber)
	}
	return found, nil
}

func (r *journalRepo) FindLinesByEntryID(_ context.Context, entryID string) ([]domain.JournalLine, error) {
	var out []domain.JournalLine
	r.v.read(func(st *state) { out = slices.Clone(st.lines[entryID]) })
	slices.SortFunc(out, func(a, b domain.JournalLine) int { return a.LineNo - b.LineNo })
	return out, nil
}

func (r *journalRepo) ListEntries(_ context.Context, tenantID string, filter portsrepo.EntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	var matched []domain.JournalEntry
	r.v.read(func(st *state) {
		for _, e := range st.entries {
			if e.TenantID != tenantID {
				continue
			}
			if filter.Status != nil && e.Status != *filter.Status {
				continue
			}
			if filter.FiscalPeriodID != nil && e.FiscalPeriodID != *filter.FiscalPeriodID {
				continue
			}
			if cursor != nil && !cursor.Less(e.EntryDate, e.CreatedAt, e.EntryID) {
				continue
			}
			matched = append(matched, e)
		}
	})

	slices.SortFunc(matched, func(a, b domain.JournalEntry) int {
		if c := b.EntryDate.Compare(a.EntryDate); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.EntryID, a.EntryID)
	})

	if len(matched) <= limit {
		return matched, nil, nil
	}
	page := matched[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(last.EntryDate, last.CreatedAt, last.EntryID)
	return page, &token, nil
}

func (r *journalRepo) MaxEntrySequence(_ context.Context, tenantID, bucket string) (int, error) {
	highest := 0
	r.v.read(func(st *state) {
		for _, e := range st.entries {
			if e.TenantID != tenantID {
				continue
			}
			if seq, ok := numbering.EntrySequence(bucket, e.EntryNumber); ok && seq > highest {
				highest = seq
			}
		}
	})
	return highest, nil
}

func (r *journalRepo) AccountHasLines(_ context.Context, accountID string) (bool, error) {
	found := false
	r.v.read(func(st *state) {
		for _, lines := range st.lines {
			for _, l := range lines {
				if l.AccountID == accountID {
					found = true
					return
				}
			}
		}
	})
	return found, nil
}

func (r *journalRepo) SaveEntry(_ context.Context, entry domain.JournalEntry) error {
	entry.Lines = nil
	return r.v.write(func(st *state) error {
		if _, exists := st.entries[entry.EntryID]; exists {
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrDuplicate, entry.EntryID)
		}
		for _, e := range st.entries {
			if e.TenantID == entry.TenantID && e.EntryNumber == entry.EntryNumber {
				return fmt.Errorf("%w: journal entry number %s", apperrors.ErrDuplicate, entry.EntryNumber)
			}
		}
		st.entries[entry.EntryID] = entry
		return nil
	})
}

func (r *journalRepo) SaveLines(_ context.Context, lines []domain.JournalLine) error {
	return r.v.write(func(st *state) error {
		for _, l := range lines {
			if _, ok := st.entries[l.EntryID]; !ok {
				return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, l.EntryID)
			}
			if _, ok := st.accounts[l.AccountID]; !ok {
				return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, l.AccountID)
			}
		}
		for _, l := range lines {
			st.lines[l.EntryID] = append(st.lines[l.EntryID], l)
		}
		return nil
	})
}

func (r *journalRepo) UpdateEntry(_ context.Context, entry domain.JournalEntry) error {
	entry.Lines = nil
	return r.v.write(func(st *state) error {
		current, ok := st.entries[entry.EntryID]
		if !ok || current.TenantID != entry.TenantID {
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entry.EntryID)
		}
		for _, e := range st.entries {
			if e.EntryID != entry.EntryID && e.TenantID == entry.TenantID && e.EntryNumber == entry.EntryNumber {
				return fmt.Errorf("%w: journal entry number %s", apperrors.ErrDuplicate, entry.EntryNumber)
			}
		}
		entry.CreatedAt, entry.CreatedBy = current.CreatedAt, current.CreatedBy
		st.entries[entry.EntryID] = entry
		return nil
	})
}

func (r *journalRepo) DeleteLines(_ context.Context, entryID string) error {
	return r.v.write(func(st *state) error {
		delete(st.lines, entryID)
		return nil
	})
}

func (r *journalRepo) DeleteEntry(_ context.Context, tenantID, entryID string) error {
	return r.v.write(func(st *state) error {
		e, ok := st.entries[entryID]
		if !ok || e.TenantID != tenantID {
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
		}
		if len(st.lines[entryID]) > 0 {
			return fmt.Errorf("%w: journal entry %s still has lines", apperrors.ErrConflict, entryID)
		}
		delete(st.entries, entryID)
		return nil
	})
}

func (r *journalRepo) FindEntryForUpdate(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	return r.FindEntryByID(ctx, tenantID, entryID)
}
