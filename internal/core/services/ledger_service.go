package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/platform/lock"
	"github.com/SscSPs/ledger_core/internal/utils/accounting"
	"github.com/SscSPs/ledger_core/internal/utils/numbering"
	"github.com/SscSPs/ledger_core/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultEntryPageSize = 20
	maxEntryPageSize     = 100
)

// ledgerService is the posting engine. It drives journal entries through
// DRAFT -> POSTED -> REVERSED and is the only writer of account balances.
type ledgerService struct {
	BaseService
	repos       portsrepo.RepositoryProvider
	locker      lock.Locker
	entryPrefix string
}

// NewLedgerService creates the posting engine. Account balances are only
// touched inside repos.UnitOfWork while locker holds every affected account.
func NewLedgerService(repos portsrepo.RepositoryProvider, locker lock.Locker, entryPrefix string, opts ...Option) portssvc.LedgerSvcFacade {
	if entryPrefix == "" {
		entryPrefix = numbering.DefaultEntryPrefix
	}
	return &ledgerService{
		BaseService: newBaseService(opts...),
		repos:       repos,
		locker:      locker,
		entryPrefix: entryPrefix,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// createOptions carries what differs between a caller-built draft and a reversal.
type createOptions struct {
	reversalOf *string
}

// --- reads ---

func (s *ledgerService) GetEntry(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.repos.JournalRepo.FindEntryByID(ctx, tenantID, entryID)
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to get journal entry", slog.String("entry_id", entryID))
	}
	lines, err := s.repos.JournalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to get journal lines", slog.String("entry_id", entryID))
	}
	entry.Lines = lines
	return entry, nil
}

func (s *ledgerService) ListEntries(ctx context.Context, tenantID string, params dto.ListEntriesParams) ([]domain.JournalEntry, *string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultEntryPageSize
	}
	if limit > maxEntryPageSize {
		limit = maxEntryPageSize
	}

	filter := portsrepo.EntryFilter{FiscalPeriodID: params.FiscalPeriodID}
	if params.Status != nil && *params.Status != "" {
		st := domain.JournalStatus(strings.ToUpper(*params.Status))
		filter.Status = &st
	}
	if params.NextToken != nil && *params.NextToken != "" {
		if _, err := pagination.DecodeToken(*params.NextToken); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}

	entries, next, err := s.repos.JournalRepo.ListEntries(ctx, tenantID, filter, limit, params.NextToken)
	if err != nil {
		return nil, nil, s.fail(ctx, err, "Failed to list journal entries", slog.String("tenant_id", tenantID))
	}
	return entries, next, nil
}

// --- drafts ---

func (s *ledgerService) CreateEntry(ctx context.Context, tenantID string, req dto.EntryRequest, actorID string) (*domain.JournalEntry, error) {
	if err := validateEntryRequest(&req); err != nil {
		return nil, err
	}

	var created *domain.JournalEntry
	err := s.repos.UnitOfWork.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		entry, err := s.createInTx(ctx, tx, tenantID, req, actorID, createOptions{})
		created = entry
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to create journal entry", slog.String("tenant_id", tenantID))
	}

	s.LogInfo(ctx, "Journal entry created",
		slog.String("entry_id", created.EntryID),
		slog.String("entry_number", created.EntryNumber),
		slog.String("tenant_id", tenantID))
	return created, nil
}

// createInTx persists a DRAFT header with zero totals, then its lines, then
// the recomputed totals. No account is touched.
func (s *ledgerService) createInTx(ctx context.Context, tx portsrepo.TxRepositories, tenantID string, req dto.EntryRequest, actorID string, opts createOptions) (*domain.JournalEntry, error) {
	now := s.Now()
	entryID := uuid.NewString()

	lines, err := buildLines(req, entryID, actorID, now)
	if err != nil {
		return nil, err
	}
	period, err := s.resolvePeriod(ctx, tx.Periods(), tenantID, req.FiscalPeriodID, req.EntryDate)
	if err != nil {
		return nil, err
	}
	if err := checkLineAccounts(ctx, tx.Accounts(), tenantID, lines, req.Source, opts.reversalOf == nil); err != nil {
		return nil, err
	}

	number, supplied := req.EntryNumber, req.EntryNumber != ""
	if supplied {
		if err := ensureEntryNumberFree(ctx, tx.Journals(), tenantID, number); err != nil {
			return nil, err
		}
	} else {
		bucket := numbering.EntryBucket(s.entryPrefix, req.EntryDate)
		highest, err := tx.Journals().MaxEntrySequence(ctx, tenantID, bucket)
		if err != nil {
			return nil, err
		}
		number = numbering.NextEntryNumber(bucket, highest)
	}

	entry := domain.JournalEntry{
		EntryID:           entryID,
		EntryNumber:       number,
		TenantID:          tenantID,
		EntryDate:         domain.DateOnly(req.EntryDate),
		Reference:         req.Reference,
		Description:       req.Description,
		FiscalPeriodID:    period.PeriodID,
		Status:            domain.Draft,
		TotalDebit:        decimal.Zero,
		TotalCredit:       decimal.Zero,
		CurrencyCode:      req.CurrencyCode,
		Source:            req.Source,
		ReversalOfEntryID: opts.reversalOf,
		AuditFields:       domain.NewAuditFields(actorID, now),
	}
	if err := tx.Journals().SaveEntry(ctx, entry); err != nil {
		return nil, entryNumberError(err, supplied)
	}
	if len(lines) > 0 {
		if err := tx.Journals().SaveLines(ctx, lines); err != nil {
			return nil, err
		}
	}

	entry.TotalDebit, entry.TotalCredit = domain.Totals(lines)
	if err := tx.Journals().UpdateEntry(ctx, entry); err != nil {
		return nil, err
	}
	entry.Lines = lines
	return &entry, nil
}

func (s *ledgerService) UpdateEntry(ctx context.Context, tenantID, entryID string, req dto.EntryRequest, actorID string) (*domain.JournalEntry, error) {
	if err := validateEntryRequest(&req); err != nil {
		return nil, err
	}

	var updated *domain.JournalEntry
	err := s.repos.UnitOfWork.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		entry, err := tx.Journals().FindEntryForUpdate(ctx, tenantID, entryID)
		if err != nil {
			return err
		}
		if entry.Status.IsTerminal() {
			return fmt.Errorf("%w: entry %s is %s", apperrors.ErrCannotModifyPosted, entry.EntryNumber, entry.Status)
		}

		now := s.Now()
		lines, err := buildLines(req, entryID, actorID, now)
		if err != nil {
			return err
		}
		period, err := s.resolvePeriod(ctx, tx.Periods(), tenantID, req.FiscalPeriodID, req.EntryDate)
		if err != nil {
			return err
		}
		if err := checkLineAccounts(ctx, tx.Accounts(), tenantID, lines, req.Source, entry.ReversalOfEntryID == nil); err != nil {
			return err
		}

		supplied := req.EntryNumber != "" && req.EntryNumber != entry.EntryNumber
		if supplied {
			if err := ensureEntryNumberFree(ctx, tx.Journals(), tenantID, req.EntryNumber); err != nil {
				return err
			}
			entry.EntryNumber = req.EntryNumber
		}

		entry.EntryDate = domain.DateOnly(req.EntryDate)
		entry.Reference = req.Reference
		entry.Description = req.Description
		entry.FiscalPeriodID = period.PeriodID
		entry.CurrencyCode = req.CurrencyCode
		entry.Source = req.Source
		entry.TotalDebit, entry.TotalCredit = domain.Totals(lines)
		entry.Touch(actorID, now)

		if err := tx.Journals().DeleteLines(ctx, entryID); err != nil {
			return err
		}
		if len(lines) > 0 {
			if err := tx.Journals().SaveLines(ctx, lines); err != nil {
				return err
			}
		}
		if err := tx.Journals().UpdateEntry(ctx, *entry); err != nil {
			return entryNumberError(err, supplied)
		}
		entry.Lines = lines
		updated = entry
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to update journal entry", slog.String("entry_id", entryID))
	}

	s.LogInfo(ctx, "Journal entry updated", slog.String("entry_id", entryID), slog.String("tenant_id", tenantID))
	return updated, nil
}

func (s *ledgerService) DeleteEntry(ctx context.Context, tenantID, entryID, actorID string) error {
	err := s.repos.UnitOfWork.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		entry, err := tx.Journals().FindEntryForUpdate(ctx, tenantID, entryID)
		if err != nil {
			return err
		}
		if entry.Status.IsTerminal() {
			return fmt.Errorf("%w: entry %s is %s", apperrors.ErrCannotDeletePosted, entry.EntryNumber, entry.Status)
		}
		if err := tx.Journals().DeleteLines(ctx, entryID); err != nil {
			return err
		}
		return tx.Journals().DeleteEntry(ctx, tenantID, entryID)
	})
	if err != nil {
		return s.fail(ctx, err, "Failed to delete journal entry", slog.String("entry_id", entryID))
	}

	s.LogInfo(ctx, "Journal entry deleted",
		slog.String("entry_id", entryID),
		slog.String("tenant_id", tenantID),
		slog.String("actor_id", actorID))
	return nil
}

// --- posting ---

func (s *ledgerService) PostEntry(ctx context.Context, tenantID, entryID, actorID string) (*domain.JournalEntry, error) {
	// The lock set comes from a read outside the transaction; postInTx
	// verifies it still covers the lines it posts.
	entry, err := s.GetEntry(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.Draft {
		return nil, fmt.Errorf("%w: entry %s is %s", apperrors.ErrAlreadyPosted, entry.EntryNumber, entry.Status)
	}

	locked, release, err := s.lockAccounts(ctx, domain.AccountIDs(entry.Lines))
	if err != nil {
		return nil, err
	}
	defer release()

	var posted *domain.JournalEntry
	err = s.repos.UnitOfWork.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		e, err := s.postInTx(ctx, tx, tenantID, entryID, actorID, locked)
		posted = e
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to post journal entry", slog.String("entry_id", entryID))
	}

	s.LogInfo(ctx, "Journal entry posted",
		slog.String("entry_id", posted.EntryID),
		slog.String("entry_number", posted.EntryNumber),
		slog.String("tenant_id", tenantID),
		slog.String("total", posted.TotalDebit.StringFixed(2)))
	return posted, nil
}

// postInTx validates the draft, applies every line to its account and marks
// the entry POSTED. The caller must hold locks for every key in locked.
func (s *ledgerService) postInTx(ctx context.Context, tx portsrepo.TxRepositories, tenantID, entryID, actorID string, locked map[string]struct{}) (*domain.JournalEntry, error) {
	entry, err := tx.Journals().FindEntryForUpdate(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.Draft {
		return nil, fmt.Errorf("%w: entry %s is %s", apperrors.ErrAlreadyPosted, entry.EntryNumber, entry.Status)
	}

	lines, err := tx.Journals().FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: entry %s has no lines", apperrors.ErrValidation, entry.EntryNumber)
	}
	accountIDs := domain.AccountIDs(lines)
	for _, id := range accountIDs {
		if _, ok := locked[id]; !ok {
			return nil, fmt.Errorf("%w: lines of entry %s changed while posting", apperrors.ErrConflict, entry.EntryNumber)
		}
	}

	entry.TotalDebit, entry.TotalCredit = domain.Totals(lines)
	if !domain.IsBalanced(lines) {
		return nil, fmt.Errorf("%w: debits %s, credits %s", apperrors.ErrUnbalancedEntry,
			entry.TotalDebit.StringFixed(2), entry.TotalCredit.StringFixed(2))
	}

	period, err := tx.Periods().FindPeriodForShare(ctx, tenantID, entry.FiscalPeriodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: fiscal period %s not found", apperrors.ErrPeriodClosed, entry.FiscalPeriodID)
		}
		return nil, err
	}
	if !period.CanAccept(entry.EntryDate) {
		return nil, fmt.Errorf("%w: period %s is %s", apperrors.ErrPeriodClosed, period.Name, period.Status)
	}

	accounts, err := tx.Accounts().LockAccountsForUpdate(ctx, tenantID, accountIDs)
	if err != nil {
		return nil, err
	}
	balances, err := accounting.ApplyLines(accounts, lines)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	if err := tx.Accounts().UpdateAccountBalances(ctx, balances, actorID, now); err != nil {
		return nil, err
	}

	entry.Status = domain.Posted
	entry.PostedAt = &now
	entry.PostedBy = &actorID
	entry.Touch(actorID, now)
	if err := tx.Journals().UpdateEntry(ctx, *entry); err != nil {
		return nil, err
	}

	msg, err := entryPostedMessage(*entry, now)
	if err != nil {
		return nil, err
	}
	if err := tx.Outbox().SaveMessage(ctx, msg); err != nil {
		return nil, err
	}

	entry.Lines = lines
	return entry, nil
}

func (s *ledgerService) ReverseEntry(ctx context.Context, tenantID, entryID string, req dto.ReverseRequest, actorID string) (*domain.JournalEntry, error) {
	if err := dto.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	original, err := s.GetEntry(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: entry %s is %s", apperrors.ErrNotPosted, original.EntryNumber, original.Status)
	}

	// Posted lines never change, so the pre-read lock set is exact.
	locked, release, err := s.lockAccounts(ctx, domain.AccountIDs(original.Lines))
	if err != nil {
		return nil, err
	}
	defer release()

	var reversal *domain.JournalEntry
	err = s.repos.UnitOfWork.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		orig, err := tx.Journals().FindEntryForUpdate(ctx, tenantID, entryID)
		if err != nil {
			return err
		}
		if orig.Status != domain.Posted {
			return fmt.Errorf("%w: entry %s is %s", apperrors.ErrNotPosted, orig.EntryNumber, orig.Status)
		}
		lines, err := tx.Journals().FindLinesByEntryID(ctx, entryID)
		if err != nil {
			return err
		}

		draft, err := s.createInTx(ctx, tx, tenantID, reversalRequest(*orig, lines, req), actorID, createOptions{reversalOf: &orig.EntryID})
		if err != nil {
			return err
		}
		posted, err := s.postInTx(ctx, tx, tenantID, draft.EntryID, actorID, locked)
		if err != nil {
			return err
		}

		orig.Status = domain.Reversed
		orig.ReversedEntryID = &posted.EntryID
		orig.Touch(actorID, s.Now())
		if err := tx.Journals().UpdateEntry(ctx, *orig); err != nil {
			return err
		}
		reversal = posted
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, err, "Failed to reverse journal entry", slog.String("entry_id", entryID))
	}

	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("entry_id", entryID),
		slog.String("reversal_entry_id", reversal.EntryID),
		slog.String("tenant_id", tenantID))
	return reversal, nil
}

// --- helpers ---

// lockAccounts takes the per-account critical sections and returns the held set.
func (s *ledgerService) lockAccounts(ctx context.Context, accountIDs []string) (map[string]struct{}, lock.Release, error) {
	release, err := s.locker.Acquire(ctx, accountIDs)
	if err != nil {
		s.GetLogger(ctx).Warn("Could not acquire account locks",
			slog.Int("accounts", len(accountIDs)), slog.String("error", err.Error()))
		return nil, nil, err
	}
	locked := make(map[string]struct{}, len(accountIDs))
	for _, id := range accountIDs {
		locked[id] = struct{}{}
	}
	return locked, release, nil
}

// resolvePeriod returns the explicit period when one is named, otherwise the
// narrowest period covering date. Either way it must accept date. A closed
// month is not bypassed by falling back to an open quarter or year.
func (s *ledgerService) resolvePeriod(ctx context.Context, repo portsrepo.FiscalPeriodReader, tenantID string, periodID *string, entryDate time.Time) (*domain.FiscalPeriod, error) {
	if periodID != nil && *periodID != "" {
		period, err := repo.FindPeriodByID(ctx, tenantID, *periodID)
		if err != nil {
			return nil, err
		}
		if !period.CanAccept(entryDate) {
			return nil, fmt.Errorf("%w: period %s does not accept %s", apperrors.ErrPeriodClosed, period.Name, entryDate.Format(time.DateOnly))
		}
		return period, nil
	}

	period, err := coveringPeriod(ctx, repo, tenantID, entryDate)
	if err != nil {
		return nil, err
	}
	if period == nil || !period.CanAccept(entryDate) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNoOpenPeriod, entryDate.Format(time.DateOnly))
	}
	return period, nil
}

// fail logs infrastructure errors; expected ledger conditions are returned quietly.
func (s *ledgerService) fail(ctx context.Context, err error, msg string, attrs ...any) error {
	if apperrors.IsDomainError(err) {
		s.LogDebug(ctx, msg, append(attrs, slog.String("reason", err.Error()))...)
		return err
	}
	s.LogError(ctx, err, msg, attrs...)
	return err
}

// validateEntryRequest checks struct tags and normalises codes and defaults in place.
func validateEntryRequest(req *dto.EntryRequest) error {
	if err := dto.Validate(*req); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if req.EntryDate.IsZero() {
		return fmt.Errorf("%w: entry date is required", apperrors.ErrValidation)
	}
	req.CurrencyCode = strings.ToUpper(req.CurrencyCode)
	if req.Source == "" {
		req.Source = domain.SourceManual
	}
	return nil
}

// buildLines turns line requests into numbered lines of entryID and validates each.
func buildLines(req dto.EntryRequest, entryID, actorID string, now time.Time) ([]domain.JournalLine, error) {
	lines := make([]domain.JournalLine, 0, len(req.Lines))
	for i, lr := range req.Lines {
		currency := strings.ToUpper(lr.CurrencyCode)
		if currency == "" {
			currency = req.CurrencyCode
		}
		line := domain.JournalLine{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			LineNo:       i + 1,
			AccountID:    lr.AccountID,
			Description:  lr.Description,
			DebitAmount:  lr.DebitAmount,
			CreditAmount: lr.CreditAmount,
			CurrencyCode: currency,
			ExchangeRate: lr.ExchangeRate,
			AuditFields:  domain.NewAuditFields(actorID, now),
		}
		if err := line.Validate(); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", apperrors.ErrValidation, i+1, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// checkLineAccounts verifies every referenced account exists in the tenant.
// When strict, accounts must also be active and, for manual entries, accept manual postings.
// checkLineAccounts share-locks the referenced accounts so a concurrent delete or
// deactivation cannot slip in before the draft commits.
func checkLineAccounts(ctx context.Context, repo portsrepo.AccountRepositoryFacade, tenantID string, lines []domain.JournalLine, source domain.EntrySource, strict bool) error {
	ids := domain.AccountIDs(lines)
	if len(ids) == 0 {
		return nil
	}
	found, err := repo.ShareLockAccounts(ctx, tenantID, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		acc, ok := found[id]
		if !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		if !strict {
			continue
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, acc.AccountNumber)
		}
		if source == domain.SourceManual && !acc.AllowManualEntries {
			return fmt.Errorf("%w: account %s does not accept manual entries", apperrors.ErrValidation, acc.AccountNumber)
		}
	}
	return nil
}

func ensureEntryNumberFree(ctx context.Context, repo portsrepo.JournalReader, tenantID, number string) error {
	_, err := repo.FindEntryByNumber(ctx, tenantID, number)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %w: entry number %s", apperrors.ErrValidation, apperrors.ErrDuplicate, number)
	case errors.Is(err, apperrors.ErrNotFound):
		return nil
	default:
		return err
	}
}

// entryNumberError classifies a duplicate number raised by the store. A
// caller-supplied number is bad input; an assigned one lost a race and may be retried.
func entryNumberError(err error, supplied bool) error {
	if !errors.Is(err, apperrors.ErrDuplicate) {
		return err
	}
	if supplied {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	return fmt.Errorf("%w: %w", apperrors.ErrConflict, err)
}

func entryPostedMessage(entry domain.JournalEntry, now time.Time) (domain.OutboxMessage, error) {
	event := domain.EntryPosted{
		EntryID:     entry.EntryID,
		EntryNumber: entry.EntryNumber,
		TenantID:    entry.TenantID,
		PostedAt:    now,
		Total:       entry.TotalDebit,
	}
	if entry.PostedBy != nil {
		event.PostedBy = *entry.PostedBy
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return domain.OutboxMessage{}, fmt.Errorf("marshal %s event: %w", domain.EntryPostedTopic, err)
	}
	return domain.OutboxMessage{
		MessageID: uuid.NewString(),
		Topic:     domain.EntryPostedTopic,
		Key:       entry.TenantID,
		Payload:   payload,
		CreatedAt: now,
	}, nil
}

// reversalRequest mirrors a posted entry: same currency, swapped lines, and the
// original period unless the date is overridden.
func reversalRequest(orig domain.JournalEntry, lines []domain.JournalLine, overrides dto.ReverseRequest) dto.EntryRequest {
	periodID := orig.FiscalPeriodID
	req := dto.EntryRequest{
		EntryDate:      orig.EntryDate,
		Reference:      orig.EntryNumber,
		Description:    "Reversal of " + orig.EntryNumber,
		FiscalPeriodID: &periodID,
		CurrencyCode:   orig.CurrencyCode,
		Source:         domain.SourceSystem,
		Lines:          make([]dto.LineRequest, len(lines)),
	}
	if orig.Description != "" {
		req.Description += ": " + orig.Description
	}
	if overrides.EntryDate != nil {
		req.EntryDate = *overrides.EntryDate
		req.FiscalPeriodID = nil
	}
	if overrides.Reference != nil {
		req.Reference = *overrides.Reference
	}
	if overrides.Description != nil {
		req.Description = *overrides.Description
	}

	for i, l := range lines {
		sw := l.Swapped()
		req.Lines[i] = dto.LineRequest{
			AccountID:    sw.AccountID,
			Description:  sw.Description,
			DebitAmount:  sw.DebitAmount,
			CreditAmount: sw.CreditAmount,
			CurrencyCode: sw.CurrencyCode,
			ExchangeRate: sw.ExchangeRate,
		}
	}
	return req
}
