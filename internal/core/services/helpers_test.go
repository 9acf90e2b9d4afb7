package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/shopspring/decimal"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

func debit(accountID, amount string) dto.LineRequest {
	return dto.LineRequest{AccountID: accountID, DebitAmount: dec(amount)}
}

func credit(accountID, amount string) dto.LineRequest {
	return dto.LineRequest{AccountID: accountID, CreditAmount: dec(amount)}
}

func entryRequest(date time.Time, lines ...dto.LineRequest) dto.EntryRequest {
	return dto.EntryRequest{
		EntryDate:    date,
		Description:  "test entry",
		CurrencyCode: "USD",
		Lines:        lines,
	}
}

var errDiskFull = errors.New("disk full")

// failingOutboxUoW runs the real unit of work but fails every outbox write,
// which is the last step of posting.
type failingOutboxUoW struct {
	inner portsrepo.UnitOfWork
}

func (u failingOutboxUoW) WithinTx(ctx context.Context, fn portsrepo.TxFunc) error {
	return u.inner.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		return fn(ctx, failingOutboxTx{tx})
	})
}

type failingOutboxTx struct {
	portsrepo.TxRepositories
}

func (t failingOutboxTx) Outbox() portsrepo.OutboxRepositoryFacade {
	return failingOutbox{t.TxRepositories.Outbox()}
}

type failingOutbox struct {
	portsrepo.OutboxRepositoryFacade
}

func (failingOutbox) SaveMessage(context.Context, domain.OutboxMessage) error {
	return errDiskFull
}

// pausingUoW runs the real unit of work and calls onLineCheck from inside the
// transaction, just before the account's journal lines are inspected.
type pausingUoW struct {
	inner       portsrepo.UnitOfWork
	onLineCheck func()
}

func (u pausingUoW) WithinTx(ctx context.Context, fn portsrepo.TxFunc) error {
	return u.inner.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		return fn(ctx, pausingTx{TxRepositories: tx, onLineCheck: u.onLineCheck})
	})
}

type pausingTx struct {
	portsrepo.TxRepositories
	onLineCheck func()
}

func (t pausingTx) Journals() portsrepo.JournalRepositoryFacade {
	return pausingJournals{JournalRepositoryFacade: t.TxRepositories.Journals(), onLineCheck: t.onLineCheck}
}

type pausingJournals struct {
	portsrepo.JournalRepositoryFacade
	onLineCheck func()
}

func (j pausingJournals) AccountHasLines(ctx context.Context, accountID string) (bool, error) {
	j.onLineCheck()
	return j.JournalRepositoryFacade.AccountHasLines(ctx, accountID)
}
