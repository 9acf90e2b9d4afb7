// Package memory implements the repository ports on in-process maps. It backs
// the engine tests and single-process runs with STORE_DRIVER=memory.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
)

type state struct {
	accounts map[string]domain.Account
	periods  map[string]domain.FiscalPeriod
	entries  map[string]domain.JournalEntry // headers only
	lines    map[string][]domain.JournalLine
	outbox   []domain.OutboxMessage
}

func newState() *state {
	return &state{
		accounts: make(map[string]domain.Account),
		periods:  make(map[string]domain.FiscalPeriod),
		entries:  make(map[string]domain.JournalEntry),
		lines:    make(map[string][]domain.JournalLine),
	}
}

// clone copies every container. Stored values are never mutated in place, so
// sharing the pointers they hold is safe.
func (s *state) clone() *state {
	c := &state{
		accounts: maps.Clone(s.accounts),
		periods:  maps.Clone(s.periods),
		entries:  maps.Clone(s.entries),
		lines:    make(map[string][]domain.JournalLine, len(s.lines)),
		outbox:   slices.Clone(s.outbox),
	}
	for k, v := range s.lines {
		c.lines[k] = slices.Clone(v)
	}
	return c
}

// Store holds all ledger data in memory. A transaction takes the store lock
// exclusively for its whole duration, so transactions are serialisable; a
// failed transaction restores the snapshot taken when it began.
type Store struct {
	mu sync.RWMutex
	st *state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{st: newState()}
}

var _ portsrepo.UnitOfWork = (*Store)(nil)

// view is a handle on the store. Outside a transaction each call takes the
// store lock itself; inside one the lock is already held by WithinTx.
type view struct {
	s    *Store
	inTx bool
}

func (v view) read(fn func(st *state)) {
	if !v.inTx {
		v.s.mu.RLock()
		defer v.s.mu.RUnlock()
	}
	fn(v.s.st)
}

func (v view) write(fn func(st *state) error) error {
	if !v.inTx {
		v.s.mu.Lock()
		defer v.s.mu.Unlock()
	}
	return fn(v.s.st)
}

type txRepos struct {
	v view
}

func (t txRepos) Accounts() portsrepo.AccountRepositoryFacade { return &accountRepo{t.v} }
func (t txRepos) Periods() portsrepo.FiscalPeriodRepositoryFacade { return &periodRepo{t.v} }
func (t txRepos) Journals() portsrepo.JournalRepositoryFacade { return &journalRepo{t.v} }
func (t txRepos) Outbox() portsrepo.OutboxRepositoryFacade { return &outboxRepo{t.v} }

// WithinTx implements repositories.UnitOfWork.
func (s *Store) WithinTx(ctx context.Context, fn portsrepo.TxFunc) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	defer func() {
		if p := recover(); p != nil {
			s.st = snapshot
			panic(p)
		}
		if err != nil {
			s.st = snapshot
		}
	}()

	return fn(ctx, txRepos{v: view{s: s, inTx: true}})
}

// Provider returns repositories that run outside any transaction, plus the
// store itself as the unit of work.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	v := view{s: s}
	return portsrepo.RepositoryProvider{
		AccountRepo: &accountRepo{v},
		PeriodRepo:  &periodRepo{v},
		JournalRepo: &journalRepo{v},
		OutboxRepo:  &outboxRepo{v},
		UnitOfWork:  s,
	}
}
