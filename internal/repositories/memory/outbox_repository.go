package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
)

type outboxRepo struct {
	v view
}

var _ portsrepo.OutboxRepositoryFacade = (*outboxRepo)(nil)

func (r *outboxRepo) SaveMessage(_ context.Context, msg domain.OutboxMessage) error {
	return r.v.write(func(st *state) error {
		st.outbox = append(st.outbox, msg)
		return nil
	})
}

func (r *outboxRepo) ListPending(_ context.Context, limit int) ([]domain.OutboxMessage, error) {
	var out []domain.OutboxMessage
	r.v.read(func(st *state) {
		for _, m := range st.outbox {
			if m.DispatchedAt != nil {
				continue
			}
			out = append(out, m)
			if len(out) == limit {
				return
			}
		}
	})
	return out, nil
}

func (r *outboxRepo) update(messageID string, fn func(m *domain.OutboxMessage)) error {
	return r.v.write(func(st *state) error {
		for i := range st.outbox {
			if st.outbox[i].MessageID == messageID {
				fn(&st.outbox[i])
				return nil
			}
		}
		return fmt.Errorf("%w: outbox message %s", apperrors.ErrNotFound, messageID)
	})
}

func (r *outboxRepo) MarkDispatched(_ context.Context, messageID string, at time.Time) error {
	return r.update(messageID, func(m *domain.OutboxMessage) { m.DispatchedAt = &at })
}

func (r *outboxRepo) RecordFailure(_ context.Context, messageID string, reason string) error {
	return r.update(messageID, func(m *domain.OutboxMessage) {
		m.Attempts++
		m.LastError = &reason
	})
}
