package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledger_core/internal/core/ports/messaging"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
)

const defaultOutboxBatchSize = 100

// OutboxRelay publishes committed outbox messages. Delivery is at-least-once:
// a message published but not marked is sent again on the next run.
type OutboxRelay struct {
	BaseService
	repo      portsrepo.OutboxRepositoryFacade
	publisher messaging.EventPublisher
	batchSize int
}

// NewOutboxRelay creates a relay that handles up to batchSize messages per run.
func NewOutboxRelay(repo portsrepo.OutboxRepositoryFacade, publisher messaging.EventPublisher, batchSize int, opts ...Option) *OutboxRelay {
	if batchSize <= 0 {
		batchSize = defaultOutboxBatchSize
	}
	return &OutboxRelay{
		BaseService: newBaseService(opts...),
		repo:        repo,
		publisher:   publisher,
		batchSize:   batchSize,
	}
}

var _ portssvc.OutboxDispatcher = (*OutboxRelay)(nil)

// DispatchPending publishes pending messages in creation order. A failed
// publish is recorded on the message and does not stop the batch.
func (r *OutboxRelay) DispatchPending(ctx context.Context) (int, error) {
	pending, err := r.repo.ListPending(ctx, r.batchSize)
	if err != nil {
		r.LogError(ctx, err, "Failed to list pending outbox messages")
		return 0, err
	}

	delivered := 0
	var failures []error
	for _, msg := range pending {
		if err := ctx.Err(); err != nil {
			failures = append(failures, err)
			break
		}

		if err := r.publisher.Publish(ctx, msg); err != nil {
			r.LogError(ctx, err, "Failed to publish outbox message",
				slog.String("message_id", msg.MessageID),
				slog.String("topic", msg.Topic),
				slog.Int("attempts", msg.Attempts+1))
			if recErr := r.repo.RecordFailure(ctx, msg.MessageID, err.Error()); recErr != nil {
				r.LogError(ctx, recErr, "Failed to record outbox failure", slog.String("message_id", msg.MessageID))
			}
			failures = append(failures, fmt.Errorf("message %s: %w", msg.MessageID, err))
			continue
		}

		if err := r.repo.MarkDispatched(ctx, msg.MessageID, r.Now()); err != nil {
			r.LogError(ctx, err, "Failed to mark outbox message dispatched", slog.String("message_id", msg.MessageID))
			failures = append(failures, err)
			continue
		}
		delivered++
	}

	if delivered > 0 {
		r.LogDebug(ctx, "Outbox messages dispatched", slog.Int("count", delivered))
	}
	return delivered, errors.Join(failures...)
}
