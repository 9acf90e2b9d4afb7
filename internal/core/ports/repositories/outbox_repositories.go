package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

type OutboxRepositoryFacade interface {
	SaveMessage(ctx context.Context, msg domain.OutboxMessage) error

	// ListPending returns undispatched messages in creation order.
	ListPending(ctx context.Context, limit int) ([]domain.OutboxMessage, error)

	MarkDispatched(ctx context.Context, messageID string, at time.Time) error

	// RecordFailure increments the attempt counter and stores the last error.
	RecordFailure(ctx context.Context, messageID string, reason string) error
}
