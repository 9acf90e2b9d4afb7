package messaging

import (
	"context"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// EventPublisher delivers outbox messages to subscribers outside the ledger.
// Publish returns only after the broker accepted the message, so a nil error
// means the message may be marked dispatched.
type EventPublisher interface {
	Publish(ctx context.Context, msg domain.OutboxMessage) error
}
