package messaging

import (
	"context"
	"log/slog"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsmsg "github.com/SscSPs/ledger_core/internal/core/ports/messaging"
)

// LogPublisher writes messages to the log instead of a broker. It is used when
// no Kafka brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

var _ portsmsg.EventPublisher = (*LogPublisher)(nil)

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, msg domain.OutboxMessage) error {
	p.logger.Info("Outbox message",
		slog.String("message_id", msg.MessageID),
		slog.String("topic", msg.Topic),
		slog.String("key", msg.Key),
		slog.String("payload", string(msg.Payload)),
	)
	return nil
}
