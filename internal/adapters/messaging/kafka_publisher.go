package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsmsg "github.com/SscSPs/ledger_core/internal/core/ports/messaging"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes outbox messages to Kafka, keyed by entry id so all
// events of one entry land on the same partition.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

var _ portsmsg.EventPublisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher creates a synchronous writer for brokers. When topic is
// empty each message goes to its own Topic.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		Logger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Debug(fmt.Sprintf(msg, args...))
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Error(fmt.Sprintf(msg, args...))
		}),
	}
	return newKafkaPublisher(writer, topic, logger)
}

func newKafkaPublisher(writer messageWriter, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, topic: topic, logger: logger}
}

// Publish implements messaging.EventPublisher.
func (p *KafkaPublisher) Publish(ctx context.Context, msg domain.OutboxMessage) error {
	topic := p.topic
	if topic == "" {
		topic = msg.Topic
	}
	km := kafka.Message{
		Topic: topic,
		Key:   []byte(msg.Key),
		Value: msg.Payload,
		Time:  msg.CreatedAt,
		Headers: []kafka.Header{
			{Key: "message_id", Value: []byte(msg.MessageID)},
			{Key: "event_type", Value: []byte(msg.Topic)},
		},
	}
	if err := p.writer.WriteMessages(ctx, km); err != nil {
		return fmt.Errorf("publish %s to %s: %w", msg.MessageID, topic, err)
	}
	p.logger.Debug("Published outbox message", slog.String("message_id", msg.MessageID), slog.String("topic", topic))
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
