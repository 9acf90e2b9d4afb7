package messaging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockWriter) Close() error {
	return m.Called().Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := new(mockWriter)
	pub := newKafkaPublisher(w, "", discardLogger())
	msg := domain.OutboxMessage{
		MessageID: "m1",
		Topic:     domain.EntryPostedTopic,
		Key:       "entry-1",
		Payload:   []byte(`{"entry_id":"entry-1"}`),
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	w.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
		return len(msgs) == 1 &&
			msgs[0].Topic == domain.EntryPostedTopic &&
			string(msgs[0].Key) == "entry-1" &&
			string(msgs[0].Value) == `{"entry_id":"entry-1"}`
	})).Return(nil).Once()

	require.NoError(t, pub.Publish(context.Background(), msg))
	w.AssertExpectations(t)
}

func TestKafkaPublisher_TopicOverrideAndError(t *testing.T) {
	w := new(mockWriter)
	pub := newKafkaPublisher(w, "ledger-events", discardLogger())

	w.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
		return msgs[0].Topic == "ledger-events"
	})).Return(errors.New("broker down")).Once()

	err := pub.Publish(context.Background(), domain.OutboxMessage{MessageID: "m2", Topic: domain.EntryPostedTopic})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
	w.AssertExpectations(t)
}
