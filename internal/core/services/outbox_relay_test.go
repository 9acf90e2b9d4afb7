package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/core/services"
	"github.com/SscSPs/ledger_core/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, msg domain.OutboxMessage) error {
	args := m.Called(ctx, msg.MessageID)
	return args.Error(0)
}

func seedOutbox(t *testing.T, store *memory.Store, ids ...string) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, store.Provider().OutboxRepo.SaveMessage(context.Background(), domain.OutboxMessage{
			MessageID: id,
			Topic:     domain.EntryPostedTopic,
			Key:       tenantID,
			Payload:   []byte(`{}`),
			CreatedAt: time.Now().UTC(),
		}))
	}
}

func TestOutboxRelay_DispatchPending(t *testing.T) {
	store := memory.NewStore()
	seedOutbox(t, store, "m1", "m2", "m3")

	publisher := new(MockPublisher)
	publisher.On("Publish", mock.Anything, "m1").Return(nil).Once()
	publisher.On("Publish", mock.Anything, "m2").Return(errors.New("broker down")).Once()
	publisher.On("Publish", mock.Anything, "m3").Return(nil).Once()

	relay := services.NewOutboxRelay(store.Provider().OutboxRepo, publisher, 10, services.WithLogger(discardLogger()))
	delivered, err := relay.DispatchPending(context.Background())
	assert.Equal(t, 2, delivered)
	assert.ErrorContains(t, err, "broker down")
	publisher.AssertExpectations(t)

	pending, err := store.Provider().OutboxRepo.ListPending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "m2", pending[0].MessageID)
	assert.Equal(t, 1, pending[0].Attempts)
	require.NotNil(t, pending[0].LastError)
	assert.Equal(t, "broker down", *pending[0].LastError)

	// the failed message is retried on the next run
	publisher.On("Publish", mock.Anything, "m2").Return(nil).Once()
	delivered, err = relay.DispatchPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)
	publisher.AssertExpectations(t)
}

func TestOutboxRelay_RespectsBatchSize(t *testing.T) {
	store := memory.NewStore()
	seedOutbox(t, store, "m1", "m2", "m3")

	publisher := new(MockPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	relay := services.NewOutboxRelay(store.Provider().OutboxRepo, publisher, 2)
	delivered, err := relay.DispatchPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, delivered)
	publisher.AssertNumberOfCalls(t, "Publish", 2)

	delivered, err = relay.DispatchPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)

	delivered, err = relay.DispatchPending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, delivered)
}
