package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsRegisteredJob(t *testing.T) {
	s := New(slog.New(slog.NewTextHandler(io.Discard, nil)), time.Second)
	var runs int32

	require.NoError(t, s.AddJob("@every 1s", JobFunc{JobName: "count", Fn: func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	}}))
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s := New(slog.New(slog.NewTextHandler(io.Discard, nil)), time.Second)
	err := s.AddJob("not a schedule", JobFunc{JobName: "noop", Fn: func(context.Context) error { return nil }})
	assert.Error(t, err)
}

func TestScheduler_RunNowPropagatesErrorAndDeadline(t *testing.T) {
	s := New(slog.New(slog.NewTextHandler(io.Discard, nil)), 10*time.Millisecond)
	boom := errors.New("boom")

	err := s.RunNow(JobFunc{JobName: "fail", Fn: func(context.Context) error { return boom }})
	assert.ErrorIs(t, err, boom)

	err = s.RunNow(JobFunc{JobName: "slow", Fn: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
