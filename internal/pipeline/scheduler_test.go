package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blockingRunner struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (r *blockingRunner) Run(ctx context.Context) (*Report, error) {
	r.calls.Add(1)
	close(r.started)
	<-r.release
	return &Report{RunID: "shared"}, nil
}

func TestScheduler_TriggerCollapsesOverlappingRuns(t *testing.T) {
	t.Parallel()

	runner := &blockingRunner{started: make(chan struct{}), release: make(chan struct{})}
	s := NewScheduler(runner, cron.New(), "@hourly")

	var wg sync.WaitGroup
	var leaderJoined bool
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, joined, err := s.Trigger(context.Background())
		assert.NoError(t, err)
		leaderJoined = joined
	}()
	<-runner.started

	var followerReport *Report
	var followerJoined bool
	wg.Add(1)
	go func() {
		defer wg.Done()
		followerReport, followerJoined, _ = s.Trigger(context.Background())
	}()

	// give the second trigger time to join the in-flight call
	time.Sleep(50 * time.Millisecond)
	close(runner.release)
	wg.Wait()

	assert.Equal(t, int32(1), runner.calls.Load())
	assert.False(t, leaderJoined)
	assert.True(t, followerJoined)
	require.NotNil(t, followerReport)
	assert.Equal(t, "shared", followerReport.RunID)
}

func TestScheduler_ScheduleRejectsBadExpression(t *testing.T) {
	t.Parallel()

	s := NewScheduler(&blockingRunner{}, cron.New(), "every now and then")
	require.Error(t, s.Schedule(context.Background()))
}

func TestScheduler_ScheduleRegistersEntry(t *testing.T) {
	t.Parallel()

	c := cron.New()
	s := NewScheduler(&blockingRunner{}, c, "*/5 * * * *")
	require.NoError(t, s.Schedule(context.Background()))
	assert.Len(t, c.Entries(), 1)
}
