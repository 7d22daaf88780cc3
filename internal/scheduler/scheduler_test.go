package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanwx/marine-aggregator/internal/prefetch"
)

// fakeRunner counts invocations and returns a caller-controlled Status,
// standing in for a real prefetch cycle so tests run on a millisecond
// clock instead of the real forecast cadence.
type fakeRunner struct {
	calls  int32
	status prefetch.Status
}

func (f *fakeRunner) Run(ctx context.Context) prefetch.Status {
	atomic.AddInt32(&f.calls, 1)
	return f.status
}

func (f *fakeRunner) callCount() int32 {
	return atomic.LoadInt32(&f.calls)
}

func newTestScheduler(runner Runner) *Scheduler {
	s := New(runner)
	s.recoveryDelay = 20 * time.Millisecond
	s.nextDelay = func(time.Time) time.Duration { return 20 * time.Millisecond }
	return s
}

func TestStart_RunsColdFillImmediately(t *testing.T) {
	runner := &fakeRunner{status: prefetch.Status{Attempted: 3, Succeeded: 3}}
	s := newTestScheduler(runner)

	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool { return runner.callCount() >= 1 }, time.Second, time.Millisecond)
	assert.True(t, s.IsRunning())
}

func TestStart_ReArmsAfterEachCycle(t *testing.T) {
	runner := &fakeRunner{status: prefetch.Status{Attempted: 3, Succeeded: 3}}
	s := newTestScheduler(runner)

	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool { return runner.callCount() >= 3 }, time.Second, time.Millisecond)
}

func TestStop_PreventsFurtherCycles(t *testing.T) {
	runner := &fakeRunner{status: prefetch.Status{Attempted: 3, Succeeded: 3}}
	s := newTestScheduler(runner)

	s.Start()
	require.Eventually(t, func() bool { return runner.callCount() >= 1 }, time.Second, time.Millisecond)

	s.Stop()
	assert.False(t, s.IsRunning())

	after := runner.callCount()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, after, runner.callCount(), "no cycle should run after Stop")
}

func TestStart_NoOpWhenAlreadyRunning(t *testing.T) {
	runner := &fakeRunner{status: prefetch.Status{Attempted: 1, Succeeded: 1}}
	s := newTestScheduler(runner)

	s.Start()
	s.Start()
	defer s.Stop()

	assert.True(t, s.IsRunning())
}

func TestStop_NoOpWhenAlreadyStopped(t *testing.T) {
	runner := &fakeRunner{status: prefetch.Status{Attempted: 1, Succeeded: 1}}
	s := newTestScheduler(runner)

	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestRunCycle_BacksOffOnTotalFailure(t *testing.T) {
	runner := &fakeRunner{status: prefetch.Status{Attempted: 5, Failed: 5}}
	s := New(runner)
	s.recoveryDelay = 15 * time.Millisecond
	// Use a long normal cadence so only the failure-triggered recovery
	// delay could possibly cause the second call to arrive this fast.
	s.nextDelay = func(time.Time) time.Duration { return time.Hour }

	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool { return runner.callCount() >= 2 }, time.Second, time.Millisecond)
}
