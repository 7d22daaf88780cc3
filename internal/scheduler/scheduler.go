// Package scheduler drives the bulk prefetcher on the forecast cycle's own
// cadence: a self-re-arming timer rather than a fixed interval.
package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/oceanwx/marine-aggregator/internal/cadence"
	"github.com/oceanwx/marine-aggregator/internal/prefetch"
)

const defaultRecoveryDelay = 5 * time.Minute

// Runner is the subset of *prefetch.Prefetcher the scheduler drives.
// Accepting an interface here (rather than the concrete type) lets tests
// exercise the scheduler's re-arming and shutdown logic against a fake
// that returns instantly, instead of a real prefetch cycle.
type Runner interface {
	Run(ctx context.Context) prefetch.Status
}

type state int

const (
	stateStopped state = iota
	stateRunning
)

// Scheduler runs Runner.Run once immediately on Start, then re-arms itself
// after every completed cycle from cadence.SecondsUntilNextCycleAvailable,
// following the stopped -> running -> stopped state machine.
type Scheduler struct {
	runner Runner
	clock  *gocron.Scheduler

	recoveryDelay time.Duration
	nextDelay     func(now time.Time) time.Duration

	mu    sync.Mutex
	state state
}

// New builds a Scheduler over the given Runner.
func New(runner Runner) *Scheduler {
	return &Scheduler{
		runner:        runner,
		clock:         gocron.NewScheduler(time.UTC),
		recoveryDelay: defaultRecoveryDelay,
		nextDelay:     cadence.SecondsUntilNextCycleAvailable,
	}
}

// SetRecoveryDelay overrides the backoff applied after a cycle in which
// every station failed, for wiring in the configured
// scheduler.recoveryDelay value.
func (s *Scheduler) SetRecoveryDelay(d time.Duration) {
	s.mu.Lock()
	s.recoveryDelay = d
	s.mu.Unlock()
}

// Start transitions the scheduler from stopped to running. It fires a
// cold-fill prefetch cycle immediately and returns without waiting for it
// to finish; each cycle re-arms the next one from its own completion.
// Calling Start while already running is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.state == stateRunning {
		s.mu.Unlock()
		return
	}
	s.state = stateRunning
	s.mu.Unlock()

	s.clock.StartAsync()
	go s.runCycle()
}

// Stop transitions the scheduler from running to stopped. Any pending
// timer is canceled; an in-flight cycle is allowed to finish but does not
// re-arm another one. Calling Stop while already stopped is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.state != stateRunning {
		s.mu.Unlock()
		return
	}
	s.state = stateStopped
	s.mu.Unlock()

	s.clock.Stop()
}

// IsRunning reports whether the scheduler is in the running state.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateRunning
}

func (s *Scheduler) stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateStopped
}

// runCycle executes one prefetch cycle and arms the next one from its
// result. Because arming only ever happens after a cycle returns, no two
// cycles ever run concurrently and a scheduled cycle never starts before
// its predecessor has finished.
func (s *Scheduler) runCycle() {
	if s.stopped() {
		return
	}

	log.Println("scheduler: prefetch cycle starting")
	status := s.runner.Run(context.Background())
	log.Printf("scheduler: prefetch cycle finished attempted=%d succeeded=%d skipped=%d failed=%d",
		status.Attempted, status.Succeeded, status.Skipped, status.Failed)

	delay := s.nextDelay(time.Now())
	if status.Attempted > 0 && status.Succeeded == 0 && status.Skipped == 0 {
		log.Printf("scheduler: every station failed, backing off %s before retrying", s.recoveryDelay)
		delay = s.recoveryDelay
	}
	s.arm(delay)
}

// arm schedules a one-shot timer that fires runCycle after delay. gocron
// jobs are recurring by nature, so LimitRunsTo(1) turns this one into a
// single-shot deferred call; a fresh job replaces any previous one on
// every arm.
func (s *Scheduler) arm(delay time.Duration) {
	if s.stopped() {
		return
	}

	seconds := uint64(delay.Seconds())
	if seconds < 1 {
		seconds = 1
	}

	s.clock.Clear()
	if _, err := s.clock.Every(seconds).Seconds().LimitRunsTo(1).Do(s.runCycle); err != nil {
		log.Printf("scheduler: failed to arm next cycle, retrying in %s: %v", s.recoveryDelay, err)
		time.AfterFunc(s.recoveryDelay, s.runCycle)
	}
}
