package collector

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// DefaultInterval is the cadence between polls.
const DefaultInterval = 5 * time.Minute

// Scheduler states. Activation transitions Uninitialized -> Starting ->
// Running exactly once; only the caller that wins the CAS performs startup.
const (
	stateUninitialized int32 = iota
	stateStarting
	stateRunning
)

// Scheduler drives a Collector: one synchronous collection on activation,
// then one per interval until stopped. Start is idempotent and safe to call
// from concurrent HTTP requests.
type Scheduler struct {
	collector *Collector
	interval  time.Duration
	log       *slog.Logger

	state  atomic.Int32
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler creates a stopped scheduler. A non-positive interval selects
// DefaultInterval.
func NewScheduler(collector *Collector, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		collector: collector,
		interval:  interval,
		log:       slog.With("component", "scheduler"),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

// Start activates the scheduler: one immediate synchronous collection so
// data exists right away, then a background loop collecting every interval.
// Only the first call does anything; later calls, including concurrent ones,
// are no-ops.
func (s *Scheduler) Start() {
	if !s.state.CompareAndSwap(stateUninitialized, stateStarting) {
		return
	}

	s.collect(s.ctx)
	go s.run()

	s.state.Store(stateRunning)
	s.log.Info("scheduler started", "interval", s.interval)
}

// Stop cancels the collection loop without waiting for an in-flight tick.
// Safe to call at any time, any number of times.
func (s *Scheduler) Stop() {
	s.cancel()
}

// Done is closed once the collection loop has exited.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// run is the owner goroutine of the collection loop. Ticks execute serially
// in this goroutine, so two collections can never overlap; a slow tick just
// delays the next one.
func (s *Scheduler) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.collect(s.ctx)
		}
	}
}

// collect runs one tick. Errors are logged and discarded: a failed poll is
// corrected by the next tick and must never terminate the schedule.
func (s *Scheduler) collect(ctx context.Context) {
	stored, err := s.collector.CollectOnce(ctx)
	switch {
	case err != nil:
		s.log.Error("collection failed", "error", err)
	case stored == 0:
		s.log.Info("no capacity data this round")
	default:
		s.log.Info("stored capacity samples", "count", stored)
	}
}
