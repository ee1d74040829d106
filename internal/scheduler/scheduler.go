// Package scheduler drives the periodic refresh of all systems. Each round
// fans out one goroutine per system with its own timeout, so a single
// unresponsive host never delays the others, and rounds never wait for
// stragglers from a previous round.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/wakeboard/wakeboard/internal/logger"
	"github.com/wakeboard/wakeboard/internal/system"
)

// DefaultProbeTimeout bounds one system's refresh within a round.
const DefaultProbeTimeout = 5 * time.Second

// Scheduler refreshes a fixed set of systems on a ticker.
type Scheduler struct {
	systems  []*system.System
	interval time.Duration
	timeout  time.Duration
	log      logger.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// New creates a scheduler for the given systems. The interval is the
// probe cadence from config.
func New(systems []*system.System, interval time.Duration, log logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Noop()
	}
	return &Scheduler{
		systems:  systems,
		interval: interval,
		timeout:  DefaultProbeTimeout,
		log:      log,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// SetTimeout overrides the per-system refresh timeout.
func (s *Scheduler) SetTimeout(timeout time.Duration) {
	s.timeout = timeout
}

// Start launches the refresh loop. The first round fires immediately so
// the dashboard isn't stuck on UNKNOWN for a full interval.
func (s *Scheduler) Start() {
	go s.loop()
}

// Stop halts the ticker and waits for the loop to exit. Refreshes already
// in flight finish on their own; they only commit state snapshots.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	<-s.doneCh
}

func (s *Scheduler) loop() {
	defer close(s.doneCh)

	s.refreshRound()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.refreshRound()
		}
	}
}

// refreshRound kicks off one refresh per system and returns without
// waiting. Slow probes overlap with the next round instead of skewing it.
func (s *Scheduler) refreshRound() {
	s.log.Debug("refresh round started for %d systems", len(s.systems))
	for _, sys := range s.systems {
		go func(sys *system.System) {
			ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
			defer cancel()
			sys.Refresh(ctx)
		}(sys)
	}
}

// RefreshAll runs one synchronous round and waits for every system,
// still with per-system timeouts. Used by the one-shot check command
// and the dashboard's manual refresh key.
func (s *Scheduler) RefreshAll(ctx context.Context) {
	var wg sync.WaitGroup
	for _, sys := range s.systems {
		wg.Add(1)
		go func(sys *system.System) {
			defer wg.Done()
			refreshCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			sys.Refresh(refreshCtx)
		}(sys)
	}
	wg.Wait()
}

// Snapshots returns the current snapshot of every system, in config order.
func (s *Scheduler) Snapshots() []system.Snapshot {
	snaps := make([]system.Snapshot, 0, len(s.systems))
	for _, sys := range s.systems {
		snaps = append(snaps, sys.Snapshot())
	}
	return snaps
}

// Systems returns the scheduled systems, in config order.
func (s *Scheduler) Systems() []*system.System {
	return s.systems
}
