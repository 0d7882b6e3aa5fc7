/*
scheduler.go - Periodic bulk recalculation

PURPOSE:
  Eligibility degrades with nothing but the passage of time: anniversaries
  arrive, month thresholds are crossed, streaks lapse. Event-driven
  recalculation alone would leave profiles stale, so a background loop
  periodically recomputes every subject.

DESIGN:
  - Runs a background goroutine with configurable interval
  - Each tick runs the same bulk recalculation the admin endpoint does
  - Per-subject failures are counted, never fatal to the run

CONFIGURATION:
  - Interval: How often to run (default: 24 hours)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewRecalcScheduler(dispatcher, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - dispatch/bulk.go: The bulk runner this drives
  - handlers.go: RecalcAll endpoint (manual trigger)
*/
package api

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/meritdesk/awards-engine/dispatch"
)

// RecalcScheduler periodically recomputes all derived profiles.
type RecalcScheduler struct {
	Dispatcher *dispatch.Dispatcher
	Interval   time.Duration
	Enabled    bool

	log    *zap.Logger
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRecalcScheduler creates a new scheduler.
func NewRecalcScheduler(dispatcher *dispatch.Dispatcher, log *zap.Logger) *RecalcScheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &RecalcScheduler{
		Dispatcher: dispatcher,
		Interval:   24 * time.Hour,
		Enabled:    true,
		log:        log,
		stop:       make(chan struct{}),
	}
}

// Start begins the scheduler.
func (rs *RecalcScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		rs.log.Info("recalc scheduler disabled, not starting")
		return
	}

	rs.ticker = time.NewTicker(rs.Interval)
	rs.wg.Add(1)

	go rs.run()

	rs.log.Info("recalc scheduler started", zap.Duration("interval", rs.Interval))
}

// Stop stops the scheduler and waits for any in-flight run.
func (rs *RecalcScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.log.Info("recalc scheduler stopped")
	}
}

func (rs *RecalcScheduler) run() {
	defer rs.wg.Done()

	// Run immediately on start
	rs.runOnce()

	for {
		select {
		case <-rs.ticker.C:
			rs.runOnce()
		case <-rs.stop:
			return
		}
	}
}

func (rs *RecalcScheduler) runOnce() {
	ctx := context.Background()

	result, err := rs.Dispatcher.RecalculateAll(ctx)
	if err != nil {
		rs.log.Error("scheduled bulk recalculation failed", zap.Error(err))
		return
	}

	rs.log.Info("scheduled bulk recalculation finished",
		zap.Int("persons", result.Persons),
		zap.Int("units", result.Units),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed))
}
