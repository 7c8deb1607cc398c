package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/clawarr/internal/logger"
	"github.com/MrSnakeDoc/clawarr/internal/metrics"
	"github.com/MrSnakeDoc/clawarr/internal/suite"
)

// Checker runs one pass of the status aggregator.
type Checker interface {
	Check(ctx context.Context) []suite.AppStatus
}

// Snapshot is the result of the latest monitor run.
type Snapshot struct {
	At       time.Time
	Statuses []suite.AppStatus
}

// Up counts configured apps whose check succeeded.
func (s Snapshot) Up() int {
	n := 0
	for _, st := range s.Statuses {
		if st.Configured && st.Outcome.OK {
			n++
		}
	}
	return n
}

// HealthMonitor periodically validates every configured app and publishes
// the result as the clawarr_app_up gauge.
type HealthMonitor struct {
	checker       Checker
	metrics       *metrics.Metrics
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
	manualTrigger chan struct{}

	mu   sync.RWMutex
	last Snapshot
}

// NewHealthMonitor creates a new health monitor
func NewHealthMonitor(
	checker Checker,
	m *metrics.Metrics,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *HealthMonitor {
	return &HealthMonitor{
		checker:       checker,
		metrics:       m,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start runs a first check in the background, then one per interval and one
// per manual trigger.
func (hm *HealthMonitor) Start(ctx context.Context) {
	ticker := time.NewTicker(hm.interval)
	go func() {
		defer ticker.Stop()
		hm.Run(ctx)
		for {
			select {
			case <-ticker.C:
				hm.Run(ctx)
			case <-hm.manualTrigger:
				hm.logger.Info("manual health check triggered")
				hm.Run(ctx)
			case <-hm.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the monitor. Safe to call more than once.
func (hm *HealthMonitor) Stop() {
	hm.stopOnce.Do(func() { close(hm.stopCh) })
}

// Run performs one check, updates the gauges and keeps the snapshot.
func (hm *HealthMonitor) Run(ctx context.Context) Snapshot {
	start := time.Now()
	statuses := hm.checker.Check(ctx)

	configured := 0
	for _, st := range statuses {
		value := float64(metrics.AppNotConfigured)
		if st.Configured {
			configured++
			value = metrics.AppDown
			if st.Outcome.OK {
				value = metrics.AppUp
			} else {
				hm.logger.Warn("app check failed",
					logger.String("app", st.App.String()),
					logger.String("message", st.Outcome.Message))
			}
		}
		hm.metrics.SetAppUp(st.App.String(), value)
	}

	snap := Snapshot{At: start, Statuses: statuses}
	hm.mu.Lock()
	hm.last = snap
	hm.mu.Unlock()

	hm.logger.Info("health check finished",
		logger.Int("configured", configured),
		logger.Int("up", snap.Up()),
		logger.Duration("elapsed", time.Since(start)))

	return snap
}

// Last returns the latest snapshot. The zero Snapshot means no run yet.
func (hm *HealthMonitor) Last() Snapshot {
	hm.mu.RLock()
	defer hm.mu.RUnlock()
	return hm.last
}
