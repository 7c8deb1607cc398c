package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/clawarr/internal/logger"
	"github.com/MrSnakeDoc/clawarr/internal/metrics"
	"github.com/MrSnakeDoc/clawarr/internal/scheduler"
	"github.com/MrSnakeDoc/clawarr/internal/suite"
)

// Pinger is a backing store the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger           logger.Logger
	StartTime        time.Time
	Version          string
	Commit           string
	BuildDate        string
	GoVersion        string
	AllowedHosts     []string                 // Host headers allowed to access the API
	AllowedCIDRS     []string                 // IPs allowed to access the API and probes
	TrustProxy       bool                     // true if running behind a trusted reverse proxy
	Suite            *suite.Service           // Discovery, status and secret commands
	Metrics          *metrics.Metrics         // Prometheus registry served on /metrics
	Monitor          *scheduler.HealthMonitor // nil when the monitor is disabled
	CheckTrigger     chan struct{}            // Channel to trigger a manual health check
	Store            Pinger                   // Secret backend, nil for the in-memory store
	SecretRateBurst  int                      // POST /secret burst per client IP
	SecretRatePerMin int                      // POST /secret refill per client IP per minute
}
