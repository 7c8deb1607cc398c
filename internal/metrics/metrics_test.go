package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveProbe("radarr", "recognized", time.Millisecond)
	m.ObserveValidation("radarr", true)
	m.SetAppUp("radarr", AppUp)
	m.ObserveRequest("/healthz", "GET", 200)
	m.ObserveRejected("cidr")
}

func TestObservations(t *testing.T) {
	m := New()

	m.ObserveProbe("plex", "listening", 20*time.Millisecond)
	m.ObserveProbe("plex", "listening", 30*time.Millisecond)
	m.ObserveValidation("sonarr", false)
	m.SetAppUp("sonarr", AppDown)
	m.SetAppUp("bazarr", AppNotConfigured)
	m.ObserveRequest("/api/clawarr/status", "GET", 200)

	if got := testutil.ToFloat64(m.ProbesTotal.WithLabelValues("plex", "listening")); got != 2 {
		t.Errorf("probes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.ValidationsTotal.WithLabelValues("sonarr", "fail")); got != 1 {
		t.Errorf("validations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.AppUpGauge.WithLabelValues("bazarr")); got != AppNotConfigured {
		t.Errorf("bazarr up = %v, want -1", got)
	}
	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/api/clawarr/status", "GET", "200")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(m.ProbeDuration); n != 1 {
		t.Errorf("duration series = %d, want 1", n)
	}
}

func TestRegistryGathers(t *testing.T) {
	m := New()
	m.ObserveValidation("plex", true)

	families, err := m.Registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{"clawarr_validations_total", "go_goroutines"} {
		if !names[want] {
			t.Errorf("missing %s", want)
		}
	}
}
