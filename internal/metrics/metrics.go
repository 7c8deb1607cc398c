package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App up gauge values.
const (
	AppUp            = 1
	AppDown          = 0
	AppNotConfigured = -1
)

// Metrics holds the Prometheus registry and the clawarr meters.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry         *prometheus.Registry
	ProbesTotal      *prometheus.CounterVec
	ProbeDuration    *prometheus.HistogramVec
	ValidationsTotal *prometheus.CounterVec
	AppUpGauge       *prometheus.GaugeVec
	HTTPRequests     *prometheus.CounterVec
	HTTPRejected     *prometheus.CounterVec
}

// New creates a custom registry with the standard clawarr metrics plus the
// Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	probesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "clawarr_discovery_probes_total",
		Help: "Total number of discovery probes by app and outcome.",
	}, []string{"app", "outcome"})

	probeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "clawarr_discovery_probe_duration_seconds",
		Help:    "Duration of discovery probes in seconds.",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"app"})

	validationsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "clawarr_validations_total",
		Help: "Total number of authenticated connection checks by app and result.",
	}, []string{"app", "result"})

	appUp := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "clawarr_app_up",
		Help: "Last health check result per app (1 ok, 0 failing, -1 not configured).",
	}, []string{"app"})

	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "clawarr_http_requests_total",
		Help: "HTTP requests by route pattern, method and status code.",
	}, []string{"route", "method", "code"})

	httpRejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "clawarr_http_rejected_total",
		Help: "HTTP requests refused by the access guards, by reason.",
	}, []string{"reason"})

	reg.MustRegister(
		probesTotal, probeDuration, validationsTotal, appUp, httpRequests, httpRejected,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		Registry:         reg,
		ProbesTotal:      probesTotal,
		ProbeDuration:    probeDuration,
		ValidationsTotal: validationsTotal,
		AppUpGauge:       appUp,
		HTTPRequests:     httpRequests,
		HTTPRejected:     httpRejected,
	}
}

// ObserveProbe records one discovery probe.
func (m *Metrics) ObserveProbe(app string, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.ProbesTotal.WithLabelValues(app, outcome).Inc()
	m.ProbeDuration.WithLabelValues(app).Observe(d.Seconds())
}

// ObserveValidation records one authenticated check.
func (m *Metrics) ObserveValidation(app string, ok bool) {
	if m == nil {
		return
	}
	result := "fail"
	if ok {
		result = "ok"
	}
	m.ValidationsTotal.WithLabelValues(app, result).Inc()
}

// SetAppUp records the last known state of an app.
func (m *Metrics) SetAppUp(app string, value float64) {
	if m == nil {
		return
	}
	m.AppUpGauge.WithLabelValues(app).Set(value)
}

// ObserveRequest counts one served HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
}

// ObserveRejected counts one request refused by a guard ("cidr", "host",
// "rate_limit").
func (m *Metrics) ObserveRejected(reason string) {
	if m == nil {
		return
	}
	m.HTTPRejected.WithLabelValues(reason).Inc()
}
