package discovery

import (
	"context"
	"net"
	"net/http"
	"sort"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/MrSnakeDoc/clawarr/internal/apps"
	"github.com/MrSnakeDoc/clawarr/internal/logger"
	"github.com/MrSnakeDoc/clawarr/internal/metrics"
	"github.com/MrSnakeDoc/clawarr/internal/utils"
)

// DefaultTimeout applies when a Request carries no timeout.
const DefaultTimeout = 1200 * time.Millisecond

// Request describes one discovery run.
//
// Hosts are probed as given: duplicates are kept and nothing is validated,
// a malformed host simply fails to connect. An empty Apps slice means every
// known app.
type Request struct {
	Hosts   []string
	Timeout time.Duration
	Apps    []apps.App
}

// Prober fans discovery probes out over the host x app x port matrix.
type Prober struct {
	client         *http.Client
	maxConcurrency int
	portOverrides  map[apps.App][]int
	metrics        *metrics.Metrics
	logger         logger.Logger
}

// Option configures a Prober.
type Option func(*Prober)

// WithMaxConcurrency caps the number of in-flight probes. n <= 0 leaves the
// fan-out unbounded (one goroutine per target).
func WithMaxConcurrency(n int) Option {
	return func(p *Prober) { p.maxConcurrency = n }
}

// WithPortOverrides replaces the default port list of the given apps, for
// stacks that publish apps on non-default host ports.
func WithPortOverrides(ports map[apps.App][]int) Option {
	return func(p *Prober) {
		for app, list := range ports {
			if len(list) > 0 {
				p.portOverrides[app] = append([]int(nil), list...)
			}
		}
	}
}

// WithHTTPClient sets the client used for probes. Redirect following is
// always disabled on the prober's copy.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Prober) {
		cp := *c
		p.client = &cp
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Prober) { p.metrics = m }
}

func WithLogger(l logger.Logger) Option {
	return func(p *Prober) { p.logger = l }
}

// NewProber builds a Prober. Without options it uses an unbounded fan-out and
// a keep-alive free transport.
func NewProber(opts ...Option) *Prober {
	p := &Prober{
		client:        defaultClient(),
		portOverrides: make(map[apps.App][]int),
		logger:        logger.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.client.CheckRedirect = func(*http.Request, []*http.Request) error {
		// Redirects are a classification signal, never followed.
		return http.ErrUseLastResponse
	}
	return p
}

func defaultClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				KeepAlive: -1,
			}).DialContext,
			DisableKeepAlives:   true,
			TLSHandshakeTimeout: DefaultTimeout,
		},
	}
}

// Ports returns the candidate ports for app, honouring overrides.
func (p *Prober) Ports(app apps.App) []int {
	if ports, ok := p.portOverrides[app]; ok {
		return append([]int(nil), ports...)
	}
	return app.DefaultPorts()
}

// Targets expands a request into its (host, app, port) cross product.
func (p *Prober) Targets(req Request) []Target {
	list := req.Apps
	if len(list) == 0 {
		list = apps.All()
	}

	targets := make([]Target, 0, len(req.Hosts)*len(list))
	for _, host := range req.Hosts {
		for _, app := range list {
			for _, port := range p.Ports(app) {
				targets = append(targets, Target{App: app, Host: host, Port: port})
			}
		}
	}
	return targets
}

// Discover probes every target of req concurrently and returns one Result
// per target, successes first. Each probe owns its timeout; one slow target
// never cancels another. Nothing is retried.
func (p *Prober) Discover(ctx context.Context, req Request) []Result {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	targets := p.Targets(req)
	results := make([]Result, len(targets))

	wp := pool.New()
	if p.maxConcurrency > 0 {
		wp = wp.WithMaxGoroutines(p.maxConcurrency)
	}
	for i, t := range targets {
		wp.Go(func() {
			results[i] = p.Probe(ctx, t, timeout)
		})
	}
	wp.Wait()

	SortResults(results)

	p.logger.Debug("discovery finished",
		logger.Int("targets", len(targets)),
		logger.Int("found", CountOK(results)),
		logger.Duration("timeout", timeout))

	return results
}

// Probe issues one unauthenticated GET against t and classifies the answer.
func (p *Prober) Probe(ctx context.Context, t Target, timeout time.Duration) Result {
	start := time.Now()
	baseURL := t.BaseURL()

	status, contentType, err := p.get(ctx, baseURL, timeout)
	res := classify(status, contentType, err)
	res.App = t.App
	res.BaseURL = baseURL

	p.metrics.ObserveProbe(t.App.String(), res.Verdict.String(), time.Since(start))
	p.logger.Debug("probe",
		logger.String("app", t.App.String()),
		logger.String("url", baseURL),
		logger.Bool("ok", res.OK),
		logger.Int("status", res.Status),
		logger.String("hint", res.Hint))

	return res
}

func (p *Prober) get(ctx context.Context, url string, timeout time.Duration) (int, string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, "", err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer utils.DrainAndClose(resp.Body)

	return resp.StatusCode, resp.Header.Get("Content-Type"), nil
}

// SortResults moves successes before failures. Order inside each group is
// their probe order.
func SortResults(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].OK && !results[j].OK
	})
}

// CountOK returns the number of successful results.
func CountOK(results []Result) int {
	n := 0
	for _, r := range results {
		if r.OK {
			n++
		}
	}
	return n
}
