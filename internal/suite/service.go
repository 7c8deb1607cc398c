package suite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/MrSnakeDoc/clawarr/internal/apps"
	"github.com/MrSnakeDoc/clawarr/internal/config"
	"github.com/MrSnakeDoc/clawarr/internal/discovery"
	"github.com/MrSnakeDoc/clawarr/internal/logger"
	"github.com/MrSnakeDoc/clawarr/internal/secrets"
	"github.com/MrSnakeDoc/clawarr/internal/validate"
)

var (
	ErrNoStore      = errors.New("no secret store configured")
	ErrEmptySecret  = errors.New("empty apiKey")
	ErrNoCache      = errors.New("no discovery cache configured")
	ErrNotListable  = errors.New("secret store cannot list names")
	ErrInvalidApp   = errors.New("invalid app")
	ErrNoDiscovered = errors.New("no discovery results cached")
)

// DiscoveryCache keeps the results of the latest discovery run.
type DiscoveryCache interface {
	SaveDiscovery(ctx context.Context, results []discovery.Result) error
	LastDiscovery(ctx context.Context) ([]discovery.Result, bool, error)
}

// Params are the collaborators of a Service. Store and Cache may be nil.
type Params struct {
	Suite        config.Suite
	Prober       *discovery.Prober
	Client       *validate.Client
	Store        secrets.Store
	Cache        DiscoveryCache
	Logger       logger.Logger
	CheckTimeout time.Duration // per-app validator timeout, defaults to validate.DefaultTimeout
}

// Service implements the suite commands on top of the prober and the
// validators.
type Service struct {
	suite        config.Suite
	prober       *discovery.Prober
	client       *validate.Client
	store        secrets.Store
	cache        DiscoveryCache
	logger       logger.Logger
	checkTimeout time.Duration
}

// CommandResult is the outcome of a text command.
type CommandResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// SetupResult is the outcome of a setup run.
type SetupResult struct {
	OK      bool               `json:"ok"`
	Message string             `json:"message"`
	Count   int                `json:"count"`
	Results []discovery.Result `json:"results"`
}

// AppStatus is the health of one app as seen by the status aggregator.
type AppStatus struct {
	App        apps.App
	Configured bool
	Outcome    validate.Outcome
}

// Line renders the status the way the report prints it.
func (s AppStatus) Line() string {
	if !s.Configured {
		return fmt.Sprintf("%s: not configured", s.App)
	}
	state := "fail"
	if s.Outcome.OK {
		state = "ok"
	}
	return fmt.Sprintf("%s: %s - %s", s.App, state, s.Outcome.Message)
}

func New(p Params) *Service {
	if p.Prober == nil {
		p.Prober = discovery.NewProber()
	}
	if p.Client == nil {
		p.Client = validate.New(nil, nil)
	}
	if p.Logger == nil {
		p.Logger = logger.NewNop()
	}
	if p.CheckTimeout <= 0 {
		p.CheckTimeout = validate.DefaultTimeout
	}
	if p.Suite.Instances == nil {
		p.Suite.Instances = map[apps.App]apps.Instance{}
	}
	return &Service{
		suite:        p.Suite,
		prober:       p.Prober,
		client:       p.Client,
		store:        p.Store,
		cache:        p.Cache,
		logger:       p.Logger,
		checkTimeout: p.CheckTimeout,
	}
}

// Enabled reports the suite's enabled flag.
func (s *Service) Enabled() bool { return s.suite.Enabled }

// Suite returns the configuration the service runs with.
func (s *Service) Suite() config.Suite { return s.suite }

// Discover probes hosts for list. Empty hosts fall back to the configured
// hosts, an empty list means every app. The results replace the cached
// snapshot when a cache is configured.
func (s *Service) Discover(ctx context.Context, hosts []string, list []apps.App) []discovery.Result {
	if len(hosts) == 0 {
		hosts = s.suite.Discovery.Hosts
	}

	results := s.prober.Discover(ctx, discovery.Request{
		Hosts:   hosts,
		Timeout: s.suite.Timeout(),
		Apps:    list,
	})

	if s.cache != nil {
		if err := s.cache.SaveDiscovery(ctx, results); err != nil {
			s.logger.Warn("failed to cache discovery results", logger.Error(err))
		}
	}
	return results
}

// Setup runs discovery over hosts (or the configured hosts) and counts the
// successful probes.
func (s *Service) Setup(ctx context.Context, hosts []string) SetupResult {
	results := s.Discover(ctx, hosts, nil)
	n := discovery.CountOK(results)
	return SetupResult{
		OK:      true,
		Message: fmt.Sprintf("discovered %d endpoints", n),
		Count:   n,
		Results: results,
	}
}

// LastDiscovery returns the cached results of the latest discovery run.
func (s *Service) LastDiscovery(ctx context.Context) ([]discovery.Result, error) {
	if s.cache == nil {
		return nil, ErrNoCache
	}
	results, found, err := s.cache.LastDiscovery(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNoDiscovered
	}
	return results, nil
}

// Check validates every app in the fixed order. Apps run concurrently; the
// returned slice keeps the order of apps.All().
func (s *Service) Check(ctx context.Context) []AppStatus {
	all := apps.All()
	statuses := make([]AppStatus, len(all))

	wp := pool.New()
	for i, app := range all {
		inst := s.suite.Instance(app)
		if !inst.Configured() {
			statuses[i] = AppStatus{App: app}
			continue
		}
		wp.Go(func() {
			inst.APIKey = s.credential(ctx, app, inst)
			statuses[i] = AppStatus{
				App:        app,
				Configured: true,
				Outcome:    s.client.Check(ctx, app, inst, s.checkTimeout),
			}
		})
	}
	wp.Wait()

	return statuses
}

// StatusReport returns one line per app in the fixed order.
func (s *Service) StatusReport(ctx context.Context) []string {
	statuses := s.Check(ctx)
	lines := make([]string, len(statuses))
	for i, st := range statuses {
		lines[i] = st.Line()
	}
	return lines
}

// Status returns the status report as a single message.
func (s *Service) Status(ctx context.Context) CommandResult {
	return CommandResult{OK: true, Message: strings.Join(s.StatusReport(ctx), "\n")}
}

// Test runs the same aggregation as Status, as an explicit connection test.
func (s *Service) Test(ctx context.Context) CommandResult {
	return s.Status(ctx)
}

// credential resolves the key used to validate app. A failing store counts
// as an absent stored secret.
func (s *Service) credential(ctx context.Context, app apps.App, inst apps.Instance) string {
	key, err := secrets.Resolve(ctx, s.store, app, inst)
	if err != nil {
		s.logger.Warn("secret lookup failed",
			logger.String("app", app.String()),
			logger.Error(err))
		return ""
	}
	return key
}

// SetSecret stores apiKey under the current secret key of app.
func (s *Service) SetSecret(ctx context.Context, app apps.App, apiKey string) error {
	if !app.Valid() {
		return ErrInvalidApp
	}
	if apiKey == "" {
		return ErrEmptySecret
	}
	if s.store == nil {
		return ErrNoStore
	}
	if err := s.store.Set(ctx, secrets.Key(app), apiKey); err != nil {
		return fmt.Errorf("failed to store secret for %s: %w", app, err)
	}
	s.logger.Info("secret stored", logger.String("app", app.String()))
	return nil
}

// DeleteSecret removes the stored secrets of app, legacy key included.
func (s *Service) DeleteSecret(ctx context.Context, app apps.App) error {
	if !app.Valid() {
		return ErrInvalidApp
	}
	if s.store == nil {
		return ErrNoStore
	}
	for _, key := range []string{secrets.Key(app), secrets.LegacyKey(app)} {
		if err := s.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to delete secret %s: %w", key, err)
		}
	}
	return nil
}

// SecretNames lists the stored secret names. Values are never returned.
func (s *Service) SecretNames(ctx context.Context) ([]string, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	lister, ok := s.store.(secrets.Lister)
	if !ok {
		return nil, ErrNotListable
	}
	return lister.Names(ctx)
}
