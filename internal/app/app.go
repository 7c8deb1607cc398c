package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/clawarr/internal/config"
	"github.com/MrSnakeDoc/clawarr/internal/discovery"
	"github.com/MrSnakeDoc/clawarr/internal/httpserver"
	"github.com/MrSnakeDoc/clawarr/internal/httpserver/deps"
	"github.com/MrSnakeDoc/clawarr/internal/logger"
	"github.com/MrSnakeDoc/clawarr/internal/metrics"
	"github.com/MrSnakeDoc/clawarr/internal/redis"
	"github.com/MrSnakeDoc/clawarr/internal/scheduler"
	"github.com/MrSnakeDoc/clawarr/internal/secrets"
	redisstore "github.com/MrSnakeDoc/clawarr/internal/store/redis"
	"github.com/MrSnakeDoc/clawarr/internal/suite"
	"github.com/MrSnakeDoc/clawarr/internal/validate"
	"github.com/MrSnakeDoc/clawarr/internal/version"
)

type App struct {
	cfg          *config.Config
	logger       logger.Logger
	metrics      *metrics.Metrics
	suite        *suite.Service
	redisClient  *goredis.Client
	store        deps.Pinger
	monitor      *scheduler.HealthMonitor
	checkTrigger chan struct{}
}

// New wires the suite service and its backing stores from cfg. With a Redis
// address the secrets and the discovery snapshot live in Redis, otherwise
// secrets are kept in memory and nothing is cached.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	suiteCfg, err := config.LoadSuite(cfg.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load suite config: %w", err)
	}
	loggerClient.Debug("suite config loaded",
		logger.String("file", cfg.ConfigFile),
		logger.Bool("enabled", suiteCfg.Enabled),
		logger.Strings("hosts", suiteCfg.Discovery.Hosts),
		logger.Int("instances", len(suiteCfg.Instances)))

	m := metrics.New()

	a := &App{
		cfg:     cfg,
		logger:  loggerClient,
		metrics: m,
	}

	params := suite.Params{
		Suite: suiteCfg,
		Prober: discovery.NewProber(
			discovery.WithMaxConcurrency(cfg.DiscoveryConcurrency),
			discovery.WithPortOverrides(suiteCfg.Discovery.Ports),
			discovery.WithMetrics(m),
			discovery.WithLogger(loggerClient.With(logger.Component("discovery"))),
		),
		Client: validate.New(nil, m),
		Logger: loggerClient,
	}

	if cfg.RedisAddr != "" {
		client, err := redis.New(ctx, connectOptions(cfg), loggerClient.With(logger.Component("redis")))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		store := redisstore.NewStore(client)
		a.redisClient = client
		a.store = store
		params.Store = store
		params.Cache = store
	} else {
		loggerClient.Info("redis not configured, secrets are kept in memory")
		params.Store = secrets.NewMemoryStore()
	}

	a.suite = suite.New(params)

	if cfg.CheckInterval > 0 && suiteCfg.Enabled {
		a.checkTrigger = make(chan struct{}, 1)
		a.monitor = scheduler.NewHealthMonitor(a.suite, m, loggerClient.With(logger.Component("monitor")),
			cfg.CheckInterval, a.checkTrigger)
	}

	return a, nil
}

func connectOptions(cfg *config.Config) redis.ConnectOptions {
	return redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		DB:             cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}
}

// Suite returns the wired suite service.
func (a *App) Suite() *suite.Service { return a.suite }

// Persistent reports whether secrets outlive the process.
func (a *App) Persistent() bool { return a.redisClient != nil }

// Logger returns the application logger.
func (a *App) Logger() logger.Logger { return a.logger }

// Deps returns the dependencies handed to the HTTP routes.
func (a *App) Deps() deps.Deps {
	return deps.Deps{
		Logger:           a.logger,
		StartTime:        time.Now(),
		Version:          version.Version,
		Commit:           version.Commit,
		BuildDate:        version.BuildDate,
		GoVersion:        version.GoVersion,
		AllowedHosts:     a.cfg.AllowedHosts,
		AllowedCIDRS:     a.cfg.AllowedCIDRS,
		TrustProxy:       a.cfg.TrustProxy,
		Suite:            a.suite,
		Metrics:          a.metrics,
		Monitor:          a.monitor,
		CheckTrigger:     a.checkTrigger,
		Store:            a.store,
		SecretRateBurst:  a.cfg.SecretRateBurst,
		SecretRatePerMin: a.cfg.SecretRatePerMin,
	}
}

// Serve runs the HTTP server and the health monitor until ctx is done or
// the process receives SIGINT/SIGTERM, then shuts down gracefully.
func (a *App) Serve(ctx context.Context) error {
	a.logger.Infof("🚀 Starting Clawarr %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Clawarr %s", version.String())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := httpserver.New(a.cfg, a.logger, a.Deps())

	if a.monitor != nil {
		a.monitor.Start(ctx)
		a.logger.Info("health monitor started",
			logger.Duration("interval", a.cfg.CheckInterval))
	} else {
		a.logger.Info("health monitor disabled")
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		if a.monitor != nil {
			a.monitor.Stop()
		}
		return err
	}

	if a.monitor != nil {
		a.monitor.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ Clawarr stopped cleanly")
	return nil
}

// Close releases the Redis connection, if any, and flushes the logger.
func (a *App) Close() error {
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Debug("redis closed cleanly")
		}
	}
	_ = a.logger.Sync()
	return nil
}
