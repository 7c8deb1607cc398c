package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds process settings read from the environment. The suite itself
// (hosts, instances) lives in the YAML file at ConfigFile, see LoadSuite.
type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request handler timeout (discovery can take a while)

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	ConfigFile           string        // path to clawarr.yaml
	CheckInterval        time.Duration // health monitor interval (0 = disabled)
	DiscoveryConcurrency int           // max in-flight discovery probes (0 = unbounded)

	SecretRateBurst  int // POST /secret burst per client IP
	SecretRatePerMin int // POST /secret refill per client IP per minute

	// Redis (optional, empty addr => secrets kept in memory)
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict access to specific IP (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. reverse proxy)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("CLAWARR_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("CLAWARR_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("CLAWARR_REQUEST_TIMEOUT", 30*time.Second),

		// Logging
		LogLevel:  getenv("CLAWARR_LOG_LEVEL", "info"),
		PrettyLog: mustBool("CLAWARR_PRETTY_LOG", true),

		// Suite
		ConfigFile:           getenv("CLAWARR_CONFIG_FILE", "/app/clawarr.yaml"),
		CheckInterval:        mustDuration("CLAWARR_CHECK_INTERVAL", 5*time.Minute),
		DiscoveryConcurrency: getenvInt("CLAWARR_DISCOVERY_CONCURRENCY", 0),

		SecretRateBurst:  getenvInt("CLAWARR_SECRET_RATE_BURST", 10),
		SecretRatePerMin: getenvInt("CLAWARR_SECRET_RATE_PER_MIN", 30),

		// Redis settings
		RedisAddr:             getenv("CLAWARR_REDIS_ADDR", ""),
		RedisUser:             getenv("CLAWARR_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("CLAWARR_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("CLAWARR_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("CLAWARR_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("CLAWARR_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("CLAWARR_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("CLAWARR_TRUST_PROXY", false),
	}

	// Validate Redis password configuration
	if cfg.RedisAddr != "" && cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: CLAWARR_REDIS_PASSWORD is required when CLAWARR_REDIS_PASSWORD_REQUIRED=true")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

// SplitList splits a comma separated flag or query value, dropping blanks.
func SplitList(s string) []string {
	return splitAndTrim(s)
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
