package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"CLAWARR_LISTEN_PORT", "CLAWARR_CONFIG_FILE", "CLAWARR_CHECK_INTERVAL",
		"CLAWARR_REDIS_ADDR", "CLAWARR_ALLOWED_CIDRS", "CLAWARR_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %q, want :8080", cfg.ListenPort)
	}
	if cfg.ConfigFile != "/app/clawarr.yaml" {
		t.Errorf("ConfigFile = %q", cfg.ConfigFile)
	}
	if cfg.CheckInterval != 5*time.Minute {
		t.Errorf("CheckInterval = %v, want 5m", cfg.CheckInterval)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", cfg.RequestTimeout)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr = %q, want empty", cfg.RedisAddr)
	}
	if cfg.AllowedCIDRS != nil {
		t.Errorf("AllowedCIDRS = %v, want nil", cfg.AllowedCIDRS)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CLAWARR_LISTEN_PORT", ":9090")
	t.Setenv("CLAWARR_DISCOVERY_CONCURRENCY", "16")
	t.Setenv("CLAWARR_ALLOWED_CIDRS", "10.0.0.0/8, '192.168.1.10'")
	t.Setenv("CLAWARR_REDIS_ADDR", "redis:6379")
	t.Setenv("CLAWARR_REDIS_PASSWORD", "secret")

	cfg := Load()

	if cfg.ListenPort != ":9090" {
		t.Errorf("ListenPort = %q", cfg.ListenPort)
	}
	if cfg.DiscoveryConcurrency != 16 {
		t.Errorf("DiscoveryConcurrency = %d", cfg.DiscoveryConcurrency)
	}
	if want := []string{"10.0.0.0/8", "192.168.1.10"}; !reflect.DeepEqual(cfg.AllowedCIDRS, want) {
		t.Errorf("AllowedCIDRS = %v, want %v", cfg.AllowedCIDRS, want)
	}
	if cfg.RedisAddr != "redis:6379" || cfg.RedisPassword != "secret" {
		t.Errorf("unexpected redis settings %q / %q", cfg.RedisAddr, cfg.RedisPassword)
	}
}

func TestLoadPanicsWithoutRequiredRedisPassword(t *testing.T) {
	t.Setenv("CLAWARR_REDIS_ADDR", "redis:6379")
	t.Setenv("CLAWARR_REDIS_PASSWORD_REQUIRED", "true")
	t.Setenv("CLAWARR_REDIS_PASSWORD", "")

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Load() should have panicked")
		}
	}()
	Load()
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: nil},
		{name: "single", input: "nas", expected: []string{"nas"}},
		{name: "spaces and blanks", input: " nas , ,10.0.0.5 ", expected: []string{"nas", "10.0.0.5"}},
		{name: "quoted", input: `"nas","media"`, expected: []string{"nas", "media"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SplitList(tt.input)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("SplitList() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{
			name:     "valid duration",
			key:      "TEST_DURATION",
			value:    "5s",
			def:      1 * time.Second,
			expected: 5 * time.Second,
		},
		{
			name:     "invalid duration uses default",
			key:      "TEST_DURATION_INVALID",
			value:    "invalid",
			def:      10 * time.Second,
			expected: 10 * time.Second,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_DURATION_MISSING",
			value:    "",
			def:      15 * time.Second,
			expected: 15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			result := mustDuration(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      bool
		expected bool
	}{
		{
			name:     "true value",
			key:      "TEST_BOOL",
			value:    "true",
			def:      false,
			expected: true,
		},
		{
			name:     "invalid value uses default",
			key:      "TEST_BOOL_INVALID",
			value:    "invalid",
			def:      true,
			expected: true,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_BOOL_MISSING",
			value:    "",
			def:      false,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			result := mustBool(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestGetenvInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_INT_INVALID", "not_a_number")

	if got := getenvInt("TEST_INT", 1); got != 42 {
		t.Errorf("getenvInt() = %d, want 42", got)
	}
	if got := getenvInt("TEST_INT_INVALID", 7); got != 7 {
		t.Errorf("getenvInt() = %d, want default 7", got)
	}
}
