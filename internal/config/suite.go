package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/clawarr/internal/apps"
	"github.com/MrSnakeDoc/clawarr/internal/sources/homepage"
)

const (
	DefaultHost      = "localhost"
	DefaultTimeoutMs = 1200
)

// Suite is the media suite configuration read from clawarr.yaml.
type Suite struct {
	Enabled   bool
	Discovery Discovery
	Instances map[apps.App]apps.Instance
	Homepage  Homepage
}

// Discovery holds the hosts probed by setup and the per-probe timeout.
// Ports replaces the default candidate ports of an app.
type Discovery struct {
	Hosts     []string
	TimeoutMs int
	Ports     map[apps.App][]int
}

// Homepage points at an optional gethomepage services.yaml to import
// instances from.
type Homepage struct {
	ServicesFile string
}

// rawSuite mirrors the file layout. Pointers tell "absent" from "zero".
type rawSuite struct {
	Enabled   *bool `yaml:"enabled"`
	Discovery struct {
		Hosts     []string         `yaml:"hosts"`
		TimeoutMs *int             `yaml:"timeoutMs"`
		Ports     map[string][]int `yaml:"ports"`
	} `yaml:"discovery"`
	Instances map[string]apps.Instance `yaml:"instances"`
	Homepage  struct {
		ServicesFile string `yaml:"servicesFile"`
	} `yaml:"homepage"`
}

// DefaultSuite returns the configuration used when no file exists.
func DefaultSuite() Suite {
	return Suite{
		Enabled: true,
		Discovery: Discovery{
			Hosts:     []string{DefaultHost},
			TimeoutMs: DefaultTimeoutMs,
			Ports:     map[apps.App][]int{},
		},
		Instances: map[apps.App]apps.Instance{},
	}
}

// LoadSuite reads the suite file at path. A missing file yields the
// defaults. When the file names a homepage services file, its widgets fill
// in apps the file does not configure itself.
func LoadSuite(path string) (Suite, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultSuite(), nil
	}
	if err != nil {
		return Suite{}, fmt.Errorf("failed to read config file: %w", err)
	}

	s, err := ParseSuite(data)
	if err != nil {
		return Suite{}, err
	}

	if s.Homepage.ServicesFile != "" {
		imported, err := homepage.NewLoader(s.Homepage.ServicesFile).LoadInstances()
		if err != nil {
			return Suite{}, fmt.Errorf("failed to import homepage services: %w", err)
		}
		s.Merge(imported)
	}

	return s, nil
}

// ParseSuite decodes a suite document and applies defaults: an empty host
// list and a non-positive timeout fall back to the defaults. Unknown app
// names are an error.
func ParseSuite(data []byte) (Suite, error) {
	var raw rawSuite
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Suite{}, fmt.Errorf("failed to parse config yaml: %w", err)
	}

	s := DefaultSuite()
	if raw.Enabled != nil {
		s.Enabled = *raw.Enabled
	}
	if len(raw.Discovery.Hosts) > 0 {
		s.Discovery.Hosts = raw.Discovery.Hosts
	}
	if raw.Discovery.TimeoutMs != nil && *raw.Discovery.TimeoutMs > 0 {
		s.Discovery.TimeoutMs = *raw.Discovery.TimeoutMs
	}

	for name, ports := range raw.Discovery.Ports {
		app, err := apps.ParseApp(name)
		if err != nil {
			return Suite{}, fmt.Errorf("discovery.ports: %w", err)
		}
		for _, p := range ports {
			if p < 1 || p > 65535 {
				return Suite{}, fmt.Errorf("discovery.ports.%s: invalid port %d", app, p)
			}
		}
		if len(ports) > 0 {
			s.Discovery.Ports[app] = ports
		}
	}

	for name, inst := range raw.Instances {
		app, err := apps.ParseApp(name)
		if err != nil {
			return Suite{}, fmt.Errorf("instances: %w", err)
		}
		s.Instances[app] = inst
	}

	s.Homepage.ServicesFile = raw.Homepage.ServicesFile
	return s, nil
}

// Merge adds imported instances for apps without an explicit entry.
func (s *Suite) Merge(imported map[apps.App]apps.Instance) {
	if s.Instances == nil {
		s.Instances = make(map[apps.App]apps.Instance, len(imported))
	}
	for app, inst := range imported {
		if _, ok := s.Instances[app]; !ok {
			s.Instances[app] = inst
		}
	}
}

// Timeout returns the discovery timeout as a duration.
func (s Suite) Timeout() time.Duration {
	return time.Duration(s.Discovery.TimeoutMs) * time.Millisecond
}

// Instance returns the configured instance of app. A zero Instance means
// "not configured".
func (s Suite) Instance(app apps.App) apps.Instance {
	return s.Instances[app]
}
