package homepage

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/clawarr/internal/apps"
)

// templateVar matches Homepage substitutions: {{HOMEPAGE_VAR_NAME}} takes
// the value of that environment variable, {{HOMEPAGE_FILE_NAME}} the content
// of the file it points to.
var templateVar = regexp.MustCompile(`\{\{\s*(HOMEPAGE_(?:VAR|FILE)_[A-Za-z0-9_]+)\s*\}\}|\{\{[^}]*\}\}`)

// Loader reads a Homepage services.yaml.
type Loader struct {
	filePath string
	lookup   func(string) (string, bool)
	readFile func(string) ([]byte, error)
}

// NewLoader returns a Loader resolving substitutions from the process
// environment, the way Homepage does when both run with the same env file.
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
		lookup:   os.LookupEnv,
		readFile: os.ReadFile,
	}
}

// Load reads and parses the services file.
func (l *Loader) Load() (ServicesConfig, error) {
	data, err := l.readFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read services file: %w", err)
	}

	data = l.substitute(data)

	var config ServicesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse services yaml: %w", err)
	}

	return config, nil
}

// LoadInstances loads the file and maps its widgets to instances
func (l *Loader) LoadInstances() (map[apps.App]apps.Instance, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}
	return NewMapper().MapInstances(config), nil
}

// substitute replaces every {{...}} with its resolved value. Anything that
// does not resolve becomes empty, so the document still parses.
func (l *Loader) substitute(data []byte) []byte {
	return templateVar.ReplaceAllFunc(data, func(match []byte) []byte {
		sub := templateVar.FindSubmatch(match)
		if len(sub) < 2 || len(sub[1]) == 0 {
			return nil
		}
		return []byte(l.resolve(string(sub[1])))
	})
}

func (l *Loader) resolve(name string) string {
	v, ok := l.lookup(name)
	if !ok {
		return ""
	}
	if !strings.HasPrefix(name, "HOMEPAGE_FILE_") {
		return v
	}
	content, err := l.readFile(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(content))
}
