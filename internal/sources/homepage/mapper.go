package homepage

import (
	"strings"

	"github.com/MrSnakeDoc/clawarr/internal/apps"
)

// Mapper converts Homepage service widgets to app instances
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapInstances returns one instance per app that has a widget in config.
// The widget url is preferred over the service href. When an app appears
// more than once, the first occurrence in file order wins.
func (m *Mapper) MapInstances(config ServicesConfig) map[apps.App]apps.Instance {
	instances := make(map[apps.App]apps.Instance)

	for _, groupMap := range config {
		for _, servicesList := range groupMap {
			for _, serviceMap := range servicesList {
				for _, props := range serviceMap {
					app, err := apps.ParseApp(props.Widget.Type)
					if err != nil {
						continue
					}
					if _, seen := instances[app]; seen {
						continue
					}

					baseURL := strings.TrimSpace(props.Widget.URL)
					if baseURL == "" {
						baseURL = strings.TrimSpace(props.Href)
					}
					if baseURL == "" {
						continue
					}

					instances[app] = apps.Instance{
						BaseURL: strings.TrimSuffix(baseURL, "/"),
						APIKey:  strings.TrimSpace(props.Widget.Key),
					}
				}
			}
		}
	}

	return instances
}
