package homepage

// ServicesConfig represents the top-level structure of services.yaml
// Homepage uses dynamic keys, so we parse as []map[string][]map[string]ServiceProps
type ServicesConfig []map[string][]map[string]ServiceProps

// ServiceProps contains the service properties clawarr reads
type ServiceProps struct {
	Href   string `yaml:"href"`
	Widget Widget `yaml:"widget,omitempty"`
}

// Widget is the API widget block of a service. Homepage widgets for the
// media apps carry the instance URL and its API key (the Plex token for plex).
type Widget struct {
	Type string `yaml:"type"`
	URL  string `yaml:"url"`
	Key  string `yaml:"key"`
}
