package apps

// Instance is a configured (address, credential) pair bound to one App.
// BaseURL carries scheme, host and port, e.g. http://localhost:7878.
type Instance struct {
	BaseURL string `yaml:"baseUrl" json:"baseUrl"`
	// APIKey is the arr/overseerr API key, the Plex token, or the
	// tautulli/sabnzbd apikey.
	APIKey string `yaml:"apiKey,omitempty" json:"-"`
}

// Configured reports whether the instance has an address to talk to.
func (i Instance) Configured() bool { return i.BaseURL != "" }
