package apps

import (
	"fmt"
	"strings"
)

// App identifies one of the media applications clawarr knows how to reach.
// The set is closed: every lookup table in this package is indexed by App.
type App int

const (
	Radarr App = iota
	Sonarr
	Lidarr
	Readarr
	Prowlarr
	Bazarr
	Overseerr
	Plex
	Tautulli
	Sabnzbd

	numApps
)

// Count is the number of known apps. Tables indexed by App outside this
// package assert their length against it.
const Count = int(numApps)

// Family groups apps that share a status endpoint convention.
type Family string

const (
	FamilyArr            Family = "arr"
	FamilyRequestManager Family = "request-manager"
	FamilyMediaServer    Family = "media-server"
	FamilyStats          Family = "stats-tool"
	FamilyDownloadClient Family = "download-client"
)

var names = [...]string{
	Radarr:    "radarr",
	Sonarr:    "sonarr",
	Lidarr:    "lidarr",
	Readarr:   "readarr",
	Prowlarr:  "prowlarr",
	Bazarr:    "bazarr",
	Overseerr: "overseerr",
	Plex:      "plex",
	Tautulli:  "tautulli",
	Sabnzbd:   "sabnzbd",
}

var families = [...]Family{
	Radarr:    FamilyArr,
	Sonarr:    FamilyArr,
	Lidarr:    FamilyArr,
	Readarr:   FamilyArr,
	Prowlarr:  FamilyArr,
	Bazarr:    FamilyArr,
	Overseerr: FamilyRequestManager,
	Plex:      FamilyMediaServer,
	Tautulli:  FamilyStats,
	Sabnzbd:   FamilyDownloadClient,
}

var defaultPorts = [...][]int{
	Radarr:    {7878},
	Sonarr:    {8989},
	Lidarr:    {8686},
	Readarr:   {8787},
	Prowlarr:  {9696},
	Bazarr:    {6767},
	Overseerr: {5055},
	Plex:      {32400},
	Tautulli:  {8181},
	Sabnzbd:   {8080},
}

// Every table must hold exactly one entry per App.
var (
	_ [len(names) - int(numApps)]struct{}
	_ [int(numApps) - len(names)]struct{}
	_ [len(families) - int(numApps)]struct{}
	_ [int(numApps) - len(families)]struct{}
	_ [len(defaultPorts) - int(numApps)]struct{}
	_ [int(numApps) - len(defaultPorts)]struct{}
)

// All returns every known app in reporting order: the six arr-family apps,
// then the request manager, media server, stats tool and download client.
func All() []App {
	out := make([]App, 0, numApps)
	for a := App(0); a < numApps; a++ {
		out = append(out, a)
	}
	return out
}

// Valid reports whether a is one of the known apps.
func (a App) Valid() bool { return a >= 0 && a < numApps }

func (a App) String() string {
	if !a.Valid() {
		return fmt.Sprintf("app(%d)", int(a))
	}
	return names[a]
}

// Family returns the status endpoint family of a.
func (a App) Family() Family {
	if !a.Valid() {
		return ""
	}
	return families[a]
}

// DefaultPorts returns the ports a is usually published on.
func (a App) DefaultPorts() []int {
	if !a.Valid() {
		return nil
	}
	return append([]int(nil), defaultPorts[a]...)
}

func (a App) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("unknown app %d", int(a))
	}
	return []byte(names[a]), nil
}

func (a *App) UnmarshalText(text []byte) error {
	parsed, err := ParseApp(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseApp resolves a case-insensitive app name.
func ParseApp(s string) (App, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for a, name := range names {
		if name == s {
			return App(a), nil
		}
	}
	return 0, fmt.Errorf("unknown app %q", s)
}

// ParseList parses a comma separated list of app names, skipping blanks.
func ParseList(s string) ([]App, error) {
	var out []App
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		a, err := ParseApp(part)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
