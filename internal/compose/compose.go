package compose

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/clawarr/internal/apps"
)

const (
	DefaultTimezone = "Etc/UTC"
	restartPolicy   = "unless-stopped"
	puid            = "1000"
	pgid            = "1000"
)

var (
	ErrNoProjectName = errors.New("project name is required")
	ErrNoDataDir     = errors.New("data dir is required")
)

// Plan describes the stack to generate. Ports maps an app to the host port
// it is published on; apps without an entry use their default port.
type Plan struct {
	ProjectName string
	DataDir     string
	Timezone    string
	Ports       map[apps.App]int
}

// image per app. readarr only ships a develop tag.
var images = [...]string{
	apps.Radarr:    "lscr.io/linuxserver/radarr:latest",
	apps.Sonarr:    "lscr.io/linuxserver/sonarr:latest",
	apps.Lidarr:    "lscr.io/linuxserver/lidarr:latest",
	apps.Readarr:   "lscr.io/linuxserver/readarr:develop",
	apps.Prowlarr:  "lscr.io/linuxserver/prowlarr:latest",
	apps.Bazarr:    "lscr.io/linuxserver/bazarr:latest",
	apps.Overseerr: "lscr.io/linuxserver/overseerr:latest",
	apps.Plex:      "plexinc/pms-docker:latest",
	apps.Tautulli:  "lscr.io/linuxserver/tautulli:latest",
	apps.Sabnzbd:   "lscr.io/linuxserver/sabnzbd:latest",
}

var (
	_ [len(images) - apps.Count]struct{}
	_ [apps.Count - len(images)]struct{}
)

func mountsMedia(app apps.App) bool {
	switch app {
	case apps.Radarr, apps.Sonarr, apps.Lidarr, apps.Readarr, apps.Bazarr, apps.Plex:
		return true
	}
	return false
}

func mountsDownloads(app apps.App) bool {
	switch app {
	case apps.Radarr, apps.Sonarr, apps.Lidarr, apps.Readarr, apps.Sabnzbd:
		return true
	}
	return false
}

// Generate renders a docker compose document with one service per app.
func Generate(plan Plan) ([]byte, error) {
	if strings.TrimSpace(plan.ProjectName) == "" {
		return nil, ErrNoProjectName
	}
	if strings.TrimSpace(plan.DataDir) == "" {
		return nil, ErrNoDataDir
	}
	for app, port := range plan.Ports {
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid host port %d for %s", port, app)
		}
	}

	tz := plan.Timezone
	if tz == "" {
		tz = DefaultTimezone
	}
	data := strings.TrimSuffix(plan.DataDir, "/")

	services := mapping()
	for _, app := range apps.All() {
		services.Content = append(services.Content,
			scalar(app.String()),
			service(plan.ProjectName, data, tz, app, plan.Ports[app]))
	}

	root := mapping(
		scalar("name"), scalar(plan.ProjectName),
		scalar("services"), services,
	)
	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode compose file: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode compose file: %w", err)
	}
	return buf.Bytes(), nil
}

func service(project, data, tz string, app apps.App, hostPort int) *yaml.Node {
	containerPort := app.DefaultPorts()[0]
	if hostPort == 0 {
		hostPort = containerPort
	}

	env := sequence(scalar("TZ=" + tz))
	if app == apps.Plex {
		env.Content = append(env.Content, scalar("PLEX_CLAIM="))
	} else {
		env.Content = append(env.Content, scalar("PUID="+puid), scalar("PGID="+pgid))
	}

	volumes := sequence(scalar(fmt.Sprintf("%s/%s:/config", data, app)))
	if mountsMedia(app) {
		volumes.Content = append(volumes.Content, scalar(data+"/media:/media"))
	}
	if mountsDownloads(app) {
		volumes.Content = append(volumes.Content, scalar(data+"/downloads:/downloads"))
	}

	// Quoted so YAML 1.1 readers never see a base-60 number.
	port := scalar(strconv.Itoa(hostPort) + ":" + strconv.Itoa(containerPort))
	port.Style = yaml.DoubleQuotedStyle

	return mapping(
		scalar("image"), scalar(images[app]),
		scalar("container_name"), scalar(project+"-"+app.String()),
		scalar("environment"), env,
		scalar("volumes"), volumes,
		scalar("ports"), sequence(port),
		scalar("restart"), scalar(restartPolicy),
	)
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func mapping(content ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Content: content}
}

func sequence(content ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Content: content}
}
