package validate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/MrSnakeDoc/clawarr/internal/apps"
)

// Arr checks a radarr/sonarr/lidarr/readarr/prowlarr/bazarr instance through
// /api/v3/system/status with the X-Api-Key header.
func (c *Client) Arr(ctx context.Context, inst apps.Instance, timeout time.Duration) Outcome {
	if out, ok := precheck(inst, msgNoAPIKey); !ok {
		return out
	}

	r := c.apiKeyHeaderFetch(ctx, inst, "/api/v3/system/status", timeout)
	if !r.ok {
		return r.failure()
	}

	var status struct {
		AppName string `json:"appName"`
		Version string `json:"version"`
	}
	_ = json.Unmarshal(r.data, &status)
	if status.AppName == "" {
		status.AppName = "Arr"
	}
	return Outcome{OK: true, Message: okMessage(status.AppName, status.Version), Data: r.data}
}

// Overseerr checks the request manager through /api/v1/status.
func (c *Client) Overseerr(ctx context.Context, inst apps.Instance, timeout time.Duration) Outcome {
	if out, ok := precheck(inst, msgNoAPIKey); !ok {
		return out
	}

	r := c.apiKeyHeaderFetch(ctx, inst, "/api/v1/status", timeout)
	if !r.ok {
		return r.failure()
	}

	var status struct {
		Version string `json:"version"`
	}
	_ = json.Unmarshal(r.data, &status)
	return Outcome{OK: true, Message: okMessage("Overseerr", status.Version), Data: r.data}
}

// Plex checks the media server through /identity with the X-Plex-Token query
// parameter. Plex answers XML by default, so a 2xx non-JSON answer is still a
// success.
func (c *Client) Plex(ctx context.Context, inst apps.Instance, timeout time.Duration) Outcome {
	if out, ok := precheck(inst, msgNoToken); !ok {
		return out
	}

	u, err := endpoint(inst.BaseURL, "/identity", url.Values{"X-Plex-Token": {inst.APIKey}})
	if err != nil {
		return reply{detail: err.Error()}.failure()
	}

	r := c.fetchJSON(ctx, u, nil, timeout)
	if !r.ok {
		if r.detail == msgNonJSON && r.status >= 200 && r.status < 300 {
			return Outcome{OK: true, Message: "OK: Plex (non-JSON)"}
		}
		return r.failure()
	}
	return Outcome{OK: true, Message: "OK: Plex", Data: r.data}
}

// Tautulli checks the stats tool through /api/v2?cmd=status. Tautulli wraps
// its answer in a response envelope whose result must be "success"; a
// missing result counts as success.
func (c *Client) Tautulli(ctx context.Context, inst apps.Instance, timeout time.Duration) Outcome {
	if out, ok := precheck(inst, msgNoAPIKey); !ok {
		return out
	}

	u, err := endpoint(inst.BaseURL, "/api/v2", url.Values{
		"cmd":    {"status"},
		"apikey": {inst.APIKey},
	})
	if err != nil {
		return reply{detail: err.Error()}.failure()
	}

	r := c.fetchJSON(ctx, u, nil, timeout)
	if !r.ok {
		return r.failure()
	}

	var envelope struct {
		Response struct {
			Result  *string `json:"result"`
			Message *string `json:"message"`
		} `json:"response"`
	}
	_ = json.Unmarshal(r.data, &envelope)

	result := "success"
	if envelope.Response.Result != nil {
		result = *envelope.Response.Result
	}
	ok := result == "success"

	message := "OK: Tautulli"
	if !ok {
		message = "Tautulli result: " + result
	}
	if m := envelope.Response.Message; m != nil && *m != "" {
		message = *m
	}
	return Outcome{OK: ok, Message: message, Data: r.data}
}

// Sabnzbd checks the download client through /api?mode=version.
func (c *Client) Sabnzbd(ctx context.Context, inst apps.Instance, timeout time.Duration) Outcome {
	if out, ok := precheck(inst, msgNoAPIKey); !ok {
		return out
	}

	u, err := endpoint(inst.BaseURL, "/api", url.Values{
		"mode":   {"version"},
		"output": {"json"},
		"apikey": {inst.APIKey},
	})
	if err != nil {
		return reply{detail: err.Error()}.failure()
	}

	r := c.fetchJSON(ctx, u, nil, timeout)
	if !r.ok {
		return r.failure()
	}

	var status struct {
		Version string `json:"version"`
	}
	_ = json.Unmarshal(r.data, &status)
	return Outcome{OK: true, Message: okMessage("SABnzbd", status.Version), Data: r.data}
}

func (c *Client) apiKeyHeaderFetch(ctx context.Context, inst apps.Instance, path string, timeout time.Duration) reply {
	u, err := endpoint(inst.BaseURL, path, nil)
	if err != nil {
		return reply{detail: err.Error()}
	}
	return c.fetchJSON(ctx, u, http.Header{"X-Api-Key": {inst.APIKey}}, timeout)
}
