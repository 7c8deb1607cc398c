package handlers

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/clawarr/internal/httpserver/deps"
)

type healthzResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Version       string  `json:"version,omitempty"`
	Commit        string  `json:"commit,omitempty"`
	BuildDate     string  `json:"build_date,omitempty"`
	GoVersion     string  `json:"go_version,omitempty"`
	SuiteEnabled  bool    `json:"suite_enabled"`
	AppsUp        *int    `json:"apps_up,omitempty"`
	LastCheck     string  `json:"last_check,omitempty"`
}

// Healthz is the liveness probe. It never touches the network; the app
// counters come from the last health monitor run, if any.
func Healthz(d deps.Deps) http.HandlerFunc {
	start := d.StartTime
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthzResponse{
			Status:        "ok",
			UptimeSeconds: time.Since(start).Seconds(),
			Version:       d.Version,
			Commit:        d.Commit,
			BuildDate:     d.BuildDate,
			GoVersion:     d.GoVersion,
			SuiteEnabled:  d.Suite != nil && d.Suite.Enabled(),
		}
		if d.Monitor != nil {
			if snap := d.Monitor.Last(); !snap.At.IsZero() {
				up := snap.Up()
				resp.AppsUp = &up
				resp.LastCheck = snap.At.UTC().Format(time.RFC3339)
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
