package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/clawarr/internal/httpserver/deps"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Mode       string `json:"mode,omitempty"`
	LastRun    string `json:"last_run,omitempty"`
	Configured *int   `json:"configured,omitempty"`
	Up         *int   `json:"up,omitempty"`
	Impact     string `json:"impact,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"secret_store":   checkStore(r.Context(), d),
			"health_monitor": monitorStatus(d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	// Secrets unreachable = status reports lose stored credentials
	if store, exists := components["secret_store"]; exists && !store.OK {
		return "degraded"
	}
	return "operational"
}

func checkStore(ctx context.Context, d deps.Deps) componentStatus {
	if d.Store == nil {
		return componentStatus{
			OK:     true,
			Mode:   "memory",
			Impact: "secrets-lost-on-restart",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.Store.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "redis",
			Impact: "stored-credentials-unavailable",
			Error:  err.Error(),
		}
	}

	return componentStatus{OK: true, Mode: "redis"}
}

func monitorStatus(d deps.Deps) componentStatus {
	if d.Monitor == nil {
		return componentStatus{OK: true, Mode: "disabled"}
	}

	snap := d.Monitor.Last()
	if snap.At.IsZero() {
		return componentStatus{OK: true, Mode: "periodic", LastRun: "never"}
	}

	configured := 0
	for _, st := range snap.Statuses {
		if st.Configured {
			configured++
		}
	}
	up := snap.Up()
	return componentStatus{
		OK:         up == configured,
		Mode:       "periodic",
		LastRun:    snap.At.Format("2006-01-02 15:04:05"),
		Configured: &configured,
		Up:         &up,
	}
}
