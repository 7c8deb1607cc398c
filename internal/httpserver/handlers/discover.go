package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MrSnakeDoc/clawarr/internal/apps"
	"github.com/MrSnakeDoc/clawarr/internal/config"
	"github.com/MrSnakeDoc/clawarr/internal/discovery"
	"github.com/MrSnakeDoc/clawarr/internal/httpserver/deps"
	"github.com/MrSnakeDoc/clawarr/internal/logger"
	"github.com/MrSnakeDoc/clawarr/internal/suite"
)

// MaxQueryHosts caps the ?hosts= list of one discover request.
const MaxQueryHosts = 64

type discoverResponse struct {
	OK      bool               `json:"ok"`
	Results []discovery.Result `json:"results"`
}

// Discover probes the configured hosts, or the comma separated ?hosts=,
// for every app or the ?apps= subset.
func Discover(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		list, err := apps.ParseList(q.Get("apps"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		hosts := config.SplitList(q.Get("hosts"))
		if len(hosts) > MaxQueryHosts {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("too many hosts: %d (max %d)", len(hosts), MaxQueryHosts))
			return
		}

		results := d.Suite.Discover(r.Context(), hosts, list)
		d.Logger.Debug("discovery served",
			logger.Int("results", len(results)),
			logger.Int("found", discovery.CountOK(results)))

		writeJSON(w, http.StatusOK, discoverResponse{OK: true, Results: results})
	}
}

// LastDiscovery returns the cached results of the latest discovery run.
func LastDiscovery(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results, err := d.Suite.LastDiscovery(r.Context())
		switch {
		case errors.Is(err, suite.ErrNoCache), errors.Is(err, suite.ErrNoDiscovered):
			writeError(w, http.StatusNotFound, err.Error())
		case err != nil:
			d.Logger.Error("failed to read discovery cache", logger.Error(err))
			writeError(w, http.StatusInternalServerError, err.Error())
		default:
			writeJSON(w, http.StatusOK, discoverResponse{OK: true, Results: results})
		}
	}
}
