package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrSnakeDoc/clawarr/internal/httpserver/deps"
)

// Metrics serves the clawarr registry in the Prometheus text format.
func Metrics(d deps.Deps) http.Handler {
	if d.Metrics == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{})
}
