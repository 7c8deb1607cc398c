package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/clawarr/internal/httpserver/deps"
	"github.com/MrSnakeDoc/clawarr/internal/httpserver/mw"
)

// APIPrefixes are the mount points of the API router. The second one keeps
// clients written against the previous product name working.
var APIPrefixes = []string{"/api/clawarr", "/api/mediaarr"}

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type entry struct {
	reg Registrar
	mws []Middleware
}

var (
	registry    []entry
	apiRegistry []entry
)

// Register a root-level registrar with optional per-route middlewares.
func Register(reg Registrar, mws ...Middleware) {
	registry = append(registry, entry{reg: reg, mws: mws})
}

// RegisterAPI adds a registrar to the API router served under APIPrefixes.
func RegisterAPI(reg Registrar, mws ...Middleware) {
	apiRegistry = append(apiRegistry, entry{reg: reg, mws: mws})
}

// Called once from server.New()
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, e := range registry {
		apply(r, e, d)
	}

	// One API router mounted twice, so both prefixes share middleware state
	// such as the rate limiter buckets.
	api := chi.NewRouter()
	api.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger, d.Metrics))
	api.Use(mw.EnforceHost(d.AllowedHosts, d.Logger, d.Metrics))
	for _, e := range apiRegistry {
		apply(api, e, d)
	}
	for _, prefix := range APIPrefixes {
		r.Mount(prefix, api)
	}
}

func apply(r chi.Router, e entry, d deps.Deps) {
	if len(e.mws) == 0 {
		e.reg(r, d)
		return
	}
	sub := r.With(e.mws...) // apply per-route middlewares
	e.reg(sub, d)
}
