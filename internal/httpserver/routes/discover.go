package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/clawarr/internal/httpserver/deps"
	"github.com/MrSnakeDoc/clawarr/internal/httpserver/handlers"
)

func init() { RegisterAPI(registerDiscover) }

func registerDiscover(r chi.Router, d deps.Deps) {
	r.Get("/discover", handlers.Discover(d))
	r.Get("/discover/last", handlers.LastDiscovery(d))
}
