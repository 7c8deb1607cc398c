package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/clawarr/internal/httpserver/deps"
	"github.com/MrSnakeDoc/clawarr/internal/httpserver/handlers"
)

func init() { RegisterAPI(registerStatus) }

func registerStatus(r chi.Router, d deps.Deps) {
	r.Get("/status", handlers.Status(d))
	r.Post("/check", handlers.Check(d))
}
