package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/clawarr/internal/httpserver/deps"
	"github.com/MrSnakeDoc/clawarr/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/clawarr/internal/httpserver/mw"
)

func init() { RegisterAPI(registerSecret) }

func registerSecret(r chi.Router, d deps.Deps) {
	limiter := mw.NewRateLimiter(mw.RateLimitConfig{
		Burst:             d.SecretRateBurst,
		RefillPerIPPerMin: d.SecretRatePerMin,
		MaxEntries:        4096,
		IdleTTL:           15 * time.Minute,
		TrustProxy:        d.TrustProxy,
	}, d.Metrics)
	r.With(limiter.Middleware).Post("/secret", handlers.SetSecret(d))
	r.Get("/secrets", handlers.SecretNames(d))
}
