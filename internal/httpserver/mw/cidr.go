package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/clawarr/internal/logger"
	"github.com/MrSnakeDoc/clawarr/internal/metrics"
	"github.com/MrSnakeDoc/clawarr/internal/utils"
)

// AllowOnlyCIDRS lets through clients whose IP matches one of the allowed
// IPs or CIDRs. An empty list disables the check.
// trustProxy should be true when running behind a trusted reverse proxy/tunnel (e.g., cloudflared).
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	matcher := utils.NewIPMatcher(allowed)
	if matcher.IsEmpty() {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !matcher.Allow(ip) {
				log.Warn("client ip rejected",
					logger.String("ip", ip),
					logger.String("path", r.URL.Path))
				m.ObserveRejected("cidr")
				deny(w, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
