package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/clawarr/internal/httpserver/deps"
	"github.com/MrSnakeDoc/clawarr/internal/logger"
)

type checkResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Check triggers an immediate health monitor run
func Check(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.CheckTrigger == nil {
			writeError(w, http.StatusServiceUnavailable, "health monitor disabled")
			return
		}

		select {
		case d.CheckTrigger <- struct{}{}:
			d.Logger.Info("manual health check triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, checkResponse{OK: true, Message: "health check triggered"})
		default:
			d.Logger.Warn("health check already pending",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusTooManyRequests, checkResponse{OK: false, Message: "health check already pending, please wait"})
		}
	}
}
