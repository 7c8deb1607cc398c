package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/clawarr/internal/httpserver/deps"
)

type statusResponse struct {
	OK     bool   `json:"ok"`
	Status string `json:"status"`
}

func Status(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := d.Suite.Status(r.Context())
		writeJSON(w, http.StatusOK, statusResponse{OK: res.OK, Status: res.Message})
	}
}
