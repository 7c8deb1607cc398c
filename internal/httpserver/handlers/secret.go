package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/MrSnakeDoc/clawarr/internal/apps"
	"github.com/MrSnakeDoc/clawarr/internal/httpserver/deps"
	"github.com/MrSnakeDoc/clawarr/internal/logger"
)

const (
	msgMissingSecret = "Missing app/apiKey"
	maxSecretBody    = 64 << 10
)

type secretRequest struct {
	App    string `json:"app"`
	APIKey string `json:"apiKey"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type namesResponse struct {
	OK    bool     `json:"ok"`
	Names []string `json:"names"`
}

// SetSecret stores an app credential. Every input problem is a 400 with the
// reason in the error field.
func SetSecret(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body secretRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSecretBody))
		if err := dec.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if body.App == "" || body.APIKey == "" {
			writeError(w, http.StatusBadRequest, msgMissingSecret)
			return
		}

		app, err := apps.ParseApp(body.App)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := d.Suite.SetSecret(r.Context(), app, body.APIKey); err != nil {
			d.Logger.Error("failed to store secret",
				logger.String("app", app.String()),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, okResponse{OK: true})
	}
}

// SecretNames lists stored secret names without their values.
func SecretNames(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := d.Suite.SecretNames(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if names == nil {
			names = []string{}
		}
		writeJSON(w, http.StatusOK, namesResponse{OK: true, Names: names})
	}
}
