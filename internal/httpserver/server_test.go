package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/clawarr/internal/apps"
	"github.com/MrSnakeDoc/clawarr/internal/config"
	"github.com/MrSnakeDoc/clawarr/internal/discovery"
	"github.com/MrSnakeDoc/clawarr/internal/httpserver/deps"
	"github.com/MrSnakeDoc/clawarr/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/clawarr/internal/logger"
	"github.com/MrSnakeDoc/clawarr/internal/metrics"
	"github.com/MrSnakeDoc/clawarr/internal/secrets"
	"github.com/MrSnakeDoc/clawarr/internal/suite"
)

type testEnv struct {
	handler http.Handler
	store   *secrets.MemoryStore
	trigger chan struct{}
}

func newTestEnv(t *testing.T, mutate func(*deps.Deps)) testEnv {
	t.Helper()

	log := logger.NewNop()
	store := secrets.NewMemoryStore()
	m := metrics.New()

	// Every app probes a port nothing listens on.
	ports := make(map[apps.App][]int)
	for _, app := range apps.All() {
		ports[app] = []int{1}
	}

	svc := suite.New(suite.Params{
		Suite:  config.DefaultSuite(),
		Prober: discovery.NewProber(discovery.WithPortOverrides(ports), discovery.WithMetrics(m)),
		Store:  store,
		Logger: log,
	})

	trigger := make(chan struct{}, 1)
	d := deps.Deps{
		Logger:           log,
		StartTime:        time.Now(),
		Version:          "test",
		Suite:            svc,
		Metrics:          m,
		CheckTrigger:     trigger,
		SecretRateBurst:  10,
		SecretRatePerMin: 30,
	}
	if mutate != nil {
		mutate(&d)
	}

	cfg := &config.Config{ListenPort: ":0", RequestTimeout: 10 * time.Second}
	return testEnv{handler: New(cfg, log, d).Handler(), store: store, trigger: trigger}
}

func (e testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestSecretEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"stores credential", "/api/clawarr/secret", `{"app":"radarr","apiKey":"abc"}`, 200, ""},
		{"legacy path", "/api/mediaarr/secret", `{"app":"sonarr","apiKey":"def"}`, 200, ""},
		{"missing apiKey", "/api/clawarr/secret", `{"app":"radarr"}`, 400, "Missing app/apiKey"},
		{"missing app", "/api/clawarr/secret", `{"apiKey":"abc"}`, 400, "Missing app/apiKey"},
		{"empty body", "/api/clawarr/secret", ``, 400, "Missing app/apiKey"},
		{"unknown app", "/api/clawarr/secret", `{"app":"jellyfin","apiKey":"abc"}`, 400, "unknown app"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			rec := env.do(t, http.MethodPost, tt.path, tt.body)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			out := decode(t, rec)
			if tt.wantError == "" {
				if out["ok"] != true {
					t.Errorf("expected ok:true, got %v", out)
				}
				return
			}
			if out["ok"] != false {
				t.Errorf("expected ok:false, got %v", out)
			}
			if msg, _ := out["error"].(string); !strings.Contains(msg, tt.wantError) {
				t.Errorf("error = %q, want it to contain %q", msg, tt.wantError)
			}
		})
	}
}

func TestSecretEndpointStoresUnderCurrentKey(t *testing.T) {
	env := newTestEnv(t, nil)
	env.do(t, http.MethodPost, "/api/mediaarr/secret", `{"app":"plex","apiKey":"tok"}`)

	v, _ := env.store.Get(t.Context(), "clawarr.plex.apiKey")
	if v != "tok" {
		t.Errorf("stored value = %q, want tok", v)
	}
}

func TestSecretEndpointBadJSON(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(t, http.MethodPost, "/api/clawarr/secret", `{"app":`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	out := decode(t, rec)
	if out["ok"] != false || out["error"] == "" {
		t.Errorf("unexpected body %v", out)
	}
}

func TestSecretEndpointRateLimited(t *testing.T) {
	env := newTestEnv(t, func(d *deps.Deps) {
		d.SecretRateBurst = 1
		d.SecretRatePerMin = 1
	})

	first := env.do(t, http.MethodPost, "/api/clawarr/secret", `{"app":"radarr","apiKey":"a"}`)
	second := env.do(t, http.MethodPost, "/api/mediaarr/secret", `{"app":"radarr","apiKey":"b"}`)

	if first.Code != http.StatusOK {
		t.Fatalf("first status = %d", first.Code)
	}
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("second status = %d, want 429 across both prefixes", second.Code)
	}
}

func TestSecretNamesEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	env.do(t, http.MethodPost, "/api/clawarr/secret", `{"app":"radarr","apiKey":"abc"}`)

	rec := env.do(t, http.MethodGet, "/api/clawarr/secrets", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "clawarr.radarr.apiKey") || strings.Contains(body, "abc") {
		t.Errorf("unexpected body %s", body)
	}
}

func TestStatusEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(t, http.MethodGet, "/api/clawarr/status", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	out := decode(t, rec)
	status, _ := out["status"].(string)
	lines := strings.Split(status, "\n")
	if out["ok"] != true || len(lines) != 10 || lines[0] != "radarr: not configured" {
		t.Errorf("unexpected body %v", out)
	}
}

func TestDiscoverEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(t, http.MethodGet, "/api/clawarr/discover?hosts=127.0.0.1&apps=radarr,plex", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	var out struct {
		OK      bool `json:"ok"`
		Results []struct {
			App     string `json:"app"`
			BaseURL string `json:"baseUrl"`
			OK      bool   `json:"ok"`
		} `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !out.OK || len(out.Results) != 2 {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	if out.Results[0].App != "radarr" || out.Results[0].BaseURL != "http://127.0.0.1:1" || out.Results[0].OK {
		t.Errorf("unexpected first result %+v", out.Results[0])
	}
}

func TestDiscoverEndpointUnknownApp(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(t, http.MethodGet, "/api/mediaarr/discover?apps=radarr,emby", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDiscoverEndpointRejectsTooManyHosts(t *testing.T) {
	env := newTestEnv(t, nil)

	hosts := make([]string, handlers.MaxQueryHosts+1)
	for i := range hosts {
		hosts[i] = fmt.Sprintf("10.0.%d.%d", i/256, i%256)
	}
	rec := env.do(t, http.MethodGet, "/api/clawarr/discover?hosts="+strings.Join(hosts, ","), "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if out := decode(t, rec); out["ok"] != false || !strings.Contains(out["error"].(string), "too many hosts") {
		t.Errorf("unexpected body %v", out)
	}

	rec = env.do(t, http.MethodGet, "/api/clawarr/discover/last", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("rejected request must not touch the discovery cache, got %d", rec.Code)
	}
}

func TestLastDiscoveryWithoutCache(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(t, http.MethodGet, "/api/clawarr/discover/last", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCheckEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)

	if rec := env.do(t, http.MethodPost, "/api/clawarr/check", ""); rec.Code != http.StatusAccepted {
		t.Fatalf("first status = %d, want 202", rec.Code)
	}
	if rec := env.do(t, http.MethodPost, "/api/clawarr/check", ""); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", rec.Code)
	}
	<-env.trigger

	disabled := newTestEnv(t, func(d *deps.Deps) { d.CheckTrigger = nil })
	if rec := disabled.do(t, http.MethodPost, "/api/clawarr/check", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("disabled status = %d, want 503", rec.Code)
	}
}

func TestProbeEndpoints(t *testing.T) {
	env := newTestEnv(t, nil)

	if rec := env.do(t, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK || decode(t, rec)["status"] != "ok" {
		t.Errorf("healthz = %d %s", rec.Code, rec.Body.String())
	}
	if rec := env.do(t, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK || decode(t, rec)["ready"] != true {
		t.Errorf("readyz = %d %s", rec.Code, rec.Body.String())
	}
	rec := env.do(t, http.MethodGet, "/infra", "")
	if rec.Code != http.StatusOK || decode(t, rec)["mode"] != "operational" {
		t.Errorf("infra = %d %s", rec.Code, rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	env.do(t, http.MethodGet, "/api/clawarr/discover?hosts=127.0.0.1&apps=sonarr", "")

	rec := env.do(t, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `clawarr_discovery_probes_total{app="sonarr",outcome="unreachable"} 1`) {
		t.Errorf("probe counter missing from metrics output")
	}
}

func TestAPIRejectsDisallowedClients(t *testing.T) {
	env := newTestEnv(t, func(d *deps.Deps) { d.AllowedCIDRS = []string{"10.0.0.0/8"} })

	// httptest requests come from 192.0.2.1
	if rec := env.do(t, http.MethodGet, "/api/clawarr/status", ""); rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("healthz should stay open, got %d", rec.Code)
	}
}
