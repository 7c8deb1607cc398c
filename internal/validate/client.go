package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MrSnakeDoc/clawarr/internal/apps"
	"github.com/MrSnakeDoc/clawarr/internal/metrics"
	"github.com/MrSnakeDoc/clawarr/internal/utils"
)

// DefaultTimeout is the per-check timeout used by status reports.
const DefaultTimeout = 2500 * time.Millisecond

const (
	msgNoBaseURL = "No baseUrl configured"
	msgNoAPIKey  = "No apiKey configured"
	msgNoToken   = "No token configured"
	msgNonJSON   = "Non-JSON response"
	msgTooLarge  = "Response body exceeds 1 MiB"

	// maxDetail is how much of a failing body ends up in a message.
	maxDetail = 800
	// maxBody bounds how much of any answer is read. A larger 2xx answer
	// fails with msgTooLarge.
	maxBody = 1 << 20
)

// Outcome is the result of one authenticated connection check.
type Outcome struct {
	OK      bool            `json:"ok"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Client runs connection checks. It holds no state besides the HTTP client,
// so concurrent checks are independent.
type Client struct {
	http    *http.Client
	metrics *metrics.Metrics
}

// New returns a Client. A nil httpClient uses a plain http.Client; timeouts
// are applied per call.
func New(httpClient *http.Client, m *metrics.Metrics) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{http: httpClient, metrics: m}
}

// Check validates inst with the checker matching app's family.
func (c *Client) Check(ctx context.Context, app apps.App, inst apps.Instance, timeout time.Duration) Outcome {
	var out Outcome
	switch app.Family() {
	case apps.FamilyArr:
		out = c.Arr(ctx, inst, timeout)
	case apps.FamilyRequestManager:
		out = c.Overseerr(ctx, inst, timeout)
	case apps.FamilyMediaServer:
		out = c.Plex(ctx, inst, timeout)
	case apps.FamilyStats:
		out = c.Tautulli(ctx, inst, timeout)
	case apps.FamilyDownloadClient:
		out = c.Sabnzbd(ctx, inst, timeout)
	default:
		out = Outcome{Message: fmt.Sprintf("no checker for %s", app)}
	}

	c.metrics.ObserveValidation(app.String(), out.OK)
	return out
}

// precheck returns a failing Outcome when inst cannot be checked at all.
func precheck(inst apps.Instance, missingKey string) (Outcome, bool) {
	if inst.BaseURL == "" {
		return Outcome{Message: msgNoBaseURL}, false
	}
	if inst.APIKey == "" {
		return Outcome{Message: missingKey}, false
	}
	return Outcome{}, true
}

// reply is what fetchJSON learned from one request.
type reply struct {
	ok     bool
	status int
	data   json.RawMessage
	detail string
}

func (r reply) failure() Outcome {
	return Outcome{Message: fmt.Sprintf("HTTP %d: %s", r.status, r.detail)}
}

// fetchJSON GETs rawURL and expects a 2xx JSON answer. Transport errors come
// back with status 0 and the error text as detail.
func (c *Client) fetchJSON(ctx context.Context, rawURL string, header http.Header, timeout time.Duration) reply {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return reply{detail: err.Error()}
	}
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return reply{detail: err.Error()}
	}
	defer utils.Close(resp.Body)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return reply{status: resp.StatusCode, detail: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return reply{status: resp.StatusCode, detail: truncate(string(body), maxDetail)}
	}
	if len(body) > maxBody {
		return reply{status: resp.StatusCode, detail: msgTooLarge}
	}
	if !json.Valid(body) {
		return reply{status: resp.StatusCode, detail: msgNonJSON}
	}
	return reply{ok: true, status: resp.StatusCode, data: body}
}

// endpoint joins base and path, then sets query parameters.
func endpoint(base, path string, query url.Values) (string, error) {
	u, err := url.Parse(strings.TrimSuffix(base, "/") + path)
	if err != nil {
		return "", err
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Set(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func okMessage(parts ...string) string {
	return strings.TrimSpace("OK: " + strings.Join(parts, " "))
}
