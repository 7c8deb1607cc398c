package discovery

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/clawarr/internal/apps"
)

// Scheme used for every candidate base URL.
const Scheme = "http"

// HintRedirect marks a 3xx answer, usually a redirect to a login or setup page.
const HintRedirect = "redirect"

// Target is one (host, app, port) triple of the discovery matrix.
type Target struct {
	App  apps.App
	Host string
	Port int
}

// BaseURL returns scheme://host:port. The host is used verbatim.
func (t Target) BaseURL() string {
	return fmt.Sprintf("%s://%s:%d", Scheme, t.Host, t.Port)
}

// Verdict keeps apart "recognised web app", "something speaks HTTP here" and
// "nothing answered", which OK alone collapses.
type Verdict int

const (
	Unreachable Verdict = iota
	Listening
	Recognized
)

func (v Verdict) String() string {
	switch v {
	case Recognized:
		return "recognized"
	case Listening:
		return "listening"
	default:
		return "unreachable"
	}
}

// Result is the outcome of a single probe.
type Result struct {
	App     apps.App `json:"app"`
	BaseURL string   `json:"baseUrl"`
	OK      bool     `json:"ok"`
	Status  int      `json:"status,omitempty"`
	Hint    string   `json:"hint,omitempty"`
	Verdict Verdict  `json:"-"`
}

// classify applies the probe rules in priority order: transport error,
// HTML landing page, redirect, any other HTTP answer, no answer.
func classify(status int, contentType string, err error) Result {
	switch {
	case err != nil:
		return Result{OK: false, Hint: err.Error(), Verdict: Unreachable}
	case status >= 200 && status < 300 && strings.Contains(contentType, "text/html"):
		return Result{OK: true, Status: status, Verdict: Recognized}
	case status >= 300 && status < 400:
		return Result{OK: true, Status: status, Hint: HintRedirect, Verdict: Recognized}
	case status != 0:
		return Result{OK: true, Status: status, Verdict: Listening}
	default:
		return Result{OK: false, Verdict: Unreachable}
	}
}
