package utils

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseHostNoPort(t *testing.T) {
	tests := map[string]string{
		"":               "",
		"10.0.0.1":       "10.0.0.1",
		"10.0.0.1:8080":  "10.0.0.1",
		"[fd00::1]:443":  "fd00::1",
		"[fd00::1]":      "fd00::1",
		"media.lan:8080": "media.lan",
		"media.lan":      "media.lan",
	}
	for in, want := range tests {
		if got := ParseHostNoPort(in); got != want {
			t.Errorf("ParseHostNoPort(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		trust   bool
		want    string
	}{
		{"remote addr", nil, false, "192.0.2.1"},
		{"headers ignored without trust", map[string]string{"X-Forwarded-For": "10.0.0.1"}, false, "192.0.2.1"},
		{"cloudflare first", map[string]string{"CF-Connecting-IP": "10.0.0.9", "X-Forwarded-For": "10.0.0.1"}, true, "10.0.0.9"},
		{"left-most forwarded", map[string]string{"X-Forwarded-For": " 10.0.0.1 , 10.0.0.2"}, true, "10.0.0.1"},
		{"real ip last", map[string]string{"X-Real-IP": "10.0.0.3"}, true, "10.0.0.3"},
		{"no headers with trust", nil, true, "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = "192.0.2.1:5000"
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trust); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.5", " 192.168.0.0/16 ", "fd00::/8", "not-an-ip", ""})
	if m.IsEmpty() {
		t.Fatal("expected rules")
	}

	tests := map[string]bool{
		"10.0.0.5":        true,
		"10.0.0.6":        false,
		"192.168.44.1":    true,
		"::ffff:10.0.0.5": true,
		"fd12::1":         true,
		"2001:db8::1":     false,
		"garbage":         false,
		"":                false,
	}
	for ip, want := range tests {
		if got := m.Allow(ip); got != want {
			t.Errorf("Allow(%q) = %v, want %v", ip, got, want)
		}
	}

	if !NewIPMatcher(nil).IsEmpty() {
		t.Error("nil rules should give an empty matcher")
	}
}

type countingCloser struct {
	io.Reader
	closed int
}

func (c *countingCloser) Close() error {
	c.closed++
	return errors.New("ignored")
}

func TestDrainAndClose(t *testing.T) {
	body := &countingCloser{Reader: strings.NewReader(strings.Repeat("x", 2*maxDrain))}
	DrainAndClose(body)
	if body.closed != 1 {
		t.Errorf("expected one close, got %d", body.closed)
	}
	if rest, _ := io.ReadAll(body); len(rest) != maxDrain {
		t.Errorf("expected drain to stop at %d bytes, %d left", maxDrain, len(rest))
	}
}
