// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/scopeplot/internal/buffer"
	"github.com/tomtom215/scopeplot/internal/config"
	"github.com/tomtom215/scopeplot/internal/metrics"
	"github.com/tomtom215/scopeplot/internal/render"
	ws "github.com/tomtom215/scopeplot/internal/websocket"
)

// testConfig returns the settings the handlers read, with rate limiting off.
func testConfig() *config.Config {
	return &config.Config{
		Plot:     config.PlotConfig{Title: "Test scope"},
		Ingest:   config.IngestConfig{MaxBodyBytes: 256, CORSOrigins: []string{"*"}},
		Security: config.SecurityConfig{RateLimitDisabled: true},
	}
}

type testEnv struct {
	buf      *buffer.Buffer
	renderer *render.Renderer
	hub      *ws.Hub
	handler  *Handler
}

func newTestEnv(t *testing.T, capacity int, cfg *config.Config) *testEnv {
	t.Helper()
	buf, err := buffer.New(capacity)
	if err != nil {
		t.Fatalf("buffer.New(%d) error = %v", capacity, err)
	}
	hub := ws.NewHub()
	renderer := render.New(buf, hub, render.Config{Title: "Test scope"})
	return &testEnv{
		buf:      buf,
		renderer: renderer,
		hub:      hub,
		handler:  NewHandler(buf, renderer, hub, cfg),
	}
}

// runHub starts the hub with a snapshot welcome and stops it at cleanup.
func (e *testEnv) runHub(t *testing.T) {
	t.Helper()
	e.hub.SetWelcome(func() (ws.Message, bool) {
		return ws.Message{Type: ws.MessageTypeFrame, Data: e.renderer.SnapshotFrame()}, true
	})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = e.hub.RunWithContext(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("hub did not stop")
		}
	})
}

func postData(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/data", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func decodeStatus(t *testing.T, w *httptest.ResponseRecorder) StatusResponse {
	t.Helper()
	var resp StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v (body %q)", err, w.Body.String())
	}
	return resp
}

func TestOriginAllowed(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		host    string
		allowed []string
		want    bool
	}{
		{"same host with empty list", "http://localhost:5001", "localhost:5001", nil, true},
		{"same host case-insensitive", "http://LocalHost:5001", "localhost:5001", nil, true},
		{"other host with empty list", "http://evil.example", "localhost:5001", nil, false},
		{"wildcard", "http://evil.example", "localhost:5001", []string{"*"}, true},
		{"full origin entry", "https://scope.example", "10.0.0.1:5001", []string{"https://scope.example"}, true},
		{"host entry", "https://scope.example:8080", "10.0.0.1:5001", []string{"scope.example:8080"}, true},
		{"trailing slash entry", "https://scope.example", "x", []string{"https://scope.example/"}, true},
		{"not listed", "https://other.example", "x", []string{"https://scope.example"}, false},
		{"garbage origin", "::not a url", "x", nil, false},
		{"opaque origin", "null", "x", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := originAllowed(tt.origin, tt.host, tt.allowed); got != tt.want {
				t.Errorf("originAllowed(%q, %q, %v) = %v, want %v", tt.origin, tt.host, tt.allowed, got, tt.want)
			}
		})
	}
}

func TestCheckWebSocketOrigin(t *testing.T) {
	cfg := testConfig()
	env := newTestEnv(t, 4, cfg)

	req := httptest.NewRequest(http.MethodGet, "http://localhost:5001/ws", nil)
	if !env.handler.checkWebSocketOrigin(req) {
		t.Error("request without Origin should be allowed")
	}

	req.Header.Set("Origin", "http://localhost:5001")
	if !env.handler.checkWebSocketOrigin(req) {
		t.Error("same-host origin should be allowed")
	}

	req.Header.Set("Origin", "http://evil.example")
	if env.handler.checkWebSocketOrigin(req) {
		t.Error("foreign origin should be rejected with empty allow-list")
	}

	cfg.Plot.AllowedOrigins = []string{"*"}
	if !env.handler.checkWebSocketOrigin(req) {
		t.Error("wildcard should allow any origin")
	}
}

func TestCheckWebSocketOrigin_WildcardAcceptsOpaqueOrigin(t *testing.T) {
	cfg := testConfig()
	cfg.Plot.AllowedOrigins = []string{"https://scope.example", "*"}
	env := newTestEnv(t, 4, cfg)
	rejected := testutil.ToFloat64(metrics.WSOriginRejections)

	req := httptest.NewRequest(http.MethodGet, "http://localhost:5001/ws", nil)
	req.Header.Set("Origin", "null")
	if !env.handler.checkWebSocketOrigin(req) {
		t.Error("wildcard should allow an opaque origin")
	}
	if got := testutil.ToFloat64(metrics.WSOriginRejections) - rejected; got != 0 {
		t.Errorf("origin rejections delta = %v, want 0", got)
	}

	cfg.Plot.AllowedOrigins = []string{"https://scope.example"}
	if env.handler.checkWebSocketOrigin(req) {
		t.Error("opaque origin should be rejected without a wildcard")
	}
	if got := testutil.ToFloat64(metrics.WSOriginRejections) - rejected; got != 1 {
		t.Errorf("origin rejections delta = %v, want 1", got)
	}
}

func TestMaxBodyBytesDefault(t *testing.T) {
	env := newTestEnv(t, 1, nil)
	if got := env.handler.maxBodyBytes(); got != defaultMaxBodyBytes {
		t.Errorf("maxBodyBytes() = %d, want %d", got, defaultMaxBodyBytes)
	}
}
