// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

package main

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/scopeplot/internal/buffer"
	"github.com/tomtom215/scopeplot/internal/config"
	"github.com/tomtom215/scopeplot/internal/proxy"
	"github.com/tomtom215/scopeplot/internal/render"
)

func testConfig() *config.Config {
	return &config.Config{
		Plot:   config.PlotConfig{Host: "127.0.0.1", Port: 5001, Title: "Test Scope"},
		Render: config.RenderConfig{RefreshInterval: 10 * time.Millisecond},
		Ingest: config.IngestConfig{Host: "127.0.0.1", Port: 5002, MaxBodyBytes: 4096, CORSOrigins: []string{"*"}},
		Buffer: config.BufferConfig{Capacity: 3},
		Server: config.ServerConfig{
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			IdleTimeout:     time.Second,
			ShutdownTimeout: time.Second,
		},
		Security: config.SecurityConfig{RateLimitDisabled: true},
		Logging:  config.LoggingConfig{Level: "error", Format: "json"},
	}
}

func post(t *testing.T, url, body string) int {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode
}

func TestNewApp_IngestFeedsSnapshot(t *testing.T) {
	a, err := newApp(testConfig())
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	if a.proxy != nil {
		t.Error("proxy built while disabled")
	}

	ingest := httptest.NewServer(a.ingest)
	defer ingest.Close()
	plot := httptest.NewServer(a.plot)
	defer plot.Close()

	for _, body := range []string{`{"x":1,"y":1}`, `{"x":2,"y":4}`, `{"x":3,"y":9}`, `{"x":4,"y":16}`} {
		if code := post(t, ingest.URL+"/data", body); code != http.StatusOK {
			t.Fatalf("POST %s = %d, want 200", body, code)
		}
	}
	if code := post(t, ingest.URL+"/data", `{"x":"abc","y":1}`); code != http.StatusBadRequest {
		t.Errorf("invalid POST = %d, want 400", code)
	}

	resp, err := http.Get(plot.URL + "/api/snapshot")
	if err != nil {
		t.Fatalf("GET snapshot: %v", err)
	}
	defer resp.Body.Close()

	var frame render.Frame
	if err := json.NewDecoder(resp.Body).Decode(&frame); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if frame.Kind != render.KindSnapshot || frame.Capacity != 3 {
		t.Errorf("frame kind=%q capacity=%d, want snapshot/3", frame.Kind, frame.Capacity)
	}
	want := []buffer.Point{{X: 2, Y: 4}, {X: 3, Y: 9}, {X: 4, Y: 16}}
	got := a.buf.Snapshot()
	if len(got) != len(want) {
		t.Fatalf("buffer len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].X != want[i].X || got[i].Y != want[i].Y {
			t.Errorf("point %d = (%v, %v), want (%v, %v)", i, got[i].X, got[i].Y, want[i].X, want[i].Y)
		}
	}
}

func TestNewApp_ProxyFrontsBothServers(t *testing.T) {
	a, err := newApp(testConfig())
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	ingest := httptest.NewServer(a.ingest)
	defer ingest.Close()
	plot := httptest.NewServer(a.plot)
	defer plot.Close()

	p, err := proxy.New(plot.URL, ingest.URL)
	if err != nil {
		t.Fatalf("proxy.New() error = %v", err)
	}
	front := httptest.NewServer(p)
	defer front.Close()

	if code := post(t, front.URL+"/data", `{"x":12.34,"y":56.78}`); code != http.StatusOK {
		t.Fatalf("POST via proxy = %d, want 200", code)
	}
	last, ok := a.buf.Last()
	if !ok || last.X != 12.34 || last.Y != 56.78 {
		t.Errorf("Last() = %+v, %v; want (12.34, 56.78)", last, ok)
	}

	resp, err := http.Get(front.URL + "/")
	if err != nil {
		t.Fatalf("GET / via proxy: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "Test Scope") {
		t.Errorf("page via proxy: status %d, title present %v", resp.StatusCode, strings.Contains(string(body), "Test Scope"))
	}
}

func TestNewApp_InvalidCapacity(t *testing.T) {
	cfg := testConfig()
	cfg.Buffer.Capacity = 0
	if _, err := newApp(cfg); !errors.Is(err, buffer.ErrInvalidCapacity) {
		t.Errorf("newApp() error = %v, want ErrInvalidCapacity", err)
	}
}

func TestNewApp_ProxyEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.Proxy = config.ProxyConfig{
		Enabled:        true,
		Host:           "127.0.0.1",
		Port:           8080,
		PlotUpstream:   "http://127.0.0.1:5001",
		IngestUpstream: "http://127.0.0.1:5002",
	}
	a, err := newApp(cfg)
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	if a.proxy == nil {
		t.Error("proxy not built while enabled")
	}

	cfg.Proxy.PlotUpstream = "::bad"
	if _, err := newApp(cfg); !errors.Is(err, proxy.ErrInvalidUpstream) {
		t.Errorf("newApp() error = %v, want ErrInvalidUpstream", err)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.Plot.Port = freePort(t)
	cfg.Ingest.Port = freePort(t)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- run(ctx, cfg) }()

	url := "http://" + cfg.Ingest.Addr() + "/healthz"
	deadline := time.Now().Add(3 * time.Second)
	for {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("ingest server never came up: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("run() = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()
	addr := ts.Listener.Addr().(*net.TCPAddr)
	return addr.Port
}
