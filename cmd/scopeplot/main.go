// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

// Package main is the Scopeplot server.
//
// Scopeplot is a real-time HTTP oscilloscope: producers POST {"x": .., "y": ..}
// points to the ingestion server, and browsers watch them on a live line chart
// served by the plot server. A reverse proxy puts both behind one port.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, optional YAML file, environment (Koanf v2)
//  2. Buffer: fixed-capacity ring shared by ingestion and rendering
//  3. WebSocket Hub and Renderer: periodic redraw broadcast to browsers
//  4. HTTP servers: plot (page, /ws, /api/snapshot, /metrics), ingest (/data)
//     and, unless PROXY_ENABLED=false, the proxy
//  5. Supervisor tree: every loop and listener runs as a suture service
//
// # Example Usage
//
//	SCOPE_POINTS=2000 PLOT_ALLOWED_ORIGINS=https://scope.example.com ./scopeplot
//	scopefeed --url http://localhost:8080/data
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. HTTP servers drain within
// HTTP_SHUTDOWN_TIMEOUT and WebSocket clients are closed.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/scopeplot/internal/api"
	"github.com/tomtom215/scopeplot/internal/buffer"
	"github.com/tomtom215/scopeplot/internal/config"
	"github.com/tomtom215/scopeplot/internal/logging"
	"github.com/tomtom215/scopeplot/internal/metrics"
	"github.com/tomtom215/scopeplot/internal/proxy"
	"github.com/tomtom215/scopeplot/internal/render"
	"github.com/tomtom215/scopeplot/internal/supervisor"
	"github.com/tomtom215/scopeplot/internal/supervisor/services"
	ws "github.com/tomtom215/scopeplot/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		stop()
		logging.Fatal().Err(err).Msg("Scopeplot stopped with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

// app holds the wired components shared by the servers.
type app struct {
	buf      *buffer.Buffer
	hub      *ws.Hub
	renderer *render.Renderer
	plot     http.Handler
	ingest   http.Handler
	proxy    http.Handler
}

// newApp builds the buffer, renderer and routers from cfg. Nothing is
// started here.
func newApp(cfg *config.Config) (*app, error) {
	buf, err := buffer.New(cfg.Buffer.Capacity)
	if err != nil {
		return nil, err
	}
	metrics.BufferCapacity.Set(float64(buf.Cap()))

	hub := ws.NewHub()
	renderer := render.New(buf, hub, render.Config{
		RefreshInterval: cfg.Render.RefreshInterval,
		Title:           cfg.Plot.Title,
	})
	hub.SetWelcome(func() (ws.Message, bool) {
		return ws.Message{Type: ws.MessageTypeFrame, Data: renderer.SnapshotFrame()}, true
	})

	handler := api.NewHandler(buf, renderer, hub, cfg)
	mw := api.NewChiMiddlewareFromSettings(
		cfg.Ingest.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)
	router := api.NewRouter(handler, mw)

	a := &app{
		buf:      buf,
		hub:      hub,
		renderer: renderer,
		plot:     router.PlotRoutes(),
		ingest:   router.IngestRoutes(),
	}

	if cfg.Proxy.Enabled {
		p, err := proxy.New(cfg.Proxy.PlotUpstream, cfg.Proxy.IngestUpstream)
		if err != nil {
			return nil, err
		}
		a.proxy = p
	}
	return a, nil
}

func newServer(addr string, handler http.Handler, sc config.ServerConfig) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       sc.ReadTimeout,
		ReadHeaderTimeout: sc.ReadTimeout,
		WriteTimeout:      sc.WriteTimeout,
		IdleTimeout:       sc.IdleTimeout,
	}
}

// run wires the supervisor tree and blocks until ctx ends.
func run(ctx context.Context, cfg *config.Config) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	logging.Info().
		Int("capacity", a.buf.Cap()).
		Dur("refresh_interval", a.renderer.Interval()).
		Str("plot_addr", cfg.Plot.Addr()).
		Str("ingest_addr", cfg.Ingest.Addr()).
		Bool("proxy_enabled", cfg.Proxy.Enabled).
		Msg("Configuration loaded")

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}

	tree.AddRenderService(services.NewWebSocketHubService(a.hub))
	tree.AddRenderService(services.NewRendererService(a.renderer))

	shutdown := cfg.Server.ShutdownTimeout
	tree.AddAPIService(services.NewHTTPServerService("plot-http", newServer(cfg.Plot.Addr(), a.plot, cfg.Server), shutdown))
	tree.AddAPIService(services.NewHTTPServerService("ingest-http", newServer(cfg.Ingest.Addr(), a.ingest, cfg.Server), shutdown))
	if a.proxy != nil {
		tree.AddAPIService(services.NewHTTPServerService("proxy-http", newServer(cfg.Proxy.Addr(), a.proxy, cfg.Server), shutdown))
		logging.Info().
			Str("addr", cfg.Proxy.Addr()).
			Str("plot_upstream", cfg.Proxy.PlotUpstream).
			Str("ingest_upstream", cfg.Proxy.IngestUpstream).
			Msg("Proxy service added")
	}

	logging.Info().Msg("Starting supervisor tree...")
	err = <-tree.ServeBackground(ctx)

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
