// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

/*
Package supervisor provides process supervision for Scopeplot using suture v4.

Every long-running goroutine in the server runs as a suture.Service inside a
two-layer tree, giving automatic restart with backoff and ordered shutdown:

	RootSupervisor ("scopeplot")
	├── RenderSupervisor ("render-layer")
	│   ├── WebSocketHubService
	│   └── RendererService
	└── APISupervisor ("api-layer")
	    ├── HTTPServerService ("plot-http")
	    ├── HTTPServerService ("ingest-http")
	    └── HTTPServerService ("proxy-http", if PROXY_ENABLED)

A listener that fails to bind is restarted without disturbing the renderer,
and a renderer panic never drops an HTTP connection. The point buffer is
created by main and shared, so no restart loses stored samples.

# Configuration

TreeConfig mirrors suture.Spec. Zero fields take DefaultTreeConfig values:

	FailureThreshold: 5
	FailureDecay:     30 (seconds)
	FailureBackoff:   15s
	ShutdownTimeout:  10s

# Logging

Supervisor events (service panics, restarts, backoff) are emitted through
sutureslog onto the slog.Logger passed to NewSupervisorTree, which main
bridges to zerolog via logging.NewSlogLogger.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddRenderService(services.NewRendererService(renderer))
	tree.AddAPIService(services.NewHTTPServerService("plot-http", plotServer, cfg.Server.ShutdownTimeout))
	err = tree.Serve(ctx)
*/
package supervisor
