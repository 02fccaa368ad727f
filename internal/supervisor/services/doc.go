// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

/*
Package services provides suture.Service wrappers for Scopeplot components.

Each wrapper translates a component's lifecycle into suture's context-aware
Serve pattern and names itself via fmt.Stringer for supervisor logs.

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server (plot, ingest or proxy listener)
  - Graceful Shutdown bounded by a timeout on cancellation
  - Listener failures are returned so the supervisor restarts the service

WebSocket Hub (WebSocketHubService):
  - Runs websocket.Hub.RunWithContext
  - Closes every client on shutdown

Renderer (RendererService):
  - Runs render.Renderer.Run, the single redraw goroutine
  - The cursor lives in the Renderer, so a restart does not resend old points

# Usage

	tree.AddRenderService(services.NewWebSocketHubService(hub))
	tree.AddRenderService(services.NewRendererService(renderer))
	tree.AddAPIService(services.NewHTTPServerService("plot-http", plotServer, cfg.Server.ShutdownTimeout))
*/
package services
