// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

/*
Package api provides the HTTP surface of Scopeplot using the Chi router.

Two routers share one Handler and therefore one buffer:

	Ingest server (IngestRoutes)
	  POST /data      {"x": <number>, "y": <number>} -> {"status":"success"}
	  GET  /healthz   {"status":"ok","points":..,"capacity":..}

	Plot server (PlotRoutes)
	  GET /              interactive chart page (go-echarts)
	  GET /ws            WebSocket stream of render frames
	  GET /api/snapshot  full-buffer frame for resynchronization
	  GET /healthz       fill level plus connected client count
	  GET /metrics       Prometheus exposition

# Ingestion

Bodies are capped at ingest.max_body_bytes, decoded with goccy/go-json into
DataPointRequest and checked with go-playground/validator. Any failure (empty
body, invalid JSON, missing or null coordinate, a non-number such as "abc" or
true, trailing data) is answered with 400 and {"status":"error","message":...};
the buffer is not touched. Every valid call appends unconditionally.

# Middleware

Every router applies RequestIDWithLogging, chi's RealIP and Recoverer, and
Prometheus request metrics. The ingest router adds go-chi/cors. On the plot
router go-chi/httprate limits only the page and WebSocket upgrade routes.

# WebSocket origins

plot.allowed_origins controls which browser origins may open /ws: "*"
allows any, an empty list allows only the page's own host. Rejected
upgrades get 403 and a warning log.
*/
package api
