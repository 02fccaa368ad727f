// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/scopeplot/internal/middleware"
)

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Router builds the chi routers for the ingest and plot servers.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. mw may be nil for defaults.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// baseRouter applies the middleware every server shares.
func baseRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)
	return r
}

// IngestRoutes returns the ingest server handler:
//
//	POST /data     append one point
//	GET  /healthz  buffer fill level
//
// Ingestion is never rate limited. CORS lets browser-based producers post.
func (router *Router) IngestRoutes() http.Handler {
	r := baseRouter()
	r.Use(router.chiMiddleware.CORS())
	r.Use(chiMiddleware(middleware.PrometheusMetrics))

	r.Post("/data", router.handler.IngestData)
	r.Get("/healthz", router.handler.IngestHealth)

	return r
}

// PlotRoutes returns the plot server handler:
//
//	GET /              chart page
//	GET /ws            live frame channel
//	GET /api/snapshot  full-buffer frame
//	GET /healthz       buffer fill level and client count
//	GET /metrics       Prometheus exposition
func (router *Router) PlotRoutes() http.Handler {
	r := baseRouter()
	r.Use(chiMiddleware(middleware.PrometheusMetrics))

	r.Get("/healthz", router.handler.PlotHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.With(APISecurityHeaders(), NoStore(), chiMiddleware(middleware.Compression)).
			Get("/", router.handler.Page)
		r.Get("/ws", router.handler.WebSocket)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(NoStore())
		r.Use(chiMiddleware(middleware.Compression))
		r.Get("/snapshot", router.handler.Snapshot)
	})

	return r
}
