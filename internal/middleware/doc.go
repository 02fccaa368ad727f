// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

/*
Package middleware provides HTTP middleware components shared by the plot and
ingestion routers.

Key Components:

  - PrometheusMetrics: request count, latency and in-flight gauge, labelled by
    the chi route pattern so that path parameters do not explode cardinality
  - Compression: gzip for the chart page and snapshot JSON

Both are written as http.HandlerFunc decorators and adapted to chi with a
small shim in internal/api:

	r.Use(chiMiddleware(middleware.PrometheusMetrics))
	r.With(chiMiddleware(middleware.Compression)).Get("/", h.Page)

The metrics writer forwards Hijack and Flush, so it is safe in front of the
WebSocket upgrade route. Compression skips upgrade requests itself.
*/
package middleware
