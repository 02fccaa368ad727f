// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry via promauto and are
served by the plot server at /metrics:

	curl http://localhost:5001/metrics

# Available Metrics

HTTP Metrics:
  - api_requests_total: requests by method, route pattern and status code
  - api_request_duration_seconds: request latency by method and route pattern
  - api_active_requests: in-flight requests
  - api_rate_limit_hits_total: requests rejected by httprate, by route

Ingestion and Buffer Metrics:
  - ingest_points_total: POST /data outcomes (result=accepted|rejected)
  - buffer_points: current number of points held
  - buffer_capacity: configured capacity
  - buffer_evictions_total: points dropped because the buffer was full

Render Metrics:
  - render_ticks_total: ticks by outcome (frame=snapshot|append|idle)
  - render_tick_duration_seconds: time spent building and broadcasting a frame

WebSocket Metrics:
  - websocket_connections: connected browsers
  - websocket_messages_sent_total
  - websocket_errors_total: by error_type
  - websocket_origin_rejections_total

Proxy Metrics:
  - proxy_requests_total: by upstream (plot|ingest)
  - proxy_errors_total: by upstream

Circuit Breaker Metrics (scopefeed):
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: by result
  - circuit_breaker_state_transitions_total
*/
package metrics
