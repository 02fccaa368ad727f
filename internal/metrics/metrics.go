// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Ingestion Metrics
	IngestPoints = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_points_total",
			Help: "Total number of points posted to the ingestion endpoint",
		},
		[]string{"result"}, // accepted, rejected
	)

	// Buffer Metrics
	BufferPoints = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "buffer_points",
			Help: "Current number of points held in the shared buffer",
		},
	)

	BufferCapacity = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "buffer_capacity",
			Help: "Configured capacity of the shared buffer",
		},
	)

	BufferEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "buffer_evictions_total",
			Help: "Total number of points evicted because the buffer was full",
		},
	)

	// Render Metrics
	RenderTicks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "render_ticks_total",
			Help: "Total number of renderer ticks by frame kind",
		},
		[]string{"frame"}, // snapshot, append, idle
	)

	RenderTickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "render_tick_duration_seconds",
			Help:    "Time spent building and broadcasting one frame",
			Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05},
		},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	WSOriginRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_origin_rejections_total",
			Help: "Total number of WebSocket upgrades refused by the origin check",
		},
	)

	// Proxy Metrics
	ProxyRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proxy_requests_total",
			Help: "Total number of requests forwarded by the reverse proxy",
		},
		[]string{"upstream"},
	)

	ProxyErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proxy_errors_total",
			Help: "Total number of reverse proxy upstream failures",
		},
		[]string{"upstream"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordIngest records the outcome of one POST /data call.
func RecordIngest(accepted bool) {
	if accepted {
		IngestPoints.WithLabelValues("accepted").Inc()
		return
	}
	IngestPoints.WithLabelValues("rejected").Inc()
}

// RecordAppend updates buffer gauges after an append.
func RecordAppend(length int, evicted bool) {
	BufferPoints.Set(float64(length))
	if evicted {
		BufferEvictions.Inc()
	}
}

// RecordRenderTick records one renderer tick. kind is "snapshot", "append" or "idle".
func RecordRenderTick(kind string, duration time.Duration) {
	RenderTicks.WithLabelValues(kind).Inc()
	RenderTickDuration.Observe(duration.Seconds())
}

// RecordProxy records a forwarded request and, when failed is set, an upstream failure.
func RecordProxy(upstream string, failed bool) {
	if failed {
		ProxyErrors.WithLabelValues(upstream).Inc()
		return
	}
	ProxyRequests.WithLabelValues(upstream).Inc()
}

// Circuit breaker state values for CircuitBreakerState.
const (
	BreakerClosed   = 0
	BreakerHalfOpen = 1
	BreakerOpen     = 2
)

// RecordBreakerTransition records a state change of the named breaker.
func RecordBreakerTransition(name, from, to string, state int) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}
