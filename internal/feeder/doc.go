// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

/*
Package feeder generates a test signal and posts it to a Scopeplot ingestion
endpoint. It backs the scopefeed command.

Each point is {"x": n, "y": r} where x starts at Config.StartX and grows by
one per point, and r is uniform in [-Amplitude, Amplitude].

# Pacing

A golang.org/x/time/rate limiter with burst 1 spaces sends by
Config.Interval, so a slow server never causes a catch-up burst.

# Circuit Breaker

Sends go through a sony/gobreaker circuit breaker. Network errors and 5xx
responses count as failures; after BreakerThreshold consecutive failures the
breaker opens and sends fail fast with gobreaker.ErrOpenState until
BreakerTimeout passes and a single probe is allowed. A 4xx response returns
ErrRejected but counts as success, since the server is reachable.

Breaker state and results are exported through internal/metrics
(circuit_breaker_state, circuit_breaker_requests_total,
circuit_breaker_state_transitions_total).
*/
package feeder
