// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

// Package proxy multiplexes one public port across the plot and ingest
// servers. /data and /data/* go to ingest; every other path, including the
// /ws upgrade, goes to plot. The inbound Host header is preserved and
// X-Forwarded-* headers are added. Upstream failures are answered with
// 502 {"status":"error","message":"upstream unavailable"}.
package proxy
