// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

// Package buffer provides the fixed-capacity point store shared by ingestion and rendering.
//
// A Buffer is a ring of Points. Appending to a full buffer silently evicts the
// oldest point, so the buffer always holds the most recent Cap() points in
// arrival order. Every point receives a sequence number at append time; the
// renderer uses it to stream only the points a client has not seen yet.
//
// # Usage
//
//	buf, err := buffer.New(1023)
//	if err != nil {
//	    return err
//	}
//	buf.Append(12.34, 56.78)
//	points := buf.Snapshot() // oldest first
//
// # Thread Safety
//
// All methods are safe for concurrent use. A single RWMutex guards the ring;
// critical sections are O(1) for Append and O(n) copies for Snapshot/Since.
package buffer
