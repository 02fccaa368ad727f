// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

// Package render turns the shared buffer into chart frames and the chart page.
//
// A Renderer keeps a cursor (the last sequence number it published). Each
// tick it asks the buffer for newer points and broadcasts one Frame:
//
//   - "append" frames carry only the new points; the browser extends its
//     series and trims it to Capacity.
//   - "snapshot" frames carry the whole buffer; the browser replaces its
//     series. They are sent on the first tick, after the buffer evicted
//     points the renderer never published, and to every newly connected
//     browser.
//
// Ticks with nothing new broadcast nothing. Frames carry FirstSeq and Seq so
// the browser can drop points it already has.
//
// Page renders the HTML page with go-echarts: a dark line chart seeded with
// the current snapshot plus a small script that follows /ws.
package render
