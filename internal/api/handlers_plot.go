// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

package api

import (
	"bytes"
	"net/http"

	"github.com/tomtom215/scopeplot/internal/logging"
	ws "github.com/tomtom215/scopeplot/internal/websocket"
)

// Page handles GET /, the interactive chart seeded with the current buffer.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	if h.renderer == nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "renderer unavailable", nil)
		return
	}

	var page bytes.Buffer
	if err := h.renderer.Page(&page, h.pageOpts); err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "failed to render page", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := page.WriteTo(w); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to write page")
	}
}

// Snapshot handles GET /api/snapshot: a snapshot frame of the whole buffer,
// used by browsers to resynchronize after a gap in the live stream.
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	if h.renderer == nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "renderer unavailable", nil)
		return
	}
	respondJSON(w, http.StatusOK, h.renderer.SnapshotFrame())
}

// WebSocket handles GET /ws. Origins outside the allow-list get a 403 from
// the upgrader; the page itself still loads.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "live updates unavailable", nil)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	select {
	case h.wsHub.Register <- client:
		client.Start()
	case <-r.Context().Done():
		_ = conn.Close()
	}
}

// PlotHealth handles GET /healthz on the plot server.
func (h *Handler) PlotHealth(w http.ResponseWriter, r *http.Request) {
	var clients *int
	if h.wsHub != nil {
		n := h.wsHub.GetClientCount()
		clients = &n
	}
	respondJSON(w, http.StatusOK, h.health(clients))
}
