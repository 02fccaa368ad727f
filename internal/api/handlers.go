// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

package api

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/scopeplot/internal/buffer"
	"github.com/tomtom215/scopeplot/internal/config"
	"github.com/tomtom215/scopeplot/internal/logging"
	"github.com/tomtom215/scopeplot/internal/metrics"
	"github.com/tomtom215/scopeplot/internal/render"
	ws "github.com/tomtom215/scopeplot/internal/websocket"
)

// defaultMaxBodyBytes caps POST /data bodies when no config is supplied.
const defaultMaxBodyBytes = 4096

// Handler serves the ingest and plot routes. The buffer is shared by both;
// renderer and hub are only needed by the plot routes.
type Handler struct {
	buf      *buffer.Buffer
	renderer *render.Renderer
	wsHub    *ws.Hub
	config   *config.Config
	pageOpts render.PageOptions
	upgrader websocket.Upgrader
}

// NewHandler creates a handler. cfg may be nil, which allows every WebSocket
// origin and uses the default body cap.
func NewHandler(buf *buffer.Buffer, renderer *render.Renderer, hub *ws.Hub, cfg *config.Config) *Handler {
	h := &Handler{
		buf:      buf,
		renderer: renderer,
		wsHub:    hub,
		config:   cfg,
		pageOpts: render.DefaultPageOptions(),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
	return h
}

// SetPageOptions overrides how the chart page loads assets and reaches the
// live channel.
func (h *Handler) SetPageOptions(po render.PageOptions) {
	h.pageOpts = po
}

func (h *Handler) maxBodyBytes() int64 {
	if h.config == nil || h.config.Ingest.MaxBodyBytes <= 0 {
		return defaultMaxBodyBytes
	}
	return h.config.Ingest.MaxBodyBytes
}

// checkWebSocketOrigin applies the plot origin allow-list. Requests without
// an Origin header come from non-browser clients and are allowed.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || h.config == nil || h.config.AllowsAnyOrigin() {
		return true
	}

	if originAllowed(origin, r.Host, h.config.Plot.AllowedOrigins) {
		return true
	}

	metrics.WSOriginRejections.Inc()
	logging.Ctx(r.Context()).Warn().
		Str("origin", logging.SanitizeValue(origin)).
		Str("host", logging.SanitizeValue(r.Host)).
		Msg("WebSocket connection rejected from unauthorized origin")
	return false
}

// originAllowed reports whether origin may open the live channel. An entry
// matches a full origin ("https://scope.example:8080") or its host part
// ("scope.example:8080"). With no entries only the request's own host passes.
func originAllowed(origin, host string, allowed []string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}

	if len(allowed) == 0 {
		return strings.EqualFold(u.Host, host)
	}

	for _, a := range allowed {
		a = strings.TrimSuffix(strings.TrimSpace(a), "/")
		if a == "*" || strings.EqualFold(a, origin) || strings.EqualFold(a, u.Host) {
			return true
		}
	}
	return false
}
