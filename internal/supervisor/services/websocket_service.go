// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

package services

import (
	"context"
)

// ContextHub is satisfied by *websocket.Hub.
type ContextHub interface {
	RunWithContext(ctx context.Context) error
}

// WebSocketHubService runs the live-update hub under the supervisor. The hub
// closes every client when ctx is cancelled.
type WebSocketHubService struct {
	hub  ContextHub
	name string
}

// NewWebSocketHubService wraps hub.
func NewWebSocketHubService(hub ContextHub) *WebSocketHubService {
	return &WebSocketHubService{
		hub:  hub,
		name: "websocket-hub",
	}
}

// Serve implements suture.Service.
func (w *WebSocketHubService) Serve(ctx context.Context) error {
	return w.hub.RunWithContext(ctx)
}

// String implements fmt.Stringer for suture's logs.
func (w *WebSocketHubService) String() string {
	return w.name
}
