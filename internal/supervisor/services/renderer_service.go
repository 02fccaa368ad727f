// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

package services

import (
	"context"
)

// Runner is satisfied by *render.Renderer.
type Runner interface {
	Run(ctx context.Context) error
}

// RendererService runs the periodic redraw loop under the supervisor. A
// restarted renderer keeps its cursor, so browsers only see new points.
type RendererService struct {
	renderer Runner
	name     string
}

// NewRendererService wraps renderer.
func NewRendererService(renderer Runner) *RendererService {
	return &RendererService{
		renderer: renderer,
		name:     "renderer",
	}
}

// Serve implements suture.Service.
func (r *RendererService) Serve(ctx context.Context) error {
	return r.renderer.Run(ctx)
}

// String implements fmt.Stringer for suture's logs.
func (r *RendererService) String() string {
	return r.name
}
