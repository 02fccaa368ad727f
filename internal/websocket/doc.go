// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

/*
Package websocket provides the live-update channel between the renderer and
the browsers showing the chart.

It uses gorilla/websocket with a hub-client architecture:

  - Hub: owns the client set and fans out broadcasts. Runs as a suture
    service through RunWithContext.
  - Client: one connection with a readPump and a writePump goroutine.
  - Message: {"type": ..., "data": ...} envelope.

Message Types:

  - frame: a chart frame (snapshot or append) produced by internal/render
  - ping / pong: application-level keepalive initiated by the browser

Protocol-level pings are also sent every 54s; a client that stops answering
for 60s is dropped.

Late joiners: SetWelcome installs a function the hub calls right after a
client registers. The renderer uses it to send a snapshot frame, so a new
browser immediately shows the current buffer and then applies appends.

Usage:

	hub := websocket.NewHub()
	hub.SetWelcome(renderer.Welcome)
	go hub.RunWithContext(ctx)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
	    return
	}
	client := websocket.NewClient(hub, conn)
	hub.Register <- client
	client.Start()

Each broadcast is encoded once with goccy/go-json and the same bytes are
queued for every client. A client whose 256-slot queue is full is
disconnected rather than allowed to stall the others.
*/
package websocket
