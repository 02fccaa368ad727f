// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

package websocket

import (
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/scopeplot/internal/logging"
	"github.com/tomtom215/scopeplot/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024 // browsers only send small ping messages
	sendBufferSize = 256
)

// pongPayload is the encoded reply to an application-level ping.
var pongPayload = []byte(`{"type":"pong","data":null}`)

// clientIDCounter hands out monotonically increasing client IDs so that
// broadcast order is stable.
var clientIDCounter atomic.Uint64

// Client is a middleman between the websocket connection and the hub.
// send carries pre-encoded JSON text frames and is closed only by the hub;
// readPump asks writePump for pongs through pong, which is never closed.
type Client struct {
	id   uint64
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	pong chan struct{}
}

// NewClient creates a new Client with a unique ID
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:   clientIDCounter.Add(1),
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		pong: make(chan struct{}, 1),
	}
}

// ID returns the client's unique identifier
func (c *Client) ID() uint64 {
	return c.id
}

// readPump reads client messages until the connection fails, answering
// application-level pings.
func (c *Client) readPump() {
	defer func() {
		// The hub may already be stopped during shutdown.
		select {
		case c.hub.Unregister <- c:
		case <-time.After(writeWait):
		}
		_ = c.conn.Close() // best-effort cleanup
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				metrics.WSErrors.WithLabelValues("unexpected_close").Inc()
				logging.Warn().Err(err).Uint64("client_id", c.id).Msg("unexpected websocket close error")
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			metrics.WSErrors.WithLabelValues("invalid_message").Inc()
			continue
		}

		if msg.Type == MessageTypePing {
			select {
			case c.pong <- struct{}{}:
			default:
			}
		}
	}
}

// writePump writes queued messages and keepalive pings to the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // best-effort cleanup
	}()

	for {
		select {
		case payload, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline")
				return
			}

			if !ok {
				// The hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				metrics.WSErrors.WithLabelValues("write_failed").Inc()
				logging.Debug().Err(err).Uint64("client_id", c.id).Msg("websocket write failed")
				return
			}

		case <-c.pong:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, pongPayload); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline for ping")
				return
			}

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Start begins reading and writing for the client
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}
