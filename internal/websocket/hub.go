// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

package websocket

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/scopeplot/internal/logging"
	"github.com/tomtom215/scopeplot/internal/metrics"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful path (e.g., SIGTERM).
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline indicates the context deadline was exceeded.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types for WebSocket communication
const (
	MessageTypeFrame = "frame"
	MessageTypePing  = "ping"
	MessageTypePong  = "pong"
)

// Message represents a WebSocket message
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// WelcomeFunc builds the first message a newly registered client receives.
// Returning false sends nothing.
type WelcomeFunc func() (Message, bool)

// Hub maintains the set of active clients and broadcasts messages to them.
// A single goroutine (RunWithContext) owns registration and delivery, so a
// client's welcome message is always queued before any later broadcast.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	welcome    WelcomeFunc
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// SetWelcome installs the function that produces each new client's first
// message. Call before RunWithContext.
func (h *Hub) SetWelcome(fn WelcomeFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.welcome = fn
}

// RunWithContext runs the hub until ctx is done, then closes every client
// and returns ctx.Err().
//
// Selection is prioritised: shutdown first, then client lifecycle events,
// then broadcasts.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	welcome := h.welcome
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	logging.Info().Uint64("client_id", client.id).Int("total_clients", total).Msg("websocket client connected")

	if welcome == nil {
		return
	}
	msg, ok := welcome()
	if !ok {
		return
	}
	payload, err := MarshalMessage(msg)
	if err != nil {
		logging.Error().Err(err).Msg("failed to encode welcome message")
		return
	}
	select {
	case client.send <- payload:
		metrics.WSMessagesSent.Inc()
	default:
		metrics.WSErrors.WithLabelValues("send_buffer_full").Inc()
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	logging.Info().Uint64("client_id", client.id).Int("total_clients", total).Msg("websocket client disconnected")
}

// logGracefulShutdown closes all clients and logs the shutdown. ctx.Err() is
// not logged as an error because cancellation is the expected path.
func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// broadcastToClients encodes message once and queues it for every client in
// ID order. Clients whose send buffer is full are dropped.
func (h *Hub) broadcastToClients(message Message) {
	payload, err := MarshalMessage(message)
	if err != nil {
		logging.Error().Err(err).Str("message_type", message.Type).Msg("failed to encode broadcast message")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.sortedClientsLocked()

	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- payload:
			metrics.WSMessagesSent.Inc()
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
		metrics.WSErrors.WithLabelValues("slow_client").Inc()
		logging.Warn().Uint64("client_id", client.id).Msg("dropping slow websocket client")
	}
	if len(toRemove) > 0 {
		metrics.WSConnections.Set(float64(len(h.clients)))
	}
}

// closeAllClients closes every client in ID order. Called during shutdown.
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.sortedClientsLocked() {
		close(client.send)
		delete(h.clients, client)
	}
	metrics.WSConnections.Set(0)
}

// sortedClientsLocked returns clients ordered by ID. Caller holds h.mu.
func (h *Hub) sortedClientsLocked() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// BroadcastJSON queues a typed message for all connected clients. If the
// broadcast queue is full the message is dropped; the next frame carries
// the state forward.
func (h *Hub) BroadcastJSON(messageType string, data interface{}) {
	select {
	case h.broadcast <- Message{Type: messageType, Data: data}:
	default:
		metrics.WSErrors.WithLabelValues("broadcast_queue_full").Inc()
		logging.Warn().Str("message_type", messageType).Msg("broadcast channel full, dropping message")
	}
}

// BroadcastFrame queues a chart frame for all connected clients.
func (h *Hub) BroadcastFrame(frame interface{}) {
	h.BroadcastJSON(MessageTypeFrame, frame)
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
