// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// serveHub upgrades every request and registers the connection with hub.
func serveHub(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(hub, conn)
		hub.Register <- client
		client.Start()
	}))
	t.Cleanup(server.Close)
	return server
}

func dialWebSocket(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("Failed to dial websocket: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return msg
}

func TestNewClient(t *testing.T) {
	hub := NewHub()
	c1 := NewClient(hub, nil)
	c2 := NewClient(hub, nil)

	if c1.hub != hub {
		t.Error("client hub not set")
	}
	if cap(c1.send) != sendBufferSize {
		t.Errorf("send buffer = %d, want %d", cap(c1.send), sendBufferSize)
	}
	if c2.ID() <= c1.ID() {
		t.Errorf("client IDs not increasing: %d then %d", c1.ID(), c2.ID())
	}
}

func TestClient_WelcomeAndBroadcast(t *testing.T) {
	hub := NewHub()
	hub.SetWelcome(func() (Message, bool) {
		return Message{Type: MessageTypeFrame, Data: map[string]string{"kind": "snapshot"}}, true
	})
	startHub(t, hub)
	server := serveHub(t, hub)

	conn := dialWebSocket(t, server)

	welcome := readMessage(t, conn)
	if welcome.Type != MessageTypeFrame {
		t.Fatalf("welcome type = %q, want frame", welcome.Type)
	}

	waitForClients(t, hub, 1)
	hub.BroadcastFrame(map[string]string{"kind": "append"})

	msg := readMessage(t, conn)
	data, ok := msg.Data.(map[string]interface{})
	if !ok || data["kind"] != "append" {
		t.Errorf("broadcast data = %#v", msg.Data)
	}
}

func TestClient_PingPong(t *testing.T) {
	hub := NewHub()
	startHub(t, hub)
	server := serveHub(t, hub)

	conn := dialWebSocket(t, server)
	if err := conn.WriteJSON(Message{Type: MessageTypePing}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	if msg := readMessage(t, conn); msg.Type != MessageTypePong {
		t.Errorf("reply type = %q, want pong", msg.Type)
	}
}

func TestClient_IgnoresGarbage(t *testing.T) {
	hub := NewHub()
	startHub(t, hub)
	server := serveHub(t, hub)

	conn := dialWebSocket(t, server)
	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}
	if err := conn.WriteJSON(Message{Type: MessageTypePing}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	if msg := readMessage(t, conn); msg.Type != MessageTypePong {
		t.Errorf("reply type = %q, want pong", msg.Type)
	}
}

func TestClient_DisconnectUnregisters(t *testing.T) {
	hub := NewHub()
	startHub(t, hub)
	server := serveHub(t, hub)

	conn := dialWebSocket(t, server)
	waitForClients(t, hub, 1)

	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = conn.Close()

	waitForClients(t, hub, 0)
}

func TestConstants(t *testing.T) {
	if pingPeriod >= pongWait {
		t.Errorf("pingPeriod %v must be shorter than pongWait %v", pingPeriod, pongWait)
	}
	if maxMessageSize <= 0 {
		t.Error("maxMessageSize must be positive")
	}
}
