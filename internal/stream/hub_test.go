package stream

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/gorilla/websocket"

	"github.com/chungwong/snakey/internal/sim"
	"github.com/chungwong/snakey/internal/telemetry"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + Path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("Clients() = %d, want %d", hub.Clients(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		action string
		want   sim.Intent
		ok     bool
	}{
		{"up", sim.IntentUp, true},
		{"down", sim.IntentDown, true},
		{"left", sim.IntentLeft, true},
		{"right", sim.IntentRight, true},
		{"pause", sim.IntentNone, false},
		{"", sim.IntentNone, false},
	}

	for _, tt := range tests {
		got, ok := ParseAction(tt.action)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseAction(%q) = %v, %v, want %v, %v", tt.action, got, ok, tt.want, tt.ok)
		}
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(logr.Discard())
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	conn := dial(t, srv)
	waitForClients(t, hub, 1)

	s := sim.NewSession(sim.DefaultConfig(), sim.WithSessionID("stream-test"), sim.WithTracer(telemetry.NoopTracer()))
	if err := hub.Broadcast(s.Snapshot()); err != nil {
		t.Fatalf("Broadcast() error: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg ServerMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if msg.Type != "state" || msg.Snapshot == nil {
		t.Fatalf("message = %+v, want a state snapshot", msg)
	}
	if msg.Snapshot.SessionID != "stream-test" {
		t.Errorf("SessionID = %q, want %q", msg.Snapshot.SessionID, "stream-test")
	}
	head, ok := msg.Snapshot.Head()
	if !ok || head.Position.X != 3 || head.Position.Y != 3 {
		t.Errorf("head = %+v, want (3,3)", head)
	}
}

func TestHubSendsLatestOnConnect(t *testing.T) {
	hub := NewHub(logr.Discard())
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	s := sim.NewSession(sim.DefaultConfig(), sim.WithTracer(telemetry.NoopTracer()))
	if err := hub.Broadcast(s.Snapshot()); err != nil {
		t.Fatalf("Broadcast() error: %v", err)
	}

	conn := dial(t, srv)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg ServerMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if msg.Snapshot == nil || len(msg.Snapshot.Sprites) != 2 {
		t.Errorf("late joiner got %+v, want the latest snapshot", msg)
	}
}

func TestHubIntents(t *testing.T) {
	hub := NewHub(logr.Discard())
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	conn := dial(t, srv)
	for _, action := range []string{"jump", "left", "down"} {
		if err := conn.WriteJSON(ClientMessage{Action: action}); err != nil {
			t.Fatalf("WriteJSON() error: %v", err)
		}
	}

	for _, want := range []sim.Intent{sim.IntentLeft, sim.IntentDown} {
		select {
		case got := <-hub.Intents():
			if got != want {
				t.Errorf("intent = %v, want %v", got, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %v", want)
		}
	}
}

func TestHubClose(t *testing.T) {
	hub := NewHub(logr.Discard())
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	conn := dial(t, srv)
	waitForClients(t, hub, 1)

	hub.Close()
	if hub.Clients() != 0 {
		t.Errorf("Clients() after Close = %d, want 0", hub.Clients())
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("ReadMessage() after Close should fail")
	}
}
