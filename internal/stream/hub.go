// Package stream serves session snapshots to websocket spectators and
// collects their steering requests.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/gorilla/websocket"

	"github.com/chungwong/snakey/internal/grid"
	"github.com/chungwong/snakey/internal/sim"
)

const (
	// Path is where the websocket endpoint is mounted.
	Path = "/ws"

	writeWait    = 2 * time.Second
	clientBuffer = 16
	intentBuffer = 64
)

// ServerMessage is sent to every client.
type ServerMessage struct {
	Type     string        `json:"type"`
	Snapshot *sim.Snapshot `json:"snapshot,omitempty"`
}

// ClientMessage is a steering request from a client.
type ClientMessage struct {
	Action string `json:"action"`
}

// ParseAction maps a client action to an intent.
func ParseAction(action string) (sim.Intent, bool) {
	dir, err := grid.ParseDirection(action)
	if err != nil {
		return sim.IntentNone, false
	}
	return sim.IntentFor(dir), true
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans snapshots out to connected clients. Intents received from clients
// are delivered on a channel so the scheduler can sample them on its own goroutine.
type Hub struct {
	upgrader websocket.Upgrader
	log      logr.Logger
	intents  chan sim.Intent

	mu      sync.Mutex
	clients map[*client]struct{}
	latest  []byte
	closed  bool
}

// NewHub creates an empty hub.
func NewHub(logger logr.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log:     logger.WithName("stream"),
		intents: make(chan sim.Intent, intentBuffer),
		clients: make(map[*client]struct{}),
	}
}

// Intents returns the channel of steering requests from clients.
func (h *Hub) Intents() <-chan sim.Intent {
	return h.intents
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends snap to every client. Clients that cannot keep up miss the frame.
func (h *Hub) Broadcast(snap sim.Snapshot) error {
	data, err := json.Marshal(ServerMessage{Type: "state", Snapshot: &snap})
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = data
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
	return nil
}

// ServeHTTP upgrades the request and serves the client until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error(err, "upgrade failed", "remote", r.RemoteAddr)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}
	if !h.register(c) {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}
	h.log.V(1).Info("client connected", "remote", r.RemoteAddr)

	go h.writeLoop(c)
	h.readLoop(c)

	h.unregister(c)
	h.log.V(1).Info("client disconnected", "remote", r.RemoteAddr)
}

// Handler returns a mux serving the websocket endpoint.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(Path, h)
	return mux
}

// Close disconnects every client and refuses new ones. The intent channel stays open.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	if h.latest != nil {
		c.send <- h.latest
	}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) readLoop(c *client) {
	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Info("read error", "err", err.Error())
			}
			return
		}

		intent, ok := ParseAction(msg.Action)
		if !ok {
			h.log.V(2).Info("ignoring unknown action", "action", msg.Action)
			continue
		}
		select {
		case h.intents <- intent:
		default:
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()

	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// Serve runs an HTTP server for hub on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, hub *Hub) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           hub.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("stream server: %w", err)
	case <-ctx.Done():
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
