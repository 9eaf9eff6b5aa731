// Package realtime pushes board events to websocket subscribers, either to everyone or to
// the subscribers currently viewing one post.
package realtime

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cppla/codeshare/metrics"
	"github.com/cppla/codeshare/models"
	"github.com/cppla/codeshare/utils"
)

const (
	scopeGlobal = "global"
	scopeRoom   = "room"

	defaultSendBuffer = 256
)

// ErrHubClosed is returned by Register after Shutdown.
var ErrHubClosed = errors.New("realtime: hub is shut down")

// message is the wire frame for both directions.
type message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub tracks connected clients and their post rooms.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	rooms   map[int64]map[*Client]struct{}
	closed  bool

	upgrader   websocket.Upgrader
	sendBuffer int
	logger     *zap.Logger
}

// Option configures a Hub.
type Option func(*Hub)

// WithAllowedOrigins restricts websocket upgrades to the given origins. "*" allows any.
func WithAllowedOrigins(origins []string) Option {
	return func(h *Hub) { h.upgrader.CheckOrigin = originChecker(origins) }
}

// WithSendBuffer sets the per-client outbound queue length.
func WithSendBuffer(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.sendBuffer = n
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(l *zap.Logger) Option {
	return func(h *Hub) { h.logger = l }
}

// NewHub returns an empty hub.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		clients:    make(map[*Client]struct{}),
		rooms:      make(map[int64]map[*Client]struct{}),
		sendBuffer: defaultSendBuffer,
		logger:     utils.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(nil),
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeWS upgrades the request and runs the client until it disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	client, err := h.Register(conn)
	if err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()))
		_ = conn.Close()
		return
	}
	go client.WritePump()
	client.ReadPump()
}

// Register adds a connection to the hub.
func (h *Hub) Register(conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrHubClosed
	}
	c := newClient(h, conn, h.sendBuffer)
	h.clients[c] = struct{}{}
	metrics.Subscribers.Inc()
	h.logger.Debug("subscriber connected", zap.String("client", c.ID))
	return c, nil
}

// Unregister removes c from the hub and all its rooms. It is safe to call more than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	for postID := range c.rooms {
		h.leaveLocked(c, postID)
	}
	delete(h.clients, c)
	close(c.send)
	metrics.Subscribers.Dec()
	h.logger.Debug("subscriber disconnected", zap.String("client", c.ID))
}

// Join subscribes c to the room of postID.
func (h *Hub) Join(c *Client, postID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	if _, ok := c.rooms[postID]; ok {
		return
	}
	room, ok := h.rooms[postID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[postID] = room
	}
	room[c] = struct{}{}
	c.rooms[postID] = struct{}{}
	metrics.RoomMemberships.Inc()
}

// Leave unsubscribes c from the room of postID.
func (h *Hub) Leave(c *Client, postID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c, postID)
}

func (h *Hub) leaveLocked(c *Client, postID int64) {
	if _, ok := c.rooms[postID]; !ok {
		return
	}
	delete(c.rooms, postID)
	if room, ok := h.rooms[postID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, postID)
		}
	}
	metrics.RoomMemberships.Dec()
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RoomSize returns the number of clients in the room of postID.
func (h *Hub) RoomSize(postID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[postID])
}

// Publish routes a committed event: room-scoped events go to their room, others to everyone.
func (h *Hub) Publish(evt models.Event) {
	if evt.Room != 0 {
		h.BroadcastToRoom(evt.Room, evt.Name, evt.Payload)
		return
	}
	h.BroadcastGlobal(evt.Name, evt.Payload)
}

// BroadcastGlobal sends an event to every connected client.
func (h *Hub) BroadcastGlobal(event string, payload any) {
	data, ok := h.encode(event, payload)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.TrySend(data)
	}
	metrics.EventsBroadcast.WithLabelValues(event, scopeGlobal).Inc()
}

// BroadcastToRoom sends an event to the clients viewing postID.
func (h *Hub) BroadcastToRoom(postID int64, event string, payload any) {
	data, ok := h.encode(event, payload)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[postID] {
		c.TrySend(data)
	}
	metrics.EventsBroadcast.WithLabelValues(event, scopeRoom).Inc()
}

func (h *Hub) encode(event string, payload any) ([]byte, bool) {
	data, err := json.Marshal(message{Event: event, Data: payload})
	if err != nil {
		h.logger.Error("encode realtime event", zap.String("event", event), zap.Error(err))
		return nil, false
	}
	return data, true
}

// Shutdown sends a close frame to every client and disconnects it. Later registrations fail.
func (h *Hub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true

	var errs []error
	for c := range h.clients {
		err := c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			deadline(writeWait))
		if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
			errs = append(errs, err)
		}
		if err := c.conn.Close(); err != nil {
			errs = append(errs, err)
		}
		h.removeLocked(c)
	}
	h.logger.Info("realtime hub stopped")
	return errors.Join(errs...)
}

// originChecker allows requests without an Origin header and those whose origin is listed.
func originChecker(origins []string) func(*http.Request) bool {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if len(allowed) == 0 {
			return origin == "http://"+r.Host || origin == "https://"+r.Host
		}
		_, ok := allowed[origin]
		return ok
	}
}
