package realtime

import (
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cppla/codeshare/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// Client signals.
const (
	SignalJoinPost  = "joinPost"
	SignalLeavePost = "leavePost"
)

// Client is one websocket subscriber.
type Client struct {
	ID string

	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// rooms is guarded by hub.mu.
	rooms map[int64]struct{}
}

func newClient(h *Hub, conn *websocket.Conn, buffer int) *Client {
	return &Client{
		ID:    uuid.NewString(),
		hub:   h,
		conn:  conn,
		send:  make(chan []byte, buffer),
		rooms: make(map[int64]struct{}),
	}
}

// TrySend queues data without blocking. A full queue drops the message for this client only.
// Callers hold hub.mu, so send is never closed underneath them.
func (c *Client) TrySend(data []byte) {
	select {
	case c.send <- data:
	default:
		metrics.BackpressureDrops.WithLabelValues("full").Inc()
		c.hub.logger.Warn("subscriber queue full, dropped event", zap.String("client", c.ID))
	}
}

// ReadPump handles room signals until the connection fails, then unregisters the client.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(deadline(pongWait))
	c.conn.SetPongHandler(func(string) error { return c.conn.SetReadDeadline(deadline(pongWait)) })

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("websocket read failed", zap.String("client", c.ID), zap.Error(err))
			}
			return
		}
		c.handle(raw)
	}
}

type signal struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func (c *Client) handle(raw []byte) {
	var sig signal
	if err := json.Unmarshal(raw, &sig); err != nil {
		c.hub.logger.Debug("ignoring malformed signal", zap.String("client", c.ID), zap.Error(err))
		return
	}
	postID, ok := parsePostID(sig.Data)
	if !ok {
		return
	}
	switch sig.Event {
	case SignalJoinPost:
		c.hub.Join(c, postID)
	case SignalLeavePost:
		c.hub.Leave(c, postID)
	}
}

// parsePostID accepts a post id sent as a JSON number or a numeric string.
func parsePostID(data json.RawMessage) (int64, bool) {
	var id int64
	if err := json.Unmarshal(data, &id); err == nil {
		return id, id > 0
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, id > 0
}

// WritePump drains the send queue to the connection and keeps it alive with pings.
// It is the only writer of data frames, so per-connection order is the queue order.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(deadline(writeWait))
			if !ok {
				// The hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(deadline(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func deadline(d time.Duration) time.Time {
	return time.Now().Add(d)
}
