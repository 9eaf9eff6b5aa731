package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/codeshare/models"
)

type received struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func startHub(t *testing.T, opts ...Option) (*Hub, string) {
	t.Helper()
	hub := NewHub(opts...)
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(func() {
		_ = hub.Shutdown(context.Background())
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, hub *Hub, url string) *websocket.Conn {
	t.Helper()
	before := hub.Count()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.Eventually(t, func() bool { return hub.Count() > before }, time.Second, 5*time.Millisecond)
	return conn
}

func signalPost(t *testing.T, conn *websocket.Conn, event string, postID any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]any{"event": event, "data": postID}))
}

func read(t *testing.T, conn *websocket.Conn) received {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg received
	require.NoError(t, json.Unmarshal(raw, &msg))
	return msg
}

func TestHub_GlobalEventReachesEveryone(t *testing.T) {
	hub, url := startHub(t)
	a := dial(t, hub, url)
	b := dial(t, hub, url)

	hub.Publish(models.Event{Name: models.EventDeletePost, Payload: int64(7)})

	for _, conn := range []*websocket.Conn{a, b} {
		msg := read(t, conn)
		assert.Equal(t, models.EventDeletePost, msg.Event)
		assert.JSONEq(t, `7`, string(msg.Data))
	}
}

func TestHub_RoomEventOnlyReachesMembers(t *testing.T) {
	hub, url := startHub(t)
	member := dial(t, hub, url)
	outsider := dial(t, hub, url)

	signalPost(t, member, SignalJoinPost, 3)
	require.Eventually(t, func() bool { return hub.RoomSize(3) == 1 }, time.Second, 5*time.Millisecond)

	hub.Publish(models.Event{
		Name:    models.EventNewComment,
		Room:    3,
		Payload: models.CommentEvent{PostID: 3, Comment: models.Comment{ID: 1, PostID: 3, Text: "hi"}},
	})
	hub.Publish(models.Event{Name: models.EventClearAllPosts})

	msg := read(t, member)
	assert.Equal(t, models.EventNewComment, msg.Event)
	var payload models.CommentEvent
	require.NoError(t, json.Unmarshal(msg.Data, &payload))
	assert.Equal(t, int64(3), payload.PostID)
	assert.Equal(t, "hi", payload.Comment.Text)
	assert.Equal(t, models.EventClearAllPosts, read(t, member).Event)

	// The outsider's first frame is the global one; the room event never arrived.
	msg = read(t, outsider)
	assert.Equal(t, models.EventClearAllPosts, msg.Event)
	assert.Equal(t, "null", string(msg.Data))
}

func TestHub_LeaveAndDisconnectDropMembership(t *testing.T) {
	hub, url := startHub(t)
	a := dial(t, hub, url)
	b := dial(t, hub, url)

	signalPost(t, a, SignalJoinPost, "5")
	signalPost(t, b, SignalJoinPost, 5)
	require.Eventually(t, func() bool { return hub.RoomSize(5) == 2 }, time.Second, 5*time.Millisecond)

	signalPost(t, a, SignalLeavePost, 5)
	require.Eventually(t, func() bool { return hub.RoomSize(5) == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, b.Close())
	require.Eventually(t, func() bool { return hub.RoomSize(5) == 0 && hub.Count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestHub_IgnoresMalformedSignals(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, hub, url)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	signalPost(t, conn, SignalJoinPost, "abc")
	signalPost(t, conn, SignalJoinPost, -1)
	signalPost(t, conn, SignalJoinPost, 9)
	require.Eventually(t, func() bool { return hub.RoomSize(9) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, hub.Count())
}

func TestHub_FullQueueDropsForThatClientOnly(t *testing.T) {
	hub := NewHub(WithSendBuffer(1))
	slow := &Client{ID: "slow", hub: hub, send: make(chan []byte, 1), rooms: map[int64]struct{}{}}
	fast := &Client{ID: "fast", hub: hub, send: make(chan []byte, 8), rooms: map[int64]struct{}{}}
	hub.clients[slow] = struct{}{}
	hub.clients[fast] = struct{}{}

	hub.BroadcastGlobal("a", nil)
	hub.BroadcastGlobal("b", nil)

	assert.Len(t, slow.send, 1)
	assert.Len(t, fast.send, 2)
}

func TestHub_ShutdownClosesSubscribers(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, hub, url)

	require.NoError(t, hub.Shutdown(context.Background()))
	assert.Zero(t, hub.Count())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), err.Error())

	_, err = hub.Register(nil)
	assert.ErrorIs(t, err, ErrHubClosed)
}

func TestOriginChecker(t *testing.T) {
	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "http://board.local/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	wildcard := originChecker([]string{"*"})
	assert.True(t, wildcard(req("https://evil.example")))

	listed := originChecker([]string{"https://board.example"})
	assert.True(t, listed(req("https://board.example")))
	assert.True(t, listed(req("")))
	assert.False(t, listed(req("https://evil.example")))

	sameHost := originChecker(nil)
	assert.True(t, sameHost(req("http://board.local")))
	assert.False(t, sameHost(req("http://other.local")))
}
