package client

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webmajiang/mjnet/pkg/protocol"
)

// echoTableServer answers every join_room with a join_room_res followed by
// a text frame and a sync_state.
func echoTableServer(t *testing.T) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	reg := protocol.DefaultRegistry()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			env, err := protocol.DecodeEnvelope(data)
			if err != nil || protocol.Action(env.GetAction()) != protocol.ActionJoinRoom {
				continue
			}
			var req protocol.JoinRoomReq
			if err := protocol.DefaultCodec.Unmarshal(env.GetData(), &req); err != nil {
				continue
			}

			res, _ := encodeServerFrame(reg, protocol.ActionJoinRoomRes, &protocol.JoinRoomRes{Success: protocol.Bool(true)})
			conn.WriteMessage(websocket.BinaryMessage, res)
			conn.WriteMessage(websocket.TextMessage, []byte("not a frame"))
			state, _ := encodeServerFrame(reg, protocol.ActionSyncState, &protocol.SyncStateData{
				RoomID:         req.RoomID,
				RemainingTiles: protocol.Int32(123),
				Players: []*protocol.PlayerInfo{
					{ID: req.PlayerID, Seat: protocol.Int32(0), HandTiles: []int32{1, 2, 3}},
				},
			})
			conn.WriteMessage(websocket.BinaryMessage, state)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// encodeServerFrame frames an inbound payload the way the server does.
func encodeServerFrame(reg *protocol.Registry, action protocol.Action, payload protocol.Message) ([]byte, error) {
	data, err := reg.Codec().Marshal(payload)
	if err != nil {
		return nil, err
	}
	return protocol.EncodeEnvelope(protocol.NewEnvelope(string(action), data))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWebSocketRoundTrip(t *testing.T) {
	srv := echoTableServer(t)
	m := New(WithLogger(discardLogger()))

	connected := make(chan struct{}, 1)
	states := make(chan *protocol.SyncStateData, 1)
	closed := make(chan int, 1)
	var mu sync.Mutex
	var actions []protocol.Action

	m.OnConnected(func() { connected <- struct{}{} })
	m.OnMessage(func(action protocol.Action, _ protocol.Payload) {
		mu.Lock()
		actions = append(actions, action)
		mu.Unlock()
	})
	On(m, protocol.ActionSyncState, func(s *protocol.SyncStateData) { states <- s })
	m.OnDisconnected(func(code int, _ string) { closed <- code })

	m.Connect(wsURL(srv))
	select {
	case <-connected:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for connection")
	}
	require.Equal(t, StateOpen, m.State())

	require.NoError(t, m.Send(protocol.ActionJoinRoom, &protocol.JoinRoomReq{
		RoomID:   protocol.String("room-1"),
		PlayerID: protocol.String("p1"),
	}))

	select {
	case s := <-states:
		assert.Equal(t, "room-1", s.GetRoomID())
		assert.Equal(t, int32(123), s.GetRemainingTiles())
		require.Len(t, s.Players, 1)
		assert.Equal(t, "p1", s.Players[0].GetID())
		assert.Equal(t, []int32{1, 2, 3}, s.Players[0].HandTiles)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for sync_state")
	}

	mu.Lock()
	assert.Equal(t, []protocol.Action{protocol.ActionJoinRoomRes, protocol.ActionSyncState}, actions)
	mu.Unlock()

	m.Disconnect()
	select {
	case code := <-closed:
		assert.Equal(t, CloseNormal, code)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for close")
	}
	assert.Equal(t, StateClosed, m.State())
}

func TestWebSocketDialFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := wsURL(srv)
	srv.Close()

	m := New(WithLogger(discardLogger()))
	errs := make(chan error, 1)
	closed := make(chan int, 1)
	m.OnError(func(err error) { errs <- err })
	m.OnDisconnected(func(code int, _ string) { closed <- code })

	m.Connect(url)

	select {
	case err := <-errs:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for error")
	}
	select {
	case code := <-closed:
		assert.Equal(t, CloseAbnormal, code)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for close")
	}
	assert.Equal(t, StateClosed, m.State())
}

func TestWebSocketServerClose(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down")
		conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		conn.ReadMessage()
	}))
	defer srv.Close()

	m := New(WithLogger(discardLogger()))
	type closeEvent struct {
		code   int
		reason string
	}
	closed := make(chan closeEvent, 1)
	m.OnDisconnected(func(code int, reason string) { closed <- closeEvent{code, reason} })

	m.Connect(wsURL(srv))
	select {
	case ev := <-closed:
		assert.Equal(t, websocket.CloseGoingAway, ev.code)
		assert.Equal(t, "shutting down", ev.reason)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for close")
	}
}

func TestWebSocketSendAfterClose(t *testing.T) {
	s := &wsSocket{config: DefaultConfig(), logger: discardLogger(), cancel: func() {}}
	assert.ErrorIs(t, s.Send([]byte{1}), ErrSocketClosed)
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}
