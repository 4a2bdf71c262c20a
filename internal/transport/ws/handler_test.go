package ws

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hatgame/internal/app"
	"hatgame/internal/domain"
	"hatgame/internal/protocol"
)

type inbound struct {
	Type    protocol.MessageType `json:"type"`
	Payload json.RawMessage      `json:"payload"`
}

func newTestServer(t *testing.T, limit RateLimit) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := app.NewSessionStore()
	registry := app.NewRoomRegistry(app.RegistryConfig{Settings: domain.DefaultGameSettings()}, sessions, logger)
	t.Cleanup(registry.Close)

	gateway := app.NewGateway(registry, sessions, logger)
	srv := httptest.NewServer(NewHandler(gateway, limit, logger))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msgType protocol.MessageType, payload any) {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(protocol.ClientMessage{Type: msgType, Payload: raw}))
}

// readUntil reads frames until one of the wanted type arrives
func readUntil(t *testing.T, conn *websocket.Conn, want protocol.MessageType) inbound {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var msg inbound
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == want {
			return msg
		}
	}
}

func TestHandler_JoinRoom(t *testing.T) {
	srv := newTestServer(t, RateLimit{PerSecond: 100, Burst: 100})
	conn := dial(t, srv)

	send(t, conn, protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomName: "R1", PlayerName: "A"})

	msg := readUntil(t, conn, protocol.MsgRoomJoined)
	var joined protocol.RoomJoinedPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &joined))
	assert.Equal(t, "R1", joined.RoomName)
	assert.True(t, joined.IsLeader)
	assert.NotEmpty(t, joined.SessionToken)

	msg = readUntil(t, conn, protocol.MsgGameStateUpdate)
	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(msg.Payload, &snap))
	assert.Equal(t, domain.PhaseWaiting, snap.Phase)
	assert.Equal(t, "A", snap.You)
	assert.Nil(t, snap.CurrentWord)
}

func TestHandler_DisconnectNotifiesRoom(t *testing.T) {
	srv := newTestServer(t, RateLimit{PerSecond: 100, Burst: 100})
	a := dial(t, srv)
	b := dial(t, srv)

	send(t, a, protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomName: "R1", PlayerName: "A"})
	readUntil(t, a, protocol.MsgRoomJoined)
	send(t, b, protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomName: "R1", PlayerName: "B"})
	readUntil(t, b, protocol.MsgRoomJoined)

	require.NoError(t, a.Close())

	msg := readUntil(t, b, protocol.MessageType(domain.EventPlayerLeft))
	var left domain.PlayerLeftPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &left))
	assert.Equal(t, "A", left.PlayerName)
	assert.False(t, left.Removed)

	msg = readUntil(t, b, protocol.MsgGameStateUpdate)
	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(msg.Payload, &snap))
	assert.Equal(t, "B", snap.Leader)
}

func TestHandler_RateLimited(t *testing.T) {
	srv := newTestServer(t, RateLimit{PerSecond: 0.001, Burst: 1})
	conn := dial(t, srv)

	send(t, conn, protocol.MsgPing, struct{}{})
	readUntil(t, conn, protocol.MsgPong)

	send(t, conn, protocol.MsgPing, struct{}{})
	msg := readUntil(t, conn, protocol.MsgError)
	var payload protocol.ErrorPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, protocol.ErrCodeRateLimited, payload.Code)
}

func TestHandler_OneMessagePerFrame(t *testing.T) {
	srv := newTestServer(t, RateLimit{PerSecond: 100, Burst: 100})
	conn := dial(t, srv)

	for i := 0; i < 5; i++ {
		send(t, conn, protocol.MsgPing, struct{}{})
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for i := 0; i < 5; i++ {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var msg inbound
		require.NoError(t, json.Unmarshal(data, &msg), string(data))
		assert.Equal(t, protocol.MsgPong, msg.Type)
	}
}
