package app

import (
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hatgame/internal/domain"
	"hatgame/internal/protocol"
)

type fakeConn struct {
	id     string
	mu     sync.Mutex
	msgs   []*protocol.ServerMessage
	closed bool
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Send(message any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, message.(*protocol.ServerMessage))
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) types() []protocol.MessageType {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]protocol.MessageType, len(c.msgs))
	for i, m := range c.msgs {
		out[i] = m.Type
	}
	return out
}

func (c *fakeConn) last(t protocol.MessageType) *protocol.ServerMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.msgs) - 1; i >= 0; i-- {
		if c.msgs[i].Type == t {
			return c.msgs[i]
		}
	}
	return nil
}

func (c *fakeConn) count(t protocol.MessageType) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, m := range c.msgs {
		if m.Type == t {
			n++
		}
	}
	return n
}

func (c *fakeConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = nil
}

type fakeTimer struct {
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	pending := !t.stopped && !t.fired
	t.stopped = true
	return pending
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) domain.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward and runs due callbacks on the calling goroutine
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

type testEnv struct {
	gw       *Gateway
	registry *RoomRegistry
	sessions *SessionStore
	clock    *fakeClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := newFakeClock()
	sessions := NewSessionStore()
	registry := NewRoomRegistry(RegistryConfig{
		Settings:    domain.DefaultGameSettings(),
		GracePeriod: time.Minute,
		Clock:       clock,
	}, sessions, logger)
	t.Cleanup(registry.Close)

	return &testEnv{
		gw:       NewGateway(registry, sessions, logger),
		registry: registry,
		sessions: sessions,
		clock:    clock,
	}
}

type testClient struct {
	conn *fakeConn
	peer *Peer
}

func (e *testEnv) client(id string) *testClient {
	conn := newFakeConn(id)
	return &testClient{conn: conn, peer: NewPeer(conn)}
}

func (e *testEnv) send(t *testing.T, c *testClient, msgType protocol.MessageType, payload any) {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	data, err := json.Marshal(protocol.ClientMessage{Type: msgType, Payload: raw})
	require.NoError(t, err)
	e.gw.HandleMessage(c.peer, data)
}

func (e *testEnv) join(t *testing.T, room, name string) *testClient {
	t.Helper()
	c := e.client("conn-" + name)
	e.send(t, c, protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomName: room, PlayerName: name})
	require.Equal(t, name, c.peer.PlayerName(), "join failed: %v", c.conn.types())
	return c
}

func snapshotOf(t *testing.T, c *testClient) domain.Snapshot {
	t.Helper()
	msg := c.conn.last(protocol.MsgGameStateUpdate)
	require.NotNil(t, msg)
	return msg.Payload.(domain.Snapshot)
}

func errorCode(t *testing.T, c *testClient) string {
	t.Helper()
	msg := c.conn.last(protocol.MsgError)
	require.NotNil(t, msg, "no error message, got %v", c.conn.types())
	return msg.Payload.(*protocol.ErrorPayload).Code
}

func wordsFor(name string) []string {
	return []string{name + "-one", name + "-two", name + "-three", name + "-four", name + "-five"}
}

// playingR1 drives R1 through the lobby with {A,B} vs {C,D}
func playingR1(t *testing.T, e *testEnv) map[string]*testClient {
	t.Helper()
	clients := map[string]*testClient{}
	for _, n := range []string{"A", "B", "C", "D"} {
		clients[n] = e.join(t, "R1", n)
	}
	a := clients["A"]
	assignments := []struct{ name, team string }{
		{"A", "Team 1"}, {"B", "Team 1"}, {"C", "Team 2"}, {"D", "Team 2"},
	}
	for _, as := range assignments {
		e.send(t, a, protocol.MsgAssignTeam, protocol.AssignTeamPayload{PlayerID: as.name, TeamName: as.team})
	}
	e.send(t, a, protocol.MsgLockTeams, struct{}{})
	for _, n := range []string{"A", "B", "C", "D"} {
		e.send(t, clients[n], protocol.MsgSubmitWords, protocol.SubmitWordsPayload{Words: wordsFor(n)})
	}
	snap := snapshotOf(t, a)
	require.Equal(t, domain.PhasePlaying, snap.Phase)
	require.Equal(t, "A", snap.ActivePlayer, "Team 1 opens with its first assigned player")
	for _, c := range clients {
		c.conn.reset()
	}
	return clients
}

func newTestRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}
