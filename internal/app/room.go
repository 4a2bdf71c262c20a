package app

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"hatgame/internal/domain"
	"hatgame/internal/protocol"
)

// Conn is one client connection as seen by the application layer. Send must
// not block; transports buffer or drop.
type Conn interface {
	ID() string
	Send(message any) error
	Close() error
}

// JoinResult describes the player a connection was bound to
type JoinResult struct {
	RoomName     string
	PlayerName   string
	SessionToken string
	IsLeader     bool
	Reconnected  bool
}

// RoomSession owns one room: it serializes every operation on the room
// behind a mutex and delivers the resulting notifications and snapshots to
// the connected members.
type RoomSession struct {
	room     *domain.Room
	mu       sync.Mutex
	clients  map[string]Conn // player name -> conn
	sessions *SessionStore
	rng      *rand.Rand
	logger   *slog.Logger
	closed   bool
}

// NewRoomSession creates a room owner
func NewRoomSession(name string, settings domain.GameSettings, clock domain.Clock, sessions *SessionStore, logger *slog.Logger) *RoomSession {
	s := &RoomSession{
		clients:  make(map[string]Conn),
		sessions: sessions,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:   logger.With("room", name),
	}
	rng := rand.New(rand.NewSource(s.rng.Int63()))
	s.room = domain.NewRoom(name, settings, clock, rng, s.expireTurn)
	return s
}

// Name returns the room name
func (s *RoomSession) Name() string {
	return s.room.Name
}

// GetPlayerCount returns the number of players on the roster
func (s *RoomSession) GetPlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.PlayerCount()
}

// GetConnectedCount returns the number of connected players
func (s *RoomSession) GetConnectedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.ConnectedCount()
}

// GetPhase returns the current phase
func (s *RoomSession) GetPhase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.Phase()
}

// CanJoin checks if a new player can join the room
func (s *RoomSession) CanJoin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && s.room.CanJoin()
}

// Join adds or reconnects playerName and binds conn to them. The joiner
// receives roomJoined before the first state broadcast.
func (s *RoomSession) Join(playerName string, conn Conn) (JoinResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return JoinResult{}, domain.ErrRoomNotFound
	}

	player, reconnected, err := s.room.Join(playerName, conn.ID())
	if err != nil {
		return JoinResult{}, err
	}

	session := s.sessions.Issue(s.room.Name, player.Name)
	res := JoinResult{
		RoomName:     s.room.Name,
		PlayerName:   player.Name,
		SessionToken: session.Token,
		IsLeader:     s.room.Leader() == player.Name,
		Reconnected:  reconnected,
	}
	s.bind(player.Name, conn, res)
	s.logger.Info("player joined", "player", player.Name, "reconnected", reconnected)

	s.flush()
	return res, nil
}

// Resume rebinds an existing player to conn. A connection the player was
// still attached to is told its session moved.
func (s *RoomSession) Resume(playerName, token string, conn Conn) (JoinResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return JoinResult{}, domain.ErrRoomNotFound
	}

	if _, err := s.room.Reconnect(playerName, conn.ID()); err != nil {
		return JoinResult{}, err
	}

	if old, ok := s.clients[playerName]; ok && old != conn {
		s.deliver(old, protocol.NewServerMessage(protocol.MsgSessionInvalid, &protocol.SessionInvalidPayload{
			Reason: "session resumed on another connection",
		}))
	}

	res := JoinResult{
		RoomName:     s.room.Name,
		PlayerName:   playerName,
		SessionToken: token,
		IsLeader:     s.room.Leader() == playerName,
		Reconnected:  true,
	}
	s.bind(playerName, conn, res)
	s.logger.Info("player resumed session", "player", playerName)

	s.flush()
	return res, nil
}

// Do runs one room operation on behalf of playerName. conn must be the
// player's current connection. On success every member gets the resulting
// notifications and a fresh snapshot; on failure nothing is broadcast.
func (s *RoomSession) Do(playerName string, conn Conn, op func(r *domain.Room) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkBinding(playerName, conn); err != nil {
		return err
	}

	if err := op(s.room); err != nil {
		s.logger.Debug("operation rejected", "player", playerName, "error", err)
		return err
	}

	s.flush()
	return nil
}

// SendState resends the player's snapshot to conn
func (s *RoomSession) SendState(playerName string, conn Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkBinding(playerName, conn); err != nil {
		return err
	}
	s.deliver(conn, protocol.NewServerMessage(protocol.MsgGameStateUpdate, s.room.Snapshot(playerName)))
	return nil
}

// Suggest sends the player up to n word ideas they have not submitted yet
func (s *RoomSession) Suggest(playerName string, conn Conn, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkBinding(playerName, conn); err != nil {
		return err
	}
	if s.room.Phase() != domain.PhaseWordSubmission {
		return domain.ErrInvalidPhase
	}
	if n <= 0 || n > s.room.Settings.RequiredWords {
		n = s.room.Settings.RequiredWords
	}

	player, ok := s.room.Player(playerName)
	if !ok {
		return domain.ErrPlayerNotFound
	}
	words := SuggestWords(s.rng, n, player.Words)
	s.deliver(conn, protocol.NewServerMessage(protocol.MsgWordSuggestions, &protocol.WordSuggestionsPayload{Words: words}))
	return nil
}

// Leave removes or disconnects the player. removed reports whether they
// left the roster for good.
func (s *RoomSession) Leave(playerName string, conn Conn) (removed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkBinding(playerName, conn); err != nil {
		return false, err
	}

	removed, err = s.room.Leave(playerName)
	if err != nil {
		return false, err
	}
	s.logger.Info("player left", "player", playerName, "removed", removed)

	s.flush()
	delete(s.clients, playerName)
	return removed, nil
}

// Disconnect handles a dropped transport. Connections that were already
// replaced are ignored.
func (s *RoomSession) Disconnect(playerName string, conn Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.clients[playerName] != conn {
		return
	}
	delete(s.clients, playerName)

	if s.room.Disconnect(playerName, conn.ID()) {
		s.logger.Info("player disconnected", "player", playerName)
		s.flush()
	}
}

// closeIf destroys the room when cond holds, atomically with respect to
// other operations on it.
func (s *RoomSession) closeIf(cond func(r *domain.Room) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !cond(s.room) {
		return false
	}
	s.closeLocked()
	return true
}

// Close shuts down the room
func (s *RoomSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closeLocked()
}

func (s *RoomSession) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *RoomSession) closeLocked() {
	s.closed = true
	s.room.Destroy()
	s.clients = make(map[string]Conn)
}

// expireTurn runs on the timer goroutine and re-enters the room through the
// same lock as every other operation.
func (s *RoomSession) expireTurn(turnID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if s.room.ExpireTurn(turnID) {
		s.logger.Debug("turn timed out", "turn", turnID)
		s.flush()
	}
}

func (s *RoomSession) checkBinding(playerName string, conn Conn) error {
	if s.closed {
		return domain.ErrRoomNotFound
	}
	if s.clients[playerName] != conn {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (s *RoomSession) bind(playerName string, conn Conn, res JoinResult) {
	s.clients[playerName] = conn
	s.deliver(conn, protocol.NewServerMessage(protocol.MsgRoomJoined, &protocol.RoomJoinedPayload{
		RoomName:     res.RoomName,
		PlayerName:   res.PlayerName,
		SessionToken: res.SessionToken,
		IsLeader:     res.IsLeader,
		Reconnected:  res.Reconnected,
	}))
}

// flush delivers pending room notifications followed by a redacted
// snapshot for every connected member. Caller must hold the lock.
func (s *RoomSession) flush() {
	for _, event := range s.room.Drain() {
		msg := protocol.NewServerMessage(protocol.MessageType(event.Type), event.Payload)
		if event.To != "" {
			if conn, ok := s.clients[event.To]; ok {
				s.deliver(conn, msg)
			}
			continue
		}
		for _, conn := range s.clients {
			s.deliver(conn, msg)
		}
		s.logEvent(event)
	}

	for name, conn := range s.clients {
		s.deliver(conn, protocol.NewServerMessage(protocol.MsgGameStateUpdate, s.room.Snapshot(name)))
	}
}

func (s *RoomSession) deliver(conn Conn, msg *protocol.ServerMessage) {
	if err := conn.Send(msg); err != nil {
		s.logger.Debug("failed to send to client", "conn", conn.ID(), "error", err)
	}
}

func (s *RoomSession) logEvent(event domain.Event) {
	switch p := event.Payload.(type) {
	case domain.TurnStartPayload:
		s.logger.Debug("turn started", "team", p.Team, "player", p.Player, "round", p.RoundIndex)
	case domain.TurnEndPayload:
		s.logger.Debug("turn ended", "team", p.Team, "player", p.Player, "reason", p.Reason, "guessed", len(p.GuessedWords))
	case domain.RoundEndPayload:
		s.logger.Info("round over", "round", p.RoundIndex)
	case domain.GameEndPayload:
		s.logger.Info("game finished", "winners", p.Winners, "tie", p.IsTie)
	case domain.TeamsLockedPayload:
		s.logger.Info("teams locked", "teams", len(p.Teams))
	case domain.ErrorPayload:
		s.logger.Error("room error", "code", p.Code, "message", p.Message)
	}
}
