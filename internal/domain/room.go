package domain

import (
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxRoomNameLength is the longest accepted room name, in characters
const MaxRoomNameLength = 30

// GameSettings holds configurable game parameters
type GameSettings struct {
	RequiredWords int           `json:"requiredWords"`
	TurnDuration  time.Duration `json:"turnDuration"`
	MinTeamSize   int           `json:"minTeamSize"`
	TeamCount     int           `json:"teamCount"`
	MaxTeams      int           `json:"maxTeams"`
	MaxPlayers    int           `json:"maxPlayers"`
	AutoStart     bool          `json:"autoStart"`
	Rounds        []RoundDef    `json:"rounds"`
}

// DefaultGameSettings returns the default game settings
func DefaultGameSettings() GameSettings {
	return GameSettings{
		RequiredWords: 5,
		TurnDuration:  60 * time.Second,
		MinTeamSize:   2,
		TeamCount:     2,
		MaxTeams:      MaxTeamsCap,
		MaxPlayers:    16,
		AutoStart:     true,
		Rounds:        DefaultRounds(),
	}
}

func (s GameSettings) normalized() GameSettings {
	d := DefaultGameSettings()
	if s.RequiredWords < 1 {
		s.RequiredWords = d.RequiredWords
	}
	if s.TurnDuration <= 0 {
		s.TurnDuration = d.TurnDuration
	}
	if s.MinTeamSize < 1 {
		s.MinTeamSize = d.MinTeamSize
	}
	if s.MaxTeams < 2 || s.MaxTeams > MaxTeamsCap {
		s.MaxTeams = MaxTeamsCap
	}
	if s.TeamCount < 2 {
		s.TeamCount = 2
	}
	if s.TeamCount > s.MaxTeams {
		s.TeamCount = s.MaxTeams
	}
	if s.MaxPlayers < 1 {
		s.MaxPlayers = d.MaxPlayers
	}
	if len(s.Rounds) == 0 {
		s.Rounds = DefaultRounds()
	}
	return s
}

// NormalizeRoomName trims and validates a room name
func NormalizeRoomName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxRoomNameLength {
		return "", ErrInvalidRoomName
	}
	return name, nil
}

// Room is the state machine for one game. It is not safe for concurrent
// use; the owner serializes every call, including timer callbacks.
type Room struct {
	Name      string
	Settings  GameSettings
	CreatedAt time.Time

	phase   Phase
	players []*Player
	teams   []*Team
	leader  string
	seq     int

	roundIndex       int
	scores           Scoreboard
	guessedThisRound []string
	winners          []string

	pool     *WordPool
	turn     *TurnScheduler
	assigner *TeamAssigner
	clock    Clock

	idleSince time.Time
	events    []Event
}

// NewRoom creates a room in the WAITING phase. onExpire is invoked from the
// clock's goroutine when a turn timer fires; the owner must feed it back
// through ExpireTurn under its own serialization.
func NewRoom(name string, settings GameSettings, clock Clock, rng *rand.Rand, onExpire func(turnID uint64)) *Room {
	settings = settings.normalized()
	now := clock.Now()

	teams := make([]*Team, settings.TeamCount)
	for i := range teams {
		teams[i] = &Team{Name: TeamName(i), Players: []string{}}
	}

	return &Room{
		Name:      name,
		Settings:  settings,
		CreatedAt: now,
		phase:     PhaseWaiting,
		teams:     teams,
		pool:      NewWordPool(rng),
		turn:      NewTurnScheduler(clock, settings.TurnDuration, onExpire),
		assigner:  NewTeamAssigner(rng, settings.MaxTeams),
		clock:     clock,
		idleSince: now,
	}
}

// Phase returns the current phase
func (r *Room) Phase() Phase {
	return r.phase
}

// Leader returns the leader's name
func (r *Room) Leader() string {
	return r.leader
}

// Player returns a player by name
func (r *Room) Player(name string) (*Player, bool) {
	p := r.find(name)
	return p, p != nil
}

// Players returns the roster in join order
func (r *Room) Players() []*Player {
	return r.players
}

// PlayerCount returns the number of players on the roster
func (r *Room) PlayerCount() int {
	return len(r.players)
}

// ConnectedCount returns the number of connected players
func (r *Room) ConnectedCount() int {
	count := 0
	for _, p := range r.players {
		if p.Connected {
			count++
		}
	}
	return count
}

// Empty reports whether the roster has no players at all
func (r *Room) Empty() bool {
	return len(r.players) == 0
}

// IdleSince returns when the last connected player went away. ok is false
// while anyone is connected.
func (r *Room) IdleSince() (since time.Time, ok bool) {
	if r.ConnectedCount() > 0 {
		return time.Time{}, false
	}
	return r.idleSince, true
}

// CanJoin reports whether a new name would be admitted
func (r *Room) CanJoin() bool {
	return r.phase.IsPreGame() && len(r.players) < r.Settings.MaxPlayers
}

// Drain returns and clears the notifications produced since the last call
func (r *Room) Drain() []Event {
	events := r.events
	r.events = nil
	return events
}

// Destroy cancels the turn timer. The room must not be used afterwards.
func (r *Room) Destroy() {
	r.turn.Cancel()
}

// Join adds a new player or reconnects a disconnected one with the same
// name. reconnected reports which of the two happened.
func (r *Room) Join(name, connID string) (player *Player, reconnected bool, err error) {
	name, err = NormalizePlayerName(name)
	if err != nil {
		return nil, false, err
	}

	if p := r.find(name); p != nil {
		if p.Connected {
			return nil, false, ErrNameTaken
		}
		p.Reconnect(connID)
		r.afterReconnect()
		return p, true, nil
	}

	if !r.phase.IsPreGame() {
		return nil, false, ErrGameInProgress
	}
	if len(r.players) >= r.Settings.MaxPlayers {
		return nil, false, ErrRoomFull
	}

	r.seq++
	p := NewPlayer(name, connID, r.seq, r.clock.Now())
	r.players = append(r.players, p)

	// First player becomes the leader
	if r.leader == "" {
		r.leader = p.Name
	}
	r.ensureLeader()
	r.maybeFormTeams()

	return p, false, nil
}

// Reconnect binds connID to an existing player and returns the handle it
// replaced, if the player was still attached to another connection.
func (r *Room) Reconnect(name, connID string) (previous string, err error) {
	p := r.find(name)
	if p == nil {
		return "", ErrPlayerNotFound
	}
	previous = p.ConnID
	p.Reconnect(connID)
	r.afterReconnect()
	return previous, nil
}

// Disconnect marks a player as gone if connID is still their live handle.
// Stale handles from a replaced connection are ignored.
func (r *Room) Disconnect(name, connID string) bool {
	p := r.find(name)
	if p == nil || !p.Connected || p.ConnID != connID {
		return false
	}
	r.dropPlayer(p)
	r.emit(EventPlayerLeft, PlayerLeftPayload{PlayerName: p.Name})
	return true
}

// Leave removes the player before teams lock and marks them disconnected
// afterwards. removed reports whether the player left the roster.
func (r *Room) Leave(name string) (removed bool, err error) {
	p := r.find(name)
	if p == nil {
		return false, ErrPlayerNotFound
	}

	if !r.phase.IsPreGame() {
		if p.Connected {
			r.dropPlayer(p)
			r.emit(EventPlayerLeft, PlayerLeftPayload{PlayerName: p.Name})
		}
		return false, nil
	}

	r.assigner.Remove(r.teams, p)
	r.removePlayer(p.Name)
	if r.ConnectedCount() == 0 {
		r.idleSince = r.clock.Now()
	}
	r.emit(EventPlayerLeft, PlayerLeftPayload{PlayerName: p.Name, Removed: true})
	r.ensureLeader()

	return true, nil
}

func (r *Room) dropPlayer(p *Player) {
	p.Disconnect()
	if r.ConnectedCount() == 0 {
		r.idleSince = r.clock.Now()
	}
	r.ensureLeader()

	switch r.phase {
	case PhasePlaying:
		if r.turn.ActivePlayer != p.Name {
			return
		}
		if r.turn.Active {
			r.endTurn(TurnEndDisconnect)
		} else {
			r.repickTurn()
		}
	case PhaseWordSubmission:
		r.maybeAutoStart()
	}
}

func (r *Room) afterReconnect() {
	r.ensureLeader()

	switch r.phase {
	case PhaseWaiting:
		r.maybeFormTeams()
	case PhasePlaying:
		if !r.turn.HasActivePlayer() {
			r.beginTurn()
		}
	}
}

// ensureLeader hands leadership to the earliest-joined connected player
// when the current leader is gone.
func (r *Room) ensureLeader() {
	if p := r.find(r.leader); p != nil && p.Connected {
		return
	}
	for _, p := range r.players {
		if !p.Connected {
			continue
		}
		if p.Name != r.leader {
			r.leader = p.Name
			r.emit(EventLeaderChanged, LeaderChangedPayload{Leader: p.Name})
		}
		return
	}
	if r.find(r.leader) == nil {
		r.leader = ""
		if len(r.players) > 0 {
			r.leader = r.players[0].Name
		}
	}
}

func (r *Room) requireLeader(name string) error {
	if r.find(name) == nil {
		return ErrPlayerNotFound
	}
	if name != r.leader {
		return ErrNotLeader
	}
	return nil
}

func (r *Room) transition(to Phase) error {
	if !r.phase.CanTransitionTo(to) {
		return ErrInvalidPhase
	}
	r.phase = to
	return nil
}

// checkRoster verifies the roster invariants: unique names, unique live
// connection handles, and team lists agreeing with each player's team.
func (r *Room) checkRoster() error {
	names := make(map[string]*Player, len(r.players))
	conns := make(map[string]bool, len(r.players))
	for _, p := range r.players {
		if _, dup := names[p.Name]; dup {
			return ErrDuplicatePlayer
		}
		names[p.Name] = p
		if p.Connected {
			if conns[p.ConnID] {
				return ErrDuplicatePlayer
			}
			conns[p.ConnID] = true
		}
	}

	seen := make(map[string]bool)
	for _, t := range r.teams {
		for _, name := range t.Players {
			p, ok := names[name]
			if !ok || p.Team != t.Name || seen[name] {
				return ErrDuplicatePlayer
			}
			seen[name] = true
		}
	}
	return nil
}

func (r *Room) find(name string) *Player {
	for _, p := range r.players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (r *Room) removePlayer(name string) {
	for i, p := range r.players {
		if p.Name == name {
			r.players = append(r.players[:i], r.players[i+1:]...)
			return
		}
	}
}

func (r *Room) isConnected(name string) bool {
	p := r.find(name)
	return p != nil && p.Connected
}

func (r *Room) teamOrder() []string {
	order := make([]string, len(r.teams))
	for i, t := range r.teams {
		order[i] = t.Name
	}
	return order
}

func (r *Room) copyTeams() []Team {
	out := make([]Team, len(r.teams))
	for i, t := range r.teams {
		players := make([]string, len(t.Players))
		copy(players, t.Players)
		out[i] = Team{Name: t.Name, Players: players}
	}
	return out
}

func (r *Room) emit(t EventType, payload any) {
	r.events = append(r.events, Event{Type: t, Payload: payload})
}

func (r *Room) emitTo(name string, t EventType, payload any) {
	r.events = append(r.events, Event{Type: t, To: name, Payload: payload})
}
