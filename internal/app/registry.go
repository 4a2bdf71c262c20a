package app

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"hatgame/internal/domain"
)

const (
	// DefaultRoomCodeLength is the default length for room codes
	DefaultRoomCodeLength = 6

	// DefaultGracePeriod is how long a room survives with nobody connected
	DefaultGracePeriod = 2 * time.Minute

	reapInterval = time.Minute
)

// RoomCodeChars are characters used for room codes (no ambiguous chars)
const RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// RegistryConfig configures a RoomRegistry
type RegistryConfig struct {
	Settings       domain.GameSettings
	RoomCodeLength int
	GracePeriod    time.Duration
	Clock          domain.Clock
}

// Stats is a point-in-time summary of the registry
type Stats struct {
	ActiveRooms      int `json:"activeRooms"`
	TotalPlayers     int `json:"totalPlayers"`
	ConnectedPlayers int `json:"connectedPlayers"`
	Sessions         int `json:"sessions"`
}

// RoomRegistry manages all live rooms by name
type RoomRegistry struct {
	rooms    map[string]*RoomSession
	mu       sync.RWMutex
	sessions *SessionStore
	cfg      RegistryConfig
	logger   *slog.Logger
	done     chan struct{}
	once     sync.Once
}

// NewRoomRegistry creates a registry and starts its reaper
func NewRoomRegistry(cfg RegistryConfig, sessions *SessionStore, logger *slog.Logger) *RoomRegistry {
	if cfg.RoomCodeLength <= 0 {
		cfg.RoomCodeLength = DefaultRoomCodeLength
	}
	if cfg.GracePeriod <= 0 {
		cfg.GracePeriod = DefaultGracePeriod
	}
	if cfg.Clock == nil {
		cfg.Clock = domain.SystemClock{}
	}

	r := &RoomRegistry{
		rooms:    make(map[string]*RoomSession),
		sessions: sessions,
		cfg:      cfg,
		logger:   logger,
		done:     make(chan struct{}),
	}

	go r.cleanupLoop()

	return r
}

// GetOrCreate returns the named room, creating it if absent
func (r *RoomRegistry) GetOrCreate(name string) (room *RoomSession, created bool, err error) {
	name, err = domain.NormalizeRoomName(name)
	if err != nil {
		return nil, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if room, ok := r.rooms[name]; ok && !room.isClosed() {
		return room, false, nil
	}

	room = r.newRoom(name)
	return room, true, nil
}

// Create makes a room with a fresh random code
func (r *RoomRegistry) Create() (*RoomSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Generate unique room code
	var code string
	for attempts := 0; attempts < 10; attempts++ {
		code = r.generateRoomCode()
		if _, exists := r.rooms[code]; !exists {
			return r.newRoom(code), nil
		}
	}

	return nil, fmt.Errorf("failed to generate unique room code after 10 attempts")
}

// Get returns a room by name
func (r *RoomRegistry) Get(name string) (*RoomSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[name]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}

	return room, nil
}

// Destroy removes a room, cancels its timer and revokes its sessions
func (r *RoomRegistry) Destroy(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if room, ok := r.rooms[name]; ok {
		room.Close()
		r.removeLocked(name, "destroyed")
	}
}

// DestroyIfEmpty removes the room when its roster has no players left
func (r *RoomRegistry) DestroyIfEmpty(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[name]
	if !ok {
		return false
	}
	if !room.closeIf(func(dr *domain.Room) bool { return dr.Empty() }) {
		return false
	}
	r.removeLocked(name, "empty")
	return true
}

// GetRoomCount returns the number of live rooms
func (r *RoomRegistry) GetRoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Stats returns totals across every room
func (r *RoomRegistry) Stats() Stats {
	r.mu.RLock()
	rooms := make([]*RoomSession, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, room)
	}
	r.mu.RUnlock()

	stats := Stats{ActiveRooms: len(rooms), Sessions: r.sessions.Count()}
	for _, room := range rooms {
		stats.TotalPlayers += room.GetPlayerCount()
		stats.ConnectedPlayers += room.GetConnectedCount()
	}
	return stats
}

// Close shuts down the registry and all rooms
func (r *RoomRegistry) Close() {
	r.once.Do(func() { close(r.done) })

	r.mu.Lock()
	defer r.mu.Unlock()

	for name, room := range r.rooms {
		room.Close()
		r.sessions.RevokeRoom(name)
	}
	r.rooms = make(map[string]*RoomSession)
}

func (r *RoomRegistry) newRoom(name string) *RoomSession {
	room := NewRoomSession(name, r.cfg.Settings, r.cfg.Clock, r.sessions, r.logger)
	r.rooms[name] = room
	r.logger.Info("room created", "room", name)
	return room
}

func (r *RoomRegistry) removeLocked(name, reason string) {
	delete(r.rooms, name)
	revoked := r.sessions.RevokeRoom(name)
	r.logger.Info("room removed", "room", name, "reason", reason, "sessionsRevoked", revoked)
}

// generateRoomCode generates a random room code
func (r *RoomRegistry) generateRoomCode() string {
	b := make([]byte, r.cfg.RoomCodeLength)
	rand.Read(b)

	code := make([]byte, r.cfg.RoomCodeLength)
	for i := range code {
		code[i] = RoomCodeChars[int(b[i])%len(RoomCodeChars)]
	}

	return string(code)
}

// cleanupLoop periodically reaps idle rooms
func (r *RoomRegistry) cleanupLoop() {
	ticker := time.NewTicker(reapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.reap()
		}
	}
}

// reap removes rooms nobody has been connected to for the grace period
func (r *RoomRegistry) reap() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.cfg.Clock.Now()
	idle := func(dr *domain.Room) bool {
		since, ok := dr.IdleSince()
		return ok && now.Sub(since) >= r.cfg.GracePeriod
	}

	reaped := 0
	for name, room := range r.rooms {
		if room.closeIf(idle) {
			r.removeLocked(name, "idle")
			reaped++
		}
	}
	return reaped
}
