package app

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"hatgame/internal/domain"
)

// Session binds a reconnection token to one player in one room
type Session struct {
	Token      string    `json:"token"`
	RoomName   string    `json:"roomName"`
	PlayerName string    `json:"playerName"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SessionStore maps opaque tokens to player identities. It is shared by
// every room and safe for concurrent use.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	byPlayer map[playerKey]string
}

type playerKey struct {
	room   string
	player string
}

// NewSessionStore creates an empty session store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
		byPlayer: make(map[playerKey]string),
	}
}

// Issue returns the player's token, creating one if they have none
func (s *SessionStore) Issue(roomName, playerName string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := playerKey{room: roomName, player: playerName}
	if token, ok := s.byPlayer[key]; ok {
		return s.sessions[token]
	}

	session := Session{
		Token:      uuid.NewString(),
		RoomName:   roomName,
		PlayerName: playerName,
		CreatedAt:  time.Now(),
	}
	s.sessions[session.Token] = session
	s.byPlayer[key] = session.Token

	return session
}

// Lookup resolves a token
func (s *SessionStore) Lookup(token string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[token]
	if !ok {
		return Session{}, domain.ErrSessionNotFound
	}
	return session, nil
}

// Revoke deletes a single token
func (s *SessionStore) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[token]; ok {
		delete(s.sessions, token)
		delete(s.byPlayer, playerKey{room: session.RoomName, player: session.PlayerName})
	}
}

// RevokePlayer deletes the token held by a player, if any
func (s *SessionStore) RevokePlayer(roomName, playerName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := playerKey{room: roomName, player: playerName}
	if token, ok := s.byPlayer[key]; ok {
		delete(s.sessions, token)
		delete(s.byPlayer, key)
	}
}

// RevokeRoom deletes every token for a room and returns how many were removed
func (s *SessionStore) RevokeRoom(roomName string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, token := range s.byPlayer {
		if key.room != roomName {
			continue
		}
		delete(s.sessions, token)
		delete(s.byPlayer, key)
		removed++
	}
	return removed
}

// Count returns the number of live sessions
func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
