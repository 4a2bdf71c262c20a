package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxPlayerNameLength is the longest accepted player name, in characters
const MaxPlayerNameLength = 15

// Player represents a player in a room. Identity is the name; ConnID is the
// transient connection handle and is replaced in place on reconnect.
type Player struct {
	Name      string
	ConnID    string
	Team      string
	Words     []string
	Connected bool
	JoinedAt  time.Time
	seq       int
}

// NewPlayer creates a connected player
func NewPlayer(name, connID string, seq int, now time.Time) *Player {
	return &Player{
		Name:      name,
		ConnID:    connID,
		Connected: true,
		JoinedAt:  now,
		seq:       seq,
	}
}

// HasSubmitted returns true once the player's words are recorded
func (p *Player) HasSubmitted() bool {
	return len(p.Words) > 0
}

// Disconnect marks the player as disconnected
func (p *Player) Disconnect() {
	p.Connected = false
	p.ConnID = ""
}

// Reconnect binds a new connection handle to the player
func (p *Player) Reconnect(connID string) {
	p.Connected = true
	p.ConnID = connID
}

// PlayerInfo is the public view of a player (never includes words)
type PlayerInfo struct {
	Name           string `json:"name"`
	Team           string `json:"team,omitempty"`
	Connected      bool   `json:"connected"`
	WordsSubmitted bool   `json:"wordsSubmitted"`
	IsLeader       bool   `json:"isLeader"`
}

// NormalizePlayerName trims and validates a player name
func NormalizePlayerName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxPlayerNameLength {
		return "", ErrInvalidPlayerName
	}
	return name, nil
}
