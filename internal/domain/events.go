package domain

import "time"

// EventType represents the type of room notification
type EventType string

const (
	EventPlayerLeft           EventType = "playerLeft"
	EventLeaderChanged        EventType = "leaderChanged"
	EventTeamsLocked          EventType = "teamsLocked"
	EventPlayerSubmittedWords EventType = "playerSubmittedWords"
	EventGameStarted          EventType = "gameStarted"
	EventTurnStart            EventType = "turnStart"
	EventWordDrawn            EventType = "wordDrawn"
	EventTurnEnd              EventType = "turnEnd"
	EventRoundEnd             EventType = "roundEnd"
	EventGameEnd              EventType = "gameEnd"
	EventError                EventType = "error"
)

// Event is a notification produced by a room operation. Events addressed to
// a single player carry their name in To.
type Event struct {
	Type    EventType `json:"type"`
	To      string    `json:"-"`
	Payload any       `json:"payload,omitempty"`
}

// Payload types for different events

// PlayerLeftPayload is sent when a player leaves or drops
type PlayerLeftPayload struct {
	PlayerName string `json:"playerName"`
	Removed    bool   `json:"removed"`
}

// LeaderChangedPayload is sent when leadership moves
type LeaderChangedPayload struct {
	Leader string `json:"leader"`
}

// TeamsLockedPayload is sent when teams are frozen
type TeamsLockedPayload struct {
	Teams []Team `json:"teams"`
}

// PlayerSubmittedPayload is sent when a player finishes their words
type PlayerSubmittedPayload struct {
	PlayerName string `json:"playerName"`
}

// GameStartedPayload is sent when play begins
type GameStartedPayload struct {
	Rounds     []RoundDef `json:"rounds"`
	TotalWords int        `json:"totalWords"`
}

// TurnStartPayload announces the next player
type TurnStartPayload struct {
	Team       string `json:"team"`
	Player     string `json:"player"`
	RoundIndex int    `json:"roundIndex"`
}

// WordDrawnPayload is sent only to the active player
type WordDrawnPayload struct {
	Word       string    `json:"word"`
	TurnEndsAt time.Time `json:"turnEndsAt"`
}

// TurnEndReason says why a turn stopped
type TurnEndReason string

const (
	TurnEndTimeout    TurnEndReason = "timeout"
	TurnEndManual     TurnEndReason = "manual"
	TurnEndDisconnect TurnEndReason = "disconnect"
	TurnEndHatEmpty   TurnEndReason = "hatEmpty"
)

// TurnEndPayload summarises a finished turn
type TurnEndPayload struct {
	Team         string        `json:"team"`
	Player       string        `json:"player"`
	Reason       TurnEndReason `json:"reason"`
	GuessedWords []string      `json:"guessedWords"`
}

// RoundEndPayload is sent when the hat runs out
type RoundEndPayload struct {
	RoundIndex int                  `json:"roundIndex"`
	TeamScores map[string]TeamScore `json:"teamScores"`
	LastRound  bool                 `json:"lastRound"`
}

// GameEndPayload carries the final result
type GameEndPayload struct {
	TeamScores map[string]TeamScore `json:"teamScores"`
	Winners    []string             `json:"winners"`
	IsTie      bool                 `json:"isTie"`
}

// ErrorPayload is sent when an error occurs
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
