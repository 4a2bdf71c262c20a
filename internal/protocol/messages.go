package protocol

import (
	"encoding/json"
	"time"
)

// MessageType represents the type of a wire message
type MessageType string

// Client → Server message types
const (
	MsgJoinRoom         MessageType = "joinRoom"
	MsgCheckSession     MessageType = "checkSession"
	MsgAssignTeam       MessageType = "assignTeam"
	MsgJoinTeam         MessageType = "joinTeam"
	MsgRandomizeTeams   MessageType = "randomizeTeams"
	MsgLockTeams        MessageType = "lockTeams"
	MsgSubmitWords      MessageType = "submitWords"
	MsgStartGame        MessageType = "startGame"
	MsgDrawWord         MessageType = "drawWord"
	MsgWordGuessed      MessageType = "wordGuessed"
	MsgSkipWord         MessageType = "skipWord"
	MsgEndTurn          MessageType = "endTurn"
	MsgStartNextRound   MessageType = "startNextRound"
	MsgLeaveRoom        MessageType = "leaveRoom"
	MsgRequestGameState MessageType = "requestGameState"
	MsgSuggestWords     MessageType = "suggestWords"
	MsgPing             MessageType = "ping"
)

// Server → Client message types. Room notifications reuse the domain event
// names (playerLeft, turnStart, turnEnd, roundEnd, gameEnd and so on).
const (
	MsgRoomJoined      MessageType = "roomJoined"
	MsgGameStateUpdate MessageType = "gameStateUpdate"
	MsgSessionInvalid  MessageType = "sessionInvalid"
	MsgWordSuggestions MessageType = "wordSuggestions"
	MsgError           MessageType = "error"
	MsgPong            MessageType = "pong"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   any         `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload any) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Client message payloads

// JoinRoomPayload is the payload for joinRoom
type JoinRoomPayload struct {
	RoomName   string `json:"roomName"`
	PlayerName string `json:"playerName"`
}

// CheckSessionPayload is the payload for checkSession
type CheckSessionPayload struct {
	SessionToken string `json:"sessionToken"`
}

// AssignTeamPayload is the payload for assignTeam. PlayerID is the player's name.
type AssignTeamPayload struct {
	PlayerID string `json:"playerId"`
	TeamName string `json:"teamName"`
}

// JoinTeamPayload is the payload for joinTeam
type JoinTeamPayload struct {
	TeamName string `json:"teamName"`
}

// RandomizeTeamsPayload is the payload for randomizeTeams
type RandomizeTeamsPayload struct {
	TeamCount int `json:"teamCount"`
}

// SubmitWordsPayload is the payload for submitWords
type SubmitWordsPayload struct {
	Words []string `json:"words"`
}

// SuggestWordsPayload is the payload for suggestWords
type SuggestWordsPayload struct {
	Count int `json:"count"`
}

// Server message payloads

// RoomJoinedPayload is the payload for roomJoined
type RoomJoinedPayload struct {
	RoomName     string `json:"roomName"`
	PlayerName   string `json:"playerName"`
	SessionToken string `json:"sessionToken"`
	IsLeader     bool   `json:"isLeader"`
	Reconnected  bool   `json:"reconnected"`
}

// WordSuggestionsPayload is the payload for wordSuggestions
type WordSuggestionsPayload struct {
	Words []string `json:"words"`
}

// SessionInvalidPayload is the payload for sessionInvalid
type SessionInvalidPayload struct {
	Reason string `json:"reason"`
}

// ErrorPayload is the payload for error message
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes that do not come from the game rules
const (
	ErrCodeInvalidMessage = "INVALID_MESSAGE"
	ErrCodeNotInRoom      = "NOT_IN_ROOM"
	ErrCodeRateLimited    = "RATE_LIMITED"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)
