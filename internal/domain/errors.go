package domain

import "errors"

// Kind classifies a domain error for reporting
type Kind int

const (
	KindValidation Kind = iota // bad input, nothing mutated
	KindPhase                  // action not valid in the current phase
	KindNotFound               // unknown room, player or session
	KindPermission             // requester lacks the role for the action
	KindInternal               // invariant violation
	KindExhausted              // control-flow signal, never shown to players
)

// Error is a domain error with a stable wire code
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Domain errors
var (
	ErrRoomNotFound      = newError(KindNotFound, "ROOM_NOT_FOUND", "room not found")
	ErrPlayerNotFound    = newError(KindNotFound, "PLAYER_NOT_FOUND", "player not found in this room")
	ErrSessionNotFound   = newError(KindNotFound, "SESSION_INVALID", "session is no longer valid")
	ErrTeamNotFound      = newError(KindNotFound, "TEAM_NOT_FOUND", "team not found")
	ErrInvalidRoomName   = newError(KindValidation, "INVALID_ROOM_NAME", "room name must be 1-30 characters")
	ErrInvalidPlayerName = newError(KindValidation, "INVALID_PLAYER_NAME", "player name must be 1-15 characters")
	ErrNameTaken         = newError(KindValidation, "NAME_TAKEN", "player name already taken")
	ErrRoomFull          = newError(KindValidation, "ROOM_FULL", "room is full")
	ErrGameInProgress    = newError(KindValidation, "GAME_IN_PROGRESS", "game already in progress")
	ErrWrongWordCount    = newError(KindValidation, "WRONG_WORD_COUNT", "wrong number of words")
	ErrDuplicateWord     = newError(KindValidation, "DUPLICATE_WORD", "all words must be unique")
	ErrEmptyWord         = newError(KindValidation, "EMPTY_WORD", "words cannot be empty")
	ErrWordTooLong       = newError(KindValidation, "WORD_TOO_LONG", "word is too long")
	ErrInvalidTeamName   = newError(KindValidation, "INVALID_TEAM", "invalid team name")
	ErrInvalidTeamCount  = newError(KindValidation, "INVALID_TEAM_COUNT", "invalid number of teams")
	ErrNotEnoughPlayers  = newError(KindValidation, "NOT_ENOUGH_PLAYERS", "not enough players for the teams")
	ErrTeamsUnbalanced   = newError(KindValidation, "TEAMS_UNBALANCED", "teams must be balanced")
	ErrUnassignedPlayers = newError(KindValidation, "UNASSIGNED_PLAYERS", "every player must be on a team")
	ErrWordsMissing      = newError(KindValidation, "WORDS_MISSING", "not every player has submitted words")
	ErrInvalidPhase      = newError(KindPhase, "INVALID_PHASE", "invalid action for current phase")
	ErrNoActiveTurn      = newError(KindPhase, "NO_ACTIVE_TURN", "no turn in progress")
	ErrWordAlreadyDrawn  = newError(KindPhase, "WORD_ALREADY_DRAWN", "a word is already drawn")
	ErrNoWordDrawn       = newError(KindPhase, "NO_WORD_DRAWN", "no word drawn")
	ErrNotYourTurn       = newError(KindPermission, "NOT_YOUR_TURN", "it is not your turn")
	ErrNotLeader         = newError(KindPermission, "NOT_LEADER", "only the room leader can do this")
	ErrNoEligiblePlayers = newError(KindInternal, "NO_ELIGIBLE_PLAYERS", "no connected player can take a turn")
	ErrDuplicatePlayer   = newError(KindInternal, "INTERNAL_ERROR", "room roster is inconsistent")
	ErrPoolEmpty         = newError(KindExhausted, "POOL_EMPTY", "word pool is empty")
)

// KindOf returns the kind of err, KindInternal for non-domain errors
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
