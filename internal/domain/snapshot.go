package domain

import "time"

// Snapshot is the full room state as seen by one player. Only the active
// player's snapshot carries the current word.
type Snapshot struct {
	RoomName        string               `json:"roomName"`
	Phase           Phase                `json:"phase"`
	Players         []PlayerInfo         `json:"players"`
	Teams           []Team               `json:"teams"`
	TeamOrder       []string             `json:"teamOrder"`
	TeamsBalanced   bool                 `json:"teamsBalanced"`
	Leader          string               `json:"leader"`
	RoundIndex      int                  `json:"roundIndex"`
	Rounds          []RoundDef           `json:"rounds"`
	TeamScores      map[string]TeamScore `json:"teamScores"`
	ActiveTeam      string               `json:"activeTeam,omitempty"`
	ActivePlayer    string               `json:"activePlayer,omitempty"`
	TurnActive      bool                 `json:"turnActive"`
	TurnEndsAt      *time.Time           `json:"turnEndsAt,omitempty"`
	TurnSeconds     int                  `json:"turnSeconds"`
	HatCount        int                  `json:"hatCount"`
	TotalWords      int                  `json:"totalWords"`
	GuessedThisTurn []string             `json:"guessedThisTurn"`
	CurrentWord     *string              `json:"currentWord"`
	RequiredWords   int                  `json:"requiredWords"`
	Winners         []string             `json:"winners,omitempty"`
	IsTie           bool                 `json:"isTie"`
	You             string               `json:"you"`
}

// Snapshot builds the state for viewer
func (r *Room) Snapshot(viewer string) Snapshot {
	players := make([]PlayerInfo, len(r.players))
	for i, p := range r.players {
		players[i] = PlayerInfo{
			Name:           p.Name,
			Team:           p.Team,
			Connected:      p.Connected,
			WordsSubmitted: p.HasSubmitted(),
			IsLeader:       p.Name == r.leader,
		}
	}

	nonEmpty := NonEmpty(r.teams)
	guessed := make([]string, len(r.turn.GuessedThisTurn))
	copy(guessed, r.turn.GuessedThisTurn)

	snap := Snapshot{
		RoomName:        r.Name,
		Phase:           r.phase,
		Players:         players,
		Teams:           r.copyTeams(),
		TeamOrder:       r.teamOrder(),
		TeamsBalanced:   len(nonEmpty) >= 2 && Balanced(nonEmpty),
		Leader:          r.leader,
		RoundIndex:      r.roundIndex,
		Rounds:          r.Settings.Rounds,
		TeamScores:      r.scores.Copy(),
		ActiveTeam:      r.turn.ActiveTeam,
		ActivePlayer:    r.turn.ActivePlayer,
		TurnActive:      r.turn.Active,
		TurnSeconds:     int(r.Settings.TurnDuration / time.Second),
		HatCount:        r.pool.Size(),
		TotalWords:      r.pool.Total(),
		GuessedThisTurn: guessed,
		RequiredWords:   r.Settings.RequiredWords,
		Winners:         r.winners,
		IsTie:           len(r.winners) > 1,
		You:             viewer,
	}

	if endsAt, ok := r.turn.EndsAt(); ok {
		snap.TurnEndsAt = &endsAt
	}
	if viewer != "" && viewer == r.turn.ActivePlayer && r.turn.HasWord() {
		word := r.turn.CurrentWord
		snap.CurrentWord = &word
	}

	return snap
}

// PoolCounts returns the hat size, the words guessed this round, whether a
// word is in flight, and the full pool size.
func (r *Room) PoolCounts() (hat, guessed int, inFlight bool, total int) {
	return r.pool.Size(), len(r.guessedThisRound), r.turn.HasWord(), r.pool.Total()
}
