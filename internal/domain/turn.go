package domain

import "time"

// TurnScheduler owns the active team/player pointers, the in-flight word and
// the single turn timer of a room.
type TurnScheduler struct {
	clock    Clock
	duration time.Duration
	onExpire func(turnID uint64)

	teamIdx   int
	playerIdx map[string]int

	ActiveTeam      string
	ActivePlayer    string
	CurrentWord     string
	Active          bool
	StartedAt       time.Time
	GuessedThisTurn []string

	hasWord bool
	turnID  uint64
	timer   Timer
}

// NewTurnScheduler creates a scheduler whose timer calls onExpire with the
// id of the turn it was armed for.
func NewTurnScheduler(clock Clock, duration time.Duration, onExpire func(turnID uint64)) *TurnScheduler {
	return &TurnScheduler{
		clock:     clock,
		duration:  duration,
		onExpire:  onExpire,
		teamIdx:   -1,
		playerIdx: make(map[string]int),
	}
}

// Reset rewinds team and player rotation to the start and clears any turn
func (ts *TurnScheduler) Reset() {
	ts.Cancel()
	ts.teamIdx = -1
	ts.playerIdx = make(map[string]int)
	ts.clear()
}

// BeginTurn picks the next team in strict rotation and the next connected
// player within it. Teams without a connected player are skipped.
func (ts *TurnScheduler) BeginTurn(teams []*Team, connected func(name string) bool) error {
	ts.Cancel()
	ts.clear()
	ts.turnID++

	n := len(teams)
	for k := 1; k <= n; k++ {
		ti := (ts.teamIdx + k) % n
		team := teams[ti]
		m := len(team.Players)
		last, ok := ts.playerIdx[team.Name]
		if !ok {
			last = -1
		}
		for j := 1; j <= m; j++ {
			pi := (last + j) % m
			if !connected(team.Players[pi]) {
				continue
			}
			ts.teamIdx = ti
			ts.playerIdx[team.Name] = pi
			ts.ActiveTeam = team.Name
			ts.ActivePlayer = team.Players[pi]
			return nil
		}
	}

	return ErrNoEligiblePlayers
}

// Repick replaces an announced player who has not started their turn with
// the next connected teammate. The team keeps its turn; only when none of
// its players is connected does rotation move on.
func (ts *TurnScheduler) Repick(teams []*Team, connected func(name string) bool) error {
	if ts.teamIdx < 0 || ts.teamIdx >= len(teams) || ts.Active {
		return ts.BeginTurn(teams, connected)
	}

	team := teams[ts.teamIdx]
	m := len(team.Players)
	last := ts.playerIdx[team.Name]
	for j := 1; j <= m; j++ {
		pi := (last + j) % m
		if !connected(team.Players[pi]) {
			continue
		}
		ts.Cancel()
		ts.clear()
		ts.turnID++
		ts.playerIdx[team.Name] = pi
		ts.ActiveTeam = team.Name
		ts.ActivePlayer = team.Players[pi]
		return nil
	}

	return ts.BeginTurn(teams, connected)
}

// HasActivePlayer reports whether a turn has been announced
func (ts *TurnScheduler) HasActivePlayer() bool {
	return ts.ActivePlayer != ""
}

// HasWord reports whether a word is currently drawn
func (ts *TurnScheduler) HasWord() bool {
	return ts.hasWord
}

// Draw takes a word from the pool. The first draw of a turn starts the clock.
func (ts *TurnScheduler) Draw(pool *WordPool) (string, error) {
	if ts.hasWord {
		return "", ErrWordAlreadyDrawn
	}
	word, err := pool.Draw()
	if err != nil {
		return "", err
	}
	if !ts.Active {
		ts.Active = true
		ts.StartedAt = ts.clock.Now()
		ts.arm()
	}
	ts.CurrentWord = word
	ts.hasWord = true
	return word, nil
}

// Guess resolves the current word as guessed and returns it
func (ts *TurnScheduler) Guess() (string, error) {
	if !ts.Active {
		return "", ErrNoActiveTurn
	}
	if !ts.hasWord {
		return "", ErrNoWordDrawn
	}
	word := ts.CurrentWord
	ts.GuessedThisTurn = append(ts.GuessedThisTurn, word)
	ts.CurrentWord = ""
	ts.hasWord = false
	return word, nil
}

// Skip returns the current word to the pool. The clock keeps running.
func (ts *TurnScheduler) Skip(pool *WordPool) error {
	if !ts.Active {
		return ErrNoActiveTurn
	}
	if !ts.hasWord {
		return ErrNoWordDrawn
	}
	pool.Skip(ts.CurrentWord)
	ts.CurrentWord = ""
	ts.hasWord = false
	return nil
}

// End stops the turn, returning any in-flight word to the pool, and yields
// the words guessed during it.
func (ts *TurnScheduler) End(pool *WordPool) []string {
	ts.Cancel()
	if ts.hasWord {
		pool.Skip(ts.CurrentWord)
	}
	guessed := ts.GuessedThisTurn
	ts.clear()
	return guessed
}

// Expired reports whether a timer callback for turnID still applies
func (ts *TurnScheduler) Expired(turnID uint64) bool {
	return ts.Active && turnID == ts.turnID
}

// TurnID returns the id of the current turn
func (ts *TurnScheduler) TurnID() uint64 {
	return ts.turnID
}

// EndsAt returns when the running turn times out
func (ts *TurnScheduler) EndsAt() (time.Time, bool) {
	if !ts.Active {
		return time.Time{}, false
	}
	return ts.StartedAt.Add(ts.duration), true
}

// TimerLive reports whether a turn timer is scheduled
func (ts *TurnScheduler) TimerLive() bool {
	return ts.timer != nil
}

// Cancel stops the pending timer, if any
func (ts *TurnScheduler) Cancel() {
	if ts.timer != nil {
		ts.timer.Stop()
		ts.timer = nil
	}
}

func (ts *TurnScheduler) arm() {
	ts.Cancel()
	id := ts.turnID
	ts.timer = ts.clock.AfterFunc(ts.duration, func() {
		ts.onExpire(id)
	})
}

func (ts *TurnScheduler) clear() {
	ts.ActiveTeam = ""
	ts.ActivePlayer = ""
	ts.CurrentWord = ""
	ts.hasWord = false
	ts.Active = false
	ts.StartedAt = time.Time{}
	ts.GuessedThisTurn = nil
}
