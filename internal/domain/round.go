package domain

// RoundDef describes one round's guessing rule
type RoundDef struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DefaultRounds returns the standard three-round game
func DefaultRounds() []RoundDef {
	return []RoundDef{
		{Name: "Describe", Description: "Describe the word without saying it"},
		{Name: "One Word", Description: "Use only ONE word to describe it"},
		{Name: "Act Out", Description: "Act the word out without speaking"},
	}
}

// TeamScore is a team's running total and per-round breakdown
type TeamScore struct {
	Total       int   `json:"total"`
	RoundScores []int `json:"roundScores"`
}

// Scoreboard tracks scores for every team across rounds
type Scoreboard map[string]*TeamScore

// NewScoreboard creates zeroed scores for teams over rounds rounds
func NewScoreboard(teams []*Team, rounds int) Scoreboard {
	sb := make(Scoreboard, len(teams))
	for _, t := range teams {
		sb[t.Name] = &TeamScore{RoundScores: make([]int, rounds)}
	}
	return sb
}

// Add credits one point to team in round
func (sb Scoreboard) Add(team string, round int) {
	ts, ok := sb[team]
	if !ok || round < 0 || round >= len(ts.RoundScores) {
		return
	}
	ts.Total++
	ts.RoundScores[round]++
}

// Copy returns a deep copy safe to hand to other goroutines
func (sb Scoreboard) Copy() map[string]TeamScore {
	out := make(map[string]TeamScore, len(sb))
	for name, ts := range sb {
		rs := make([]int, len(ts.RoundScores))
		copy(rs, ts.RoundScores)
		out[name] = TeamScore{Total: ts.Total, RoundScores: rs}
	}
	return out
}

// Winners returns every team sharing the highest total, in team order
func (sb Scoreboard) Winners(order []string) []string {
	best := -1
	var winners []string
	for _, name := range order {
		ts, ok := sb[name]
		if !ok {
			continue
		}
		switch {
		case ts.Total > best:
			best = ts.Total
			winners = []string{name}
		case ts.Total == best:
			winners = append(winners, name)
		}
	}
	return winners
}
