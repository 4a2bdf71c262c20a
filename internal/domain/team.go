package domain

import (
	"fmt"
	"math/rand"
	"sort"
)

// MaxTeamsCap is the hard upper bound on teams in a room
const MaxTeamsCap = 4

// Team is an ordered list of player names
type Team struct {
	Name    string   `json:"name"`
	Players []string `json:"players"`
}

func (t *Team) remove(name string) {
	for i, p := range t.Players {
		if p == name {
			t.Players = append(t.Players[:i], t.Players[i+1:]...)
			return
		}
	}
}

// TeamName returns the display name of the i-th team (zero based)
func TeamName(i int) string {
	return fmt.Sprintf("Team %d", i+1)
}

// TeamAssigner builds and validates team membership
type TeamAssigner struct {
	rng      *rand.Rand
	maxTeams int
}

// NewTeamAssigner creates an assigner allowing up to maxTeams teams
func NewTeamAssigner(rng *rand.Rand, maxTeams int) *TeamAssigner {
	if maxTeams < 2 || maxTeams > MaxTeamsCap {
		maxTeams = MaxTeamsCap
	}
	return &TeamAssigner{rng: rng, maxTeams: maxTeams}
}

// Assign shuffles the connected players and deals them evenly across
// teamCount teams. Disconnected players lose their team.
func (ta *TeamAssigner) Assign(players []*Player, teamCount int) ([]*Team, error) {
	if teamCount < 2 || teamCount > ta.maxTeams {
		return nil, ErrInvalidTeamCount
	}

	connected := make([]*Player, 0, len(players))
	for _, p := range players {
		if p.Connected {
			connected = append(connected, p)
		}
	}
	if len(connected) < teamCount {
		return nil, ErrNotEnoughPlayers
	}
	for _, p := range players {
		p.Team = ""
	}

	ta.rng.Shuffle(len(connected), func(i, j int) {
		connected[i], connected[j] = connected[j], connected[i]
	})

	teams := make([]*Team, teamCount)
	for i := range teams {
		teams[i] = &Team{Name: TeamName(i), Players: []string{}}
	}
	for i, p := range connected {
		t := teams[i%teamCount]
		t.Players = append(t.Players, p.Name)
		p.Team = t.Name
	}

	return teams, nil
}

// Reassign moves player onto the named team, creating the team if needed.
// Balance is not enforced here; callers check Balanced before freezing.
func (ta *TeamAssigner) Reassign(teams []*Team, player *Player, teamName string) ([]*Team, error) {
	if !ta.validName(teamName) {
		return teams, ErrInvalidTeamName
	}
	if player.Team == teamName {
		return teams, nil
	}

	for _, t := range teams {
		if t.Name == player.Team {
			t.remove(player.Name)
		}
	}

	var target *Team
	for _, t := range teams {
		if t.Name == teamName {
			target = t
			break
		}
	}
	if target == nil {
		target = &Team{Name: teamName, Players: []string{}}
		teams = append(teams, target)
		sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	}

	target.Players = append(target.Players, player.Name)
	player.Team = teamName

	return teams, nil
}

// Remove drops a player from whichever team holds them
func (ta *TeamAssigner) Remove(teams []*Team, player *Player) {
	for _, t := range teams {
		if t.Name == player.Team {
			t.remove(player.Name)
		}
	}
	player.Team = ""
}

func (ta *TeamAssigner) validName(name string) bool {
	for i := 0; i < ta.maxTeams; i++ {
		if TeamName(i) == name {
			return true
		}
	}
	return false
}

// Balanced reports whether team sizes differ by at most one
func Balanced(teams []*Team) bool {
	if len(teams) == 0 {
		return false
	}
	minSize, maxSize := len(teams[0].Players), len(teams[0].Players)
	for _, t := range teams[1:] {
		n := len(t.Players)
		if n < minSize {
			minSize = n
		}
		if n > maxSize {
			maxSize = n
		}
	}
	return maxSize-minSize <= 1
}

// NonEmpty returns the teams that have at least one player
func NonEmpty(teams []*Team) []*Team {
	out := make([]*Team, 0, len(teams))
	for _, t := range teams {
		if len(t.Players) > 0 {
			out = append(out, t)
		}
	}
	return out
}
