package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreboard_AddTracksRounds(t *testing.T) {
	teams := []*Team{{Name: "Team 1"}, {Name: "Team 2"}}
	sb := NewScoreboard(teams, 3)

	sb.Add("Team 1", 0)
	sb.Add("Team 1", 2)
	sb.Add("Team 2", 1)
	sb.Add("Team 3", 0)
	sb.Add("Team 2", 5)

	scores := sb.Copy()
	assert.Equal(t, TeamScore{Total: 2, RoundScores: []int{1, 0, 1}}, scores["Team 1"])
	assert.Equal(t, TeamScore{Total: 1, RoundScores: []int{0, 1, 0}}, scores["Team 2"])
	assert.NotContains(t, scores, "Team 3")

	scores["Team 1"].RoundScores[0] = 99
	assert.Equal(t, 1, sb["Team 1"].RoundScores[0], "copy must not alias")
}

func TestScoreboard_Winners(t *testing.T) {
	teams := []*Team{{Name: "Team 1"}, {Name: "Team 2"}, {Name: "Team 3"}}
	order := []string{"Team 1", "Team 2", "Team 3"}

	sb := NewScoreboard(teams, 1)
	sb.Add("Team 2", 0)
	assert.Equal(t, []string{"Team 2"}, sb.Winners(order))

	sb.Add("Team 3", 0)
	assert.Equal(t, []string{"Team 2", "Team 3"}, sb.Winners(order))

	assert.Equal(t, order, NewScoreboard(teams, 1).Winners(order))
}

func TestPhase_Transitions(t *testing.T) {
	assert.True(t, PhaseWaiting.CanTransitionTo(PhaseTeamFormation))
	assert.True(t, PhaseRoundOver.CanTransitionTo(PhasePlaying))
	assert.True(t, PhaseRoundOver.CanTransitionTo(PhaseFinished))
	assert.False(t, PhasePlaying.CanTransitionTo(PhaseFinished))
	assert.False(t, PhaseFinished.CanTransitionTo(PhaseWaiting))
	assert.False(t, PhaseWaiting.CanTransitionTo(PhasePlaying))

	assert.True(t, PhaseTeamFormation.IsPreGame())
	assert.False(t, PhaseWordSubmission.IsPreGame())
}
