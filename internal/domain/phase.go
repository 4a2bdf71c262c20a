package domain

// Phase represents the current phase of a room
type Phase string

const (
	PhaseWaiting        Phase = "WAITING"         // Players joining
	PhaseTeamFormation  Phase = "TEAM_FORMATION"  // Leader building teams
	PhaseWordSubmission Phase = "WORD_SUBMISSION" // Everyone writes their words
	PhasePlaying        Phase = "PLAYING"         // Timed turns until the hat is empty
	PhaseRoundOver      Phase = "ROUND_OVER"      // Waiting for the leader to continue
	PhaseFinished       Phase = "FINISHED"        // Final scores
)

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}

var validTransitions = map[Phase][]Phase{
	PhaseWaiting:        {PhaseTeamFormation},
	PhaseTeamFormation:  {PhaseWordSubmission},
	PhaseWordSubmission: {PhasePlaying},
	PhasePlaying:        {PhaseRoundOver},
	PhaseRoundOver:      {PhasePlaying, PhaseFinished},
}

// CanTransitionTo checks if a transition from current phase to target phase is valid
func (p Phase) CanTransitionTo(target Phase) bool {
	for _, phase := range validTransitions[p] {
		if phase == target {
			return true
		}
	}
	return false
}

// IsPreGame reports whether team membership is still mutable
func (p Phase) IsPreGame() bool {
	return p == PhaseWaiting || p == PhaseTeamFormation
}
