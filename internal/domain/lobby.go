package domain

// AssignTeam moves target onto teamName. Only the leader may do this, and
// only before teams are locked.
func (r *Room) AssignTeam(requester, target, teamName string) error {
	if !r.phase.IsPreGame() {
		return ErrInvalidPhase
	}
	if err := r.requireLeader(requester); err != nil {
		return err
	}

	p := r.find(target)
	if p == nil {
		return ErrPlayerNotFound
	}

	teams, err := r.assigner.Reassign(r.teams, p, teamName)
	if err != nil {
		return err
	}
	r.teams = teams
	r.enterTeamFormation()

	return nil
}

// JoinTeam moves the requester onto teamName. Any player may pick or switch
// their own team until teams are locked.
func (r *Room) JoinTeam(requester, teamName string) error {
	if !r.phase.IsPreGame() {
		return ErrInvalidPhase
	}

	p := r.find(requester)
	if p == nil {
		return ErrPlayerNotFound
	}

	teams, err := r.assigner.Reassign(r.teams, p, teamName)
	if err != nil {
		return err
	}
	r.teams = teams
	r.enterTeamFormation()

	return nil
}

// RandomizeTeams deals every connected player across teamCount teams. Zero
// means the configured default.
func (r *Room) RandomizeTeams(requester string, teamCount int) error {
	if !r.phase.IsPreGame() {
		return ErrInvalidPhase
	}
	if err := r.requireLeader(requester); err != nil {
		return err
	}

	if teamCount == 0 {
		teamCount = r.Settings.TeamCount
	}
	if teamCount < 2 || teamCount > r.Settings.MaxTeams {
		return ErrInvalidTeamCount
	}
	if r.ConnectedCount() < teamCount*r.Settings.MinTeamSize {
		return ErrNotEnoughPlayers
	}

	teams, err := r.assigner.Assign(r.players, teamCount)
	if err != nil {
		return err
	}
	r.teams = teams
	r.enterTeamFormation()

	return nil
}

// LockTeams freezes team membership and opens word submission
func (r *Room) LockTeams(requester string) error {
	if r.phase != PhaseTeamFormation {
		return ErrInvalidPhase
	}
	if err := r.requireLeader(requester); err != nil {
		return err
	}

	for _, p := range r.players {
		if p.Connected && p.Team == "" {
			return ErrUnassignedPlayers
		}
	}

	teams := NonEmpty(r.teams)
	if len(teams) < 2 {
		return ErrNotEnoughPlayers
	}
	for _, t := range teams {
		if len(t.Players) < r.Settings.MinTeamSize {
			return ErrNotEnoughPlayers
		}
	}
	if !Balanced(teams) {
		return ErrTeamsUnbalanced
	}
	if err := r.checkRoster(); err != nil {
		return err
	}

	// Disconnected players without a team cannot take part any more
	kept := make([]*Player, 0, len(r.players))
	for _, p := range r.players {
		if !p.Connected && p.Team == "" {
			r.emit(EventPlayerLeft, PlayerLeftPayload{PlayerName: p.Name, Removed: true})
			continue
		}
		kept = append(kept, p)
	}
	r.players = kept
	r.teams = teams

	if err := r.transition(PhaseWordSubmission); err != nil {
		return err
	}
	r.emit(EventTeamsLocked, TeamsLockedPayload{Teams: r.copyTeams()})

	return nil
}

// SubmitWords records the requester's words, replacing an earlier set
func (r *Room) SubmitWords(requester string, words []string) error {
	if r.phase != PhaseWordSubmission {
		return ErrInvalidPhase
	}

	p := r.find(requester)
	if p == nil {
		return ErrPlayerNotFound
	}

	clean, err := ValidateWords(words, r.Settings.RequiredWords)
	if err != nil {
		return err
	}

	first := !p.HasSubmitted()
	p.Words = clean
	if first {
		r.emit(EventPlayerSubmittedWords, PlayerSubmittedPayload{PlayerName: p.Name})
	}
	r.maybeAutoStart()

	return nil
}

// StartGame begins play once every connected player has submitted
func (r *Room) StartGame(requester string) error {
	if r.phase != PhaseWordSubmission {
		return ErrInvalidPhase
	}
	if err := r.requireLeader(requester); err != nil {
		return err
	}
	if !r.allSubmitted() {
		return ErrWordsMissing
	}
	if !Balanced(r.teams) {
		return ErrTeamsUnbalanced
	}

	r.beginGame()
	return nil
}

func (r *Room) allSubmitted() bool {
	connected := 0
	for _, p := range r.players {
		if !p.Connected {
			continue
		}
		connected++
		if len(p.Words) != r.Settings.RequiredWords {
			return false
		}
	}
	return connected > 0
}

func (r *Room) maybeAutoStart() {
	if r.Settings.AutoStart && r.phase == PhaseWordSubmission && r.allSubmitted() {
		r.beginGame()
	}
}

func (r *Room) maybeFormTeams() {
	if r.phase == PhaseWaiting && r.ConnectedCount() >= r.Settings.TeamCount*r.Settings.MinTeamSize {
		r.phase = PhaseTeamFormation
	}
}

func (r *Room) enterTeamFormation() {
	if r.phase == PhaseWaiting {
		r.phase = PhaseTeamFormation
	}
}

func (r *Room) beginGame() {
	r.pool.Build(r.players)
	r.scores = NewScoreboard(r.teams, len(r.Settings.Rounds))
	r.roundIndex = 0
	r.winners = nil

	r.emit(EventGameStarted, GameStartedPayload{
		Rounds:     r.Settings.Rounds,
		TotalWords: r.pool.Total(),
	})
	r.startRound()
}
