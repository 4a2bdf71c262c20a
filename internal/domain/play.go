package domain

import "errors"

// DrawWord takes the next word from the hat for the active player. The
// first draw of a turn starts the turn timer.
func (r *Room) DrawWord(requester string) (string, error) {
	if err := r.requireActivePlayer(requester); err != nil {
		return "", err
	}

	word, err := r.turn.Draw(r.pool)
	if errors.Is(err, ErrPoolEmpty) {
		r.endRound()
		return "", nil
	}
	if err != nil {
		return "", err
	}

	endsAt, _ := r.turn.EndsAt()
	r.emitTo(requester, EventWordDrawn, WordDrawnPayload{Word: word, TurnEndsAt: endsAt})

	return word, nil
}

// WordGuessed scores the drawn word for the active team. When the hat is
// empty afterwards the round ends.
func (r *Room) WordGuessed(requester string) error {
	if err := r.requireActivePlayer(requester); err != nil {
		return err
	}

	word, err := r.turn.Guess()
	if err != nil {
		return err
	}
	r.scores.Add(r.turn.ActiveTeam, r.roundIndex)
	r.guessedThisRound = append(r.guessedThisRound, word)

	if r.pool.Empty() {
		r.endRound()
	}
	return nil
}

// SkipWord puts the drawn word back into the hat
func (r *Room) SkipWord(requester string) error {
	if err := r.requireActivePlayer(requester); err != nil {
		return err
	}
	return r.turn.Skip(r.pool)
}

// EndTurn stops a running turn early. The active player or the leader may
// call it.
func (r *Room) EndTurn(requester string) error {
	if r.phase != PhasePlaying {
		return ErrInvalidPhase
	}
	if !r.turn.Active {
		return ErrNoActiveTurn
	}
	if requester != r.turn.ActivePlayer && requester != r.leader {
		return ErrNotYourTurn
	}

	r.endTurn(TurnEndManual)
	return nil
}

// ExpireTurn handles a turn timer firing. Callbacks for a turn that already
// ended are ignored.
func (r *Room) ExpireTurn(turnID uint64) bool {
	if r.phase != PhasePlaying || !r.turn.Expired(turnID) {
		return false
	}
	r.endTurn(TurnEndTimeout)
	return true
}

// StartNextRound refills the hat for the next round, or finishes the game
// after the last one.
func (r *Room) StartNextRound(requester string) error {
	if r.phase != PhaseRoundOver {
		return ErrInvalidPhase
	}
	if err := r.requireLeader(requester); err != nil {
		return err
	}

	if r.roundIndex+1 >= len(r.Settings.Rounds) {
		return r.finish()
	}
	r.roundIndex++
	r.startRound()
	return nil
}

func (r *Room) requireActivePlayer(requester string) error {
	if r.phase != PhasePlaying {
		return ErrInvalidPhase
	}
	if !r.turn.HasActivePlayer() {
		return ErrNoActiveTurn
	}
	if requester != r.turn.ActivePlayer {
		return ErrNotYourTurn
	}
	return nil
}

func (r *Room) startRound() {
	r.pool.StartRound()
	r.guessedThisRound = nil
	r.turn.Reset()
	r.phase = PhasePlaying
	r.beginTurn()
}

func (r *Room) beginTurn() {
	r.announceTurn(r.turn.BeginTurn(r.teams, r.isConnected))
}

// repickTurn hands an idle turn to a teammate of the player who left
func (r *Room) repickTurn() {
	r.announceTurn(r.turn.Repick(r.teams, r.isConnected))
}

func (r *Room) announceTurn(err error) {
	if err != nil {
		var de *Error
		if errors.As(err, &de) {
			r.emit(EventError, ErrorPayload{Code: de.Code, Message: de.Message})
		}
		return
	}
	r.emit(EventTurnStart, TurnStartPayload{
		Team:       r.turn.ActiveTeam,
		Player:     r.turn.ActivePlayer,
		RoundIndex: r.roundIndex,
	})
}

func (r *Room) endTurn(reason TurnEndReason) {
	team, player := r.turn.ActiveTeam, r.turn.ActivePlayer
	guessed := r.turn.End(r.pool)
	r.emit(EventTurnEnd, TurnEndPayload{
		Team:         team,
		Player:       player,
		Reason:       reason,
		GuessedWords: nonNil(guessed),
	})
	r.beginTurn()
}

func (r *Room) endRound() {
	team, player := r.turn.ActiveTeam, r.turn.ActivePlayer
	guessed := r.turn.End(r.pool)
	r.emit(EventTurnEnd, TurnEndPayload{
		Team:         team,
		Player:       player,
		Reason:       TurnEndHatEmpty,
		GuessedWords: nonNil(guessed),
	})

	r.phase = PhaseRoundOver
	r.emit(EventRoundEnd, RoundEndPayload{
		RoundIndex: r.roundIndex,
		TeamScores: r.scores.Copy(),
		LastRound:  r.roundIndex+1 >= len(r.Settings.Rounds),
	})
}

func (r *Room) finish() error {
	if err := r.transition(PhaseFinished); err != nil {
		return err
	}
	r.winners = r.scores.Winners(r.teamOrder())
	r.emit(EventGameEnd, GameEndPayload{
		TeamScores: r.scores.Copy(),
		Winners:    r.winners,
		IsTie:      len(r.winners) > 1,
	})
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
