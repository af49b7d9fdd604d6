package progression

import (
	"totocalcio/internal/apperr"
	"totocalcio/internal/models"
	"totocalcio/internal/validation"
)

var tournamentTransitions = map[models.TournamentState][]models.TournamentState{
	models.TournamentStateSettingInitialParameters: {models.TournamentStateAddingParticipants},
	models.TournamentStateAddingParticipants:       {models.TournamentStateInProgress},
	models.TournamentStateInProgress:               {models.TournamentStateConcluded},
}

var roundTransitions = map[models.RoundState][]models.RoundState{
	models.RoundStateCreatingFirstRound:  {models.RoundStateSelectingDate},
	models.RoundStateCreatingNextRound:   {models.RoundStateSelectingDate},
	models.RoundStateCreatingLastRound:   {models.RoundStateSelectingDate},
	models.RoundStateSelectingDate:       {models.RoundStateEnteringTeams},
	models.RoundStateEnteringTeams:       {models.RoundStateEnteringPredictions},
	models.RoundStateEnteringPredictions: {models.RoundStateEnteringResults},
	models.RoundStateEnteringResults:     {models.RoundStateViewingReport},
	models.RoundStateViewingReport:       {models.RoundStateRoundConcluded},
	models.RoundStateRoundConcluded:      {models.RoundStateViewingFinalReport},
	models.RoundStateViewingFinalReport:  {models.RoundStateTournamentCompleted},
}

// CanTransitionTournament reports whether from -> to is a legal tournament transition.
func CanTransitionTournament(from, to models.TournamentState) bool {
	for _, next := range tournamentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransitionRound reports whether from -> to is a legal round transition.
func CanTransitionRound(from, to models.RoundState) bool {
	for _, next := range roundTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionTournament moves t to the given state if the table allows it.
func TransitionTournament(t *models.Tournament, to models.TournamentState) error {
	if !CanTransitionTournament(t.State, to) {
		return apperr.State("tournament cannot move from %s to %s", t.State, to)
	}
	t.State = to
	return nil
}

// TransitionRound moves r to the given state if the table allows it.
func TransitionRound(r *models.Round, to models.RoundState) error {
	if !CanTransitionRound(r.State, to) {
		return apperr.State("round %d cannot move from %s to %s", r.RoundNumber, r.State, to)
	}
	r.State = to
	return nil
}

// RequireTournamentState fails with a state error unless t is in one of states.
func RequireTournamentState(t *models.Tournament, states ...models.TournamentState) error {
	for _, s := range states {
		if t.State == s {
			return nil
		}
	}
	return apperr.State("operation not allowed while tournament is %s", t.State)
}

// RequireRoundState fails with a state error unless r is in one of states.
func RequireRoundState(r *models.Round, states ...models.RoundState) error {
	for _, s := range states {
		if r.State == s {
			return nil
		}
	}
	return apperr.State("operation not allowed while round %d is %s", r.RoundNumber, r.State)
}

// CreationState is the state a freshly created round starts in.
func CreationState(roundNumber, numRounds int) models.RoundState {
	switch {
	case roundNumber == 1:
		return models.RoundStateCreatingFirstRound
	case roundNumber == numRounds:
		return models.RoundStateCreatingLastRound
	default:
		return models.RoundStateCreatingNextRound
	}
}

// OpenTournament moves a tournament whose parameters are set to participant entry.
func OpenTournament(t *models.Tournament) error {
	return TransitionTournament(t, models.TournamentStateAddingParticipants)
}

// StartTournament fires once every participant slot is filled.
func StartTournament(t *models.Tournament, participants int64) error {
	if err := RequireTournamentState(t, models.TournamentStateAddingParticipants); err != nil {
		return err
	}
	if participants != int64(t.NumParticipants) {
		return apperr.State("tournament needs %d participants, has %d", t.NumParticipants, participants)
	}
	return TransitionTournament(t, models.TournamentStateInProgress)
}

// ConcludeTournament fires once every round of the season is concluded.
func ConcludeTournament(t *models.Tournament, rounds []models.Round) error {
	if err := RequireTournamentState(t, models.TournamentStateInProgress); err != nil {
		return err
	}
	if len(rounds) != t.NumRounds {
		return apperr.State("tournament has %d of %d rounds", len(rounds), t.NumRounds)
	}
	for i := range rounds {
		if !rounds[i].State.IsConcluded() {
			return apperr.State("round %d is not concluded", rounds[i].RoundNumber)
		}
	}
	return TransitionTournament(t, models.TournamentStateConcluded)
}

// OpenRound moves a round out of its creation state.
func OpenRound(r *models.Round) error {
	if !r.State.IsCreating() {
		return apperr.State("round %d is not being created", r.RoundNumber)
	}
	return TransitionRound(r, models.RoundStateSelectingDate)
}

// EnterTeams requires the round date to be set.
func EnterTeams(r *models.Round) error {
	if err := RequireRoundState(r, models.RoundStateSelectingDate); err != nil {
		return err
	}
	if r.Date == nil {
		return apperr.State("round %d has no date", r.RoundNumber)
	}
	return TransitionRound(r, models.RoundStateEnteringTeams)
}

// EnterPredictions requires exactly the configured number of matches, each
// with two distinct teams and no team repeated.
func EnterPredictions(r *models.Round, t *models.Tournament, matches []models.Match) error {
	if err := RequireRoundState(r, models.RoundStateEnteringTeams); err != nil {
		return err
	}
	if len(matches) != t.NumMatchesPerRound {
		return apperr.State("round %d has %d of %d matches", r.RoundNumber, len(matches), t.NumMatchesPerRound)
	}
	seen := make(map[string]bool, 2*len(matches))
	for _, m := range matches {
		home, away := validation.FoldKey(m.HomeTeam), validation.FoldKey(m.AwayTeam)
		if home == "" || away == "" || home == away || seen[home] || seen[away] {
			return apperr.State("round %d has an invalid match list", r.RoundNumber)
		}
		seen[home], seen[away] = true, true
	}
	return TransitionRound(r, models.RoundStateEnteringPredictions)
}

// EnterResults requires one prediction per participant per match.
func EnterResults(r *models.Round, t *models.Tournament, predictions int64) error {
	if err := RequireRoundState(r, models.RoundStateEnteringPredictions); err != nil {
		return err
	}
	if predictions != t.ExpectedPredictions() {
		return apperr.State("round %d has %d of %d predictions", r.RoundNumber, predictions, t.ExpectedPredictions())
	}
	return TransitionRound(r, models.RoundStateEnteringResults)
}

// ViewReport requires a result, decisive or administrative, on every match.
func ViewReport(r *models.Round, matches []models.Match) error {
	if err := RequireRoundState(r, models.RoundStateEnteringResults); err != nil {
		return err
	}
	if len(matches) == 0 {
		return apperr.State("round %d has no matches", r.RoundNumber)
	}
	for i := range matches {
		if !matches[i].HasResult() {
			return apperr.State("round %d has matches without a result", r.RoundNumber)
		}
	}
	return TransitionRound(r, models.RoundStateViewingReport)
}

// ConcludeRound closes a round whose report has been produced.
func ConcludeRound(r *models.Round) error {
	if err := RequireRoundState(r, models.RoundStateViewingReport); err != nil {
		return err
	}
	return TransitionRound(r, models.RoundStateRoundConcluded)
}

// ViewFinalReport moves the concluded last round to the final report.
func ViewFinalReport(r *models.Round, t *models.Tournament) error {
	if !t.IsLastRound(r.RoundNumber) {
		return apperr.State("round %d is not the last round", r.RoundNumber)
	}
	return TransitionRound(r, models.RoundStateViewingFinalReport)
}

// CompleteTournament marks the last round as the end of the season.
func CompleteTournament(r *models.Round) error {
	return TransitionRound(r, models.RoundStateTournamentCompleted)
}
