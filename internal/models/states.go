package models

// TournamentState is the lifecycle state of a tournament.
type TournamentState string

const (
	TournamentStateSettingInitialParameters TournamentState = "SETTING_INITIAL_PARAMETERS"
	TournamentStateAddingParticipants       TournamentState = "ADDING_PARTICIPANTS"
	TournamentStateInProgress               TournamentState = "IN_PROGRESS"
	TournamentStateConcluded                TournamentState = "CONCLUDED"
)

// TournamentStates lists every tournament state in lifecycle order.
var TournamentStates = []TournamentState{
	TournamentStateSettingInitialParameters,
	TournamentStateAddingParticipants,
	TournamentStateInProgress,
	TournamentStateConcluded,
}

// Valid reports whether s is one of the known tournament states.
func (s TournamentState) Valid() bool {
	switch s {
	case TournamentStateSettingInitialParameters,
		TournamentStateAddingParticipants,
		TournamentStateInProgress,
		TournamentStateConcluded:
		return true
	}
	return false
}

// RoundState is the progression state of a single round.
type RoundState string

const (
	RoundStateCreatingFirstRound  RoundState = "CREATING_FIRST_ROUND"
	RoundStateSelectingDate       RoundState = "SELECTING_DATE"
	RoundStateEnteringTeams       RoundState = "ENTERING_TEAMS"
	RoundStateEnteringPredictions RoundState = "ENTERING_PREDICTIONS"
	RoundStateEnteringResults     RoundState = "ENTERING_RESULTS"
	RoundStateViewingReport       RoundState = "VIEWING_REPORT"
	RoundStateRoundConcluded      RoundState = "ROUND_CONCLUDED"
	RoundStateCreatingNextRound   RoundState = "CREATING_NEXT_ROUND"
	RoundStateCreatingLastRound   RoundState = "CREATING_LAST_ROUND"
	RoundStateViewingFinalReport  RoundState = "VIEWING_FINAL_REPORT"
	RoundStateTournamentCompleted RoundState = "TOURNAMENT_COMPLETED"
)

// RoundStates lists every round state.
var RoundStates = []RoundState{
	RoundStateCreatingFirstRound,
	RoundStateSelectingDate,
	RoundStateEnteringTeams,
	RoundStateEnteringPredictions,
	RoundStateEnteringResults,
	RoundStateViewingReport,
	RoundStateRoundConcluded,
	RoundStateCreatingNextRound,
	RoundStateCreatingLastRound,
	RoundStateViewingFinalReport,
	RoundStateTournamentCompleted,
}

// Valid reports whether s is one of the known round states.
func (s RoundState) Valid() bool {
	for _, known := range RoundStates {
		if s == known {
			return true
		}
	}
	return false
}

// IsConcluded reports whether the round no longer accepts data.
func (s RoundState) IsConcluded() bool {
	switch s {
	case RoundStateRoundConcluded, RoundStateViewingFinalReport, RoundStateTournamentCompleted:
		return true
	}
	return false
}

// IsCreating reports whether s is one of the transient creation states.
func (s RoundState) IsCreating() bool {
	switch s {
	case RoundStateCreatingFirstRound, RoundStateCreatingNextRound, RoundStateCreatingLastRound:
		return true
	}
	return false
}

// MatchResult is an official match outcome. The first three values are decisive
// and double as the prediction symbols.
type MatchResult string

const (
	MatchResultHomeWin   MatchResult = "1"
	MatchResultDraw      MatchResult = "X"
	MatchResultAwayWin   MatchResult = "2"
	MatchResultSuspended MatchResult = "SUSPENDED"
	MatchResultPostponed MatchResult = "POSTPONED"
	MatchResultDelayed   MatchResult = "DELAYED"
	MatchResultCancelled MatchResult = "CANCELLED"
)

// DecisiveResults are the only outcomes that can be predicted and scored.
var DecisiveResults = []MatchResult{MatchResultHomeWin, MatchResultDraw, MatchResultAwayWin}

// AdministrativeResults close a match without a sporting outcome.
var AdministrativeResults = []MatchResult{
	MatchResultSuspended,
	MatchResultPostponed,
	MatchResultDelayed,
	MatchResultCancelled,
}

// IsDecisive reports whether r is home win, draw or away win.
func (r MatchResult) IsDecisive() bool {
	switch r {
	case MatchResultHomeWin, MatchResultDraw, MatchResultAwayWin:
		return true
	}
	return false
}

// IsAdministrative reports whether r is one of the non-scoring outcomes.
func (r MatchResult) IsAdministrative() bool {
	switch r {
	case MatchResultSuspended, MatchResultPostponed, MatchResultDelayed, MatchResultCancelled:
		return true
	}
	return false
}

// Valid reports whether r is one of the seven recognised outcomes.
func (r MatchResult) Valid() bool {
	return r.IsDecisive() || r.IsAdministrative()
}
