package progression

import (
	"fmt"
	"testing"
	"time"

	"totocalcio/internal/apperr"
	"totocalcio/internal/models"
)

func testTournament() *models.Tournament {
	return &models.Tournament{
		NumRounds:          36,
		NumMatchesPerRound: 13,
		NumParticipants:    20,
		State:              models.TournamentStateAddingParticipants,
	}
}

func fixtures(n int) []models.Match {
	matches := make([]models.Match, n)
	for i := range matches {
		matches[i] = models.Match{
			ID:       uint(i + 1),
			HomeTeam: fmt.Sprintf("Home %d", i),
			AwayTeam: fmt.Sprintf("Away %d", i),
		}
	}
	return matches
}

func TestRoundStateNeverRegresses(t *testing.T) {
	for from, targets := range roundTransitions {
		for _, to := range targets {
			if CanTransitionRound(to, from) {
				t.Errorf("round transition %s -> %s is reversible", from, to)
			}
		}
	}
	if CanTransitionRound(models.RoundStateEnteringResults, models.RoundStateEnteringTeams) {
		t.Error("expected backward transition to be rejected")
	}
	if CanTransitionRound(models.RoundStateSelectingDate, models.RoundStateEnteringResults) {
		t.Error("expected skipping states to be rejected")
	}
	if CanTransitionRound(models.RoundStateTournamentCompleted, models.RoundStateSelectingDate) {
		t.Error("terminal state must have no transitions")
	}
}

func TestTournamentTransitions(t *testing.T) {
	if !CanTransitionTournament(models.TournamentStateAddingParticipants, models.TournamentStateInProgress) {
		t.Error("expected ADDING_PARTICIPANTS -> IN_PROGRESS")
	}
	if CanTransitionTournament(models.TournamentStateAddingParticipants, models.TournamentStateConcluded) {
		t.Error("expected ADDING_PARTICIPANTS -> CONCLUDED to be rejected")
	}
	if CanTransitionTournament(models.TournamentStateConcluded, models.TournamentStateInProgress) {
		t.Error("concluded tournaments must not reopen")
	}
}

func TestStartTournamentRequiresFullRoster(t *testing.T) {
	tournament := testTournament()

	err := StartTournament(tournament, 19)
	if !apperr.Is(err, apperr.KindState) {
		t.Fatalf("expected state error, got %v", err)
	}
	if tournament.State != models.TournamentStateAddingParticipants {
		t.Fatalf("state changed on failure: %s", tournament.State)
	}

	if err := StartTournament(tournament, 20); err != nil {
		t.Fatalf("StartTournament failed: %v", err)
	}
	if tournament.State != models.TournamentStateInProgress {
		t.Errorf("expected IN_PROGRESS, got %s", tournament.State)
	}
}

func TestConcludeTournamentRequiresAllRoundsConcluded(t *testing.T) {
	tournament := testTournament()
	tournament.State = models.TournamentStateInProgress
	tournament.NumRounds = 3

	rounds := []models.Round{
		{RoundNumber: 1, State: models.RoundStateRoundConcluded},
		{RoundNumber: 2, State: models.RoundStateRoundConcluded},
		{RoundNumber: 3, State: models.RoundStateViewingReport},
	}
	if err := ConcludeTournament(tournament, rounds); !apperr.Is(err, apperr.KindState) {
		t.Fatalf("expected state error, got %v", err)
	}

	if err := ConcludeTournament(tournament, rounds[:2]); !apperr.Is(err, apperr.KindState) {
		t.Fatalf("expected state error for missing rounds, got %v", err)
	}

	rounds[2].State = models.RoundStateViewingFinalReport
	if err := ConcludeTournament(tournament, rounds); err != nil {
		t.Fatalf("ConcludeTournament failed: %v", err)
	}
	if tournament.State != models.TournamentStateConcluded {
		t.Errorf("expected CONCLUDED, got %s", tournament.State)
	}
}

func TestCreationState(t *testing.T) {
	tests := []struct {
		number int
		want   models.RoundState
	}{
		{1, models.RoundStateCreatingFirstRound},
		{2, models.RoundStateCreatingNextRound},
		{35, models.RoundStateCreatingNextRound},
		{36, models.RoundStateCreatingLastRound},
	}
	for _, tt := range tests {
		if got := CreationState(tt.number, 36); got != tt.want {
			t.Errorf("CreationState(%d) = %s, want %s", tt.number, got, tt.want)
		}
	}
}

func TestRoundLifecycle(t *testing.T) {
	tournament := testTournament()
	tournament.State = models.TournamentStateInProgress
	round := &models.Round{RoundNumber: 36, State: CreationState(36, 36)}

	if err := OpenRound(round); err != nil {
		t.Fatalf("OpenRound failed: %v", err)
	}

	if err := EnterTeams(round); !apperr.Is(err, apperr.KindState) {
		t.Fatalf("expected state error without date, got %v", err)
	}
	date := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	round.Date = &date
	if err := EnterTeams(round); err != nil {
		t.Fatalf("EnterTeams failed: %v", err)
	}

	matches := fixtures(12)
	if err := EnterPredictions(round, tournament, matches); !apperr.Is(err, apperr.KindState) {
		t.Fatalf("expected state error with 12 matches, got %v", err)
	}
	matches = fixtures(13)
	if err := EnterPredictions(round, tournament, matches); err != nil {
		t.Fatalf("EnterPredictions failed: %v", err)
	}

	if err := EnterResults(round, tournament, 259); !apperr.Is(err, apperr.KindState) {
		t.Fatalf("expected state error with missing predictions, got %v", err)
	}
	if err := EnterResults(round, tournament, 260); err != nil {
		t.Fatalf("EnterResults failed: %v", err)
	}

	if err := ViewReport(round, matches); !apperr.Is(err, apperr.KindState) {
		t.Fatalf("expected state error with missing results, got %v", err)
	}
	for i := range matches {
		outcome := models.MatchResultDraw
		if i == 0 {
			outcome = models.MatchResultCancelled
		}
		matches[i].Result = &outcome
	}
	if err := ViewReport(round, matches); err != nil {
		t.Fatalf("ViewReport failed: %v", err)
	}

	if err := ConcludeRound(round); err != nil {
		t.Fatalf("ConcludeRound failed: %v", err)
	}
	if err := ViewFinalReport(round, tournament); err != nil {
		t.Fatalf("ViewFinalReport failed: %v", err)
	}
	if err := CompleteTournament(round); err != nil {
		t.Fatalf("CompleteTournament failed: %v", err)
	}
	if round.State != models.RoundStateTournamentCompleted {
		t.Errorf("expected TOURNAMENT_COMPLETED, got %s", round.State)
	}
}

func TestEnterPredictionsRejectsRepeatedTeam(t *testing.T) {
	tournament := testTournament()
	round := &models.Round{RoundNumber: 1, State: models.RoundStateEnteringTeams}

	matches := fixtures(13)
	matches[5].AwayTeam = "home 0"
	if err := EnterPredictions(round, tournament, matches); !apperr.Is(err, apperr.KindState) {
		t.Fatalf("expected state error, got %v", err)
	}
	if round.State != models.RoundStateEnteringTeams {
		t.Errorf("state changed on failure: %s", round.State)
	}
}

func TestViewFinalReportOnlyForLastRound(t *testing.T) {
	tournament := testTournament()
	round := &models.Round{RoundNumber: 4, State: models.RoundStateRoundConcluded}
	if err := ViewFinalReport(round, tournament); !apperr.Is(err, apperr.KindState) {
		t.Fatalf("expected state error, got %v", err)
	}
}

func TestRequireRoundState(t *testing.T) {
	round := &models.Round{RoundNumber: 2, State: models.RoundStateEnteringTeams}
	if err := RequireRoundState(round, models.RoundStateEnteringResults, models.RoundStateViewingReport); !apperr.Is(err, apperr.KindState) {
		t.Fatalf("expected state error, got %v", err)
	}
	if err := RequireRoundState(round, models.RoundStateSelectingDate, models.RoundStateEnteringTeams); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
