package services

import (
	"context"

	"totocalcio/internal/apperr"
	"totocalcio/internal/models"
	"totocalcio/internal/repository"
	"totocalcio/internal/scoring"
)

// ActiveTournament returns the tournament that is not concluded yet.
func (s *PoolService) ActiveTournament(ctx context.Context) (*models.Tournament, error) {
	return tournamentOrActive(ctx, s.repo, 0)
}

// LoadTournament returns a tournament by id.
func (s *PoolService) LoadTournament(ctx context.Context, tournamentID uint) (*models.Tournament, error) {
	if tournamentID == 0 {
		return nil, apperr.Validation("tournament id is required")
	}
	return tournamentOrActive(ctx, s.repo, tournamentID)
}

// ListTournaments returns every tournament, newest first.
func (s *PoolService) ListTournaments(ctx context.Context) ([]models.Tournament, error) {
	tournaments, err := s.repo.ListTournaments(ctx)
	if err != nil {
		return nil, apperr.Database(err, "failed to list tournaments")
	}
	return tournaments, nil
}

// CurrentRound returns the round the active tournament is playing.
func (s *PoolService) CurrentRound(ctx context.Context) (*models.Round, error) {
	t, err := tournamentOrActive(ctx, s.repo, 0)
	if err != nil {
		return nil, err
	}
	if t.CurrentRound == 0 {
		return nil, apperr.NotFound("tournament %q has not started", t.Name)
	}
	return s.round(ctx, t, t.CurrentRound)
}

func (s *PoolService) round(ctx context.Context, t *models.Tournament, number int) (*models.Round, error) {
	if number == 0 {
		number = t.CurrentRound
	}
	round, err := s.repo.GetRound(ctx, t.ID, number)
	if repository.IsNotFound(err) {
		return nil, apperr.NotFound("round %d not found", number)
	}
	if err != nil {
		return nil, apperr.Database(err, "failed to load round %d", number)
	}
	return round, nil
}

// Rounds returns the rounds of the active tournament ordered by number.
func (s *PoolService) Rounds(ctx context.Context) ([]models.Round, error) {
	t, err := tournamentOrActive(ctx, s.repo, 0)
	if err != nil {
		return nil, err
	}
	rounds, err := s.repo.ListRounds(ctx, t.ID)
	if err != nil {
		return nil, apperr.Database(err, "failed to list rounds")
	}
	return rounds, nil
}

// Participants returns the participants of the active tournament.
func (s *PoolService) Participants(ctx context.Context) ([]models.Participant, error) {
	t, err := tournamentOrActive(ctx, s.repo, 0)
	if err != nil {
		return nil, err
	}
	participants, err := s.repo.ListParticipants(ctx, t.ID)
	if err != nil {
		return nil, apperr.Database(err, "failed to list participants")
	}
	return participants, nil
}

// Matches returns the matches of a round of the active tournament. Zero
// means the current round.
func (s *PoolService) Matches(ctx context.Context, roundNumber int) ([]models.Match, error) {
	t, err := tournamentOrActive(ctx, s.repo, 0)
	if err != nil {
		return nil, err
	}
	round, err := s.round(ctx, t, roundNumber)
	if err != nil {
		return nil, err
	}
	matches, err := s.repo.ListMatches(ctx, round.ID)
	if err != nil {
		return nil, apperr.Database(err, "failed to list matches")
	}
	return matches, nil
}

// PendingMatches lists matches of the current round that were suspended,
// postponed or delayed and may still receive a played result.
func (s *PoolService) PendingMatches(ctx context.Context) ([]models.Match, error) {
	matches, err := s.Matches(ctx, 0)
	if err != nil {
		return nil, err
	}
	var pending []models.Match
	for _, m := range matches {
		if m.Result == nil {
			continue
		}
		switch *m.Result {
		case models.MatchResultSuspended, models.MatchResultPostponed, models.MatchResultDelayed:
			pending = append(pending, m)
		}
	}
	return pending, nil
}

// Predictions returns a participant's picks for a round. Zero means the
// current round.
func (s *PoolService) Predictions(ctx context.Context, participantID uint, roundNumber int) ([]models.Prediction, error) {
	t, err := tournamentOrActive(ctx, s.repo, 0)
	if err != nil {
		return nil, err
	}
	if _, err := s.participant(ctx, t, participantID); err != nil {
		return nil, err
	}
	round, err := s.round(ctx, t, roundNumber)
	if err != nil {
		return nil, err
	}
	predictions, err := s.repo.ListParticipantPredictions(ctx, participantID, round.ID)
	if err != nil {
		return nil, apperr.Database(err, "failed to list predictions")
	}
	return predictions, nil
}

func (s *PoolService) participant(ctx context.Context, t *models.Tournament, participantID uint) (*models.Participant, error) {
	p, err := s.repo.GetParticipant(ctx, t.ID, participantID)
	if repository.IsNotFound(err) {
		return nil, apperr.NotFound("participant %d not found", participantID)
	}
	if err != nil {
		return nil, apperr.Database(err, "failed to load participant %d", participantID)
	}
	return p, nil
}

// Standings ranks the participants of a tournament by correct predictions
// over concluded rounds. Zero means the active tournament.
func (s *PoolService) Standings(ctx context.Context, tournamentID uint) ([]models.StandingEntry, error) {
	t, err := tournamentOrActive(ctx, s.repo, tournamentID)
	if err != nil {
		return nil, err
	}
	standings, err := computeStandings(ctx, s.repo, t, includeConcluded)
	if err != nil {
		return nil, apperr.Database(err, "failed to compute standings")
	}
	return standings, nil
}

// Statistics returns counters for the active tournament.
func (s *PoolService) Statistics(ctx context.Context) (*models.Statistics, error) {
	t, err := tournamentOrActive(ctx, s.repo, 0)
	if err != nil {
		return nil, err
	}
	participants, err := s.repo.CountParticipants(ctx, t.ID)
	if err != nil {
		return nil, apperr.Database(err, "failed to count participants")
	}
	completed, err := s.repo.CountRoundsInStates(ctx, t.ID,
		models.RoundStateRoundConcluded, models.RoundStateViewingFinalReport, models.RoundStateTournamentCompleted)
	if err != nil {
		return nil, apperr.Database(err, "failed to count rounds")
	}
	matches, err := s.repo.CountTournamentMatches(ctx, t.ID)
	if err != nil {
		return nil, apperr.Database(err, "failed to count matches")
	}
	predictions, err := s.repo.CountTournamentPredictions(ctx, t.ID)
	if err != nil {
		return nil, apperr.Database(err, "failed to count predictions")
	}
	return &models.Statistics{
		TotalParticipants: int(participants),
		CompletedRounds:   completed,
		TotalMatches:      matches,
		TotalPredictions:  predictions,
	}, nil
}

// ParticipantPerformance returns a participant's score in every concluded round.
func (s *PoolService) ParticipantPerformance(ctx context.Context, participantID uint) ([]models.PerformanceEntry, error) {
	t, err := tournamentOrActive(ctx, s.repo, 0)
	if err != nil {
		return nil, err
	}
	if _, err := s.participant(ctx, t, participantID); err != nil {
		return nil, err
	}
	table, err := scoreRounds(ctx, s.repo, t, []uint{participantID}, includeConcluded)
	if err != nil {
		return nil, apperr.Database(err, "failed to compute performance")
	}
	series := make([]models.PerformanceEntry, len(table))
	for i, rs := range table {
		series[i] = models.PerformanceEntry{RoundNumber: rs.round.RoundNumber, Score: rs.scores[participantID]}
	}
	return series, nil
}

// ParticipantStreak is the longest run of concluded rounds in which the
// participant got at least one prediction right.
func (s *PoolService) ParticipantStreak(ctx context.Context, participantID uint) (int, error) {
	series, err := s.ParticipantPerformance(ctx, participantID)
	if err != nil {
		return 0, err
	}
	return scoring.LongestStreak(series), nil
}

// HeadToHead compares two participants round by round.
func (s *PoolService) HeadToHead(ctx context.Context, participantA, participantB uint) ([]models.HeadToHeadEntry, error) {
	if participantA == participantB {
		return nil, apperr.Validation("head to head needs two different participants")
	}
	t, err := tournamentOrActive(ctx, s.repo, 0)
	if err != nil {
		return nil, err
	}
	for _, id := range []uint{participantA, participantB} {
		if _, err := s.participant(ctx, t, id); err != nil {
			return nil, err
		}
	}
	table, err := scoreRounds(ctx, s.repo, t, []uint{participantA, participantB}, includeConcluded)
	if err != nil {
		return nil, apperr.Database(err, "failed to compute head to head")
	}
	rows := make([]models.HeadToHeadEntry, len(table))
	for i, rs := range table {
		rows[i] = models.HeadToHeadEntry{
			RoundNumber: rs.round.RoundNumber,
			ScoreA:      rs.scores[participantA],
			ScoreB:      rs.scores[participantB],
		}
	}
	return rows, nil
}

// MostSuccessfulPredictions counts correct predictions per symbol over the
// whole active tournament.
func (s *PoolService) MostSuccessfulPredictions(ctx context.Context) ([]models.SymbolCount, error) {
	t, err := tournamentOrActive(ctx, s.repo, 0)
	if err != nil {
		return nil, err
	}
	matches, err := s.repo.ListTournamentMatches(ctx, t.ID)
	if err != nil {
		return nil, apperr.Database(err, "failed to list matches")
	}
	predictions, err := s.repo.ListTournamentPredictions(ctx, t.ID)
	if err != nil {
		return nil, apperr.Database(err, "failed to list predictions")
	}
	return scoring.SymbolCounts(matches, predictions), nil
}
