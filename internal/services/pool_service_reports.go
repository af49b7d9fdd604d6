package services

import (
	"context"
	"fmt"
	"log"

	"totocalcio/internal/apperr"
	"totocalcio/internal/events"
	"totocalcio/internal/export"
	"totocalcio/internal/models"
	"totocalcio/internal/repository"
	"totocalcio/internal/scoring"
)

// RoundSummary returns the report of a round: fixtures, picks, scores and
// weekly prizes. Zero ids select the active tournament and its current round.
func (s *PoolService) RoundSummary(ctx context.Context, tournamentID uint, roundNumber int) (*models.RoundSummary, error) {
	t, err := tournamentOrActive(ctx, s.repo, tournamentID)
	if err != nil {
		return nil, err
	}
	round, err := s.round(ctx, t, roundNumber)
	if err != nil {
		return nil, err
	}
	participants, err := s.repo.ListParticipants(ctx, t.ID)
	if err != nil {
		return nil, apperr.Database(err, "failed to list participants")
	}
	summary, err := buildRoundSummary(ctx, s.repo, t, round, participants)
	if err != nil {
		return nil, apperr.Database(err, "failed to build round summary")
	}
	return summary, nil
}

// TournamentSummary returns the season report: every round, the standings and
// the prize history. Zero selects the active tournament.
func (s *PoolService) TournamentSummary(ctx context.Context, tournamentID uint) (*models.TournamentSummary, error) {
	t, err := tournamentOrActive(ctx, s.repo, tournamentID)
	if err != nil {
		return nil, err
	}
	summary, err := buildTournamentSummary(ctx, s.repo, t)
	if err != nil {
		return nil, apperr.Database(err, "failed to build tournament summary")
	}
	return summary, nil
}

// PublishRoundReport hands a round summary to the configured exporter.
func (s *PoolService) PublishRoundReport(ctx context.Context, tournamentID uint, roundNumber int) (string, error) {
	t, err := tournamentOrActive(ctx, s.repo, tournamentID)
	if err != nil {
		return "", err
	}
	summary, err := s.RoundSummary(ctx, t.ID, roundNumber)
	if err != nil {
		return "", err
	}
	key := export.RoundReportKey(t.Name, t.Year, summary.RoundNumber)
	return s.publishReport(ctx, t, summary.RoundNumber, key, summary)
}

// PublishTournamentReport hands the tournament summary to the configured exporter.
func (s *PoolService) PublishTournamentReport(ctx context.Context, tournamentID uint) (string, error) {
	t, err := tournamentOrActive(ctx, s.repo, tournamentID)
	if err != nil {
		return "", err
	}
	summary, err := buildTournamentSummary(ctx, s.repo, t)
	if err != nil {
		return "", apperr.Database(err, "failed to build tournament summary")
	}
	key := export.TournamentReportKey(t.Name, t.Year)
	return s.publishReport(ctx, t, 0, key, summary)
}

func (s *PoolService) publishReport(ctx context.Context, t *models.Tournament, roundNumber int, key string, report interface{}) (string, error) {
	if s.exporter == nil {
		return "", s.fail("publish report", apperr.Export(fmt.Errorf("no exporter configured"), "failed to publish %s", key))
	}
	location, err := s.exporter.Export(ctx, key, report)
	if err != nil {
		return "", s.fail("publish report", apperr.Export(err, "failed to publish %s", key))
	}
	log.Printf("[Pool] report for %q published to %s", t.Name, location)
	s.publish(events.Event{
		Type:         events.ReportPublished,
		TournamentID: t.ID,
		RoundNumber:  roundNumber,
		Message:      fmt.Sprintf("report published to %s", location),
		Payload:      location,
	})
	return location, nil
}

func buildRoundSummary(ctx context.Context, repo *repository.Repository, t *models.Tournament, round *models.Round, participants []models.Participant) (*models.RoundSummary, error) {
	matches, err := repo.ListMatches(ctx, round.ID)
	if err != nil {
		return nil, err
	}
	predictions, err := repo.ListRoundPredictions(ctx, round.ID)
	if err != nil {
		return nil, err
	}
	prizes, err := repo.ListRoundWeeklyPrizes(ctx, round.ID)
	if err != nil {
		return nil, err
	}
	names := participantNames(participants)

	summary := &models.RoundSummary{
		TournamentID: t.ID,
		RoundNumber:  round.RoundNumber,
		Date:         round.Date,
		State:        round.State,
		WeeklyBudget: round.WeeklyBudget,
		Matches:      make([]models.MatchSummary, len(matches)),
		Predictions:  make(map[uint][]models.PredictionEntry),
	}
	for i, m := range matches {
		summary.Matches[i] = models.MatchSummary{
			MatchID:  m.ID,
			HomeTeam: m.HomeTeam,
			AwayTeam: m.AwayTeam,
			Result:   m.Result,
		}
	}
	for _, p := range predictions {
		summary.Predictions[p.ParticipantID] = append(summary.Predictions[p.ParticipantID], models.PredictionEntry{
			MatchID: p.MatchID,
			Value:   p.Value,
		})
	}

	scores := scoring.RoundScores(participantIDs(participants), matches, predictions)
	for _, p := range participants {
		summary.Scores = append(summary.Scores, models.ScoreEntry{
			ParticipantID: p.ID,
			Name:          p.Name,
			Score:         scores[p.ID],
		})
	}
	for _, prize := range prizes {
		summary.WeeklyPrizes = append(summary.WeeklyPrizes, models.WeeklyPrizeEntry{
			RoundNumber:   round.RoundNumber,
			ParticipantID: prize.WinnerID,
			Name:          names[prize.WinnerID],
			Amount:        prize.Amount,
		})
	}
	return summary, nil
}

func buildTournamentSummary(ctx context.Context, repo *repository.Repository, t *models.Tournament) (*models.TournamentSummary, error) {
	participants, err := repo.ListParticipants(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	rounds, err := repo.ListRounds(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	names := participantNames(participants)

	summary := &models.TournamentSummary{
		TournamentID:      t.ID,
		Name:              t.Name,
		Year:              t.Year,
		State:             t.State,
		NumRounds:         t.NumRounds,
		NumParticipants:   t.NumParticipants,
		WeeklyBudget:      t.WeeklyBudget,
		WeeklyPrizeAmount: t.WeeklyPrizeAmount,
		FinalBudget:       t.FinalBudget,
		FinalPrizesAmount: t.FinalPrizesAmount,
		UnclaimedFunds:    t.UnclaimedFunds,
	}

	roundNumbers := make(map[uint]int, len(rounds))
	for i := range rounds {
		roundNumbers[rounds[i].ID] = rounds[i].RoundNumber
		rs, err := buildRoundSummary(ctx, repo, t, &rounds[i], participants)
		if err != nil {
			return nil, err
		}
		summary.Rounds = append(summary.Rounds, *rs)
	}

	standings, err := computeStandings(ctx, repo, t, includeConcluded)
	if err != nil {
		return nil, err
	}
	summary.FinalStandings = standings

	weekly, err := repo.ListWeeklyPrizes(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	for _, prize := range weekly {
		summary.WeeklyPrizes = append(summary.WeeklyPrizes, models.WeeklyPrizeEntry{
			RoundNumber:   roundNumbers[prize.RoundID],
			ParticipantID: prize.WinnerID,
			Name:          names[prize.WinnerID],
			Amount:        prize.Amount,
		})
	}

	final, err := repo.ListFinalPrizes(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	for _, prize := range final {
		summary.FinalPrizes = append(summary.FinalPrizes, models.FinalPrizeEntry{
			Position:      prize.Position,
			ParticipantID: prize.ParticipantID,
			Name:          names[prize.ParticipantID],
			Amount:        prize.Amount,
		})
	}
	return summary, nil
}
