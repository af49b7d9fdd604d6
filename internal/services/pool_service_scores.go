package services

import (
	"context"

	"totocalcio/internal/models"
	"totocalcio/internal/repository"
	"totocalcio/internal/scoring"
)

// roundFilter selects the rounds that contribute to a score table.
type roundFilter func(models.Round) bool

func includeConcluded(r models.Round) bool {
	return r.State.IsConcluded()
}

// includeScored also counts the round whose results are being entered, for
// provisional standings.
func includeScored(r models.Round) bool {
	return r.State == models.RoundStateEnteringResults ||
		r.State == models.RoundStateViewingReport ||
		r.State.IsConcluded()
}

type roundScore struct {
	round  models.Round
	scores map[uint]int
}

func scoreRounds(ctx context.Context, repo *repository.Repository, t *models.Tournament, ids []uint, filter roundFilter) ([]roundScore, error) {
	rounds, err := repo.ListRounds(ctx, t.ID)
	if err != nil {
		return nil, err
	}

	var table []roundScore
	for _, round := range rounds {
		if !filter(round) {
			continue
		}
		scores, err := scoreRound(ctx, repo, round.ID, ids)
		if err != nil {
			return nil, err
		}
		table = append(table, roundScore{round: round, scores: scores})
	}
	return table, nil
}

func scoreRound(ctx context.Context, repo *repository.Repository, roundID uint, ids []uint) (map[uint]int, error) {
	matches, err := repo.ListMatches(ctx, roundID)
	if err != nil {
		return nil, err
	}
	predictions, err := repo.ListRoundPredictions(ctx, roundID)
	if err != nil {
		return nil, err
	}
	return scoring.RoundScores(ids, matches, predictions), nil
}

func computeStandings(ctx context.Context, repo *repository.Repository, t *models.Tournament, filter roundFilter) ([]models.StandingEntry, error) {
	participants, err := repo.ListParticipants(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	ids := participantIDs(participants)
	table, err := scoreRounds(ctx, repo, t, ids, filter)
	if err != nil {
		return nil, err
	}

	perRound := make([]map[uint]int, 0, len(table)+1)
	zero := make(map[uint]int, len(ids))
	for _, id := range ids {
		zero[id] = 0
	}
	perRound = append(perRound, zero)
	for _, rs := range table {
		perRound = append(perRound, rs.scores)
	}
	return scoring.Standings(scoring.Cumulative(perRound...), participantNames(participants)), nil
}
