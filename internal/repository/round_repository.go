package repository

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"totocalcio/internal/models"
)

// CreateRound inserts a round
func (r *Repository) CreateRound(ctx context.Context, round *models.Round) error {
	return r.db.WithContext(ctx).Create(round).Error
}

// UpdateRound saves every field of round
func (r *Repository) UpdateRound(ctx context.Context, round *models.Round) error {
	return r.db.WithContext(ctx).Save(round).Error
}

// GetRound retrieves a round by its number within a tournament
func (r *Repository) GetRound(ctx context.Context, tournamentID uint, number int) (*models.Round, error) {
	var round models.Round
	err := r.db.WithContext(ctx).
		Where("tournament_id = ? AND round_number = ?", tournamentID, number).
		First(&round).Error
	if err != nil {
		return nil, err
	}
	return &round, nil
}

// ListRounds returns the rounds of a tournament ordered by number
func (r *Repository) ListRounds(ctx context.Context, tournamentID uint) ([]models.Round, error) {
	var rounds []models.Round
	err := r.db.WithContext(ctx).
		Where("tournament_id = ?", tournamentID).
		Order("round_number ASC").
		Find(&rounds).Error
	if err != nil {
		return nil, err
	}
	return rounds, nil
}

// CountRoundsInStates counts the rounds of a tournament in any of states
func (r *Repository) CountRoundsInStates(ctx context.Context, tournamentID uint, states ...models.RoundState) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Round{}).
		Where("tournament_id = ? AND state IN ?", tournamentID, states).
		Count(&count).Error
	return count, err
}

// ListRoundsDatedBetween returns open rounds whose date falls in [from, to)
func (r *Repository) ListRoundsDatedBetween(ctx context.Context, from, to time.Time) ([]models.Round, error) {
	var rounds []models.Round
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", from, to).
		Where("state IN ?", []models.RoundState{
			models.RoundStateEnteringTeams,
			models.RoundStateEnteringPredictions,
		}).
		Order("date ASC").
		Find(&rounds).Error
	if err != nil {
		return nil, err
	}
	return rounds, nil
}

// CreateMatch inserts a match
func (r *Repository) CreateMatch(ctx context.Context, m *models.Match) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// UpdateMatch saves every field of m
func (r *Repository) UpdateMatch(ctx context.Context, m *models.Match) error {
	return r.db.WithContext(ctx).Save(m).Error
}

// GetMatch retrieves a match by ID
func (r *Repository) GetMatch(ctx context.Context, id uint) (*models.Match, error) {
	var m models.Match
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMatches returns the matches of a round in entry order
func (r *Repository) ListMatches(ctx context.Context, roundID uint) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.WithContext(ctx).
		Where("round_id = ?", roundID).
		Order("id ASC").
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// ListTournamentMatches returns every match of a tournament
func (r *Repository) ListTournamentMatches(ctx context.Context, tournamentID uint) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.WithContext(ctx).
		Joins("JOIN rounds ON rounds.id = matches.round_id").
		Where("rounds.tournament_id = ?", tournamentID).
		Order("matches.id ASC").
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// CountTournamentMatches counts every match of a tournament
func (r *Repository) CountTournamentMatches(ctx context.Context, tournamentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Match{}).
		Joins("JOIN rounds ON rounds.id = matches.round_id").
		Where("rounds.tournament_id = ?", tournamentID).
		Count(&count).Error
	return count, err
}

// SavePrediction inserts a prediction or replaces the value already stored for
// the same participant and match
func (r *Repository) SavePrediction(ctx context.Context, p *models.Prediction) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "participant_id"}, {Name: "match_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"prediction", "updated_at"}),
	}).Create(p).Error
}

// ListRoundPredictions returns every prediction made for a round
func (r *Repository) ListRoundPredictions(ctx context.Context, roundID uint) ([]models.Prediction, error) {
	var predictions []models.Prediction
	err := r.db.WithContext(ctx).
		Joins("JOIN matches ON matches.id = predictions.match_id").
		Where("matches.round_id = ?", roundID).
		Order("predictions.participant_id ASC, predictions.match_id ASC").
		Find(&predictions).Error
	if err != nil {
		return nil, err
	}
	return predictions, nil
}

// ListParticipantPredictions returns a participant's predictions for a round
func (r *Repository) ListParticipantPredictions(ctx context.Context, participantID, roundID uint) ([]models.Prediction, error) {
	var predictions []models.Prediction
	err := r.db.WithContext(ctx).
		Joins("JOIN matches ON matches.id = predictions.match_id").
		Where("predictions.participant_id = ? AND matches.round_id = ?", participantID, roundID).
		Order("predictions.match_id ASC").
		Find(&predictions).Error
	if err != nil {
		return nil, err
	}
	return predictions, nil
}

// ListTournamentPredictions returns every prediction made in a tournament
func (r *Repository) ListTournamentPredictions(ctx context.Context, tournamentID uint) ([]models.Prediction, error) {
	var predictions []models.Prediction
	err := r.db.WithContext(ctx).
		Joins("JOIN matches ON matches.id = predictions.match_id").
		Joins("JOIN rounds ON rounds.id = matches.round_id").
		Where("rounds.tournament_id = ?", tournamentID).
		Order("predictions.id ASC").
		Find(&predictions).Error
	if err != nil {
		return nil, err
	}
	return predictions, nil
}

// CountRoundPredictions counts the predictions made for a round
func (r *Repository) CountRoundPredictions(ctx context.Context, roundID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Prediction{}).
		Joins("JOIN matches ON matches.id = predictions.match_id").
		Where("matches.round_id = ?", roundID).
		Count(&count).Error
	return count, err
}

// CountTournamentPredictions counts every prediction made in a tournament
func (r *Repository) CountTournamentPredictions(ctx context.Context, tournamentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Prediction{}).
		Joins("JOIN matches ON matches.id = predictions.match_id").
		Joins("JOIN rounds ON rounds.id = matches.round_id").
		Where("rounds.tournament_id = ?", tournamentID).
		Count(&count).Error
	return count, err
}
