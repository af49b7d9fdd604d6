package repository

import (
	"context"

	"totocalcio/internal/models"
)

// CreateWeeklyPrize inserts one winner's share of a round budget
func (r *Repository) CreateWeeklyPrize(ctx context.Context, p *models.WeeklyPrize) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// ListWeeklyPrizes returns every weekly prize of a tournament
func (r *Repository) ListWeeklyPrizes(ctx context.Context, tournamentID uint) ([]models.WeeklyPrize, error) {
	var prizes []models.WeeklyPrize
	err := r.db.WithContext(ctx).
		Where("tournament_id = ?", tournamentID).
		Order("round_id ASC, winner_id ASC").
		Find(&prizes).Error
	if err != nil {
		return nil, err
	}
	return prizes, nil
}

// ListRoundWeeklyPrizes returns the weekly prizes of a round
func (r *Repository) ListRoundWeeklyPrizes(ctx context.Context, roundID uint) ([]models.WeeklyPrize, error) {
	var prizes []models.WeeklyPrize
	err := r.db.WithContext(ctx).
		Where("round_id = ?", roundID).
		Order("winner_id ASC").
		Find(&prizes).Error
	if err != nil {
		return nil, err
	}
	return prizes, nil
}

// CreateFinalPrize inserts the prize of a final standings position
func (r *Repository) CreateFinalPrize(ctx context.Context, p *models.FinalPrize) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// ListFinalPrizes returns the final prizes of a tournament by position
func (r *Repository) ListFinalPrizes(ctx context.Context, tournamentID uint) ([]models.FinalPrize, error) {
	var prizes []models.FinalPrize
	err := r.db.WithContext(ctx).
		Where("tournament_id = ?", tournamentID).
		Order("position ASC").
		Find(&prizes).Error
	if err != nil {
		return nil, err
	}
	return prizes, nil
}
