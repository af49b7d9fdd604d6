package repository

import (
	"context"

	"totocalcio/internal/models"
)

// CreateTournament inserts a new tournament
func (r *Repository) CreateTournament(ctx context.Context, t *models.Tournament) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// UpdateTournament saves every field of t
func (r *Repository) UpdateTournament(ctx context.Context, t *models.Tournament) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// GetTournament retrieves a tournament by ID
func (r *Repository) GetTournament(ctx context.Context, id uint) (*models.Tournament, error) {
	var t models.Tournament
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetActiveTournament retrieves the tournament that is not concluded yet
func (r *Repository) GetActiveTournament(ctx context.Context) (*models.Tournament, error) {
	var t models.Tournament
	err := r.db.WithContext(ctx).
		Where("state <> ?", models.TournamentStateConcluded).
		Order("id DESC").
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTournaments returns every tournament, newest first
func (r *Repository) ListTournaments(ctx context.Context) ([]models.Tournament, error) {
	var tournaments []models.Tournament
	err := r.db.WithContext(ctx).Order("id DESC").Find(&tournaments).Error
	if err != nil {
		return nil, err
	}
	return tournaments, nil
}

// TournamentNameExists checks the unique tournament name
func (r *Repository) TournamentNameExists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Tournament{}).Where("name = ?", name).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteTournament removes a tournament and everything it owns
func (r *Repository) DeleteTournament(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	roundIDs := db.Model(&models.Round{}).Select("id").Where("tournament_id = ?", id)
	matchIDs := db.Model(&models.Match{}).Select("id").Where("round_id IN (?)", roundIDs)

	if err := db.Where("match_id IN (?)", matchIDs).Delete(&models.Prediction{}).Error; err != nil {
		return err
	}
	if err := db.Where("round_id IN (?)", roundIDs).Delete(&models.Match{}).Error; err != nil {
		return err
	}
	if err := db.Where("tournament_id = ?", id).Delete(&models.WeeklyPrize{}).Error; err != nil {
		return err
	}
	if err := db.Where("tournament_id = ?", id).Delete(&models.FinalPrize{}).Error; err != nil {
		return err
	}
	if err := db.Where("tournament_id = ?", id).Delete(&models.Round{}).Error; err != nil {
		return err
	}
	if err := db.Where("tournament_id = ?", id).Delete(&models.Participant{}).Error; err != nil {
		return err
	}
	return db.Delete(&models.Tournament{}, id).Error
}

// CreateParticipant inserts a participant
func (r *Repository) CreateParticipant(ctx context.Context, p *models.Participant) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// UpdateParticipant saves a renamed participant
func (r *Repository) UpdateParticipant(ctx context.Context, p *models.Participant) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// GetParticipant retrieves a participant of a tournament
func (r *Repository) GetParticipant(ctx context.Context, tournamentID, id uint) (*models.Participant, error) {
	var p models.Participant
	err := r.db.WithContext(ctx).
		Where("id = ? AND tournament_id = ?", id, tournamentID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListParticipants returns the participants of a tournament in registration order
func (r *Repository) ListParticipants(ctx context.Context, tournamentID uint) ([]models.Participant, error) {
	var participants []models.Participant
	err := r.db.WithContext(ctx).
		Where("tournament_id = ?", tournamentID).
		Order("id ASC").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// CountParticipants counts the participants of a tournament
func (r *Repository) CountParticipants(ctx context.Context, tournamentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Participant{}).
		Where("tournament_id = ?", tournamentID).
		Count(&count).Error
	return count, err
}

// ParticipantNameTaken checks the case-folded name key, ignoring excludeID
func (r *Repository) ParticipantNameTaken(ctx context.Context, tournamentID uint, nameKey string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Participant{}).
		Where("tournament_id = ? AND name_key = ?", tournamentID, nameKey)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
