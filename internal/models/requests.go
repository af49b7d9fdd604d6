package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTournamentRequest is the body of POST /api/tournaments.
type CreateTournamentRequest struct {
	Name                  string          `json:"name" binding:"required"`
	Year                  int             `json:"year"`
	StartDate             string          `json:"start_date" binding:"required"`
	NumRounds             int             `json:"num_rounds" binding:"required"`
	NumMatchesPerRound    int             `json:"num_matches_per_round" binding:"required"`
	NumParticipants       int             `json:"num_participants" binding:"required"`
	MinCorrectPredictions int             `json:"min_correct_predictions" binding:"required"`
	ParticipantFee        decimal.Decimal `json:"participant_fee"`
	WeeklyPrizePercentage decimal.Decimal `json:"weekly_prize_percentage"`
	FinalPrizesPercentage decimal.Decimal `json:"final_prizes_percentage"`
}

// DateLayout is the calendar date format accepted on the wire.
const DateLayout = "2006-01-02"

// ToConfig converts the request into a TournamentConfig.
func (r *CreateTournamentRequest) ToConfig() (TournamentConfig, error) {
	start, err := time.Parse(DateLayout, r.StartDate)
	if err != nil {
		return TournamentConfig{}, err
	}
	return TournamentConfig{
		Name:                  r.Name,
		Year:                  r.Year,
		StartDate:             start,
		NumRounds:             r.NumRounds,
		NumMatchesPerRound:    r.NumMatchesPerRound,
		NumParticipants:       r.NumParticipants,
		MinCorrectPredictions: r.MinCorrectPredictions,
		ParticipantFee:        r.ParticipantFee,
		WeeklyPrizePercentage: r.WeeklyPrizePercentage,
		FinalPrizesPercentage: r.FinalPrizesPercentage,
	}, nil
}

// ParticipantRequest is the body used to add or rename a participant.
type ParticipantRequest struct {
	Name string `json:"name" binding:"required"`
}

// RoundDateRequest is the body of PUT /api/rounds/current/date.
type RoundDateRequest struct {
	Date string `json:"date" binding:"required"`
}

// MatchRequest is the body of POST /api/rounds/current/matches.
type MatchRequest struct {
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
}

// PredictionRequest is the body of POST /api/predictions.
type PredictionRequest struct {
	ParticipantID uint   `json:"participant_id" binding:"required"`
	MatchID       uint   `json:"match_id" binding:"required"`
	Prediction    string `json:"prediction" binding:"required"`
}

// ResultRequest is the body of PUT /api/matches/:id/result.
type ResultRequest struct {
	Result string `json:"result" binding:"required"`
}

// PrizeDistributionRequest carries a position -> percentage map.
type PrizeDistributionRequest struct {
	Distribution PrizeDistribution `json:"distribution"`
}

// PredictionSlipRequest carries a participant's picks for a whole round,
// keyed by match id.
type PredictionSlipRequest struct {
	Picks map[uint]string `json:"picks" binding:"required"`
}

// ConcludeTournamentRequest optionally overrides the stored prize distribution.
type ConcludeTournamentRequest struct {
	Distribution PrizeDistribution `json:"distribution"`
}
