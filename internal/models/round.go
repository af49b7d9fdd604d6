package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Round is one matchday of a tournament.
type Round struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	TournamentID uint            `gorm:"not null;uniqueIndex:idx_round_number" json:"tournament_id"`
	RoundNumber  int             `gorm:"not null;uniqueIndex:idx_round_number" json:"round_number"`
	Date         *time.Time      `json:"date"`
	WeeklyBudget decimal.Decimal `gorm:"type:decimal(18,6);not null" json:"weekly_budget"`
	State        RoundState      `gorm:"size:40;not null;index" json:"state"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (Round) TableName() string {
	return "rounds"
}

// Match is a fixture of a round. Result stays nil until entered.
type Match struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	RoundID   uint         `gorm:"not null;index" json:"round_id"`
	HomeTeam  string       `gorm:"size:50;not null" json:"home_team"`
	AwayTeam  string       `gorm:"size:50;not null" json:"away_team"`
	Result    *MatchResult `gorm:"size:20" json:"result"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (Match) TableName() string {
	return "matches"
}

// HasResult reports whether an outcome, decisive or administrative, was entered.
func (m *Match) HasResult() bool {
	return m.Result != nil
}

// Prediction is a participant's 1/X/2 pick for a match.
type Prediction struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	ParticipantID uint        `gorm:"not null;uniqueIndex:idx_prediction_pair" json:"participant_id"`
	MatchID       uint        `gorm:"not null;uniqueIndex:idx_prediction_pair;index" json:"match_id"`
	Value         MatchResult `gorm:"column:prediction;size:2;not null" json:"prediction"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func (Prediction) TableName() string {
	return "predictions"
}

// WeeklyPrize is one winner's share of a round budget.
type WeeklyPrize struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	TournamentID uint            `gorm:"not null;index" json:"tournament_id"`
	RoundID      uint            `gorm:"not null;index" json:"round_id"`
	WinnerID     uint            `gorm:"not null;index" json:"winner_id"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,6);not null" json:"amount"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (WeeklyPrize) TableName() string {
	return "weekly_prizes"
}

// FinalPrize is the amount awarded to a final standings position.
type FinalPrize struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	TournamentID  uint            `gorm:"not null;index" json:"tournament_id"`
	ParticipantID uint            `gorm:"not null;index" json:"participant_id"`
	Position      int             `gorm:"not null" json:"position"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,6);not null" json:"amount"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (FinalPrize) TableName() string {
	return "final_prizes"
}

// AllModels lists every persisted entity in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&Tournament{},
		&Participant{},
		&Round{},
		&Match{},
		&Prediction{},
		&WeeklyPrize{},
		&FinalPrize{},
	}
}
