package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MatchSummary is a read-only view of a fixture and its result.
type MatchSummary struct {
	MatchID  uint         `json:"match_id"`
	HomeTeam string       `json:"home_team"`
	AwayTeam string       `json:"away_team"`
	Result   *MatchResult `json:"result"`
}

// PredictionEntry is one pick inside a round summary.
type PredictionEntry struct {
	MatchID uint        `json:"match_id"`
	Value   MatchResult `json:"prediction"`
}

// ScoreEntry is a participant's correct-prediction count.
type ScoreEntry struct {
	ParticipantID uint   `json:"participant_id"`
	Name          string `json:"name"`
	Score         int    `json:"score"`
}

// StandingEntry is a row of the season standings.
type StandingEntry struct {
	Position      int    `json:"position"`
	ParticipantID uint   `json:"participant_id"`
	Name          string `json:"name"`
	Score         int    `json:"score"`
}

// WeeklyPrizeEntry describes a weekly prize paid to a participant.
type WeeklyPrizeEntry struct {
	RoundNumber   int             `json:"round_number"`
	ParticipantID uint            `json:"participant_id"`
	Name          string          `json:"name"`
	Amount        decimal.Decimal `json:"amount"`
}

// FinalPrizeEntry describes a final prize paid to a standings position.
type FinalPrizeEntry struct {
	Position      int             `json:"position"`
	ParticipantID uint            `json:"participant_id"`
	Name          string          `json:"name"`
	Amount        decimal.Decimal `json:"amount"`
}

// RoundSummary is the plain-data report of a round handed to exporters.
type RoundSummary struct {
	TournamentID uint                       `json:"tournament_id"`
	RoundNumber  int                        `json:"round_number"`
	Date         *time.Time                 `json:"date"`
	State        RoundState                 `json:"state"`
	WeeklyBudget decimal.Decimal            `json:"weekly_budget"`
	Matches      []MatchSummary             `json:"matches"`
	Predictions  map[uint][]PredictionEntry `json:"predictions"`
	Scores       []ScoreEntry               `json:"scores"`
	WeeklyPrizes []WeeklyPrizeEntry         `json:"weekly_prizes"`
}

// TournamentSummary is the plain-data report of a whole season.
type TournamentSummary struct {
	TournamentID      uint               `json:"tournament_id"`
	Name              string             `json:"name"`
	Year              int                `json:"year"`
	State             TournamentState    `json:"state"`
	NumRounds         int                `json:"num_rounds"`
	NumParticipants   int                `json:"num_participants"`
	WeeklyBudget      decimal.Decimal    `json:"weekly_budget"`
	WeeklyPrizeAmount decimal.Decimal    `json:"weekly_prize_amount"`
	FinalBudget       decimal.Decimal    `json:"final_budget"`
	FinalPrizesAmount decimal.Decimal    `json:"final_prizes_amount"`
	UnclaimedFunds    decimal.Decimal    `json:"unclaimed_funds"`
	Rounds            []RoundSummary     `json:"rounds"`
	FinalStandings    []StandingEntry    `json:"final_standings"`
	WeeklyPrizes      []WeeklyPrizeEntry `json:"weekly_prizes"`
	FinalPrizes       []FinalPrizeEntry  `json:"final_prizes"`
}

// RoundOutcome reports what ConcludeRound did with the round budget.
type RoundOutcome struct {
	RoundNumber    int                `json:"round_number"`
	MaxScore       int                `json:"max_score"`
	Winners        []WeeklyPrizeEntry `json:"winners"`
	PrizePerWinner decimal.Decimal    `json:"prize_per_winner"`
	RolledOver     decimal.Decimal    `json:"rolled_over"`
	Unclaimed      decimal.Decimal    `json:"unclaimed"`
	NextRound      *Round             `json:"next_round,omitempty"`
	FinalReport    bool               `json:"final_report"`
}

// Statistics aggregates counters for the active tournament.
type Statistics struct {
	TotalParticipants int   `json:"total_participants"`
	CompletedRounds   int64 `json:"completed_rounds"`
	TotalMatches      int64 `json:"total_matches"`
	TotalPredictions  int64 `json:"total_predictions"`
}

// PerformanceEntry is a participant's score in one round.
type PerformanceEntry struct {
	RoundNumber int `json:"round_number"`
	Score       int `json:"score"`
}

// HeadToHeadEntry compares two participants in one round.
type HeadToHeadEntry struct {
	RoundNumber int `json:"round_number"`
	ScoreA      int `json:"score_a"`
	ScoreB      int `json:"score_b"`
}

// SymbolCount counts correct predictions for a result symbol.
type SymbolCount struct {
	Symbol MatchResult `json:"symbol"`
	Count  int         `json:"count"`
}
