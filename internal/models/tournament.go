package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Tournament is a season of the prediction pool. Budgets are derived once at
// creation; only Round.WeeklyBudget changes afterwards.
type Tournament struct {
	ID                    uint              `gorm:"primaryKey" json:"id"`
	Name                  string            `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Year                  int               `gorm:"not null" json:"year"`
	StartDate             time.Time         `gorm:"not null" json:"start_date"`
	NumRounds             int               `gorm:"not null" json:"num_rounds"`
	NumMatchesPerRound    int               `gorm:"not null" json:"num_matches_per_round"`
	NumParticipants       int               `gorm:"not null" json:"num_participants"`
	MinCorrectPredictions int               `gorm:"not null" json:"min_correct_predictions"`
	ParticipantFee        decimal.Decimal   `gorm:"type:decimal(18,6);not null" json:"participant_fee"`
	WeeklyPrizePercentage decimal.Decimal   `gorm:"type:decimal(18,6);not null" json:"weekly_prize_percentage"`
	FinalPrizesPercentage decimal.Decimal   `gorm:"type:decimal(18,6);not null" json:"final_prizes_percentage"`
	WeeklyBudget          decimal.Decimal   `gorm:"type:decimal(18,6);not null" json:"weekly_budget"`
	WeeklyPrizeAmount     decimal.Decimal   `gorm:"type:decimal(18,6);not null" json:"weekly_prize_amount"`
	FinalBudget           decimal.Decimal   `gorm:"type:decimal(18,6);not null" json:"final_budget"`
	FinalPrizesAmount     decimal.Decimal   `gorm:"type:decimal(18,6);not null" json:"final_prizes_amount"`
	UnclaimedFunds        decimal.Decimal   `gorm:"type:decimal(18,6);not null;default:0" json:"unclaimed_funds"`
	PrizeDistribution     PrizeDistribution `gorm:"type:text" json:"prize_distribution"`
	State                 TournamentState   `gorm:"size:40;not null;default:SETTING_INITIAL_PARAMETERS;index" json:"state"`
	CurrentRound          int               `gorm:"not null;default:0" json:"current_round"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
}

func (Tournament) TableName() string {
	return "tournaments"
}

// IsActive reports whether the tournament still accepts commands.
func (t *Tournament) IsActive() bool {
	return t.State != TournamentStateConcluded
}

// IsLastRound reports whether number is the final round of the season.
func (t *Tournament) IsLastRound(number int) bool {
	return number == t.NumRounds
}

// ExpectedPredictions is the number of predictions a round needs before results open.
func (t *Tournament) ExpectedPredictions() int64 {
	return int64(t.NumParticipants) * int64(t.NumMatchesPerRound)
}

// TournamentConfig carries the initial parameters of a new tournament.
type TournamentConfig struct {
	Name                  string          `json:"name" yaml:"name"`
	Year                  int             `json:"year" yaml:"year"`
	StartDate             time.Time       `json:"start_date" yaml:"start_date"`
	NumRounds             int             `json:"num_rounds" yaml:"num_rounds"`
	NumMatchesPerRound    int             `json:"num_matches_per_round" yaml:"num_matches_per_round"`
	NumParticipants       int             `json:"num_participants" yaml:"num_participants"`
	MinCorrectPredictions int             `json:"min_correct_predictions" yaml:"min_correct_predictions"`
	ParticipantFee        decimal.Decimal `json:"participant_fee" yaml:"participant_fee"`
	WeeklyPrizePercentage decimal.Decimal `json:"weekly_prize_percentage" yaml:"weekly_prize_percentage"`
	FinalPrizesPercentage decimal.Decimal `json:"final_prizes_percentage" yaml:"final_prizes_percentage"`
}

// PrizeDistribution maps a final standings position (1-based) to the percentage
// of the final budget it receives.
type PrizeDistribution map[int]decimal.Decimal

// DefaultPrizeDistribution is used when no distribution has been configured.
func DefaultPrizeDistribution() PrizeDistribution {
	return PrizeDistribution{
		1: decimal.NewFromInt(50),
		2: decimal.NewFromInt(30),
		3: decimal.NewFromInt(20),
	}
}

// Positions returns the awarded positions in ascending order.
func (d PrizeDistribution) Positions() []int {
	positions := make([]int, 0, len(d))
	for position := range d {
		positions = append(positions, position)
	}
	sort.Ints(positions)
	return positions
}

// Total is the sum of all percentages.
func (d PrizeDistribution) Total() decimal.Decimal {
	total := decimal.Zero
	for _, pct := range d {
		total = total.Add(pct)
	}
	return total
}

func (d PrizeDistribution) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	b, err := json.Marshal(map[int]decimal.Decimal(d))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (d *PrizeDistribution) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported prize distribution type %T", value)
	}
	if len(raw) == 0 {
		*d = nil
		return nil
	}
	decoded := map[int]decimal.Decimal{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*d = decoded
	return nil
}

// Participant is a player registered in a tournament.
type Participant struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TournamentID uint      `gorm:"not null;uniqueIndex:idx_participant_name" json:"tournament_id"`
	Name         string    `gorm:"size:50;not null" json:"name"`
	NameKey      string    `gorm:"size:50;not null;uniqueIndex:idx_participant_name" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Participant) TableName() string {
	return "participants"
}
