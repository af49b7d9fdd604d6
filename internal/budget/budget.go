package budget

import (
	"github.com/shopspring/decimal"

	"totocalcio/internal/apperr"
	"totocalcio/internal/models"
	"totocalcio/internal/scoring"
	"totocalcio/internal/validation"
)

var hundred = decimal.NewFromInt(100)

// Budgets are the amounts derived once from a tournament configuration.
type Budgets struct {
	WeeklyBudget      decimal.Decimal
	WeeklyPrizeAmount decimal.Decimal
	FinalBudget       decimal.Decimal
	FinalPrizesAmount decimal.Decimal
}

// Compute derives the tournament budgets:
//
//	weekly_budget       = participants * fee
//	weekly_prize_amount = weekly_budget * weekly% / 100
//	final_budget        = (weekly_budget - weekly_prize_amount) * rounds
//	final_prizes_amount = final_budget * final% / 100
func Compute(cfg models.TournamentConfig) Budgets {
	weekly := cfg.ParticipantFee.Mul(decimal.NewFromInt(int64(cfg.NumParticipants)))
	weeklyPrize := weekly.Mul(cfg.WeeklyPrizePercentage).Div(hundred)
	final := weekly.Sub(weeklyPrize).Mul(decimal.NewFromInt(int64(cfg.NumRounds)))
	finalPrizes := final.Mul(cfg.FinalPrizesPercentage).Div(hundred)

	return Budgets{
		WeeklyBudget:      weekly,
		WeeklyPrizeAmount: weeklyPrize,
		FinalBudget:       final,
		FinalPrizesAmount: finalPrizes,
	}
}

// Apply copies the budgets onto a tournament.
func (b Budgets) Apply(t *models.Tournament) {
	t.WeeklyBudget = b.WeeklyBudget
	t.WeeklyPrizeAmount = b.WeeklyPrizeAmount
	t.FinalBudget = b.FinalBudget
	t.FinalPrizesAmount = b.FinalPrizesAmount
}

// WeeklyResolution is the outcome of resolving a round's weekly prize.
type WeeklyResolution struct {
	MaxScore       int
	Winners        []uint
	PrizePerWinner decimal.Decimal
	// Carry is the part of the round budget nobody won. It is zero when
	// there are winners.
	Carry decimal.Decimal
}

// HasWinners reports whether at least one participant reached the threshold.
func (r WeeklyResolution) HasWinners() bool {
	return len(r.Winners) > 0
}

// ResolveWeekly splits roundBudget evenly among the participants with the best
// score when that score reaches minCorrect. Otherwise the whole budget is carried.
func ResolveWeekly(scores map[uint]int, minCorrect int, roundBudget decimal.Decimal) WeeklyResolution {
	best, ok := scoring.MaxScore(scores)
	if !ok || best < minCorrect {
		return WeeklyResolution{MaxScore: best, PrizePerWinner: decimal.Zero, Carry: roundBudget}
	}

	winners := scoring.TopScorers(scores, best)
	return WeeklyResolution{
		MaxScore:       best,
		Winners:        winners,
		PrizePerWinner: roundBudget.Div(decimal.NewFromInt(int64(len(winners)))),
		Carry:          decimal.Zero,
	}
}

// ResolveFinal assigns amount_k = finalBudget * pct_k / 100 to the participant at
// standings position k. Positions beyond the number of participants stay unpaid.
// The distribution is checked for shape only; totals other than 100 are applied as given.
func ResolveFinal(standings []models.StandingEntry, dist models.PrizeDistribution, finalBudget decimal.Decimal) ([]models.FinalPrizeEntry, error) {
	if err := validation.DistributionShape(dist); err != nil {
		return nil, apperr.Prize("invalid prize distribution: %s", err.Error())
	}

	var prizes []models.FinalPrizeEntry
	for _, position := range dist.Positions() {
		if position > len(standings) {
			break
		}
		entry := standings[position-1]
		prizes = append(prizes, models.FinalPrizeEntry{
			Position:      position,
			ParticipantID: entry.ParticipantID,
			Name:          entry.Name,
			Amount:        Share(finalBudget, dist[position]),
		})
	}
	return prizes, nil
}

// Share returns pct percent of amount.
func Share(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(hundred)
}
