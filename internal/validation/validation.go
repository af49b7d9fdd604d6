package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"totocalcio/internal/apperr"
	"totocalcio/internal/models"
)

const (
	MaxTournamentNameLength  = 100
	MaxParticipantNameLength = 50
	MaxTeamNameLength        = 50
	MaxPrizePositions        = 10
)

// Allowed configuration ranges, inclusive.
var (
	RoundsRange          = [2]int{36, 42}
	MatchesPerRoundRange = [2]int{13, 16}
	ParticipantsRange    = [2]int{20, 200}
	MinCorrectRange      = [2]int{7, 12}

	FeeRange                   = [2]decimal.Decimal{decimal.NewFromInt(1), decimal.NewFromInt(100)}
	WeeklyPercentageRange      = [2]decimal.Decimal{decimal.NewFromInt(5), decimal.NewFromInt(50)}
	FinalPrizesPercentageRange = [2]decimal.Decimal{decimal.NewFromInt(50), decimal.NewFromInt(100)}
)

var participantNamePattern = regexp.MustCompile(`^[a-zA-Z0-9\s]+$`)

var folder = cases.Fold()

// FoldKey returns the case-insensitive comparison key of a name.
func FoldKey(name string) string {
	return folder.String(strings.TrimSpace(name))
}

func intInRange(v int, r [2]int) bool {
	return v >= r[0] && v <= r[1]
}

func decimalInRange(v decimal.Decimal, r [2]decimal.Decimal) bool {
	return v.GreaterThanOrEqual(r[0]) && v.LessThanOrEqual(r[1])
}

// Tournament checks the initial parameters of a tournament.
func Tournament(cfg models.TournamentConfig) error {
	name := strings.TrimSpace(cfg.Name)
	if name == "" || utf8.RuneCountInString(name) > MaxTournamentNameLength {
		return apperr.Validation("tournament name must be between 1 and %d characters", MaxTournamentNameLength)
	}
	if cfg.StartDate.IsZero() {
		return apperr.Validation("start date is required")
	}
	if !intInRange(cfg.NumRounds, RoundsRange) {
		return apperr.Validation("number of rounds must be between %d and %d", RoundsRange[0], RoundsRange[1])
	}
	if !intInRange(cfg.NumMatchesPerRound, MatchesPerRoundRange) {
		return apperr.Validation("matches per round must be between %d and %d", MatchesPerRoundRange[0], MatchesPerRoundRange[1])
	}
	if !intInRange(cfg.NumParticipants, ParticipantsRange) {
		return apperr.Validation("number of participants must be between %d and %d", ParticipantsRange[0], ParticipantsRange[1])
	}
	if !intInRange(cfg.MinCorrectPredictions, MinCorrectRange) {
		return apperr.Validation("minimum correct predictions must be between %d and %d", MinCorrectRange[0], MinCorrectRange[1])
	}
	if !decimalInRange(cfg.ParticipantFee, FeeRange) {
		return apperr.Validation("participant fee must be between %s and %s", FeeRange[0], FeeRange[1])
	}
	if !decimalInRange(cfg.WeeklyPrizePercentage, WeeklyPercentageRange) {
		return apperr.Validation("weekly prize percentage must be between %s%% and %s%%", WeeklyPercentageRange[0], WeeklyPercentageRange[1])
	}
	if !decimalInRange(cfg.FinalPrizesPercentage, FinalPrizesPercentageRange) {
		return apperr.Validation("final prizes percentage must be between %s%% and %s%%", FinalPrizesPercentageRange[0], FinalPrizesPercentageRange[1])
	}
	return nil
}

// ParticipantName checks length and character set of a participant name.
func ParticipantName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxParticipantNameLength {
		return apperr.Validation("participant name must be between 1 and %d characters", MaxParticipantNameLength)
	}
	if !participantNamePattern.MatchString(name) {
		return apperr.Validation("participant name may only contain letters, digits and spaces")
	}
	return nil
}

// RoundDate rejects dates before today. Only the calendar day is compared.
func RoundDate(date, today time.Time) error {
	if date.IsZero() {
		return apperr.Validation("round date is required")
	}
	if truncateDay(date).Before(truncateDay(today)) {
		return apperr.Validation("round date cannot be in the past")
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Match checks a fixture against the matches already scheduled in the round.
// Team names are compared case-insensitively.
func Match(home, away string, existing []models.Match) error {
	home = strings.TrimSpace(home)
	away = strings.TrimSpace(away)
	if home == "" || away == "" {
		return apperr.Validation("team names cannot be empty")
	}
	if utf8.RuneCountInString(home) > MaxTeamNameLength || utf8.RuneCountInString(away) > MaxTeamNameLength {
		return apperr.Validation("team names cannot exceed %d characters", MaxTeamNameLength)
	}
	homeKey, awayKey := FoldKey(home), FoldKey(away)
	if homeKey == awayKey {
		return apperr.Validation("home and away teams must be different")
	}
	for _, m := range existing {
		scheduled := []string{FoldKey(m.HomeTeam), FoldKey(m.AwayTeam)}
		for _, team := range scheduled {
			if team == homeKey || team == awayKey {
				return apperr.Validation("a team cannot play more than one match per round")
			}
		}
	}
	return nil
}

// ParsePrediction accepts only the three decisive symbols.
func ParsePrediction(value string) (models.MatchResult, error) {
	symbol := models.MatchResult(strings.ToUpper(strings.TrimSpace(value)))
	if !symbol.IsDecisive() {
		return "", apperr.Validation("prediction must be '1', 'X' or '2'")
	}
	return symbol, nil
}

// ParseResult accepts the three decisive symbols and the four administrative outcomes.
func ParseResult(value string) (models.MatchResult, error) {
	result := models.MatchResult(strings.ToUpper(strings.TrimSpace(value)))
	if !result.Valid() {
		return "", apperr.Validation("result %q is not valid", value)
	}
	return result, nil
}

// DistributionShape checks that a distribution can be applied: positions 1..N
// with no gaps and positive percentages.
func DistributionShape(d models.PrizeDistribution) error {
	if len(d) == 0 {
		return apperr.Validation("prize distribution cannot be empty")
	}
	for i, position := range d.Positions() {
		if position != i+1 {
			return apperr.Validation("prize positions must run from 1 to %d without gaps", len(d))
		}
		if !d[position].IsPositive() {
			return apperr.Validation("prize percentage for position %d must be positive", position)
		}
	}
	return nil
}

// PrizeDistribution is the full check applied before a distribution is stored.
func PrizeDistribution(d models.PrizeDistribution) error {
	if err := DistributionShape(d); err != nil {
		return err
	}
	if len(d) > MaxPrizePositions {
		return apperr.Validation("no more than %d prize positions are allowed", MaxPrizePositions)
	}
	if !d.Total().Equal(decimal.NewFromInt(100)) {
		return apperr.Validation("prize percentages must add up to 100, got %s", d.Total())
	}
	return nil
}

// RoundNumber checks that n is within 1..total.
func RoundNumber(n, total int) error {
	if n < 1 || n > total {
		return apperr.Validation("round number must be between 1 and %d", total)
	}
	return nil
}
