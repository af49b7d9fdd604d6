package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"totocalcio/internal/apperr"
	"totocalcio/internal/models"
)

func validConfig() models.TournamentConfig {
	return models.TournamentConfig{
		Name:                  "Serie A 2026",
		Year:                  2026,
		StartDate:             time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC),
		NumRounds:             38,
		NumMatchesPerRound:    13,
		NumParticipants:       20,
		MinCorrectPredictions: 9,
		ParticipantFee:        decimal.NewFromInt(10),
		WeeklyPrizePercentage: decimal.NewFromInt(20),
		FinalPrizesPercentage: decimal.NewFromInt(80),
	}
}

func TestTournament(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.TournamentConfig)
		ok     bool
	}{
		{"valid", func(c *models.TournamentConfig) {}, true},
		{"empty name", func(c *models.TournamentConfig) { c.Name = "  " }, false},
		{"long name", func(c *models.TournamentConfig) { c.Name = strings.Repeat("a", 101) }, false},
		{"missing start", func(c *models.TournamentConfig) { c.StartDate = time.Time{} }, false},
		{"rounds low", func(c *models.TournamentConfig) { c.NumRounds = 35 }, false},
		{"rounds high", func(c *models.TournamentConfig) { c.NumRounds = 43 }, false},
		{"rounds edge", func(c *models.TournamentConfig) { c.NumRounds = 42 }, true},
		{"matches low", func(c *models.TournamentConfig) { c.NumMatchesPerRound = 12 }, false},
		{"matches high", func(c *models.TournamentConfig) { c.NumMatchesPerRound = 17 }, false},
		{"participants low", func(c *models.TournamentConfig) { c.NumParticipants = 19 }, false},
		{"participants high", func(c *models.TournamentConfig) { c.NumParticipants = 201 }, false},
		{"min correct low", func(c *models.TournamentConfig) { c.MinCorrectPredictions = 6 }, false},
		{"min correct high", func(c *models.TournamentConfig) { c.MinCorrectPredictions = 13 }, false},
		{"fee zero", func(c *models.TournamentConfig) { c.ParticipantFee = decimal.Zero }, false},
		{"fee high", func(c *models.TournamentConfig) { c.ParticipantFee = decimal.NewFromInt(101) }, false},
		{"weekly pct low", func(c *models.TournamentConfig) { c.WeeklyPrizePercentage = decimal.NewFromInt(4) }, false},
		{"weekly pct high", func(c *models.TournamentConfig) { c.WeeklyPrizePercentage = decimal.NewFromInt(51) }, false},
		{"final pct low", func(c *models.TournamentConfig) { c.FinalPrizesPercentage = decimal.NewFromInt(49) }, false},
		{"final pct edge", func(c *models.TournamentConfig) { c.FinalPrizesPercentage = decimal.NewFromInt(100) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := Tournament(cfg)
			if tt.ok && err != nil {
				t.Fatalf("expected valid config, got %v", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("expected validation error")
				}
				if !apperr.Is(err, apperr.KindValidation) {
					t.Errorf("expected validation kind, got %v", err)
				}
			}
		})
	}
}

func TestParticipantName(t *testing.T) {
	valid := []string{"Mario Rossi", "player42", strings.Repeat("x", 50)}
	for _, name := range valid {
		if err := ParticipantName(name); err != nil {
			t.Errorf("ParticipantName(%q) unexpected error: %v", name, err)
		}
	}

	invalid := []string{"", "   ", strings.Repeat("x", 51), "mario.rossi", "anna-maria", "luca!"}
	for _, name := range invalid {
		if err := ParticipantName(name); err == nil {
			t.Errorf("ParticipantName(%q) expected error", name)
		}
	}
}

func TestRoundDate(t *testing.T) {
	today := time.Date(2026, 10, 16, 15, 30, 0, 0, time.UTC)

	if err := RoundDate(time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), today); err != nil {
		t.Errorf("today should be accepted: %v", err)
	}
	if err := RoundDate(time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), today); err != nil {
		t.Errorf("future date should be accepted: %v", err)
	}
	if err := RoundDate(time.Date(2026, 10, 15, 23, 0, 0, 0, time.UTC), today); err == nil {
		t.Error("yesterday should be rejected")
	}
	if err := RoundDate(time.Time{}, today); err == nil {
		t.Error("zero date should be rejected")
	}
}

func TestMatch(t *testing.T) {
	existing := []models.Match{{HomeTeam: "Juventus", AwayTeam: "Inter"}}

	tests := []struct {
		name string
		home string
		away string
		ok   bool
	}{
		{"valid", "Milan", "Roma", true},
		{"empty home", "", "Roma", false},
		{"empty away", "Milan", " ", false},
		{"same team", "Milan", "milan", false},
		{"too long", strings.Repeat("a", 51), "Roma", false},
		{"home already scheduled", "Juventus", "Roma", false},
		{"away already scheduled", "Milan", "inter", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Match(tt.home, tt.away, existing)
			if tt.ok != (err == nil) {
				t.Fatalf("Match(%q, %q) = %v, want ok=%v", tt.home, tt.away, err, tt.ok)
			}
			if err != nil && !apperr.Is(err, apperr.KindValidation) {
				t.Errorf("expected validation kind, got %v", err)
			}
		})
	}
}

func TestParsePredictionAndResult(t *testing.T) {
	for _, v := range []string{"1", "x", "X", " 2 "} {
		if _, err := ParsePrediction(v); err != nil {
			t.Errorf("ParsePrediction(%q) unexpected error: %v", v, err)
		}
	}
	for _, v := range []string{"", "3", "SUSPENDED", "home"} {
		if _, err := ParsePrediction(v); err == nil {
			t.Errorf("ParsePrediction(%q) expected error", v)
		}
	}

	for _, v := range []string{"1", "X", "2", "suspended", "POSTPONED", "Delayed", "CANCELLED"} {
		if _, err := ParseResult(v); err != nil {
			t.Errorf("ParseResult(%q) unexpected error: %v", v, err)
		}
	}
	if _, err := ParseResult("ABANDONED"); err == nil {
		t.Error("ParseResult should reject unknown outcomes")
	}
}

func TestPrizeDistribution(t *testing.T) {
	if err := PrizeDistribution(models.DefaultPrizeDistribution()); err != nil {
		t.Fatalf("default distribution rejected: %v", err)
	}

	tests := []struct {
		name string
		dist models.PrizeDistribution
	}{
		{"empty", models.PrizeDistribution{}},
		{"sum below 100", models.PrizeDistribution{1: decimal.NewFromInt(60), 2: decimal.NewFromInt(30)}},
		{"non positive", models.PrizeDistribution{1: decimal.NewFromInt(100), 2: decimal.Zero}},
		{"gap", models.PrizeDistribution{1: decimal.NewFromInt(60), 3: decimal.NewFromInt(40)}},
	}
	for _, tt := range tests {
		if err := PrizeDistribution(tt.dist); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}

	eleven := models.PrizeDistribution{}
	for i := 1; i <= 11; i++ {
		eleven[i] = decimal.NewFromInt(1)
	}
	eleven[1] = decimal.NewFromInt(90)
	if err := PrizeDistribution(eleven); err == nil {
		t.Error("expected error for more than 10 positions")
	}

	partial := models.PrizeDistribution{1: decimal.NewFromInt(60), 2: decimal.NewFromInt(30)}
	if err := DistributionShape(partial); err != nil {
		t.Errorf("shape check should accept partial tables: %v", err)
	}
}

func TestFoldKey(t *testing.T) {
	if FoldKey(" Mario Rossi ") != FoldKey("MARIO ROSSI") {
		t.Error("expected case-insensitive keys to match")
	}
}
