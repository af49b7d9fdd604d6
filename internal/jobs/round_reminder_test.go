package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"totocalcio/internal/events"
	"totocalcio/internal/models"
	"totocalcio/internal/repository"
)

func setupTestRepo(t *testing.T) *repository.Repository {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return repository.NewRepository(db)
}

func seedRound(t *testing.T, repo *repository.Repository, tournamentID uint, number int, date time.Time, state models.RoundState) *models.Round {
	t.Helper()
	round := &models.Round{
		TournamentID: tournamentID,
		RoundNumber:  number,
		Date:         &date,
		WeeklyBudget: decimal.NewFromInt(200),
		State:        state,
	}
	if err := repo.CreateRound(context.Background(), round); err != nil {
		t.Fatalf("failed to create round: %v", err)
	}
	return round
}

func TestRoundReminderCheck(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)
	today := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)

	tournament := &models.Tournament{
		Name:              "Serie A",
		Year:              2026,
		StartDate:         today,
		NumRounds:         36,
		WeeklyBudget:      decimal.NewFromInt(200),
		WeeklyPrizeAmount: decimal.NewFromInt(40),
		FinalBudget:       decimal.NewFromInt(5760),
		FinalPrizesAmount: decimal.NewFromInt(4608),
		State:             models.TournamentStateInProgress,
	}
	if err := repo.CreateTournament(ctx, tournament); err != nil {
		t.Fatalf("failed to create tournament: %v", err)
	}
	seedRound(t, repo, tournament.ID, 1, today.AddDate(0, 0, -7), models.RoundStateRoundConcluded)
	teams := seedRound(t, repo, tournament.ID, 2, today, models.RoundStateEnteringTeams)
	seedRound(t, repo, tournament.ID, 3, today.AddDate(0, 0, 1), models.RoundStateEnteringPredictions)
	seedRound(t, repo, tournament.ID, 4, today.AddDate(0, 0, 7), models.RoundStateEnteringTeams)

	bus := events.NewBus()
	recorder := &events.Recorder{}
	bus.Subscribe(recorder.Handle)

	reminder := NewRoundReminder(repo, bus, time.Hour).
		WithClock(func() time.Time { return today.Add(9 * time.Hour) })

	if sent := reminder.Check(ctx); sent != 2 {
		t.Fatalf("expected 2 reminders, got %d", sent)
	}
	for _, e := range recorder.Events() {
		if e.Type != events.RoundReminder {
			t.Errorf("unexpected event %s", e.Type)
		}
		if e.RoundNumber != 2 && e.RoundNumber != 3 {
			t.Errorf("unexpected reminder for round %d", e.RoundNumber)
		}
	}

	if sent := reminder.Check(ctx); sent != 0 {
		t.Errorf("expected reminders to be sent once, got %d more", sent)
	}

	// Moving on to predictions is worth a new reminder.
	teams.State = models.RoundStateEnteringPredictions
	if err := repo.UpdateRound(ctx, teams); err != nil {
		t.Fatalf("failed to update round: %v", err)
	}
	if sent := reminder.Check(ctx); sent != 1 {
		t.Errorf("expected 1 reminder after state change, got %d", sent)
	}
}

func TestRoundReminderStartStop(t *testing.T) {
	repo := setupTestRepo(t)
	reminder := NewRoundReminder(repo, events.NewBus(), time.Hour)

	if err := reminder.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := reminder.Start(); err != nil {
		t.Fatalf("second Start should be a no-op: %v", err)
	}
	if err := reminder.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := reminder.Stop(); err != nil {
		t.Fatalf("second Stop should be a no-op: %v", err)
	}
}
