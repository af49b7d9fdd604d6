package jobs

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"totocalcio/internal/events"
	"totocalcio/internal/models"
	"totocalcio/internal/repository"
)

// reminderWindow is how far ahead of a round date reminders go out.
const reminderWindow = 48 * time.Hour

// RoundReminder periodically looks for rounds dated today or tomorrow that
// are still waiting for fixtures or predictions and publishes a reminder
// for each. It never changes pool state.
type RoundReminder struct {
	repo     *repository.Repository
	bus      events.Publisher
	interval time.Duration
	now      func() time.Time

	mu        sync.Mutex
	scheduler gocron.Scheduler
	reminded  map[reminderKey]bool
}

type reminderKey struct {
	roundID uint
	state   models.RoundState
}

// NewRoundReminder creates a reminder job
func NewRoundReminder(repo *repository.Repository, bus events.Publisher, interval time.Duration) *RoundReminder {
	return &RoundReminder{
		repo:     repo,
		bus:      bus,
		interval: interval,
		now:      time.Now,
		reminded: make(map[reminderKey]bool),
	}
}

// WithClock replaces time.Now, which decides what "today" is.
func (rr *RoundReminder) WithClock(now func() time.Time) *RoundReminder {
	rr.now = now
	return rr
}

// Start schedules the reminder check. The first check runs immediately.
func (rr *RoundReminder) Start() error {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	if rr.scheduler != nil {
		return nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(rr.interval),
		gocron.NewTask(func() {
			rr.Check(context.Background())
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return fmt.Errorf("failed to schedule round reminder: %w", err)
	}

	log.Printf("[RoundReminder] Starting round reminder job (interval: %v)", rr.interval)
	scheduler.Start()
	rr.scheduler = scheduler
	return nil
}

// Stop shuts the scheduler down and waits for a running check.
func (rr *RoundReminder) Stop() error {
	rr.mu.Lock()
	scheduler := rr.scheduler
	rr.scheduler = nil
	rr.mu.Unlock()

	if scheduler == nil {
		return nil
	}
	log.Println("[RoundReminder] Stopping round reminder job")
	return scheduler.Shutdown()
}

// Check publishes one reminder per round and state and returns how many were sent.
func (rr *RoundReminder) Check(ctx context.Context) int {
	y, m, d := rr.now().Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	rounds, err := rr.repo.ListRoundsDatedBetween(ctx, from, from.Add(reminderWindow))
	if err != nil {
		log.Printf("[RoundReminder] Error fetching upcoming rounds: %v", err)
		return 0
	}

	sent := 0
	for _, round := range rounds {
		key := reminderKey{roundID: round.ID, state: round.State}
		rr.mu.Lock()
		done := rr.reminded[key]
		rr.reminded[key] = true
		rr.mu.Unlock()
		if done {
			continue
		}

		rr.bus.Publish(events.Event{
			Type:         events.RoundReminder,
			TournamentID: round.TournamentID,
			RoundNumber:  round.RoundNumber,
			Message:      reminderMessage(round),
			Payload:      round,
		})
		sent++
	}

	if sent > 0 {
		log.Printf("[RoundReminder] Sent %d reminders", sent)
	}
	return sent
}

func reminderMessage(round models.Round) string {
	when := "soon"
	if round.Date != nil {
		when = "on " + round.Date.Format(models.DateLayout)
	}
	switch round.State {
	case models.RoundStateEnteringTeams:
		return fmt.Sprintf("round %d is played %s and still needs its fixtures", round.RoundNumber, when)
	default:
		return fmt.Sprintf("round %d is played %s and predictions are still open", round.RoundNumber, when)
	}
}
