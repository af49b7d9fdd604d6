package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"totocalcio/internal/apperr"
	"totocalcio/internal/events"
	"totocalcio/internal/export"
	"totocalcio/internal/models"
	"totocalcio/internal/repository"
)

// PoolService is the command surface of the prediction pool. Commands run one
// at a time, each inside a single transaction, and publish their events only
// after the commit succeeded.
type PoolService struct {
	repo     *repository.Repository
	bus      events.Publisher
	exporter export.Exporter
	now      func() time.Time
	mu       sync.Mutex
}

// Option customises a PoolService.
type Option func(*PoolService)

// WithClock replaces time.Now, used by the round date guard.
func WithClock(now func() time.Time) Option {
	return func(s *PoolService) { s.now = now }
}

// WithExporter sets where published reports go.
func WithExporter(exporter export.Exporter) Option {
	return func(s *PoolService) { s.exporter = exporter }
}

func NewPoolService(repo *repository.Repository, bus events.Publisher, opts ...Option) *PoolService {
	s := &PoolService{
		repo: repo,
		bus:  bus,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// pending collects the events of a command until it commits.
type pending []events.Event

func (p *pending) add(typ events.Type, tournamentID uint, round int, payload interface{}, format string, args ...interface{}) {
	*p = append(*p, events.Event{
		Type:         typ,
		TournamentID: tournamentID,
		RoundNumber:  round,
		Message:      fmt.Sprintf(format, args...),
		Payload:      payload,
	})
}

// execute runs fn in a transaction. Untyped failures are reported as database
// errors; every failure is published as ErrorOccurred.
func (s *PoolService) execute(ctx context.Context, action string, fn func(tx *repository.Repository, out *pending) error) error {
	var out pending
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		return fn(tx, &out)
	})
	if err != nil {
		return s.fail(action, apperr.AsDatabase(err, action))
	}
	for _, e := range out {
		s.publish(e)
	}
	return nil
}

func (s *PoolService) fail(action string, err error) error {
	log.Printf("[Pool] %s failed: %v", action, err)
	s.publish(events.Event{
		Type:    events.ErrorOccurred,
		Message: err.Error(),
		Payload: map[string]string{"action": action, "kind": string(apperr.KindOf(err))},
	})
	return err
}

func (s *PoolService) publish(e events.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}

func (s *PoolService) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// activeTournament is the tournament commands operate on.
func activeTournament(ctx context.Context, repo *repository.Repository) (*models.Tournament, error) {
	t, err := repo.GetActiveTournament(ctx)
	if repository.IsNotFound(err) {
		return nil, apperr.State("no active tournament")
	}
	if err != nil {
		return nil, apperr.Database(err, "failed to load active tournament")
	}
	return t, nil
}

// tournamentOrActive loads a tournament by id, or the active one when id is zero.
func tournamentOrActive(ctx context.Context, repo *repository.Repository, id uint) (*models.Tournament, error) {
	if id == 0 {
		t, err := repo.GetActiveTournament(ctx)
		if repository.IsNotFound(err) {
			return nil, apperr.NotFound("no active tournament")
		}
		if err != nil {
			return nil, apperr.Database(err, "failed to load active tournament")
		}
		return t, nil
	}
	t, err := repo.GetTournament(ctx, id)
	if repository.IsNotFound(err) {
		return nil, apperr.NotFound("tournament %d not found", id)
	}
	if err != nil {
		return nil, apperr.Database(err, "failed to load tournament %d", id)
	}
	return t, nil
}

// currentRound is the round the tournament is currently playing.
func currentRound(ctx context.Context, repo *repository.Repository, t *models.Tournament) (*models.Round, error) {
	if t.CurrentRound == 0 {
		return nil, apperr.State("tournament %q has not started", t.Name)
	}
	round, err := repo.GetRound(ctx, t.ID, t.CurrentRound)
	if repository.IsNotFound(err) {
		return nil, apperr.State("round %d does not exist", t.CurrentRound)
	}
	if err != nil {
		return nil, apperr.Database(err, "failed to load round %d", t.CurrentRound)
	}
	return round, nil
}

func participantNames(participants []models.Participant) map[uint]string {
	names := make(map[uint]string, len(participants))
	for _, p := range participants {
		names[p.ID] = p.Name
	}
	return names
}

func participantIDs(participants []models.Participant) []uint {
	ids := make([]uint, len(participants))
	for i, p := range participants {
		ids[i] = p.ID
	}
	return ids
}
