package events

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type names a domain event.
type Type string

const (
	TournamentCreated        Type = "tournament_created"
	TournamentUpdated        Type = "tournament_updated"
	TournamentStateChanged   Type = "tournament_state_changed"
	TournamentDeleted        Type = "tournament_deleted"
	ParticipantsChanged      Type = "participants_changed"
	ParticipantsLimitReached Type = "participants_limit_reached"
	RoundUpdated             Type = "round_updated"
	RoundStateChanged        Type = "round_state_changed"
	MatchesChanged           Type = "matches_changed"
	PredictionsChanged       Type = "predictions_changed"
	ResultsChanged           Type = "results_changed"
	StandingsUpdated         Type = "standings_updated"
	WeeklyPrizeAssigned      Type = "weekly_prize_assigned"
	WeeklyPrizeRolledOver    Type = "weekly_prize_rolled_over"
	WeeklyPrizeUnclaimed     Type = "weekly_prize_unclaimed"
	FinalPrizesAssigned      Type = "final_prizes_assigned"
	TournamentCompleted      Type = "tournament_completed"
	RoundReminder            Type = "round_reminder"
	ReportPublished          Type = "report_published"
	ErrorOccurred            Type = "error_occurred"
)

// Event is a fire-and-forget notification about a command outcome.
type Event struct {
	ID           string      `json:"id"`
	Type         Type        `json:"type"`
	TournamentID uint        `json:"tournament_id,omitempty"`
	RoundNumber  int         `json:"round_number,omitempty"`
	Message      string      `json:"message"`
	Payload      interface{} `json:"payload,omitempty"`
	OccurredAt   time.Time   `json:"occurred_at"`
}

// Handler receives published events. Return values are never consumed.
type Handler func(Event)

// Publisher is what command code depends on.
type Publisher interface {
	Publish(Event)
}

// Bus delivers events synchronously to every subscriber in registration order.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h for every future event.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish stamps the event and hands it to each subscriber. A panicking
// subscriber is logged and skipped.
func (b *Bus) Publish(e Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		deliver(h, e)
	}
}

func deliver(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Events] subscriber panicked on %s: %v", e.Type, r)
		}
	}()
	h(e)
}

// Recorder collects events in memory. Useful as a subscriber in tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Handle(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the recorded event types in order.
func (r *Recorder) Types() []Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Type, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

// Has reports whether an event of the given type was recorded.
func (r *Recorder) Has(t Type) bool {
	for _, recorded := range r.Types() {
		if recorded == t {
			return true
		}
	}
	return false
}

// Reset drops everything recorded.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
