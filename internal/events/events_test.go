package events

import (
	"testing"
)

func TestBusDeliversInOrder(t *testing.T) {
	bus := NewBus()
	var order []string
	bus.Subscribe(func(e Event) { order = append(order, "first:"+string(e.Type)) })
	bus.Subscribe(func(e Event) { order = append(order, "second:"+string(e.Type)) })

	bus.Publish(Event{Type: TournamentCreated, TournamentID: 1})

	if len(order) != 2 || order[0] != "first:tournament_created" || order[1] != "second:tournament_created" {
		t.Fatalf("unexpected delivery order %v", order)
	}
}

func TestBusStampsEvents(t *testing.T) {
	bus := NewBus()
	rec := &Recorder{}
	bus.Subscribe(rec.Handle)

	bus.Publish(Event{Type: RoundStateChanged})
	bus.Publish(Event{Type: RoundStateChanged})

	got := rec.Events()
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].ID == "" || got[0].ID == got[1].ID {
		t.Errorf("expected distinct ids, got %q and %q", got[0].ID, got[1].ID)
	}
	if got[0].OccurredAt.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestBusSurvivesPanickingSubscriber(t *testing.T) {
	bus := NewBus()
	rec := &Recorder{}
	bus.Subscribe(func(Event) { panic("boom") })
	bus.Subscribe(rec.Handle)

	bus.Publish(Event{Type: ErrorOccurred})

	if !rec.Has(ErrorOccurred) {
		t.Error("expected later subscriber to still receive the event")
	}
}

func TestRecorderReset(t *testing.T) {
	rec := &Recorder{}
	rec.Handle(Event{Type: MatchesChanged})
	rec.Reset()
	if len(rec.Types()) != 0 {
		t.Error("expected empty recorder after reset")
	}
}
