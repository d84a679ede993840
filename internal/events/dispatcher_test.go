package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcher_PublishReachesSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []Event
	d.Subscribe(EventMemberCheckedIn, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventMemberCheckedIn, GymID: "T1"})
	if err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("handler called %d times, want 1", len(got))
	}
	if got[0].GymID != "T1" {
		t.Errorf("GymID = %q, want %q", got[0].GymID, "T1")
	}
}

func TestDispatcher_UnrelatedEventTypeNotDelivered(t *testing.T) {
	d := NewInMemoryDispatcher()

	called := false
	d.Subscribe(EventStaffCheckedIn, func(context.Context, Event) error {
		called = true
		return nil
	})

	_ = d.Publish(context.Background(), Event{Type: EventMemberCheckedIn})
	if called {
		t.Error("staff handler should not receive member events")
	}
}

func TestDispatcher_HandlerErrorDoesNotStopOthers(t *testing.T) {
	d := NewInMemoryDispatcher()

	second := false
	d.Subscribe(EventMemberCheckedIn, func(context.Context, Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventMemberCheckedIn, func(context.Context, Event) error {
		second = true
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventMemberCheckedIn}); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	if !second {
		t.Error("second handler should run despite first handler error")
	}
}
