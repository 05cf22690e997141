package events

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestAsyncDispatcherRunsHandlersInBackground(t *testing.T) {
	dispatcher := NewAsyncDispatcher(zap.NewNop(), 4, 1)
	defer dispatcher.Close()

	handled := make(chan Event, 1)
	dispatcher.Subscribe(EventWebhookStatusChanged, func(ctx context.Context, event Event) error {
		handled <- event
		return nil
	})

	event := Event{ID: "evt-1", Type: EventWebhookStatusChanged, Timestamp: time.Now()}
	if !dispatcher.Publish(event) {
		t.Fatal("Publish() = false, want accepted")
	}

	select {
	case got := <-handled:
		if got.ID != "evt-1" {
			t.Errorf("handled event id = %s, want evt-1", got.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler never ran")
	}
}

func TestAsyncDispatcherDropsWhenQueueFull(t *testing.T) {
	dispatcher := NewAsyncDispatcher(zap.NewNop(), 1, 1)

	started := make(chan struct{})
	release := make(chan struct{})
	dispatcher.Subscribe(EventWebhookStatusChanged, func(ctx context.Context, event Event) error {
		started <- struct{}{}
		<-release
		return nil
	})

	// First event occupies the worker, second fills the queue.
	if !dispatcher.Publish(Event{ID: "a", Type: EventWebhookStatusChanged}) {
		t.Fatal("first event rejected")
	}
	<-started
	if !dispatcher.Publish(Event{ID: "b", Type: EventWebhookStatusChanged}) {
		t.Fatal("second event rejected")
	}
	if dispatcher.Publish(Event{ID: "c", Type: EventWebhookStatusChanged}) {
		t.Error("third event accepted, want dropped")
	}

	close(release)
	// Drain the second event's handler run before closing.
	<-started
	dispatcher.Close()
}

func TestAsyncDispatcherIgnoresHandlerErrors(t *testing.T) {
	dispatcher := NewAsyncDispatcher(zap.NewNop(), 4, 1)

	done := make(chan struct{}, 2)
	dispatcher.Subscribe(EventWebhookStatusChanged, func(ctx context.Context, event Event) error {
		done <- struct{}{}
		return context.DeadlineExceeded
	})

	dispatcher.Publish(Event{ID: "x", Type: EventWebhookStatusChanged})
	dispatcher.Publish(Event{ID: "y", Type: EventWebhookStatusChanged})

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("handler did not run for every event")
		}
	}
	dispatcher.Close()
}
