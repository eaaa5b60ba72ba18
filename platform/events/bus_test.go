package events

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testEvent struct {
	BaseEvent
	name string
}

func (e testEvent) EventName() string { return e.name }

type recordingHandler struct {
	calls chan string
	err   error
}

func (h *recordingHandler) Handle(_ context.Context, event Event) error {
	h.calls <- event.EventName()
	return h.err
}

func TestPublishSyncInvokesSubscribedHandlers(t *testing.T) {
	bus := NewInMemoryBus(nil)
	h := &recordingHandler{calls: make(chan string, 2)}
	bus.Subscribe("listing.created", h)

	if err := bus.PublishSync(context.Background(), testEvent{name: "listing.created"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(h.calls) != 1 {
		t.Fatalf("expected one handler call, got %d", len(h.calls))
	}
}

func TestPublishSyncJoinsHandlerErrors(t *testing.T) {
	bus := NewInMemoryBus(nil)
	failure := errors.New("handler failed")
	bus.Subscribe("e", &recordingHandler{calls: make(chan string, 1), err: failure})
	bus.Subscribe("e", &recordingHandler{calls: make(chan string, 1)})

	err := bus.PublishSync(context.Background(), testEvent{name: "e"})
	if !errors.Is(err, failure) {
		t.Fatalf("expected joined handler error, got %v", err)
	}
}

func TestPublishIsAsynchronousAndDeliversEventually(t *testing.T) {
	bus := NewInMemoryBus(nil)
	h := &recordingHandler{calls: make(chan string, 1)}
	bus.Subscribe("e", h)

	bus.Publish(context.Background(), testEvent{name: "e"})

	select {
	case name := <-h.calls:
		if name != "e" {
			t.Fatalf("unexpected event %q", name)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("async publish never reached the handler")
	}
}

func TestPublishToUnsubscribedEventIsNoOp(t *testing.T) {
	bus := NewInMemoryBus(nil)
	bus.Publish(context.Background(), testEvent{name: "nobody-listens"})
	if err := bus.PublishSync(context.Background(), testEvent{name: "nobody-listens"}); err != nil {
		t.Fatalf("publishing without subscribers must not error, got %v", err)
	}
}
