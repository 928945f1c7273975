package eventbus

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"mealcall-app-go/internal/domain/event"
	"mealcall-app-go/pkg/logger"
)

type testEvent struct {
	event.Base
	tag string
}

func (e testEvent) EventType() string { return e.tag }

func newTestBus() *Bus {
	return New(logger.New(io.Discard, slog.LevelError, "text"))
}

func TestPublishInvokesHandlersInRegistrationOrder(t *testing.T) {
	bus := newTestBus()

	var calls []string
	bus.Subscribe("Ping", func(ctx context.Context, e event.Event) error {
		calls = append(calls, "first")
		return nil
	})
	bus.Subscribe("Ping", func(ctx context.Context, e event.Event) error {
		calls = append(calls, "second")
		return nil
	})

	bus.Publish(context.Background(), testEvent{Base: event.NewBase(), tag: "Ping"})

	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Fatalf("expected handlers in registration order, got %v", calls)
	}
}

func TestPublishIsolatesHandlerFailures(t *testing.T) {
	bus := newTestBus()

	var reached bool
	bus.Subscribe("Ping", func(ctx context.Context, e event.Event) error {
		return errors.New("boom")
	})
	bus.Subscribe("Ping", func(ctx context.Context, e event.Event) error {
		reached = true
		return nil
	})

	bus.Publish(context.Background(), testEvent{Base: event.NewBase(), tag: "Ping"})

	if !reached {
		t.Fatal("expected second handler to run after first handler failed")
	}
}

func TestPublishRecoversHandlerPanic(t *testing.T) {
	bus := newTestBus()

	var reached bool
	bus.Subscribe("Ping", func(ctx context.Context, e event.Event) error {
		panic("boom")
	})
	bus.Subscribe("Ping", func(ctx context.Context, e event.Event) error {
		reached = true
		return nil
	})

	bus.Publish(context.Background(), testEvent{Base: event.NewBase(), tag: "Ping"})

	if !reached {
		t.Fatal("expected second handler to run after first handler panicked")
	}
}

func TestPublishIgnoresUnsubscribedEvents(t *testing.T) {
	bus := newTestBus()
	bus.Publish(context.Background(), testEvent{Base: event.NewBase(), tag: "Nobody"})
}

func TestPublishAllCompletesHandlersPerEventBeforeNext(t *testing.T) {
	bus := newTestBus()

	var calls []string
	bus.Subscribe("A", func(ctx context.Context, e event.Event) error {
		calls = append(calls, "a1")
		return nil
	})
	bus.Subscribe("A", func(ctx context.Context, e event.Event) error {
		calls = append(calls, "a2")
		return nil
	})
	bus.Subscribe("B", func(ctx context.Context, e event.Event) error {
		calls = append(calls, "b1")
		return nil
	})

	bus.PublishAll(context.Background(), []event.Event{
		testEvent{Base: event.NewBase(), tag: "A"},
		testEvent{Base: event.NewBase(), tag: "B"},
	})

	want := []string{"a1", "a2", "b1"}
	if len(calls) != len(want) {
		t.Fatalf("expected %d calls, got %v", len(want), calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("expected call order %v, got %v", want, calls)
		}
	}
}
