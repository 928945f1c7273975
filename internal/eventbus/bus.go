package eventbus

import (
	"context"
	"fmt"

	"mealcall-app-go/internal/domain/event"
	"mealcall-app-go/pkg/logger"
)

type Handler func(ctx context.Context, e event.Event) error

// Bus fans events out to handlers registered per event-type tag.
// Construct it once at startup and register every handler before the
// first Publish; the registry is not mutated afterwards.
type Bus struct {
	handlers map[string][]Handler
	log      logger.Logger
}

func New(log logger.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

func (b *Bus) Subscribe(eventType string, h Handler) {
	b.handlers[eventType] = append(b.handlers[eventType], h)
}

// Publish invokes every handler registered for the event's type in
// registration order. A failing handler is logged and does not stop the
// remaining handlers; nothing propagates back to the publisher.
func (b *Bus) Publish(ctx context.Context, e event.Event) {
	for _, h := range b.handlers[e.EventType()] {
		if err := b.invoke(ctx, h, e); err != nil {
			b.log.Error("eventbus: handler failed",
				"event_type", e.EventType(), "event_id", e.EventID(), "err", err)
		}
	}
}

// PublishAll publishes sequentially: all handlers for one event finish
// before the next event is published.
func (b *Bus) PublishAll(ctx context.Context, events []event.Event) {
	for _, e := range events {
		b.Publish(ctx, e)
	}
}

func (b *Bus) invoke(ctx context.Context, h Handler, e event.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h(ctx, e)
}
