package event

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is an immutable record of a domain state change. The type tag
// returned by EventType is what the bus routes on.
type Event interface {
	EventID() string
	EventType() string
	OccurredAt() time.Time
}

// Base carries identity and timing for concrete events. Concrete event
// types embed it by value and implement EventType themselves.
type Base struct {
	ID string    `json:"event_id"`
	At time.Time `json:"occurred_at"`
}

func NewBase() Base {
	return Base{
		ID: uuid.NewString(),
		At: time.Now().UTC(),
	}
}

func (b Base) EventID() string       { return b.ID }
func (b Base) OccurredAt() time.Time { return b.At }

// Recorder accumulates events raised by an aggregate until they are
// drained with Collect. Aggregates embed it instead of inheriting from a
// base type. Repositories must reconstruct aggregates with a zero
// Recorder so that loading never re-emits historical events.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Record(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Collect returns the accumulated events in emission order and clears
// the buffer, so each event is drained exactly once.
func (r *Recorder) Collect() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := r.events
	r.events = nil
	return events
}
