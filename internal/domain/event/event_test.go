package event

import "testing"

type testEvent struct {
	Base
	name string
}

func (e testEvent) EventType() string { return e.name }

func TestRecorderCollectReturnsEmissionOrder(t *testing.T) {
	var r Recorder
	r.Record(testEvent{Base: NewBase(), name: "first"})
	r.Record(testEvent{Base: NewBase(), name: "second"})
	r.Record(testEvent{Base: NewBase(), name: "third"})

	events := r.Collect()
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	for i, want := range []string{"first", "second", "third"} {
		if events[i].EventType() != want {
			t.Fatalf("expected event %d to be %q, got %q", i, want, events[i].EventType())
		}
	}
}

func TestRecorderCollectDrainsExactlyOnce(t *testing.T) {
	var r Recorder
	r.Record(testEvent{Base: NewBase(), name: "only"})

	if got := r.Collect(); len(got) != 1 {
		t.Fatalf("expected 1 event on first collect, got %d", len(got))
	}
	if got := r.Collect(); len(got) != 0 {
		t.Fatalf("expected empty second collect, got %d events", len(got))
	}
}

func TestRecorderRecordsAfterCollect(t *testing.T) {
	var r Recorder
	r.Record(testEvent{Base: NewBase(), name: "before"})
	r.Collect()
	r.Record(testEvent{Base: NewBase(), name: "after"})

	events := r.Collect()
	if len(events) != 1 || events[0].EventType() != "after" {
		t.Fatalf("expected only the event recorded after the drain, got %+v", events)
	}
}

func TestBaseCarriesIdentityAndTimestamp(t *testing.T) {
	a := NewBase()
	b := NewBase()
	if a.EventID() == "" || b.EventID() == "" {
		t.Fatal("expected non-empty event ids")
	}
	if a.EventID() == b.EventID() {
		t.Fatal("expected distinct event ids")
	}
	if a.OccurredAt().IsZero() {
		t.Fatal("expected occurred_at to be set")
	}
}
