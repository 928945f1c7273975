package mealcall

import (
	"errors"
	"testing"
	"time"
)

func newTestCall(memberIDs ...string) *MealCall {
	return New("family-1", memberIDs[0], "아빠", memberIDs, nil, "")
}

func TestNewMealCallEmitsCreatedEvent(t *testing.T) {
	menus := []MenuItem{
		*NewMenuItem("family-1", "김치찌개", "🍲", CategoryKorean),
		*NewMenuItem("family-1", "제육볶음", "🥩", CategoryKorean),
	}
	mc := New("family-1", "caller-1", "아빠", []string{"caller-1", "m-2"}, menus, "밥 먹자!")

	if mc.Status != StatusActive {
		t.Fatalf("expected ACTIVE, got %q", mc.Status)
	}
	if mc.CompletedAt != nil {
		t.Fatal("expected no completion timestamp on creation")
	}

	events := mc.Collect()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	created, ok := events[0].(MealCallCreated)
	if !ok {
		t.Fatalf("expected MealCallCreated, got %T", events[0])
	}
	if created.CallerNickname != "아빠" || created.Message != "밥 먹자!" {
		t.Fatalf("unexpected event payload: %+v", created)
	}
	if len(created.MenuNames) != 2 || created.MenuNames[0] != "김치찌개" || created.MenuNames[1] != "제육볶음" {
		t.Fatalf("expected flattened menu names, got %v", created.MenuNames)
	}

	if again := mc.Collect(); len(again) != 0 {
		t.Fatalf("expected empty second drain, got %d events", len(again))
	}
}

func TestRespondReplacesPriorResponse(t *testing.T) {
	mc := newTestCall("caller", "m-2")
	mc.Collect()

	first, err := mc.Respond("m-2", ResponseComing5Min, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	firstID := first.ID

	second, err := mc.Respond("m-2", ResponseComingNow, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(mc.Responses) != 1 {
		t.Fatalf("expected exactly one response for the member, got %d", len(mc.Responses))
	}
	if mc.Responses[0].Type != ResponseComingNow {
		t.Fatalf("expected latest response to win, got %q", mc.Responses[0].Type)
	}
	if second.ID == firstID {
		t.Fatal("expected resubmission to produce a fresh response identity")
	}
}

func TestRespondEmitsEventPerCall(t *testing.T) {
	mc := newTestCall("caller", "m-2")
	mc.Collect()

	mc.Respond("m-2", ResponseNotEating, "")
	mc.Respond("m-2", ResponseNotEating, "")

	events := mc.Collect()
	if len(events) != 2 {
		t.Fatalf("expected 2 events for 2 responds, got %d", len(events))
	}
	for _, e := range events {
		received, ok := e.(MealResponseReceived)
		if !ok {
			t.Fatalf("expected MealResponseReceived, got %T", e)
		}
		if received.ResponseType != string(ResponseNotEating) {
			t.Fatalf("unexpected response type in event: %q", received.ResponseType)
		}
	}
}

func TestPendingMemberIDsPreserveSnapshotOrder(t *testing.T) {
	mc := newTestCall("caller", "m-2", "m-3", "m-4")
	mc.Collect()

	mc.Respond("m-3", ResponseComingNow, "")

	pending := mc.PendingMemberIDs()
	want := []string{"caller", "m-2", "m-4"}
	if len(pending) != len(want) {
		t.Fatalf("expected %v, got %v", want, pending)
	}
	for i := range want {
		if pending[i] != want[i] {
			t.Fatalf("expected snapshot order %v, got %v", want, pending)
		}
	}
}

func TestPendingIgnoresMembersOutsideSnapshot(t *testing.T) {
	mc := newTestCall("caller", "m-2")
	mc.Collect()

	// A member who joined the family after the call went out responds;
	// they were never pending and must not appear as such afterwards.
	mc.Respond("late-joiner", ResponseComingNow, "")

	pending := mc.PendingMemberIDs()
	if len(pending) != 2 || pending[0] != "caller" || pending[1] != "m-2" {
		t.Fatalf("expected snapshot members only, got %v", pending)
	}
}

func TestRequestReminderCarriesPendingList(t *testing.T) {
	mc := newTestCall("caller", "m-2", "m-3")
	mc.Collect()
	mc.Respond("m-2", ResponseComingNow, "")
	mc.Collect()

	pending, err := mc.RequestReminder("caller")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending members, got %v", pending)
	}

	events := mc.Collect()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	reminder, ok := events[0].(ReminderRequested)
	if !ok {
		t.Fatalf("expected ReminderRequested, got %T", events[0])
	}
	if reminder.RequesterID != "caller" {
		t.Fatalf("expected requester caller, got %q", reminder.RequesterID)
	}
	if len(reminder.PendingMemberIDs) != 2 || reminder.PendingMemberIDs[0] != "caller" || reminder.PendingMemberIDs[1] != "m-3" {
		t.Fatalf("unexpected pending list in event: %v", reminder.PendingMemberIDs)
	}

	if len(mc.Responses) != 1 {
		t.Fatal("expected reminder to leave stored state untouched")
	}
}

func TestCompleteStampsTimestamp(t *testing.T) {
	mc := newTestCall("caller")
	mc.Collect()

	before := time.Now().UTC()
	if err := mc.Complete(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mc.Status != StatusCompleted {
		t.Fatalf("expected COMPLETED, got %q", mc.Status)
	}
	if mc.CompletedAt == nil || mc.CompletedAt.Before(before) {
		t.Fatalf("expected completion timestamp set, got %v", mc.CompletedAt)
	}
}

func TestTerminalStatesRejectFurtherOperations(t *testing.T) {
	completed := newTestCall("caller", "m-2")
	completed.Complete()
	if _, err := completed.Respond("m-2", ResponseComingNow, ""); !errors.Is(err, ErrCallClosed) {
		t.Fatalf("expected ErrCallClosed on respond after complete, got %v", err)
	}
	if _, err := completed.RequestReminder("caller"); !errors.Is(err, ErrCallClosed) {
		t.Fatalf("expected ErrCallClosed on reminder after complete, got %v", err)
	}
	if err := completed.Complete(); !errors.Is(err, ErrCallClosed) {
		t.Fatalf("expected ErrCallClosed on re-complete, got %v", err)
	}

	cancelled := newTestCall("caller", "m-2")
	cancelled.Cancel()
	if cancelled.Status != StatusCancelled {
		t.Fatalf("expected CANCELLED, got %q", cancelled.Status)
	}
	if _, err := cancelled.Respond("m-2", ResponseComingNow, ""); !errors.Is(err, ErrCallClosed) {
		t.Fatalf("expected ErrCallClosed on respond after cancel, got %v", err)
	}
	if err := cancelled.Complete(); !errors.Is(err, ErrCallClosed) {
		t.Fatalf("expected ErrCallClosed on complete after cancel, got %v", err)
	}
}

func TestParseResponseType(t *testing.T) {
	for _, valid := range []string{"COMING_NOW", "COMING_5MIN", "NOT_EATING", "CUSTOM"} {
		if _, err := ParseResponseType(valid); err != nil {
			t.Fatalf("expected %q to parse, got %v", valid, err)
		}
	}
	if _, err := ParseResponseType("MAYBE_LATER"); !errors.Is(err, ErrInvalidResponseType) {
		t.Fatalf("expected ErrInvalidResponseType, got %v", err)
	}
	if _, err := ParseResponseType(""); !errors.Is(err, ErrInvalidResponseType) {
		t.Fatalf("expected ErrInvalidResponseType for empty value, got %v", err)
	}
}

func TestParseCategoryLenientAndStrict(t *testing.T) {
	if got, err := ParseCategory("KOREAN", false); err != nil || got != CategoryKorean {
		t.Fatalf("expected KOREAN, got %q err %v", got, err)
	}
	if got, err := ParseCategory("FUSION", false); err != nil || got != CategoryEtc {
		t.Fatalf("expected lenient fallback to ETC, got %q err %v", got, err)
	}
	if got, err := ParseCategory("", true); err != nil || got != CategoryEtc {
		t.Fatalf("expected empty category to default to ETC, got %q err %v", got, err)
	}
	if _, err := ParseCategory("FUSION", true); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory in strict mode, got %v", err)
	}
}

func TestNewMenuItemDefaultsIcon(t *testing.T) {
	item := NewMenuItem("family-1", "떡볶이", "", CategorySnack)
	if item.Icon != defaultMenuIcon {
		t.Fatalf("expected default icon, got %q", item.Icon)
	}
}
