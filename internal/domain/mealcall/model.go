package mealcall

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"mealcall-app-go/internal/domain/event"
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

type ResponseType string

const (
	ResponseComingNow  ResponseType = "COMING_NOW"
	ResponseComing5Min ResponseType = "COMING_5MIN"
	ResponseNotEating  ResponseType = "NOT_EATING"
	ResponseCustom     ResponseType = "CUSTOM"
)

// ParseResponseType validates the wire value before it reaches the
// aggregate.
func ParseResponseType(s string) (ResponseType, error) {
	switch rt := ResponseType(s); rt {
	case ResponseComingNow, ResponseComing5Min, ResponseNotEating, ResponseCustom:
		return rt, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidResponseType, s)
}

type MealResponse struct {
	ID            string
	MealCallID    string
	MemberID      string
	Type          ResponseType
	CustomMessage string
	RespondedAt   time.Time
}

// MealCall is the aggregate root for one "밥 먹자" broadcast. It owns its
// responses exclusively and references menu items by snapshot.
// AllMemberIDs is the family roster frozen at creation time: pending
// computation runs against that snapshot, so members joining later are
// never counted as non-respondents.
type MealCall struct {
	event.Recorder

	ID           string
	FamilyID     string
	CallerID     string
	Message      string
	Status       Status
	CreatedAt    time.Time
	CompletedAt  *time.Time
	Menus        []MenuItem
	Responses    []MealResponse
	AllMemberIDs []string
}

func New(familyID, callerID, callerNickname string, allMemberIDs []string, menus []MenuItem, message string) *MealCall {
	mc := &MealCall{
		ID:           uuid.NewString(),
		FamilyID:     familyID,
		CallerID:     callerID,
		Message:      message,
		Status:       StatusActive,
		CreatedAt:    time.Now().UTC(),
		Menus:        menus,
		AllMemberIDs: append([]string(nil), allMemberIDs...),
	}

	// Menu names are flattened into the event: notification dispatch
	// runs outside this aggregate and has no access to MenuItem entities.
	names := make([]string, len(menus))
	for i := range menus {
		names[i] = menus[i].Name
	}
	mc.Record(MealCallCreated{
		Base:           event.NewBase(),
		MealCallID:     mc.ID,
		FamilyID:       familyID,
		CallerID:       callerID,
		CallerNickname: callerNickname,
		Message:        message,
		MenuNames:      names,
	})
	return mc
}

// Respond replaces any earlier answer from the same member; only the
// latest counts. Each call produces a fresh response record with its own
// identity and timestamp, even when the content is unchanged.
func (mc *MealCall) Respond(memberID string, rt ResponseType, customMessage string) (*MealResponse, error) {
	if mc.Status != StatusActive {
		return nil, ErrCallClosed
	}

	kept := make([]MealResponse, 0, len(mc.Responses)+1)
	for _, r := range mc.Responses {
		if r.MemberID != memberID {
			kept = append(kept, r)
		}
	}
	kept = append(kept, MealResponse{
		ID:            uuid.NewString(),
		MealCallID:    mc.ID,
		MemberID:      memberID,
		Type:          rt,
		CustomMessage: customMessage,
		RespondedAt:   time.Now().UTC(),
	})
	mc.Responses = kept

	mc.Record(MealResponseReceived{
		Base:         event.NewBase(),
		MealCallID:   mc.ID,
		FamilyID:     mc.FamilyID,
		MemberID:     memberID,
		ResponseType: string(rt),
	})
	return &mc.Responses[len(mc.Responses)-1], nil
}

// RequestReminder emits ReminderRequested carrying the pending list; no
// stored state changes. There is no cooldown between requests.
func (mc *MealCall) RequestReminder(requesterID string) ([]string, error) {
	if mc.Status != StatusActive {
		return nil, ErrCallClosed
	}

	pending := mc.PendingMemberIDs()
	mc.Record(ReminderRequested{
		Base:             event.NewBase(),
		MealCallID:       mc.ID,
		FamilyID:         mc.FamilyID,
		RequesterID:      requesterID,
		PendingMemberIDs: pending,
	})
	return pending, nil
}

func (mc *MealCall) Complete() error {
	if mc.Status != StatusActive {
		return ErrCallClosed
	}
	mc.Status = StatusCompleted
	now := time.Now().UTC()
	mc.CompletedAt = &now
	return nil
}

func (mc *MealCall) Cancel() error {
	if mc.Status != StatusActive {
		return ErrCallClosed
	}
	mc.Status = StatusCancelled
	now := time.Now().UTC()
	mc.CompletedAt = &now
	return nil
}

// PendingMemberIDs derives, in snapshot order, the roster members
// without a response. Recomputed on every call, never stored.
func (mc *MealCall) PendingMemberIDs() []string {
	responded := make(map[string]struct{}, len(mc.Responses))
	for _, r := range mc.Responses {
		responded[r.MemberID] = struct{}{}
	}

	pending := make([]string, 0, len(mc.AllMemberIDs))
	for _, id := range mc.AllMemberIDs {
		if _, ok := responded[id]; !ok {
			pending = append(pending, id)
		}
	}
	return pending
}

func (mc *MealCall) IsActive() bool {
	return mc.Status == StatusActive
}
