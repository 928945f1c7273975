package mealcall

import "mealcall-app-go/internal/domain/event"

const (
	EventMealCallCreated      = "MealCallCreated"
	EventMealResponseReceived = "MealResponseReceived"
	EventReminderRequested    = "ReminderRequested"
)

type MealCallCreated struct {
	event.Base
	MealCallID     string   `json:"meal_call_id"`
	FamilyID       string   `json:"family_id"`
	CallerID       string   `json:"caller_id"`
	CallerNickname string   `json:"caller_nickname"`
	Message        string   `json:"message,omitempty"`
	MenuNames      []string `json:"menu_names"`
}

func (MealCallCreated) EventType() string { return EventMealCallCreated }

type MealResponseReceived struct {
	event.Base
	MealCallID   string `json:"meal_call_id"`
	FamilyID     string `json:"family_id"`
	MemberID     string `json:"member_id"`
	ResponseType string `json:"response_type"`
}

func (MealResponseReceived) EventType() string { return EventMealResponseReceived }

type ReminderRequested struct {
	event.Base
	MealCallID       string   `json:"meal_call_id"`
	FamilyID         string   `json:"family_id"`
	RequesterID      string   `json:"requester_id"`
	PendingMemberIDs []string `json:"pending_member_ids"`
}

func (ReminderRequested) EventType() string { return EventReminderRequested }
