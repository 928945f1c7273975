package notification

import (
	"context"
	"fmt"
	"strings"

	"mealcall-app-go/internal/domain/event"
	"mealcall-app-go/internal/domain/mealcall"
	"mealcall-app-go/internal/eventbus"
	"mealcall-app-go/pkg/logger"
)

const (
	pushTypeMealCall         = "MEAL_CALL"
	pushTypeMealCallReminder = "MEAL_CALL_REMINDER"
)

// MealCallHandler turns meal-call domain events into push notifications.
// Delivery failures are logged and swallowed; the calling flow already
// succeeded by the time these run.
type MealCallHandler struct {
	devices Repository
	sender  Sender
	log     logger.Logger
}

func NewMealCallHandler(devices Repository, sender Sender, log logger.Logger) *MealCallHandler {
	return &MealCallHandler{devices: devices, sender: sender, log: log}
}

func (h *MealCallHandler) Register(bus *eventbus.Bus) {
	bus.Subscribe(mealcall.EventMealCallCreated, h.OnMealCallCreated)
	bus.Subscribe(mealcall.EventReminderRequested, h.OnReminderRequested)
}

// OnMealCallCreated notifies every family member except the caller.
func (h *MealCallHandler) OnMealCallCreated(ctx context.Context, e event.Event) error {
	created, ok := e.(mealcall.MealCallCreated)
	if !ok {
		return fmt.Errorf("unexpected event %T for %s", e, mealcall.EventMealCallCreated)
	}

	regs, err := h.devices.FindByFamily(ctx, created.FamilyID)
	if err != nil {
		return fmt.Errorf("load device registrations: %w", err)
	}
	tokens := make([]string, 0, len(regs))
	for _, reg := range regs {
		if reg.MemberID == created.CallerID {
			continue
		}
		tokens = append(tokens, reg.PushToken)
	}
	return h.push(ctx, tokens,
		fmt.Sprintf("🍚 %s이(가) 밥먹자!", created.CallerNickname),
		mealCallBody(created.Message, created.MenuNames),
		map[string]string{
			"type":         pushTypeMealCall,
			"meal_call_id": created.MealCallID,
		})
}

// OnReminderRequested nudges only the members still pending.
func (h *MealCallHandler) OnReminderRequested(ctx context.Context, e event.Event) error {
	reminder, ok := e.(mealcall.ReminderRequested)
	if !ok {
		return fmt.Errorf("unexpected event %T for %s", e, mealcall.EventReminderRequested)
	}
	if len(reminder.PendingMemberIDs) == 0 {
		return nil
	}

	regs, err := h.devices.FindByMembers(ctx, reminder.PendingMemberIDs)
	if err != nil {
		return fmt.Errorf("load device registrations: %w", err)
	}
	tokens := make([]string, 0, len(regs))
	for _, reg := range regs {
		tokens = append(tokens, reg.PushToken)
	}
	return h.push(ctx, tokens,
		"⏰ 밥먹자 재알림",
		"아직 응답하지 않았어요! 밥 먹을 건가요?",
		map[string]string{
			"type":         pushTypeMealCallReminder,
			"meal_call_id": reminder.MealCallID,
		})
}

func (h *MealCallHandler) push(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	if len(tokens) == 0 {
		return nil
	}
	if err := h.sender.Send(ctx, tokens, title, body, data); err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	return nil
}

// mealCallBody prefers the caller's own message, then the menu line-up,
// then a stock phrase.
func mealCallBody(message string, menuNames []string) string {
	if message != "" {
		return message
	}
	if len(menuNames) > 0 {
		return strings.Join(menuNames, ", ") + " 준비됐어요!"
	}
	return "밥 먹을 시간이에요!"
}
