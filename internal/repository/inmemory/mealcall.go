package inmemory

import (
	"context"
	"sort"
	"sync"

	mealcalldomain "mealcall-app-go/internal/domain/mealcall"
)

type MealCallRepository struct {
	mu    sync.RWMutex
	calls map[string]*mealcalldomain.MealCall
}

func NewMealCallRepository() *MealCallRepository {
	return &MealCallRepository{calls: make(map[string]*mealcalldomain.MealCall)}
}

func (r *MealCallRepository) Save(_ context.Context, mc *mealcalldomain.MealCall) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[mc.ID] = cloneMealCall(mc)
	return nil
}

func (r *MealCallRepository) FindByID(_ context.Context, mealCallID string) (*mealcalldomain.MealCall, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mc, ok := r.calls[mealCallID]
	if !ok {
		return nil, mealcalldomain.ErrCallNotFound
	}
	return cloneMealCall(mc), nil
}

func (r *MealCallRepository) FindActiveByFamily(_ context.Context, familyID string) (*mealcalldomain.MealCall, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *mealcalldomain.MealCall
	for _, mc := range r.calls {
		if mc.FamilyID != familyID || !mc.IsActive() {
			continue
		}
		if latest == nil || mc.CreatedAt.After(latest.CreatedAt) {
			latest = mc
		}
	}
	if latest == nil {
		return nil, mealcalldomain.ErrCallNotFound
	}
	return cloneMealCall(latest), nil
}

func (r *MealCallRepository) FindByFamily(_ context.Context, familyID string, limit int) ([]*mealcalldomain.MealCall, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var calls []*mealcalldomain.MealCall
	for _, mc := range r.calls {
		if mc.FamilyID == familyID {
			calls = append(calls, cloneMealCall(mc))
		}
	}
	sort.Slice(calls, func(i, j int) bool {
		return calls[i].CreatedAt.After(calls[j].CreatedAt)
	})
	if len(calls) > limit {
		calls = calls[:limit]
	}
	return calls, nil
}

func cloneMealCall(mc *mealcalldomain.MealCall) *mealcalldomain.MealCall {
	clone := &mealcalldomain.MealCall{
		ID:          mc.ID,
		FamilyID:    mc.FamilyID,
		CallerID:    mc.CallerID,
		Message:     mc.Message,
		Status:      mc.Status,
		CreatedAt:   mc.CreatedAt,
		CompletedAt: mc.CompletedAt,
	}
	clone.Menus = append(clone.Menus, mc.Menus...)
	clone.Responses = append(clone.Responses, mc.Responses...)
	clone.AllMemberIDs = append(clone.AllMemberIDs, mc.AllMemberIDs...)
	return clone
}

type MenuRepository struct {
	mu    sync.RWMutex
	items map[string]mealcalldomain.MenuItem
}

func NewMenuRepository() *MenuRepository {
	return &MenuRepository{items: make(map[string]mealcalldomain.MenuItem)}
}

func (r *MenuRepository) Save(_ context.Context, item *mealcalldomain.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = *item
	return nil
}

func (r *MenuRepository) FindByID(_ context.Context, menuItemID string) (*mealcalldomain.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[menuItemID]
	if !ok {
		return nil, mealcalldomain.ErrMenuNotFound
	}
	return &item, nil
}

func (r *MenuRepository) FindByFamily(_ context.Context, familyID string) ([]mealcalldomain.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var items []mealcalldomain.MenuItem
	for _, item := range r.items {
		if item.FamilyID == familyID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}
