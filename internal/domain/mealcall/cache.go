package mealcall

import (
	"context"
	"time"
)

// Cache keeps the active meal-call id per family so the home-screen poll
// can skip a table scan. Misses are always safe; the store stays
// authoritative.
type Cache interface {
	GetActiveID(ctx context.Context, familyID string) (string, bool)
	SetActiveID(ctx context.Context, familyID, mealCallID string, ttl time.Duration)
	DeleteActiveID(ctx context.Context, familyID string)
}

type noopCache struct{}

func NewNoopCache() Cache { return noopCache{} }

func (noopCache) GetActiveID(context.Context, string) (string, bool) { return "", false }

func (noopCache) SetActiveID(context.Context, string, string, time.Duration) {}

func (noopCache) DeleteActiveID(context.Context, string) {}
