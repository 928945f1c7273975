package mealcall

import "context"

type Repository interface {
	// Save upserts the header, replaces menu associations and replaces
	// the response set.
	Save(ctx context.Context, mc *MealCall) error
	FindByID(ctx context.Context, mealCallID string) (*MealCall, error)
	// FindActiveByFamily returns the most recently created ACTIVE call.
	FindActiveByFamily(ctx context.Context, familyID string) (*MealCall, error)
	// FindByFamily lists calls most recent first.
	FindByFamily(ctx context.Context, familyID string, limit int) ([]*MealCall, error)
}

type MenuRepository interface {
	Save(ctx context.Context, item *MenuItem) error
	FindByID(ctx context.Context, menuItemID string) (*MenuItem, error)
	// FindByFamily lists the catalog ordered by name.
	FindByFamily(ctx context.Context, familyID string) ([]MenuItem, error)
}

// Roster supplies the family member ids current at call time. The
// aggregate snapshots the result; it never queries membership itself.
type Roster interface {
	MemberIDs(ctx context.Context, familyID string) ([]string, error)
}
