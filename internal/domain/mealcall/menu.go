package mealcall

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryKorean   Category = "KOREAN"
	CategoryChinese  Category = "CHINESE"
	CategoryJapanese Category = "JAPANESE"
	CategoryWestern  Category = "WESTERN"
	CategoryFastFood Category = "FAST_FOOD"
	CategorySnack    Category = "SNACK"
	CategoryEtc      Category = "ETC"
)

const defaultMenuIcon = "🍽️"

// ParseCategory coerces unknown values to ETC by default; strict mode
// rejects them instead.
func ParseCategory(s string, strict bool) (Category, error) {
	switch c := Category(s); c {
	case CategoryKorean, CategoryChinese, CategoryJapanese, CategoryWestern,
		CategoryFastFood, CategorySnack, CategoryEtc:
		return c, nil
	case "":
		return CategoryEtc, nil
	}
	if strict {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return CategoryEtc, nil
}

// MenuItem is a family-scoped catalog entry, immutable once created.
type MenuItem struct {
	ID        string
	FamilyID  string
	Name      string
	Icon      string
	Category  Category
	CreatedAt time.Time
}

func NewMenuItem(familyID, name, icon string, category Category) *MenuItem {
	if icon == "" {
		icon = defaultMenuIcon
	}
	return &MenuItem{
		ID:        uuid.NewString(),
		FamilyID:  familyID,
		Name:      name,
		Icon:      icon,
		Category:  category,
		CreatedAt: time.Now().UTC(),
	}
}
