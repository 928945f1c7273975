package mealcall

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	mealcalldomain "mealcall-app-go/internal/domain/mealcall"
)

type mealCallRow struct {
	ID          string     `gorm:"column:id;primaryKey"`
	FamilyID    string     `gorm:"column:family_id"`
	CallerID    string     `gorm:"column:caller_id"`
	Message     string     `gorm:"column:message"`
	Status      string     `gorm:"column:status"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
}

func (mealCallRow) TableName() string { return "meal_calls" }

// mealCallMemberRow freezes the roster snapshot; position preserves join
// order for pending computation.
type mealCallMemberRow struct {
	MealCallID string `gorm:"column:meal_call_id;primaryKey"`
	MemberID   string `gorm:"column:member_id;primaryKey"`
	Position   int    `gorm:"column:position"`
}

func (mealCallMemberRow) TableName() string { return "meal_call_members" }

type mealCallMenuRow struct {
	MealCallID string `gorm:"column:meal_call_id;primaryKey"`
	MenuItemID string `gorm:"column:menu_item_id;primaryKey"`
	Position   int    `gorm:"column:position"`
}

func (mealCallMenuRow) TableName() string { return "meal_call_menus" }

type mealResponseRow struct {
	ID            string    `gorm:"column:id;primaryKey"`
	MealCallID    string    `gorm:"column:meal_call_id"`
	MemberID      string    `gorm:"column:member_id"`
	ResponseType  string    `gorm:"column:response_type"`
	CustomMessage string    `gorm:"column:custom_message"`
	RespondedAt   time.Time `gorm:"column:responded_at"`
}

func (mealResponseRow) TableName() string { return "meal_responses" }

type menuItemRow struct {
	ID        string    `gorm:"column:id;primaryKey"`
	FamilyID  string    `gorm:"column:family_id"`
	Name      string    `gorm:"column:name"`
	Icon      string    `gorm:"column:icon"`
	Category  string    `gorm:"column:category"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (menuItemRow) TableName() string { return "menu_items" }

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Save upserts the call header and replaces its roster snapshot, menu
// references and response set wholesale. The aggregate is small enough
// that delete-and-reinsert beats diffing.
func (r *PostgresRepository) Save(ctx context.Context, mc *mealcalldomain.MealCall) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := mealCallRow{
			ID:          mc.ID,
			FamilyID:    mc.FamilyID,
			CallerID:    mc.CallerID,
			Message:     mc.Message,
			Status:      string(mc.Status),
			CreatedAt:   mc.CreatedAt,
			CompletedAt: mc.CompletedAt,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "completed_at"}),
		}).Create(&row).Error; err != nil {
			return err
		}

		if err := tx.Where("meal_call_id = ?", mc.ID).Delete(&mealCallMemberRow{}).Error; err != nil {
			return err
		}
		for i, memberID := range mc.AllMemberIDs {
			if err := tx.Create(&mealCallMemberRow{MealCallID: mc.ID, MemberID: memberID, Position: i}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("meal_call_id = ?", mc.ID).Delete(&mealCallMenuRow{}).Error; err != nil {
			return err
		}
		for i := range mc.Menus {
			if err := tx.Create(&mealCallMenuRow{MealCallID: mc.ID, MenuItemID: mc.Menus[i].ID, Position: i}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("meal_call_id = ?", mc.ID).Delete(&mealResponseRow{}).Error; err != nil {
			return err
		}
		for i := range mc.Responses {
			resp := &mc.Responses[i]
			if err := tx.Create(&mealResponseRow{
				ID:            resp.ID,
				MealCallID:    resp.MealCallID,
				MemberID:      resp.MemberID,
				ResponseType:  string(resp.Type),
				CustomMessage: resp.CustomMessage,
				RespondedAt:   resp.RespondedAt,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostgresRepository) FindByID(ctx context.Context, mealCallID string) (*mealcalldomain.MealCall, error) {
	var row mealCallRow
	if err := r.db.WithContext(ctx).Where("id = ?", mealCallID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, mealcalldomain.ErrCallNotFound
		}
		return nil, err
	}
	return r.loadAggregate(ctx, row)
}

func (r *PostgresRepository) FindActiveByFamily(ctx context.Context, familyID string) (*mealcalldomain.MealCall, error) {
	var row mealCallRow
	err := r.db.WithContext(ctx).
		Where("family_id = ? AND status = ?", familyID, string(mealcalldomain.StatusActive)).
		Order("created_at desc").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, mealcalldomain.ErrCallNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.loadAggregate(ctx, row)
}

func (r *PostgresRepository) FindByFamily(ctx context.Context, familyID string, limit int) ([]*mealcalldomain.MealCall, error) {
	var rows []mealCallRow
	if err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("created_at desc").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	calls := make([]*mealcalldomain.MealCall, 0, len(rows))
	for _, row := range rows {
		mc, err := r.loadAggregate(ctx, row)
		if err != nil {
			return nil, err
		}
		calls = append(calls, mc)
	}
	return calls, nil
}

func (r *PostgresRepository) loadAggregate(ctx context.Context, row mealCallRow) (*mealcalldomain.MealCall, error) {
	var memberRows []mealCallMemberRow
	if err := r.db.WithContext(ctx).
		Where("meal_call_id = ?", row.ID).
		Order("position asc").
		Find(&memberRows).Error; err != nil {
		return nil, err
	}

	var menuRows []menuItemRow
	if err := r.db.WithContext(ctx).
		Table("menu_items").
		Select("menu_items.*").
		Joins("join meal_call_menus on meal_call_menus.menu_item_id = menu_items.id").
		Where("meal_call_menus.meal_call_id = ?", row.ID).
		Order("meal_call_menus.position asc").
		Scan(&menuRows).Error; err != nil {
		return nil, err
	}

	var responseRows []mealResponseRow
	if err := r.db.WithContext(ctx).
		Where("meal_call_id = ?", row.ID).
		Order("responded_at asc").
		Find(&responseRows).Error; err != nil {
		return nil, err
	}

	mc := &mealcalldomain.MealCall{
		ID:          row.ID,
		FamilyID:    row.FamilyID,
		CallerID:    row.CallerID,
		Message:     row.Message,
		Status:      mealcalldomain.Status(row.Status),
		CreatedAt:   row.CreatedAt,
		CompletedAt: row.CompletedAt,
	}
	for _, m := range memberRows {
		mc.AllMemberIDs = append(mc.AllMemberIDs, m.MemberID)
	}
	for _, m := range menuRows {
		mc.Menus = append(mc.Menus, toMenuItem(m))
	}
	for _, resp := range responseRows {
		mc.Responses = append(mc.Responses, mealcalldomain.MealResponse{
			ID:            resp.ID,
			MealCallID:    resp.MealCallID,
			MemberID:      resp.MemberID,
			Type:          mealcalldomain.ResponseType(resp.ResponseType),
			CustomMessage: resp.CustomMessage,
			RespondedAt:   resp.RespondedAt,
		})
	}
	return mc, nil
}

func toMenuItem(row menuItemRow) mealcalldomain.MenuItem {
	return mealcalldomain.MenuItem{
		ID:        row.ID,
		FamilyID:  row.FamilyID,
		Name:      row.Name,
		Icon:      row.Icon,
		Category:  mealcalldomain.Category(row.Category),
		CreatedAt: row.CreatedAt,
	}
}

// MenuPostgresRepository persists the family menu catalog.
type MenuPostgresRepository struct {
	db *gorm.DB
}

func NewMenuPostgres(db *gorm.DB) *MenuPostgresRepository {
	return &MenuPostgresRepository{db: db}
}

func (r *MenuPostgresRepository) Save(ctx context.Context, item *mealcalldomain.MenuItem) error {
	row := menuItemRow{
		ID:        item.ID,
		FamilyID:  item.FamilyID,
		Name:      item.Name,
		Icon:      item.Icon,
		Category:  string(item.Category),
		CreatedAt: item.CreatedAt,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "icon", "category"}),
	}).Create(&row).Error
}

func (r *MenuPostgresRepository) FindByID(ctx context.Context, menuItemID string) (*mealcalldomain.MenuItem, error) {
	var row menuItemRow
	if err := r.db.WithContext(ctx).Where("id = ?", menuItemID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, mealcalldomain.ErrMenuNotFound
		}
		return nil, err
	}
	item := toMenuItem(row)
	return &item, nil
}

func (r *MenuPostgresRepository) FindByFamily(ctx context.Context, familyID string) ([]mealcalldomain.MenuItem, error) {
	var rows []menuItemRow
	if err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("name asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]mealcalldomain.MenuItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, toMenuItem(row))
	}
	return items, nil
}
