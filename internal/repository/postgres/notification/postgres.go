package notification

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	notificationdomain "mealcall-app-go/internal/domain/notification"
)

type deviceRow struct {
	ID        string    `gorm:"column:id;primaryKey"`
	MemberID  string    `gorm:"column:member_id"`
	FamilyID  string    `gorm:"column:family_id"`
	PushToken string    `gorm:"column:push_token"`
	Platform  string    `gorm:"column:platform"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (deviceRow) TableName() string { return "device_registrations" }

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Save upserts on member_id: a member holds one token at a time.
func (r *PostgresRepository) Save(ctx context.Context, reg *notificationdomain.DeviceRegistration) error {
	row := deviceRow{
		ID:        reg.ID,
		MemberID:  reg.MemberID,
		FamilyID:  reg.FamilyID,
		PushToken: reg.PushToken,
		Platform:  reg.Platform,
		UpdatedAt: reg.UpdatedAt,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "member_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"id", "push_token", "platform", "updated_at"}),
	}).Create(&row).Error
}

func (r *PostgresRepository) DeleteByMember(ctx context.Context, memberID string) error {
	res := r.db.WithContext(ctx).Where("member_id = ?", memberID).Delete(&deviceRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notificationdomain.ErrDeviceNotFound
	}
	return nil
}

func (r *PostgresRepository) FindByMembers(ctx context.Context, memberIDs []string) ([]notificationdomain.DeviceRegistration, error) {
	if len(memberIDs) == 0 {
		return nil, nil
	}
	var rows []deviceRow
	if err := r.db.WithContext(ctx).Where("member_id in ?", memberIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toRegistrations(rows), nil
}

func (r *PostgresRepository) FindByFamily(ctx context.Context, familyID string) ([]notificationdomain.DeviceRegistration, error) {
	var rows []deviceRow
	if err := r.db.WithContext(ctx).Where("family_id = ?", familyID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toRegistrations(rows), nil
}

func toRegistrations(rows []deviceRow) []notificationdomain.DeviceRegistration {
	regs := make([]notificationdomain.DeviceRegistration, 0, len(rows))
	for _, row := range rows {
		regs = append(regs, notificationdomain.DeviceRegistration{
			ID:        row.ID,
			MemberID:  row.MemberID,
			FamilyID:  row.FamilyID,
			PushToken: row.PushToken,
			Platform:  row.Platform,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return regs
}
