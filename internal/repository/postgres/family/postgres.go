package family

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	familydomain "mealcall-app-go/internal/domain/family"
)

type familyRow struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (familyRow) TableName() string { return "families" }

type memberRow struct {
	ID        string    `gorm:"column:id;primaryKey"`
	FamilyID  string    `gorm:"column:family_id"`
	Nickname  string    `gorm:"column:nickname"`
	HashedPIN string    `gorm:"column:hashed_pin"`
	Role      string    `gorm:"column:role"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (memberRow) TableName() string { return "family_members" }

type inviteLinkRow struct {
	ID        string    `gorm:"column:id;primaryKey"`
	FamilyID  string    `gorm:"column:family_id"`
	Token     string    `gorm:"column:token"`
	ExpiresAt time.Time `gorm:"column:expires_at"`
	MaxUses   int       `gorm:"column:max_uses"`
	UsedCount int       `gorm:"column:used_count"`
	CreatedBy string    `gorm:"column:created_by"`
}

func (inviteLinkRow) TableName() string { return "invite_links" }

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Save upserts the family header plus every member and invite link the
// aggregate currently holds, in one transaction.
func (r *PostgresRepository) Save(ctx context.Context, f *familydomain.Family) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := familyRow{ID: f.ID, Name: f.Name, CreatedAt: f.CreatedAt}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).Create(&row).Error; err != nil {
			return err
		}
		for i := range f.Members {
			if err := upsertMember(tx, &f.Members[i]); err != nil {
				return err
			}
		}
		for i := range f.InviteLinks {
			if err := upsertInviteLink(tx, &f.InviteLinks[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostgresRepository) FindByID(ctx context.Context, familyID string) (*familydomain.Family, error) {
	var row familyRow
	if err := r.db.WithContext(ctx).Where("id = ?", familyID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrFamilyNotFound
		}
		return nil, err
	}
	return r.loadAggregate(ctx, row)
}

func (r *PostgresRepository) FindInviteLinkByToken(ctx context.Context, token string) (*familydomain.Family, *familydomain.InviteLink, error) {
	var linkRow inviteLinkRow
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&linkRow).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, familydomain.ErrInviteNotFound
		}
		return nil, nil, err
	}

	f, err := r.FindByID(ctx, linkRow.FamilyID)
	if err != nil {
		return nil, nil, err
	}
	for i := range f.InviteLinks {
		if f.InviteLinks[i].Token == token {
			return f, &f.InviteLinks[i], nil
		}
	}
	return nil, nil, familydomain.ErrInviteNotFound
}

func (r *PostgresRepository) SaveMember(ctx context.Context, m *familydomain.Member) error {
	return upsertMember(r.db.WithContext(ctx), m)
}

func (r *PostgresRepository) SaveInviteLink(ctx context.Context, l *familydomain.InviteLink) error {
	return upsertInviteLink(r.db.WithContext(ctx), l)
}

func (r *PostgresRepository) loadAggregate(ctx context.Context, row familyRow) (*familydomain.Family, error) {
	var memberRows []memberRow
	if err := r.db.WithContext(ctx).
		Where("family_id = ?", row.ID).
		Order("created_at asc").
		Find(&memberRows).Error; err != nil {
		return nil, err
	}

	var linkRows []inviteLinkRow
	if err := r.db.WithContext(ctx).
		Where("family_id = ?", row.ID).
		Find(&linkRows).Error; err != nil {
		return nil, err
	}

	f := &familydomain.Family{
		ID:        row.ID,
		Name:      row.Name,
		CreatedAt: row.CreatedAt,
	}
	for _, m := range memberRows {
		f.Members = append(f.Members, familydomain.Member{
			ID:        m.ID,
			FamilyID:  m.FamilyID,
			Nickname:  m.Nickname,
			HashedPIN: m.HashedPIN,
			Role:      familydomain.Role(m.Role),
			CreatedAt: m.CreatedAt,
		})
	}
	for _, l := range linkRows {
		f.InviteLinks = append(f.InviteLinks, familydomain.InviteLink{
			ID:        l.ID,
			FamilyID:  l.FamilyID,
			Token:     l.Token,
			ExpiresAt: l.ExpiresAt,
			MaxUses:   l.MaxUses,
			UsedCount: l.UsedCount,
			CreatedBy: l.CreatedBy,
		})
	}
	return f, nil
}

func upsertMember(tx *gorm.DB, m *familydomain.Member) error {
	row := memberRow{
		ID:        m.ID,
		FamilyID:  m.FamilyID,
		Nickname:  m.Nickname,
		HashedPIN: m.HashedPIN,
		Role:      string(m.Role),
		CreatedAt: m.CreatedAt,
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"nickname", "hashed_pin", "role"}),
	}).Create(&row).Error
}

func upsertInviteLink(tx *gorm.DB, l *familydomain.InviteLink) error {
	row := inviteLinkRow{
		ID:        l.ID,
		FamilyID:  l.FamilyID,
		Token:     l.Token,
		ExpiresAt: l.ExpiresAt,
		MaxUses:   l.MaxUses,
		UsedCount: l.UsedCount,
		CreatedBy: l.CreatedBy,
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"used_count"}),
	}).Create(&row).Error
}
