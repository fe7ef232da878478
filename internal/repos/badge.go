package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dailytaiyari/backend/internal/logger"
	"github.com/dailytaiyari/backend/internal/types"
)

type BadgeRepo interface {
	ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Badge, error)
	GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.Badge, error)
	UpsertByCode(ctx context.Context, tx *gorm.DB, badges []*types.Badge) error
}

type badgeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBadgeRepo(db *gorm.DB, baseLog *logger.Logger) BadgeRepo {
	repoLog := baseLog.With("repo", "BadgeRepo")
	return &badgeRepo{db: db, log: repoLog}
}

func (br *badgeRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Badge, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	var rows []*types.Badge
	if err := transaction.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (br *badgeRepo) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.Badge, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	var row types.Badge
	if err := transaction.WithContext(ctx).
		Where("code = ?", code).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

// UpsertByCode seeds the catalog. Existing codes keep their id so awards
// already handed out stay attached across reseeds.
func (br *badgeRepo) UpsertByCode(ctx context.Context, tx *gorm.DB, badges []*types.Badge) error {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	if len(badges) == 0 {
		return nil
	}
	for _, b := range badges {
		if b.ID == uuid.Nil {
			b.ID = uuid.New()
		}
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "description", "category", "tier", "icon_key",
				"requirements", "xp_reward", "is_active", "is_secret", "sort_order", "updated_at",
			}),
		}).
		Create(&badges).Error
}
