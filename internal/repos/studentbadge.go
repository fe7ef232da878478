package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dailytaiyari/backend/internal/logger"
	"github.com/dailytaiyari/backend/internal/types"
)

type StudentBadgeRepo interface {
	AwardOnce(ctx context.Context, tx *gorm.DB, row *types.StudentBadge) (bool, error)
	ListByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.StudentBadge, error)
	EarnedSet(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (map[uuid.UUID]bool, error)
	CountByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (int64, error)
	MarkSeen(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, badgeIDs []uuid.UUID) error
}

type studentBadgeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudentBadgeRepo(db *gorm.DB, baseLog *logger.Logger) StudentBadgeRepo {
	repoLog := baseLog.With("repo", "StudentBadgeRepo")
	return &studentBadgeRepo{db: db, log: repoLog}
}

// AwardOnce inserts the award, reporting whether this call created it.
// The unique (student_id, badge_id) index absorbs concurrent attempts.
func (br *studentBadgeRepo) AwardOnce(ctx context.Context, tx *gorm.DB, row *types.StudentBadge) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	if row.StudentID == uuid.Nil || row.BadgeID == uuid.Nil {
		return false, nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "badge_id"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (br *studentBadgeRepo) ListByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.StudentBadge, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	var rows []*types.StudentBadge
	if studentID == uuid.Nil {
		return rows, nil
	}
	if err := transaction.WithContext(ctx).
		Preload("Badge").
		Where("student_id = ?", studentID).
		Order("earned_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (br *studentBadgeRepo) EarnedSet(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (map[uuid.UUID]bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	earned := make(map[uuid.UUID]bool)
	if studentID == uuid.Nil {
		return earned, nil
	}
	var ids []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&types.StudentBadge{}).
		Where("student_id = ?", studentID).
		Pluck("badge_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		earned[id] = true
	}
	return earned, nil
}

func (br *studentBadgeRepo) CountByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	var count int64
	if studentID == uuid.Nil {
		return 0, nil
	}
	if err := transaction.WithContext(ctx).
		Model(&types.StudentBadge{}).
		Where("student_id = ?", studentID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (br *studentBadgeRepo) MarkSeen(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, badgeIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	if studentID == uuid.Nil || len(badgeIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.StudentBadge{}).
		Where("student_id = ? AND badge_id IN ?", studentID, badgeIDs).
		Update("seen", true).Error
}
