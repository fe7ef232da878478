package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dailytaiyari/backend/internal/logger"
	"github.com/dailytaiyari/backend/internal/types"
)

type StreakRepo interface {
	Get(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, examID *uuid.UUID) (*types.Streak, error)
	GetForUpdate(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, examID *uuid.UUID) (*types.Streak, error)
	Create(ctx context.Context, tx *gorm.DB, row *types.Streak) (*types.Streak, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.Streak) error
}

type streakRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStreakRepo(db *gorm.DB, baseLog *logger.Logger) StreakRepo {
	repoLog := baseLog.With("repo", "StreakRepo")
	return &streakRepo{db: db, log: repoLog}
}

func (sr *streakRepo) scope(transaction *gorm.DB, studentID uuid.UUID, examID *uuid.UUID) *gorm.DB {
	q := transaction.Where("student_id = ?", studentID)
	if examID == nil {
		return q.Where("exam_id IS NULL")
	}
	return q.Where("exam_id = ?", *examID)
}

func (sr *streakRepo) Get(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, examID *uuid.UUID) (*types.Streak, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if studentID == uuid.Nil {
		return nil, nil
	}

	var row types.Streak
	if err := sr.scope(transaction.WithContext(ctx), studentID, examID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (sr *streakRepo) GetForUpdate(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, examID *uuid.UUID) (*types.Streak, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if studentID == uuid.Nil {
		return nil, nil
	}

	var row types.Streak
	if err := sr.scope(transaction.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), studentID, examID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (sr *streakRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Streak) (*types.Streak, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, mapped(err)
	}
	return row, nil
}

func (sr *streakRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Streak) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	return transaction.WithContext(ctx).Save(row).Error
}
