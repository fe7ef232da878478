package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dailytaiyari/backend/internal/logger"
	"github.com/dailytaiyari/backend/internal/types"
)

type StudentProfileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, profile *types.StudentProfile) (*types.StudentProfile, error)
	GetByID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*types.StudentProfile, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.StudentProfile, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*types.StudentProfile, error)
	AddTotals(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, questions, correct, studyMinutes int) error
	SetXPAndLevel(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, totalXP, currentLevel int) error
	Update(ctx context.Context, tx *gorm.DB, profile *types.StudentProfile) error
	ListActive(ctx context.Context, tx *gorm.DB) ([]*types.StudentProfile, error)
}

type studentProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudentProfileRepo(db *gorm.DB, baseLog *logger.Logger) StudentProfileRepo {
	repoLog := baseLog.With("repo", "StudentProfileRepo")
	return &studentProfileRepo{db: db, log: repoLog}
}

func (sr *studentProfileRepo) Create(ctx context.Context, tx *gorm.DB, profile *types.StudentProfile) (*types.StudentProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if err := transaction.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, mapped(err)
	}
	return profile, nil
}

func (sr *studentProfileRepo) GetByID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*types.StudentProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if studentID == uuid.Nil {
		return nil, nil
	}

	var row types.StudentProfile
	if err := transaction.WithContext(ctx).
		Where("id = ?", studentID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (sr *studentProfileRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.StudentProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if userID == uuid.Nil {
		return nil, nil
	}

	var row types.StudentProfile
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

// GetByIDForUpdate takes a row lock so concurrent XP awards serialize on
// the profile. Must be called inside a transaction.
func (sr *studentProfileRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*types.StudentProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if studentID == uuid.Nil {
		return nil, nil
	}

	var row types.StudentProfile
	if err := transaction.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", studentID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

// AddTotals bumps the denormalized attempt counters with in-database
// increments so it is safe without a row lock.
func (sr *studentProfileRepo) AddTotals(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, questions, correct, studyMinutes int) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if studentID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.StudentProfile{}).
		Where("id = ?", studentID).
		Updates(map[string]interface{}{
			"total_questions_attempted": gorm.Expr("total_questions_attempted + ?", questions),
			"total_correct_answers":     gorm.Expr("total_correct_answers + ?", correct),
			"total_study_time_minutes":  gorm.Expr("total_study_time_minutes + ?", studyMinutes),
		}).Error
}

func (sr *studentProfileRepo) SetXPAndLevel(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, totalXP, currentLevel int) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if studentID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.StudentProfile{}).
		Where("id = ?", studentID).
		Updates(map[string]interface{}{
			"total_xp":      totalXP,
			"current_level": currentLevel,
		}).Error
}

func (sr *studentProfileRepo) Update(ctx context.Context, tx *gorm.DB, profile *types.StudentProfile) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	return transaction.WithContext(ctx).Save(profile).Error
}

func (sr *studentProfileRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.StudentProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var rows []*types.StudentProfile
	if err := transaction.WithContext(ctx).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
