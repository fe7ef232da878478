package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dailytaiyari/backend/internal/logger"
	"github.com/dailytaiyari/backend/internal/types"
)

type TopicMasteryRepo interface {
	Get(ctx context.Context, tx *gorm.DB, studentID, topicID uuid.UUID) (*types.TopicMastery, error)
	GetForUpdate(ctx context.Context, tx *gorm.DB, studentID, topicID uuid.UUID) (*types.TopicMastery, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *types.TopicMastery) error
	ListByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.TopicMastery, error)
	ListNeedingRevision(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.TopicMastery, error)
	CountMastered(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, minLevel int) (int64, error)
}

type topicMasteryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTopicMasteryRepo(db *gorm.DB, baseLog *logger.Logger) TopicMasteryRepo {
	repoLog := baseLog.With("repo", "TopicMasteryRepo")
	return &topicMasteryRepo{db: db, log: repoLog}
}

func (mr *topicMasteryRepo) Get(ctx context.Context, tx *gorm.DB, studentID, topicID uuid.UUID) (*types.TopicMastery, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	if studentID == uuid.Nil || topicID == uuid.Nil {
		return nil, nil
	}

	var row types.TopicMastery
	if err := transaction.WithContext(ctx).
		Where("student_id = ? AND topic_id = ?", studentID, topicID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

// GetForUpdate row-locks the mastery record so the read-modify-write in
// the activity path serializes per (student, topic).
func (mr *topicMasteryRepo) GetForUpdate(ctx context.Context, tx *gorm.DB, studentID, topicID uuid.UUID) (*types.TopicMastery, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	if studentID == uuid.Nil || topicID == uuid.Nil {
		return nil, nil
	}

	var row types.TopicMastery
	if err := transaction.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("student_id = ? AND topic_id = ?", studentID, topicID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (mr *topicMasteryRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.TopicMastery) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "student_id"}, {Name: "topic_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_questions_attempted", "total_correct_answers",
				"accuracy_percentage", "average_time_per_question",
				"mastery_score", "mastery_level", "needs_revision",
				"streak_correct", "last_attempted", "updated_at",
			}),
		}).
		Create(row).Error
}

func (mr *topicMasteryRepo) ListByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.TopicMastery, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var rows []*types.TopicMastery
	if studentID == uuid.Nil {
		return rows, nil
	}
	if err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("mastery_score DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (mr *topicMasteryRepo) ListNeedingRevision(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.TopicMastery, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var rows []*types.TopicMastery
	if studentID == uuid.Nil {
		return rows, nil
	}
	if err := transaction.WithContext(ctx).
		Where("student_id = ? AND needs_revision = ?", studentID, true).
		Order("mastery_score ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (mr *topicMasteryRepo) CountMastered(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, minLevel int) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var count int64
	if studentID == uuid.Nil {
		return 0, nil
	}
	if err := transaction.WithContext(ctx).
		Model(&types.TopicMastery{}).
		Where("student_id = ? AND mastery_level >= ?", studentID, minLevel).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
