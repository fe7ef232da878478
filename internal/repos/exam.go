package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dailytaiyari/backend/internal/logger"
	"github.com/dailytaiyari/backend/internal/types"
)

type ExamRepo interface {
	List(ctx context.Context, tx *gorm.DB) ([]*types.Exam, error)
	GetByID(ctx context.Context, tx *gorm.DB, examID uuid.UUID) (*types.Exam, error)
	ListTopics(ctx context.Context, tx *gorm.DB, examID uuid.UUID) ([]*types.Topic, error)
	GetTopicByID(ctx context.Context, tx *gorm.DB, topicID uuid.UUID) (*types.Topic, error)
}

type examRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExamRepo(db *gorm.DB, baseLog *logger.Logger) ExamRepo {
	repoLog := baseLog.With("repo", "ExamRepo")
	return &examRepo{db: db, log: repoLog}
}

func (er *examRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Exam, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var rows []*types.Exam
	if err := transaction.WithContext(ctx).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (er *examRepo) GetByID(ctx context.Context, tx *gorm.DB, examID uuid.UUID) (*types.Exam, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	if examID == uuid.Nil {
		return nil, nil
	}
	var row types.Exam
	if err := transaction.WithContext(ctx).
		Where("id = ?", examID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (er *examRepo) ListTopics(ctx context.Context, tx *gorm.DB, examID uuid.UUID) ([]*types.Topic, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var rows []*types.Topic
	if examID == uuid.Nil {
		return rows, nil
	}
	if err := transaction.WithContext(ctx).
		Where("exam_id = ?", examID).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (er *examRepo) GetTopicByID(ctx context.Context, tx *gorm.DB, topicID uuid.UUID) (*types.Topic, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	if topicID == uuid.Nil {
		return nil, nil
	}
	var row types.Topic
	if err := transaction.WithContext(ctx).
		Where("id = ?", topicID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}
