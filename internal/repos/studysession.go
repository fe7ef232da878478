package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dailytaiyari/backend/internal/logger"
	"github.com/dailytaiyari/backend/internal/types"
)

type StudySessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.StudySession) (*types.StudySession, error)
	GetOpen(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*types.StudySession, error)
	GetByID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (*types.StudySession, error)
	Heartbeat(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, at time.Time) error
	Close(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, endedAt time.Time, durationMinutes int) error
	ListStale(ctx context.Context, tx *gorm.DB, heartbeatBefore time.Time) ([]*types.StudySession, error)
}

type studySessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudySessionRepo(db *gorm.DB, baseLog *logger.Logger) StudySessionRepo {
	repoLog := baseLog.With("repo", "StudySessionRepo")
	return &studySessionRepo{db: db, log: repoLog}
}

func (sr *studySessionRepo) Create(ctx context.Context, tx *gorm.DB, row *types.StudySession) (*types.StudySession, error) {
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

func (sr *studySessionRepo) GetOpen(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*types.StudySession, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if studentID == uuid.Nil {
		return nil, nil
	}
	var row types.StudySession
	if err := transaction.WithContext(ctx).
		Where("student_id = ? AND ended_at IS NULL", studentID).
		Order("started_at DESC").
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (sr *studySessionRepo) GetByID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (*types.StudySession, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if sessionID == uuid.Nil {
		return nil, nil
	}
	var row types.StudySession
	if err := transaction.WithContext(ctx).
		Where("id = ?", sessionID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (sr *studySessionRepo) Heartbeat(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if sessionID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.StudySession{}).
		Where("id = ? AND ended_at IS NULL", sessionID).
		Update("last_heartbeat_at", at).Error
}

func (sr *studySessionRepo) Close(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, endedAt time.Time, durationMinutes int) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if sessionID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.StudySession{}).
		Where("id = ? AND ended_at IS NULL", sessionID).
		Updates(map[string]interface{}{
			"ended_at":         endedAt,
			"duration_minutes": durationMinutes,
		}).Error
}

// ListStale returns open sessions whose heartbeat went quiet, for the
// scheduler to close.
func (sr *studySessionRepo) ListStale(ctx context.Context, tx *gorm.DB, heartbeatBefore time.Time) ([]*types.StudySession, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var rows []*types.StudySession
	if err := transaction.WithContext(ctx).
		Where("ended_at IS NULL AND last_heartbeat_at < ?", heartbeatBefore).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
