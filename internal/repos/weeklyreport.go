package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dailytaiyari/backend/internal/logger"
	"github.com/dailytaiyari/backend/internal/types"
)

type WeeklyReportRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *types.WeeklyReport) error
	Get(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, weekStart time.Time) (*types.WeeklyReport, error)
	ListByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, limit int) ([]*types.WeeklyReport, error)
}

type weeklyReportRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWeeklyReportRepo(db *gorm.DB, baseLog *logger.Logger) WeeklyReportRepo {
	repoLog := baseLog.With("repo", "WeeklyReportRepo")
	return &weeklyReportRepo{db: db, log: repoLog}
}

func (wr *weeklyReportRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.WeeklyReport) error {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}

	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "student_id"}, {Name: "week_start"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"questions_answered", "correct_answers", "study_time_minutes",
				"xp_earned", "active_days", "badges_earned", "topic_breakdown",
				"generated_at",
			}),
		}).
		Create(row).Error
}

func (wr *weeklyReportRepo) Get(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, weekStart time.Time) (*types.WeeklyReport, error) {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}

	if studentID == uuid.Nil {
		return nil, nil
	}
	var row types.WeeklyReport
	if err := transaction.WithContext(ctx).
		Where("student_id = ? AND week_start = ?", studentID, weekStart).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (wr *weeklyReportRepo) ListByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, limit int) ([]*types.WeeklyReport, error) {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}

	var rows []*types.WeeklyReport
	if studentID == uuid.Nil {
		return rows, nil
	}
	if limit <= 0 || limit > 52 {
		limit = 12
	}
	if err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("week_start DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
