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

type DailyActivityRepo interface {
	UpsertDelta(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, activityDate time.Time, questions, correct, studyMinutes, quizzes, xp int) error
	MarkGoalMet(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, activityDate time.Time) (bool, error)
	Get(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, activityDate time.Time) (*types.DailyActivity, error)
	ListRange(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, from, to time.Time) ([]*types.DailyActivity, error)
	SumRange(ctx context.Context, tx *gorm.DB, from, to time.Time, examID *uuid.UUID) ([]ActivitySum, error)
}

// ActivitySum is one student's aggregated activity over a date range.
type ActivitySum struct {
	StudentID         uuid.UUID `gorm:"column:student_id"`
	QuestionsAnswered int       `gorm:"column:questions_answered"`
	CorrectAnswers    int       `gorm:"column:correct_answers"`
	StudyTimeMinutes  int       `gorm:"column:study_time_minutes"`
	XPEarned          int       `gorm:"column:xp_earned"`
}

type dailyActivityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDailyActivityRepo(db *gorm.DB, baseLog *logger.Logger) DailyActivityRepo {
	repoLog := baseLog.With("repo", "DailyActivityRepo")
	return &dailyActivityRepo{db: db, log: repoLog}
}

// UpsertDelta adds the deltas to the day's row, inserting it on first
// touch. The EXCLUDED arithmetic keeps concurrent writers additive.
func (dr *dailyActivityRepo) UpsertDelta(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, activityDate time.Time, questions, correct, studyMinutes, quizzes, xp int) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	if studentID == uuid.Nil {
		return nil
	}

	now := time.Now().UTC()
	row := &types.DailyActivity{
		ID:                uuid.New(),
		StudentID:         studentID,
		ActivityDate:      activityDate,
		QuestionsAnswered: questions,
		CorrectAnswers:    correct,
		StudyTimeMinutes:  studyMinutes,
		QuizzesCompleted:  quizzes,
		XPEarned:          xp,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "student_id"}, {Name: "activity_date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"questions_answered": gorm.Expr(`"daily_activity"."questions_answered" + EXCLUDED."questions_answered"`),
				"correct_answers":    gorm.Expr(`"daily_activity"."correct_answers" + EXCLUDED."correct_answers"`),
				"study_time_minutes": gorm.Expr(`"daily_activity"."study_time_minutes" + EXCLUDED."study_time_minutes"`),
				"quizzes_completed":  gorm.Expr(`"daily_activity"."quizzes_completed" + EXCLUDED."quizzes_completed"`),
				"xp_earned":          gorm.Expr(`"daily_activity"."xp_earned" + EXCLUDED."xp_earned"`),
				"updated_at":         now,
			}),
		}).
		Create(row).Error
}

// MarkGoalMet flips goal_met for the day and reports whether this call
// was the one that flipped it, so the goal XP is awarded exactly once.
func (dr *dailyActivityRepo) MarkGoalMet(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, activityDate time.Time) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	if studentID == uuid.Nil {
		return false, nil
	}
	res := transaction.WithContext(ctx).
		Model(&types.DailyActivity{}).
		Where("student_id = ? AND activity_date = ? AND goal_met = ?", studentID, activityDate, false).
		Update("goal_met", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (dr *dailyActivityRepo) Get(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, activityDate time.Time) (*types.DailyActivity, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	if studentID == uuid.Nil {
		return nil, nil
	}

	var row types.DailyActivity
	if err := transaction.WithContext(ctx).
		Where("student_id = ? AND activity_date = ?", studentID, activityDate).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (dr *dailyActivityRepo) ListRange(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, from, to time.Time) ([]*types.DailyActivity, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var rows []*types.DailyActivity
	if studentID == uuid.Nil {
		return rows, nil
	}
	if err := transaction.WithContext(ctx).
		Where("student_id = ? AND activity_date >= ? AND activity_date <= ?", studentID, from, to).
		Order("activity_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SumRange aggregates every student's activity over [from, to] for the
// leaderboard refresh. With an examID only students whose profile names
// that exam as primary are included.
func (dr *dailyActivityRepo) SumRange(ctx context.Context, tx *gorm.DB, from, to time.Time, examID *uuid.UUID) ([]ActivitySum, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	q := transaction.WithContext(ctx).
		Model(&types.DailyActivity{}).
		Select("daily_activity.student_id AS student_id, SUM(questions_answered) AS questions_answered, SUM(correct_answers) AS correct_answers, SUM(study_time_minutes) AS study_time_minutes, SUM(xp_earned) AS xp_earned").
		Where("activity_date >= ? AND activity_date <= ?", from, to)
	if examID != nil {
		q = q.Joins("JOIN student_profile ON student_profile.id = daily_activity.student_id").
			Where("student_profile.primary_exam_id = ?", *examID)
	}

	var rows []ActivitySum
	if err := q.Group("daily_activity.student_id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
