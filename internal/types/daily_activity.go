package types

import (
	"time"

	"github.com/google/uuid"
)

// DailyActivity aggregates one student's work for a single calendar day
// (UTC). Rows are written with additive upserts so concurrent quiz
// completions never lose counts.
type DailyActivity struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_student_activity_date,unique" json:"student_id"`
	Student           *StudentProfile `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	ActivityDate      time.Time       `gorm:"column:activity_date;type:date;not null;index:idx_student_activity_date,unique" json:"activity_date"`
	QuestionsAnswered int             `gorm:"column:questions_answered;not null;default:0" json:"questions_answered"`
	CorrectAnswers    int             `gorm:"column:correct_answers;not null;default:0" json:"correct_answers"`
	StudyTimeMinutes  int             `gorm:"column:study_time_minutes;not null;default:0" json:"study_time_minutes"`
	QuizzesCompleted  int             `gorm:"column:quizzes_completed;not null;default:0" json:"quizzes_completed"`
	XPEarned          int             `gorm:"column:xp_earned;not null;default:0" json:"xp_earned"`
	GoalMet           bool            `gorm:"column:goal_met;not null;default:false" json:"goal_met"`
	CreatedAt         time.Time       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (DailyActivity) TableName() string { return "daily_activity" }
