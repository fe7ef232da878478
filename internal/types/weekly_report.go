package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// WeeklyReport is a materialized Monday-to-Sunday summary. TopicBreakdown
// holds per-topic accuracy and attempt counts as JSON.
type WeeklyReport struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_student_week,unique" json:"student_id"`
	Student           *StudentProfile `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	WeekStart         time.Time       `gorm:"column:week_start;type:date;not null;index:idx_student_week,unique" json:"week_start"`
	QuestionsAnswered int             `gorm:"column:questions_answered;not null;default:0" json:"questions_answered"`
	CorrectAnswers    int             `gorm:"column:correct_answers;not null;default:0" json:"correct_answers"`
	StudyTimeMinutes  int             `gorm:"column:study_time_minutes;not null;default:0" json:"study_time_minutes"`
	XPEarned          int             `gorm:"column:xp_earned;not null;default:0" json:"xp_earned"`
	ActiveDays        int             `gorm:"column:active_days;not null;default:0" json:"active_days"`
	BadgesEarned      int             `gorm:"column:badges_earned;not null;default:0" json:"badges_earned"`
	TopicBreakdown    datatypes.JSON  `gorm:"column:topic_breakdown" json:"topic_breakdown,omitempty"`
	GeneratedAt       time.Time       `gorm:"column:generated_at;not null;default:now()" json:"generated_at"`
}

func (WeeklyReport) TableName() string { return "weekly_report" }
