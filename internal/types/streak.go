package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Streak is one (student, exam) consecutive-day activity record. A null
// exam id is the student's global streak.
type Streak struct {
	ID                 uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_student_exam_streak,unique" json:"student_id"`
	Student            *StudentProfile `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	ExamID             *uuid.UUID      `gorm:"type:uuid;index:idx_student_exam_streak,unique" json:"exam_id,omitempty"`
	Exam               *Exam           `gorm:"constraint:OnDelete:CASCADE;foreignKey:ExamID;references:ID" json:"exam,omitempty"`
	CurrentStreak      int             `gorm:"column:current_streak;not null;default:0" json:"current_streak"`
	LastActivityDate   *time.Time      `gorm:"column:last_activity_date;type:date" json:"last_activity_date,omitempty"`
	LongestStreak      int             `gorm:"column:longest_streak;not null;default:0" json:"longest_streak"`
	LongestStreakStart *time.Time      `gorm:"column:longest_streak_start;type:date" json:"longest_streak_start,omitempty"`
	LongestStreakEnd   *time.Time      `gorm:"column:longest_streak_end;type:date" json:"longest_streak_end,omitempty"`
	TotalActiveDays    int             `gorm:"column:total_active_days;not null;default:0" json:"total_active_days"`
	CreatedAt          time.Time       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt          gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

func (Streak) TableName() string { return "streak" }
