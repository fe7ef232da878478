package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentProfile carries the denormalized progression totals for one
// student. The XP and level columns are only written through the XP ledger;
// the attempt/time counters only through the activity-absorption path.
type StudentProfile struct {
	ID                      uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID                  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User                    *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	PrimaryExamID           *uuid.UUID     `gorm:"type:uuid;index" json:"primary_exam_id,omitempty"`
	PrimaryExam             *Exam          `gorm:"constraint:OnDelete:SET NULL;foreignKey:PrimaryExamID;references:ID" json:"primary_exam,omitempty"`
	DailyStudyGoalMinutes   int            `gorm:"column:daily_study_goal_minutes;not null;default:60" json:"daily_study_goal_minutes"`
	TotalXP                 int            `gorm:"column:total_xp;not null;default:0" json:"total_xp"`
	CurrentLevel            int            `gorm:"column:current_level;not null;default:1" json:"current_level"`
	TotalQuestionsAttempted int            `gorm:"column:total_questions_attempted;not null;default:0" json:"total_questions_attempted"`
	TotalCorrectAnswers     int            `gorm:"column:total_correct_answers;not null;default:0" json:"total_correct_answers"`
	TotalStudyTimeMinutes   int            `gorm:"column:total_study_time_minutes;not null;default:0" json:"total_study_time_minutes"`
	CreatedAt               time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt               time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt               gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (StudentProfile) TableName() string { return "student_profile" }

// OverallAccuracy is derived, never stored.
func (p *StudentProfile) OverallAccuracy() float64 {
	if p.TotalQuestionsAttempted == 0 {
		return 0
	}
	return float64(p.TotalCorrectAnswers) / float64(p.TotalQuestionsAttempted) * 100
}
