package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TopicMastery is one (student, topic) mastery aggregate. Every column
// except the foreign keys is derived by progression.RecordAttempt.
type TopicMastery struct {
	ID                      uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID               uuid.UUID       `gorm:"type:uuid;not null;index:idx_student_topic,unique" json:"student_id"`
	Student                 *StudentProfile `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	TopicID                 uuid.UUID       `gorm:"type:uuid;not null;index:idx_student_topic,unique" json:"topic_id"`
	Topic                   *Topic          `gorm:"constraint:OnDelete:CASCADE;foreignKey:TopicID;references:ID" json:"topic,omitempty"`
	TotalQuestionsAttempted int             `gorm:"column:total_questions_attempted;not null;default:0" json:"total_questions_attempted"`
	TotalCorrectAnswers     int             `gorm:"column:total_correct_answers;not null;default:0" json:"total_correct_answers"`
	AccuracyPercentage      float64         `gorm:"column:accuracy_percentage;not null;default:0" json:"accuracy_percentage"`
	AverageTimePerQuestion  int             `gorm:"column:average_time_per_question;not null;default:0" json:"average_time_per_question"`
	MasteryScore            float64         `gorm:"column:mastery_score;not null;default:0" json:"mastery_score"`
	MasteryLevel            int             `gorm:"column:mastery_level;not null;default:1;index:idx_student_mastery_level" json:"mastery_level"`
	NeedsRevision           bool            `gorm:"column:needs_revision;not null;default:false" json:"needs_revision"`
	StreakCorrect           int             `gorm:"column:streak_correct;not null;default:0" json:"streak_correct"`
	LastAttempted           time.Time       `gorm:"column:last_attempted" json:"last_attempted"`
	CreatedAt               time.Time       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt               time.Time       `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt               gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

func (TopicMastery) TableName() string { return "topic_mastery" }
