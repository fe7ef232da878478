package types

import (
	"time"

	"github.com/google/uuid"
)

// StudentBadge records a badge award. The composite unique index is the
// at-most-once guarantee; inserts race through ON CONFLICT DO NOTHING.
type StudentBadge struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID uuid.UUID       `gorm:"type:uuid;not null;index:idx_student_badge,unique" json:"student_id"`
	Student   *StudentProfile `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	BadgeID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_student_badge,unique" json:"badge_id"`
	Badge     *Badge          `gorm:"constraint:OnDelete:CASCADE;foreignKey:BadgeID;references:ID" json:"badge,omitempty"`
	EarnedAt  time.Time       `gorm:"column:earned_at;not null;default:now()" json:"earned_at"`
	Seen      bool            `gorm:"not null;default:false" json:"seen"`
}

func (StudentBadge) TableName() string { return "student_badge" }
