package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudySession tracks one contiguous study sitting, kept alive by
// client heartbeats. DurationMinutes is derived on close.
type StudySession struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"student_id"`
	Student         *StudentProfile `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	ExamID          *uuid.UUID      `gorm:"type:uuid;index" json:"exam_id,omitempty"`
	StartedAt       time.Time       `gorm:"column:started_at;not null;default:now()" json:"started_at"`
	LastHeartbeatAt time.Time       `gorm:"column:last_heartbeat_at;not null;default:now()" json:"last_heartbeat_at"`
	EndedAt         *time.Time      `gorm:"column:ended_at" json:"ended_at,omitempty"`
	DurationMinutes int             `gorm:"column:duration_minutes;not null;default:0" json:"duration_minutes"`
	CreatedAt       time.Time       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

func (StudySession) TableName() string { return "study_session" }
