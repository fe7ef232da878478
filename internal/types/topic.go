package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Topic struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ExamID    *uuid.UUID     `gorm:"type:uuid;index" json:"exam_id,omitempty"`
	Exam      *Exam          `gorm:"constraint:OnDelete:SET NULL;foreignKey:ExamID;references:ID" json:"exam,omitempty"`
	Name      string         `gorm:"column:name;not null" json:"name"`
	Code      string         `gorm:"column:code;not null;uniqueIndex" json:"code"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Topic) TableName() string { return "topic" }
