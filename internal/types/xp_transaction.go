package types

import (
	"time"

	"github.com/google/uuid"
)

// XPTransaction is one append-only ledger row. BalanceAfter is the
// student's cumulative XP immediately after this row was applied, so
// the latest row always equals the profile's denormalized total.
type XPTransaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_xp_student_created" json:"student_id"`
	Student         *StudentProfile `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	TransactionType string          `gorm:"column:transaction_type;not null;index" json:"transaction_type"`
	Amount          int             `gorm:"not null" json:"amount"`
	Description     string          `gorm:"not null;default:''" json:"description"`
	ReferenceID     *uuid.UUID      `gorm:"column:reference_id;type:uuid" json:"reference_id,omitempty"`
	BalanceAfter    int             `gorm:"column:balance_after;not null" json:"balance_after"`
	CreatedAt       time.Time       `gorm:"not null;default:now();index:idx_xp_student_created" json:"created_at"`
}

func (XPTransaction) TableName() string { return "xp_transaction" }
