package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Badge is one catalog entry. Requirements is a single-key JSON object
// mapping a stat or event key to its threshold, e.g. {"streak_days": 7}.
type Badge struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code         string         `gorm:"not null;uniqueIndex" json:"code"`
	Name         string         `gorm:"not null" json:"name"`
	Description  string         `gorm:"not null;default:''" json:"description"`
	Category     string         `gorm:"not null;default:'general';index" json:"category"`
	Tier         string         `gorm:"not null;default:'bronze'" json:"tier"`
	IconKey      string         `gorm:"column:icon_key;not null;default:''" json:"icon_key"`
	Requirements datatypes.JSON `gorm:"not null" json:"requirements"`
	XPReward     int            `gorm:"column:xp_reward;not null;default:0" json:"xp_reward"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	IsSecret     bool           `gorm:"column:is_secret;not null;default:false" json:"is_secret"`
	SortOrder    int            `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Badge) TableName() string { return "badge" }
