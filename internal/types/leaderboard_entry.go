package types

import (
	"time"

	"github.com/google/uuid"
)

// LeaderboardEntry is one row of a materialized ranking snapshot.
// Period is daily, weekly, monthly or all_time; PeriodStart anchors the
// window so old snapshots can coexist during a refresh. A nil ExamID
// marks the global board; exam boards rank only students preparing for
// that exam.
type LeaderboardEntry struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Period            string          `gorm:"not null;index:idx_lb_scope_student,unique" json:"period"`
	PeriodStart       time.Time       `gorm:"column:period_start;type:date;not null;index:idx_lb_scope_student,unique" json:"period_start"`
	ExamID            *uuid.UUID      `gorm:"type:uuid;index:idx_lb_scope_student,unique" json:"exam_id,omitempty"`
	StudentID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_lb_scope_student,unique" json:"student_id"`
	Student           *StudentProfile `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	XPEarned          int             `gorm:"column:xp_earned;not null;default:0" json:"xp_earned"`
	QuestionsAnswered int             `gorm:"column:questions_answered;not null;default:0" json:"questions_answered"`
	Accuracy          float64         `gorm:"not null;default:0" json:"accuracy"`
	StudyTimeMinutes  int             `gorm:"column:study_time_minutes;not null;default:0" json:"study_time_minutes"`
	Rank              int             `gorm:"not null" json:"rank"`
	PreviousRank      *int            `gorm:"column:previous_rank" json:"previous_rank,omitempty"`
	RankChange        int             `gorm:"column:rank_change;not null;default:0" json:"rank_change"`
	ComputedAt        time.Time       `gorm:"column:computed_at;not null;default:now()" json:"computed_at"`
}

func (LeaderboardEntry) TableName() string { return "leaderboard_entry" }
