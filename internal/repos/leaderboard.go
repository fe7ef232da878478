package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dailytaiyari/backend/internal/logger"
	"github.com/dailytaiyari/backend/internal/types"
)

type LeaderboardRepo interface {
	ReplaceSnapshot(ctx context.Context, tx *gorm.DB, period string, periodStart time.Time, examID *uuid.UUID, rows []*types.LeaderboardEntry) error
	ListTop(ctx context.Context, tx *gorm.DB, period string, periodStart time.Time, examID *uuid.UUID, limit int) ([]*types.LeaderboardEntry, error)
	GetStudentEntry(ctx context.Context, tx *gorm.DB, period string, periodStart time.Time, examID *uuid.UUID, studentID uuid.UUID) (*types.LeaderboardEntry, error)
	PreviousRanks(ctx context.Context, tx *gorm.DB, period string, periodStart time.Time, examID *uuid.UUID) (map[uuid.UUID]int, error)
	DeleteBefore(ctx context.Context, tx *gorm.DB, period string, before time.Time) (int64, error)
}

type leaderboardRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLeaderboardRepo(db *gorm.DB, baseLog *logger.Logger) LeaderboardRepo {
	repoLog := baseLog.With("repo", "LeaderboardRepo")
	return &leaderboardRepo{db: db, log: repoLog}
}

func (lr *leaderboardRepo) scope(q *gorm.DB, period string, examID *uuid.UUID) *gorm.DB {
	q = q.Where("period = ?", period)
	if examID == nil {
		return q.Where("exam_id IS NULL")
	}
	return q.Where("exam_id = ?", *examID)
}

// ReplaceSnapshot swaps the window's rows in one transaction so readers
// never observe a half-written board.
func (lr *leaderboardRepo) ReplaceSnapshot(ctx context.Context, tx *gorm.DB, period string, periodStart time.Time, examID *uuid.UUID, rows []*types.LeaderboardEntry) error {
	run := func(transaction *gorm.DB) error {
		if err := lr.scope(transaction.WithContext(ctx), period, examID).
			Where("period_start = ?", periodStart).
			Delete(&types.LeaderboardEntry{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		for _, row := range rows {
			if row.ID == uuid.Nil {
				row.ID = uuid.New()
			}
		}
		return transaction.WithContext(ctx).CreateInBatches(&rows, 500).Error
	}

	if tx != nil {
		return run(tx)
	}
	return lr.db.Transaction(func(transaction *gorm.DB) error {
		return run(transaction)
	})
}

func (lr *leaderboardRepo) ListTop(ctx context.Context, tx *gorm.DB, period string, periodStart time.Time, examID *uuid.UUID, limit int) ([]*types.LeaderboardEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var rows []*types.LeaderboardEntry
	if err := lr.scope(transaction.WithContext(ctx), period, examID).
		Where("period_start = ?", periodStart).
		Order("rank ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (lr *leaderboardRepo) GetStudentEntry(ctx context.Context, tx *gorm.DB, period string, periodStart time.Time, examID *uuid.UUID, studentID uuid.UUID) (*types.LeaderboardEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	if studentID == uuid.Nil {
		return nil, nil
	}
	var row types.LeaderboardEntry
	if err := lr.scope(transaction.WithContext(ctx), period, examID).
		Where("period_start = ? AND student_id = ?", periodStart, studentID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

// PreviousRanks returns the ranks of the most recent snapshot at or before
// periodStart. At the first refresh of a new window that is the prior
// window's final board; within a window it is the snapshot being replaced.
func (lr *leaderboardRepo) PreviousRanks(ctx context.Context, tx *gorm.DB, period string, periodStart time.Time, examID *uuid.UUID) (map[uuid.UUID]int, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	latest := lr.scope(transaction.Model(&types.LeaderboardEntry{}), period, examID).
		Select("MAX(period_start)").
		Where("period_start <= ?", periodStart)

	var rows []types.LeaderboardEntry
	if err := lr.scope(transaction.WithContext(ctx), period, examID).
		Select("student_id", "rank").
		Where("period_start = (?)", latest).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	ranks := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		ranks[row.StudentID] = row.Rank
	}
	return ranks, nil
}

func (lr *leaderboardRepo) DeleteBefore(ctx context.Context, tx *gorm.DB, period string, before time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	res := transaction.WithContext(ctx).
		Where("period = ? AND period_start < ?", period, before).
		Delete(&types.LeaderboardEntry{})
	return res.RowsAffected, res.Error
}
