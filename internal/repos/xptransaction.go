package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dailytaiyari/backend/internal/logger"
	"github.com/dailytaiyari/backend/internal/types"
)

type XPTransactionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.XPTransaction) ([]*types.XPTransaction, error)
	ListByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, limit, offset int) ([]*types.XPTransaction, error)
	SumByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (int64, error)
	SumSince(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, since time.Time) (int64, error)
	LatestBalance(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (int, error)
}

type xpTransactionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewXPTransactionRepo(db *gorm.DB, baseLog *logger.Logger) XPTransactionRepo {
	repoLog := baseLog.With("repo", "XPTransactionRepo")
	return &xpTransactionRepo{db: db, log: repoLog}
}

func (xr *xpTransactionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.XPTransaction) ([]*types.XPTransaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = xr.db
	}

	if len(rows) == 0 {
		return []*types.XPTransaction{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (xr *xpTransactionRepo) ListByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, limit, offset int) ([]*types.XPTransaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = xr.db
	}

	var rows []*types.XPTransaction
	if studentID == uuid.Nil {
		return rows, nil
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (xr *xpTransactionRepo) SumByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = xr.db
	}

	var total int64
	if studentID == uuid.Nil {
		return 0, nil
	}
	if err := transaction.WithContext(ctx).
		Model(&types.XPTransaction{}).
		Where("student_id = ?", studentID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (xr *xpTransactionRepo) SumSince(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = xr.db
	}

	var total int64
	if studentID == uuid.Nil {
		return 0, nil
	}
	if err := transaction.WithContext(ctx).
		Model(&types.XPTransaction{}).
		Where("student_id = ? AND created_at >= ?", studentID, since).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (xr *xpTransactionRepo) LatestBalance(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = xr.db
	}

	if studentID == uuid.Nil {
		return 0, nil
	}
	var row types.XPTransaction
	if err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Limit(1).
		Find(&row).Error; err != nil {
		return 0, err
	}
	if row.ID == uuid.Nil {
		return 0, nil
	}
	return row.BalanceAfter, nil
}
