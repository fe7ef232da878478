package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dailytaiyari/backend/internal/logger"
	"github.com/dailytaiyari/backend/internal/types"
)

type UserTokenRepo interface {
	Create(ctx context.Context, tx *gorm.DB, token *types.UserToken) (*types.UserToken, error)
	GetByRefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) (*types.UserToken, error)
	GetByAccessToken(ctx context.Context, tx *gorm.DB, accessToken string) (*types.UserToken, error)
	DeleteByID(ctx context.Context, tx *gorm.DB, tokenID uuid.UUID) error
	DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
	DeleteExpired(ctx context.Context, tx *gorm.DB, before time.Time) (int64, error)
}

type userTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	repoLog := baseLog.With("repo", "UserTokenRepo")
	return &userTokenRepo{db: db, log: repoLog}
}

func (tr *userTokenRepo) Create(ctx context.Context, tx *gorm.DB, token *types.UserToken) (*types.UserToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if err := transaction.WithContext(ctx).Create(token).Error; err != nil {
		return nil, mapped(err)
	}
	return token, nil
}

func (tr *userTokenRepo) GetByRefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) (*types.UserToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var row types.UserToken
	if err := transaction.WithContext(ctx).
		Where("refresh_token = ?", refreshToken).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (tr *userTokenRepo) GetByAccessToken(ctx context.Context, tx *gorm.DB, accessToken string) (*types.UserToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var row types.UserToken
	if err := transaction.WithContext(ctx).
		Where("access_token = ?", accessToken).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (tr *userTokenRepo) DeleteByID(ctx context.Context, tx *gorm.DB, tokenID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if tokenID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Unscoped().
		Where("id = ?", tokenID).
		Delete(&types.UserToken{}).Error
}

func (tr *userTokenRepo) DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if userID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Unscoped().
		Where("user_id = ?", userID).
		Delete(&types.UserToken{}).Error
}

func (tr *userTokenRepo) DeleteExpired(ctx context.Context, tx *gorm.DB, before time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	res := transaction.WithContext(ctx).
		Unscoped().
		Where("expires_at < ?", before).
		Delete(&types.UserToken{})
	return res.RowsAffected, res.Error
}
