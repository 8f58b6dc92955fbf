package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"usersvc/internal/domain/model"
	repo "usersvc/internal/repository"
)

type refreshTokenGormRepository struct {
	db *gorm.DB //DB接続（GORM）
}

// GORM実装
func NewRefreshTokenRepository(db *gorm.DB) repo.RefreshTokenRepository {
	return &refreshTokenGormRepository{db: db}
}

// リフレッシュトークンを保存
func (r *refreshTokenGormRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	//タイムアウトやキャンセルをDB処理に伝える
	return translateError(r.db.WithContext(ctx).Create(token).Error)
}

func (r *refreshTokenGormRepository) FindByID(ctx context.Context, id string) (*model.RefreshToken, error) {
	var token model.RefreshToken
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&token).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &token, nil
}

// revoked_atをセットして無効。
func (r *refreshTokenGormRepository) RevokeByID(ctx context.Context, id string, revokedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.RefreshToken{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Updates(map[string]interface{}{
			"revoked_at": revokedAt,
			"updated_at": revokedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	// 更新件数が0なら「すでに失効/存在しない」
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 指定ユーザーのリフレッシュトークンを全失効
func (r *refreshTokenGormRepository) RevokeAllByUserID(ctx context.Context, userID string, revokedAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Updates(map[string]interface{}{
			"revoked_at": revokedAt,
			"updated_at": revokedAt,
		})
	if result.Error != nil {
		return 0, translateError(result.Error)
	}
	return result.RowsAffected, nil
}

func (r *refreshTokenGormRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&model.RefreshToken{})
	if result.Error != nil {
		return 0, translateError(result.Error)
	}
	return result.RowsAffected, nil
}
