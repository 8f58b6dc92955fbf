package repository

import (
	"context"
	"time"

	"usersvc/internal/domain/model"
)

// リフレッシュトークンの保存・取得・失効
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindByID(ctx context.Context, id string) (*model.RefreshToken, error)
	// 未失効のものだけrevoked_atを入れる。対象がなければErrNotFound
	RevokeByID(ctx context.Context, id string, revokedAt time.Time) error
	// ユーザーの未失効トークンを全部失効させ、件数を返す
	RevokeAllByUserID(ctx context.Context, userID string, revokedAt time.Time) (int64, error)
	// 期限切れを物理削除
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
