package repository

import (
	"context"
	"time"

	"usersvc/internal/domain/model"
)

// 監査ログの絞り込み条件。空文字/nilは条件なし
type AuditLogFilter struct {
	ActorUserID  string
	TargetUserID string
	Action       *model.AuditAction
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Limit        int
	Offset       int
}

// 監査ログの保存・一覧取得の約束。
type AuditLogRepository interface {
	// 監査ログを1件保存。IDは採番される
	Create(ctx context.Context, log *model.AuditLog) error

	// 新しい順に一覧。totalはlimit/offset適用前の件数
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, int64, error)
}
