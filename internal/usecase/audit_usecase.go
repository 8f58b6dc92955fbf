package usecase

import (
	"context"
	"encoding/json"
	"strings"

	"usersvc/internal/domain/model"
	repo "usersvc/internal/repository"
	auth "usersvc/internal/usecase/auth_usecase"
)

// 監査ログの閲覧（管理者のみ）
type AuditUsecase struct {
	audits    repo.AuditLogRepository
	validator Validator
}

func NewAuditUsecase(audits repo.AuditLogRepository, validator Validator) *AuditUsecase {
	return &AuditUsecase{audits: audits, validator: validator}
}

func (u *AuditUsecase) List(ctx context.Context, actor Actor, in ListAuditLogsInput) (*AuditLogList, error) {
	if !actor.IsAdmin() {
		return nil, NewForbidden("admin role required")
	}
	if err := u.validator.Validate(in); err != nil {
		return nil, err
	}
	page, limit := normalizePage(in.Page, in.Limit)

	f := repo.AuditLogFilter{
		ActorUserID:  strings.TrimSpace(in.ActorUserID),
		TargetUserID: in.TargetUserID,
		Limit:        limit,
		Offset:       offsetOf(page, limit),
	}
	if in.Action != "" {
		a, _ := model.ParseAuditAction(in.Action)
		f.Action = &a
	}

	items, total, err := u.audits.List(ctx, f)
	if err != nil {
		return nil, NewDatabase(err)
	}
	if items == nil {
		items = []model.AuditLog{}
	}
	return &AuditLogList{Items: items, Meta: NewPaginationMeta(page, limit, total)}, nil
}

// 監査ログに残すユーザーの状態
type userSnapshot struct {
	Email    string           `json:"email"`
	UserName string           `json:"userName"`
	Role     model.Role       `json:"role"`
	Status   model.UserStatus `json:"status"`
}

func snapshotOf(u *model.User) *userSnapshot {
	return &userSnapshot{Email: u.Email, UserName: u.UserName, Role: u.Role, Status: u.Status}
}

// 呼び出し側のトランザクション内で1件書く。失敗したら操作ごとロールバック
func recordAudit(
	ctx context.Context,
	r repo.TxRepos,
	clock auth.Clock,
	actor Actor,
	action model.AuditAction,
	targetUserID string,
	before, after interface{},
) error {
	entry := &model.AuditLog{
		ActorUserID:  actor.UserID,
		Action:       action,
		TargetUserID: targetUserID,
		BeforeJSON:   toJSON(before),
		AfterJSON:    toJSON(after),
		CreatedAt:    clock.Now(),
	}
	if err := r.AuditLogs().Create(ctx, entry); err != nil {
		return NewDatabase(err)
	}
	return nil
}

func toJSON(v interface{}) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
