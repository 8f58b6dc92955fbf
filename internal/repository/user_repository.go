package repository

import (
	"context"
	"time"

	"usersvc/internal/domain/model"
)

// 一覧検索の並び順に使える列
const (
	UserSortCreatedAt = "createdAt"
	UserSortEmail     = "email"
	UserSortUserName  = "userName"
)

// ユーザー一覧の絞り込み条件
type UserListFilter struct {
	Email    string // 部分一致
	UserName string // 部分一致
	Status   *model.UserStatus
	Role     *model.Role
	SortBy   string
	Desc     bool
	Limit    int
	Offset   int
}

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成。email/user_name重複はErrDuplicate
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。なければErrNotFound
	FindByID(ctx context.Context, id string) (*model.User, error)
	//メールからユーザーを一件取得する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUserName(ctx context.Context, userName string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUserName(ctx context.Context, userName string) (bool, error)
	// 一覧と総件数
	List(ctx context.Context, filter UserListFilter) ([]model.User, int64, error)
	Update(ctx context.Context, user *model.User) error
	// last_login_atだけ書く。他の列は触らない
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}
