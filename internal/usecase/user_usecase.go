package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"usersvc/internal/domain/model"
	repo "usersvc/internal/repository"
	auth "usersvc/internal/usecase/auth_usecase"
)

type UserUsecase struct {
	users     repo.UserRepository
	tx        repo.TransactionManager
	hasher    auth.PasswordHasher
	validator Validator
	idGen     auth.IDGenerator
	clock     auth.Clock
	log       *slog.Logger
}

// DI
func NewUserUsecase(
	users repo.UserRepository,
	tx repo.TransactionManager,
	hasher auth.PasswordHasher,
	validator Validator,
	idGen auth.IDGenerator,
	clock auth.Clock,
	log *slog.Logger,
) *UserUsecase {
	return &UserUsecase{
		users:     users,
		tx:        tx,
		hasher:    hasher,
		validator: validator,
		idGen:     idGen,
		clock:     clock,
		log:       log,
	}
}

// 管理者によるユーザー作成。roleとstatusも指定できる
func (u *UserUsecase) Create(ctx context.Context, actor Actor, in CreateUserInput) (*model.User, error) {
	if !actor.IsAdmin() {
		return nil, NewForbidden("admin role required")
	}
	in.Email = normalizeEmail(in.Email)
	in.UserName = strings.TrimSpace(in.UserName)
	if err := u.validator.Validate(in); err != nil {
		return nil, err
	}

	role := model.RoleUser
	if in.Role != "" {
		role, _ = model.ParseRole(in.Role)
	}
	status := model.UserStatusActive
	if in.Status != "" {
		status, _ = model.ParseUserStatus(in.Status)
	}

	var user *model.User
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		created, err := createUser(ctx, r.Users(), u.hasher, u.idGen, u.clock, newUserParams{
			Email:    in.Email,
			UserName: in.UserName,
			Password: in.Password,
			Role:     role,
			Status:   status,
		})
		if err != nil {
			return err
		}
		user = created
		return recordAudit(ctx, r, u.clock, actor, model.AuditActionCreateUser, created.ID, nil, snapshotOf(created))
	})
	if err != nil {
		return nil, err
	}
	u.log.InfoContext(ctx, "user created", "user_id", user.ID, "by", actor.UserID)
	return user, nil
}

func (u *UserUsecase) GetByID(ctx context.Context, id string) (*model.User, error) {
	if err := validateUserID(id); err != nil {
		return nil, err
	}
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "user")
	}
	return user, nil
}

// 一覧取得。page/limitは0なら既定値
func (u *UserUsecase) List(ctx context.Context, in ListUsersInput) (*UserList, error) {
	if err := u.validator.Validate(in); err != nil {
		return nil, err
	}
	page, limit := normalizePage(in.Page, in.Limit)

	f := repo.UserListFilter{
		Email:    strings.TrimSpace(in.Email),
		UserName: strings.TrimSpace(in.UserName),
		SortBy:   in.SortBy,
		Desc:     strings.EqualFold(in.Order, "desc"),
		Limit:    limit,
		Offset:   offsetOf(page, limit),
	}
	if f.SortBy == "" {
		// 既定は新しい順
		f.SortBy = repo.UserSortCreatedAt
		f.Desc = in.Order == "" || f.Desc
	}
	if in.Status != "" {
		s, _ := model.ParseUserStatus(in.Status)
		f.Status = &s
	}
	if in.Role != "" {
		r, _ := model.ParseRole(in.Role)
		f.Role = &r
	}

	items, total, err := u.users.List(ctx, f)
	if err != nil {
		return nil, NewDatabase(err)
	}
	if items == nil {
		items = []model.User{}
	}
	return &UserList{Items: items, Meta: NewPaginationMeta(page, limit, total)}, nil
}

// 本人か管理者のみ。role/statusの変更は管理者のみ
func (u *UserUsecase) Update(ctx context.Context, actor Actor, id string, in UpdateUserInput) (*model.User, error) {
	if err := validateUserID(id); err != nil {
		return nil, err
	}
	if !actor.CanAccess(id) {
		return nil, NewForbidden("cannot update another user")
	}
	if (in.Role != nil || in.Status != nil) && !actor.IsAdmin() {
		return nil, NewForbidden("only admins can change role or status")
	}
	if in.Email != nil {
		e := normalizeEmail(*in.Email)
		in.Email = &e
	}
	if in.UserName != nil {
		n := strings.TrimSpace(*in.UserName)
		in.UserName = &n
	}
	if err := u.validator.Validate(in); err != nil {
		return nil, err
	}

	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "user")
	}
	before := snapshotOf(user)

	if in.Email != nil && *in.Email != user.Email {
		taken, err := u.users.ExistsByEmail(ctx, *in.Email)
		if err != nil {
			return nil, NewDatabase(err)
		}
		if taken {
			return nil, errEmailTaken()
		}
		user.Email = *in.Email
	}
	if in.UserName != nil && *in.UserName != user.UserName {
		taken, err := u.users.ExistsByUserName(ctx, *in.UserName)
		if err != nil {
			return nil, NewDatabase(err)
		}
		if taken {
			return nil, errUserNameTaken()
		}
		user.UserName = *in.UserName
	}
	if in.Role != nil {
		user.Role, _ = model.ParseRole(*in.Role)
	}
	if in.Status != nil {
		user.Status, _ = model.ParseUserStatus(*in.Status)
	}

	user.UpdatedAt = u.clock.Now()
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Users().Update(ctx, user); err != nil {
			return mapRepoError(err, "user")
		}
		// role/statusの変更（管理者操作）だけ監査ログに残す
		if before.Role == user.Role && before.Status == user.Status {
			return nil
		}
		return recordAudit(ctx, r, u.clock, actor, model.AuditActionUpdateUser, user.ID, before, snapshotOf(user))
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// パスワード変更。成功したら全リフレッシュトークンを失効
func (u *UserUsecase) ChangePassword(ctx context.Context, userID string, in ChangePasswordInput) error {
	if userID == "" {
		return NewUnauthorized("authentication required")
	}
	if err := u.validator.Validate(in); err != nil {
		return err
	}
	if in.CurrentPassword == in.NewPassword {
		return NewValidation("validation failed", map[string]string{
			"newPassword": "must differ from the current password",
		})
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return mapRepoError(err, "user")
	}
	if !u.hasher.Verify(in.CurrentPassword, user.PasswordHash) {
		return NewUnauthorized("current password is incorrect")
	}

	hashed, err := u.hasher.Hash(in.NewPassword)
	if err != nil {
		return err
	}
	now := u.clock.Now()
	user.PasswordHash = hashed
	user.UpdatedAt = now

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Users().Update(ctx, user); err != nil {
			return mapRepoError(err, "user")
		}
		if _, err := r.RefreshTokens().RevokeAllByUserID(ctx, user.ID, now); err != nil {
			return NewDatabase(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	u.log.InfoContext(ctx, "password changed", "user_id", user.ID)
	return nil
}

// 本人か管理者のみ。トークン失効とユーザー削除を1トランザクションで
func (u *UserUsecase) Delete(ctx context.Context, actor Actor, id string) error {
	if err := validateUserID(id); err != nil {
		return err
	}
	if !actor.CanAccess(id) {
		return NewForbidden("cannot delete another user")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.RefreshTokens().RevokeAllByUserID(ctx, id, u.clock.Now()); err != nil {
			return NewDatabase(err)
		}
		if err := r.Users().Delete(ctx, id); err != nil {
			return mapRepoError(err, "user")
		}
		if actor.UserID == id {
			return nil
		}
		return recordAudit(ctx, r, u.clock, actor, model.AuditActionDeleteUser, id, nil, nil)
	})
	if err != nil {
		return err
	}
	u.log.InfoContext(ctx, "user deleted", "user_id", id, "by", actor.UserID)
	return nil
}

type newUserParams struct {
	Email    string
	UserName string
	Password string
	Role     model.Role
	Status   model.UserStatus
}

// 重複チェック→ハッシュ化→保存。登録と管理者作成で共通
func createUser(
	ctx context.Context,
	users repo.UserRepository,
	hasher auth.PasswordHasher,
	idGen auth.IDGenerator,
	clock auth.Clock,
	p newUserParams,
) (*model.User, error) {
	taken, err := users.ExistsByEmail(ctx, p.Email)
	if err != nil {
		return nil, NewDatabase(err)
	}
	if taken {
		return nil, errEmailTaken()
	}
	taken, err = users.ExistsByUserName(ctx, p.UserName)
	if err != nil {
		return nil, NewDatabase(err)
	}
	if taken {
		return nil, errUserNameTaken()
	}

	hashed, err := hasher.Hash(p.Password)
	if err != nil {
		return nil, err
	}

	now := clock.Now()
	user := &model.User{
		ID:           idGen.NewID(),
		Email:        p.Email,
		UserName:     p.UserName,
		PasswordHash: hashed,
		Status:       p.Status,
		Role:         p.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// 事前チェック後に競合した場合もunique indexで409になる
	if err := users.Create(ctx, user); err != nil {
		return nil, mapRepoError(err, "user")
	}
	return user, nil
}

func validateUserID(id string) error {
	if err := uuid.Validate(id); err != nil {
		return NewValidation("invalid user id", map[string]string{"id": "must be a UUID"})
	}
	return nil
}
