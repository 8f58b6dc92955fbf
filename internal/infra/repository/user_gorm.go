package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"usersvc/internal/domain/model"
	domainrepo "usersvc/internal/repository"
)

type userGormRepository struct {
	db *gorm.DB
}

// DI
// main.goでこれをnewしてusecaseに注入します。
func NewUserGormRepository(db *gorm.DB) domainrepo.UserRepository {
	return &userGormRepository{db: db}
}

// 並び替えで使ってよい列（SQLインジェクション対策でホワイトリスト）
var userSortColumns = map[string]string{
	domainrepo.UserSortCreatedAt: "created_at",
	domainrepo.UserSortEmail:     "email",
	domainrepo.UserSortUserName:  "user_name",
}

func (r *userGormRepository) Create(ctx context.Context, user *model.User) error {
	return translateError(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userGormRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// emailでユーザーを1件取得
func (r *userGormRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *userGormRepository) FindByUserName(ctx context.Context, userName string) (*model.User, error) {
	return r.findOne(ctx, "user_name = ?", userName)
}

func (r *userGormRepository) findOne(ctx context.Context, cond string, arg interface{}) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&u).Error; err != nil {
		return nil, translateError(err)
	}
	return &u, nil
}

func (r *userGormRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *userGormRepository) ExistsByUserName(ctx context.Context, userName string) (bool, error) {
	return r.exists(ctx, "user_name = ?", userName)
}

func (r *userGormRepository) exists(ctx context.Context, cond string, arg interface{}) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where(cond, arg).
		Count(&n).Error
	if err != nil {
		return false, translateError(err)
	}
	return n > 0, nil
}

func (r *userGormRepository) List(ctx context.Context, f domainrepo.UserListFilter) ([]model.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.User{})

	if f.Email != "" {
		q = q.Where("email ILIKE ?", "%"+escapeLike(f.Email)+"%")
	}
	if f.UserName != "" {
		q = q.Where("user_name ILIKE ?", "%"+escapeLike(f.UserName)+"%")
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.Role != nil {
		q = q.Where("role = ?", *f.Role)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	col, ok := userSortColumns[f.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if f.Desc {
		dir = "DESC"
	}

	var users []model.User
	err := q.Session(&gorm.Session{}).
		Order(col + " " + dir).
		Order("id ASC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, translateError(err)
	}
	return users, total, nil
}

// ユーザーを更新。対象がなければErrNotFound
func (r *userGormRepository) Update(ctx context.Context, user *model.User) error {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"email":         user.Email,
			"user_name":     user.UserName,
			"password_hash": user.PasswordHash,
			"status":        user.Status,
			"role":          user.Role,
			"last_login_at": user.LastLoginAt,
			"updated_at":    user.UpdatedAt,
		})
	if res.Error != nil {
		return translateError(res.Error)
	}
	// 0件更新は「対象がない」
	if res.RowsAffected == 0 {
		return domainrepo.ErrNotFound
	}
	return nil
}

// UpdateColumnなのでupdated_atは変えない
func (r *userGormRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domainrepo.ErrNotFound
	}
	return nil
}

func (r *userGormRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.User{})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domainrepo.ErrNotFound
	}
	return nil
}
