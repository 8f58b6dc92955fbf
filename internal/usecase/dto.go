package usecase

import (
	"time"

	"usersvc/internal/domain/model"
	auth "usersvc/internal/usecase/auth_usecase"
)

// usecaseが入力検証に依存する約束（実装はinternal/validator）
type Validator interface {
	Validate(v interface{}) error
}

// 操作しているユーザー。JWTのclaimsから作る。
type Actor struct {
	UserID string
	Role   model.Role
}

func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

func (a Actor) CanAccess(userID string) bool { return a.IsAdmin() || a.UserID == userID }

// DBから読み直したユーザーのroleを優先する
func ActorFromUser(u *model.User) Actor {
	return Actor{UserID: u.ID, Role: u.Role}
}

func ActorFromClaims(c *auth.Claims) Actor {
	if c == nil {
		return Actor{}
	}
	return Actor{UserID: c.UserID(), Role: c.Role}
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	UserName string `json:"userName" validate:"required,username"`
	Password string `json:"password" validate:"required,password"`
}

type LoginInput struct {
	// emailでもuserNameでもよい
	EmailOrUserName string `json:"emailOrUserName" validate:"required,max=255"`
	Password        string `json:"password" validate:"required,max=72"`
}

type RefreshInput struct {
	RefreshToken string `json:"refreshToken"`
}

type CreateUserInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	UserName string `json:"userName" validate:"required,username"`
	Password string `json:"password" validate:"required,password"`
	Role     string `json:"role,omitempty" validate:"omitempty,role"`
	Status   string `json:"status,omitempty" validate:"omitempty,user_status"`
}

// nilのフィールドは変更しない
type UpdateUserInput struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	UserName *string `json:"userName,omitempty" validate:"omitempty,username"`
	Role     *string `json:"role,omitempty" validate:"omitempty,role"`
	Status   *string `json:"status,omitempty" validate:"omitempty,user_status"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required,max=72"`
	NewPassword     string `json:"newPassword" validate:"required,password"`
}

type ListUsersInput struct {
	Page     int    `json:"page" validate:"gte=0,lte=1000000"`
	Limit    int    `json:"limit" validate:"gte=0,lte=100"`
	Email    string `json:"email" validate:"max=255"`
	UserName string `json:"userName" validate:"max=30"`
	Status   string `json:"status" validate:"omitempty,user_status"`
	Role     string `json:"role" validate:"omitempty,role"`
	SortBy   string `json:"sortBy" validate:"omitempty,oneof=createdAt email userName"`
	Order    string `json:"order" validate:"omitempty,oneof=asc desc ASC DESC"`
}

type TokenPair struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	TokenType        string    `json:"tokenType"`
	ExpiresIn        int64     `json:"expiresIn"`
	RefreshExpiresIn int64     `json:"refreshExpiresIn"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

type AuthResult struct {
	User   *model.User `json:"user"`
	Tokens TokenPair   `json:"tokens"`
}

type ForceLogoutResult struct {
	UserID  string `json:"userId"`
	Revoked int64  `json:"revoked"`
}

type UserList struct {
	Items []model.User   `json:"items"`
	Meta  PaginationMeta `json:"meta"`
}

type ListAuditLogsInput struct {
	Page         int    `json:"page" validate:"gte=0,lte=1000000"`
	Limit        int    `json:"limit" validate:"gte=0,lte=100"`
	ActorUserID  string `json:"actorUserId" validate:"max=64"`
	TargetUserID string `json:"targetUserId" validate:"omitempty,uuid"`
	Action       string `json:"action" validate:"omitempty,audit_action"`
}

type AuditLogList struct {
	Items []model.AuditLog `json:"items"`
	Meta  PaginationMeta   `json:"meta"`
}
