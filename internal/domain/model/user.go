package model

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ParseRoleは大文字小文字を無視してRoleに変換する
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.IsValid()
}

type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
	UserStatusBlocked  UserStatus = "BLOCKED"
)

func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusActive, UserStatusInactive, UserStatusBlocked:
		return true
	}
	return false
}

func ParseUserStatus(s string) (UserStatus, bool) {
	st := UserStatus(strings.ToUpper(strings.TrimSpace(s)))
	return st, st.IsValid()
}

// email/user_nameの一意性はDBのunique indexで守る
type User struct {
	ID           string     `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex:uq_users_email;not null" json:"email"`
	UserName     string     `gorm:"column:user_name;type:varchar(30);uniqueIndex:uq_users_user_name;not null" json:"userName"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	Status       UserStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Role         Role       `gorm:"type:varchar(20);not null;index" json:"role"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;index" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// ACTIVE以外はログイン・トークン更新不可
func (u *User) CanAuthenticate() bool {
	return u.Status == UserStatusActive
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
