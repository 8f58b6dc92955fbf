package model

import (
	"strings"
	"time"
)

// 管理者がユーザーに対して行った操作
type AuditAction string

const (
	AuditActionCreateUser  AuditAction = "CREATE_USER"
	AuditActionUpdateUser  AuditAction = "UPDATE_USER"
	AuditActionDeleteUser  AuditAction = "DELETE_USER"
	AuditActionForceLogout AuditAction = "FORCE_LOGOUT"
)

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreateUser, AuditActionUpdateUser, AuditActionDeleteUser, AuditActionForceLogout:
		return true
	}
	return false
}

func ParseAuditAction(s string) (AuditAction, bool) {
	a := AuditAction(strings.ToUpper(strings.TrimSpace(s)))
	return a, a.IsValid()
}

// 監査ログ。「誰が」「どのユーザーを」「どう変えたか」を残す。
// 対象ユーザーが消えても残すのでFKは張らない
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	// seedなどシステム操作はuuid以外も入る
	ActorUserID  string      `gorm:"column:actor_user_id;type:varchar(64);not null;index" json:"actorUserId"`
	Action       AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`
	TargetUserID string      `gorm:"column:target_user_id;type:uuid;not null;index" json:"targetUserId"`

	// JSON文字列。パスワードハッシュは入れない
	BeforeJSON string `gorm:"column:before_json;type:text" json:"before,omitempty"`
	AfterJSON  string `gorm:"column:after_json;type:text" json:"after,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
}

func (AuditLog) TableName() string { return "audit_logs" }
