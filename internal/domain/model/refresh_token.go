package model

import "time"

type RefreshToken struct {
	ID        string     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string     `gorm:"type:uuid;not null;index" json:"userId"`
	TokenHash string     `gorm:"type:varchar(64);not null;uniqueIndex" json:"-"`
	UserAgent string     `gorm:"type:varchar(512)" json:"userAgent"`
	IP        string     `gorm:"column:ip;type:varchar(64)" json:"ip"`
	ExpiresAt time.Time  `gorm:"not null;index" json:"expiresAt"`
	RevokedAt *time.Time `gorm:"index" json:"revokedAt,omitempty"`
	CreatedAt time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"not null" json:"updatedAt"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }

// 期限内かつ未失効なら有効
func (t *RefreshToken) IsValid(now time.Time) bool {
	return t.ExpiresAt.After(now) && t.RevokedAt == nil
}

func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}
