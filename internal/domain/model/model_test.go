package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRefreshToken_IsValid(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	revoked := now.Add(-time.Minute)

	tests := []struct {
		name string
		tok  RefreshToken
		want bool
	}{
		{"future and not revoked", RefreshToken{ExpiresAt: now.Add(time.Hour)}, true},
		{"expires exactly now", RefreshToken{ExpiresAt: now}, false},
		{"expired", RefreshToken{ExpiresAt: now.Add(-time.Second)}, false},
		{"revoked", RefreshToken{ExpiresAt: now.Add(time.Hour), RevokedAt: &revoked}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.tok.IsValid(now))
		})
	}
}

func TestUser_CanAuthenticate(t *testing.T) {
	assert.True(t, (&User{Status: UserStatusActive}).CanAuthenticate())
	assert.False(t, (&User{Status: UserStatusInactive}).CanAuthenticate())
	assert.False(t, (&User{Status: UserStatusBlocked}).CanAuthenticate())
}

func TestParseRoleAndStatus(t *testing.T) {
	r, ok := ParseRole(" admin ")
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, r)

	_, ok = ParseRole("root")
	assert.False(t, ok)

	s, ok := ParseUserStatus("blocked")
	assert.True(t, ok)
	assert.Equal(t, UserStatusBlocked, s)

	_, ok = ParseUserStatus("")
	assert.False(t, ok)
}

func TestParseAuditAction(t *testing.T) {
	a, ok := ParseAuditAction(" force_logout ")
	assert.True(t, ok)
	assert.Equal(t, AuditActionForceLogout, a)

	_, ok = ParseAuditAction("UPDATE_STOCK")
	assert.False(t, ok)
}
