package mocks

import (
	"context"

	"usersvc/internal/repository"
)

// TxManagerはfnをそのまま同じmockリポジトリで実行する
type TxManager struct {
	UsersRepo  repository.UserRepository
	TokensRepo repository.RefreshTokenRepository
	AuditRepo  *AuditLogStore
	Calls      int
}

var _ repository.TransactionManager = (*TxManager)(nil)

// 監査ログはメモリに貯める。検証はAuditRepo.Entriesで
func NewTxManager(users repository.UserRepository, tokens repository.RefreshTokenRepository) *TxManager {
	return &TxManager{UsersRepo: users, TokensRepo: tokens, AuditRepo: &AuditLogStore{}}
}

func (m *TxManager) WithinTx(ctx context.Context, fn func(r repository.TxRepos) error) error {
	m.Calls++
	return fn(m)
}

func (m *TxManager) Users() repository.UserRepository                 { return m.UsersRepo }
func (m *TxManager) RefreshTokens() repository.RefreshTokenRepository { return m.TokensRepo }
func (m *TxManager) AuditLogs() repository.AuditLogRepository         { return m.AuditRepo }
