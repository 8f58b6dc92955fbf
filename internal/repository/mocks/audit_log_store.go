package mocks

import (
	"context"
	"sync"

	"usersvc/internal/domain/model"
	"usersvc/internal/repository"
)

// AuditLogStoreはメモリ上のAuditLogRepository。Errを入れるとCreateが失敗する
type AuditLogStore struct {
	mu      sync.Mutex
	Entries []model.AuditLog
	Err     error
}

var _ repository.AuditLogRepository = (*AuditLogStore)(nil)

func (s *AuditLogStore) Create(ctx context.Context, log *model.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	log.ID = int64(len(s.Entries) + 1)
	s.Entries = append(s.Entries, *log)
	return nil
}

func (s *AuditLogStore) List(ctx context.Context, f repository.AuditLogFilter) ([]model.AuditLog, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, 0, s.Err
	}

	var matched []model.AuditLog
	// 新しい順
	for i := len(s.Entries) - 1; i >= 0; i-- {
		e := s.Entries[i]
		if f.ActorUserID != "" && e.ActorUserID != f.ActorUserID {
			continue
		}
		if f.TargetUserID != "" && e.TargetUserID != f.TargetUserID {
			continue
		}
		if f.Action != nil && e.Action != *f.Action {
			continue
		}
		if f.CreatedFrom != nil && e.CreatedAt.Before(*f.CreatedFrom) {
			continue
		}
		if f.CreatedTo != nil && e.CreatedAt.After(*f.CreatedTo) {
			continue
		}
		matched = append(matched, e)
	}

	total := int64(len(matched))
	if f.Offset >= len(matched) {
		return []model.AuditLog{}, total, nil
	}
	matched = matched[f.Offset:]
	if f.Limit > 0 && f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}
	return matched, total, nil
}
