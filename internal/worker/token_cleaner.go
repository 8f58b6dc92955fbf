package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	auth "usersvc/internal/usecase/auth_usecase"
)

type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// TokenCleanerは期限切れのリフレッシュトークンを定期的に消す
type TokenCleaner struct {
	repo     ExpiredDeleter
	interval time.Duration
	clock    auth.Clock
	deleted  prometheus.Counter
	log      *slog.Logger
}

func NewTokenCleaner(repo ExpiredDeleter, interval time.Duration, clock auth.Clock, deleted prometheus.Counter, log *slog.Logger) *TokenCleaner {
	if interval <= 0 {
		interval = time.Hour
	}
	return &TokenCleaner{
		repo:     repo,
		interval: interval,
		clock:    clock,
		deleted:  deleted,
		log:      log.With("component", "token_cleaner"),
	}
}

// ctxがキャンセルされるまでブロックする
func (c *TokenCleaner) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.log.Info("token cleanup started", "interval", c.interval.String())
	for {
		select {
		case <-ctx.Done():
			c.log.Info("token cleanup stopped")
			return
		case <-ticker.C:
			_, _ = c.RunOnce(ctx)
		}
	}
}

func (c *TokenCleaner) RunOnce(ctx context.Context) (int64, error) {
	deleted, err := c.repo.DeleteExpired(ctx, c.clock.Now())
	if err != nil {
		c.log.ErrorContext(ctx, "refresh token cleanup failed", "error", err)
		return 0, err
	}
	if deleted > 0 {
		c.deleted.Add(float64(deleted))
		c.log.InfoContext(ctx, "refresh token cleanup", "deleted", deleted)
	}
	return deleted, nil
}
