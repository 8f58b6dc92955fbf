package usecase

import (
	"context"
	"time"

	"usersvc/internal/config"
	auth "usersvc/internal/usecase/auth_usecase"
)

const (
	HealthStatusOK    = "ok"
	HealthStatusError = "error"

	healthCheckTimeout = 2 * time.Second
)

// *sql.DBがそのまま満たす
type Pinger interface {
	PingContext(ctx context.Context) error
}

type AppInfo struct {
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	Description string    `json:"description"`
	Environment string    `json:"environment"`
	StartedAt   time.Time `json:"startedAt"`
	Uptime      float64   `json:"uptime"` // 秒
}

type DependencyHealth struct {
	Status    string  `json:"status"`
	LatencyMs float64 `json:"latencyMs"`
	Error     string  `json:"error,omitempty"`
}

type HealthReport struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    float64          `json:"uptime"`
	Database  DependencyHealth `json:"database"`
}

func (h HealthReport) Healthy() bool { return h.Status == HealthStatusOK }

type AppUsecase struct {
	cfg       config.AppConfig
	db        Pinger
	clock     auth.Clock
	startedAt time.Time
}

func NewAppUsecase(cfg config.AppConfig, db Pinger, clock auth.Clock) *AppUsecase {
	return &AppUsecase{cfg: cfg, db: db, clock: clock, startedAt: clock.Now()}
}

func (u *AppUsecase) Info() AppInfo {
	return AppInfo{
		Name:        u.cfg.Name,
		Version:     u.cfg.Version,
		Description: u.cfg.Description,
		Environment: u.cfg.Env,
		StartedAt:   u.startedAt,
		Uptime:      u.uptime(),
	}
}

// DBにpingして状態を返す。DBがダメなら全体もerror
func (u *AppUsecase) Health(ctx context.Context) HealthReport {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	dep := DependencyHealth{Status: HealthStatusOK}
	if err := u.db.PingContext(ctx); err != nil {
		dep.Status = HealthStatusError
		dep.Error = err.Error()
	}
	dep.LatencyMs = float64(time.Since(start).Microseconds()) / 1000

	return HealthReport{
		Status:    dep.Status,
		Timestamp: u.clock.Now(),
		Uptime:    u.uptime(),
		Database:  dep,
	}
}

func (u *AppUsecase) uptime() float64 {
	return u.clock.Now().Sub(u.startedAt).Seconds()
}
