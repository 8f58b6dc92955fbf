package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v5/stdlib"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"usersvc/internal/config"
	"usersvc/internal/logger"
)

// Connect はDBに接続して *gorm.DB と下の *sql.DB を返す。
// database/sqlはotelsqlでラップしたpgxドライバで開く。
func Connect(cfg config.DatabaseConfig, log *slog.Logger) (*gorm.DB, *sql.DB, error) {
	sqlDB, err := otelsql.Open("pgx", cfg.DSN(),
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("sql open: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := Ping(context.Background(), sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("db ping: %w", err)
	}

	gormDB, err := Open(sqlDB, log, cfg.LogQueries)
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}
	return gormDB, sqlDB, nil
}

// Openは既存の*sql.DBの上にgormを載せる（テストではsqlmockを渡す）
func Open(sqlDB *sql.DB, log *slog.Logger, logQueries bool) (*gorm.DB, error) {
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.NewGormLogger(log, logQueries),
		SkipDefaultTransaction: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}
	return gormDB, nil
}

const pingTimeout = 5 * time.Second

// Pingは起動時の疎通確認。pingTimeoutで打ち切る
func Ping(ctx context.Context, sqlDB *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
