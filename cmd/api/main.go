// @title                       User Service API
// @version                     1.0.0
// @description                 User management backend: registration, JWT access/refresh tokens and user CRUD over REST and GraphQL.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"usersvc/internal/config"
	"usersvc/internal/infra/db"
	infraRepo "usersvc/internal/infra/repository"
	"usersvc/internal/logger"
	"usersvc/internal/observability"
	"usersvc/internal/server"
	"usersvc/internal/usecase"
	auth "usersvc/internal/usecase/auth_usecase"
	"usersvc/internal/validator"
	"usersvc/internal/worker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	// .envは任意。なければ環境変数だけで動く
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, closer, err := logger.New(cfg.Log, cfg.App.Name)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer closer.Close()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing, cfg.App.Version, log)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn("tracing shutdown failed", "error", err)
		}
	}()

	//DB接続
	gormDB, sqlDB, err := db.Connect(cfg.Database, log)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx, sqlDB, log); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	idGen := auth.UUIDGenerator{}
	clock := auth.SystemClock{}
	hasher := auth.NewBcryptPasswordHasher(cfg.Security.BcryptCost)
	tokens := auth.NewTokenService(cfg.JWT, clock, idGen)
	v := validator.New()

	//metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(sqlDB, cfg.Database.Name),
	)
	metrics := observability.NewMetrics(registry)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, rtRepo, txManager, hasher, tokens, v, idGen, clock, log)
	userUC := usecase.NewUserUsecase(userRepo, txManager, hasher, v, idGen, clock, log)
	appUC := usecase.NewAppUsecase(cfg.App, sqlDB, clock)
	helloUC := usecase.NewHelloUsecase()
	auditUC := usecase.NewAuditUsecase(auditRepo, v)

	//期限切れrefresh tokenの掃除
	cleaner := worker.NewTokenCleaner(rtRepo, cfg.TokenCleanupInterval, clock, metrics.RefreshTokensCleanedTotal, log)
	go cleaner.Run(ctx)

	e, err := server.New(server.Deps{
		Config:   cfg,
		Log:      log,
		Metrics:  metrics,
		Gatherer: registry,
		Tokens:   tokens,
		Users:    userRepo,
		AuthUC:   authUC,
		UserUC:   userUC,
		AppUC:    appUC,
		HelloUC:  helloUC,
		AuditUC:  auditUC,
	})
	if err != nil {
		return fmt.Errorf("server: %w", err)
	}

	log.Info("starting", "env", cfg.App.Env, "version", cfg.App.Version)
	return server.Start(ctx, e, cfg.App.Port, log)
}
