// 管理者ユーザーを1人作るだけのスクリプト。
// すでにいる場合はそのことを表示して正常終了する。
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"usersvc/internal/config"
	"usersvc/internal/domain/model"
	"usersvc/internal/infra/db"
	infraRepo "usersvc/internal/infra/repository"
	"usersvc/internal/logger"
	"usersvc/internal/usecase"
	auth "usersvc/internal/usecase/auth_usecase"
	"usersvc/internal/validator"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "seed failed:", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log, closer, err := logger.New(cfg.Log, cfg.App.Name+"-seed")
	if err != nil {
		return err
	}
	defer closer.Close()

	in := usecase.CreateUserInput{
		Email:    os.Getenv("SEED_ADMIN_EMAIL"),
		UserName: os.Getenv("SEED_ADMIN_USERNAME"),
		Password: os.Getenv("SEED_ADMIN_PASSWORD"),
		Role:     string(model.RoleAdmin),
		Status:   string(model.UserStatusActive),
	}
	if in.Email == "" || in.UserName == "" || in.Password == "" {
		return fmt.Errorf("%w: SEED_ADMIN_EMAIL, SEED_ADMIN_USERNAME and SEED_ADMIN_PASSWORD", config.ErrMissingRequiredEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	gormDB, sqlDB, err := db.Connect(cfg.Database, log)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, sqlDB, log); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	users := infraRepo.NewUserGormRepository(gormDB)
	clock := auth.SystemClock{}
	uc := usecase.NewUserUsecase(
		users,
		infraRepo.NewTxManagerGorm(gormDB),
		auth.NewBcryptPasswordHasher(cfg.Security.BcryptCost),
		validator.New(),
		auth.UUIDGenerator{},
		clock,
		log,
	)

	return seedAdmin(ctx, uc, in, log)
}

type userCreator interface {
	Create(ctx context.Context, actor usecase.Actor, in usecase.CreateUserInput) (*model.User, error)
}

// Createは管理者しか呼べないので、seed用の管理者として振る舞う
func seedAdmin(ctx context.Context, uc userCreator, in usecase.CreateUserInput, log *slog.Logger) error {
	seeder := usecase.Actor{UserID: "seed", Role: model.RoleAdmin}

	user, err := uc.Create(ctx, seeder, in)
	if err != nil {
		var ae *usecase.AppError
		if errors.As(err, &ae) && ae.Kind == usecase.KindConflict {
			log.Info("admin user already exists", "email", in.Email, "userName", in.UserName, "reason", ae.Message)
			return nil
		}
		return err
	}

	log.Info("admin user created", "id", user.ID, "email", user.Email)
	return nil
}
