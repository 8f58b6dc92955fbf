package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usersvc/internal/config"
	"usersvc/internal/usecase"
	auth "usersvc/internal/usecase/auth_usecase"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestAppUsecase_Info(t *testing.T) {
	clock := &auth.FixedClock{T: testNow}
	uc := usecase.NewAppUsecase(config.AppConfig{
		Name:        "user-service",
		Version:     "1.2.3",
		Description: "users",
		Env:         "test",
	}, pingerFunc(func(context.Context) error { return nil }), clock)

	clock.Advance(90 * time.Second)
	info := uc.Info()
	assert.Equal(t, "user-service", info.Name)
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, "test", info.Environment)
	assert.Equal(t, testNow, info.StartedAt)
	assert.Equal(t, 90.0, info.Uptime)
}

func TestAppUsecase_Health(t *testing.T) {
	clock := &auth.FixedClock{T: testNow}

	ok := usecase.NewAppUsecase(config.AppConfig{}, pingerFunc(func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return nil
	}), clock).Health(context.Background())
	assert.True(t, ok.Healthy())
	assert.Equal(t, "ok", ok.Database.Status)
	assert.Equal(t, testNow, ok.Timestamp)
	assert.GreaterOrEqual(t, ok.Database.LatencyMs, 0.0)

	bad := usecase.NewAppUsecase(config.AppConfig{}, pingerFunc(func(context.Context) error {
		return errors.New("connection refused")
	}), clock).Health(context.Background())
	assert.False(t, bad.Healthy())
	assert.Equal(t, "error", bad.Status)
	assert.Equal(t, "connection refused", bad.Database.Error)
}

func TestHelloUsecase_Greet(t *testing.T) {
	uc := usecase.NewHelloUsecase()

	assert.Equal(t, "Hello, World!", uc.Greet(""))
	assert.Equal(t, "Hello, World!", uc.Greet("   "))
	assert.Equal(t, "Hello, Gopher!", uc.Greet(" Gopher "))
	assert.Equal(t, "Hello, "+strings.Repeat("あ", 100)+"!", uc.Greet(strings.Repeat("あ", 150)))
}

func TestNewPaginationMeta(t *testing.T) {
	tests := []struct {
		page, limit int
		total       int64
		want        usecase.PaginationMeta
	}{
		{1, 10, 0, usecase.PaginationMeta{Page: 1, Limit: 10, Total: 0, TotalPages: 0}},
		{1, 10, 10, usecase.PaginationMeta{Page: 1, Limit: 10, Total: 10, TotalPages: 1}},
		{1, 10, 11, usecase.PaginationMeta{Page: 1, Limit: 10, Total: 11, TotalPages: 2, HasNext: true}},
		{2, 10, 11, usecase.PaginationMeta{Page: 2, Limit: 10, Total: 11, TotalPages: 2, HasPrev: true}},
		{5, 3, 100, usecase.PaginationMeta{Page: 5, Limit: 3, Total: 100, TotalPages: 34, HasNext: true, HasPrev: true}},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("%d/%d/%d", tc.page, tc.limit, tc.total), func(t *testing.T) {
			assert.Equal(t, tc.want, usecase.NewPaginationMeta(tc.page, tc.limit, tc.total))
		})
	}
}

func TestAsAppError(t *testing.T) {
	assert.Nil(t, usecase.AsAppError(nil))

	nf := usecase.NewNotFound("user")
	assert.Same(t, nf, usecase.AsAppError(fmt.Errorf("wrapped: %w", nf)))

	unknown := usecase.AsAppError(errors.New("boom"))
	require.NotNil(t, unknown)
	assert.Equal(t, 500, unknown.Status)
	assert.Equal(t, "INTERNAL_ERROR", unknown.Code)

	ext := usecase.NewExternal("mailer", errors.New("timeout"))
	assert.Equal(t, 502, ext.Status)
	assert.Equal(t, "EXTERNAL_SERVICE_ERROR", ext.Extensions()["code"])

	v := usecase.NewValidation("validation failed", map[string]string{"email": "is required"})
	assert.Equal(t, map[string]string{"email": "is required"}, v.Extensions()["details"])
}
