package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"usersvc/internal/config"
	"usersvc/internal/domain/model"
	"usersvc/internal/repository/mocks"
	"usersvc/internal/usecase"
	auth "usersvc/internal/usecase/auth_usecase"
	"usersvc/internal/validator"
)

// =====================
// fixture
// =====================

var testNow = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

// 連番のUUID
type seqIDs struct{ n int }

func (g *seqIDs) NewID() string {
	g.n++
	return "00000000-0000-4000-8000-" + strings.Repeat("0", 11) + string(rune('a'+g.n-1))
}

type fixture struct {
	users  *mocks.MockUserRepository
	tokens *mocks.MockRefreshTokenRepository
	tx     *mocks.TxManager
	clock  *auth.FixedClock
	ids    *seqIDs
	hasher *auth.BcryptPasswordHasher
	tokSvc *auth.TokenService

	authUC *usecase.AuthUsecase
	userUC *usecase.UserUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		users:  &mocks.MockUserRepository{},
		tokens: &mocks.MockRefreshTokenRepository{},
		clock:  &auth.FixedClock{T: testNow},
		ids:    &seqIDs{},
		hasher: auth.NewBcryptPasswordHasher(4),
	}
	f.tx = mocks.NewTxManager(f.users, f.tokens)
	f.tokSvc = auth.NewTokenService(config.JWTConfig{
		AccessSecret:  strings.Repeat("a", 32),
		RefreshSecret: strings.Repeat("r", 32),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		Issuer:        "user-service",
	}, f.clock, f.ids)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	v := validator.New()
	f.authUC = usecase.NewAuthUsecase(f.users, f.tokens, f.tx, f.hasher, f.tokSvc, v, f.ids, f.clock, log)
	f.userUC = usecase.NewUserUsecase(f.users, f.tx, f.hasher, v, f.ids, f.clock, log)

	t.Cleanup(func() {
		f.users.AssertExpectations(t)
		f.tokens.AssertExpectations(t)
	})
	return f
}

func (f *fixture) activeUser(t *testing.T, id, password string) *model.User {
	t.Helper()
	hashed, err := f.hasher.Hash(password)
	require.NoError(t, err)
	return &model.User{
		ID:           id,
		Email:        "alice@example.com",
		UserName:     "alice",
		PasswordHash: hashed,
		Status:       model.UserStatusActive,
		Role:         model.RoleUser,
		CreatedAt:    testNow.Add(-time.Hour),
		UpdatedAt:    testNow.Add(-time.Hour),
	}
}

func requireKind(t *testing.T, err error, kind usecase.ErrorKind) *usecase.AppError {
	t.Helper()
	require.Error(t, err)
	var ae *usecase.AppError
	require.True(t, errors.As(err, &ae), "want AppError, got %T: %v", err, err)
	require.Equal(t, kind, ae.Kind, ae.Message)
	return ae
}

var ctx = context.Background()

const (
	userID  = "11111111-1111-4111-8111-111111111111"
	otherID = "22222222-2222-4222-8222-222222222222"
)
