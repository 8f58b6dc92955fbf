package middleware_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"usersvc/internal/config"
	"usersvc/internal/domain/model"
	"usersvc/internal/handler"
	"usersvc/internal/logger"
	"usersvc/internal/middleware"
	"usersvc/internal/observability"
	repo "usersvc/internal/repository"
	"usersvc/internal/repository/mocks"
	auth "usersvc/internal/usecase/auth_usecase"
)

// =====================
// helper
// =====================

const testUserID = "11111111-1111-4111-8111-111111111111"

type errorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id"`
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return e
}

func newTokenService() *auth.TokenService {
	return auth.NewTokenService(config.JWTConfig{
		AccessSecret:  strings.Repeat("a", 32),
		RefreshSecret: strings.Repeat("r", 32),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    time.Hour,
		Issuer:        "user-service",
	}, auth.SystemClock{}, auth.UUIDGenerator{})
}

func accessToken(t *testing.T, svc *auth.TokenService, role model.Role) string {
	t.Helper()
	tok, err := svc.IssueAccess(&model.User{ID: testUserID, Email: "alice@example.com", Role: role}, time.Now())
	require.NoError(t, err)
	return tok.Token
}

func do(e *echo.Echo, method, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// claimsの中身を返すだけのハンドラ
func claimsEcho(c echo.Context) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return c.String(http.StatusOK, "anonymous")
	}
	// requestのcontextにも入っていること
	fromCtx, ok := auth.ClaimsFrom(c.Request().Context())
	if !ok || fromCtx.UserID() != claims.UserID() {
		return c.String(http.StatusInternalServerError, "ctx mismatch")
	}
	return c.String(http.StatusOK, claims.UserID()+":"+string(claims.Role))
}

// =====================
// AuthJWT
// =====================

func TestAuthJWT(t *testing.T) {
	svc := newTokenService()
	e := newEcho()
	e.GET("/private", claimsEcho, middleware.AuthJWT(svc))

	t.Run("ヘッダなしは401", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/private", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "UNAUTHORIZED", body.Code)
		assert.Equal(t, "missing bearer token", body.Error)
	})

	t.Run("Bearer以外のスキームは401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set(echo.HeaderAuthorization, "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("署名が違うトークンは401", func(t *testing.T) {
		other := auth.NewTokenService(config.JWTConfig{
			AccessSecret:  strings.Repeat("x", 32),
			RefreshSecret: strings.Repeat("y", 32),
			AccessTTL:     time.Minute,
			RefreshTTL:    time.Hour,
			Issuer:        "user-service",
		}, auth.SystemClock{}, auth.UUIDGenerator{})

		rec := do(e, http.MethodGet, "/private", accessToken(t, other, model.RoleUser))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid or expired access token", decodeError(t, rec).Error)
	})

	t.Run("有効なトークンはclaimsが入る", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/private", accessToken(t, svc, model.RoleUser))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, testUserID+":USER", rec.Body.String())
	})
}

func TestOptionalAuth(t *testing.T) {
	svc := newTokenService()
	e := newEcho()
	e.GET("/graphql", claimsEcho, middleware.OptionalAuth(svc))

	rec := do(e, http.MethodGet, "/graphql", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())

	rec = do(e, http.MethodGet, "/graphql", "garbage")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())

	rec = do(e, http.MethodGet, "/graphql", accessToken(t, svc, model.RoleAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testUserID+":ADMIN", rec.Body.String())
}

// =====================
// AdminRoleGuard / ActiveUserGuard
// =====================

func TestAdminRoleGuard(t *testing.T) {
	svc := newTokenService()
	e := newEcho()
	e.GET("/admin", claimsEcho, middleware.AuthJWT(svc), middleware.AdminRoleGuard())

	rec := do(e, http.MethodGet, "/admin", accessToken(t, svc, model.RoleUser))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", decodeError(t, rec).Code)

	rec = do(e, http.MethodGet, "/admin", accessToken(t, svc, model.RoleAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRoleGuard_WithoutClaims(t *testing.T) {
	e := newEcho()
	e.GET("/admin", claimsEcho, middleware.AdminRoleGuard())

	rec := do(e, http.MethodGet, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestActiveUserGuard(t *testing.T) {
	svc := newTokenService()

	cases := []struct {
		name     string
		user     *model.User
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "ACTIVEなら通す",
			user:     &model.User{ID: testUserID, Status: model.UserStatusActive, Role: model.RoleUser},
			wantCode: http.StatusOK,
		},
		{
			name:     "削除済みは401",
			err:      repo.ErrNotFound,
			wantCode: http.StatusUnauthorized,
			wantMsg:  "user no longer exists",
		},
		{
			name:     "BLOCKEDは403",
			user:     &model.User{ID: testUserID, Status: model.UserStatusBlocked, Role: model.RoleUser},
			wantCode: http.StatusForbidden,
			wantMsg:  "user is not active",
		},
		{
			name:     "DBエラーは500",
			err:      assert.AnError,
			wantCode: http.StatusInternalServerError,
			wantMsg:  "database error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := &mocks.MockUserRepository{}
			users.On("FindByID", mock.Anything, testUserID).Return(tc.user, tc.err).Once()

			e := newEcho()
			e.GET("/me", func(c echo.Context) error {
				u, ok := c.Get(middleware.CtxUserKey).(*model.User)
				require.True(t, ok)
				return c.String(http.StatusOK, u.ID)
			}, middleware.AuthJWT(svc), middleware.ActiveUserGuard(users))

			rec := do(e, http.MethodGet, "/me", accessToken(t, svc, model.RoleUser))
			assert.Equal(t, tc.wantCode, rec.Code)
			if tc.wantMsg != "" {
				assert.Equal(t, tc.wantMsg, decodeError(t, rec).Error)
			} else {
				assert.Equal(t, testUserID, rec.Body.String())
			}
			users.AssertExpectations(t)
		})
	}
}

func TestAdminRoleGuard_UsesReloadedRole(t *testing.T) {
	svc := newTokenService()

	cases := []struct {
		name      string
		tokenRole model.Role
		dbRole    model.Role
		wantCode  int
	}{
		{"降格されたADMINは403", model.RoleAdmin, model.RoleUser, http.StatusForbidden},
		{"昇格したUSERは通す", model.RoleUser, model.RoleAdmin, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := &mocks.MockUserRepository{}
			users.On("FindByID", mock.Anything, testUserID).
				Return(&model.User{ID: testUserID, Status: model.UserStatusActive, Role: tc.dbRole}, nil).Once()

			e := newEcho()
			e.GET("/admin", claimsEcho,
				middleware.AuthJWT(svc), middleware.ActiveUserGuard(users), middleware.AdminRoleGuard())

			rec := do(e, http.MethodGet, "/admin", accessToken(t, svc, tc.tokenRole))
			assert.Equal(t, tc.wantCode, rec.Code)
			users.AssertExpectations(t)
		})
	}
}

// =====================
// RequestID / Prometheus / AuthRateLimit
// =====================

func TestRequestID(t *testing.T) {
	e := newEcho()
	e.Use(middleware.RequestID())
	e.GET("/id", func(c echo.Context) error {
		return c.String(http.StatusOK, logger.RequestIDFrom(c.Request().Context()))
	})
	e.GET("/fail", func(c echo.Context) error {
		return echo.ErrNotFound
	})

	t.Run("X-Request-IDを引き継ぐ", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/id", nil)
		req.Header.Set(echo.HeaderXRequestID, "req-123")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, "req-123", rec.Body.String())
		assert.Equal(t, "req-123", rec.Header().Get(echo.HeaderXRequestID))
	})

	t.Run("なければ新しく振る", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/id", "")
		id := rec.Header().Get(echo.HeaderXRequestID)
		assert.Len(t, id, 36)
		assert.Equal(t, id, rec.Body.String())
	})

	t.Run("エラーレスポンスにも載る", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/fail", nil)
		req.Header.Set(echo.HeaderXRequestID, "req-err")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "NOT_FOUND", body.Code)
		assert.Equal(t, "req-err", body.RequestID)
	})
}

func TestPrometheus(t *testing.T) {
	m := observability.NewMetrics(prometheus.NewRegistry())
	svc := newTokenService()

	e := newEcho()
	e.Use(middleware.Prometheus(m))
	e.GET("/users/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.GET("/private", claimsEcho, middleware.AuthJWT(svc))
	e.GET("/metrics", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	do(e, http.MethodGet, "/users/a", "")
	do(e, http.MethodGet, "/users/b", "")
	do(e, http.MethodGet, "/private", "")
	do(e, http.MethodGet, "/metrics", "")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/users/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/private", "401")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.HTTPRequestsTotal))
}

func TestAuthRateLimit(t *testing.T) {
	e := newEcho()
	e.POST("/users/login", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, middleware.AuthRateLimit(1))

	first := do(e, http.MethodPost, "/users/login", "")
	assert.Equal(t, http.StatusOK, first.Code)

	second := do(e, http.MethodPost, "/users/login", "")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", decodeError(t, second).Code)
}
