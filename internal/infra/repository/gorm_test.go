package repository

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"usersvc/internal/domain/model"
	"usersvc/internal/infra/db"
	repo "usersvc/internal/repository"
)

var userColumns = []string{
	"id", "email", "user_name", "password_hash", "status", "role", "last_login_at", "created_at", "updated_at",
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	gormDB, err := db.Open(sqlDB, log, false)
	require.NoError(t, err)
	return gormDB, mock
}

func TestUserRepository_FindByID(t *testing.T) {
	gormDB, mock := newMockDB(t)
	r := NewUserGormRepository(gormDB)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(userColumns).
			AddRow("u-1", "a@example.com", "alice", "hash", "ACTIVE", "USER", nil, now, now)
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).WillReturnRows(rows)

		u, err := r.FindByID(ctx, "u-1")
		require.NoError(t, err)
		assert.Equal(t, "alice", u.UserName)
		assert.Equal(t, model.UserStatusActive, u.Status)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows(userColumns))

		u, err := r.FindByID(ctx, "missing")
		assert.Nil(t, u)
		assert.ErrorIs(t, err, repo.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_DBError(t *testing.T) {
	gormDB, mock := newMockDB(t)
	r := NewUserGormRepository(gormDB)

	boom := errors.New("connection reset")
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).WillReturnError(boom)

	_, err := r.FindByEmail(context.Background(), "a@example.com")
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ExistsByUserName(t *testing.T) {
	gormDB, mock := newMockDB(t)
	r := NewUserGormRepository(gormDB)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE user_name = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := r.ExistsByUserName(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_List(t *testing.T) {
	gormDB, mock := newMockDB(t)
	r := NewUserGormRepository(gormDB)
	now := time.Now().UTC()
	status := model.UserStatusActive

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE email ILIKE \$1 AND status = \$2`).
		WithArgs(`%ali\_ce%`, "ACTIVE").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email ILIKE \$1 AND status = \$2 ORDER BY email DESC,id ASC LIMIT \$3 OFFSET \$4`).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("u-1", "ali_ce@example.com", "alice", "hash", "ACTIVE", "USER", nil, now, now))

	users, total, err := r.List(context.Background(), repo.UserListFilter{
		Email:  "ali_ce",
		Status: &status,
		SortBy: repo.UserSortEmail,
		Desc:   true,
		Limit:  2,
		Offset: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, users, 1)
	assert.Equal(t, "u-1", users[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update_NotFound(t *testing.T) {
	gormDB, mock := newMockDB(t)
	r := NewUserGormRepository(gormDB)

	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := r.Update(context.Background(), &model.User{ID: "missing", UpdatedAt: time.Now()})
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateLastLogin(t *testing.T) {
	gormDB, mock := newMockDB(t)
	r := NewUserGormRepository(gormDB)
	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	// last_login_at以外の列は送らない
	mock.ExpectExec(`UPDATE "users" SET "last_login_at"=\$1 WHERE id = \$2`).
		WithArgs(at, "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, r.UpdateLastLogin(context.Background(), "u-1", at))

	mock.ExpectExec(`UPDATE "users" SET "last_login_at"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, r.UpdateLastLogin(context.Background(), "gone", at), repo.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete(t *testing.T) {
	gormDB, mock := newMockDB(t)
	r := NewUserGormRepository(gormDB)

	mock.ExpectExec(`DELETE FROM "users" WHERE id = \$1`).WithArgs("u-1").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, r.Delete(context.Background(), "u-1"))

	mock.ExpectExec(`DELETE FROM "users" WHERE id = \$1`).WithArgs("u-2").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, r.Delete(context.Background(), "u-2"), repo.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshTokenRepository_RevokeByID(t *testing.T) {
	gormDB, mock := newMockDB(t)
	r := NewRefreshTokenRepository(gormDB)
	now := time.Now().UTC()

	mock.ExpectExec(`UPDATE "refresh_tokens" SET .* WHERE id = \$\d+ AND revoked_at IS NULL`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, r.RevokeByID(context.Background(), "t-1", now))

	// すでに失効済み
	mock.ExpectExec(`UPDATE "refresh_tokens" SET .* WHERE id = \$\d+ AND revoked_at IS NULL`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, r.RevokeByID(context.Background(), "t-1", now), repo.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshTokenRepository_RevokeAllByUserID(t *testing.T) {
	gormDB, mock := newMockDB(t)
	r := NewRefreshTokenRepository(gormDB)

	mock.ExpectExec(`UPDATE "refresh_tokens" SET .* WHERE user_id = \$\d+ AND revoked_at IS NULL`).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := r.RevokeAllByUserID(context.Background(), "u-1", time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshTokenRepository_DeleteExpired(t *testing.T) {
	gormDB, mock := newMockDB(t)
	r := NewRefreshTokenRepository(gormDB)
	now := time.Now().UTC()

	mock.ExpectExec(`DELETE FROM "refresh_tokens" WHERE expires_at <= \$1`).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 7))

	n, err := r.DeleteExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslateError(t *testing.T) {
	assert.Nil(t, translateError(nil))
	assert.ErrorIs(t, translateError(gorm.ErrRecordNotFound), repo.ErrNotFound)

	dup := translateError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_users_email"})
	assert.ErrorIs(t, dup, repo.ErrDuplicate)
	var de *repo.DuplicateError
	require.True(t, errors.As(dup, &de))
	assert.Equal(t, "uq_users_email", de.Constraint)

	other := &pgconn.PgError{Code: "23503"}
	assert.Equal(t, error(other), translateError(other))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_x`, escapeLike("50% off_x"))
}

func TestAuditLogRepository_Create(t *testing.T) {
	gormDB, mock := newMockDB(t)
	r := NewAuditLogGormRepository(gormDB)

	mock.ExpectQuery(`INSERT INTO "audit_logs" .* RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	entry := &model.AuditLog{
		ActorUserID:  "admin-1",
		Action:       model.AuditActionForceLogout,
		TargetUserID: "u-1",
		AfterJSON:    `{"revoked":2}`,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, r.Create(context.Background(), entry))
	assert.Equal(t, int64(42), entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditLogRepository_List(t *testing.T) {
	gormDB, mock := newMockDB(t)
	r := NewAuditLogGormRepository(gormDB)
	now := time.Now().UTC()
	action := model.AuditActionDeleteUser

	mock.ExpectQuery(`SELECT count\(\*\) FROM "audit_logs" WHERE target_user_id = \$1 AND action = \$2`).
		WithArgs("u-1", "DELETE_USER").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM "audit_logs" WHERE target_user_id = \$1 AND action = \$2 ORDER BY id DESC LIMIT \$3`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "actor_user_id", "action", "target_user_id", "before_json", "after_json", "created_at",
		}).AddRow(7, "admin-1", "DELETE_USER", "u-1", "", "", now))

	logs, total, err := r.List(context.Background(), repo.AuditLogFilter{
		TargetUserID: "u-1",
		Action:       &action,
		Limit:        10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, logs, 1)
	assert.Equal(t, model.AuditActionDeleteUser, logs[0].Action)
	assert.Empty(t, logs[0].BeforeJSON)
	assert.NoError(t, mock.ExpectationsWereMet())
}
