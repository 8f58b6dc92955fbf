package usecase_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"usersvc/internal/domain/model"
	repo "usersvc/internal/repository"
	"usersvc/internal/repository/mocks"
	"usersvc/internal/usecase"
	"usersvc/internal/validator"
)

var (
	admin = usecase.Actor{UserID: otherID, Role: model.RoleAdmin}
	self  = usecase.Actor{UserID: userID, Role: model.RoleUser}
)

func strPtr(s string) *string { return &s }

func TestUserUsecase_Create(t *testing.T) {
	in := usecase.CreateUserInput{
		Email:    "bob@example.com",
		UserName: "bob",
		Password: "passw0rd",
		Role:     "admin",
		Status:   "inactive",
	}

	t.Run("admin only", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.userUC.Create(ctx, self, in)
		requireKind(t, err, usecase.KindForbidden)
	})

	t.Run("role and status", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("ExistsByEmail", mock.Anything, "bob@example.com").Return(false, nil)
		f.users.On("ExistsByUserName", mock.Anything, "bob").Return(false, nil)
		f.users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		u, err := f.userUC.Create(ctx, admin, in)
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, u.Role)
		assert.Equal(t, model.UserStatusInactive, u.Status)

		require.Len(t, f.tx.AuditRepo.Entries, 1)
		entry := f.tx.AuditRepo.Entries[0]
		assert.Equal(t, model.AuditActionCreateUser, entry.Action)
		assert.Equal(t, u.ID, entry.TargetUserID)
		assert.Empty(t, entry.BeforeJSON)
		assert.JSONEq(t, `{"email":"bob@example.com","userName":"bob","role":"ADMIN","status":"INACTIVE"}`, entry.AfterJSON)
		assert.NotContains(t, entry.AfterJSON, u.PasswordHash)
	})
}

func TestUserUsecase_GetByID(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("FindByID", mock.Anything, userID).Return(nil, repo.ErrNotFound)

		_, err := f.userUC.GetByID(ctx, userID)
		ae := requireKind(t, err, usecase.KindNotFound)
		assert.Equal(t, "user not found", ae.Message)
	})

	t.Run("malformed id", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.userUC.GetByID(ctx, "42")
		requireKind(t, err, usecase.KindValidation)
	})
}

func TestUserUsecase_List(t *testing.T) {
	f := newFixture(t)
	status := model.UserStatusActive
	want := repo.UserListFilter{
		Email:  "ali",
		Status: &status,
		SortBy: repo.UserSortUserName,
		Desc:   false,
		Limit:  10,
		Offset: 20,
	}
	f.users.On("List", mock.Anything, want).Return([]model.User{{ID: userID}}, int64(25), nil)

	res, err := f.userUC.List(ctx, usecase.ListUsersInput{
		Page:   3,
		Email:  " ali ",
		Status: "active",
		SortBy: "userName",
		Order:  "asc",
	})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
	assert.Equal(t, usecase.PaginationMeta{
		Page: 3, Limit: 10, Total: 25, TotalPages: 3, HasNext: false, HasPrev: true,
	}, res.Meta)
}

func TestUserUsecase_List_PageOutOfRange(t *testing.T) {
	f := newFixture(t)

	// オフセットが負に溢れるページはリポジトリまで行かせない
	_, err := f.userUC.List(ctx, usecase.ListUsersInput{Page: math.MaxInt64 / 50, Limit: 100})
	ae := usecase.AsAppError(err)
	assert.Equal(t, usecase.KindValidation, ae.Kind)
	assert.Contains(t, ae.Details, "page")
	f.users.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestUserUsecase_List_DefaultsNewestFirst(t *testing.T) {
	f := newFixture(t)
	f.users.On("List", mock.Anything, mock.MatchedBy(func(lf repo.UserListFilter) bool {
		return lf.SortBy == repo.UserSortCreatedAt && lf.Desc && lf.Limit == 10 && lf.Offset == 0
	})).Return(nil, int64(0), nil)

	res, err := f.userUC.List(ctx, usecase.ListUsersInput{})
	require.NoError(t, err)
	assert.NotNil(t, res.Items)
	assert.Equal(t, 0, res.Meta.TotalPages)
	assert.False(t, res.Meta.HasNext)
}

func TestUserUsecase_Update(t *testing.T) {
	t.Run("other user is forbidden", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.userUC.Update(ctx, self, otherID, usecase.UpdateUserInput{UserName: strPtr("bobby")})
		requireKind(t, err, usecase.KindForbidden)
	})

	t.Run("non admin cannot change role", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.userUC.Update(ctx, self, userID, usecase.UpdateUserInput{Role: strPtr("ADMIN")})
		requireKind(t, err, usecase.KindForbidden)
	})

	t.Run("email conflict", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("FindByID", mock.Anything, userID).Return(f.activeUser(t, userID, "passw0rd"), nil)
		f.users.On("ExistsByEmail", mock.Anything, "taken@example.com").Return(true, nil)

		_, err := f.userUC.Update(ctx, self, userID, usecase.UpdateUserInput{Email: strPtr("Taken@example.com")})
		requireKind(t, err, usecase.KindConflict)
	})

	t.Run("same email skips check", func(t *testing.T) {
		f := newFixture(t)
		u := f.activeUser(t, userID, "passw0rd")
		f.users.On("FindByID", mock.Anything, userID).Return(u, nil)
		f.users.On("Update", mock.Anything, u).Return(nil)

		got, err := f.userUC.Update(ctx, self, userID, usecase.UpdateUserInput{Email: strPtr("alice@example.com")})
		require.NoError(t, err)
		assert.Equal(t, testNow, got.UpdatedAt)
		assert.Empty(t, f.tx.AuditRepo.Entries)
	})

	t.Run("admin changes status", func(t *testing.T) {
		f := newFixture(t)
		u := f.activeUser(t, userID, "passw0rd")
		f.users.On("FindByID", mock.Anything, userID).Return(u, nil)
		f.users.On("Update", mock.Anything, u).Return(nil)

		got, err := f.userUC.Update(ctx, admin, userID, usecase.UpdateUserInput{Status: strPtr("BLOCKED")})
		require.NoError(t, err)
		assert.Equal(t, model.UserStatusBlocked, got.Status)

		require.Len(t, f.tx.AuditRepo.Entries, 1)
		entry := f.tx.AuditRepo.Entries[0]
		assert.Equal(t, model.AuditActionUpdateUser, entry.Action)
		assert.Contains(t, entry.BeforeJSON, `"status":"ACTIVE"`)
		assert.Contains(t, entry.AfterJSON, `"status":"BLOCKED"`)
	})
}

func TestUserUsecase_ChangePassword(t *testing.T) {
	t.Run("revokes all tokens", func(t *testing.T) {
		f := newFixture(t)
		u := f.activeUser(t, userID, "passw0rd")
		f.users.On("FindByID", mock.Anything, userID).Return(u, nil)
		f.users.On("Update", mock.Anything, u).Return(nil)
		f.tokens.On("RevokeAllByUserID", mock.Anything, userID, testNow).Return(int64(2), nil)

		err := f.userUC.ChangePassword(ctx, userID, usecase.ChangePasswordInput{
			CurrentPassword: "passw0rd",
			NewPassword:     "newpassw0rd",
		})
		require.NoError(t, err)
		assert.True(t, f.hasher.Verify("newpassw0rd", u.PasswordHash))
		assert.Equal(t, 1, f.tx.Calls)
	})

	t.Run("wrong current password", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("FindByID", mock.Anything, userID).Return(f.activeUser(t, userID, "passw0rd"), nil)

		err := f.userUC.ChangePassword(ctx, userID, usecase.ChangePasswordInput{
			CurrentPassword: "nope12345",
			NewPassword:     "newpassw0rd",
		})
		requireKind(t, err, usecase.KindUnauthorized)
	})

	t.Run("same password", func(t *testing.T) {
		f := newFixture(t)
		err := f.userUC.ChangePassword(ctx, userID, usecase.ChangePasswordInput{
			CurrentPassword: "passw0rd",
			NewPassword:     "passw0rd",
		})
		requireKind(t, err, usecase.KindValidation)
	})
}

func TestUserUsecase_Delete(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.tokens.On("RevokeAllByUserID", mock.Anything, userID, testNow).Return(int64(0), nil)
		f.users.On("Delete", mock.Anything, userID).Return(repo.ErrNotFound)

		err := f.userUC.Delete(ctx, admin, userID)
		requireKind(t, err, usecase.KindNotFound)
	})

	t.Run("self", func(t *testing.T) {
		f := newFixture(t)
		f.tokens.On("RevokeAllByUserID", mock.Anything, userID, testNow).Return(int64(1), nil)
		f.users.On("Delete", mock.Anything, userID).Return(nil)

		require.NoError(t, f.userUC.Delete(ctx, self, userID))
		assert.Equal(t, 1, f.tx.Calls)
		assert.Empty(t, f.tx.AuditRepo.Entries)
	})

	t.Run("admin deletes another user", func(t *testing.T) {
		f := newFixture(t)
		f.tokens.On("RevokeAllByUserID", mock.Anything, userID, testNow).Return(int64(0), nil)
		f.users.On("Delete", mock.Anything, userID).Return(nil)

		require.NoError(t, f.userUC.Delete(ctx, admin, userID))
		require.Len(t, f.tx.AuditRepo.Entries, 1)
		assert.Equal(t, model.AuditActionDeleteUser, f.tx.AuditRepo.Entries[0].Action)
		assert.Equal(t, otherID, f.tx.AuditRepo.Entries[0].ActorUserID)
	})

	t.Run("other user", func(t *testing.T) {
		f := newFixture(t)
		requireKind(t, f.userUC.Delete(ctx, self, otherID), usecase.KindForbidden)
	})
}

func TestAuditUsecase_List(t *testing.T) {
	newUC := func(t *testing.T) (*usecase.AuditUsecase, *mocks.AuditLogStore) {
		store := &mocks.AuditLogStore{}
		for i, a := range []model.AuditAction{
			model.AuditActionCreateUser,
			model.AuditActionForceLogout,
			model.AuditActionCreateUser,
		} {
			require.NoError(t, store.Create(ctx, &model.AuditLog{
				ActorUserID:  otherID,
				Action:       a,
				TargetUserID: userID,
				CreatedAt:    testNow.Add(time.Duration(i) * time.Minute),
			}))
		}
		return usecase.NewAuditUsecase(store, validator.New()), store
	}

	t.Run("admin only", func(t *testing.T) {
		uc, _ := newUC(t)
		_, err := uc.List(ctx, self, usecase.ListAuditLogsInput{})
		requireKind(t, err, usecase.KindForbidden)
	})

	t.Run("filters by action newest first", func(t *testing.T) {
		uc, _ := newUC(t)
		list, err := uc.List(ctx, admin, usecase.ListAuditLogsInput{Action: "create_user", Limit: 1})
		require.NoError(t, err)
		require.Len(t, list.Items, 1)
		assert.Equal(t, int64(3), list.Items[0].ID)
		assert.Equal(t, int64(2), list.Meta.Total)
		assert.True(t, list.Meta.HasNext)
	})

	t.Run("bad action", func(t *testing.T) {
		uc, _ := newUC(t)
		_, err := uc.List(ctx, admin, usecase.ListAuditLogsInput{Action: "nope"})
		requireKind(t, err, usecase.KindValidation)
	})

	t.Run("store error", func(t *testing.T) {
		uc, store := newUC(t)
		store.Err = errors.New("timeout")
		_, err := uc.List(ctx, admin, usecase.ListAuditLogsInput{})
		requireKind(t, err, usecase.KindDatabase)
	})
}
