package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	repo "usersvc/internal/repository"
	"usersvc/internal/usecase"
)

// JWTが有効でも、削除済み・停止中のユーザーは通さない。
func ActiveUserGuard(users repo.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//AuthJWTが入れたclaimsを取得する
			claims, ok := ClaimsFrom(c)
			if !ok {
				return usecase.NewUnauthorized("authentication required")
			}

			//DBから最新のuserを取得する
			user, err := users.FindByID(c.Request().Context(), claims.UserID())
			if err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return usecase.NewUnauthorized("user no longer exists")
				}
				return usecase.NewDatabase(err)
			}

			if !user.CanAuthenticate() {
				return usecase.NewForbidden("user is not active")
			}

			c.Set(CtxUserKey, user)
			return next(c)
		}
	}
}
