package middleware

import (
	"github.com/labstack/echo/v4"

	"usersvc/internal/domain/model"
	"usersvc/internal/usecase"
)

//roleがADMINかどうかを確認します。
//ActiveUserGuardが読み直したuserがあればそちらのroleを使う（降格は即時反映）

func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				return usecase.NewUnauthorized("authentication required")
			}

			isAdmin := claims.IsAdmin()
			if u, ok := c.Get(CtxUserKey).(*model.User); ok {
				isAdmin = u.IsAdmin()
			}

			//USERは拒否、ADMINだけ許可
			if !isAdmin {
				return usecase.NewForbidden("admin role required")
			}

			return next(c)
		}
	}
}
