package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"usersvc/internal/usecase"
	auth "usersvc/internal/usecase/auth_usecase"
)

const (
	CtxClaimsKey = "claims" // *auth.Claims
	CtxUserKey   = "user"   // *model.User（ActiveUserGuardが入れる）
)

// アクセストークンの検証だけする約束
type AccessTokenVerifier interface {
	VerifyAccess(token string) (*auth.Claims, error)
}

// bearerAuth用のJWT検証ミドルウェア。
// claimsはecho.Contextとrequestのcontextの両方に入れる。
func AuthJWT(tokens AccessTokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawToken, ok := bearerToken(c)
			if !ok {
				return usecase.NewUnauthorized("missing bearer token")
			}

			claims, err := tokens.VerifyAccess(rawToken)
			if err != nil {
				return usecase.NewUnauthorized("invalid or expired access token")
			}

			setClaims(c, claims)
			return next(c)
		}
	}
}

// トークンがあれば検証してclaimsを載せる。なくても不正でも通す（GraphQL用）
func OptionalAuth(tokens AccessTokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if rawToken, ok := bearerToken(c); ok {
				if claims, err := tokens.VerifyAccess(rawToken); err == nil {
					setClaims(c, claims)
				}
			}
			return next(c)
		}
	}
}

// ClaimsFromはAuthJWTが入れたclaimsを取り出す
func ClaimsFrom(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(CtxClaimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}

func setClaims(c echo.Context, claims *auth.Claims) {
	c.Set(CtxClaimsKey, claims)
	req := c.Request()
	c.SetRequest(req.WithContext(auth.WithClaims(req.Context(), claims)))
}

// Authorization: Bearer <token>
func bearerToken(c echo.Context) (string, bool) {
	authz := c.Request().Header.Get(echo.HeaderAuthorization)
	if authz == "" {
		return "", false
	}
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
