package graphql

import (
	"net/http"

	gql "github.com/graphql-go/graphql"
	gqlhandler "github.com/graphql-go/handler"
	"github.com/labstack/echo/v4"

	"usersvc/internal/middleware"
)

// /graphql のHTTP
type Handler struct {
	h      *gqlhandler.Handler
	tokens middleware.AccessTokenVerifier
}

// playgroundはGET /graphqlをブラウザで開いたときのUI
func NewHandler(schema gql.Schema, tokens middleware.AccessTokenVerifier, playground bool) *Handler {
	return &Handler{
		h: gqlhandler.New(&gqlhandler.Config{
			Schema:     &schema,
			Pretty:     true,
			Playground: playground,
		}),
		tokens: tokens,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// 未ログインでも叩ける（register/loginがある）。保護はresolver側
	e.Match([]string{http.MethodGet, http.MethodPost}, "/graphql", h.serve, middleware.OptionalAuth(h.tokens))
}

func (h *Handler) serve(c echo.Context) error {
	req := c.Request()
	ctx := withClientInfo(req.Context(), req.UserAgent(), c.RealIP())
	h.h.ServeHTTP(c.Response(), req.WithContext(ctx))
	return nil
}
