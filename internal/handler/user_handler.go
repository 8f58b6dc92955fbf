package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"usersvc/internal/config"
	"usersvc/internal/domain/model"
	"usersvc/internal/middleware"
	"usersvc/internal/observability"
	repo "usersvc/internal/repository"
	"usersvc/internal/usecase"
)

const (
	RefreshCookieName = "refresh_token"
	refreshCookiePath = "/users"
)

type UserHandler struct {
	authUC  *usecase.AuthUsecase
	userUC  *usecase.UserUsecase
	tokens  middleware.AccessTokenVerifier
	users   repo.UserRepository
	metrics *observability.Metrics

	refreshTTL   time.Duration
	cookieSecure bool
	rateLimit    float64
}

// DIコンストラクタ
func NewUserHandler(
	cfg config.Config,
	authUC *usecase.AuthUsecase,
	userUC *usecase.UserUsecase,
	tokens middleware.AccessTokenVerifier,
	users repo.UserRepository,
	metrics *observability.Metrics,
) *UserHandler {
	return &UserHandler{
		authUC:       authUC,
		userUC:       userUC,
		tokens:       tokens,
		users:        users,
		metrics:      metrics,
		refreshTTL:   cfg.JWT.RefreshTTL,
		cookieSecure: cfg.App.CookieSecure,
		rateLimit:    cfg.Security.AuthRateLimit,
	}
}

func (h *UserHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/users")

	// 未ログインで叩ける認証系はIPごとに制限
	limited := h.rateLimiter()
	g.POST("/register", h.Register, limited)
	g.POST("/login", h.Login, limited)
	g.POST("/refresh-token", h.RefreshToken, limited)
	g.POST("/logout", h.Logout)

	// ここから下はJWT必須 + ACTIVEなユーザーのみ
	authed := []echo.MiddlewareFunc{
		middleware.AuthJWT(h.tokens),
		middleware.ActiveUserGuard(h.users),
	}
	admin := append(authed[:len(authed):len(authed)], middleware.AdminRoleGuard())

	g.POST("/logout-all", h.LogoutAll, authed...)
	g.GET("/me", h.Me, authed...)
	g.PATCH("/me", h.UpdateMe, authed...)
	g.PATCH("/me/password", h.ChangePassword, authed...)

	g.GET("", h.List, admin...)
	g.POST("", h.Create, admin...)
	g.GET("/:id", h.Get, authed...)
	g.PATCH("/:id", h.Update, authed...)
	g.DELETE("/:id", h.Delete, authed...)
	g.POST("/:id/force-logout", h.ForceLogout, admin...)
}

func (h *UserHandler) rateLimiter() echo.MiddlewareFunc {
	if h.rateLimit <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return middleware.AuthRateLimit(h.rateLimit)
}

// Register godoc
// @Summary  Register a new user
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body  body      usecase.RegisterInput  true  "registration"
// @Success  201   {object}  model.User
// @Failure  400   {object}  ErrorResponse
// @Failure  409   {object}  ErrorResponse
// @Failure  429   {object}  ErrorResponse
// @Router   /users/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var in usecase.RegisterInput
	if err := c.Bind(&in); err != nil {
		return writeError(c, badBody(err))
	}

	user, err := h.authUC.Register(c.Request().Context(), in)
	h.metrics.AuthEvent("register", err)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary      Log in with email or userName
// @Description  Returns an access/refresh pair and sets the refresh token as an HttpOnly cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      usecase.LoginInput  true  "credentials"
// @Success      200   {object}  usecase.AuthResult
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      429   {object}  ErrorResponse
// @Router       /users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var in usecase.LoginInput
	if err := c.Bind(&in); err != nil {
		return writeError(c, badBody(err))
	}

	res, err := h.authUC.Login(c.Request().Context(), in, c.Request().UserAgent(), c.RealIP())
	h.metrics.AuthEvent("login", err)
	if err != nil {
		return writeError(c, err)
	}

	h.setRefreshCookie(c, res.Tokens.RefreshToken)
	return c.JSON(http.StatusOK, res)
}

// RefreshToken godoc
// @Summary      Rotate the refresh token
// @Description  Reads the token from the body, falling back to the refresh_token cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      usecase.RefreshInput  false  "refresh token"
// @Success      200   {object}  usecase.AuthResult
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Router       /users/refresh-token [post]
func (h *UserHandler) RefreshToken(c echo.Context) error {
	token, err := h.refreshTokenFrom(c)
	if err != nil {
		return writeError(c, err)
	}

	res, err := h.authUC.Refresh(c.Request().Context(), token, c.Request().UserAgent(), c.RealIP())
	h.metrics.AuthEvent("refresh", err)
	if err != nil {
		return writeError(c, err)
	}

	h.setRefreshCookie(c, res.Tokens.RefreshToken)
	return c.JSON(http.StatusOK, res)
}

// Logout godoc
// @Summary  Revoke one refresh token
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body  body      usecase.RefreshInput  false  "refresh token"
// @Success  200   {object}  MessageResponse
// @Failure  401   {object}  ErrorResponse
// @Router   /users/logout [post]
func (h *UserHandler) Logout(c echo.Context) error {
	token, err := h.refreshTokenFrom(c)
	if err != nil {
		return writeError(c, err)
	}

	err = h.authUC.Logout(c.Request().Context(), token)
	h.metrics.AuthEvent("logout", err)
	if err != nil {
		return writeError(c, err)
	}

	h.clearRefreshCookie(c)
	return c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}

type logoutAllResponse struct {
	Message string `json:"message"`
	Revoked int64  `json:"revoked"`
}

// LogoutAll godoc
// @Summary   Revoke every refresh token of the current user
// @Tags      auth
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  logoutAllResponse
// @Failure   401  {object}  ErrorResponse
// @Router    /users/logout-all [post]
func (h *UserHandler) LogoutAll(c echo.Context) error {
	actor := actorFrom(c)
	n, err := h.authUC.LogoutAll(c.Request().Context(), actor.UserID)
	h.metrics.AuthEvent("logout_all", err)
	if err != nil {
		return writeError(c, err)
	}

	h.clearRefreshCookie(c)
	return c.JSON(http.StatusOK, logoutAllResponse{Message: "logged out from all sessions", Revoked: n})
}

// Me godoc
// @Summary   Current user
// @Tags      users
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  model.User
// @Failure   401  {object}  ErrorResponse
// @Router    /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, err := h.authUC.Me(c.Request().Context(), actorFrom(c).UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe godoc
// @Summary   Update the current user
// @Tags      users
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      usecase.UpdateUserInput  true  "fields to change"
// @Success   200   {object}  model.User
// @Failure   400   {object}  ErrorResponse
// @Failure   403   {object}  ErrorResponse
// @Failure   409   {object}  ErrorResponse
// @Router    /users/me [patch]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	actor := actorFrom(c)
	return h.update(c, actor, actor.UserID)
}

// ChangePassword godoc
// @Summary      Change the current user's password
// @Description  Revokes every refresh token of the user on success.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      usecase.ChangePasswordInput  true  "passwords"
// @Success      200   {object}  MessageResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /users/me/password [patch]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	var in usecase.ChangePasswordInput
	if err := c.Bind(&in); err != nil {
		return writeError(c, badBody(err))
	}

	err := h.userUC.ChangePassword(c.Request().Context(), actorFrom(c).UserID, in)
	h.metrics.AuthEvent("change_password", err)
	if err != nil {
		return writeError(c, err)
	}

	h.clearRefreshCookie(c)
	return c.JSON(http.StatusOK, MessageResponse{Message: "password changed"})
}

// List godoc
// @Summary   List users (admin)
// @Tags      users
// @Produce   json
// @Security  BearerAuth
// @Param     page      query     int     false  "page (default 1)"
// @Param     limit     query     int     false  "page size (default 10, max 100)"
// @Param     email     query     string  false  "partial match"
// @Param     userName  query     string  false  "partial match"
// @Param     status    query     string  false  "ACTIVE | INACTIVE | BLOCKED"
// @Param     role      query     string  false  "USER | ADMIN"
// @Param     sortBy    query     string  false  "createdAt | email | userName"
// @Param     order     query     string  false  "asc | desc"
// @Success   200       {object}  usecase.UserList
// @Failure   400       {object}  ErrorResponse
// @Failure   403       {object}  ErrorResponse
// @Router    /users [get]
func (h *UserHandler) List(c echo.Context) error {
	var in usecase.ListUsersInput
	err := echo.QueryParamsBinder(c).
		Int("page", &in.Page).
		Int("limit", &in.Limit).
		String("email", &in.Email).
		String("userName", &in.UserName).
		String("status", &in.Status).
		String("role", &in.Role).
		String("sortBy", &in.SortBy).
		String("order", &in.Order).
		BindError()
	if err != nil {
		return writeError(c, usecase.NewValidation("invalid query parameter", nil))
	}

	list, err := h.userUC.List(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// Create godoc
// @Summary   Create a user (admin)
// @Tags      users
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      usecase.CreateUserInput  true  "new user"
// @Success   201   {object}  model.User
// @Failure   400   {object}  ErrorResponse
// @Failure   403   {object}  ErrorResponse
// @Failure   409   {object}  ErrorResponse
// @Router    /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var in usecase.CreateUserInput
	if err := c.Bind(&in); err != nil {
		return writeError(c, badBody(err))
	}

	user, err := h.userUC.Create(c.Request().Context(), actorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

// Get godoc
// @Summary   Get a user by id
// @Tags      users
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      string  true  "user id (uuid)"
// @Success   200  {object}  model.User
// @Failure   400  {object}  ErrorResponse
// @Failure   404  {object}  ErrorResponse
// @Router    /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.userUC.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// Update godoc
// @Summary   Update a user (admin or self)
// @Tags      users
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id    path      string                   true  "user id (uuid)"
// @Param     body  body      usecase.UpdateUserInput  true  "fields to change"
// @Success   200   {object}  model.User
// @Failure   400   {object}  ErrorResponse
// @Failure   403   {object}  ErrorResponse
// @Failure   404   {object}  ErrorResponse
// @Failure   409   {object}  ErrorResponse
// @Router    /users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	return h.update(c, actorFrom(c), c.Param("id"))
}

func (h *UserHandler) update(c echo.Context, actor usecase.Actor, id string) error {
	var in usecase.UpdateUserInput
	if err := c.Bind(&in); err != nil {
		return writeError(c, badBody(err))
	}

	user, err := h.userUC.Update(c.Request().Context(), actor, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// Delete godoc
// @Summary   Delete a user (admin or self)
// @Tags      users
// @Security  BearerAuth
// @Param     id   path  string  true  "user id (uuid)"
// @Success   204
// @Failure   403  {object}  ErrorResponse
// @Failure   404  {object}  ErrorResponse
// @Router    /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.userUC.Delete(c.Request().Context(), actorFrom(c), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ForceLogout godoc
// @Summary   Revoke every refresh token of a user (admin)
// @Tags      users
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      string  true  "user id (uuid)"
// @Success   200  {object}  usecase.ForceLogoutResult
// @Failure   403  {object}  ErrorResponse
// @Failure   404  {object}  ErrorResponse
// @Router    /users/{id}/force-logout [post]
func (h *UserHandler) ForceLogout(c echo.Context) error {
	res, err := h.authUC.ForceLogout(c.Request().Context(), actorFrom(c), c.Param("id"))
	h.metrics.AuthEvent("force_logout", err)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// bodyのrefreshTokenを優先し、なければcookie
func (h *UserHandler) refreshTokenFrom(c echo.Context) (string, error) {
	var in usecase.RefreshInput
	if err := c.Bind(&in); err != nil {
		return "", badBody(err)
	}
	if in.RefreshToken != "" {
		return in.RefreshToken, nil
	}
	if ck, err := c.Cookie(RefreshCookieName); err == nil {
		return ck.Value, nil
	}
	return "", nil
}

func (h *UserHandler) setRefreshCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(h.refreshTTL.Seconds()),
	})
}

func (h *UserHandler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
}

// AuthJWTを通ったルートでだけ意味がある
func actorFrom(c echo.Context) usecase.Actor {
	if u, ok := c.Get(middleware.CtxUserKey).(*model.User); ok {
		return usecase.ActorFromUser(u)
	}
	claims, _ := middleware.ClaimsFrom(c)
	return usecase.ActorFromClaims(claims)
}
