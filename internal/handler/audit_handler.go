package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"usersvc/internal/middleware"
	repo "usersvc/internal/repository"
	"usersvc/internal/usecase"
)

// 管理者向けの監査ログ閲覧
type AuditHandler struct {
	uc     *usecase.AuditUsecase
	tokens middleware.AccessTokenVerifier
	users  repo.UserRepository
}

func NewAuditHandler(uc *usecase.AuditUsecase, tokens middleware.AccessTokenVerifier, users repo.UserRepository) *AuditHandler {
	return &AuditHandler{uc: uc, tokens: tokens, users: users}
}

func (h *AuditHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/audit-logs", h.List,
		middleware.AuthJWT(h.tokens),
		middleware.ActiveUserGuard(h.users),
		middleware.AdminRoleGuard(),
	)
}

// List godoc
// @Summary   List audit log entries (admin)
// @Tags      audit
// @Produce   json
// @Security  BearerAuth
// @Param     page          query     int     false  "page (default 1)"
// @Param     limit         query     int     false  "page size (default 10, max 100)"
// @Param     actorUserId   query     string  false  "who performed the action"
// @Param     targetUserId  query     string  false  "affected user (uuid)"
// @Param     action        query     string  false  "CREATE_USER | UPDATE_USER | DELETE_USER | FORCE_LOGOUT"
// @Success   200           {object}  usecase.AuditLogList
// @Failure   400           {object}  ErrorResponse
// @Failure   403           {object}  ErrorResponse
// @Router    /audit-logs [get]
func (h *AuditHandler) List(c echo.Context) error {
	var in usecase.ListAuditLogsInput
	err := echo.QueryParamsBinder(c).
		Int("page", &in.Page).
		Int("limit", &in.Limit).
		String("actorUserId", &in.ActorUserID).
		String("targetUserId", &in.TargetUserID).
		String("action", &in.Action).
		BindError()
	if err != nil {
		return writeError(c, usecase.NewValidation("invalid query parameter", nil))
	}

	list, err := h.uc.List(c.Request().Context(), actorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}
