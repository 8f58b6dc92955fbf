package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"usersvc/internal/usecase"
)

// /app のHTTP
type AppHandler struct {
	uc *usecase.AppUsecase
}

// DI
func NewAppHandler(uc *usecase.AppUsecase) *AppHandler {
	return &AppHandler{uc: uc}
}

func (h *AppHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/app/info", h.info)
	e.GET("/app/health", h.health)
}

// info godoc
// @Summary      Application info
// @Tags         app
// @Produce      json
// @Success      200  {object}  usecase.AppInfo
// @Router       /app/info [get]
func (h *AppHandler) info(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Info())
}

// health godoc
// @Summary      Health check
// @Description  Pings the database. Returns 503 when a dependency is down.
// @Tags         app
// @Produce      json
// @Success      200  {object}  usecase.HealthReport
// @Failure      503  {object}  usecase.HealthReport
// @Router       /app/health [get]
func (h *AppHandler) health(c echo.Context) error {
	report := h.uc.Health(c.Request().Context())
	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, report)
}
