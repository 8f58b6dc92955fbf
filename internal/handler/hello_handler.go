package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"usersvc/internal/usecase"
)

type HelloHandler struct {
	uc *usecase.HelloUsecase
}

func NewHelloHandler(uc *usecase.HelloUsecase) *HelloHandler {
	return &HelloHandler{uc: uc}
}

func (h *HelloHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/hello", h.hello)
}

// hello godoc
// @Summary  Greeting
// @Tags     hello
// @Produce  json
// @Param    name  query     string  false  "name to greet (default World)"
// @Success  200   {object}  MessageResponse
// @Router   /hello [get]
func (h *HelloHandler) hello(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: h.uc.Greet(c.QueryParam("name"))})
}
