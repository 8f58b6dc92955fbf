package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"usersvc/internal/logger"
	"usersvc/internal/middleware"
	"usersvc/internal/usecase"
)

type ErrorResponse struct {
	Error     string            `json:"error"`
	Code      string            `json:"code"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// usecaseのエラーをJSONで返す
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	ae := toAppError(err)
	if ae.Status >= http.StatusInternalServerError {
		c.Set(middleware.CtxErrorKey, err)
	}
	return c.JSON(ae.Status, ErrorResponse{
		Error:     ae.Message,
		Code:      ae.Code,
		Details:   ae.Details,
		RequestID: logger.RequestIDFrom(c.Request().Context()),
	})
}

// middlewareやechoが返したエラーもwriteErrorと同じ形にする
func NewHTTPErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		ae := toAppError(err)
		if ae.Status >= http.StatusInternalServerError {
			log.ErrorContext(c.Request().Context(), "request failed",
				"error", err,
				"method", c.Request().Method,
				"path", c.Path(),
			)
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(ae.Status)
			return
		}
		_ = writeError(c, ae)
	}
}

func toAppError(err error) *usecase.AppError {
	var ae *usecase.AppError
	if errors.As(err, &ae) {
		return ae
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return fromHTTPError(he)
	}
	return usecase.AsAppError(err)
}

// echoの組み込みエラー（404ルート、413、429など）
func fromHTTPError(he *echo.HTTPError) *usecase.AppError {
	msg := strings.ToLower(http.StatusText(he.Code))
	if m, ok := he.Message.(string); ok && m != "" {
		msg = m
	} else if he.Message != nil {
		msg = fmt.Sprint(he.Message)
	}

	code := "INTERNAL_ERROR"
	switch he.Code {
	case http.StatusBadRequest:
		code = string(usecase.KindValidation)
	case http.StatusUnauthorized:
		code = string(usecase.KindUnauthorized)
	case http.StatusForbidden:
		code = string(usecase.KindForbidden)
	case http.StatusNotFound:
		code = string(usecase.KindNotFound)
	case http.StatusMethodNotAllowed:
		code = "METHOD_NOT_ALLOWED"
	case http.StatusRequestEntityTooLarge:
		code = "PAYLOAD_TOO_LARGE"
	case http.StatusTooManyRequests:
		code = "TOO_MANY_REQUESTS"
	case http.StatusServiceUnavailable:
		code = "SERVICE_UNAVAILABLE"
	}
	return &usecase.AppError{Status: he.Code, Code: code, Message: msg, Cause: he.Internal}
}

func badBody(err error) *usecase.AppError {
	e := usecase.NewValidation("invalid request body", nil)
	e.Cause = err
	return e
}
