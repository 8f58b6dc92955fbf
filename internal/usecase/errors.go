package usecase

import (
	"errors"
	"fmt"
	"net/http"

	repo "usersvc/internal/repository"
)

type ErrorKind string

const (
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindConflict     ErrorKind = "CONFLICT"
	KindValidation   ErrorKind = "VALIDATION_ERROR"
	KindUnauthorized ErrorKind = "UNAUTHORIZED"
	KindForbidden    ErrorKind = "FORBIDDEN"
	KindDatabase     ErrorKind = "DATABASE_ERROR"
	KindExternal     ErrorKind = "EXTERNAL_SERVICE_ERROR"
	KindInternal     ErrorKind = "INTERNAL_ERROR"
)

// AppErrorはusecaseが返すエラー。
// handlerはStatusをHTTPに、GraphQLはExtensionsをそのまま使う。
type AppError struct {
	Kind    ErrorKind
	Status  int
	Code    string
	Message string
	Details map[string]string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// graphql-goはこのメソッドを見てerrors[].extensionsに入れる
func (e *AppError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{
		"code":   e.Code,
		"status": e.Status,
	}
	if len(e.Details) > 0 {
		ext["details"] = e.Details
	}
	return ext
}

func newAppError(kind ErrorKind, status int, msg string) *AppError {
	return &AppError{Kind: kind, Status: status, Code: string(kind), Message: msg}
}

// ---- ドメインエラー ----

func NewNotFound(resource string) *AppError {
	return newAppError(KindNotFound, http.StatusNotFound, resource+" not found")
}

func NewConflict(msg string) *AppError {
	return newAppError(KindConflict, http.StatusConflict, msg)
}

// detailsはフィールド名→理由
func NewValidation(msg string, details map[string]string) *AppError {
	e := newAppError(KindValidation, http.StatusBadRequest, msg)
	e.Details = details
	return e
}

func NewUnauthorized(msg string) *AppError {
	return newAppError(KindUnauthorized, http.StatusUnauthorized, msg)
}

func NewForbidden(msg string) *AppError {
	return newAppError(KindForbidden, http.StatusForbidden, msg)
}

// ---- インフラエラー（中身は外に出さない） ----

func NewDatabase(cause error) *AppError {
	e := newAppError(KindDatabase, http.StatusInternalServerError, "database error")
	e.Cause = cause
	return e
}

func NewExternal(service string, cause error) *AppError {
	e := newAppError(KindExternal, http.StatusBadGateway, service+" is unavailable")
	e.Cause = cause
	return e
}

// AsAppErrorはどんなエラーもAppErrorにする。知らないものは500。
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	e := newAppError(KindInternal, http.StatusInternalServerError, "internal server error")
	e.Cause = err
	return e
}

// repositoryの番兵エラーをAppErrorへ
func mapRepoError(err error, resource string) error {
	if err == nil {
		return nil
	}
	var dup *repo.DuplicateError
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return NewNotFound(resource)
	case errors.As(err, &dup):
		return conflictFor(dup.Constraint)
	case errors.Is(err, repo.ErrDuplicate):
		return NewConflict(resource + " already exists")
	}
	return NewDatabase(err)
}

// unique制約名からメッセージを決める
func conflictFor(constraint string) *AppError {
	switch constraint {
	case "uq_users_email":
		return errEmailTaken()
	case "uq_users_user_name":
		return errUserNameTaken()
	}
	return NewConflict("resource already exists")
}

func errEmailTaken() *AppError    { return NewConflict("email already exists") }
func errUserNameTaken() *AppError { return NewConflict("userName already exists") }
