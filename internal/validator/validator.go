package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"usersvc/internal/domain/model"
	"usersvc/internal/usecase"
)

const (
	userNameMin = 3
	userNameMax = 30
	passwordMin = 8
	passwordMax = 72 // bcryptの上限(バイト)
)

var userNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

type structValidator struct {
	v *validator.Validate
}

// Usecaseは interface を依存注入
func New() usecase.Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// エラーのフィールド名はjsonタグに合わせる
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return isUserName(fl.Field().String())
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return isStrongPassword(fl.Field().String())
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		_, ok := model.ParseRole(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("user_status", func(fl validator.FieldLevel) bool {
		_, ok := model.ParseUserStatus(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("audit_action", func(fl validator.FieldLevel) bool {
		_, ok := model.ParseAuditAction(fl.Field().String())
		return ok
	})

	return &structValidator{v: v}
}

// 検証失敗はフィールドごとの理由つきでVALIDATION_ERRORにする
func (s *structValidator) Validate(in interface{}) error {
	err := s.v.Struct(in)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return usecase.NewValidation("invalid input", nil)
	}

	details := make(map[string]string, len(ves))
	for _, fe := range ves {
		details[fe.Field()] = describe(fe)
	}
	return usecase.NewValidation("validation failed", details)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must be >= " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "username":
		return "must be 3-30 characters of letters, digits, '_', '.' or '-'"
	case "password":
		return "must be 8-72 bytes and contain a letter and a digit"
	case "role":
		return "must be USER or ADMIN"
	case "user_status":
		return "must be ACTIVE, INACTIVE or BLOCKED"
	case "audit_action":
		return "must be a known audit action"
	case "uuid":
		return "must be a UUID"
	}
	return "is invalid"
}

func isUserName(s string) bool {
	n := len([]rune(s))
	return n >= userNameMin && n <= userNameMax && userNamePattern.MatchString(s)
}

// 英字と数字を1つ以上ずつ含む
func isStrongPassword(s string) bool {
	if len(s) < passwordMin || len(s) > passwordMax {
		return false
	}
	var letter, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}
