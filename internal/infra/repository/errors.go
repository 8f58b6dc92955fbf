package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	repo "usersvc/internal/repository"
)

const pgUniqueViolation = "23505"

// gorm/pgxのエラーをrepositoryのエラーに揃える
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return &repo.DuplicateError{Constraint: pgErr.ConstraintName}
	}
	return err
}

// ILIKE用に%と_をエスケープ
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
