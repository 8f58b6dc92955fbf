package repository

import (
	"errors"
	"fmt"
)

var (
	// 該当行なし
	ErrNotFound = errors.New("not found")

	// unique制約違反
	ErrDuplicate = errors.New("duplicate key")
)

// DuplicateErrorはどのunique制約に違反したかを持つ
type DuplicateError struct {
	Constraint string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate key: %s", e.Constraint)
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}
