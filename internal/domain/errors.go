package domain

import "errors"

// 业务错误种类，边界层按种类映射状态码
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// Error 带种类的业务错误；errors.Is(err, ErrNotFound) 等可用
type Error struct {
	Kind    error
	Field   string
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

func Validation(field, msg string) error {
	return &Error{Kind: ErrValidation, Field: field, Message: msg}
}

func NotFound(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }

func Conflict(msg string) error { return &Error{Kind: ErrConflict, Message: msg} }

// 存储层信号（由 repo 从各驱动错误码翻译而来）
var (
	ErrUniqueViolation = errors.New("unique constraint violation")
	ErrNoRowsAffected  = errors.New("no rows affected")
)

// UniqueViolationError 保留驱动原始错误；Field 取不到时为空
type UniqueViolationError struct {
	Field string
	Err   error
}

func (e *UniqueViolationError) Error() string {
	if e.Field != "" {
		return "unique constraint violation on " + e.Field + ": " + e.Err.Error()
	}
	return "unique constraint violation: " + e.Err.Error()
}

func (e *UniqueViolationError) Unwrap() []error { return []error{ErrUniqueViolation, e.Err} }
