package response

import (
	"errors"

	"github.com/palmapernia/tp-django/internal/i18n"
)

// AppError 业务错误：业务码 + 文案 key，文案在响应时按请求语言渲染
type AppError struct {
	Code int
	Key  string
	Args []interface{}
	Err  error
}

// 常用错误
var (
	ErrForbidden = NewError(CodeForbidden, "error.forbidden")
	ErrNotFound  = NewError(CodeNotFound, "error.not_found")
	ErrInternal  = NewError(CodeInternal, "error.internal")
)

// NewError 创建业务错误，args 用于带占位符的文案
func NewError(code int, key string, args ...interface{}) *AppError {
	return &AppError{Code: code, Key: key, Args: args}
}

// Wrap 返回附带原始错误的副本
func (e *AppError) Wrap(err error) *AppError {
	clone := *e
	clone.Err = err
	return &clone
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Key
	}
	return e.Key + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 业务码与 key 相同即视为同一错误
func (e *AppError) Is(target error) bool {
	var other *AppError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code && e.Key == other.Key
}

// Message 按语言渲染文案
func (e *AppError) Message(locale string) string {
	if len(e.Args) == 0 {
		return i18n.T(locale, e.Key)
	}
	return i18n.Sprintf(locale, e.Key, e.Args...)
}
