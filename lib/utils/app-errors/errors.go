package apperrors

import (
	"github.com/pkg/errors"
)

// Виды ошибок. Сравниваются через errors.Is.
var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("not found")
	ErrStore           = errors.New("store error")
	ErrTooManyRequests = errors.New("too many requests")
)

type Error struct {
	kind  error
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *Error) Is(target error) bool {
	return target == e.kind
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Message() string {
	return e.msg
}

func NewValidation(msg string) error {
	return &Error{kind: ErrValidation, msg: msg}
}

func NewNotFound(msg string) error {
	return &Error{kind: ErrNotFound, msg: msg}
}

func NewTooManyRequests(msg string) error {
	return &Error{kind: ErrTooManyRequests, msg: msg}
}

// WrapStore ошибка хранилища, текст исходной ошибки сохраняется для диагностики
func WrapStore(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{kind: ErrStore, msg: msg, cause: err}
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsTooManyRequests(err error) bool {
	return errors.Is(err, ErrTooManyRequests)
}
