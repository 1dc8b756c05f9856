package common

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an AppError and fixes its HTTP status
type Kind int

const (
	KindBadRequest Kind = iota + 1
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindTooManyRequests
)

// Status returns the HTTP status code for k
func (k Kind) Status() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// AppError is a domain failure that is reported to the caller verbatim
type AppError struct {
	Kind    Kind
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// Status returns the HTTP status code of the error
func (e *AppError) Status() int {
	return e.Kind.Status()
}

func newError(kind Kind, format string, args ...any) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...any) *AppError {
	return newError(KindBadRequest, format, args...)
}

func Validation(format string, args ...any) *AppError {
	return newError(KindValidation, format, args...)
}

func Unauthorized(format string, args ...any) *AppError {
	return newError(KindUnauthorized, format, args...)
}

func Forbidden(format string, args ...any) *AppError {
	return newError(KindForbidden, format, args...)
}

func NotFound(format string, args ...any) *AppError {
	return newError(KindNotFound, format, args...)
}

func Conflict(format string, args ...any) *AppError {
	return newError(KindConflict, format, args...)
}

func TooManyRequests(format string, args ...any) *AppError {
	return newError(KindTooManyRequests, format, args...)
}

// AsAppError unwraps err into an *AppError when possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err is an AppError of the given kind
func IsKind(err error, kind Kind) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Kind == kind
}

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Detail string `json:"detail"`
}
