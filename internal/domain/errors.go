package domain

import (
	"errors"
	"fmt"

	"git.appkode.ru/pub/go/failure"
)

// AppError is the application-level error carrying a stable code.
type AppError struct {
	Code    failure.ErrorCode
	Message string
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

func NewError(code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// WrapError attaches a code and message to an existing error.
func WrapError(err error, code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   err,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetCode returns the code of the outermost AppError in the chain.
func GetCode(err error) (failure.ErrorCode, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}

// HasCode reports whether the outermost AppError in the chain has one of codes.
func HasCode(err error, codes ...failure.ErrorCode) bool {
	code, ok := GetCode(err)
	if !ok {
		return false
	}

	for _, c := range codes {
		if c == code {
			return true
		}
	}

	return false
}

// ErrorCode and Description let transport layers render the error without
// importing this package.
func (e *AppError) ErrorCode() failure.ErrorCode {
	return e.Code
}

func (e *AppError) Description() string {
	return e.Message
}
