package solution

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes solution unit errors.
type ErrorCode string

const (
	// ErrCodeNotFound indicates no unit is registered for the day.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeAlreadyExists indicates a stub would overwrite existing code.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// ErrCodeInvalidPart indicates a part other than 1 or 2 was requested.
	ErrCodeInvalidPart ErrorCode = "INVALID_PART"
)

// Error is returned by the Loader and the Scaffolder.
type Error struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func hasCode(err error, code ErrorCode) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// IsNotFound reports whether err is a NOT_FOUND error.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsAlreadyExists reports whether err is an ALREADY_EXISTS error.
func IsAlreadyExists(err error) bool { return hasCode(err, ErrCodeAlreadyExists) }
