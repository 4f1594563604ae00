package puzzle

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes resolution errors.
type ErrorCode string

const (
	// ErrCodeInvalidSelector indicates a malformed or out-of-range selector.
	ErrCodeInvalidSelector ErrorCode = "INVALID_SELECTOR"

	// ErrCodeUnresolvable indicates a path that does not follow the
	// yYYYY/dayDD convention.
	ErrCodeUnresolvable ErrorCode = "UNRESOLVABLE_IDENTIFIER"

	// ErrCodeOutOfWindow indicates the date selector was used outside the event.
	ErrCodeOutOfWindow ErrorCode = "OUT_OF_WINDOW"

	// ErrCodeNotYetAvailable indicates the puzzle has not been unlocked yet.
	ErrCodeNotYetAvailable ErrorCode = "NOT_YET_AVAILABLE"
)

// Error is returned by the Resolver.
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
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

// IsInvalidSelector reports whether err is an INVALID_SELECTOR error.
func IsInvalidSelector(err error) bool { return hasCode(err, ErrCodeInvalidSelector) }

// IsUnresolvable reports whether err is an UNRESOLVABLE_IDENTIFIER error.
func IsUnresolvable(err error) bool { return hasCode(err, ErrCodeUnresolvable) }

// IsOutOfWindow reports whether err is an OUT_OF_WINDOW error.
func IsOutOfWindow(err error) bool { return hasCode(err, ErrCodeOutOfWindow) }

// IsNotYetAvailable reports whether err is a NOT_YET_AVAILABLE error.
func IsNotYetAvailable(err error) bool { return hasCode(err, ErrCodeNotYetAvailable) }
