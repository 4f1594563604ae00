package aoc

import (
	"errors"
	"fmt"
)

// ErrSessionMissing is returned when no session cookie is configured.
var ErrSessionMissing = errors.New("no session cookie configured (set AOC_SESSION_COOKIE or \"session\" in the config)")

// AuthenticationError indicates the session credential is missing or was
// rejected by the puzzle service.
type AuthenticationError struct {
	StatusCode int // zero when the credential was never sent
	Err        error
}

func (e *AuthenticationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("authentication failed (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// FetchError indicates a puzzle input could not be downloaded.
type FetchError struct {
	Year       int
	Day        int
	StatusCode int // zero for transport errors
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch input %d/day%02d: status %d: %v", e.Year, e.Day, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch input %d/day%02d: %v", e.Year, e.Day, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// SubmissionError indicates an answer could not be delivered or the
// response could not be understood. The answer's local state is untouched.
type SubmissionError struct {
	Year       int
	Day        int
	Part       int
	StatusCode int
	Err        error
}

func (e *SubmissionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("submit %d/day%02d/part%d: status %d: %v", e.Year, e.Day, e.Part, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("submit %d/day%02d/part%d: %v", e.Year, e.Day, e.Part, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// IsAuthError reports whether err is an AuthenticationError.
func IsAuthError(err error) bool {
	var ae *AuthenticationError
	return errors.As(err, &ae)
}

// IsFetchError reports whether err is a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// IsSubmissionError reports whether err is a SubmissionError.
func IsSubmissionError(err error) bool {
	var se *SubmissionError
	return errors.As(err, &se)
}
