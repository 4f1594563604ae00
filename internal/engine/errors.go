package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/aoc/internal/puzzle"
)

// ExecErrorCode categorizes execution errors.
type ExecErrorCode string

const (
	// ErrCodeSolutionExecution indicates a part (or the prepare step)
	// returned an error or panicked.
	ErrCodeSolutionExecution ExecErrorCode = "SOLUTION_EXECUTION"
)

// ExecError is raised when solution code fails. It is isolated to the part
// it belongs to.
type ExecError struct {
	Code ExecErrorCode
	Key  puzzle.Key

	// Part is 1 or 2, or 0 for the prepare step.
	Part int

	// Panic holds the recovered value when the code panicked.
	Panic any

	Err error
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("%s: %s %s panicked: %v", e.Code, e.Key, e.Step(), e.Panic)
	}
	return fmt.Sprintf("%s: %s %s: %v", e.Code, e.Key, e.Step(), e.Err)
}

// Unwrap returns the error returned by the solution.
func (e *ExecError) Unwrap() error {
	return e.Err
}

// Step names the failing step: "prepare", "part1" or "part2".
func (e *ExecError) Step() string {
	if e.Part == 0 {
		return "prepare"
	}
	return fmt.Sprintf("part%d", e.Part)
}

// IsExecError returns true if err is an ExecError.
// Uses errors.As to handle wrapped errors.
func IsExecError(err error) bool {
	var ee *ExecError
	return errors.As(err, &ee)
}

func newExecError(key puzzle.Key, part int, err error, recovered any) *ExecError {
	return &ExecError{
		Code:  ErrCodeSolutionExecution,
		Key:   key,
		Part:  part,
		Panic: recovered,
		Err:   err,
	}
}
