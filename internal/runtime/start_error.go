// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
)

var (
	// ErrProgramNotFound is returned when the program does not exist.
	ErrProgramNotFound = errors.New("program not found")
	// ErrProgramNotExecutable is returned when the program exists but cannot be executed.
	ErrProgramNotExecutable = errors.New("program not executable")
)

// StartError is returned when the child process could not be started.
// Code is the status a shell would report for the same failure.
type StartError struct {
	Code ExitCode
	Err  error
}

// Error implements the error interface.
func (e *StartError) Error() string {
	return fmt.Sprintf("%s: %v", e.kind(), e.Err)
}

// Unwrap returns both the kind sentinel and the underlying cause.
func (e *StartError) Unwrap() []error {
	return []error{e.kind(), e.Err}
}

func (e *StartError) kind() error {
	if e.Code == ExitNotExecutable {
		return ErrProgramNotExecutable
	}
	return ErrProgramNotFound
}
