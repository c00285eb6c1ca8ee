// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
)

// NewErrorResult creates a Result with the given exit code and error.
func NewErrorResult(code ExitCode, err error) *Result {
	return &Result{ExitCode: code, Error: err}
}

// NewSuccessResult creates a Result with exit code 0 and no error.
func NewSuccessResult() *Result {
	return &Result{}
}

// NewExitCodeResult creates a Result with the given exit code and no error.
// Use this for non-zero exits that represent normal process termination
// rather than infrastructure failures.
func NewExitCodeResult(code ExitCode) *Result {
	return &Result{ExitCode: code}
}

// resultFromWait converts the state of a waited-for child into a Result.
// Once the child has run, its status is authoritative: errors reported by
// Wait for context cancellation or I/O teardown do not override it.
func resultFromWait(state *os.ProcessState, err error) *Result {
	if state == nil {
		if err == nil {
			return NewSuccessResult()
		}
		return resultFromStart(err)
	}
	if code, ok := signaledExitCode(state); ok {
		return NewExitCodeResult(code)
	}
	code := ExitCode(state.ExitCode())
	if ok, errs := code.IsValid(); !ok {
		return NewErrorResult(ExitFailure, errs[0])
	}
	return NewExitCodeResult(code)
}

// resultFromStart classifies a failure to start the child the way a shell
// does: 127 when the program does not exist, 126 when it cannot be executed.
func resultFromStart(err error) *Result {
	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return NewErrorResult(ExitNotFound, &StartError{Code: ExitNotFound, Err: err})
	case errors.Is(err, fs.ErrPermission), isExecFormatError(err):
		return NewErrorResult(ExitNotExecutable, &StartError{Code: ExitNotExecutable, Err: err})
	default:
		return NewErrorResult(ExitFailure, fmt.Errorf("failed to execute program: %w", err))
	}
}
