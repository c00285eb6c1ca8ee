// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"strconv"
)

// Exit codes the runtimes produce themselves, following shell conventions.
const (
	ExitSuccess       ExitCode = 0
	ExitFailure       ExitCode = 1
	ExitNotExecutable ExitCode = 126
	ExitNotFound      ExitCode = 127
	exitSignalBase    ExitCode = 128
	// ExitInterrupted is SignalExitCode(SIGINT).
	ExitInterrupted ExitCode = exitSignalBase + 2
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode represents a process exit status code.
	// Exit codes are in the range 0-255 on POSIX systems.
	// The zero value (0) means success.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside the
	// valid range (0-255).
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// SignalExitCode returns the status a shell reports for a child killed by
// signal number sig.
func SignalExitCode(sig int) ExitCode {
	return exitSignalBase + ExitCode(sig)
}

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode so callers can use errors.Is for programmatic detection.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// IsValid returns whether the ExitCode is in the valid range (0-255),
// and a list of validation errors if it is not.
func (c ExitCode) IsValid() (bool, []error) {
	if c < 0 || c > 255 {
		return false, []error{&InvalidExitCodeError{Value: c}}
	}
	return true, nil
}

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == ExitSuccess }

// IsSignal reports whether the code follows the 128+N convention for a
// child terminated by a signal.
func (c ExitCode) IsSignal() bool { return c > exitSignalBase && c <= 255 }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
