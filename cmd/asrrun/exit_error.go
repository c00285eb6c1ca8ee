// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/asrrun/asrrun/internal/runtime"
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE
// handlers. Err is nil when the pipeline itself chose the status; there is
// nothing to report then beyond the code.
type ExitError struct {
	Code runtime.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}
