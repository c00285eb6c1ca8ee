// SPDX-License-Identifier: MPL-2.0

//go:build !unix

package runtime

import "os"

func signaledExitCode(*os.ProcessState) (ExitCode, bool) { return 0, false }

func isExecFormatError(error) bool { return false }
