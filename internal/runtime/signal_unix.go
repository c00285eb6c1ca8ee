// SPDX-License-Identifier: MPL-2.0

//go:build unix

package runtime

import (
	"errors"
	"os"
	"syscall"
)

func signaledExitCode(state *os.ProcessState) (ExitCode, bool) {
	if state == nil {
		return 0, false
	}
	ws, ok := state.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() {
		return 0, false
	}
	return SignalExitCode(int(ws.Signal())), true
}

func isExecFormatError(err error) bool {
	return errors.Is(err, syscall.ENOEXEC)
}
