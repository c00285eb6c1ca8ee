// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"
)

// EchoArgsScript prints each argument on its own line, so a test can compare
// the received argument list exactly, including arguments containing spaces.
const EchoArgsScript = `for a in "$@"; do printf '%s\n' "$a"; done
`

// SkipOnWindows skips tests that execute POSIX shell scripts directly.
func SkipOnWindows(t testing.TB) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping: stub pipelines are POSIX shell scripts")
	}
}

// WriteStubPipeline writes an executable /bin/sh script named asr.sh into dir
// and returns its path. body is appended after the shebang line.
func WriteStubPipeline(t testing.TB, dir, body string) string {
	t.Helper()
	MustMkdirAll(t, dir, 0o755)
	path := filepath.Join(dir, "asr.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("failed to write stub pipeline: %v", err)
	}
	return path
}

// EchoExitScript returns a stub body that echoes its arguments and exits with code.
func EchoExitScript(code int) string {
	return EchoArgsScript + "exit " + strconv.Itoa(code) + "\n"
}
