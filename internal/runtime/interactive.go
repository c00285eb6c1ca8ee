// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"io"
	"os"
	goruntime "runtime"

	"github.com/creack/pty"
	"github.com/muesli/cancelreader"
	"golang.org/x/term"
)

// InteractiveRuntime executes the program like NativeRuntime but attached to
// a pseudo-terminal, so progress bars and prompts behave as on a terminal.
// Stdin is copied into the PTY for the duration of the run and the PTY
// output is copied to Stdout.
type InteractiveRuntime struct {
	native *NativeRuntime
}

// NewInteractiveRuntime creates a new interactive runtime
func NewInteractiveRuntime(opts ...NativeOption) *InteractiveRuntime {
	return &InteractiveRuntime{native: NewNativeRuntime(opts...)}
}

// Name returns the runtime name
func (r *InteractiveRuntime) Name() string {
	return string(RuntimeTypeInteractive)
}

// Available returns false on Windows, where creack/pty cannot allocate a PTY.
func (r *InteractiveRuntime) Available() bool {
	return goruntime.GOOS != "windows"
}

// Validate checks the invocation the same way NativeRuntime does.
func (r *InteractiveRuntime) Validate(inv *Invocation) error {
	return r.native.Validate(inv)
}

// Execute runs the program on a new PTY and waits for it to exit.
// When Stdin is a terminal, it is switched to raw mode for the duration of
// the run and its window size is given to the PTY.
func (r *InteractiveRuntime) Execute(inv *Invocation) *Result {
	cmd := r.native.command(inv)

	var size *pty.Winsize
	if f, ok := inv.Stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if ws, err := pty.GetsizeFull(f); err == nil {
			size = ws
		}
		if state, err := term.MakeRaw(int(f.Fd())); err == nil {
			defer func() { _ = term.Restore(int(f.Fd()), state) }()
		}
	}

	ptmx, err := pty.StartWithSize(cmd, size)
	if err != nil {
		return resultFromStart(err)
	}
	// Closing the PTY first unblocks a stdin copy stuck writing to it.
	stopStdin := copyStdin(ptmx, inv.Stdin)
	defer func() {
		_ = ptmx.Close()
		stopStdin()
	}()

	out := inv.Stdout
	if out == nil {
		out = io.Discard
	}
	copied := make(chan struct{})
	go func() {
		// Reading fails with EIO once the child side of the PTY is closed.
		_, _ = io.Copy(out, ptmx)
		close(copied)
	}()

	waitErr := cmd.Wait()
	waitForOutput(copied, r.native.WaitDelay)
	return resultFromWait(cmd.ProcessState, waitErr)
}

// copyStdin copies in to the PTY until the returned function is called.
// Reads from a pollable file descriptor are canceled and the copy is waited
// for, so nothing reads the parent's stdin once Execute returns. Other
// readers cannot be interrupted; their copy stops at its next read.
func copyStdin(ptmx io.Writer, in io.Reader) func() {
	if in == nil {
		return func() {}
	}

	cr, err := cancelreader.NewReader(in)
	if err != nil {
		go func() { _, _ = io.Copy(ptmx, in) }()
		return func() {}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = io.Copy(ptmx, cr)
	}()
	return func() {
		if cr.Cancel() {
			<-done
		}
		_ = cr.Close()
	}
}
