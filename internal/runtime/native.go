// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"os"
	"os/exec"
	"time"
)

type (
	// NativeRuntime executes the program directly with os/exec.
	// The program is expected to carry its own shebang.
	NativeRuntime struct {
		// WaitDelay is the grace period between the interrupt sent on context
		// cancellation and a forced kill.
		WaitDelay time.Duration
	}

	// NativeOption configures a NativeRuntime or InteractiveRuntime.
	NativeOption func(*NativeRuntime)
)

// WithWaitDelay sets the grace period after an interrupt. Zero or negative
// values keep DefaultWaitDelay.
func WithWaitDelay(d time.Duration) NativeOption {
	return func(r *NativeRuntime) {
		if d > 0 {
			r.WaitDelay = d
		}
	}
}

// NewNativeRuntime creates a new native runtime
func NewNativeRuntime(opts ...NativeOption) *NativeRuntime {
	r := &NativeRuntime{WaitDelay: DefaultWaitDelay}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name returns the runtime name
func (r *NativeRuntime) Name() string {
	return string(RuntimeTypeNative)
}

// Available returns whether this runtime is available
func (r *NativeRuntime) Available() bool {
	return true
}

// Validate checks that the invocation names a program and a usable working
// directory. Whether the program exists is left to Execute, which reports it
// with the shell's 127/126 convention.
func (r *NativeRuntime) Validate(inv *Invocation) error {
	if inv.Program == "" {
		return ErrNoProgram
	}
	return validateWorkDir(inv.WorkDir)
}

// Execute runs the program and waits for it to exit.
func (r *NativeRuntime) Execute(inv *Invocation) *Result {
	cmd := r.command(inv)
	cmd.Stdin = inv.Stdin
	cmd.Stdout = inv.Stdout
	cmd.Stderr = inv.Stderr

	if err := cmd.Start(); err != nil {
		return resultFromStart(err)
	}
	err := cmd.Wait()
	return resultFromWait(cmd.ProcessState, err)
}

// command builds the exec.Cmd for inv. Cancellation of the invocation context
// interrupts the child, and WaitDelay later escalates to a kill.
func (r *NativeRuntime) command(inv *Invocation) *exec.Cmd {
	cmd := exec.CommandContext(inv.context(), inv.Program, inv.Args...)
	cmd.Dir = inv.WorkDir
	cmd.Env = inv.Environ()
	cmd.Cancel = func() error {
		return interrupt(cmd.Process)
	}
	cmd.WaitDelay = r.WaitDelay
	return cmd
}

// interrupt asks the process to stop. Platforms without os.Interrupt
// support fall back to Kill.
func interrupt(p *os.Process) error {
	err := p.Signal(os.Interrupt)
	if err == nil || errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return p.Kill()
}

// waitForOutput blocks until done is closed or the grace period elapses.
// Descendants that keep the output open past the grace period are abandoned.
func waitForOutput(done <-chan struct{}, grace time.Duration) {
	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
	}
}
