// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// ErrScriptSyntax is returned when the virtual runtime cannot parse the script.
var ErrScriptSyntax = errors.New("script syntax error")

// VirtualRuntime interprets the program as a POSIX shell script with mvdan/sh
// instead of handing it to the host. External commands the script calls
// still run on the host.
type VirtualRuntime struct{}

// NewVirtualRuntime creates a new virtual runtime
func NewVirtualRuntime() *VirtualRuntime {
	return &VirtualRuntime{}
}

// Name returns the runtime name
func (r *VirtualRuntime) Name() string {
	return string(RuntimeTypeVirtual)
}

// Available returns whether this runtime is available
func (r *VirtualRuntime) Available() bool {
	// Virtual runtime is always available as it's built-in
	return true
}

// Validate parses the script so syntax errors surface before anything runs.
// A missing script is left to Execute, which reports it as exit code 127.
func (r *VirtualRuntime) Validate(inv *Invocation) error {
	if inv.Program == "" {
		return ErrNoProgram
	}
	if err := validateWorkDir(inv.WorkDir); err != nil {
		return err
	}

	_, err := parseScript(scriptPath(inv))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Execute runs the script in the interpreter with the invocation arguments
// as positional parameters.
func (r *VirtualRuntime) Execute(inv *Invocation) *Result {
	prog, err := parseScript(scriptPath(inv))
	if err != nil {
		if errors.Is(err, ErrScriptSyntax) {
			return NewErrorResult(ExitFailure, err)
		}
		return resultFromStart(err)
	}

	// Prepend "--" to signal end of options; without this, args like "--ngpu"
	// are interpreted as shell options by interp.Params()
	params := append([]string{"--"}, inv.Args...)

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(inv.Environ()...)),
		interp.StdIO(inv.Stdin, inv.Stdout, inv.Stderr),
		interp.Params(params...),
	}
	if inv.WorkDir != "" {
		opts = append(opts, interp.Dir(inv.WorkDir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return NewErrorResult(ExitFailure, fmt.Errorf("failed to create interpreter: %w", err))
	}

	ctx := inv.context()
	err = runner.Run(ctx, prog)
	if err == nil {
		return NewSuccessResult()
	}

	var exitStatus interp.ExitStatus
	if errors.As(err, &exitStatus) {
		return NewExitCodeResult(ExitCode(exitStatus))
	}
	if ctx.Err() != nil {
		return NewExitCodeResult(ExitInterrupted)
	}
	return NewErrorResult(ExitFailure, fmt.Errorf("script execution failed: %w", err))
}

// scriptPath resolves a relative script against the working directory, the
// same way exec resolves a relative program path against Cmd.Dir.
func scriptPath(inv *Invocation) string {
	if inv.WorkDir == "" || filepath.IsAbs(inv.Program) {
		return inv.Program
	}
	return filepath.Join(inv.WorkDir, inv.Program)
}

func parseScript(path string) (*syntax.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	prog, err := syntax.NewParser().Parse(f, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScriptSyntax, err)
	}
	return prog, nil
}
