// SPDX-License-Identifier: MPL-2.0

// Package launcher turns a recipe into one blocking invocation of the
// pipeline entry point and reports the pipeline's exit status.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/asrrun/asrrun/internal/issue"
	"github.com/asrrun/asrrun/internal/logging"
	"github.com/asrrun/asrrun/internal/recipe"
	"github.com/asrrun/asrrun/internal/runtime"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/syntax"
)

// DefaultProgram is the pipeline entry point, relative to the working directory.
const DefaultProgram = "./asr.sh"

type (
	// Launcher runs the pipeline once per Run call. Its fields are read-only
	// during a run.
	Launcher struct {
		Program string
		WorkDir string
		Runtime runtime.Runtime
		Env     map[string]string
		Stdin   io.Reader
		Stdout  io.Writer
		Stderr  io.Writer
		Logger  *log.Logger
	}

	// Option configures a Launcher.
	Option func(*Launcher)
)

// WithProgram sets the pipeline entry point.
func WithProgram(path string) Option {
	return func(l *Launcher) { l.Program = path }
}

// WithWorkDir sets the working directory of the pipeline.
func WithWorkDir(dir string) Option {
	return func(l *Launcher) { l.WorkDir = dir }
}

// WithRuntime selects how the pipeline is executed.
func WithRuntime(rt runtime.Runtime) Option {
	return func(l *Launcher) { l.Runtime = rt }
}

// WithEnv overlays variables on the environment inherited by the pipeline.
func WithEnv(env map[string]string) Option {
	return func(l *Launcher) { l.Env = env }
}

// WithStdio sets the pipeline's standard streams.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(l *Launcher) {
		l.Stdin = stdin
		l.Stdout = stdout
		l.Stderr = stderr
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *Launcher) { l.Logger = logger }
}

// New creates a launcher for ./asr.sh on the native runtime, bound to the
// process's standard streams, with logging discarded.
func New(opts ...Option) *Launcher {
	l := &Launcher{
		Program: DefaultProgram,
		Runtime: runtime.NewNativeRuntime(),
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Command validates r and returns the pipeline's argument list (without the
// program): the recipe flags, extra verbatim, then the fixed overrides.
func (l *Launcher) Command(r recipe.Recipe, extra []string) ([]string, error) {
	if err := r.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("build pipeline arguments").
			WithSuggestion("Every recipe value must be set; check the recipe block of your config and --recipe file").
			WithSuggestion("Run 'asrrun recipe show' to see the resolved recipe").
			Wrap(err).
			BuildError()
	}
	return r.Args(extra), nil
}

// Run invokes the pipeline once and blocks until it exits.
//
// The returned code is the pipeline's exit status, unchanged; a non-zero
// status is not an error. An error is returned only when the pipeline was not
// run to completion: the recipe is incomplete (code 1, nothing is invoked),
// the runtime rejects the invocation (code 1), or the program cannot be
// started (127 when missing, 126 when not executable).
func (l *Launcher) Run(ctx context.Context, r recipe.Recipe, extra []string) (runtime.ExitCode, error) {
	args, err := l.Command(r, extra)
	if err != nil {
		return runtime.ExitFailure, err
	}

	inv := &runtime.Invocation{
		Context: ctx,
		Program: l.Program,
		Args:    args,
		WorkDir: l.WorkDir,
		Env:     l.Env,
		Stdin:   l.Stdin,
		Stdout:  l.Stdout,
		Stderr:  l.Stderr,
	}

	l.Logger.Debug("launching pipeline", "runtime", l.Runtime.Name(), "workdir", l.WorkDir, "command", QuoteCommand(l.Program, args))

	if err := l.Runtime.Validate(inv); err != nil {
		return runtime.ExitFailure, issue.NewErrorContext().
			WithOperation("prepare pipeline").
			WithResource(l.Program).
			Wrap(err).
			BuildError()
	}

	result := l.Runtime.Execute(inv)
	l.Logger.Debug("pipeline finished", "exit_code", result.ExitCode)

	if result.Error != nil {
		return result.ExitCode, startFailure(l.Program, result.Error)
	}
	return result.ExitCode, nil
}

// QuoteCommand renders program and args as a single shell-quoted line.
func QuoteCommand(program string, args []string) string {
	words := make([]string, 0, len(args)+1)
	for _, w := range append([]string{program}, args...) {
		quoted, err := syntax.Quote(w, syntax.LangBash)
		if err != nil {
			// Only strings bash cannot represent (e.g. NUL bytes) end up here.
			quoted = fmt.Sprintf("%q", w)
		}
		words = append(words, quoted)
	}
	return strings.Join(words, " ")
}

func startFailure(program string, err error) error {
	ctx := issue.NewErrorContext().
		WithOperation("run pipeline").
		WithResource(program)
	switch {
	case errors.Is(err, runtime.ErrProgramNotFound):
		ctx = ctx.
			WithSuggestion("Run asrrun from the recipe directory (e.g. egs2/csj/asr1) or pass --workdir").
			WithSuggestion("Point --script or pipeline.script at the pipeline entry point")
	case errors.Is(err, runtime.ErrProgramNotExecutable):
		ctx = ctx.
			WithSuggestion("Make the script executable: chmod +x " + program).
			WithSuggestion("Check that its shebang line names an installed interpreter")
	}
	return ctx.Wrap(err).BuildError()
}
