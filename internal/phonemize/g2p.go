// SPDX-License-Identifier: MPL-2.0

package phonemize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/shell"

	"github.com/asrrun/asrrun/internal/runtime"
)

var (
	// ErrG2P is the sentinel error wrapped by G2PError.
	ErrG2P = errors.New("g2p conversion failed")

	// ErrEmptyCommand is returned when a CommandG2P has nothing to run.
	ErrEmptyCommand = errors.New("g2p command is empty")
)

type (
	// G2P converts texts to phoneme strings, one output per input, in order.
	G2P interface {
		Convert(ctx context.Context, texts []string) ([]string, error)
	}

	// G2PFunc adapts a function to the G2P interface.
	G2PFunc func(ctx context.Context, texts []string) ([]string, error)

	// CommandG2P runs an external filter once per batch: texts go to its
	// stdin one per line and phoneme strings are read back from stdout.
	CommandG2P struct {
		// Command is split into words with shell quoting rules; variables
		// are expanded from the current environment.
		Command string
		WorkDir string
		// Runtime defaults to the native runtime.
		Runtime runtime.Runtime
	}

	// G2PError describes a failed conversion batch.
	G2PError struct {
		Command  string
		ExitCode runtime.ExitCode
		Stderr   string
		Want     int
		Got      int
		Err      error
	}
)

// Convert calls f.
func (f G2PFunc) Convert(ctx context.Context, texts []string) ([]string, error) {
	return f(ctx, texts)
}

// Convert feeds texts through the command.
func (c *CommandG2P) Convert(ctx context.Context, texts []string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	words, err := shell.Fields(c.Command, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse g2p command %q: %w", c.Command, err)
	}
	if len(words) == 0 {
		return nil, ErrEmptyCommand
	}

	var stdout, stderr bytes.Buffer
	inv := runtime.NewInvocation(ctx, words[0], words[1:])
	inv.WorkDir = c.WorkDir
	inv.Stdin = strings.NewReader(strings.Join(texts, "\n") + "\n")
	inv.Stdout = &stdout
	inv.Stderr = &stderr

	rt := c.Runtime
	if rt == nil {
		rt = runtime.NewNativeRuntime()
	}
	if err := rt.Validate(inv); err != nil {
		return nil, &G2PError{Command: c.Command, Err: err}
	}
	res := rt.Execute(inv)
	if !res.Success() {
		return nil, &G2PError{
			Command:  c.Command,
			ExitCode: res.ExitCode,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      res.Error,
		}
	}

	phones := splitLines(stdout.String())
	if len(phones) != len(texts) {
		return nil, &G2PError{
			Command: c.Command,
			Stderr:  strings.TrimSpace(stderr.String()),
			Want:    len(texts),
			Got:     len(phones),
		}
	}
	return phones, nil
}

// splitLines splits filter output into lines. Only no output at all is zero
// lines; a lone newline is one empty line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Error implements the error interface.
func (e *G2PError) Error() string {
	var msg string
	switch {
	case e.Err != nil:
		msg = fmt.Sprintf("g2p command %q failed: %v", e.Command, e.Err)
	case e.ExitCode != 0:
		msg = fmt.Sprintf("g2p command %q exited with status %s", e.Command, e.ExitCode)
	default:
		msg = fmt.Sprintf("g2p command %q returned %d lines for %d inputs", e.Command, e.Got, e.Want)
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Unwrap returns ErrG2P and the underlying cause for errors.Is() compatibility.
func (e *G2PError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrG2P, e.Err}
	}
	return []error{ErrG2P}
}
