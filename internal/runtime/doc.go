// SPDX-License-Identifier: MPL-2.0

// Package runtime runs the pipeline entry point as a child process.
//
// Three runtime implementations are available:
//   - native: executes the program directly with os/exec
//   - virtual: interprets the program as a POSIX shell script with mvdan/sh
//   - interactive: executes the program attached to a pseudo-terminal
//
// All runtimes implement the Runtime interface with Name(), Execute(),
// Available(), and Validate(). Execute blocks until the child exits and
// reports its status as an ExitCode: a normal exit is returned unchanged,
// death by signal N becomes 128+N, and a program that cannot be started
// becomes 127 (not found) or 126 (not executable) alongside an error.
//
// Invocation is the single data structure passed to a runtime. Its Env is
// overlaid on the inherited process environment; LoadEnvFiles and
// ParseEnvFile read dotenv files into such a map.
package runtime
