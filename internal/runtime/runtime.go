// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"
)

// Runtime type constants for the supported execution modes.
const (
	RuntimeTypeNative      RuntimeType = "native"
	RuntimeTypeVirtual     RuntimeType = "virtual"
	RuntimeTypeInteractive RuntimeType = "interactive"
)

// DefaultWaitDelay is the grace period between the interrupt sent on
// context cancellation and a forced kill.
const DefaultWaitDelay = 10 * time.Second

var (
	// ErrRuntimeNotRegistered is the sentinel error wrapped by RuntimeNotRegisteredError.
	ErrRuntimeNotRegistered = errors.New("runtime not registered")
	// ErrRuntimeNotAvailable is returned when a registered runtime cannot run on this system.
	ErrRuntimeNotAvailable = errors.New("runtime not available")
	// ErrNoProgram is returned when an Invocation names no program.
	ErrNoProgram = errors.New("no program to execute")
)

type (
	// Invocation describes one run of an external program.
	Invocation struct {
		// Context cancels the run. A nil Context means context.Background().
		Context context.Context
		// Program is the path of the program to run.
		Program string
		// Args are passed to the program verbatim, in order.
		Args []string
		// WorkDir is the child's working directory. Empty means the current one.
		WorkDir string
		// Env is overlaid on the inherited environment.
		Env map[string]string
		// Stdin is where the child reads standard input.
		Stdin io.Reader
		// Stdout is where the child writes standard output.
		Stdout io.Writer
		// Stderr is where the child writes standard error.
		Stderr io.Writer
	}

	// Result contains the result of a run.
	Result struct {
		// ExitCode is the exit status of the child.
		ExitCode ExitCode
		// Error is set when the child could not be run at all.
		Error error
	}

	// Runtime defines the interface for running an Invocation.
	Runtime interface {
		// Name returns the runtime name
		Name() string
		// Execute runs the invocation and blocks until it ends
		Execute(inv *Invocation) *Result
		// Available returns whether this runtime can run on the current system
		Available() bool
		// Validate checks if the invocation can be executed with this runtime
		Validate(inv *Invocation) error
	}

	// RuntimeType identifies the type of runtime.
	//
	//nolint:revive // RuntimeType is more descriptive than Type for external callers
	RuntimeType string

	// RuntimeNotRegisteredError is returned by Registry.Get for an unknown type.
	RuntimeNotRegisteredError struct {
		Type RuntimeType
	}

	// Registry holds all available runtimes
	Registry struct {
		runtimes map[RuntimeType]Runtime
	}
)

// NewInvocation creates an invocation bound to the process's standard streams.
func NewInvocation(ctx context.Context, program string, args []string) *Invocation {
	return &Invocation{
		Context: ctx,
		Program: program,
		Args:    args,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

func (inv *Invocation) context() context.Context {
	if inv.Context == nil {
		return context.Background()
	}
	return inv.Context
}

// Environ returns the inherited environment with Env overlaid.
// Overlaid entries come last, sorted by key.
func (inv *Invocation) Environ() []string {
	if len(inv.Env) == 0 {
		return os.Environ()
	}
	base := os.Environ()
	out := make([]string, 0, len(base)+len(inv.Env))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, overridden := inv.Env[key]; overridden {
			continue
		}
		out = append(out, kv)
	}
	return append(out, EnvToSlice(inv.Env)...)
}

// Success returns true if the program ran and exited with status 0.
func (r *Result) Success() bool {
	return r.ExitCode == 0 && r.Error == nil
}

// Error implements the error interface.
func (e *RuntimeNotRegisteredError) Error() string {
	return fmt.Sprintf("runtime '%s' not registered", e.Type)
}

// Unwrap returns ErrRuntimeNotRegistered for errors.Is() compatibility.
func (e *RuntimeNotRegisteredError) Unwrap() error { return ErrRuntimeNotRegistered }

// String returns the runtime type name.
func (t RuntimeType) String() string { return string(t) }

// NewRegistry creates a new runtime registry
func NewRegistry() *Registry {
	return &Registry{
		runtimes: make(map[RuntimeType]Runtime),
	}
}

// NewDefaultRegistry creates a registry holding the native, virtual and
// interactive runtimes, each interrupting its child with the given grace
// period on cancellation.
func NewDefaultRegistry(waitDelay time.Duration) *Registry {
	r := NewRegistry()
	r.Register(RuntimeTypeNative, NewNativeRuntime(WithWaitDelay(waitDelay)))
	r.Register(RuntimeTypeVirtual, NewVirtualRuntime())
	r.Register(RuntimeTypeInteractive, NewInteractiveRuntime(WithWaitDelay(waitDelay)))
	return r
}

// Register adds a runtime to the registry
func (r *Registry) Register(typ RuntimeType, rt Runtime) {
	r.runtimes[typ] = rt
}

// Get returns a runtime by type
func (r *Registry) Get(typ RuntimeType) (Runtime, error) {
	rt, ok := r.runtimes[typ]
	if !ok {
		return nil, &RuntimeNotRegisteredError{Type: typ}
	}
	return rt, nil
}

// Types returns the registered runtime types, sorted.
func (r *Registry) Types() []RuntimeType {
	types := make([]RuntimeType, 0, len(r.runtimes))
	for typ := range r.runtimes {
		types = append(types, typ)
	}
	slices.Sort(types)
	return types
}

// Available returns the registered runtimes that can run on this system, sorted.
func (r *Registry) Available() []RuntimeType {
	var types []RuntimeType
	for _, typ := range r.Types() {
		if r.runtimes[typ].Available() {
			types = append(types, typ)
		}
	}
	return types
}

// Execute runs the invocation with the runtime registered under typ.
func (r *Registry) Execute(typ RuntimeType, inv *Invocation) *Result {
	rt, err := r.Get(typ)
	if err != nil {
		return NewErrorResult(1, err)
	}

	if !rt.Available() {
		return NewErrorResult(1, fmt.Errorf("%w: %s", ErrRuntimeNotAvailable, rt.Name()))
	}

	if err := rt.Validate(inv); err != nil {
		return NewErrorResult(1, err)
	}

	return rt.Execute(inv)
}

// EnvToSlice converts a map of environment variables to a KEY=value slice
// sorted by key.
func EnvToSlice(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	result := make([]string, 0, len(env))
	for _, k := range keys {
		result = append(result, k+"="+env[k])
	}
	return result
}
