// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/fang"

	"github.com/asrrun/asrrun/internal/config"
	"github.com/asrrun/asrrun/internal/issue"
	"github.com/asrrun/asrrun/internal/phonemize"
	"github.com/asrrun/asrrun/internal/recipe"
	"github.com/asrrun/asrrun/internal/runtime"
	"github.com/asrrun/asrrun/internal/tokenize"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v0.3.0"
		Commit = "9f8e7d6"
		BuildDate = "2026-01-20T08:30:00Z"

		got := getVersionString()
		want := "v0.3.0 (commit: 9f8e7d6, built: 2026-01-20T08:30:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("fallback to dev when no build info", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		// Test binaries report Main.Version as "(devel)".
		Version = "dev"

		got := getVersionString()
		want := "dev (built from source)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestIssueFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want issue.Id
	}{
		{"program not found", fmt.Errorf("start: %w", runtime.ErrProgramNotFound), issue.PipelineNotFoundId},
		{"not executable", runtime.ErrProgramNotExecutable, issue.PermissionDeniedId},
		{"incomplete recipe", &recipe.IncompleteRecipeError{Keys: []string{"lang"}}, issue.RecipeIncompleteId},
		{"unknown recipe key", &recipe.UnknownFieldError{Key: "stage"}, issue.RecipeFileInvalidId},
		{"recipe format", &recipe.UnsupportedFormatError{Value: "ini"}, issue.RecipeFileInvalidId},
		{"runtime mode", &config.InvalidRuntimeModeError{Value: "docker"}, issue.InvalidRuntimeModeId},
		{"runtime unavailable", runtime.ErrRuntimeNotAvailable, issue.InvalidRuntimeModeId},
		{"config load", issue.NewErrorContext().WithOperation("load configuration").Wrap(errors.New("bad")).BuildError(), issue.ConfigLoadFailedId},
		{"g2p", &phonemize.G2PError{Command: "g2p", Want: 2, Got: 1}, issue.G2PFailedId},
		{"field format", &tokenize.FieldFormatError{Value: "0"}, issue.TokenizeFailedId},
		{"pipeline status", &ExitError{Code: 2}, issue.PipelineFailedId},
		{"pipeline success", &ExitError{Code: 0}, 0},
		{"unrelated", errors.New("boom"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := issueFor(tt.err); got != tt.want {
				t.Errorf("issueFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExitErrorUnwrap(t *testing.T) {
	t.Parallel()

	err := &ExitError{Code: 127, Err: runtime.ErrProgramNotFound}
	if !errors.Is(err, runtime.ErrProgramNotFound) {
		t.Error("errors.Is(ExitError, ErrProgramNotFound) = false, want true")
	}
	if msg := (&ExitError{Code: 3}).Error(); !strings.Contains(msg, "3") {
		t.Errorf("bare ExitError message %q does not mention the status", msg)
	}
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()

	ae := issue.NewErrorContext().
		WithOperation("run pipeline").
		WithResource("./asr.sh").
		WithSuggestion("pass --workdir").
		Wrap(runtime.ErrProgramNotFound).
		BuildError()

	got := formatErrorForDisplay(ae, false)
	if !strings.Contains(got, "failed to run pipeline: ./asr.sh") || !strings.Contains(got, "• pass --workdir") {
		t.Errorf("formatErrorForDisplay() = %q", got)
	}
	if strings.Contains(got, "Error chain:") {
		t.Error("non-verbose output should not include the error chain")
	}
	if verbose := formatErrorForDisplay(ae, true); !strings.Contains(verbose, "Error chain:") {
		t.Errorf("verbose output %q lacks the error chain", verbose)
	}

	if got := formatErrorForDisplay(errors.New("plain"), true); got != "plain" {
		t.Errorf("formatErrorForDisplay(plain) = %q, want %q", got, "plain")
	}
}

func TestRenderError(t *testing.T) {
	t.Parallel()

	t.Run("bare exit error prints nothing", func(t *testing.T) {
		t.Parallel()

		app := NewApp(Dependencies{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})
		var w bytes.Buffer
		app.renderError(&w, fang.Styles{}, &ExitError{Code: 1})
		if w.Len() != 0 {
			t.Errorf("renderError() wrote %q, want nothing", w.String())
		}
	})

	t.Run("wrapped error is printed", func(t *testing.T) {
		t.Parallel()

		app := NewApp(Dependencies{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})
		var w bytes.Buffer
		app.renderError(&w, fang.Styles{}, &ExitError{Code: 127, Err: errors.New("no such pipeline")})
		if !strings.Contains(w.String(), "Error:") || !strings.Contains(w.String(), "no such pipeline") {
			t.Errorf("renderError() = %q", w.String())
		}
	})

	t.Run("verbose adds the catalog entry", func(t *testing.T) {
		t.Parallel()

		app := NewApp(Dependencies{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})
		app.verbose = true
		var w bytes.Buffer
		app.renderError(&w, fang.Styles{}, &ExitError{Code: 2})
		if w.Len() == 0 {
			t.Error("verbose renderError() of a failed pipeline wrote nothing")
		}
		if strings.Contains(w.String(), "Error:") {
			t.Errorf("bare ExitError should not print an error line, got %q", w.String())
		}
	})
}

func TestNewAppDefaults(t *testing.T) {
	t.Parallel()

	app := NewApp(Dependencies{})
	if app.Config == nil {
		t.Fatal("NewApp() left Config nil")
	}
	if app.stdin != os.Stdin || app.stdout != os.Stdout || app.stderr != os.Stderr {
		t.Error("NewApp() should default to the process's standard streams")
	}
}
