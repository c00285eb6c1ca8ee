// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/asrrun/asrrun/internal/config"
	"github.com/asrrun/asrrun/internal/issue"
	"github.com/asrrun/asrrun/internal/logging"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives the App and reaches configuration and I/O through it.
	App struct {
		Config ConfigProvider
		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer

		// set from persistent flags
		configPath string
		verbose    bool
		// glamour style for issue rendering, follows ui.color_scheme
		glamourStyle string
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// session is the per-command state derived from the loaded configuration.
	session struct {
		cfg    *config.Config
		logger *log.Logger
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	return &App{
		Config:       deps.Config,
		stdin:        deps.Stdin,
		stdout:       deps.Stdout,
		stderr:       deps.Stderr,
		glamourStyle: "dark",
	}
}

// NewRootCommand builds the full command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "asrrun",
		Short: "Launch the char_phone ASR recipe pipeline",
		Long: TitleStyle.Render("asrrun") + SubtitleStyle.Render(" - launch the char_phone ASR recipe pipeline") + `

asrrun builds the argument list of a speech recognition recipe (GPU count,
language, token type, feature type, config files and data sets), appends
your extra arguments and runs the pipeline entry point once, exiting with
its status.

` + SubtitleStyle.Render("Quick Start:") + `
  1. cd into the recipe directory that holds asr.sh
  2. Preview the invocation with: asrrun run --dry-run
  3. Run a stage range with:      asrrun run -- --stage 10 --stop_stage 13

` + SubtitleStyle.Render("Examples:") + `
  asrrun run                         Run the full recipe
  asrrun run --set ngpu=4            Override one recipe value
  asrrun args --format shell         Print the final command line
  asrrun recipe show --format toml   Show the resolved recipe
  asrrun config show                 Show current configuration`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/asrrun/config.cue)")

	rootCmd.AddCommand(
		newRunCommand(app),
		newArgsCommand(app),
		newRecipeCommand(app),
		newConfigCommand(app),
		newTokenizeCommand(app),
		newAddPhonemeCommand(app),
		newCompletionCommand(app),
	)
	return rootCmd
}

// Execute runs the CLI and exits the process with the resulting status.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(app.renderError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}

// newSession loads configuration for a command. workDir is where the
// project-local asrrun.cue is looked up.
func (app *App) newSession(ctx context.Context, workDir string) (*session, error) {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: app.configPath,
		WorkDir:        workDir,
	})
	if err != nil {
		return nil, err
	}

	if cfg.UI.Verbose {
		app.verbose = true
	}
	app.glamourStyle = applyColorScheme(cfg.UI.ColorScheme)

	level := log.DebugLevel
	if !app.verbose {
		if level, err = logging.ParseLevel(cfg.Log.Level.String()); err != nil {
			return nil, err
		}
	}

	return &session{cfg: cfg, logger: logging.New(app.stderr, level)}, nil
}

// renderError prints err for the user. A bare ExitError carries the
// pipeline's own status; the pipeline already reported on its own streams,
// so only the verbose explanation is printed for it.
func (app *App) renderError(w io.Writer, _ fang.Styles, err error) {
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Err != nil {
		fmt.Fprintln(w, ErrorStyle.Render("Error:")+" "+formatErrorForDisplay(err, app.verbose))
	}

	if !app.verbose {
		return
	}
	if id := issueFor(err); id != 0 {
		if entry := issue.Get(id); entry != nil {
			if rendered, renderErr := entry.Render(app.glamourStyle); renderErr == nil {
				fmt.Fprint(w, rendered)
			}
		}
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
