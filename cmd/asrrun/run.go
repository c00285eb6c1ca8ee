// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asrrun/asrrun/internal/launcher"
)

// newRunCommand creates the `asrrun run` command.
func newRunCommand(app *App) *cobra.Command {
	var (
		flags  pipelineFlags
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "run [flags] [-- extra-args...]",
		Short: "Run the pipeline once with the resolved recipe",
		Long: `Run the pipeline entry point once and exit with its status.

The pipeline receives the recipe flags, then every argument after '--'
verbatim, then the fixed overrides '--use_lm false --use_ngram false'.`,
		Example: `  asrrun run
  asrrun run -- --stage 10 --stop_stage 13
  asrrun run --set ngpu=4 --set test_sets="eval1 eval2"
  asrrun run --recipe recipes/jsut.toml --dry-run`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.plan(cmd.Context(), &flags)
			if err != nil {
				return err
			}

			l, err := app.launcher(p)
			if err != nil {
				return err
			}

			if dryRun {
				return app.printDryRun(l, p, args)
			}

			code, err := l.Run(cmd.Context(), p.recipe, args)
			if err != nil {
				return &ExitError{Code: code, Err: err}
			}
			if !code.IsSuccess() {
				return &ExitError{Code: code}
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the command instead of running it")

	return cmd
}

func (app *App) printDryRun(l *launcher.Launcher, p *pipelinePlan, extra []string) error {
	args, err := l.Command(p.recipe, extra)
	if err != nil {
		return err
	}

	var body strings.Builder
	fmt.Fprintf(&body, "%s %s\n", CmdStyle.Render("runtime:"), p.runtime)
	fmt.Fprintf(&body, "%s %s\n", CmdStyle.Render("workdir:"), firstNonEmpty(p.workDir, "."))
	if len(l.Env) > 0 {
		fmt.Fprintf(&body, "%s %d variable(s)\n", CmdStyle.Render("env:"), len(l.Env))
	}
	body.WriteString("\n")
	body.WriteString(launcher.QuoteCommand(p.program, args))

	fmt.Fprintln(app.stdout, TitleStyle.Render("Dry run")+SubtitleStyle.Render(" (nothing executed)"))
	fmt.Fprintln(app.stdout, dryRunBoxStyle.Render(body.String()))
	return nil
}
