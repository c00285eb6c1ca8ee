// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asrrun/asrrun/internal/launcher"
)

const (
	argsFormatLines = "lines"
	argsFormatShell = "shell"
	argsFormatJSON  = "json"
)

// newArgsCommand creates the `asrrun args` command.
func newArgsCommand(app *App) *cobra.Command {
	var (
		flags  pipelineFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "args [flags] [-- extra-args...]",
		Short: "Print the argument list the pipeline would receive",
		Long: `Print the final argument list without running anything.

Formats:
  lines  one argument per line (default)
  shell  the full command line, shell-quoted, including the program
  json   a JSON array of the arguments`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.plan(cmd.Context(), &flags)
			if err != nil {
				return err
			}

			argv, err := launcher.New().Command(p.recipe, args)
			if err != nil {
				return err
			}

			switch format {
			case argsFormatLines:
				for _, a := range argv {
					fmt.Fprintln(app.stdout, a)
				}
			case argsFormatShell:
				fmt.Fprintln(app.stdout, launcher.QuoteCommand(p.program, argv))
			case argsFormatJSON:
				data, err := json.Marshal(argv)
				if err != nil {
					return err
				}
				fmt.Fprintln(app.stdout, string(data))
			default:
				return fmt.Errorf("unknown format %q (valid: %s)", format, strings.Join([]string{argsFormatLines, argsFormatShell, argsFormatJSON}, ", "))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", argsFormatLines, "output format: lines, shell or json")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{argsFormatLines, argsFormatShell, argsFormatJSON}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}
