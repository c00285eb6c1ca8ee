// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/asrrun/asrrun/internal/recipe"
)

// newRecipeCommand creates the `asrrun recipe` command tree.
func newRecipeCommand(app *App) *cobra.Command {
	recipeCmd := &cobra.Command{
		Use:   "recipe",
		Short: "Inspect and create recipe files",
		Long: `Inspect and create recipe files.

A recipe holds the values passed to the pipeline: ngpu, lang, token_type,
feats_type, asr_config, inference_config, lm_config, train_set, valid_set,
test_sets, speed_perturb_factors and lm_train_text.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	recipeCmd.AddCommand(newRecipeShowCommand(app), newRecipeInitCommand(app))
	return recipeCmd
}

func newRecipeShowCommand(app *App) *cobra.Command {
	var (
		flags  pipelineFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved recipe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := recipe.ParseFormat(format)
			if err != nil {
				return err
			}
			p, err := app.plan(cmd.Context(), &flags)
			if err != nil {
				return err
			}
			data, err := recipe.Encode(p.recipe, f)
			if err != nil {
				return err
			}
			_, err = app.stdout.Write(data)
			return err
		},
	}

	flags.register(cmd)
	registerFormatFlag(cmd, &format)
	return cmd
}

func newRecipeInitCommand(app *App) *cobra.Command {
	var (
		format string
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default recipe",
		Long: `Write the default recipe to --output, or to stdout when no output is given.
The format follows the output extension unless --format is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := initFormat(cmd, format, output)
			if err != nil {
				return err
			}
			data, err := recipe.Encode(recipe.Default(), f)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = app.stdout.Write(data)
				return err
			}

			if !force {
				if _, err := os.Stat(output); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", output)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
			}
			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write recipe: %w", err)
			}
			fmt.Fprintf(app.stdout, "%s Created default recipe at %s\n", SuccessStyle.Render("✓"), output)
			return nil
		},
	}

	registerFormatFlag(cmd, &format)
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// initFormat prefers an explicit --format, then the output extension.
func initFormat(cmd *cobra.Command, format, output string) (recipe.Format, error) {
	if cmd.Flags().Changed("format") || output == "" || output == "-" {
		return recipe.ParseFormat(format)
	}
	return recipe.FormatFromPath(output)
}

func registerFormatFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVar(format, "format", string(recipe.FormatCUE), "recipe format: cue, toml or yaml")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{string(recipe.FormatCUE), string(recipe.FormatTOML), string(recipe.FormatYAML)}, cobra.ShellCompDirectiveNoFileComp))
}
