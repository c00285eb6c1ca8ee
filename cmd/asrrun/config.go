// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asrrun/asrrun/internal/config"
	"github.com/asrrun/asrrun/internal/issue"
)

// newConfigCommand creates the `asrrun config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage asrrun configuration",
		Long: `Manage asrrun configuration.

Configuration is stored in:
  - Linux: ~/.config/asrrun/config.cue
  - macOS: ~/Library/Application Support/asrrun/config.cue
  - Windows: %APPDATA%\asrrun\config.cue

A project-local asrrun.cue in the working directory is used when no user
configuration exists.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.showConfig(cmd)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, created, err := config.CreateDefaultConfig("")
			if err != nil {
				return fmt.Errorf("failed to create config: %w", err)
			}
			if !created {
				fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
				return nil
			}
			fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgDir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
			fmt.Fprintf(app.stdout, "Config file: %s\n", filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
			fmt.Fprintf(app.stdout, "Project file: %s\n", config.LocalConfigFileName)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), "")
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(s.cfg))
			return nil
		},
	})

	return cfgCmd
}

func (app *App) showConfig(cmd *cobra.Command) error {
	loaded, err := config.Resolve(cmd.Context(), config.LoadOptions{ConfigFilePath: app.configPath})
	if err != nil {
		if rendered, renderErr := issue.Get(issue.ConfigLoadFailedId).Render(app.glamourStyle); renderErr == nil {
			fmt.Fprint(app.stderr, rendered)
		}
		return err
	}
	cfg := loaded.Config

	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	out := app.stdout

	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)

	if loaded.Path != "" {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), loaded.Path)
	} else {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "%s:\n", keyStyle.Render("pipeline"))
	fmt.Fprintf(out, "  script: %s\n", valueStyle.Render(cfg.Pipeline.Script))
	fmt.Fprintf(out, "  workdir: %s\n", valueOrNone(cfg.Pipeline.WorkDir))
	fmt.Fprintf(out, "  runtime: %s\n", valueStyle.Render(cfg.Pipeline.Runtime.String()))
	fmt.Fprintf(out, "  env_files: %s\n", valueOrNone(strings.Join(cfg.Pipeline.EnvFiles, ", ")))
	fmt.Fprintf(out, "  env: %s\n", valueOrNone(strings.Join(sortedKeys(cfg.Pipeline.Env), ", ")))
	fmt.Fprintf(out, "  recipe_file: %s\n", valueOrNone(cfg.Pipeline.RecipeFile))
	fmt.Fprintf(out, "  wait_delay: %s\n", valueStyle.Render(cfg.Pipeline.WaitDelay))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("recipe"))
	r, err := cfg.Recipe()
	if err != nil {
		return err
	}
	for _, f := range r.Fields() {
		fmt.Fprintf(out, "  %s: %s\n", f.Key, valueStyle.Render(f.Value))
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(out, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(out, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("log"))
	fmt.Fprintf(out, "  level: %s\n", valueStyle.Render(cfg.Log.Level.String()))

	return nil
}

func valueOrNone(s string) string {
	if s == "" {
		return SubtitleStyle.Render("(none)")
	}
	return SuccessStyle.Render(s)
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
