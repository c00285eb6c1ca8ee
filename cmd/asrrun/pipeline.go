// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asrrun/asrrun/internal/config"
	"github.com/asrrun/asrrun/internal/issue"
	"github.com/asrrun/asrrun/internal/launcher"
	"github.com/asrrun/asrrun/internal/recipe"
	"github.com/asrrun/asrrun/internal/runtime"
)

type (
	// pipelineFlags are the flags shared by every command that resolves a recipe.
	pipelineFlags struct {
		script     string
		workDir    string
		runtime    string
		recipeFile string
		sets       []string
	}

	// pipelinePlan is everything needed to launch, before any process exists.
	pipelinePlan struct {
		*session
		recipe  recipe.Recipe
		program string
		workDir string
		runtime config.RuntimeMode
	}
)

func (f *pipelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.script, "script", "", "pipeline entry point (default from pipeline.script, ./asr.sh)")
	cmd.Flags().StringVar(&f.workDir, "workdir", "", "working directory of the pipeline (default from pipeline.workdir)")
	cmd.Flags().StringVar(&f.runtime, "runtime", "", "execution runtime: native, virtual or interactive (default from pipeline.runtime)")
	cmd.Flags().StringVar(&f.recipeFile, "recipe", "", "recipe file (cue, toml or yaml) overlaid on the configured recipe")
	cmd.Flags().StringArrayVar(&f.sets, "set", nil, "override one recipe value, as key=value (repeatable)")

	_ = cmd.RegisterFlagCompletionFunc("runtime", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{string(config.RuntimeNative), string(config.RuntimeVirtual), string(config.RuntimeInteractive)}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("set", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		keys := recipe.Keys()
		for i, k := range keys {
			keys[i] = k + "="
		}
		return keys, cobra.ShellCompDirectiveNoSpace | cobra.ShellCompDirectiveNoFileComp
	})
}

// resolveRecipe applies the recipe precedence: defaults, the config recipe
// block, pipeline.recipe_file, --recipe, then --set in flag order.
func (f *pipelineFlags) resolveRecipe(cfg *config.Config) (recipe.Recipe, error) {
	r, err := cfg.Recipe()
	if err != nil {
		return recipe.Recipe{}, recipeFileError(cfg.Pipeline.RecipeFile, err)
	}

	if f.recipeFile != "" {
		if r, err = recipe.LoadFile(f.recipeFile, r); err != nil {
			return recipe.Recipe{}, recipeFileError(f.recipeFile, err)
		}
	}

	for _, kv := range f.sets {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return recipe.Recipe{}, setFlagError(kv, fmt.Errorf("%q is not key=value", kv))
		}
		if err := r.Set(strings.TrimSpace(key), value); err != nil {
			return recipe.Recipe{}, setFlagError(kv, err)
		}
	}
	return r, nil
}

// plan loads configuration and resolves the recipe, program, working
// directory and runtime, flags taking precedence over configuration.
func (app *App) plan(ctx context.Context, f *pipelineFlags) (*pipelinePlan, error) {
	s, err := app.newSession(ctx, f.workDir)
	if err != nil {
		return nil, err
	}

	r, err := f.resolveRecipe(s.cfg)
	if err != nil {
		return nil, err
	}

	p := &pipelinePlan{
		session: s,
		recipe:  r,
		program: firstNonEmpty(f.script, s.cfg.Pipeline.Script, launcher.DefaultProgram),
		workDir: firstNonEmpty(f.workDir, s.cfg.Pipeline.WorkDir),
		runtime: config.RuntimeMode(firstNonEmpty(f.runtime, s.cfg.Pipeline.Runtime.String(), string(config.RuntimeNative))),
	}

	if valid, errs := p.runtime.IsValid(); !valid {
		return nil, issue.NewErrorContext().
			WithOperation("select runtime").
			WithResource(p.runtime.String()).
			WithSuggestion("Use --runtime native, virtual or interactive").
			Wrap(errs[0]).
			BuildError()
	}
	return p, nil
}

// launcher builds the launcher for the plan: selected runtime, dotenv files
// and inline variables from the config, and the App's standard streams.
func (app *App) launcher(p *pipelinePlan) (*launcher.Launcher, error) {
	waitDelay, err := p.cfg.Pipeline.WaitDelayDuration()
	if err != nil {
		return nil, err
	}

	rt, err := runtime.NewDefaultRegistry(waitDelay).Get(runtime.RuntimeType(p.runtime))
	if err != nil {
		return nil, err
	}
	if !rt.Available() {
		return nil, issue.NewErrorContext().
			WithOperation("select runtime").
			WithResource(p.runtime.String()).
			WithSuggestion("Use --runtime native on this platform").
			Wrap(fmt.Errorf("%w: %s", runtime.ErrRuntimeNotAvailable, p.runtime)).
			BuildError()
	}

	// Relative env files resolve against the pipeline's working directory.
	env, err := runtime.BuildEnv(p.cfg.Pipeline.EnvFiles, p.workDir, p.cfg.Pipeline.Env)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load pipeline environment").
			WithSuggestion("Check pipeline.env_files; append '?' to a path to make it optional").
			Wrap(err).
			BuildError()
	}

	return launcher.New(
		launcher.WithProgram(p.program),
		launcher.WithWorkDir(p.workDir),
		launcher.WithRuntime(rt),
		launcher.WithEnv(env),
		launcher.WithStdio(app.stdin, app.stdout, app.stderr),
		launcher.WithLogger(p.logger),
	), nil
}

func recipeFileError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load recipe file").
		WithResource(path).
		WithSuggestion("Supported formats are .cue, .toml, .yaml and .yml").
		WithSuggestion("Every value must be a string; use quotes for numbers such as ngpu").
		WithSuggestion("Run 'asrrun recipe init --format toml' for a template").
		Wrap(err).
		BuildError()
}

func setFlagError(kv string, err error) error {
	return issue.NewErrorContext().
		WithOperation("apply --set").
		WithResource(kv).
		WithSuggestion("Valid keys: " + strings.Join(recipe.Keys(), ", ")).
		Wrap(err).
		BuildError()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
