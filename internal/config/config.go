// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/asrrun/asrrun/internal/issue"
	"github.com/asrrun/asrrun/internal/recipe"
	"github.com/asrrun/asrrun/pkg/cueutil"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/format"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "asrrun"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// LocalConfigFileName is the project-local config file looked up in the
	// working directory when no user config exists.
	LocalConfigFileName = AppName + "." + ConfigFileExt
)

//go:embed config_schema.cue
var configSchemaSource string

var configSchema = cueutil.MustCompile(configSchemaSource, "#Config")

// ConfigDir returns the asrrun configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// loadWithOptions performs option-driven config loading and returns the path
// of the file that was read, or "" when only defaults apply.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("pipeline.script", defaults.Pipeline.Script)
	v.SetDefault("pipeline.workdir", defaults.Pipeline.WorkDir)
	v.SetDefault("pipeline.runtime", defaults.Pipeline.Runtime)
	v.SetDefault("pipeline.env_files", defaults.Pipeline.EnvFiles)
	v.SetDefault("pipeline.recipe_file", defaults.Pipeline.RecipeFile)
	v.SetDefault("pipeline.wait_delay", defaults.Pipeline.WaitDelay)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("log.level", defaults.Log.Level)

	path, err := resolveConfigPath(opts)
	if err != nil {
		return nil, "", err
	}

	env := map[string]string{}
	if path != "" {
		env, err = loadCUEIntoViper(v, path)
		if err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Use 'asrrun config dump' to see a complete default configuration").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	// Viper lowercases map keys; environment variable names keep their case.
	cfg.Pipeline.Env = env

	if cfg.Pipeline.RecipeFile != "" && path != "" && !filepath.IsAbs(cfg.Pipeline.RecipeFile) {
		cfg.Pipeline.RecipeFile = filepath.Join(filepath.Dir(path), filepath.FromSlash(cfg.Pipeline.RecipeFile))
	}

	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Valid runtimes are native, virtual and interactive").
			WithSuggestion("pipeline.wait_delay takes a Go duration such as \"10s\" or \"1m\"").
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, path, nil
}

// resolveConfigPath applies the lookup order: explicit file, user config
// directory, then the project-local file in the working directory.
func resolveConfigPath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				WithSuggestion("Use 'asrrun config init' to create a default configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}
	if cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt); fileExists(cuePath) {
		return cuePath, nil
	}

	if localPath := filepath.Join(opts.WorkDir, LocalConfigFileName); fileExists(localPath) {
		return localPath, nil
	}

	return "", nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper validates a CUE file against the #Config schema and merges
// its contents into Viper. It returns pipeline.env separately because Viper
// folds map keys to lower case. Fields are optional, so values need not be
// concrete.
func loadCUEIntoViper(v *viper.Viper, path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	unified, err := configSchema.Unify(data, cueutil.WithFilename(path), cueutil.WithConcrete(false))
	if err != nil {
		return nil, err
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return nil, cueutil.FormatError(err, path)
	}

	env := map[string]string{}
	if envValue := unified.LookupPath(cue.ParsePath("pipeline.env")); envValue.Exists() {
		if err := envValue.Decode(&env); err != nil {
			return nil, cueutil.FormatError(err, path)
		}
	}

	// Merge into Viper (preserves defaults)
	if err := v.MergeConfigMap(configMap); err != nil {
		return nil, fmt.Errorf("failed to merge config: %w", err)
	}

	return env, nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default config file into dir (the platform
// config directory when empty) unless one already exists. It returns the
// file path and whether the file was created.
func CreateDefaultConfig(dir string) (string, bool, error) {
	cfgDir, err := configDirWithOverride(dir)
	if err != nil {
		return "", false, err
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)

	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, false, nil
	}

	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}

	return cfgPath, true, nil
}

// GenerateCUE generates a CUE representation of the configuration, laid out
// the way `cue fmt` would write it.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// asrrun configuration file\n\n")

	sb.WriteString("pipeline: {\n")
	fmt.Fprintf(&sb, "\tscript: %q\n", cfg.Pipeline.Script)
	if cfg.Pipeline.WorkDir != "" {
		fmt.Fprintf(&sb, "\tworkdir: %q\n", cfg.Pipeline.WorkDir)
	}
	fmt.Fprintf(&sb, "\truntime: %q\n", cfg.Pipeline.Runtime)
	if len(cfg.Pipeline.EnvFiles) > 0 {
		sb.WriteString("\tenv_files: [\n")
		for _, f := range cfg.Pipeline.EnvFiles {
			fmt.Fprintf(&sb, "\t\t%q,\n", f)
		}
		sb.WriteString("\t]\n")
	}
	if len(cfg.Pipeline.Env) > 0 {
		sb.WriteString("\tenv: {\n")
		keys := make([]string, 0, len(cfg.Pipeline.Env))
		for k := range cfg.Pipeline.Env {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "\t\t%q: %q\n", k, cfg.Pipeline.Env[k])
		}
		sb.WriteString("\t}\n")
	}
	if cfg.Pipeline.RecipeFile != "" {
		fmt.Fprintf(&sb, "\trecipe_file: %q\n", cfg.Pipeline.RecipeFile)
	}
	fmt.Fprintf(&sb, "\twait_delay: %q\n", cfg.Pipeline.WaitDelay)
	sb.WriteString("}\n")

	// Only set recipe values are written; the rest keep the built-in defaults.
	var set []recipe.Field
	for _, f := range cfg.RecipeValues.Fields() {
		if f.Value != "" {
			set = append(set, f)
		}
	}
	if len(set) > 0 {
		sb.WriteString("\nrecipe: {\n")
		for _, f := range set {
			fmt.Fprintf(&sb, "\t%s: %q\n", f.Key, f.Value)
		}
		sb.WriteString("}\n")
	}

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	sb.WriteString("\nlog: {\n")
	fmt.Fprintf(&sb, "\tlevel: %q\n", cfg.Log.Level)
	sb.WriteString("}\n")

	out, err := format.Source([]byte(sb.String()))
	if err != nil {
		return sb.String()
	}
	return string(out)
}
