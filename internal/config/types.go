// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asrrun/asrrun/internal/recipe"
)

const (
	// RuntimeNative executes the pipeline script directly.
	RuntimeNative RuntimeMode = "native"
	// RuntimeVirtual interprets the pipeline script with the embedded mvdan/sh interpreter.
	RuntimeVirtual RuntimeMode = "virtual"
	// RuntimeInteractive executes the pipeline script attached to a pseudo-terminal.
	RuntimeInteractive RuntimeMode = "interactive"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// Log levels accepted by log.level.
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"

	// DefaultScript is the pipeline entry point, relative to the working directory.
	DefaultScript = "./asr.sh"
	// DefaultWaitDelay is the default grace period after an interrupt.
	DefaultWaitDelay = "10s"
)

var (
	// ErrInvalidRuntimeMode is returned when a RuntimeMode value is not recognized.
	ErrInvalidRuntimeMode = errors.New("invalid runtime mode")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidWaitDelay is returned when pipeline.wait_delay is not a positive duration.
	ErrInvalidWaitDelay = errors.New("invalid wait delay")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// RuntimeMode selects how the pipeline script is executed.
	RuntimeMode string

	// InvalidRuntimeModeError is returned when a RuntimeMode value is not recognized.
	// It wraps ErrInvalidRuntimeMode for errors.Is() compatibility.
	InvalidRuntimeModeError struct {
		Value RuntimeMode
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// LogLevel is the minimum level of diagnostic messages.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidWaitDelayError is returned when a wait delay does not parse as a positive duration.
	InvalidWaitDelayError struct {
		Value string
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Pipeline configures how the pipeline script is launched
		Pipeline PipelineConfig `json:"pipeline" mapstructure:"pipeline"`
		// RecipeValues overlays the default recipe; empty values keep the default
		RecipeValues recipe.Recipe `json:"recipe" mapstructure:"recipe"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Log configures diagnostic logging
		Log LogConfig `json:"log" mapstructure:"log"`
	}

	// PipelineConfig configures the pipeline invocation.
	PipelineConfig struct {
		Script     string            `json:"script" mapstructure:"script"`
		WorkDir    string            `json:"workdir" mapstructure:"workdir"`
		Runtime    RuntimeMode       `json:"runtime" mapstructure:"runtime"`
		EnvFiles   []string          `json:"env_files" mapstructure:"env_files"`
		Env        map[string]string `json:"env" mapstructure:"env"`
		RecipeFile string            `json:"recipe_file" mapstructure:"recipe_file"`
		WaitDelay  string            `json:"wait_delay" mapstructure:"wait_delay"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// LogConfig configures diagnostic logging.
	LogConfig struct {
		Level LogLevel `json:"level" mapstructure:"level"`
	}
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			Script:    DefaultScript,
			Runtime:   RuntimeNative,
			EnvFiles:  []string{},
			Env:       map[string]string{},
			WaitDelay: DefaultWaitDelay,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
		Log: LogConfig{
			Level: LogLevelInfo,
		},
	}
}

// Recipe returns the default recipe overlaid with the config's recipe block
// and then with Pipeline.RecipeFile when set. The result is not validated.
func (c *Config) Recipe() (recipe.Recipe, error) {
	r := recipe.Default().Overlay(c.RecipeValues)
	if c.Pipeline.RecipeFile == "" {
		return r, nil
	}
	return recipe.LoadFile(c.Pipeline.RecipeFile, r)
}

// WaitDelayDuration parses Pipeline.WaitDelay. An empty value yields the default.
func (p PipelineConfig) WaitDelayDuration() (time.Duration, error) {
	s := p.WaitDelay
	if s == "" {
		s = DefaultWaitDelay
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, &InvalidWaitDelayError{Value: p.WaitDelay}
	}
	return d, nil
}

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Pipeline.Runtime.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if _, err := c.Pipeline.WaitDelayDuration(); err != nil {
		errs = append(errs, err)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Log.Level.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid config: %v", e.FieldErrors[0])
	}
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %d field errors: %s", len(e.FieldErrors), strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Error implements the error interface for InvalidRuntimeModeError.
func (e *InvalidRuntimeModeError) Error() string {
	return fmt.Sprintf("invalid runtime mode %q (valid: native, virtual, interactive)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidRuntimeModeError) Unwrap() error {
	return ErrInvalidRuntimeMode
}

// String returns the string representation of the RuntimeMode.
func (m RuntimeMode) String() string { return string(m) }

// IsValid returns whether the RuntimeMode is one of the defined runtime modes,
// and a list of validation errors if it is not.
func (m RuntimeMode) IsValid() (bool, []error) {
	switch m {
	case RuntimeNative, RuntimeVirtual, RuntimeInteractive:
		return true, nil
	default:
		return false, []error{&InvalidRuntimeModeError{Value: m}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidLogLevelError.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error {
	return ErrInvalidLogLevel
}

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// Error implements the error interface for InvalidWaitDelayError.
func (e *InvalidWaitDelayError) Error() string {
	return fmt.Sprintf("invalid wait delay %q: must be a positive duration such as \"10s\"", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidWaitDelayError) Unwrap() error {
	return ErrInvalidWaitDelay
}
