// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidLoadOptions is the sentinel error wrapped by InvalidLoadOptionsError.
var ErrInvalidLoadOptions = errors.New("invalid load options")

type (
	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific config file when set.
		ConfigFilePath string
		// ConfigDirPath overrides the config directory lookup when set.
		ConfigDirPath string
		// WorkDir is where the project-local asrrun.cue is looked up.
		// Empty means the current directory.
		WorkDir string
	}

	// InvalidLoadOptionsError is returned when LoadOptions has whitespace-only paths.
	InvalidLoadOptionsError struct {
		FieldErrors []error
	}

	// Provider loads configuration from explicit options.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	// Loaded is a configuration together with the file it was read from.
	// Path is empty when only defaults apply.
	Loaded struct {
		Config *Config
		Path   string
	}

	fileProvider struct{}
)

// NewProvider creates a configuration provider.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads configuration from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	loaded, err := Resolve(ctx, opts)
	if err != nil {
		return nil, err
	}
	return loaded.Config, nil
}

// Resolve loads configuration like Provider.Load and also reports which file was used.
func Resolve(ctx context.Context, opts LoadOptions) (*Loaded, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	cfg, path, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Loaded{Config: cfg, Path: path}, nil
}

// Validate rejects non-empty whitespace-only paths. Empty fields mean "use default".
func (o LoadOptions) Validate() error {
	var errs []error
	for _, f := range []struct{ name, value string }{
		{"config file path", o.ConfigFilePath},
		{"config dir path", o.ConfigDirPath},
		{"work dir", o.WorkDir},
	} {
		if f.value != "" && strings.TrimSpace(f.value) == "" {
			errs = append(errs, fmt.Errorf("%s must not be whitespace-only", f.name))
		}
	}
	if len(errs) > 0 {
		return &InvalidLoadOptionsError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidLoadOptionsError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid load options: %v", e.FieldErrors[0])
	}
	return fmt.Sprintf("invalid load options: %d field errors", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidLoadOptions for errors.Is() compatibility.
func (e *InvalidLoadOptionsError) Unwrap() error { return ErrInvalidLoadOptions }
