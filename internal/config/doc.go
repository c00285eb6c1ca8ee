// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/asrrun/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/asrrun/config.cue on macOS, %APPDATA%\asrrun\config.cue
// on Windows), or from ./asrrun.cue when no user configuration exists. It selects the
// pipeline script and runtime, the environment given to the pipeline, recipe overrides,
// and UI and logging preferences.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
