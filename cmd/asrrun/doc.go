// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for asrrun.
//
// The root command wires configuration, logging and the launcher together;
// subcommands delegate to the internal packages and only handle flag
// parsing, rendering and exit-status propagation.
package cmd
