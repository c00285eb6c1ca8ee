// SPDX-License-Identifier: MPL-2.0

// Package recipe holds the ASR recipe values forwarded to the pipeline entry
// point and builds the pipeline's argument list from them.
//
// Values are opaque strings. Nothing here parses a config path, splits a
// split list, or interprets a speed-perturbation factor; list-valued entries
// such as test_sets travel as a single argument.
package recipe
