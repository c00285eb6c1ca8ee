// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// Recipe files and the asrrun configuration are both validated against an
// embedded CUE schema before being decoded:
//
//  1. Compile the embedded schema once, at package init
//  2. Unify each document with the schema definition and validate it
//  3. Decode to a Go value, or keep the unified value for lookups
//
// # Usage
//
//	//go:embed recipe_schema.cue
//	var schema string
//
//	var recipeSchema = cueutil.MustCompile(schema, "#Recipe")
//
//	values, err := cueutil.Decode[map[string]string](recipeSchema, data,
//	    cueutil.WithFilename("recipe.cue"))
package cueutil
