// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"

	"github.com/asrrun/asrrun/internal/config"
	"github.com/asrrun/asrrun/internal/issue"
	"github.com/asrrun/asrrun/internal/phonemize"
	"github.com/asrrun/asrrun/internal/recipe"
	"github.com/asrrun/asrrun/internal/runtime"
	"github.com/asrrun/asrrun/internal/tokenize"
)

// issueFor maps an error to the catalog entry explaining it, or 0.
// Order matters: the most specific cause wins.
func issueFor(err error) issue.Id {
	switch {
	case errors.Is(err, runtime.ErrProgramNotFound):
		return issue.PipelineNotFoundId
	case errors.Is(err, runtime.ErrProgramNotExecutable):
		return issue.PermissionDeniedId
	case errors.Is(err, recipe.ErrIncompleteRecipe):
		return issue.RecipeIncompleteId
	case errors.Is(err, recipe.ErrUnsupportedFormat),
		errors.Is(err, recipe.ErrInvalidValue),
		errors.Is(err, recipe.ErrUnknownField):
		return issue.RecipeFileInvalidId
	case errors.Is(err, config.ErrInvalidRuntimeMode),
		errors.Is(err, runtime.ErrRuntimeNotRegistered),
		errors.Is(err, runtime.ErrRuntimeNotAvailable):
		return issue.InvalidRuntimeModeId
	case errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, config.ErrInvalidLoadOptions),
		isConfigError(err):
		return issue.ConfigLoadFailedId
	case errors.Is(err, phonemize.ErrG2P):
		return issue.G2PFailedId
	case errors.Is(err, tokenize.ErrFieldFormat),
		errors.Is(err, tokenize.ErrSymbolFormat),
		errors.Is(err, tokenize.ErrUnsupportedTokenType),
		errors.Is(err, tokenize.ErrVocabularyTooSmall),
		errors.Is(err, tokenize.ErrMissingJointSymbol):
		return issue.TokenizeFailedId
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil && exitErr.Code != 0 {
		return issue.PipelineFailedId
	}
	return 0
}

// isConfigError reports whether err came out of configuration loading.
func isConfigError(err error) bool {
	var ae *issue.ActionableError
	return errors.As(err, &ae) && (ae.Operation == "load configuration" || ae.Operation == "validate configuration")
}
