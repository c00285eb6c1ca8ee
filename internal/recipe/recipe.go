// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"errors"
	"fmt"
	"strings"
)

// Recipe keys, in the order they are forwarded to the pipeline.
const (
	KeyNGPU                = "ngpu"
	KeyLang                = "lang"
	KeyTokenType           = "token_type"
	KeyFeatsType           = "feats_type"
	KeyASRConfig           = "asr_config"
	KeyInferenceConfig     = "inference_config"
	KeyLMConfig            = "lm_config"
	KeyTrainSet            = "train_set"
	KeyValidSet            = "valid_set"
	KeyTestSets            = "test_sets"
	KeySpeedPerturbFactors = "speed_perturb_factors"
	KeyLMTrainText         = "lm_train_text"
)

var (
	// ErrIncompleteRecipe is the sentinel error wrapped by IncompleteRecipeError.
	ErrIncompleteRecipe = errors.New("incomplete recipe")
	// ErrUnknownField is the sentinel error wrapped by UnknownFieldError.
	ErrUnknownField = errors.New("unknown recipe field")
)

type (
	// Recipe is the set of values forwarded to the pipeline as flag/value pairs.
	Recipe struct {
		NGPU                string `json:"ngpu" toml:"ngpu" yaml:"ngpu" mapstructure:"ngpu"`
		Lang                string `json:"lang" toml:"lang" yaml:"lang" mapstructure:"lang"`
		TokenType           string `json:"token_type" toml:"token_type" yaml:"token_type" mapstructure:"token_type"`
		FeatsType           string `json:"feats_type" toml:"feats_type" yaml:"feats_type" mapstructure:"feats_type"`
		ASRConfig           string `json:"asr_config" toml:"asr_config" yaml:"asr_config" mapstructure:"asr_config"`
		InferenceConfig     string `json:"inference_config" toml:"inference_config" yaml:"inference_config" mapstructure:"inference_config"`
		LMConfig            string `json:"lm_config" toml:"lm_config" yaml:"lm_config" mapstructure:"lm_config"`
		TrainSet            string `json:"train_set" toml:"train_set" yaml:"train_set" mapstructure:"train_set"`
		ValidSet            string `json:"valid_set" toml:"valid_set" yaml:"valid_set" mapstructure:"valid_set"`
		TestSets            string `json:"test_sets" toml:"test_sets" yaml:"test_sets" mapstructure:"test_sets"`
		SpeedPerturbFactors string `json:"speed_perturb_factors" toml:"speed_perturb_factors" yaml:"speed_perturb_factors" mapstructure:"speed_perturb_factors"`
		LMTrainText         string `json:"lm_train_text" toml:"lm_train_text" yaml:"lm_train_text" mapstructure:"lm_train_text"`
	}

	// Field is one key/value pair of a Recipe.
	Field struct {
		Key   string
		Value string
	}

	// IncompleteRecipeError lists the keys that have no value.
	IncompleteRecipeError struct {
		Keys []string
	}

	// UnknownFieldError is returned when a key does not name a recipe field.
	UnknownFieldError struct {
		Key string
	}

	recipeField struct {
		key string
		ptr func(*Recipe) *string
	}
)

var recipeFields = []recipeField{
	{KeyNGPU, func(r *Recipe) *string { return &r.NGPU }},
	{KeyLang, func(r *Recipe) *string { return &r.Lang }},
	{KeyTokenType, func(r *Recipe) *string { return &r.TokenType }},
	{KeyFeatsType, func(r *Recipe) *string { return &r.FeatsType }},
	{KeyASRConfig, func(r *Recipe) *string { return &r.ASRConfig }},
	{KeyInferenceConfig, func(r *Recipe) *string { return &r.InferenceConfig }},
	{KeyLMConfig, func(r *Recipe) *string { return &r.LMConfig }},
	{KeyTrainSet, func(r *Recipe) *string { return &r.TrainSet }},
	{KeyValidSet, func(r *Recipe) *string { return &r.ValidSet }},
	{KeyTestSets, func(r *Recipe) *string { return &r.TestSets }},
	{KeySpeedPerturbFactors, func(r *Recipe) *string { return &r.SpeedPerturbFactors }},
	{KeyLMTrainText, func(r *Recipe) *string { return &r.LMTrainText }},
}

// trailingArgs disable LM and n-gram rescoring. They are appended after the
// caller's extra arguments, so a pipeline parser that keeps the last
// occurrence of a repeated flag ignores caller overrides of these two.
var trailingArgs = []string{"--use_lm", "false", "--use_ngram", "false"}

// Default returns the CSJ char-conformer recipe.
func Default() Recipe {
	return Recipe{
		NGPU:                "1",
		Lang:                "jp",
		TokenType:           "char",
		FeatsType:           "raw",
		ASRConfig:           "conf/train_asr_conformer.yaml",
		InferenceConfig:     "conf/decode_asr.yaml",
		LMConfig:            "conf/train_lm.yaml",
		TrainSet:            "train_nodup",
		ValidSet:            "train_dev",
		TestSets:            "eval1 eval2 eval3",
		SpeedPerturbFactors: "0.9 1.0 1.1",
		LMTrainText:         "data/train_nodup/text",
	}
}

// Keys returns the recipe keys in argument order.
func Keys() []string {
	keys := make([]string, len(recipeFields))
	for i, f := range recipeFields {
		keys[i] = f.key
	}
	return keys
}

// Fields returns the recipe values in argument order.
func (r Recipe) Fields() []Field {
	fields := make([]Field, len(recipeFields))
	for i, f := range recipeFields {
		fields[i] = Field{Key: f.key, Value: *f.ptr(&r)}
	}
	return fields
}

// Get returns the value stored under key.
func (r Recipe) Get(key string) (string, error) {
	f, ok := lookup(key)
	if !ok {
		return "", &UnknownFieldError{Key: key}
	}
	return *f.ptr(&r), nil
}

// Set stores value under key.
func (r *Recipe) Set(key, value string) error {
	f, ok := lookup(key)
	if !ok {
		return &UnknownFieldError{Key: key}
	}
	*f.ptr(r) = value
	return nil
}

// Overlay returns r with every non-empty value of other applied on top.
func (r Recipe) Overlay(other Recipe) Recipe {
	out := r
	for _, f := range recipeFields {
		if v := *f.ptr(&other); v != "" {
			*f.ptr(&out) = v
		}
	}
	return out
}

// Validate fails when any field is empty. Values are not otherwise inspected.
func (r Recipe) Validate() error {
	var missing []string
	for _, f := range recipeFields {
		if *f.ptr(&r) == "" {
			missing = append(missing, f.key)
		}
	}
	if len(missing) > 0 {
		return &IncompleteRecipeError{Keys: missing}
	}
	return nil
}

// PrefixArgs returns the fixed "--key value" pairs in argument order.
func (r Recipe) PrefixArgs() []string {
	args := make([]string, 0, 2*len(recipeFields))
	for _, f := range recipeFields {
		args = append(args, "--"+f.key, *f.ptr(&r))
	}
	return args
}

// TrailingArgs returns the two fixed override flags appended last.
func TrailingArgs() []string {
	return append([]string(nil), trailingArgs...)
}

// Args returns PrefixArgs, then extra verbatim, then TrailingArgs.
// The result never aliases extra.
func (r Recipe) Args(extra []string) []string {
	prefix := r.PrefixArgs()
	args := make([]string, 0, len(prefix)+len(extra)+len(trailingArgs))
	args = append(args, prefix...)
	args = append(args, extra...)
	args = append(args, trailingArgs...)
	return args
}

func lookup(key string) (recipeField, bool) {
	for _, f := range recipeFields {
		if f.key == key {
			return f, true
		}
	}
	return recipeField{}, false
}

// Error implements the error interface.
func (e *IncompleteRecipeError) Error() string {
	return fmt.Sprintf("recipe is incomplete: no value for %s", strings.Join(e.Keys, ", "))
}

// Unwrap returns ErrIncompleteRecipe for errors.Is() compatibility.
func (e *IncompleteRecipeError) Unwrap() error { return ErrIncompleteRecipe }

// Error implements the error interface.
func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown recipe field %q (valid: %s)", e.Key, strings.Join(Keys(), ", "))
}

// Unwrap returns ErrUnknownField for errors.Is() compatibility.
func (e *UnknownFieldError) Unwrap() error { return ErrUnknownField }
