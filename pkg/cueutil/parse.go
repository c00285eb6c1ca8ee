// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Schema is one definition of an embedded CUE schema. Compile checks the
// source once; every document is then unified in its own cue.Context, so
// a Schema is safe for concurrent use and returned values belong to the
// caller alone.
type Schema struct {
	src  string
	path string
}

// Compile checks that src compiles and defines path (e.g. "#Config").
func Compile(src, path string) (*Schema, error) {
	if _, err := lookupDefinition(cuecontext.New(), src, path); err != nil {
		return nil, err
	}
	return &Schema{src: src, path: path}, nil
}

// MustCompile is Compile for embedded schemas; it panics on error.
func MustCompile(src, path string) *Schema {
	s, err := Compile(src, path)
	if err != nil {
		panic(err)
	}
	return s
}

// Path returns the definition path the schema was compiled for.
func (s *Schema) Path() string {
	return s.path
}

// Unify compiles data, unifies it with the definition and validates the
// result. Errors are formatted with FormatError against the configured
// filename.
func (s *Schema) Unify(data []byte, opts ...Option) (cue.Value, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	filename := o.displayName()

	if err := CheckFileSize(data, o.maxFileSize, filename); err != nil {
		return cue.Value{}, err
	}

	ctx := cuecontext.New()
	def, err := lookupDefinition(ctx, s.src, s.path)
	if err != nil {
		return cue.Value{}, err
	}

	doc := ctx.CompileBytes(data, cue.Filename(filename))
	if doc.Err() != nil {
		return cue.Value{}, FormatError(doc.Err(), filename)
	}

	unified := def.Unify(doc)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return cue.Value{}, FormatError(err, filename)
	}
	return unified, nil
}

// Decode is Unify followed by decoding the whole document into T.
func Decode[T any](s *Schema, data []byte, opts ...Option) (T, error) {
	var out T

	unified, err := s.Unify(data, opts...)
	if err != nil {
		return out, err
	}

	if err := unified.Decode(&out); err != nil {
		o := defaultOptions()
		for _, opt := range opts {
			opt(&o)
		}
		return out, FormatError(err, o.displayName())
	}
	return out, nil
}

func lookupDefinition(ctx *cue.Context, src, path string) (cue.Value, error) {
	root := ctx.CompileString(src)
	if root.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: failed to compile schema: %w", root.Err())
	}

	def := root.LookupPath(cue.ParsePath(path))
	if def.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", path, def.Err())
	}
	return def, nil
}
