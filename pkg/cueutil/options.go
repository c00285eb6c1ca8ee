// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize is the largest CUE document accepted (1 MiB).
const DefaultMaxFileSize int64 = 1 << 20

type (
	// Option configures Schema.Unify and Decode.
	Option func(*options)

	options struct {
		filename    string
		maxFileSize int64
		concrete    bool
	}
)

func defaultOptions() options {
	return options{
		maxFileSize: DefaultMaxFileSize,
		concrete:    true,
	}
}

func (o options) displayName() string {
	if o.filename == "" {
		return "<input>"
	}
	return o.filename
}

// WithFilename sets the filename used in error messages.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(size int64) Option {
	return func(o *options) { o.maxFileSize = size }
}

// WithConcrete controls whether every value must be concrete after unification.
// Schemas with optional fields and defaults should disable it.
func WithConcrete(concrete bool) Option {
	return func(o *options) { o.concrete = concrete }
}
