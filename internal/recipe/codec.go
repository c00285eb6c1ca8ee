// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/asrrun/asrrun/pkg/cueutil"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Supported recipe file formats.
const (
	FormatCUE  Format = "cue"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

var (
	// ErrUnsupportedFormat is the sentinel error wrapped by UnsupportedFormatError.
	ErrUnsupportedFormat = errors.New("unsupported recipe format")
	// ErrInvalidValue is the sentinel error wrapped by InvalidValueError.
	ErrInvalidValue = errors.New("invalid recipe value")
)

//go:embed recipe_schema.cue
var recipeSchemaSource string

var recipeSchema = cueutil.MustCompile(recipeSchemaSource, "#Recipe")

type (
	// Format names a recipe file encoding.
	Format string

	// UnsupportedFormatError is returned for an unknown format name or file extension.
	UnsupportedFormatError struct {
		Value string
	}

	// InvalidValueError is returned when a decoded value is not a string.
	InvalidValueError struct {
		Key  string
		Type string
	}
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCUE, FormatTOML, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", &UnsupportedFormatError{Value: s}
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", &UnsupportedFormatError{Value: path}
	}
	f, err := ParseFormat(ext)
	if err != nil {
		return "", &UnsupportedFormatError{Value: path}
	}
	return f, nil
}

// Encode renders every field of r in the given format, in argument order.
func Encode(r Recipe, format Format) ([]byte, error) {
	switch format {
	case FormatCUE:
		return []byte(generateCUE(r)), nil
	case FormatTOML:
		return toml.Marshal(r)
	case FormatYAML:
		return yaml.Marshal(r)
	default:
		return nil, &UnsupportedFormatError{Value: string(format)}
	}
}

// Decode overlays the keys present in data onto base.
// Keys absent from data keep base's values; unknown keys are rejected.
func Decode(data []byte, format Format, base Recipe, filename string) (Recipe, error) {
	values, err := decodeValues(data, format, filename)
	if err != nil {
		return base, err
	}

	out := base
	for _, key := range Keys() {
		v, ok := values[key]
		if !ok {
			continue
		}
		if err := out.Set(key, v); err != nil {
			return base, err
		}
		delete(values, key)
	}
	if len(values) > 0 {
		return base, &UnknownFieldError{Key: slices.Sorted(maps.Keys(values))[0]}
	}
	return out, nil
}

// LoadFile reads a recipe file and overlays it onto base.
// The format is taken from the file extension.
func LoadFile(path string, base Recipe) (Recipe, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return base, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("failed to read recipe file: %w", err)
	}
	return Decode(data, format, base, path)
}

func decodeValues(data []byte, format Format, filename string) (map[string]string, error) {
	switch format {
	case FormatCUE:
		return cueutil.Decode[map[string]string](recipeSchema, data, cueutil.WithFilename(filename))
	case FormatTOML:
		if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, filename); err != nil {
			return nil, err
		}
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		values := make(map[string]string, len(raw))
		for k, v := range raw {
			s, ok := v.(string)
			if !ok {
				return nil, &InvalidValueError{Key: k, Type: fmt.Sprintf("%T", v)}
			}
			values[k] = s
		}
		return values, nil
	case FormatYAML:
		if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, filename); err != nil {
			return nil, err
		}
		// Scalars decode into strings verbatim, so `ngpu: 1` keeps its literal text.
		var values map[string]string
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		if values == nil {
			values = map[string]string{}
		}
		return values, nil
	default:
		return nil, &UnsupportedFormatError{Value: string(format)}
	}
}

func generateCUE(r Recipe) string {
	var sb strings.Builder
	sb.WriteString("// asrrun recipe\n")
	for _, f := range r.Fields() {
		fmt.Fprintf(&sb, "%s: %q\n", f.Key, f.Value)
	}
	return sb.String()
}

// Error implements the error interface.
func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported recipe format %q (valid: cue, toml, yaml)", e.Value)
}

// Unwrap returns ErrUnsupportedFormat for errors.Is() compatibility.
func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }

// Error implements the error interface.
func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("recipe field %q must be a string, got %s", e.Key, e.Type)
}

// Unwrap returns ErrInvalidValue for errors.Is() compatibility.
func (e *InvalidValueError) Unwrap() error { return ErrInvalidValue }
