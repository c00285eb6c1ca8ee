// SPDX-License-Identifier: MPL-2.0

package tokenize

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrFieldFormat is the sentinel error wrapped by FieldFormatError.
var ErrFieldFormat = errors.New("field format error")

type (
	// Field is a column range converted from a 1-based specification to a
	// 0-based half-open interval. End may be negative, counting from the end.
	Field struct {
		Start  int
		End    int
		HasEnd bool
	}

	// FieldFormatError is returned when a field specification cannot be parsed.
	FieldFormatError struct {
		Value string
	}
)

// ParseField converts a cut(1)-style specification: "N" selects column N,
// "N-" columns N onward, "N-M" columns N through M, and "-M" columns 1
// through M. Column numbers start at 1.
func ParseField(s string) (Field, error) {
	s = strings.TrimSpace(s)
	left, right, isRange := strings.Cut(s, "-")
	if !isRange {
		n, err := strconv.Atoi(s)
		if err != nil || n == 0 {
			return Field{}, &FieldFormatError{Value: s}
		}
		return Field{Start: n - 1, End: n, HasEnd: true}, nil
	}

	var f Field
	if left = strings.TrimSpace(left); left != "" {
		n, err := strconv.Atoi(left)
		if err != nil || n == 0 {
			return Field{}, &FieldFormatError{Value: s}
		}
		f.Start = n - 1
	}
	if right = strings.TrimSpace(right); right != "" {
		n, err := strconv.Atoi(right)
		if err != nil {
			return Field{}, &FieldFormatError{Value: s}
		}
		f.End, f.HasEnd = n, true
	}
	return f, nil
}

// Apply returns the selected columns, clamping out-of-range bounds the way
// slice expressions in most scripting languages do.
func (f Field) Apply(cols []string) []string {
	n := len(cols)
	start := min(max(f.Start, 0), n)
	end := n
	if f.HasEnd {
		end = f.End
		if end < 0 {
			end = max(end+n, 0)
		}
		end = min(end, n)
	}
	if start >= end {
		return nil
	}
	return cols[start:end]
}

// String renders the field in its 1-based form.
func (f Field) String() string {
	switch {
	case f.HasEnd && f.End == f.Start+1:
		return strconv.Itoa(f.Start + 1)
	case f.HasEnd:
		if f.Start == 0 {
			return "-" + strconv.Itoa(f.End)
		}
		return strconv.Itoa(f.Start+1) + "-" + strconv.Itoa(f.End)
	default:
		return strconv.Itoa(f.Start+1) + "-"
	}
}

// SelectColumns splits line on delimiter (runs of whitespace when empty),
// keeps the columns chosen by f and joins them back with the delimiter
// (a single space when empty).
func SelectColumns(line string, f Field, delimiter string) string {
	var cols []string
	sep := delimiter
	if delimiter == "" {
		cols = strings.Fields(line)
		sep = " "
	} else {
		cols = strings.Split(line, delimiter)
	}
	return strings.Join(f.Apply(cols), sep)
}

// Error implements the error interface.
func (e *FieldFormatError) Error() string {
	return fmt.Sprintf("format error: e.g. '2-', '2-5', or '-5': %s", e.Value)
}

// Unwrap returns ErrFieldFormat for errors.Is() compatibility.
func (e *FieldFormatError) Unwrap() error { return ErrFieldFormat }
