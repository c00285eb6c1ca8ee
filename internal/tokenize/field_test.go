// SPDX-License-Identifier: MPL-2.0

package tokenize

import (
	"errors"
	"slices"
	"testing"
)

func TestParseField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Field
	}{
		{"1", Field{Start: 0, End: 1, HasEnd: true}},
		{"2", Field{Start: 1, End: 2, HasEnd: true}},
		{"2-", Field{Start: 1}},
		{"2-5", Field{Start: 1, End: 5, HasEnd: true}},
		{"-5", Field{Start: 0, End: 5, HasEnd: true}},
		{" 3- ", Field{Start: 2}},
		{"2--1", Field{Start: 1, End: -1, HasEnd: true}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseField(tt.in)
			if err != nil {
				t.Fatalf("ParseField(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseField(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseField_Errors(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"0", "0-", "0-3", "a", "a-", "1-b", ""} {
		t.Run(in, func(t *testing.T) {
			t.Parallel()

			_, err := ParseField(in)
			if !errors.Is(err, ErrFieldFormat) {
				t.Fatalf("ParseField(%q) error = %v, want ErrFieldFormat", in, err)
			}
			var fe *FieldFormatError
			if !errors.As(err, &fe) {
				t.Fatalf("error type = %T, want *FieldFormatError", err)
			}
		})
	}
}

func TestFieldFormatError_Message(t *testing.T) {
	t.Parallel()

	err := &FieldFormatError{Value: "0"}
	want := "format error: e.g. '2-', '2-5', or '-5': 0"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestFieldApply(t *testing.T) {
	t.Parallel()

	cols := []string{"a", "b", "c", "d"}
	tests := []struct {
		field string
		want  []string
	}{
		{"1", []string{"a"}},
		{"2-", []string{"b", "c", "d"}},
		{"2-3", []string{"b", "c"}},
		{"-2", []string{"a", "b"}},
		{"3-10", []string{"c", "d"}},
		{"9-", nil},
		{"5", nil},
		{"1--1", []string{"a", "b", "c"}},
		{"1--9", nil},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			t.Parallel()

			f, err := ParseField(tt.field)
			if err != nil {
				t.Fatalf("ParseField(%q) error: %v", tt.field, err)
			}
			if got := f.Apply(cols); !slices.Equal(got, tt.want) {
				t.Errorf("Apply() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFieldString(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"1", "4", "2-", "2-5", "-5"} {
		f, err := ParseField(in)
		if err != nil {
			t.Fatalf("ParseField(%q) error: %v", in, err)
		}
		if got := f.String(); got != in {
			t.Errorf("ParseField(%q).String() = %q", in, got)
		}
	}
}

func TestSelectColumns(t *testing.T) {
	t.Parallel()

	f, err := ParseField("2-")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		line      string
		delimiter string
		want      string
	}{
		{"whitespace runs", "utt1   hello \t world", "", "hello world"},
		{"explicit space keeps empties", "utt1  hello", " ", " hello"},
		{"custom delimiter", "utt1|a b|c", "|", "a b|c"},
		{"single column", "utt1", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := SelectColumns(tt.line, f, tt.delimiter); got != tt.want {
				t.Errorf("SelectColumns(%q, %q) = %q, want %q", tt.line, tt.delimiter, got, tt.want)
			}
		})
	}
}
