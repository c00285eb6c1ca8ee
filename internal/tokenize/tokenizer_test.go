// SPDX-License-Identifier: MPL-2.0

package tokenize

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/asrrun/asrrun/internal/testutil"
)

func TestCharTokenizer_TextToTokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tok  CharTokenizer
		line string
		want []string
	}{
		{
			name: "plain",
			tok:  CharTokenizer{},
			line: "ab c",
			want: []string{"a", "b", "<space>", "c"},
		},
		{
			name: "multibyte runes",
			tok:  CharTokenizer{SpaceSymbol: "_"},
			line: "こん にち",
			want: []string{"こ", "ん", "_", "に", "ち"},
		},
		{
			name: "non-linguistic symbol kept whole",
			tok:  CharTokenizer{NonLinguisticSymbols: []string{"<noise>"}},
			line: "a<noise>b",
			want: []string{"a", "<noise>", "b"},
		},
		{
			name: "non-linguistic symbol removed",
			tok:  CharTokenizer{NonLinguisticSymbols: []string{"<noise>"}, Remove: true},
			line: "a<noise>b",
			want: []string{"a", "b"},
		},
		{
			name: "nonsplit symbol survives remove",
			tok:  CharTokenizer{NonLinguisticSymbols: []string{"<noise>"}, NonsplitSymbols: []string{"<sc>"}, Remove: true},
			line: "<sc>a<noise>",
			want: []string{"<sc>", "a"},
		},
		{
			name: "first symbol in list order wins",
			tok:  CharTokenizer{NonLinguisticSymbols: []string{"<n", "<noise>"}},
			line: "<noise>",
			want: []string{"<n", "o", "i", "s", "e", ">"},
		},
		{
			name: "empty line",
			tok:  CharTokenizer{},
			line: "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.tok.TextToTokens(tt.line); !slices.Equal(got, tt.want) {
				t.Errorf("TextToTokens(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestCharTokenizer_TokensToText(t *testing.T) {
	t.Parallel()

	tok := CharTokenizer{NonLinguisticSymbols: []string{"<noise>"}}
	line := "hello <noise> world"
	if got := tok.TokensToText(tok.TextToTokens(line)); got != line {
		t.Errorf("round trip = %q, want %q", got, line)
	}
}

func TestNewTokenizer_Unsupported(t *testing.T) {
	t.Parallel()

	for _, typ := range []string{"bpe", "word", "char", "phn", ""} {
		_, err := NewTokenizer(typ, Options{})
		if !errors.Is(err, ErrUnsupportedTokenType) {
			t.Errorf("NewTokenizer(%q) error = %v, want ErrUnsupportedTokenType", typ, err)
		}
	}
}

func TestNewTokenizer_Defaults(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenizer(TokenTypeCharPhone, Options{AddNonsplitSymbols: []string{"<sc>:2"}})
	if err != nil {
		t.Fatalf("NewTokenizer() error: %v", err)
	}
	if tok.JointSymbol != DefaultJointSymbol {
		t.Errorf("JointSymbol = %q, want %q", tok.JointSymbol, DefaultJointSymbol)
	}
	if tok.Char.SpaceSymbol != DefaultSpaceSymbol {
		t.Errorf("SpaceSymbol = %q, want %q", tok.Char.SpaceSymbol, DefaultSpaceSymbol)
	}
	if !slices.Equal(tok.Char.NonsplitSymbols, []string{"<sc>"}) || !slices.Equal(tok.Phone.NonsplitSymbols, []string{"<sc>"}) {
		t.Errorf("nonsplit symbols = %q / %q, want [<sc>]", tok.Char.NonsplitSymbols, tok.Phone.NonsplitSymbols)
	}

	if _, err := NewTokenizer(TokenTypeCharPhone, Options{AddNonsplitSymbols: []string{"<sc>"}}); !errors.Is(err, ErrSymbolFormat) {
		t.Errorf("malformed nonsplit symbol error = %v, want ErrSymbolFormat", err)
	}
}

func TestCharPhoneTokenizer_SameLine(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenizer(TokenTypeCharPhone, Options{PhoneNonLinguisticSymbols: []string{"ch"}})
	if err != nil {
		t.Fatal(err)
	}
	got, err := tok.TextToTokens("chi")
	if err != nil {
		t.Fatalf("TextToTokens() error: %v", err)
	}
	if want := []string{"c", "h", "i"}; !slices.Equal(got.Char, want) {
		t.Errorf("Char = %q, want %q", got.Char, want)
	}
	if want := []string{"ch", "i"}; !slices.Equal(got.Phone, want) {
		t.Errorf("Phone = %q, want %q", got.Phone, want)
	}
}

func TestCharPhoneTokenizer_PrePhonemized(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenizer(TokenTypeCharPhone, Options{PrePhonemized: true})
	if err != nil {
		t.Fatal(err)
	}

	got, err := tok.TextToTokens("今日は@ ky o: w a")
	if err != nil {
		t.Fatalf("TextToTokens() error: %v", err)
	}
	if want := []string{"今", "日", "は"}; !slices.Equal(got.Char, want) {
		t.Errorf("Char = %q, want %q", got.Char, want)
	}
	if want := []string{"ky", "o:", "w", "a"}; !slices.Equal(got.Phone, want) {
		t.Errorf("Phone = %q, want %q", got.Phone, want)
	}

	_, err = tok.TextToTokens("no joint here")
	if !errors.Is(err, ErrMissingJointSymbol) {
		t.Errorf("missing joint error = %v, want ErrMissingJointSymbol", err)
	}
}

func TestCharPhoneTokenizer_PrePhonemizedRemove(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenizer(TokenTypeCharPhone, Options{
		PrePhonemized:              true,
		PhoneNonLinguisticSymbols:  []string{"pau"},
		RemoveNonLinguisticSymbols: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	got, err := tok.TextToTokens("a@a pau i")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"a", "i"}; !slices.Equal(got.Phone, want) {
		t.Errorf("Phone = %q, want %q", got.Phone, want)
	}
}

func TestLoadSymbols(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nlsyms.txt")
	testutil.MustWriteFile(t, path, "<noise>\n\n  <laugh>  \n<unk>\n")

	got, err := LoadSymbols(path)
	if err != nil {
		t.Fatalf("LoadSymbols() error: %v", err)
	}
	if want := []string{"<noise>", "<laugh>", "<unk>"}; !slices.Equal(got, want) {
		t.Errorf("LoadSymbols() = %q, want %q", got, want)
	}

	if _, err := LoadSymbols(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("LoadSymbols() on missing file returned nil error")
	}
}
