// SPDX-License-Identifier: MPL-2.0

package tokenize

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func TestParseSymbol(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Symbol
		wantErr bool
	}{
		{in: "<blank>:0", want: Symbol{Name: "<blank>", Index: 0}},
		{in: "<sos/eos>:-1", want: Symbol{Name: "<sos/eos>", Index: -1}},
		{in: "<unk>:1", want: Symbol{Name: "<unk>", Index: 1}},
		{in: " <blank> :0", want: Symbol{Name: "<blank>", Index: 0}},
		{in: "<blank>", wantErr: true},
		{in: " :1", wantErr: true},
		{in: "a:b:1", wantErr: true},
		{in: ":1", wantErr: true},
		{in: "<x>:one", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseSymbol(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrSymbolFormat) {
					t.Fatalf("ParseSymbol(%q) error = %v, want ErrSymbolFormat", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSymbol(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseSymbol(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCounterSorted_StableTies(t *testing.T) {
	t.Parallel()

	c := newCounter()
	c.add([]string{"x", "y", "z", "y", "z", "w"})

	var got []string
	for _, e := range c.sorted() {
		got = append(got, e.token)
	}
	if want := []string{"y", "z", "x", "w"}; !slices.Equal(got, want) {
		t.Errorf("sorted() = %q, want %q", got, want)
	}
	if c.total != 6 {
		t.Errorf("total = %d, want 6", c.total)
	}
}

func TestBuildVocabulary(t *testing.T) {
	t.Parallel()

	counts := func() *counter {
		c := newCounter()
		c.add([]string{"a", "a", "a", "b", "b", "c"})
		return c
	}
	blank := Symbol{Name: "<blank>", Index: 0}
	unk := Symbol{Name: "<unk>", Index: 1}
	eos := Symbol{Name: "<sos/eos>", Index: -1}

	tests := []struct {
		name     string
		size     int
		cutoff   int
		added    []Symbol
		nonsplit []Symbol
		want     []string
		wantOOV  float64
	}{
		{name: "all tokens", want: []string{"a", "b", "c"}},
		{name: "cutoff drops rare", cutoff: 1, want: []string{"a", "b"}, wantOOV: 100.0 / 6},
		{name: "size cap", size: 1, want: []string{"a"}, wantOOV: 50},
		{
			name:  "added symbols",
			added: []Symbol{blank, unk, eos},
			want:  []string{"<blank>", "<unk>", "a", "b", "c", "<sos/eos>"},
		},
		{
			name:    "size counts added symbols",
			size:    4,
			added:   []Symbol{blank, unk, eos},
			want:    []string{"<blank>", "<unk>", "a", "<sos/eos>"},
			wantOOV: 50,
		},
		{
			name:     "size excludes nonsplit symbols",
			size:     3,
			added:    []Symbol{blank},
			nonsplit: []Symbol{{Name: "<sc>", Index: -1}},
			want:     []string{"<blank>", "a", "b", "<sc>"},
			wantOOV:  100.0 / 6,
		},
		{
			name:     "nonsplit symbols only",
			size:     1,
			nonsplit: []Symbol{{Name: "<sc>", Index: -1}},
			want:     []string{"a", "<sc>"},
			wantOOV:  50,
		},
		{
			name:  "index past end appends",
			added: []Symbol{{Name: "<x>", Index: 99}},
			want:  []string{"a", "b", "c", "<x>"},
		},
		{
			name:  "negative index from end",
			added: []Symbol{{Name: "<x>", Index: -2}},
			want:  []string{"a", "b", "<x>", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v, err := buildVocabulary("char", counts(), tt.size, tt.cutoff, tt.added, tt.nonsplit)
			if err != nil {
				t.Fatalf("buildVocabulary() error: %v", err)
			}
			if !slices.Equal(v.words, tt.want) {
				t.Errorf("words = %q, want %q", v.words, tt.want)
			}
			if got := v.oovRate(); math.Abs(got-tt.wantOOV) > 1e-9 {
				t.Errorf("oovRate() = %v, want %v", got, tt.wantOOV)
			}
		})
	}
}

func TestBuildVocabulary_TooSmall(t *testing.T) {
	t.Parallel()

	_, err := buildVocabulary("phone", newCounter(), 1, 0, []Symbol{{Name: "<blank>"}, {Name: "<unk>", Index: 1}}, nil)
	if !errors.Is(err, ErrVocabularyTooSmall) {
		t.Fatalf("error = %v, want ErrVocabularyTooSmall", err)
	}
	if want := "phone vocabulary size is too small: 1"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestOOVRate_EmptyInput(t *testing.T) {
	t.Parallel()

	if got := (vocabulary{}).oovRate(); got != 0 {
		t.Errorf("oovRate() = %v, want 0", got)
	}
}
