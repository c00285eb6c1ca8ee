// SPDX-License-Identifier: MPL-2.0

package tokenize

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

var (
	// ErrSymbolFormat is the sentinel error wrapped by SymbolFormatError.
	ErrSymbolFormat = errors.New("symbol format error")

	// ErrVocabularyTooSmall is the sentinel error wrapped by VocabularySizeError.
	ErrVocabularyTooSmall = errors.New("vocabulary size is too small")
)

type (
	// Symbol is a "sym:idx" entry inserted into a vocabulary at a fixed
	// position. A negative Index counts from the end (-1 appends).
	Symbol struct {
		Name  string
		Index int
	}

	// SymbolFormatError is returned for entries that are not "sym:idx".
	SymbolFormatError struct {
		Value string
	}

	// VocabularySizeError is returned when the requested size cannot hold
	// the added symbols.
	VocabularySizeError struct {
		Stream string
		Size   int
	}

	// counter counts tokens, remembering first-seen order for stable ties.
	counter struct {
		counts map[string]int
		order  []string
		total  int
	}

	entry struct {
		token string
		count int
	}
)

// ParseSymbol parses a "sym:idx" entry such as "<blank>:0" or "<sos/eos>:-1".
func ParseSymbol(s string) (Symbol, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return Symbol{}, &SymbolFormatError{Value: s}
	}
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return Symbol{}, &SymbolFormatError{Value: s}
	}
	idx, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Symbol{}, &SymbolFormatError{Value: s}
	}
	return Symbol{Name: name, Index: idx}, nil
}

// ParseSymbols parses every entry, stopping at the first malformed one.
func ParseSymbols(entries []string) ([]Symbol, error) {
	symbols := make([]Symbol, 0, len(entries))
	for _, e := range entries {
		sym, err := ParseSymbol(e)
		if err != nil {
			return nil, err
		}
		symbols = append(symbols, sym)
	}
	return symbols, nil
}

func symbolNames(entries []string) ([]string, error) {
	symbols, err := ParseSymbols(entries)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(symbols))
	for i, s := range symbols {
		names[i] = s.Name
	}
	return names, nil
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(tokens []string) {
	for _, tok := range tokens {
		if _, seen := c.counts[tok]; !seen {
			c.order = append(c.order, tok)
		}
		c.counts[tok]++
		c.total++
	}
}

// sorted returns entries by descending count; equal counts keep first-seen order.
func (c *counter) sorted() []entry {
	entries := make([]entry, len(c.order))
	for i, tok := range c.order {
		entries[i] = entry{token: tok, count: c.counts[tok]}
	}
	slices.SortStableFunc(entries, func(a, b entry) int { return b.count - a.count })
	return entries
}

// vocabulary holds the final word list and the number of counted tokens it covers.
type vocabulary struct {
	words   []string
	inVocab int
	total   int
}

// oovRate is the percentage of counted tokens not covered by the vocabulary.
func (v vocabulary) oovRate() float64 {
	if v.total == 0 {
		return 0
	}
	return float64(v.total-v.inVocab) / float64(v.total) * 100
}

// buildVocabulary keeps the most frequent tokens above cutoff, then inserts
// added followed by nonsplit. A positive size bounds the counted tokens plus
// added; nonsplit symbols come on top of it.
func buildVocabulary(stream string, c *counter, size, cutoff int, added, nonsplit []Symbol) (vocabulary, error) {
	entries := c.sorted()

	kept := entries[:0]
	for _, e := range entries {
		if e.count > cutoff {
			kept = append(kept, e)
		}
	}
	entries = kept

	if size > 0 {
		if size < len(added) {
			return vocabulary{}, &VocabularySizeError{Stream: stream, Size: size}
		}
		if limit := size - len(added); len(entries) > limit {
			entries = entries[:limit]
		}
	}

	v := vocabulary{words: make([]string, 0, len(entries)+len(added)+len(nonsplit)), total: c.total}
	for _, e := range entries {
		v.words = append(v.words, e.token)
		v.inVocab += e.count
	}
	for _, sym := range append(slices.Clone(added), nonsplit...) {
		idx := sym.Index
		if idx < 0 {
			idx = len(v.words) + 1 + idx
		}
		v.words = insertAt(v.words, idx, sym.Name)
	}
	return v, nil
}

// insertAt clamps i the way list insertion does in most scripting languages:
// negative positions count from the end, out-of-range positions stick to
// the nearest edge.
func insertAt(words []string, i int, w string) []string {
	if i < 0 {
		i = max(len(words)+i, 0)
	}
	i = min(i, len(words))
	return slices.Insert(words, i, w)
}

// Error implements the error interface.
func (e *SymbolFormatError) Error() string {
	return fmt.Sprintf("format error: e.g. '<blank>:0': %s", e.Value)
}

// Unwrap returns ErrSymbolFormat for errors.Is() compatibility.
func (e *SymbolFormatError) Unwrap() error { return ErrSymbolFormat }

// Error implements the error interface.
func (e *VocabularySizeError) Error() string {
	return fmt.Sprintf("%s vocabulary size is too small: %d", e.Stream, e.Size)
}

// Unwrap returns ErrVocabularyTooSmall for errors.Is() compatibility.
func (e *VocabularySizeError) Unwrap() error { return ErrVocabularyTooSmall }
