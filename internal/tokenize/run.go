// SPDX-License-Identifier: MPL-2.0

package tokenize

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/asrrun/asrrun/internal/logging"
)

const maxLineSize = 16 << 20

type (
	// Options configure a tokenization run.
	Options struct {
		TokenType string
		// Field selects text columns; nil keeps the whole line.
		Field *Field
		// Delimiter splits columns; empty means runs of whitespace.
		Delimiter string

		SpaceSymbol string
		JointSymbol string

		CharNonLinguisticSymbols   []string
		PhoneNonLinguisticSymbols  []string
		RemoveNonLinguisticSymbols bool
		PrePhonemized              bool

		// WriteVocabulary switches from tokenized text to frequency-sorted vocabularies.
		WriteVocabulary     bool
		CharVocabularySize  int
		PhoneVocabularySize int
		Cutoff              int
		AddSymbols          []string
		AddNonsplitSymbols  []string

		Logger *log.Logger
	}

	// Stats summarizes a run. OOV rates and vocabulary sizes are set in
	// vocabulary mode only.
	Stats struct {
		Lines           int
		CharTokens      int
		PhoneTokens     int
		CharVocabulary  int
		PhoneVocabulary int
		CharOOVRate     float64
		PhoneOOVRate    float64
	}
)

// Run tokenizes every line of in. In text mode each line produces one
// space-joined line on charOut and on phoneOut. In vocabulary mode the
// vocabularies are written once the input is exhausted. The two writers
// may be the same; writes are not buffered here.
func Run(ctx context.Context, opts Options, in io.Reader, charOut, phoneOut io.Writer) (*Stats, error) {
	tokenType := opts.TokenType
	if tokenType == "" {
		tokenType = TokenTypeCharPhone
	}
	tok, err := NewTokenizer(tokenType, opts)
	if err != nil {
		return nil, err
	}

	var added, nonsplit []Symbol
	if opts.WriteVocabulary {
		if added, err = ParseSymbols(opts.AddSymbols); err != nil {
			return nil, err
		}
		if nonsplit, err = ParseSymbols(opts.AddNonsplitSymbols); err != nil {
			return nil, err
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	stats := &Stats{}
	charCount, phoneCount := newCounter(), newCounter()

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		line := strings.TrimRightFunc(sc.Text(), unicode.IsSpace)
		if opts.Field != nil {
			line = SelectColumns(line, *opts.Field, opts.Delimiter)
		}

		tokens, err := tok.TextToTokens(line)
		if err != nil {
			return stats, fmt.Errorf("line %d: %w", stats.Lines+1, err)
		}
		stats.Lines++
		stats.CharTokens += len(tokens.Char)
		stats.PhoneTokens += len(tokens.Phone)

		if opts.WriteVocabulary {
			charCount.add(tokens.Char)
			phoneCount.add(tokens.Phone)
			continue
		}
		if err := writeLine(charOut, strings.Join(tokens.Char, " ")); err != nil {
			return stats, err
		}
		if err := writeLine(phoneOut, strings.Join(tokens.Phone, " ")); err != nil {
			return stats, err
		}
	}
	if err := sc.Err(); err != nil {
		return stats, fmt.Errorf("failed to read input: %w", err)
	}

	if !opts.WriteVocabulary {
		logger.Debug("tokenized text", "lines", stats.Lines, "char_tokens", stats.CharTokens, "phone_tokens", stats.PhoneTokens)
		return stats, nil
	}

	charVocab, err := buildVocabulary("char", charCount, opts.CharVocabularySize, opts.Cutoff, added, nonsplit)
	if err != nil {
		return stats, err
	}
	phoneVocab, err := buildVocabulary("phone", phoneCount, opts.PhoneVocabularySize, opts.Cutoff, added, nonsplit)
	if err != nil {
		return stats, err
	}

	for _, w := range charVocab.words {
		if err := writeLine(charOut, w); err != nil {
			return stats, err
		}
	}
	for _, w := range phoneVocab.words {
		if err := writeLine(phoneOut, w); err != nil {
			return stats, err
		}
	}

	stats.CharVocabulary, stats.PhoneVocabulary = len(charVocab.words), len(phoneVocab.words)
	stats.CharOOVRate, stats.PhoneOOVRate = charVocab.oovRate(), phoneVocab.oovRate()
	logger.Info(fmt.Sprintf("Char OOV rate = %g %%", stats.CharOOVRate))
	logger.Info(fmt.Sprintf("Phone OOV rate = %g %%", stats.PhoneOOVRate))

	return stats, nil
}

func writeLine(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s+"\n"); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
