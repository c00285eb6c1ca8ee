// SPDX-License-Identifier: MPL-2.0

package phonemize

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/asrrun/asrrun/internal/tokenize"
)

const (
	// DefaultField skips the utterance id column.
	DefaultField = "2-"
	// DefaultDelimiter separates the id from the text.
	DefaultDelimiter = " "
	// DefaultBatchSize bounds how many lines go through one g2p call.
	DefaultBatchSize = 512

	maxLineSize = 16 << 20
)

// Options configure AddPhonemes. Zero values select the defaults.
type Options struct {
	Field       *tokenize.Field
	Delimiter   string
	JointSymbol string
	BatchSize   int
}

func (o Options) withDefaults() (Options, error) {
	if o.Field == nil {
		f, err := tokenize.ParseField(DefaultField)
		if err != nil {
			return o, err
		}
		o.Field = &f
	}
	if o.Delimiter == "" {
		o.Delimiter = DefaultDelimiter
	}
	if o.JointSymbol == "" {
		o.JointSymbol = tokenize.DefaultJointSymbol
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	return o, nil
}

// AddPhonemes writes every right-trimmed line of in followed by the joint
// symbol and the phonemes of its selected columns. It returns the number of
// lines written.
func AddPhonemes(ctx context.Context, g G2P, in io.Reader, out io.Writer, opts Options) (int, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return 0, err
	}

	var (
		written int
		lines   = make([]string, 0, opts.BatchSize)
		texts   = make([]string, 0, opts.BatchSize)
	)
	flush := func() error {
		if len(lines) == 0 {
			return nil
		}
		phones, err := g.Convert(ctx, texts)
		if err != nil {
			return err
		}
		if len(phones) != len(texts) {
			return &G2PError{Want: len(texts), Got: len(phones)}
		}
		for i, line := range lines {
			if _, err := io.WriteString(out, line+opts.JointSymbol+phones[i]+"\n"); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			written++
		}
		lines, texts = lines[:0], texts[:0]
		return nil
	}

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		line := strings.TrimRightFunc(sc.Text(), unicode.IsSpace)
		lines = append(lines, line)
		texts = append(texts, tokenize.SelectColumns(line, *opts.Field, opts.Delimiter))
		if len(lines) == opts.BatchSize {
			if err := flush(); err != nil {
				return written, err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return written, fmt.Errorf("failed to read input: %w", err)
	}
	if err := flush(); err != nil {
		return written, err
	}
	return written, nil
}
