// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asrrun/asrrun/internal/issue"
	"github.com/asrrun/asrrun/internal/tokenize"
)

type tokenizeFlags struct {
	input, output string
	field         string
	delimiter     string
	tokenType     string
	spaceSymbol   string
	jointSymbol   string

	charNLSymbols, phoneNLSymbols string
	removeNLSymbols               bool
	prePhonemized                 bool

	writeVocabulary     bool
	charVocabularySize  int
	phoneVocabularySize int
	cutoff              int
	addSymbols          []string
	addNonsplitSymbols  []string
}

// newTokenizeCommand creates the `asrrun tokenize` command.
func newTokenizeCommand(app *App) *cobra.Command {
	var f tokenizeFlags

	cmd := &cobra.Command{
		Use:   "tokenize",
		Short: "Tokenize text into parallel char and phone streams",
		Long: `Tokenize text into parallel character and phone token streams, or build
their vocabularies with --write-vocabulary.

--output '-' writes both streams to stdout (char line, then phone line).
Otherwise it takes 'PHONE_PATH,CHAR_PATH'.`,
		Example: `  asrrun tokenize -i data/train/text -o - -f 2-
  asrrun tokenize -i dump/text -o data/phone_tokens.txt,data/char_tokens.txt \
    --write-vocabulary --cutoff 0 --add-symbol '<blank>:0' --add-symbol '<unk>:1' --add-symbol '<sos/eos>:-1'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), "")
			if err != nil {
				return err
			}

			opts, err := f.options()
			if err != nil {
				return tokenizeError(err)
			}
			opts.Logger = s.logger

			in, closeIn, err := openInput(app, f.input)
			if err != nil {
				return tokenizeError(err)
			}
			defer closeIn()

			outs, err := openTokenizeOutputs(app, f.output)
			if err != nil {
				return tokenizeError(err)
			}

			stats, runErr := tokenize.Run(cmd.Context(), opts, in, outs.char, outs.phone)
			if err := errors.Join(runErr, outs.close()); err != nil {
				return tokenizeError(err)
			}
			s.logger.Debug("tokenize finished", "lines", stats.Lines)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.input, "input", "i", "", "input text file ('-' for stdin)")
	fl.StringVarP(&f.output, "output", "o", "", "'-' for stdout, or PHONE_PATH,CHAR_PATH")
	fl.StringVarP(&f.field, "field", "f", "", "1-based column range of the text, e.g. '2-'")
	fl.StringVarP(&f.delimiter, "delimiter", "d", "", "column delimiter (default whitespace)")
	fl.StringVarP(&f.tokenType, "token-type", "t", tokenize.TokenTypeCharPhone, "token type")
	fl.StringVar(&f.spaceSymbol, "space-symbol", tokenize.DefaultSpaceSymbol, "symbol replacing a space in char tokens")
	fl.StringVar(&f.jointSymbol, "joint-symbol", tokenize.DefaultJointSymbol, "separator between text and phones of pre-phonemized lines")
	fl.StringVar(&f.charNLSymbols, "char-non-linguistic-symbols", "", "file listing char non-linguistic symbols")
	fl.StringVar(&f.phoneNLSymbols, "phone-non-linguistic-symbols", "", "file listing phone non-linguistic symbols")
	fl.BoolVar(&f.removeNLSymbols, "remove-non-linguistic-symbols", false, "drop non-linguistic symbols from the output")
	fl.BoolVar(&f.prePhonemized, "pre-phonemized", false, "input lines are 'text<joint>phones'")
	fl.BoolVar(&f.writeVocabulary, "write-vocabulary", false, "write vocabularies instead of tokenized text")
	fl.IntVar(&f.charVocabularySize, "char-vocabulary-size", -1, "char vocabulary size, including added symbols (-1 for unlimited)")
	fl.IntVar(&f.phoneVocabularySize, "phone-vocabulary-size", -1, "phone vocabulary size, including added symbols (-1 for unlimited)")
	fl.IntVar(&f.cutoff, "cutoff", 0, "drop tokens seen this many times or fewer")
	fl.StringArrayVar(&f.addSymbols, "add-symbol", nil, "insert 'symbol:index' into both vocabularies (repeatable)")
	fl.StringArrayVar(&f.addNonsplitSymbols, "add-nonsplit-symbol", nil, "insert 'symbol:index' and never split it (repeatable)")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func (f *tokenizeFlags) options() (tokenize.Options, error) {
	opts := tokenize.Options{
		TokenType:                  f.tokenType,
		Delimiter:                  f.delimiter,
		SpaceSymbol:                f.spaceSymbol,
		JointSymbol:                f.jointSymbol,
		RemoveNonLinguisticSymbols: f.removeNLSymbols,
		PrePhonemized:              f.prePhonemized,
		WriteVocabulary:            f.writeVocabulary,
		CharVocabularySize:         f.charVocabularySize,
		PhoneVocabularySize:        f.phoneVocabularySize,
		Cutoff:                     f.cutoff,
		AddSymbols:                 f.addSymbols,
		AddNonsplitSymbols:         f.addNonsplitSymbols,
	}

	if f.field != "" {
		field, err := tokenize.ParseField(f.field)
		if err != nil {
			return opts, err
		}
		opts.Field = &field
	}

	var err error
	if f.charNLSymbols != "" {
		if opts.CharNonLinguisticSymbols, err = tokenize.LoadSymbols(f.charNLSymbols); err != nil {
			return opts, err
		}
	}
	if f.phoneNLSymbols != "" {
		if opts.PhoneNonLinguisticSymbols, err = tokenize.LoadSymbols(f.phoneNLSymbols); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// tokenizeOutputs holds the two destination streams. On stdout both share
// one buffer so char and phone lines keep their interleaving.
type tokenizeOutputs struct {
	char, phone *bufio.Writer
	closers     []io.Closer
}

func openTokenizeOutputs(app *App, target string) (*tokenizeOutputs, error) {
	if target == "-" {
		w := bufio.NewWriter(app.stdout)
		return &tokenizeOutputs{char: w, phone: w}, nil
	}

	phonePath, charPath, ok := strings.Cut(target, ",")
	if !ok || phonePath == "" || charPath == "" || strings.Contains(charPath, ",") {
		return nil, fmt.Errorf("output must be '-' or PHONE_PATH,CHAR_PATH, got %q", target)
	}

	outs := &tokenizeOutputs{}
	for _, target := range []struct {
		path string
		w    **bufio.Writer
	}{{phonePath, &outs.phone}, {charPath, &outs.char}} {
		if err := os.MkdirAll(filepath.Dir(target.path), 0o755); err != nil {
			_ = outs.close()
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
		file, err := os.Create(target.path)
		if err != nil {
			_ = outs.close()
			return nil, fmt.Errorf("failed to create output: %w", err)
		}
		outs.closers = append(outs.closers, file)
		*target.w = bufio.NewWriter(file)
	}
	return outs, nil
}

// close flushes both writers and closes the files.
func (o *tokenizeOutputs) close() error {
	var errs []error
	for _, w := range []*bufio.Writer{o.char, o.phone} {
		if w != nil {
			errs = append(errs, w.Flush())
		}
	}
	for _, c := range o.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// openInput opens path for reading; "-" is the App's stdin.
func openInput(app *App, path string) (io.Reader, func(), error) {
	if path == "-" {
		return app.stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func tokenizeError(err error) error {
	return issue.NewErrorContext().
		WithOperation("tokenize text").
		WithSuggestion("Fields are 1-based ranges such as '2-', '2-5' or '-5'").
		WithSuggestion("Added symbols take the form 'symbol:index', e.g. '<blank>:0' or '<sos/eos>:-1'").
		Wrap(err).
		BuildError()
}
