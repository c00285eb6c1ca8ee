// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/asrrun/asrrun/internal/issue"
	"github.com/asrrun/asrrun/internal/phonemize"
	"github.com/asrrun/asrrun/internal/tokenize"
)

// newAddPhonemeCommand creates the `asrrun add-phoneme` command.
func newAddPhonemeCommand(app *App) *cobra.Command {
	var (
		input, output string
		g2pCommand    string
		jointSymbol   string
		field         string
		delimiter     string
		batchSize     int
	)

	cmd := &cobra.Command{
		Use:   "add-phoneme",
		Short: "Append g2p phonemes to every line of a transcript",
		Long: `Append the phonemes of each line to the line itself, as
'<line><joint><phonemes>', for use with 'asrrun tokenize --pre-phonemized'.

The g2p command reads one text per line on stdin and writes one phoneme
string per line on stdout, in order.`,
		Example: `  asrrun add-phoneme -i data/train/text -o data/train/text.phn \
    --g2p-command "python3 -c 'import sys,pyopenjtalk; [print(pyopenjtalk.g2p(l.rstrip())) for l in sys.stdin]'"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), "")
			if err != nil {
				return err
			}

			f, err := tokenize.ParseField(field)
			if err != nil {
				return g2pError(err)
			}

			in, closeIn, err := openInput(app, input)
			if err != nil {
				return g2pError(err)
			}
			defer closeIn()

			out, closeOut, err := openOutput(app, output)
			if err != nil {
				return g2pError(err)
			}

			g := &phonemize.CommandG2P{Command: g2pCommand}
			n, runErr := phonemize.AddPhonemes(cmd.Context(), g, in, out, phonemize.Options{
				Field:       &f,
				Delimiter:   delimiter,
				JointSymbol: jointSymbol,
				BatchSize:   batchSize,
			})
			if err := errors.Join(runErr, closeOut()); err != nil {
				return g2pError(err)
			}
			s.logger.Info("phonemes added", "lines", n)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&input, "input", "i", "", "input text file ('-' for stdin)")
	fl.StringVarP(&output, "output", "o", "", "output file ('-' for stdout)")
	fl.StringVar(&g2pCommand, "g2p-command", "", "g2p filter command (stdin to stdout, one line per text)")
	fl.StringVar(&jointSymbol, "joint-symbol", tokenize.DefaultJointSymbol, "separator between a line and its phonemes")
	fl.StringVarP(&field, "field", "f", phonemize.DefaultField, "1-based column range converted to phonemes")
	fl.StringVarP(&delimiter, "delimiter", "d", phonemize.DefaultDelimiter, "column delimiter")
	fl.IntVar(&batchSize, "batch-size", phonemize.DefaultBatchSize, "lines sent to one g2p process")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
	_ = cmd.MarkFlagRequired("g2p-command")

	return cmd
}

// openOutput creates path for buffered writing; "-" is the App's stdout.
// The returned close function flushes before closing.
func openOutput(app *App, path string) (io.Writer, func() error, error) {
	if path == "-" {
		w := bufio.NewWriter(app.stdout)
		return w, w.Flush, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output: %w", err)
	}
	w := bufio.NewWriter(f)
	return w, func() error { return errors.Join(w.Flush(), f.Close()) }, nil
}

func g2pError(err error) error {
	return issue.NewErrorContext().
		WithOperation("add phonemes").
		WithSuggestion("The g2p command must print exactly one line per input line").
		WithSuggestion("Run the g2p command by hand on a few lines to check its output").
		Wrap(err).
		BuildError()
}
