// SPDX-License-Identifier: MPL-2.0

package tokenize

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

const (
	// TokenTypeCharPhone is the only supported token type.
	TokenTypeCharPhone = "char_phone"

	// DefaultSpaceSymbol replaces a literal space in character tokens.
	DefaultSpaceSymbol = "<space>"
	// DefaultJointSymbol separates text from its phonemes in pre-phonemized lines.
	DefaultJointSymbol = "@"
)

var (
	// ErrUnsupportedTokenType is the sentinel error wrapped by UnsupportedTokenTypeError.
	ErrUnsupportedTokenType = errors.New("unsupported token type")

	// ErrMissingJointSymbol is returned when a pre-phonemized line has no joint symbol.
	ErrMissingJointSymbol = errors.New("missing joint symbol")
)

type (
	// CharTokenizer splits text into single characters, keeping registered
	// non-linguistic symbols (e.g. "<noise>") as whole tokens.
	CharTokenizer struct {
		NonLinguisticSymbols []string
		// NonsplitSymbols are always kept whole, even when Remove is set.
		NonsplitSymbols []string
		SpaceSymbol     string
		// Remove drops non-linguistic symbols instead of emitting them.
		Remove bool
	}

	// CharPhoneTokenizer produces parallel character and phone token streams.
	CharPhoneTokenizer struct {
		Char          *CharTokenizer
		Phone         *CharTokenizer
		JointSymbol   string
		PrePhonemized bool
	}

	// Tokens holds the two token streams for one line.
	Tokens struct {
		Char  []string
		Phone []string
	}

	// UnsupportedTokenTypeError is returned by NewTokenizer for anything but char_phone.
	UnsupportedTokenTypeError struct {
		TokenType string
	}

	// MissingJointSymbolError reports the offending line of a pre-phonemized input.
	MissingJointSymbolError struct {
		JointSymbol string
		Line        string
	}
)

// NewTokenizer builds the tokenizer for tokenType from opts.
func NewTokenizer(tokenType string, opts Options) (*CharPhoneTokenizer, error) {
	if tokenType != TokenTypeCharPhone {
		return nil, &UnsupportedTokenTypeError{TokenType: tokenType}
	}

	space := opts.SpaceSymbol
	if space == "" {
		space = DefaultSpaceSymbol
	}
	joint := opts.JointSymbol
	if joint == "" {
		joint = DefaultJointSymbol
	}

	nonsplit, err := symbolNames(opts.AddNonsplitSymbols)
	if err != nil {
		return nil, err
	}

	return &CharPhoneTokenizer{
		Char: &CharTokenizer{
			NonLinguisticSymbols: opts.CharNonLinguisticSymbols,
			NonsplitSymbols:      nonsplit,
			SpaceSymbol:          space,
			Remove:               opts.RemoveNonLinguisticSymbols,
		},
		Phone: &CharTokenizer{
			NonLinguisticSymbols: opts.PhoneNonLinguisticSymbols,
			NonsplitSymbols:      nonsplit,
			SpaceSymbol:          space,
			Remove:               opts.RemoveNonLinguisticSymbols,
		},
		JointSymbol:   joint,
		PrePhonemized: opts.PrePhonemized,
	}, nil
}

// TextToTokens scans line left to right. Nonsplit symbols are matched
// first, then non-linguistic symbols, each in list order.
func (t *CharTokenizer) TextToTokens(line string) []string {
	tokens := make([]string, 0, utf8.RuneCountInString(line))
	for line != "" {
		if sym, keep, ok := t.matchSymbol(line); ok {
			if keep {
				tokens = append(tokens, sym)
			}
			line = line[len(sym):]
			continue
		}

		r, size := utf8.DecodeRuneInString(line)
		tok := line[:size]
		if r == ' ' {
			tok = t.space()
		}
		tokens = append(tokens, tok)
		line = line[size:]
	}
	return tokens
}

// TokensToText joins tokens back into text, turning the space symbol into " ".
func (t *CharTokenizer) TokensToText(tokens []string) string {
	var sb strings.Builder
	space := t.space()
	for _, tok := range tokens {
		if tok == space {
			sb.WriteByte(' ')
			continue
		}
		sb.WriteString(tok)
	}
	return sb.String()
}

func (t *CharTokenizer) matchSymbol(line string) (sym string, keep, ok bool) {
	for _, s := range t.NonsplitSymbols {
		if s != "" && strings.HasPrefix(line, s) {
			return s, true, true
		}
	}
	for _, s := range t.NonLinguisticSymbols {
		if s != "" && strings.HasPrefix(line, s) {
			return s, !t.Remove, true
		}
	}
	return "", false, false
}

func (t *CharTokenizer) space() string {
	if t.SpaceSymbol == "" {
		return DefaultSpaceSymbol
	}
	return t.SpaceSymbol
}

// TextToTokens tokenizes one line into both streams. For pre-phonemized
// input the line is "text<joint>phones" and the phone part is already
// space-separated, so it is split on whitespace.
func (t *CharPhoneTokenizer) TextToTokens(line string) (Tokens, error) {
	if !t.PrePhonemized {
		return Tokens{
			Char:  t.Char.TextToTokens(line),
			Phone: t.Phone.TextToTokens(line),
		}, nil
	}

	text, phones, ok := strings.Cut(line, t.JointSymbol)
	if !ok {
		return Tokens{}, &MissingJointSymbolError{JointSymbol: t.JointSymbol, Line: line}
	}
	return Tokens{
		Char:  t.Char.TextToTokens(text),
		Phone: t.phoneFields(phones),
	}, nil
}

func (t *CharPhoneTokenizer) phoneFields(phones string) []string {
	fields := strings.Fields(phones)
	if !t.Phone.Remove || len(t.Phone.NonLinguisticSymbols) == 0 {
		return fields
	}
	kept := fields[:0]
	for _, f := range fields {
		if !isSymbol(f, t.Phone.NonLinguisticSymbols) || isSymbol(f, t.Phone.NonsplitSymbols) {
			kept = append(kept, f)
		}
	}
	return kept
}

func isSymbol(tok string, symbols []string) bool {
	for _, s := range symbols {
		if s == tok {
			return true
		}
	}
	return false
}

// LoadSymbols reads a non-linguistic symbol list, one symbol per line.
// Surrounding whitespace is trimmed and blank lines are skipped.
func LoadSymbols(path string) (symbols []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open symbol list: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			symbols = append(symbols, s)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read symbol list %s: %w", path, err)
	}
	return symbols, nil
}

// Error implements the error interface.
func (e *UnsupportedTokenTypeError) Error() string {
	return fmt.Sprintf("unsupported token type %q (supported: %s)", e.TokenType, TokenTypeCharPhone)
}

// Unwrap returns ErrUnsupportedTokenType for errors.Is() compatibility.
func (e *UnsupportedTokenTypeError) Unwrap() error { return ErrUnsupportedTokenType }

// Error implements the error interface.
func (e *MissingJointSymbolError) Error() string {
	return fmt.Sprintf("line has no joint symbol %q: %q", e.JointSymbol, e.Line)
}

// Unwrap returns ErrMissingJointSymbol for errors.Is() compatibility.
func (e *MissingJointSymbolError) Unwrap() error { return ErrMissingJointSymbol }
