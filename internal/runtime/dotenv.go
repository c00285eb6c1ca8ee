// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// BuildEnv loads the dotenv files in order and then applies inline on top.
// Relative file paths resolve against baseDir (the current directory when
// empty). A path suffixed with '?' is optional and may be missing.
func BuildEnv(files []string, baseDir string, inline map[string]string) (map[string]string, error) {
	fromFiles := make(map[string]string)
	for _, path := range files {
		if err := LoadEnvFile(fromFiles, path, baseDir); err != nil {
			return nil, err
		}
	}
	return mergeEnv(fromFiles, inline), nil
}

// LoadEnvFile loads a dotenv file and merges its contents into env.
// Later calls override earlier values for the same keys.
func LoadEnvFile(env map[string]string, path, baseDir string) error {
	path, optional := strings.CutSuffix(path, "?")

	fullPath := filepath.FromSlash(path)
	if !filepath.IsAbs(fullPath) {
		if baseDir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current working directory: %w", err)
			}
			baseDir = wd
		}
		fullPath = filepath.Join(baseDir, fullPath)
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read env file '%s': %w", path, err)
	}

	return ParseEnvFile(env, content, path)
}

// ParseEnvFile parses dotenv format content and merges into the env map.
// Supported format:
//   - Lines starting with # are comments
//   - Empty lines are ignored
//   - KEY=value (unquoted, trailing " #comment" removed)
//   - KEY="value" (double-quoted, escape sequences: \n, \r, \t, \\, \", \$)
//   - KEY='value' (single-quoted, literal)
//   - export KEY=value (export prefix is optional and ignored)
//   - KEY= (empty value)
//
// The filename parameter is used for error messages.
func ParseEnvFile(env map[string]string, content []byte, filename string) error {
	for i, line := range strings.Split(string(content), "\n") {
		lineNum := i + 1

		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if rest, ok := strings.CutPrefix(line, "export "); ok {
			line = strings.TrimSpace(rest)
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			return fmt.Errorf("%s:%d: invalid format (missing '=')", filename, lineNum)
		}

		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("%s:%d: empty variable name", filename, lineNum)
		}

		parsed, err := parseEnvValue(value)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", filename, lineNum, err)
		}
		env[key] = parsed
	}

	return nil
}

func parseEnvValue(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}

	switch value[0] {
	case '"':
		if len(value) < 2 || value[len(value)-1] != '"' {
			return "", errors.New("unterminated double quote")
		}
		return unescapeDoubleQuoted(value[1 : len(value)-1]), nil
	case '\'':
		if len(value) < 2 || value[len(value)-1] != '\'' {
			return "", errors.New("unterminated single quote")
		}
		return value[1 : len(value)-1], nil
	}

	if idx := strings.Index(value, " #"); idx != -1 {
		value = strings.TrimSpace(value[:idx])
	}
	return value, nil
}

func unescapeDoubleQuoted(value string) string {
	var sb strings.Builder
	sb.Grow(len(value))

	for i := 0; i < len(value); i++ {
		if value[i] != '\\' || i+1 == len(value) {
			sb.WriteByte(value[i])
			continue
		}
		i++
		switch next := value[i]; next {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '"', '$':
			sb.WriteByte(next)
		default:
			// Unknown escape - keep both characters
			sb.WriteByte('\\')
			sb.WriteByte(next)
		}
	}

	return sb.String()
}
