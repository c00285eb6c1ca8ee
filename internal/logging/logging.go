// SPDX-License-Identifier: MPL-2.0

// Package logging builds the charmbracelet/log loggers used across asrrun.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Prefix is the logger prefix shown before every line.
const Prefix = "asrrun"

// New returns a logger writing to w at the given level.
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          Prefix,
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
}

// Discard returns a logger that drops everything. Used as the zero-config default.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// ParseLevel maps a config level name to a log.Level.
// The empty string means info.
func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel, nil
	case "", "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("unknown log level %q (valid: debug, info, warn, error)", s)
	}
}
