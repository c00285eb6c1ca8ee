// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// checkEnum runs the IsValid contract shared by the string enums.
func checkEnum(t *testing.T, name string, isValid func() (bool, []error), want bool, sentinel error) {
	t.Helper()

	valid, errs := isValid()
	if valid != want {
		t.Errorf("%s.IsValid() = %v, want %v", name, valid, want)
	}
	if want {
		if len(errs) > 0 {
			t.Errorf("%s.IsValid() returned unexpected errors: %v", name, errs)
		}
		return
	}
	if len(errs) == 0 {
		t.Fatalf("%s.IsValid() returned no errors, want error", name)
	}
	if !errors.Is(errs[0], sentinel) {
		t.Errorf("error should wrap %v, got: %v", sentinel, errs[0])
	}
}

func TestRuntimeMode_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode RuntimeMode
		want bool
	}{
		{RuntimeNative, true},
		{RuntimeVirtual, true},
		{RuntimeInteractive, true},
		{"", false},
		{"container", false},
		{"NATIVE", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			t.Parallel()
			checkEnum(t, "RuntimeMode("+tt.mode.String()+")", tt.mode.IsValid, tt.want, ErrInvalidRuntimeMode)
		})
	}
}

func TestColorScheme_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scheme ColorScheme
		want   bool
	}{
		{ColorSchemeAuto, true},
		{ColorSchemeDark, true},
		{ColorSchemeLight, true},
		{"", false},
		{"solarized", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.scheme), func(t *testing.T) {
			t.Parallel()
			checkEnum(t, "ColorScheme("+tt.scheme.String()+")", tt.scheme.IsValid, tt.want, ErrInvalidColorScheme)
		})
	}
}

func TestLogLevel_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level LogLevel
		want  bool
	}{
		{LogLevelDebug, true},
		{LogLevelInfo, true},
		{LogLevelWarn, true},
		{LogLevelError, true},
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			t.Parallel()
			checkEnum(t, "LogLevel("+tt.level.String()+")", tt.level.IsValid, tt.want, ErrInvalidLogLevel)
		})
	}
}

func TestWaitDelayDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   string
		want    time.Duration
		wantErr bool
	}{
		{"", 10 * time.Second, false},
		{"10s", 10 * time.Second, false},
		{"1m30s", 90 * time.Second, false},
		{"250ms", 250 * time.Millisecond, false},
		{"0s", 0, true},
		{"-5s", 0, true},
		{"ten", 0, true},
		{"10", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()

			got, err := PipelineConfig{WaitDelay: tt.value}.WaitDelayDuration()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidWaitDelay) {
					t.Errorf("WaitDelayDuration(%q) error = %v, want ErrInvalidWaitDelay", tt.value, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("WaitDelayDuration(%q) = %v, %v, want %v", tt.value, got, err, tt.want)
			}
		})
	}
}

func TestConfig_IsValid_CollectsFieldErrors(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Pipeline.Runtime = "container"
	cfg.Log.Level = "trace"

	valid, errs := cfg.IsValid()
	if valid {
		t.Fatal("IsValid() = true, want false")
	}
	if len(errs) != 1 {
		t.Fatalf("IsValid() returned %d errors, want one InvalidConfigError", len(errs))
	}

	var ice *InvalidConfigError
	if !errors.As(errs[0], &ice) {
		t.Fatalf("error type = %T, want *InvalidConfigError", errs[0])
	}
	if len(ice.FieldErrors) != 2 {
		t.Fatalf("FieldErrors = %v, want 2", ice.FieldErrors)
	}
	if !errors.Is(ice.FieldErrors[0], ErrInvalidRuntimeMode) || !errors.Is(ice.FieldErrors[1], ErrInvalidLogLevel) {
		t.Errorf("FieldErrors = %v, want runtime mode then log level", ice.FieldErrors)
	}
	if !errors.Is(errs[0], ErrInvalidConfig) {
		t.Error("InvalidConfigError should wrap ErrInvalidConfig")
	}
	if msg := errs[0].Error(); !strings.Contains(msg, "2 field errors") || !strings.Contains(msg, "container") {
		t.Errorf("Error() = %q", msg)
	}
}
