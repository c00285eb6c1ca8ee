// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/asrrun/asrrun/internal/config"
)

// Color palette shared by all CLI output. Each color has a light and a dark
// variant; lipgloss picks one from the terminal background or ui.color_scheme.
var (
	// ColorPrimary is used for titles and headers.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#7C3AED"}
	// ColorMuted is used for subtitles and de-emphasized content.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#6B7280"}
	// ColorSuccess is used for success states.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#10B981"}
	// ColorError is used for errors and failures.
	ColorError = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#EF4444"}
	// ColorWarning is used for warnings.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#F59E0B"}
	// ColorHighlight is used for commands, flags and keys.
	ColorHighlight = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#3B82F6"}
)

var (
	// TitleStyle is for primary headers and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for success messages and values.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for error messages.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for warnings.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// CmdStyle is for command names, flags and configuration keys.
	CmdStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	// dryRunBoxStyle frames the command printed by --dry-run.
	dryRunBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)
)

// applyColorScheme pins the background detection when the user forced a
// scheme, and returns the glamour style name matching the result.
func applyColorScheme(scheme config.ColorScheme) string {
	switch scheme {
	case config.ColorSchemeDark:
		lipgloss.SetHasDarkBackground(true)
	case config.ColorSchemeLight:
		lipgloss.SetHasDarkBackground(false)
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}
