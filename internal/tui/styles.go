// Package tui provides the terminal surface of transit: the interactive
// confirmation console, styled output, and the migration report.
//
// # Semantic Colors
//
// Five semantic colors are exported for use across TUI components:
//   - ColorPrimary (Blue): headings and informational output
//   - ColorSuccess (Green): successful tasks
//   - ColorWarning (Yellow): warnings
//   - ColorError (Red): failed tasks and errors
//   - ColorMuted (Gray): skipped tasks and secondary text
//
// # Status Icons
//
// Every status is shown as icon + color + text so the report stays readable
// without color.
//
// # NO_COLOR Support
//
// Call CheckNoColor() before rendering. Colors are also disabled when TERM=dumb.
//
// Import rules:
//   - CAN import: internal/domain, internal/errors, internal/task
//   - MUST NOT import: internal/cli, internal/migration
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/mrz1836/transit/internal/domain"
)

//nolint:gochecknoglobals // Intentional package-level constants for TUI styling API
var (
	// ColorPrimary is blue, used for headings and informational output.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorSuccess is green, used for successful tasks.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning is yellow, used for warnings.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError is red, used for failures.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorMuted is gray, used for skipped tasks and secondary text.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}

	// StyleBold applies bold formatting to text.
	StyleBold = lipgloss.NewStyle().Bold(true)

	// StyleDim applies dim/faint formatting to text.
	StyleDim = lipgloss.NewStyle().Faint(true)
)

// OutputStyles holds common output styles.
type OutputStyles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Dim     lipgloss.Style
	Header  lipgloss.Style
}

// NewOutputStyles creates common output styles using AdaptiveColor for light/dark terminal support.
func NewOutputStyles() *OutputStyles {
	return &OutputStyles{
		Success: lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(ColorWarning),
		Info: lipgloss.NewStyle().
			Foreground(ColorPrimary),
		Dim: lipgloss.NewStyle().
			Foreground(ColorMuted),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"}),
	}
}

// CheckNoColor respects the NO_COLOR environment variable.
// Call this at the start of commands that output styled text.
func CheckNoColor() {
	if !HasColorSupport() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// HasColorSupport returns true if the terminal supports colors.
// Returns false if NO_COLOR is set (any value including empty string) or TERM=dumb.
// This follows the NO_COLOR standard: https://no-color.org/
func HasColorSupport() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// StatusIcon returns the icon for a task status.
func StatusIcon(status domain.Status) string {
	switch status {
	case domain.StatusSuccess:
		return "✓"
	case domain.StatusSkipped:
		return "○"
	case domain.StatusFailed:
		return "✗"
	default:
		return "?"
	}
}

// StatusColor returns the semantic color of a task status.
func StatusColor(status domain.Status) lipgloss.AdaptiveColor {
	switch status {
	case domain.StatusSuccess:
		return ColorSuccess
	case domain.StatusFailed:
		return ColorError
	default:
		return ColorMuted
	}
}

// StatusStyle returns the style a status is rendered with.
func StatusStyle(status domain.Status) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(StatusColor(status))
}
