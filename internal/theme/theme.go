// Package theme provides the Lip Gloss color palette and reusable styles
// for the arcmon TUI. It is a leaf package with no internal imports to
// avoid import cycles.
package theme

import "github.com/charmbracelet/lipgloss"

// Stat card colors.
var (
	ColorStage  = lipgloss.Color("#a855f7")
	ColorTotal  = lipgloss.Color("#3b82f6")
	ColorActive = lipgloss.Color("#06b6d4")
	ColorUpdate = lipgloss.Color("#22c55e")
)

// Log severity colors.
var (
	ColorLogError = lipgloss.Color("#dc2626")
	ColorLogWarn  = lipgloss.Color("#d97706")
	ColorLogInfo  = lipgloss.Color("#9ca3af")
)

// Rate gauge thresholds.
var (
	ColorRateLow  = lipgloss.Color("#4b5563") // <10 Hz
	ColorRateMid  = lipgloss.Color("#22c55e") // 10-200 Hz
	ColorRateHigh = lipgloss.Color("#d97706") // >200 Hz
)

// UI chrome colors.
var (
	ColorBorder  = lipgloss.Color("#4b5563")
	ColorDimmed  = lipgloss.Color("#6b7280")
	ColorBright  = lipgloss.Color("#f9fafb")
	ColorHealthy = lipgloss.Color("#22c55e")
	ColorWarning = lipgloss.Color("#d97706")
	ColorDanger  = lipgloss.Color("#dc2626")
	ColorChart   = lipgloss.Color("#3b82f6")
	ColorGap     = lipgloss.Color("#6b7280")
)

// LogLineColor returns the color for one report line based on its
// severity keywords.
func LogLineColor(line string) lipgloss.Color {
	switch {
	case containsFold(line, "error") || containsFold(line, "fail"):
		return ColorLogError
	case containsFold(line, "warn"):
		return ColorLogWarn
	default:
		return ColorLogInfo
	}
}

// RateColor returns the color for a pulse rate in Hz.
func RateColor(hz float64) lipgloss.Color {
	switch {
	case hz > 200:
		return ColorRateHigh
	case hz >= 10:
		return ColorRateMid
	default:
		return ColorRateLow
	}
}

// ConnGlyph returns a glyph for the device connection state.
func ConnGlyph(connected bool) string {
	if connected {
		return lipgloss.NewStyle().Foreground(ColorHealthy).Render("●")
	}
	return lipgloss.NewStyle().Foreground(ColorDanger).Render("○")
}

// Reusable styles.
var (
	StyleBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)

	StyleDimmed = lipgloss.NewStyle().
			Foreground(ColorDimmed)

	StyleValue = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)
)

func containsFold(s, substr string) bool {
	if len(substr) > len(s) {
		return false
	}
	lower := func(b byte) byte {
		if b >= 'A' && b <= 'Z' {
			return b + 'a' - 'A'
		}
		return b
	}
	for i := 0; i <= len(s)-len(substr); i++ {
		ok := true
		for j := 0; j < len(substr); j++ {
			if lower(s[i+j]) != lower(substr[j]) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}
