// Package chart renders the total-over-time plot as a block-character
// sparkline. Samples carrying the gap mark break the line so a pause in
// pulses is not drawn as a ramp.
package chart

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/arc-monitor/arcmon/internal/client"
	"github.com/arc-monitor/arcmon/internal/theme"
)

var blocks = []rune("▁▂▃▄▅▆▇█")

// Model holds the chart state.
type Model struct {
	Samples []client.Sample
	Width   int
}

// New creates an empty chart model.
func New() Model {
	return Model{}
}

// View renders the sparkline with min/max labels.
func (m Model) View() string {
	innerW := m.Width - 4
	if innerW < 10 {
		innerW = 10
	}

	title := theme.StyleHeader.Render("TOTAL OVER TIME")
	if len(m.Samples) == 0 {
		body := theme.StyleDimmed.Render("no samples yet")
		return theme.StyleBorder.Width(innerW).Padding(0, 1).
			Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
	}

	visible := m.Samples
	if len(visible) > innerW-2 {
		visible = visible[len(visible)-(innerW-2):]
	}

	lo, hi := visible[0].Total, visible[0].Total
	for _, s := range visible {
		if s.Total < lo {
			lo = s.Total
		}
		if s.Total > hi {
			hi = s.Total
		}
	}

	spark := Sparkline(visible, lo, hi)
	labels := theme.StyleDimmed.Render(
		fmt.Sprintf("min %d  max %d  samples %d", lo, hi, len(m.Samples)))

	return theme.StyleBorder.Width(innerW).Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, spark, labels))
}

// Sparkline maps each sample's total onto the block ramp between lo and
// hi. Gap samples render as a dimmed dot instead of a block.
func Sparkline(samples []client.Sample, lo, hi int) string {
	chartStyle := lipgloss.NewStyle().Foreground(theme.ColorChart)
	gapStyle := lipgloss.NewStyle().Foreground(theme.ColorGap)

	var b strings.Builder
	for _, s := range samples {
		if s.Gap {
			b.WriteString(gapStyle.Render("·"))
			continue
		}
		b.WriteString(chartStyle.Render(string(blockFor(s.Total, lo, hi))))
	}
	return b.String()
}

func blockFor(total, lo, hi int) rune {
	if hi <= lo {
		return blocks[0]
	}
	idx := (total - lo) * (len(blocks) - 1) / (hi - lo)
	return blocks[idx]
}
