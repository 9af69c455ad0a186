// Package stats renders the stat-card row: stage, total count, active
// time and last update, plus the live line and rate readout.
package stats

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/arc-monitor/arcmon/internal/client"
	"github.com/arc-monitor/arcmon/internal/theme"
)

// Model holds the stat panel state.
type Model struct {
	State    client.State
	LiveLine string
	RateHz   float64
	Width    int
}

// New creates an empty stats model.
func New() Model {
	return Model{}
}

// View renders the four stat cards and the live readout.
func (m Model) View() string {
	cardW := (m.Width - 8) / 4
	if cardW < 14 {
		cardW = 14
	}

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card(cardW, theme.ColorStage, "STAGE", fmt.Sprintf("%d", m.State.Stage)),
		card(cardW, theme.ColorTotal, "TOTAL COUNT", fmt.Sprintf("%d", m.State.Total)),
		card(cardW, theme.ColorActive, "ACTIVE TIME", m.activeTime()),
		card(cardW, theme.ColorUpdate, "LAST UPDATE", m.lastUpdate()),
	)

	return lipgloss.JoinVertical(lipgloss.Left, cards, m.liveView())
}

func (m Model) activeTime() string {
	label := fmt.Sprintf("%.3f s", m.State.ActiveTimeSeconds)
	if m.State.TimeSource == "device" {
		label += " *"
	}
	return label
}

func (m Model) lastUpdate() string {
	if m.State.LastUpdate == nil {
		return "N/A"
	}
	return m.State.LastUpdate.Format("2006-01-02 15:04:05")
}

func (m Model) liveView() string {
	if m.LiveLine == "" {
		return theme.StyleDimmed.Render("  waiting for live data...")
	}

	rate := lipgloss.NewStyle().
		Foreground(theme.RateColor(m.RateHz)).
		Render(fmt.Sprintf("%.1f Hz", m.RateHz))

	line := m.LiveLine
	if max := m.Width - 14; max > 10 && len(line) > max {
		line = line[:max-3] + "..."
	}

	return "  " + theme.StyleDimmed.Render(line) + "  " + rate
}

func card(width int, color lipgloss.Color, title, value string) string {
	titleStr := lipgloss.NewStyle().Foreground(color).Bold(true).Render(title)
	valueStr := theme.StyleValue.Render(value)

	return theme.StyleBorder.
		Width(width).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, titleStr, valueStr))
}
