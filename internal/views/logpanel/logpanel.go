// Package logpanel renders the scrollable report-line log with a
// substring filter.
package logpanel

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arc-monitor/arcmon/internal/client"
	"github.com/arc-monitor/arcmon/internal/theme"
)

const maxEntries = 1000

// Model holds the log panel state.
type Model struct {
	Entries []client.LogEntry
	Offset  int // scroll offset (from bottom)
	Width   int
	Height  int

	filter    textinput.Model
	filtering bool
}

// New creates an empty log panel.
func New() Model {
	ti := textinput.New()
	ti.Placeholder = "filter..."
	ti.CharLimit = 64
	return Model{filter: ti}
}

// SetEntries replaces the whole buffer (snapshot resync).
func (m *Model) SetEntries(entries []client.LogEntry) {
	m.Entries = append([]client.LogEntry(nil), entries...)
	m.cap()
	m.Offset = 0
}

// Append adds one entry and caps the buffer.
func (m *Model) Append(e client.LogEntry) {
	m.Entries = append(m.Entries, e)
	m.cap()
	// Stick to the bottom on new entries unless the user scrolled away.
	if m.Offset == 0 {
		return
	}
	m.Offset++
}

func (m *Model) cap() {
	if len(m.Entries) > maxEntries {
		m.Entries = m.Entries[len(m.Entries)-maxEntries:]
	}
}

// StartFilter opens the filter input.
func (m *Model) StartFilter() {
	m.filtering = true
	m.filter.Focus()
}

// StopFilter closes the input, keeping the current filter text applied.
func (m *Model) StopFilter() {
	m.filtering = false
	m.filter.Blur()
}

// ClearFilter closes the input and drops the filter.
func (m *Model) ClearFilter() {
	m.filtering = false
	m.filter.Blur()
	m.filter.SetValue("")
	m.Offset = 0
}

// Filtering reports whether the filter input has focus.
func (m Model) Filtering() bool { return m.filtering }

// Update forwards key input to the filter field while it is open.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.filtering {
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	return m, cmd
}

// ScrollUp moves the view toward older entries.
func (m *Model) ScrollUp(n int) {
	m.Offset += n
	if max := len(m.visible()) - 1; m.Offset > max {
		m.Offset = max
	}
	if m.Offset < 0 {
		m.Offset = 0
	}
}

// ScrollDown moves the view toward newer entries.
func (m *Model) ScrollDown(n int) {
	m.Offset -= n
	if m.Offset < 0 {
		m.Offset = 0
	}
}

// visible returns the entries passing the filter, oldest first.
func (m Model) visible() []client.LogEntry {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	if query == "" {
		return m.Entries
	}
	var out []client.LogEntry
	for _, e := range m.Entries {
		if strings.Contains(strings.ToLower(e.Line), query) {
			out = append(out, e)
		}
	}
	return out
}

// View renders the log panel.
func (m Model) View() string {
	innerW := m.Width - 4
	if innerW < 20 {
		innerW = 20
	}
	visibleLines := m.Height - 4
	if visibleLines < 3 {
		visibleLines = 3
	}

	title := theme.StyleHeader.Render("REPORTS")
	if m.filtering || m.filter.Value() != "" {
		title += "  " + m.filter.View()
	}

	entries := m.visible()
	if len(entries) == 0 {
		body := theme.StyleDimmed.Render("  no report lines yet")
		return theme.StyleBorder.Width(innerW).Padding(0, 1).
			Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
	}

	end := len(entries) - m.Offset
	if end > len(entries) {
		end = len(entries)
	}
	if end < 0 {
		end = 0
	}
	start := end - visibleLines
	if start < 0 {
		start = 0
	}

	var lines []string
	for i := start; i < end; i++ {
		lines = append(lines, m.renderEntry(entries[i], innerW))
	}
	if m.Offset > 0 {
		lines = append(lines, theme.StyleDimmed.Render("  ..."))
	}

	body := strings.Join(lines, "\n")
	return theme.StyleBorder.Width(innerW).Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
}

func (m Model) renderEntry(e client.LogEntry, width int) string {
	ts := theme.StyleDimmed.Render(e.Time.Format("15:04:05"))
	line := e.Line
	if max := width - 12; max > 10 && len(line) > max {
		line = line[:max-3] + "..."
	}
	colored := lipgloss.NewStyle().Foreground(theme.LogLineColor(line)).Render(line)
	return ts + " " + colored
}
