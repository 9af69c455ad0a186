// Package app is the root Bubble Tea model for the arcmon TUI. It owns
// the WebSocket client, fans incoming messages into the sub-views, and
// polls daemon health over HTTP.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arc-monitor/arcmon/internal/client"
	"github.com/arc-monitor/arcmon/internal/theme"
	"github.com/arc-monitor/arcmon/internal/views/chart"
	"github.com/arc-monitor/arcmon/internal/views/logpanel"
	"github.com/arc-monitor/arcmon/internal/views/stats"
)

const (
	maxSamples         = 2000
	healthPollInterval = 5 * time.Second
)

type healthMsg struct {
	health *client.Health
	err    error
}

// Model is the root Bubble Tea model.
type Model struct {
	ws     *client.WSClient
	http   *client.HTTPClient
	ctx    context.Context
	cancel context.CancelFunc

	keys   KeyMap
	width  int
	height int

	// Monitor state mirrored from the daemon.
	state           client.State
	samples         []client.Sample
	deviceConnected bool

	// Sub-views.
	stats    stats.Model
	chart    chart.Model
	logpanel logpanel.Model

	// Connection state.
	connected bool
	health    *client.Health
	lastError string
}

// New creates the root model.
func New(ws *client.WSClient, http *client.HTTPClient) Model {
	ctx, cancel := context.WithCancel(context.Background())
	return Model{
		ws:       ws,
		http:     http,
		ctx:      ctx,
		cancel:   cancel,
		keys:     DefaultKeyMap(),
		stats:    stats.New(),
		chart:    chart.New(),
		logpanel: logpanel.New(),
	}
}

// Init starts the WebSocket connection and the health poll.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.ws.Listen(m.ctx), m.pollHealth())
}

func (m Model) pollHealth() tea.Cmd {
	return tea.Tick(healthPollInterval, func(time.Time) tea.Msg {
		h, err := m.http.GetHealth()
		return healthMsg{health: h, err: err}
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.stats.Width = msg.Width
		m.chart.Width = msg.Width
		m.logpanel.Width = msg.Width
		m.logpanel.Height = msg.Height - 12
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case client.WSConnectedMsg:
		m.connected = true
		return m, m.ws.ReadLoop(m.ctx)

	case client.WSDisconnectedMsg:
		m.connected = false
		return m, m.ws.Listen(m.ctx)

	case client.WSSnapshotMsg:
		p := msg.Payload
		m.state = p.State
		m.samples = append([]client.Sample(nil), p.Samples...)
		m.deviceConnected = p.Connected
		m.stats.State = p.State
		m.stats.LiveLine = p.LiveLine
		m.stats.RateHz = p.RateHz
		m.chart.Samples = m.samples
		entries := append([]client.LogEntry(nil), p.Logs...)
		m.logpanel.SetEntries(entries)
		return m, m.ws.ReadLoop(m.ctx)

	case client.WSStateMsg:
		m.state = msg.Payload.State
		m.stats.State = msg.Payload.State
		if msg.Payload.Change.SessionReset && msg.Payload.Sample == nil {
			// Manual reset: the daemon cleared its plot history too.
			m.samples = nil
		}
		if s := msg.Payload.Sample; s != nil {
			m.samples = append(m.samples, *s)
			if len(m.samples) > maxSamples {
				m.samples = m.samples[len(m.samples)-maxSamples:]
			}
		}
		m.chart.Samples = m.samples
		return m, m.ws.ReadLoop(m.ctx)

	case client.WSLogMsg:
		m.logpanel.Append(msg.Payload.Entry)
		return m, m.ws.ReadLoop(m.ctx)

	case client.WSLiveMsg:
		m.stats.LiveLine = msg.Payload.Line
		m.stats.RateHz = msg.Payload.RateHz
		return m, m.ws.ReadLoop(m.ctx)

	case client.WSErrorMsg:
		m.lastError = msg.Payload.Message
		return m, m.ws.ReadLoop(m.ctx)

	case healthMsg:
		if msg.err == nil {
			m.health = msg.health
			m.deviceConnected = msg.health.DeviceConnected
		}
		return m, m.pollHealth()
	}

	if m.logpanel.Filtering() {
		var cmd tea.Cmd
		m.logpanel, cmd = m.logpanel.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.logpanel.Filtering() {
		switch msg.String() {
		case "esc":
			m.logpanel.ClearFilter()
			return m, nil
		case "enter":
			m.logpanel.StopFilter()
			return m, nil
		}
		var cmd tea.Cmd
		m.logpanel, cmd = m.logpanel.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.logpanel.ScrollUp(1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.logpanel.ScrollDown(1)
		return m, nil

	case key.Matches(msg, m.keys.Filter):
		m.logpanel.StartFilter()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.logpanel.ClearFilter()
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		m.ws.SendReset()
		return m, nil

	case key.Matches(msg, m.keys.Resync):
		m.ws.Resync()
		return m, nil
	}

	return m, nil
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	sections := []string{
		m.statusBar(),
		m.stats.View(),
		m.chart.View(),
		m.logpanel.View(),
		theme.StyleDimmed.Render("  j/k:scroll  /:filter  R:reset  s:resync  q:quit"),
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) statusBar() string {
	var daemon string
	if m.connected {
		daemon = lipgloss.NewStyle().Foreground(theme.ColorHealthy).Render("● daemon")
	} else {
		daemon = lipgloss.NewStyle().Foreground(theme.ColorDanger).Render("○ connecting...")
	}

	device := theme.ConnGlyph(m.deviceConnected) + " device"

	parts := daemon + "  " + device
	if m.health != nil {
		parts += "  " + theme.StyleDimmed.Render(
			fmt.Sprintf("cpu %.0f%%  mem %.0f%%  up %s",
				m.health.CPUPercent, m.health.MemoryPercent,
				(time.Duration(m.health.UptimeSeconds)*time.Second).String()))
	}
	if m.lastError != "" {
		parts += "  " + lipgloss.NewStyle().Foreground(theme.ColorDanger).Render(m.lastError)
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(parts)
}
