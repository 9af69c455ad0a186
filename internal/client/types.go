// Package client provides WebSocket and HTTP clients for the arcmon
// daemon. Types mirror the daemon wire protocol without importing the
// server packages.
package client

import (
	"encoding/json"
	"time"
)

// MessageType identifies the kind of WebSocket message.
type MessageType string

const (
	MsgSnapshot MessageType = "snapshot"
	MsgState    MessageType = "state"
	MsgLog      MessageType = "log"
	MsgLive     MessageType = "live"
	MsgError    MessageType = "error"
)

// WSMessage is the envelope for all WebSocket messages.
type WSMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// State mirrors the daemon's session state.
type State struct {
	Stage             int        `json:"stage"`
	Total             int        `json:"total"`
	ActiveTimeSeconds float64    `json:"activeTimeSeconds"`
	TimeSource        string     `json:"timeSource"`
	LastUpdate        *time.Time `json:"lastUpdate,omitempty"`
}

// Change mirrors the per-line change summary.
type Change struct {
	SystemReset   bool `json:"systemReset"`
	StageChanged  bool `json:"stageChanged"`
	ActiveChanged bool `json:"activeChanged"`
	TotalChanged  bool `json:"totalChanged"`
	SessionReset  bool `json:"sessionReset"`
}

// Sample is one point on the total-over-time plot.
type Sample struct {
	T     float64 `json:"t"`
	Total int     `json:"total"`
	Gap   bool    `json:"gap,omitempty"`
}

// LogEntry is one report line with its arrival time.
type LogEntry struct {
	Time time.Time `json:"time"`
	Line string    `json:"line"`
}

// --- WebSocket payload types ---

// SnapshotPayload is sent on connect, on resync, and on the periodic
// full-state tick.
type SnapshotPayload struct {
	State     State      `json:"state"`
	Samples   []Sample   `json:"samples"`
	Logs      []LogEntry `json:"logs"`
	LiveLine  string     `json:"liveLine,omitempty"`
	RateHz    float64    `json:"rateHz"`
	Connected bool       `json:"connected"`
}

// StatePayload carries a coalesced state update.
type StatePayload struct {
	State  State   `json:"state"`
	Change Change  `json:"change"`
	Sample *Sample `json:"sample,omitempty"`
}

// LogPayload carries one new report line.
type LogPayload struct {
	Entry LogEntry `json:"entry"`
}

// LivePayload carries the latest live line and rate estimate.
type LivePayload struct {
	Line   string  `json:"line"`
	RateHz float64 `json:"rateHz"`
}

// ErrorPayload wraps a server-side error.
type ErrorPayload struct {
	Message string `json:"message"`
}

// --- HTTP response types ---

// Health mirrors the /api/health response.
type Health struct {
	UptimeSeconds   float64 `json:"uptimeSeconds"`
	CPUPercent      float64 `json:"cpuPercent"`
	MemoryPercent   float64 `json:"memoryPercent"`
	Clients         int     `json:"clients"`
	DeviceConnected bool    `json:"deviceConnected"`
}
