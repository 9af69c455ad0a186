package ws

import (
	"encoding/json"

	"github.com/arc-monitor/arcmon/internal/session"
)

type MessageType string

const (
	MsgSnapshot MessageType = "snapshot"
	MsgState    MessageType = "state"
	MsgLog      MessageType = "log"
	MsgLive     MessageType = "live"
	MsgError    MessageType = "error"
)

type WSMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// RawMessage is the inbound shape: clients send commands with a typed
// envelope and an opaque payload.
type RawMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Inbound command types.
const (
	CmdReset  MessageType = "reset"
	CmdResync MessageType = "resync"
)

type SnapshotPayload struct {
	session.Snapshot
}

type StatePayload struct {
	State  session.State   `json:"state"`
	Change session.Change  `json:"change"`
	Sample *session.Sample `json:"sample,omitempty"`
}

type LogPayload struct {
	Entry session.LogEntry `json:"entry"`
}

type LivePayload struct {
	Line   string  `json:"line"`
	RateHz float64 `json:"rateHz"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type HealthPayload struct {
	UptimeSeconds   float64 `json:"uptimeSeconds"`
	CPUPercent      float64 `json:"cpuPercent"`
	MemoryPercent   float64 `json:"memoryPercent"`
	Clients         int     `json:"clients"`
	DeviceConnected bool    `json:"deviceConnected"`
}
