package session

import (
	"encoding/json"
	"time"
)

// TimeSource records where the current active-time value came from.
type TimeSource int

const (
	// TimeDerived means active time was accumulated from per-stage
	// Duration reports (milliseconds, summed by the decoder).
	TimeDerived TimeSource = iota
	// TimeDevice means the device reported active time directly in a
	// total summary; the value overwrites any derived accumulation.
	TimeDevice
)

var timeSourceNames = map[TimeSource]string{
	TimeDerived: "derived",
	TimeDevice:  "device",
}

var timeSourceFromName = map[string]TimeSource{
	"derived": TimeDerived,
	"device":  TimeDevice,
}

func (ts TimeSource) String() string {
	if s, ok := timeSourceNames[ts]; ok {
		return s
	}
	return "unknown"
}

func (ts TimeSource) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.String())
}

func (ts *TimeSource) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if v, ok := timeSourceFromName[s]; ok {
		*ts = v
	}
	return nil
}

// State is the running model of the device session. It is mutated
// exclusively by the protocol decoder, one line at a time, from a single
// owning goroutine. Everyone else sees value copies.
//
// The zero value is the initial state; a full reset restores it.
type State struct {
	// Stage is the current stage/phase index reported by the device.
	Stage int `json:"stage"`
	// Total is the cumulative pulse count as last observed. A lower
	// value than the one recorded means the device started a new
	// session (rollback).
	Total int `json:"total"`
	// ActiveTimeSeconds is accumulated from Duration reports or
	// overwritten by device-reported Active Time, per TimeSource.
	ActiveTimeSeconds float64 `json:"activeTimeSeconds"`
	// TimeSource is the provenance of ActiveTimeSeconds.
	TimeSource TimeSource `json:"timeSource"`
	// LastUpdate is set only when Total increases, never on the
	// rollback reseed path.
	LastUpdate *time.Time `json:"lastUpdate,omitempty"`
}

// Change summarizes what a single decoded line did to the state. It is
// transient: produced per line, consumed by observers, never persisted.
type Change struct {
	SystemReset   bool `json:"systemReset"`
	StageChanged  bool `json:"stageChanged"`
	ActiveChanged bool `json:"activeChanged"`
	TotalChanged  bool `json:"totalChanged"`
	SessionReset  bool `json:"sessionReset"`
}

// Any reports whether the line changed anything at all.
func (c Change) Any() bool {
	return c.SystemReset || c.StageChanged || c.ActiveChanged || c.TotalChanged || c.SessionReset
}

// Sample is one point on the total-over-time plot. Gap marks a sample
// that follows a pulse silence longer than the gap threshold, so the
// presentation can break the line instead of drawing a false ramp.
type Sample struct {
	T     float64 `json:"t"` // seconds since monitor start
	Total int     `json:"total"`
	Gap   bool    `json:"gap,omitempty"`
}

// LogEntry is one non-live report line with its arrival time.
type LogEntry struct {
	Time time.Time `json:"time"`
	Line string    `json:"line"`
}
