// Package protocol decodes the MCU's textual status lines into session
// state. The decoder is a pure, synchronous state transition: one
// sanitized line in, a change summary out. It never fails; unrecognized
// lines and absent keywords leave the state untouched.
package protocol

import (
	"strings"
	"time"

	"github.com/arc-monitor/arcmon/internal/session"
)

// Line grammar markers. One event per line, ASCII.
const (
	resetMarker     = "SYSTEM RESET OK"
	liveMarker      = "[Live]"
	liveMarkerUpper = "[LIVE]"

	keyStage      = "Stage:"
	keyTotal      = "Total:"
	keyDuration   = "Duration"
	keyActiveTime = "Active Time"
	keyGrandTotal = "Grand Total"
)

// IsLive reports whether a line is a high-frequency live status line.
// Live lines carry Stage/Total and are displayed inline rather than
// logged.
func IsLive(line string) bool {
	return strings.Contains(line, liveMarker) || strings.Contains(line, liveMarkerUpper)
}

// Decoder owns the running session state and applies the per-line
// transition rules. Exactly one goroutine may call Decode; everyone
// else observes value copies via State.
type Decoder struct {
	state session.State
	now   func() time.Time
}

func NewDecoder() *Decoder {
	return &Decoder{now: time.Now}
}

// State returns a copy of the current session state.
func (d *Decoder) State() session.State {
	st := d.state
	if st.LastUpdate != nil {
		t := *st.LastUpdate
		st.LastUpdate = &t
	}
	return st
}

// Reset restores the initial state. Used by the manual reset path; the
// decoder itself resets on the device's acknowledgement line or on
// counter rollback.
func (d *Decoder) Reset() {
	d.state = session.State{}
}

// Decode classifies one raw line and applies it to the state, returning
// a summary of what changed. Classification priority:
//
//  1. empty after sanitizing: nothing
//  2. reset acknowledgement: full reset
//  3. live line: Stage: then Total:
//  4. report line: Duration (accumulate) else Active Time (overwrite),
//     then Grand Total independently
//
// On a live line the stage is applied before the total. If the total
// then triggers a rollback reset, the just-set stage is clobbered back
// to zero. That ordering is observable behavior and is kept as is.
func (d *Decoder) Decode(raw string) session.Change {
	var ch session.Change

	clean := Sanitize(raw)
	if clean == "" {
		return ch
	}

	if strings.Contains(clean, resetMarker) {
		d.state = session.State{}
		ch.SystemReset = true
		ch.SessionReset = true
		return ch
	}

	if IsLive(clean) {
		if stg, ok := IntAfter(clean, keyStage); ok && stg != d.state.Stage {
			d.state.Stage = stg
			ch.StageChanged = true
		}
		if total, ok := IntAfter(clean, keyTotal); ok {
			d.applyTotal(total, &ch)
		}
		return ch
	}

	// Report line. Per-stage Duration (ms) accumulates active time;
	// failing that, a device-reported Active Time (s) overwrites it.
	activeChanged := false
	if ms, ok := FloatAfter(clean, keyDuration); ok {
		d.state.ActiveTimeSeconds += ms / 1000.0
		d.state.TimeSource = session.TimeDerived
		activeChanged = true
	}
	if !activeChanged {
		if secs, ok := FloatAfter(clean, keyActiveTime); ok {
			d.state.ActiveTimeSeconds = secs
			d.state.TimeSource = session.TimeDevice
			activeChanged = true
		}
	}
	if activeChanged {
		ch.ActiveChanged = true
	}

	if gt, ok := IntAfter(clean, keyGrandTotal); ok {
		d.applyTotal(gt, &ch)
	}

	return ch
}

// applyTotal is shared by the Total: and Grand Total paths. A lower
// total means the device started a new session: full reset, then reseed
// with the new value. LastUpdate is stamped only on increases.
func (d *Decoder) applyTotal(newTotal int, ch *session.Change) {
	switch {
	case newTotal < d.state.Total:
		d.state = session.State{}
		d.state.Total = newTotal
		ch.SessionReset = true
		ch.TotalChanged = true
	case newTotal > d.state.Total:
		d.state.Total = newTotal
		t := d.now()
		d.state.LastUpdate = &t
		ch.TotalChanged = true
	}
}
