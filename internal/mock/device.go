// Package mock emulates the pulse counter for development without
// hardware. It speaks the same line protocol the real firmware emits
// and honors the reset command, so the rest of the pipeline cannot
// tell it apart from a serial or TCP connection.
package mock

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

const (
	liveInterval   = 50 * time.Millisecond
	pulsesPerStage = 25
)

// Device is an in-process stand-in for the hardware. It implements the
// same connection interface as the real transports.
type Device struct {
	lines chan string

	mu         sync.Mutex
	stage      int
	total      int
	stageStart time.Time
	bootTime   time.Time

	closeOnce sync.Once
	closed    chan struct{}
}

// NewDevice starts the emulated firmware. It boots with a reset
// acknowledgement, then streams live lines and periodic reports.
func NewDevice() *Device {
	d := &Device{
		lines:      make(chan string, 64),
		stage:      1,
		stageStart: time.Now(),
		bootTime:   time.Now(),
		closed:     make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Device) run() {
	defer close(d.lines)

	d.emit("SYSTEM RESET OK")

	ticker := time.NewTicker(liveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.closed:
			return
		case <-ticker.C:
			d.tick()
		}
	}
}

func (d *Device) tick() {
	d.mu.Lock()
	d.total++
	wait := 40 + rand.Float64()*20
	line := fmt.Sprintf("[Live] Stage: %d Total: %d Wait: %.0f ms", d.stage, d.total, wait)
	stageDone := d.total%pulsesPerStage == 0
	var report, summary string
	if stageDone {
		report = fmt.Sprintf("*** [STAGE REPORT] Stage %d complete. Duration: %.1f ms",
			d.stage, float64(time.Since(d.stageStart).Milliseconds()))
		d.stage++
		d.stageStart = time.Now()
		if d.stage%4 == 0 {
			summary = fmt.Sprintf("=== [TOTAL SUMMARY] Active Time: %.3f s  Grand Total: %d",
				time.Since(d.bootTime).Seconds(), d.total)
		}
	}
	d.mu.Unlock()

	d.emit(line)
	if report != "" {
		d.emit(report)
	}
	if summary != "" {
		d.emit(summary)
	}
}

func (d *Device) emit(line string) {
	select {
	case d.lines <- line:
	case <-d.closed:
	default:
	}
}

func (d *Device) Lines() <-chan string { return d.lines }

// Send accepts firmware commands. Only the reset command ("R") does
// anything; everything else is silently ignored, like the real board.
func (d *Device) Send(cmd string) error {
	if strings.TrimSpace(cmd) != "R" {
		return nil
	}
	d.mu.Lock()
	d.stage = 1
	d.total = 0
	d.stageStart = time.Now()
	d.bootTime = time.Now()
	d.mu.Unlock()
	d.emit("SYSTEM RESET OK")
	return nil
}

func (d *Device) Close() error {
	d.closeOnce.Do(func() { close(d.closed) })
	return nil
}

func (d *Device) Err() error { return nil }
