package mock

import (
	"strings"
	"testing"
	"time"
)

func nextLine(t *testing.T, d *Device) string {
	t.Helper()
	select {
	case line, ok := <-d.Lines():
		if !ok {
			t.Fatal("line channel closed")
		}
		return line
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a line")
		return ""
	}
}

func TestDeviceBootsWithResetAck(t *testing.T) {
	d := NewDevice()
	defer d.Close()

	if line := nextLine(t, d); line != "SYSTEM RESET OK" {
		t.Errorf("first line = %q, want SYSTEM RESET OK", line)
	}
}

func TestDeviceEmitsLiveLines(t *testing.T) {
	d := NewDevice()
	defer d.Close()

	nextLine(t, d) // boot ack
	line := nextLine(t, d)
	if !strings.HasPrefix(line, "[Live] Stage: ") {
		t.Fatalf("line = %q, want a live line", line)
	}
	for _, key := range []string{"Total:", "Wait:", "ms"} {
		if !strings.Contains(line, key) {
			t.Errorf("live line %q missing %q", line, key)
		}
	}
}

func TestDeviceResetCommand(t *testing.T) {
	d := NewDevice()
	defer d.Close()

	nextLine(t, d) // boot ack
	nextLine(t, d) // at least one pulse counted

	if err := d.Send("R\n"); err != nil {
		t.Fatalf("Send error: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case line := <-d.Lines():
			if line == "SYSTEM RESET OK" {
				return
			}
		case <-deadline:
			t.Fatal("no reset acknowledgement after R command")
		}
	}
}

func TestDeviceIgnoresUnknownCommands(t *testing.T) {
	d := NewDevice()
	defer d.Close()

	if err := d.Send("PING\n"); err != nil {
		t.Errorf("unknown command returned error: %v", err)
	}
}

func TestDeviceCloseStopsStream(t *testing.T) {
	d := NewDevice()
	d.Close()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-d.Lines():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("line channel never closed")
		}
	}
}
