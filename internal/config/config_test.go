package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arcmon.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "connection:\n  mode: serial\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Connection.Serial.Port != "COM3" || cfg.Connection.Serial.Baud != 115200 {
		t.Errorf("serial defaults = %s/%d, want COM3/115200",
			cfg.Connection.Serial.Port, cfg.Connection.Serial.Baud)
	}
	if cfg.Log.Dir != "logs" {
		t.Errorf("log dir = %q, want logs", cfg.Log.Dir)
	}
	if cfg.Monitor.MaxLogLines != 1000 || cfg.Monitor.MaxPlotSamples != 2000 {
		t.Errorf("monitor caps = %d/%d, want 1000/2000",
			cfg.Monitor.MaxLogLines, cfg.Monitor.MaxPlotSamples)
	}
	if cfg.Monitor.ReconnectMaxDelay.Std() != 30*time.Second {
		t.Errorf("reconnect max = %v, want 30s", cfg.Monitor.ReconnectMaxDelay)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
connection:
  mode: tcp
  tcp:
    host: 10.0.0.7
    port: 6000
server:
  port: 9000
  auth_token: hunter2
monitor:
  broadcast_throttle: 250ms
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Connection.Mode != "tcp" {
		t.Errorf("mode = %q, want tcp", cfg.Connection.Mode)
	}
	if cfg.Connection.TCP.Host != "10.0.0.7" || cfg.Connection.TCP.Port != 6000 {
		t.Errorf("tcp = %s:%d, want 10.0.0.7:6000", cfg.Connection.TCP.Host, cfg.Connection.TCP.Port)
	}
	if cfg.Server.Port != 9000 || cfg.Server.AuthToken != "hunter2" {
		t.Errorf("server = %d/%q, want 9000/hunter2", cfg.Server.Port, cfg.Server.AuthToken)
	}
	if cfg.Monitor.BroadcastThrottle.Std() != 250*time.Millisecond {
		t.Errorf("throttle = %v, want 250ms", cfg.Monitor.BroadcastThrottle)
	}
	// Untouched sections keep their defaults.
	if cfg.Connection.Serial.Baud != 115200 {
		t.Errorf("serial baud = %d, want default 115200", cfg.Connection.Serial.Baud)
	}
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	path := writeConfig(t, "connection:\n  mode: carrier-pigeon\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown connection mode")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !os.IsNotExist(err) {
		t.Fatalf("err = %v, want IsNotExist", err)
	}
}

func TestWriteSampleRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arcmon.yaml")
	if err := WriteSample(path); err != nil {
		t.Fatalf("WriteSample error: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load of sample config error: %v", err)
	}
	if cfg.Connection.Mode != "serial" || cfg.Server.Port != 8844 {
		t.Errorf("sample config = %q/%d, want serial/8844", cfg.Connection.Mode, cfg.Server.Port)
	}
}
