package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Connection ConnectionConfig `yaml:"connection"`
	Log        LogConfig        `yaml:"log"`
	Server     ServerConfig     `yaml:"server"`
	Monitor    MonitorConfig    `yaml:"monitor"`
}

type ConnectionConfig struct {
	// Mode selects the transport: "serial" or "tcp".
	Mode   string       `yaml:"mode"`
	Serial SerialConfig `yaml:"serial"`
	TCP    TCPConfig    `yaml:"tcp"`
}

type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

type TCPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type LogConfig struct {
	// Dir is the folder for the date-rotated device logs.
	Dir string `yaml:"dir"`
}

type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AuthToken      string   `yaml:"auth_token"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type MonitorConfig struct {
	MaxLogLines       int      `yaml:"max_log_lines"`
	MaxPlotSamples    int      `yaml:"max_plot_samples"`
	BroadcastThrottle Duration `yaml:"broadcast_throttle"`
	SnapshotInterval  Duration `yaml:"snapshot_interval"`
	ReconnectMinDelay Duration `yaml:"reconnect_min_delay"`
	ReconnectMaxDelay Duration `yaml:"reconnect_max_delay"`
}

// Duration wraps time.Duration so YAML values can be written as "100ms"
// or "5s". yaml.v3 has no native time.Duration support.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("parsing duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("line %d: cannot parse duration", value.Line)
	}
	*d = Duration(time.Duration(n) * time.Millisecond)
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Connection: ConnectionConfig{
			Mode: "serial",
			Serial: SerialConfig{
				Port: "COM3",
				Baud: 115200,
			},
			TCP: TCPConfig{
				Host: "127.0.0.1",
				Port: 5000,
			},
		},
		Log: LogConfig{
			Dir: "logs",
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8844,
		},
		Monitor: MonitorConfig{
			MaxLogLines:       1000,
			MaxPlotSamples:    2000,
			BroadcastThrottle: Duration(100 * time.Millisecond),
			SnapshotInterval:  Duration(5 * time.Second),
			ReconnectMinDelay: Duration(time.Second),
			ReconnectMaxDelay: Duration(30 * time.Second),
		},
	}
}

// Load reads the YAML config at path, applied over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if cfg.Connection.Mode != "serial" && cfg.Connection.Mode != "tcp" {
		return nil, fmt.Errorf("connection.mode %q: want \"serial\" or \"tcp\"", cfg.Connection.Mode)
	}

	return cfg, nil
}

const sampleConfig = `# arcmon configuration

connection:
  # "serial" or "tcp"
  mode: serial
  serial:
    port: COM3
    baud: 115200
  tcp:
    host: 127.0.0.1
    port: 5000

log:
  dir: logs

server:
  host: 127.0.0.1
  port: 8844
  # auth_token: secret
  # allowed_origins: ["http://127.0.0.1:8844"]

monitor:
  max_log_lines: 1000
  max_plot_samples: 2000
  broadcast_throttle: 100ms
  snapshot_interval: 5s
  reconnect_min_delay: 1s
  reconnect_max_delay: 30s
`

// WriteSample creates a commented starter config at path. The daemon
// calls this on first run when no config exists.
func WriteSample(path string) error {
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}
