package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/moireceipt/moiprint/internal/ble"
)

// Config holds all application configuration.
type Config struct {
	Backend  string        `yaml:"backend"` // "ble" or "serial"
	LogLevel string        `yaml:"log_level"`
	Scan     ScanConfig    `yaml:"scan"`
	Connect  ConnectConfig `yaml:"connect"`
	Print    PrintConfig   `yaml:"print"`
	Serial   SerialConfig  `yaml:"serial"`
}

// ScanConfig holds printer discovery settings.
type ScanConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	FirstMatch   bool          `yaml:"first_match"`
	ServiceUUID  string        `yaml:"service_uuid"`
	NamePrefixes []string      `yaml:"name_prefixes"`
}

// ConnectConfig holds link setup settings.
type ConnectConfig struct {
	Timeout         time.Duration `yaml:"timeout"`
	Retries         int           `yaml:"retries"`
	RetryMaxBackoff int           `yaml:"retry_max_backoff"` // seconds
}

// PrintConfig holds print job settings.
type PrintConfig struct {
	Serialize bool `yaml:"serialize"`
}

// SerialConfig lists RFCOMM-bound printers for the serial backend.
type SerialConfig struct {
	Ports []SerialPort `yaml:"ports"`
}

// SerialPort is one serial device node.
type SerialPort struct {
	Path     string `yaml:"path"`
	Name     string `yaml:"name"`
	BaudRate int    `yaml:"baud_rate"`
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "moiprint")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Backend:  "ble",
		LogLevel: "info",
		Scan: ScanConfig{
			Timeout:      10 * time.Second,
			FirstMatch:   true,
			ServiceUUID:  "000018f0-0000-1000-8000-00805f9b34fb",
			NamePrefixes: []string{"MTP", "BlueTooth Printer", "POS"},
		},
		Connect: ConnectConfig{
			Timeout:         15 * time.Second,
			Retries:         3,
			RetryMaxBackoff: 8,
		},
		Print: PrintConfig{
			Serialize: true,
		},
	}
}

// Load reads and parses a YAML config file. Missing fields are filled
// with defaults. Tilde (~) in serial port paths is expanded to the user's
// home directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	for i := range cfg.Serial.Ports {
		cfg.Serial.Ports[i].Path = expandTilde(cfg.Serial.Ports[i].Path)
	}

	return cfg, nil
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	switch c.Backend {
	case "ble":
	case "serial":
		if len(c.Serial.Ports) == 0 {
			return fmt.Errorf("serial.ports must not be empty when backend is \"serial\"")
		}
	default:
		return fmt.Errorf("backend must be \"ble\" or \"serial\", got %q", c.Backend)
	}

	for i, p := range c.Serial.Ports {
		if p.Path == "" {
			return fmt.Errorf("serial.ports[%d].path must not be empty", i)
		}
		if p.BaudRate < 0 {
			return fmt.Errorf("serial.ports[%d].baud_rate must be >= 0", i)
		}
	}

	if c.Scan.Timeout <= 0 {
		return fmt.Errorf("scan.timeout must be > 0")
	}

	if c.Scan.ServiceUUID != "" {
		if _, err := ble.ParseUUID(c.Scan.ServiceUUID); err != nil {
			return fmt.Errorf("scan.service_uuid: %w", err)
		}
	}

	if c.Connect.Timeout <= 0 {
		return fmt.Errorf("connect.timeout must be > 0")
	}

	if c.Connect.Retries < 1 {
		return fmt.Errorf("connect.retries must be >= 1")
	}

	if c.Connect.RetryMaxBackoff < 1 {
		return fmt.Errorf("connect.retry_max_backoff must be >= 1")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}

	return nil
}

// ParseLogLevel maps a log_level string to a slog.Level. Unknown values
// fall back to info.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const defaultHeader = `# moiprint configuration
# backend: "ble" scans for Bluetooth LE printers, "serial" prints to
# RFCOMM-bound device nodes listed under serial.ports.
`

// WriteDefault writes the default config to DefaultConfigPath. It returns
// the written path, or "" with a nil error when a config already exists.
func WriteDefault() (string, error) {
	path := DefaultConfigPath()
	if _, err := os.Stat(path); err == nil {
		return "", nil
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return "", fmt.Errorf("encoding default config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, append([]byte(defaultHeader), data...), 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}
	return path, nil
}

// expandTilde replaces a leading ~ with the user's home directory.
func expandTilde(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
