// Package config loads startup defaults from an optional YAML file.
// Everything here is a default only; runtime toggles in the monitor are
// never written back.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/luki/serialscope/internal/chart"
	"github.com/luki/serialscope/internal/device"
	"github.com/luki/serialscope/internal/history"
	"github.com/luki/serialscope/internal/ingest"
)

// Duration decodes YAML values like "10ms" or raw nanosecond integers.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(v)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}
	*d = Duration(n)
	return nil
}

type Config struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`

	TickInterval Duration `yaml:"tick_interval"`
	BufferSize   int      `yaml:"buffer_size"`
	ChartPadding int      `yaml:"chart_padding"`

	LineEnding string `yaml:"line_ending"` // none, lf, cr, crlf
	Timestamps string `yaml:"timestamps"`  // off, absolute, relative
	LiveTyping bool   `yaml:"live_typing"`

	LogFile    string `yaml:"log_file"`
	CaptureDir string `yaml:"capture_dir"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Baud:         device.DefaultBaud,
		TickInterval: Duration(10 * time.Millisecond),
		BufferSize:   history.Capacity,
		ChartPadding: chart.DefaultPadding,
		LineEnding:   "lf",
		Timestamps:   "off",
	}
}

// DefaultPath returns ~/.serialscope.yaml, or "" if the home directory
// is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".serialscope.yaml")
}

// Load reads path over the defaults. A missing file is not an error;
// the defaults are returned as-is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = Duration(10 * time.Millisecond)
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = history.Capacity
	}
	if cfg.ChartPadding < 0 {
		cfg.ChartPadding = chart.DefaultPadding
	}
	return cfg, nil
}

// ParseLineEnding maps a config string to a line-ending policy.
func ParseLineEnding(s string) ingest.LineEnding {
	switch s {
	case "lf", "\n":
		return ingest.EndLF
	case "cr", "\r":
		return ingest.EndCR
	case "crlf", "\r\n":
		return ingest.EndCRLF
	default:
		return ingest.EndNone
	}
}

// ParseStampMode maps a config string to a timestamp policy.
func ParseStampMode(s string) ingest.StampMode {
	switch s {
	case "absolute":
		return ingest.StampAbsolute
	case "relative":
		return ingest.StampRelative
	default:
		return ingest.StampOff
	}
}
