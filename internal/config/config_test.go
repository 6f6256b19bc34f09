package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/luki/serialscope/internal/ingest"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Baud != 115200 {
		t.Errorf("default baud: got %d, want 115200", cfg.Baud)
	}
	if time.Duration(cfg.TickInterval) != 10*time.Millisecond {
		t.Errorf("default tick: got %v, want 10ms", cfg.TickInterval)
	}
	if cfg.BufferSize != 500 {
		t.Errorf("default buffer size: got %d, want 500", cfg.BufferSize)
	}
	if cfg.ChartPadding != 40 {
		t.Errorf("default padding: got %d, want 40", cfg.ChartPadding)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := `
port: /dev/ttyACM0
baud: 9600
tick_interval: 20ms
line_ending: crlf
timestamps: relative
live_typing: true
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "/dev/ttyACM0" || cfg.Baud != 9600 {
		t.Errorf("port/baud: got %s/%d", cfg.Port, cfg.Baud)
	}
	if time.Duration(cfg.TickInterval) != 20*time.Millisecond {
		t.Errorf("tick: got %v, want 20ms", cfg.TickInterval)
	}
	if !cfg.LiveTyping {
		t.Error("live_typing should be true")
	}
	// Unset keys keep defaults.
	if cfg.BufferSize != 500 {
		t.Errorf("buffer size: got %d, want default 500", cfg.BufferSize)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("port: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestParsers(t *testing.T) {
	if ParseLineEnding("crlf") != ingest.EndCRLF {
		t.Error("crlf")
	}
	if ParseLineEnding("") != ingest.EndNone {
		t.Error("empty line ending should be none")
	}
	if ParseStampMode("relative") != ingest.StampRelative {
		t.Error("relative")
	}
	if ParseStampMode("bogus") != ingest.StampOff {
		t.Error("unknown mode should be off")
	}
}
