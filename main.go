// serialscope is a serial port monitor with a live auto-scaling plot:
// received text streams into a scrollback view while numeric lines are
// charted in real time.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/luki/serialscope/internal/config"
	"github.com/luki/serialscope/internal/device"
	"github.com/luki/serialscope/internal/monitor"
)

func main() {
	var (
		cfgPath = flag.String("config", config.DefaultPath(), "config file path")
		port    = flag.String("port", "", "serial port (overrides config)")
		baud    = flag.Int("baud", 0, "baud rate (overrides config)")
		list    = flag.Bool("list", false, "list available serial ports and exit")
		demo    = flag.Bool("demo", false, "use a synthetic waveform instead of hardware")
		replay  = flag.String("replay", "", "replay a captured session file")
		logPath = flag.String("log", "", "write diagnostics to this file")
	)
	flag.Parse()

	if *list {
		ports, err := device.List()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if len(ports) == 0 {
			fmt.Println("No serial ports found.")
			return
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Port = *port
	}
	if *baud != 0 {
		cfg.Baud = *baud
	}
	if *logPath != "" {
		cfg.LogFile = *logPath
	}

	log, closeLog, err := setupLogger(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	slog.SetDefault(log)

	opener := device.Open
	lister := device.List
	switch {
	case *replay != "":
		opener = device.OpenReplay(*replay, 20*time.Millisecond)
		lister = func() ([]string, error) { return []string{"replay:" + *replay}, nil }
		cfg.Port = "replay:" + *replay
	case *demo:
		opener = device.OpenDemo
		lister = func() ([]string, error) { return []string{"demo"}, nil }
		cfg.Port = "demo"
	}

	p := tea.NewProgram(
		monitor.New(cfg, opener, lister, log),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogger sends diagnostics to a file; the terminal belongs to the
// TUI. With no file configured, logs are discarded.
func setupLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, nil)), func() { f.Close() }, nil
}
