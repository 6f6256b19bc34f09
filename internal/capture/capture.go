// Package capture writes the received text of a session to disk, one
// plain log file per capture, under ~/.serialscope/logs/. Captures can
// be replayed later through the same pipeline.
package capture

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	dirName    = ".serialscope"
	logsSubdir = "logs"
	fileLayout = "20060102-150405"
)

// Writer appends session text to the current capture file.
type Writer struct {
	dir     string
	current *os.File
	path    string
}

// New creates a writer rooted at dir, creating it if needed. An empty
// dir means the default data directory.
func New(dir string) (*Writer, error) {
	if dir == "" {
		dir = DataDir()
		if dir == "" {
			return nil, fmt.Errorf("cannot resolve capture directory")
		}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create capture dir: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// Start opens a new capture file stamped with t. Any capture already in
// progress is closed first.
func (w *Writer) Start(t time.Time) (string, error) {
	w.Close()
	path := filepath.Join(w.dir, "session-"+t.Format(fileLayout)+".log")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("start capture: %w", err)
	}
	w.current = f
	w.path = path
	return path, nil
}

// Write appends text to the open capture. A no-op when inactive.
func (w *Writer) Write(text string) error {
	if w == nil || w.current == nil {
		return nil
	}
	if _, err := w.current.WriteString(text); err != nil {
		return fmt.Errorf("capture write: %w", err)
	}
	return nil
}

// Active reports whether a capture file is open. Safe on a nil writer
// so callers need not track whether capturing was ever enabled.
func (w *Writer) Active() bool { return w != nil && w.current != nil }

// Path returns the current capture file path, or "".
func (w *Writer) Path() string {
	if w == nil || w.current == nil {
		return ""
	}
	return w.path
}

// Close ends the current capture, if any.
func (w *Writer) Close() {
	if w != nil && w.current != nil {
		w.current.Close()
		w.current = nil
	}
}

// List returns capture file paths in dir, newest first. An empty dir
// means the default data directory.
func List(dir string) ([]string, error) {
	if dir == "" {
		dir = DataDir()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for i := len(entries) - 1; i >= 0; i-- {
		name := entries[i].Name()
		if strings.HasSuffix(name, ".log") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths, nil
}

// DataDir returns the default capture directory, or "" if the home
// directory is unknown.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, dirName, logsSubdir)
}
