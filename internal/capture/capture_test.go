package capture

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestCaptureRoundTrip(t *testing.T) {
	dir := t.TempDir()

	w, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	if w.Active() {
		t.Error("writer should start inactive")
	}
	if err := w.Write("dropped before start"); err != nil {
		t.Errorf("inactive Write should be a no-op, got %v", err)
	}

	start := time.Date(2026, 8, 29, 14, 30, 0, 0, time.Local)
	path, err := w.Start(start)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !strings.Contains(path, "session-20260829-143000.log") {
		t.Errorf("capture path: got %q", path)
	}

	if err := w.Write("12\n"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Write("13\n"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	w.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "12\n13\n" {
		t.Errorf("captured: got %q, want %q", data, "12\n13\n")
	}

	paths, err := List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(paths) != 1 || paths[0] != path {
		t.Errorf("List: got %v, want [%s]", paths, path)
	}
}
