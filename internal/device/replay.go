package device

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// ReplayPort feeds a previously captured session file back through the
// pipeline, one line per interval, then reports EOF.
type ReplayPort struct {
	interval time.Duration

	mu      sync.Mutex
	file    *os.File
	rd      *bufio.Reader
	pending []byte
	closed  chan struct{}
}

// NewReplayPort opens path for replay at the given pace.
func NewReplayPort(path string, interval time.Duration) (*ReplayPort, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open capture %s: %w", path, err)
	}
	if interval <= 0 {
		interval = 20 * time.Millisecond
	}
	return &ReplayPort{
		interval: interval,
		file:     f,
		rd:       bufio.NewReader(f),
		closed:   make(chan struct{}),
	}, nil
}

// OpenReplay returns an Opener that replays the given file, ignoring
// the port name and baud rate.
func OpenReplay(path string, interval time.Duration) Opener {
	return func(name string, baud int) (Port, error) {
		return NewReplayPort(path, interval)
	}
}

func (r *ReplayPort) Read(p []byte) (int, error) {
	r.mu.Lock()
	if len(r.pending) > 0 {
		n := copy(p, r.pending)
		r.pending = r.pending[n:]
		r.mu.Unlock()
		return n, nil
	}
	r.mu.Unlock()

	select {
	case <-r.closed:
		return 0, io.EOF
	case <-time.After(r.interval):
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	line, err := r.rd.ReadString('\n')
	if len(line) > 0 {
		n := copy(p, line)
		r.pending = []byte(line[n:])
		return n, nil
	}
	if err != nil {
		return 0, err
	}
	return 0, io.EOF
}

// Write discards the payload; a replay has no device to talk to.
func (r *ReplayPort) Write(p []byte) (int, error) {
	return len(p), nil
}

func (r *ReplayPort) Close() error {
	select {
	case <-r.closed:
	default:
		close(r.closed)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Close()
}
