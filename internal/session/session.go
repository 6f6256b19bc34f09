// Package session implements the connect/disconnect lifecycle around a
// serial port: it owns the device handle, the ingestion producer, and
// the producer side of the hand-off queues.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/luki/serialscope/internal/device"
	"github.com/luki/serialscope/internal/ingest"
	"github.com/luki/serialscope/internal/queue"
)

// State is the session lifecycle state. There are exactly two.
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// ErrNoPort is returned by Connect when no port has been selected.
var ErrNoPort = errors.New("no port selected")

// Session is one open-device lifetime. The render loop drains the Text
// and Samples queues; everything else in here is producer-side.
type Session struct {
	Text    queue.Queue[string]
	Samples queue.Queue[float64]

	opener    device.Opener
	stampMode func() ingest.StampMode
	log       *slog.Logger

	state     State
	portName  string
	baud      int
	startedAt time.Time
	port      device.Port
	reader    *device.Reader
	rx        atomic.Int64
}

// New creates a closed session. stampMode is consulted by the producer
// on every chunk; nil means no timestamping.
func New(opener device.Opener, stampMode func() ingest.StampMode, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		opener:    opener,
		stampMode: stampMode,
		log:       log,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// IsOpen reports whether a device is connected.
func (s *Session) IsOpen() bool { return s.state == Open }

// PortName returns the connected port's name, or "" when closed.
func (s *Session) PortName() string { return s.portName }

// Baud returns the rate the session was opened at.
func (s *Session) Baud() int { return s.baud }

// StartedAt returns the session-start instant, the zero point for
// relative timestamps.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// RxBytes returns the total bytes read off the device across the
// session's lifetime, counted before any timestamp decoration.
func (s *Session) RxBytes() int64 { return s.rx.Load() }

// Connect opens the device and starts ingestion. Connect on an open
// session acts as Disconnect (toggle semantics). On failure the session
// stays closed and no handle is retained.
func (s *Session) Connect(portName string, baud int) error {
	if s.state == Open {
		s.Disconnect()
		return nil
	}
	if portName == "" {
		return ErrNoPort
	}

	port, err := s.opener(portName, baud)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	s.port = port
	s.portName = portName
	s.baud = baud
	s.startedAt = time.Now()

	producer := ingest.NewProducer(&s.Text, &s.Samples, s.stampMode)
	producer.Start = s.startedAt
	s.reader = device.StartReader(port, func(chunk []byte) {
		s.rx.Add(int64(len(chunk)))
		producer.HandleChunk(chunk)
	})

	s.state = Open
	s.log.Info("session opened", "port", portName, "baud", baud)
	return nil
}

// Disconnect closes the device, stops ingestion, and discards anything
// still queued so a stale chunk cannot leak into the next session.
// Disconnect on a closed session is a no-op.
func (s *Session) Disconnect() {
	if s.state == Closed {
		return
	}

	// Closing first unblocks a pending read; Stop then waits for the
	// reader goroutine, so no enqueue happens after this returns.
	s.port.Close()
	s.reader.Stop()

	s.Text.Drain()
	s.Samples.Drain()

	s.port = nil
	s.reader = nil
	s.state = Closed
	s.log.Info("session closed", "port", s.portName)
}

// Send writes payload plus the configured line-ending suffix.
func (s *Session) Send(payload string, end ingest.LineEnding) error {
	return s.SendBytes([]byte(payload + end.Suffix()))
}

// SendBytes writes raw bytes to the device; the live-typing path uses
// this for per-keystroke forwarding.
func (s *Session) SendBytes(b []byte) error {
	if s.state != Open {
		return errors.New("not connected")
	}
	if _, err := s.port.Write(b); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
