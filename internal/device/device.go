// Package device provides the serial port layer: opening and ending
// sessions with real hardware via go.bug.st/serial, plus synthetic
// ports (demo waveform, capture replay) that feed the same pipeline.
package device

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// BaudRates lists the selectable rates, lowest first.
var BaudRates = []int{300, 1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200, 230400, 250000}

// DefaultBaud is used when no rate is configured.
const DefaultBaud = 115200

// Port is the device handle the session owns: reads feed the ingestion
// producer, writes carry the send path.
type Port interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

// Opener acquires a port by name and baud rate. Sessions take one so
// tests and the demo/replay modes can substitute fakes.
type Opener func(name string, baud int) (Port, error)

// Open opens a real serial port at 8N1 with a short read timeout so the
// read loop can notice shutdown.
func Open(name string, baud int) (Port, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s @ %d: %w", name, baud, err)
	}
	if err := p.SetReadTimeout(100 * time.Millisecond); err != nil {
		p.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}
	return p, nil
}

// List returns the names of detected serial ports.
func List() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list ports: %w", err)
	}
	return ports, nil
}
