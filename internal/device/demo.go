package device

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"sync"
	"time"
)

// DemoPort synthesizes a noisy sine wave, one sample line per interval,
// so the whole pipeline can be exercised without hardware.
type DemoPort struct {
	interval time.Duration

	mu      sync.Mutex
	closed  chan struct{}
	step    int
	pending []byte
}

// NewDemoPort creates a demo port emitting one line per interval.
func NewDemoPort(interval time.Duration) *DemoPort {
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	return &DemoPort{
		interval: interval,
		closed:   make(chan struct{}),
	}
}

// OpenDemo is an Opener producing demo ports; name and baud are ignored.
func OpenDemo(name string, baud int) (Port, error) {
	return NewDemoPort(50 * time.Millisecond), nil
}

func (d *DemoPort) Read(p []byte) (int, error) {
	d.mu.Lock()
	if len(d.pending) == 0 {
		d.mu.Unlock()
		select {
		case <-d.closed:
			return 0, io.EOF
		case <-time.After(d.interval):
		}
		d.mu.Lock()
		v := 50 + 40*math.Sin(float64(d.step)/20) + rand.Float64()*4
		d.step++
		// An occasional non-numeric line to mirror mixed device output.
		if d.step%25 == 0 {
			d.pending = append(d.pending, []byte(fmt.Sprintf("status ok step=%d\r\n", d.step))...)
		}
		d.pending = append(d.pending, []byte(fmt.Sprintf("%.3f\r\n", v))...)
	}
	n := copy(p, d.pending)
	d.pending = d.pending[n:]
	d.mu.Unlock()
	return n, nil
}

// Write discards the payload; the demo device has no input side.
func (d *DemoPort) Write(p []byte) (int, error) {
	select {
	case <-d.closed:
		return 0, io.ErrClosedPipe
	default:
		return len(p), nil
	}
}

func (d *DemoPort) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	select {
	case <-d.closed:
	default:
		close(d.closed)
	}
	return nil
}
