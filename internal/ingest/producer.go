package ingest

import (
	"time"

	"github.com/luki/serialscope/internal/queue"
)

// Producer is the ingestion side of the pipeline. It runs on the serial
// read goroutine: every received chunk is split, optionally timestamped,
// scanned for numeric samples, and published onto the two hand-off
// queues. It never touches render state.
type Producer struct {
	Text    *queue.Queue[string]
	Samples *queue.Queue[float64]

	// Mode is read on every chunk so user toggles apply immediately.
	Mode func() StampMode

	// Start is the session-start instant, the zero point for relative
	// timestamps.
	Start time.Time

	Now func() time.Time
}

// NewProducer wires a producer to the given queues. mode may be nil, in
// which case stamping is off.
func NewProducer(text *queue.Queue[string], samples *queue.Queue[float64], mode func() StampMode) *Producer {
	if mode == nil {
		mode = func() StampMode { return StampOff }
	}
	return &Producer{
		Text:    text,
		Samples: samples,
		Mode:    mode,
		Start:   time.Now(),
		Now:     time.Now,
	}
}

// HandleChunk processes one received chunk. Any panic (a port vanishing
// mid-read, malformed data) is swallowed: one bad chunk must not take
// the session down.
func (p *Producer) HandleChunk(chunk []byte) {
	defer func() { _ = recover() }()

	raw := string(chunk)
	frags := SplitLines(raw)
	mode := p.Mode()

	var text string
	if mode == StampOff {
		// Verbatim pass-through, no per-line reprocessing.
		text = raw
	} else {
		now := p.Now()
		stamp := Stamp(mode, p.Start, now)
		for _, f := range frags {
			if f.Sep {
				continue
			}
			if isBlank(f.Text) {
				continue
			}
			text += "\n[" + stamp + "] " + f.Text
		}
	}

	for _, f := range frags {
		if f.Sep {
			continue
		}
		if v, ok := ParseSample(f.Text); ok {
			p.Samples.Push(v)
		}
	}

	p.Text.Push(text)
}

func isBlank(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r', '\n':
		default:
			return false
		}
	}
	return true
}
