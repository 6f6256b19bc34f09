package ingest

import (
	"fmt"
	"time"
)

// StampMode selects how received lines are timestamped.
type StampMode int

const (
	StampOff StampMode = iota
	StampAbsolute
	StampRelative
)

func (m StampMode) String() string {
	switch m {
	case StampAbsolute:
		return "absolute"
	case StampRelative:
		return "relative"
	default:
		return "off"
	}
}

// Stamp returns the timestamp text for a line arriving at now: wall
// clock for absolute mode, elapsed since session start for relative
// mode, empty when stamping is off.
func Stamp(mode StampMode, start, now time.Time) string {
	switch mode {
	case StampAbsolute:
		return now.Format("15:04:05.000")
	case StampRelative:
		return FormatElapsed(now.Sub(start))
	default:
		return ""
	}
}

// FormatElapsed renders a duration as fixed-width hh:mm:ss.mmm.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	ms := d / time.Millisecond
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}
