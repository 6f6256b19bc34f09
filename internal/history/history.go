// Package history provides the rolling sample buffer backing the live
// plot, with oldest-first eviction and window statistics.
package history

// Capacity is the default number of samples retained for plotting.
const Capacity = 500

// Buffer stores the most recent samples in arrival order. It is owned
// exclusively by the render loop and needs no locking.
type Buffer struct {
	samples []float64
	max     int
}

// New creates a buffer that retains the given number of samples.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = Capacity
	}
	return &Buffer{
		samples: make([]float64, 0, capacity),
		max:     capacity,
	}
}

// Push appends a sample, evicting the oldest one when full.
func (b *Buffer) Push(v float64) {
	if len(b.samples) >= b.max {
		copy(b.samples, b.samples[1:])
		b.samples[len(b.samples)-1] = v
	} else {
		b.samples = append(b.samples, v)
	}
}

// Clear empties the buffer. Called once per new session, after the port
// opens successfully.
func (b *Buffer) Clear() {
	b.samples = b.samples[:0]
}

// Len returns the number of stored samples.
func (b *Buffer) Len() int {
	return len(b.samples)
}

// Values returns a copy of the stored samples, oldest first.
func (b *Buffer) Values() []float64 {
	out := make([]float64, len(b.samples))
	copy(out, b.samples)
	return out
}

// Last returns the most recent sample, or 0 if empty.
func (b *Buffer) Last() float64 {
	if len(b.samples) == 0 {
		return 0
	}
	return b.samples[len(b.samples)-1]
}

// Min returns the smallest sample in the window, or 0 if empty.
func (b *Buffer) Min() float64 {
	if len(b.samples) == 0 {
		return 0
	}
	min := b.samples[0]
	for _, v := range b.samples[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the largest sample in the window, or 0 if empty.
func (b *Buffer) Max() float64 {
	if len(b.samples) == 0 {
		return 0
	}
	max := b.samples[0]
	for _, v := range b.samples[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Avg returns the mean over the window, or 0 if empty.
func (b *Buffer) Avg() float64 {
	if len(b.samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range b.samples {
		sum += v
	}
	return sum / float64(len(b.samples))
}
