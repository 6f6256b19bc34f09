// Package queue provides the unbounded FIFO hand-off queues that bridge
// the serial read goroutine and the render loop. Multiple producers may
// push concurrently; a single consumer drains.
package queue

import "sync"

// Queue is a multi-producer, single-consumer FIFO. The zero value is
// ready to use.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
}

// Push appends v to the tail. Safe for concurrent use.
func (q *Queue[T]) Push(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()
}

// Drain removes and returns everything queued at the time of the call,
// in FIFO order. Values pushed while a drain is in progress are left for
// the next drain. Returns nil when empty.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.mu.Unlock()
	return items
}

// Len reports the number of queued values.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	n := len(q.items)
	q.mu.Unlock()
	return n
}
