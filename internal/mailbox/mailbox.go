package mailbox

import (
	"context"
	"sync"
)

// Mailbox is a single-slot buffer where the latest job always wins.
// It is NOT a queue. It holds at most one pending job, so any number of
// triggers arriving while the consumer is busy collapse into one.
type Mailbox[T any] struct {
	mu sync.Mutex // serializes Put so the drain+send pair is atomic
	ch chan T
}

// New creates an empty mailbox.
func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{ch: make(chan T, 1)}
}

// Put stores a job in the mailbox, replacing any existing job.
// It never blocks.
func (m *Mailbox[T]) Put(j T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-m.ch:
	default:
	}
	m.ch <- j
}

// Take blocks until a job is available or ctx is done.
func (m *Mailbox[T]) Take(ctx context.Context) (T, bool) {
	select {
	case j := <-m.ch:
		return j, true
	case <-ctx.Done():
		var zero T
		return zero, false
	}
}

// TryTake returns the pending job, if any, without blocking.
func (m *Mailbox[T]) TryTake() (T, bool) {
	select {
	case j := <-m.ch:
		return j, true
	default:
		var zero T
		return zero, false
	}
}

// HasJob reports whether a job is currently waiting.
func (m *Mailbox[T]) HasJob() bool {
	return len(m.ch) > 0
}
