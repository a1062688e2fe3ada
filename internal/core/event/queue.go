package event

import "sync"

// Queue is an unbounded multi-producer, single-consumer FIFO. Producers hold
// Sender clones; the simulation loop is the sole consumer and drains it once
// per frame, after every entity's own update pass, so cross-entity mutations
// never interleave with iteration.
type Queue[T any] struct {
	mu     sync.Mutex
	buf    []T
	closed bool
}

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{buf: make([]T, 0, 64)}
}

// Sender returns a cloneable producer endpoint. Sender values are cheap to
// copy and safe to share.
func (q *Queue[T]) Sender() Sender[T] {
	return Sender[T]{q: q}
}

// TryReceive pops the oldest queued event, or reports false when empty.
func (q *Queue[T]) TryReceive() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.buf) == 0 {
		var zero T
		return zero, false
	}
	ev := q.buf[0]
	q.buf = q.buf[1:]
	if len(q.buf) == 0 {
		q.buf = q.buf[:0:cap(q.buf)]
	}
	return ev, true
}

// Len reports the number of queued events.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buf)
}

// Close marks the consumer as gone. Subsequent sends are silently discarded;
// used during shutdown so lingering senders never block or fail.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	q.closed = true
	q.buf = nil
	q.mu.Unlock()
}

// Sender enqueues events. The zero Sender discards everything, which is the
// state freshly deserialized entities are in until the post-load rewiring
// pass re-attaches them to a live queue.
type Sender[T any] struct {
	q *Queue[T]
}

// Send never blocks and never fails. Events sent after Close are dropped.
func (s Sender[T]) Send(ev T) {
	if s.q == nil {
		return
	}
	s.q.mu.Lock()
	if !s.q.closed {
		s.q.buf = append(s.q.buf, ev)
	}
	s.q.mu.Unlock()
}

// Attached reports whether the sender is wired to a queue.
func (s Sender[T]) Attached() bool { return s.q != nil }
