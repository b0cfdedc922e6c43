// Package queue implements the per-connection unbounded outbound buffer:
// producers (publish handlers, the heartbeat) never block under lock,
// and the canonical dead-connection signal is a failed enqueue rather
// than an out-of-band callback.
package queue

import (
	"errors"
	"sync"

	"notir/internal/message"
)

// ErrClosed is returned by Enqueue once the writer task that owns this
// queue's read end has exited. It is the "send on closed queue" signal
// the rest of the system treats as the dead-connection indicator.
var ErrClosed = errors.New("queue: send on closed queue")

// Outbound is an unbounded FIFO of Messages feeding one socket's writer.
// It is backed by a growable slice guarded by a mutex rather than a
// buffered channel, precisely because it must never block a producer —
// a buffered channel would, once full.
type Outbound struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []message.Message
	closed bool
}

func New() *Outbound {
	q := &Outbound{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends a Message for the writer to drain. It returns ErrClosed,
// without blocking, once the writer has exited.
func (q *Outbound) Enqueue(m message.Message) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}
	q.items = append(q.items, m)
	q.cond.Signal()
	return nil
}

// Dequeue blocks until a Message is available or the queue is closed. The
// writer task is the sole caller; ok is false once the queue is closed and
// drained.
func (q *Outbound) Dequeue() (m message.Message, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return message.Message{}, false
	}
	m, q.items = q.items[0], q.items[1:]
	return m, true
}

// Close marks the queue closed and wakes the writer so it can drain
// whatever remains before observing ok=false. Idempotent.
func (q *Outbound) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}

func (q *Outbound) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
