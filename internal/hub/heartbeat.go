package hub

import (
	"time"

	"notir/internal/message"
	"notir/internal/queue"
)

// RunHeartbeat enqueues an empty-payload ping onto q every interval; the
// first ping goes out one interval after the call, not immediately. It
// returns as soon as an enqueue fails, which
// happens once the connection's writer task has exited — the canonical
// dead-connection signal used throughout the system.
//
// This task only ever touches the queue, never the socket: the write
// traffic it produces is what lets the writer task (owned by the
// transport layer) discover a dead TCP connection on its own.
func RunHeartbeat(q *queue.Outbound, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		if err := q.Enqueue(message.NewPing()); err != nil {
			return
		}
	}
}
