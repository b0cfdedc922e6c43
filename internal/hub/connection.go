package hub

import (
	"github.com/google/uuid"

	"notir/internal/queue"
)

// ConnectionID uniquely identifies one live socket within a registry for
// the lifetime of that connection.
type ConnectionID string

func newConnectionID() ConnectionID {
	return ConnectionID(uuid.NewString())
}

// SubscriberConn is the registry's handle on one live WebSocket: an id and
// an enqueue-only view of its OutboundQueue. The registry never holds a
// back-reference to the reader or writer task — disconnect is discovered
// independently by whichever side fails first and is observed by
// producers as a closed queue.
type SubscriberConn struct {
	ID    ConnectionID
	Queue *queue.Outbound
}

func newSubscriberConn(q *queue.Outbound) SubscriberConn {
	return SubscriberConn{ID: newConnectionID(), Queue: q}
}
