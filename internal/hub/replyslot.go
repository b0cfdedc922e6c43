package hub

import (
	"time"

	"github.com/google/uuid"
)

// SlotID is the opaque correlation token for one outstanding ping-pong
// request. It never leaves the process — it exists purely so a timeout
// cleanup can find and remove its own slot out of a FIFO it shares with
// every other in-flight request for the same identifier.
type SlotID string

func newSlotID() SlotID {
	return SlotID(uuid.NewString())
}

// ReplySlot is one pending request's one-shot reply sink. The publish
// handler owns it until it pushes it onto the identifier's FIFO; from
// that point the reader loop owns delivery. Closing reply (done via
// closing the channel, see close) unblocks an awaiting publisher
// with "channel closed" rather than a value.
//
// A reply that arrives after this slot's publisher has already timed out
// is delivered to whichever slot is now at the head of the FIFO, not
// dropped and not matched back to this slot specifically. That ambiguity
// is intentional, not a bug: the FIFO has no way to know a head slot's
// publisher stopped listening without deliver blocking on it.
type ReplySlot struct {
	ID        SlotID
	reply     chan []byte
	createdAt time.Time
}

func newReplySlot() *ReplySlot {
	return &ReplySlot{
		ID:        newSlotID(),
		reply:     make(chan []byte, 1),
		createdAt: time.Now(),
	}
}

// deliver hands the reader's inbound frame to the waiting publisher. Safe
// to call at most once; the reader only ever pops a slot once.
func (s *ReplySlot) deliver(payload []byte) {
	s.reply <- payload
}

// close unblocks any publisher still waiting on this slot with a "channel
// closed" signal instead of a value.
func (s *ReplySlot) close() {
	close(s.reply)
}

// Await blocks the publishing task until one of three things happens:
// a reply arrives (payload, true, true), the slot is closed without a
// reply because the subscriber disconnected (nil, false, true), or
// timeout elapses first (nil, false, false).
func (s *ReplySlot) Await(timeout time.Duration) (payload []byte, delivered bool, ok bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case payload, open := <-s.reply:
		return payload, open, true
	case <-timer.C:
		return nil, false, false
	}
}
