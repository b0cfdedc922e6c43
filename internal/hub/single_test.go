package hub_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notir/internal/hub"
	"notir/internal/message"
	"notir/internal/queue"
)

func TestSingleRegistry_RegisterAndCount(t *testing.T) {
	r := hub.NewSingleRegistry()
	q := queue.New()

	conn := r.Register("room-a", q)
	assert.NotEmpty(t, conn.ID)
	assert.Equal(t, 1, r.Count("room-a"))
	assert.Equal(t, 0, r.Count("unknown"))
}

func TestSingleRegistry_Remove_DeletesEmptyIdentifier(t *testing.T) {
	r := hub.NewSingleRegistry()
	q := queue.New()
	conn := r.Register("room-a", q)

	r.Remove("room-a", conn.ID)

	assert.Equal(t, 0, r.Count("room-a"))
	_, ok := r.PickLive("room-a")
	assert.False(t, ok)
}

func TestSingleRegistry_Remove_IsIdempotent(t *testing.T) {
	r := hub.NewSingleRegistry()
	q := queue.New()
	conn := r.Register("room-a", q)

	r.Remove("room-a", conn.ID)
	assert.NotPanics(t, func() { r.Remove("room-a", conn.ID) })
}

func TestSingleRegistry_PickLive_ReturnsALiveSubscriber(t *testing.T) {
	r := hub.NewSingleRegistry()
	qa := queue.New()
	qb := queue.New()
	connA := r.Register("room-a", qa)
	connB := r.Register("room-a", qb)

	conn, ok := r.PickLive("room-a")
	require.True(t, ok)
	assert.Contains(t, []hub.ConnectionID{connA.ID, connB.ID}, conn.ID)
}

func TestSingleRegistry_DeliverInbound_PopsHeadSlotFIFO(t *testing.T) {
	r := hub.NewSingleRegistry()

	first := r.PushSlot("room-a")
	second := r.PushSlot("room-a")

	r.DeliverInbound("room-a", false, []byte("reply-1"))
	r.DeliverInbound("room-a", false, []byte("reply-2"))

	payload, delivered, ok := first.Await(time.Second)
	require.True(t, ok)
	require.True(t, delivered)
	assert.Equal(t, "reply-1", string(payload))

	payload, delivered, ok = second.Await(time.Second)
	require.True(t, ok)
	require.True(t, delivered)
	assert.Equal(t, "reply-2", string(payload))
}

func TestSingleRegistry_DeliverInbound_LegacyBangEscapeIsDiscarded(t *testing.T) {
	r := hub.NewSingleRegistry()
	slot := r.PushSlot("room-a")

	r.DeliverInbound("room-a", true, []byte("!"))

	_, _, ok := slot.Await(20 * time.Millisecond)
	assert.False(t, ok, "the '!' heartbeat escape must not be delivered as a reply")
}

func TestSingleRegistry_DeliverInbound_NoWaitingSlotIsDropped(t *testing.T) {
	r := hub.NewSingleRegistry()
	assert.NotPanics(t, func() {
		r.DeliverInbound("room-a", false, []byte("nobody is listening"))
	})
}

func TestSingleRegistry_Remove_ClosesPendingSlots(t *testing.T) {
	r := hub.NewSingleRegistry()
	q := queue.New()
	conn := r.Register("room-a", q)
	slot := r.PushSlot("room-a")

	r.Remove("room-a", conn.ID)

	payload, delivered, ok := slot.Await(time.Second)
	assert.True(t, ok)
	assert.False(t, delivered)
	assert.Nil(t, payload)
}

func TestSingleRegistry_PopSlotByID_RemovesOnlyMatchingSlot(t *testing.T) {
	r := hub.NewSingleRegistry()
	first := r.PushSlot("room-a")
	second := r.PushSlot("room-a")

	r.PopSlotByID("room-a", first.ID)

	got, ok := r.PopHeadSlot("room-a")
	require.True(t, ok)
	assert.Equal(t, second.ID, got.ID)
}

func TestSingleRegistry_Stats(t *testing.T) {
	r := hub.NewSingleRegistry()
	r.Register("room-a", queue.New())
	r.Register("room-a", queue.New())
	r.Register("room-b", queue.New())
	r.PushSlot("room-a")

	identifiers, connections, pendingSlots := r.Stats()
	assert.Equal(t, 2, identifiers)
	assert.Equal(t, 3, connections)
	assert.Equal(t, 1, pendingSlots)
}

func TestSingleRegistry_ShotEnqueueThenPrune(t *testing.T) {
	r := hub.NewSingleRegistry()
	q := queue.New()
	conn := r.Register("room-a", q)
	q.Close()

	got, ok := r.PickLive("room-a")
	require.True(t, ok)
	assert.Equal(t, conn.ID, got.ID)

	err := got.Queue.Enqueue(message.NewText("hi"))
	require.ErrorIs(t, err, queue.ErrClosed)

	r.Remove("room-a", got.ID)
	assert.Equal(t, 0, r.Count("room-a"))
}
