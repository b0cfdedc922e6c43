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

func TestRunHeartbeat_EnqueuesPingsUntilQueueCloses(t *testing.T) {
	q := queue.New()
	done := make(chan struct{})

	go func() {
		hub.RunHeartbeat(q, 10*time.Millisecond)
		close(done)
	}()

	m, ok := q.Dequeue()
	require.True(t, ok)
	assert.Equal(t, message.Ping, m.Kind)

	q.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunHeartbeat did not exit after queue closed")
	}
}
