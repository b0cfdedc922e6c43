package workers_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"notir/internal/hub"
	"notir/internal/queue"
	"notir/internal/workers"
)

func TestStatsReporter_StopsOnContextCancel(t *testing.T) {
	single := hub.NewSingleRegistry()
	broadcast := hub.NewBroadcastRegistry()
	single.Register("room-a", queue.New())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reporter := workers.NewStatsReporter(single, broadcast, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reporter.Start(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after context cancellation")
	}
}
