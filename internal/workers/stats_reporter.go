// Package workers carries Notir's one background job: a periodic log of
// registry population (construct with dependencies + logger, Start(ctx),
// self-stop on ctx.Done()).
package workers

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"notir/internal/hub"
)

// StatsReporter logs SingleRegistry and BroadcastRegistry population on
// a cron schedule. It has no effect on any invariant — it only reads
// registry sizes — and exists purely as operational visibility.
type StatsReporter struct {
	single    *hub.SingleRegistry
	broadcast *hub.BroadcastRegistry
	logger    *slog.Logger
	cron      *cron.Cron
}

func NewStatsReporter(single *hub.SingleRegistry, broadcast *hub.BroadcastRegistry, logger *slog.Logger) *StatsReporter {
	return &StatsReporter{
		single:    single,
		broadcast: broadcast,
		logger:    logger,
		cron:      cron.New(),
	}
}

// Start schedules the report to run every minute and blocks until ctx
// is cancelled, at which point the cron scheduler is stopped.
func (s *StatsReporter) Start(ctx context.Context) {
	_, err := s.cron.AddFunc("@every 1m", s.report)
	if err != nil {
		s.logger.Error("stats reporter: failed to schedule job", slog.String("error", err.Error()))
		return
	}

	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
}

func (s *StatsReporter) report() {
	singleIdentifiers, singleConns, pendingSlots := s.single.Stats()
	broadcastIdentifiers, broadcastConns := s.broadcast.Stats()

	s.logger.Info("registry stats",
		slog.Int("single_identifiers", singleIdentifiers),
		slog.Int("single_connections", singleConns),
		slog.Int("pending_reply_slots", pendingSlots),
		slog.Int("broadcast_identifiers", broadcastIdentifiers),
		slog.Int("broadcast_connections", broadcastConns),
	)
}
