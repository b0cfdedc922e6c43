package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notir/internal/api/handlers"
	"notir/internal/api/middleware"
	"notir/internal/api/router"
	"notir/internal/config"
	"notir/internal/hub"
	"notir/internal/workers"
)

func main() {
	// --- 1. Core telemetry & configuration ---
	cfg := config.Load()
	level := slog.LevelInfo
	_ = level.UnmarshalText([]byte(cfg.LogLevel))
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	logger.Info("booting notir")

	// --- 2. Hub state ---
	singleRegistry := hub.NewSingleRegistry()
	broadcastRegistry := hub.NewBroadcastRegistry()

	// --- 3. Handlers ---
	subscribeHandler := handlers.NewSubscribeHandler(singleRegistry, broadcastRegistry, logger, cfg.HeartbeatInterval, cfg.AllowedOrigins)
	publishHandler := handlers.NewPublishHandler(singleRegistry, broadcastRegistry, logger, cfg.ReplyTimeout)
	connectionsHandler := handlers.NewConnectionsHandler(singleRegistry)

	limiter := middleware.NewLimiter(20, 40)

	// --- 4. Background workers ---
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	statsReporter := workers.NewStatsReporter(singleRegistry, broadcastRegistry, logger)
	go statsReporter.Start(workerCtx)

	// --- 5. HTTP gateway ---
	mux := router.New(router.Config{
		AllowedOrigins:     cfg.AllowedOrigins,
		StaticDir:          cfg.StaticDir,
		SubscribeHandler:   subscribeHandler,
		PublishHandler:     publishHandler,
		ConnectionsHandler: connectionsHandler,
		Limiter:            limiter,
		Logger:             logger,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		// No ReadTimeout/WriteTimeout: WebSocket subscribers are
		// long-lived connections, not bounded request/response pairs.
	}

	// --- 6. Graceful exit ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("notir listening", slog.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server crashed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-stop
	logger.Info("shutting down")
	cancelWorkers()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", slog.String("error", err.Error()))
	}
	logger.Info("notir shutdown complete")
}
