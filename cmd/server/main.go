package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	httpadapter "github.com/couchcryptid/division-data-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/division-data-service/internal/adapter/kafka"
	"github.com/couchcryptid/division-data-service/internal/analyzer"
	"github.com/couchcryptid/division-data-service/internal/config"
	"github.com/couchcryptid/division-data-service/internal/ingest"
	"github.com/couchcryptid/division-data-service/internal/observability"
	"github.com/couchcryptid/division-data-service/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	reader := ingest.NewReader(cfg.DataDir)
	p := pipeline.New(
		analyzer.SoilMoisture(reader),
		analyzer.Temperature(reader),
		analyzer.Vegetation(reader),
		reader,
		logger,
		metrics,
	)
	if err := p.CheckReadiness(context.Background()); err != nil {
		// Not fatal: /readyz reports it until the data is mounted.
		logger.Warn("data directory incomplete", "data_dir", cfg.DataDir, "error", err)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, httpadapter.Options{
		RateLimit: cfg.APIRateLimit,
		RateBurst: cfg.APIRateBurst,
	}, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Start snapshot publisher (feature-flagged via SNAPSHOT_ENABLED).
	var writer *kafkaadapter.Writer
	var publisherDone sync.WaitGroup
	if cfg.SnapshotEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher := pipeline.NewPublisher(p, writer, cfg.SnapshotSchedule, cfg.SnapshotMaxAttempts, logger, metrics)
		publisherDone.Add(1)
		go func() {
			defer publisherDone.Done()
			if err := publisher.Run(ctx); err != nil {
				logger.Error("snapshot publisher error", "error", err)
			}
		}()
		logger.Info("snapshot publishing enabled", "topic", cfg.KafkaSnapshotTopic, "schedule", cfg.SnapshotSchedule)
	} else {
		logger.Info("snapshot publishing disabled")
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	publisherDone.Wait()
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
