package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataDir         string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// API rate limiting. A zero limit disables it.
	APIRateLimit float64
	APIRateBurst int

	// Scheduled snapshot publishing to Kafka.
	SnapshotEnabled     bool
	SnapshotSchedule    string
	SnapshotMaxAttempts int
	KafkaBrokers        []string
	KafkaSnapshotTopic  string
	BatchFlushInterval  time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is loaded first if
// present; variables already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	rateLimit, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("API_RATE_LIMIT", "0"), 64)
	if err != nil || rateLimit < 0 {
		return nil, errors.New("invalid API_RATE_LIMIT: must be a non-negative number")
	}

	rateBurst, err := strconv.Atoi(sharedcfg.EnvOrDefault("API_RATE_BURST", "20"))
	if err != nil || rateBurst < 1 {
		return nil, errors.New("invalid API_RATE_BURST: must be a positive integer")
	}

	snapshotEnabled, err := strconv.ParseBool(sharedcfg.EnvOrDefault("SNAPSHOT_ENABLED", "false"))
	if err != nil {
		return nil, errors.New("invalid SNAPSHOT_ENABLED: must be true or false")
	}

	maxAttempts, err := strconv.Atoi(sharedcfg.EnvOrDefault("SNAPSHOT_MAX_ATTEMPTS", "5"))
	if err != nil || maxAttempts < 1 || maxAttempts > 20 {
		return nil, errors.New("invalid SNAPSHOT_MAX_ATTEMPTS: must be 1-20")
	}

	cfg := &Config{
		DataDir:             sharedcfg.EnvOrDefault("DATA_DIR", "data"),
		HTTPAddr:            sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:            sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:     shutdownTimeout,
		APIRateLimit:        rateLimit,
		APIRateBurst:        rateBurst,
		SnapshotEnabled:     snapshotEnabled,
		SnapshotSchedule:    sharedcfg.EnvOrDefault("SNAPSHOT_SCHEDULE", "@every 15m"),
		SnapshotMaxAttempts: maxAttempts,
		KafkaBrokers:        sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSnapshotTopic:  sharedcfg.EnvOrDefault("KAFKA_SNAPSHOT_TOPIC", "division-indicator-snapshots"),
		BatchFlushInterval:  flushInterval,
	}

	if cfg.SnapshotEnabled {
		if _, err := cron.ParseStandard(cfg.SnapshotSchedule); err != nil {
			return nil, fmt.Errorf("invalid SNAPSHOT_SCHEDULE: %w", err)
		}
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when SNAPSHOT_ENABLED is true")
		}
		if cfg.KafkaSnapshotTopic == "" {
			return nil, errors.New("KAFKA_SNAPSHOT_TOPIC is required when SNAPSHOT_ENABLED is true")
		}
	}

	return cfg, nil
}
