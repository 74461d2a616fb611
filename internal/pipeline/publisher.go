package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/division-data-service/internal/domain"
	"github.com/couchcryptid/division-data-service/internal/observability"
	sharedretry "github.com/couchcryptid/storm-data-shared/retry"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Fetcher produces division records. *Pipeline implements it.
type Fetcher interface {
	Fetch(ctx context.Context, division string) (domain.DivisionData, error)
	Divisions() []domain.Division
}

// BatchLoader writes multiple output events to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.OutputEvent) error
}

// Exponential backoff for snapshot writes: start at 200ms, double each retry,
// cap at 5s.
const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Publisher periodically fetches every division and writes the records as
// snapshot events. Unlike the API it tolerates per-division failures: a
// division that fails to fetch is logged, counted, and left out of the batch.
type Publisher struct {
	fetcher     Fetcher
	loader      BatchLoader
	schedule    string
	maxAttempts int
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// NewPublisher creates a Publisher. schedule uses standard cron syntax or a
// descriptor such as "@every 15m".
func NewPublisher(f Fetcher, l BatchLoader, schedule string, maxAttempts int, logger *slog.Logger, metrics *observability.Metrics) *Publisher {
	return &Publisher{
		fetcher:     f,
		loader:      l,
		schedule:    schedule,
		maxAttempts: max(maxAttempts, 1),
		logger:      logger,
		metrics:     metrics,
	}
}

// Run publishes once immediately, then on every schedule tick until ctx is
// cancelled. Overlapping runs are skipped.
func (p *Publisher) Run(ctx context.Context) error {
	logger := cronLogger{p.logger}
	c := cron.New(cron.WithLogger(logger), cron.WithChain(cron.SkipIfStillRunning(logger)))
	if _, err := c.AddFunc(p.schedule, func() { p.runScheduled(ctx) }); err != nil {
		return fmt.Errorf("schedule snapshots %q: %w", p.schedule, err)
	}

	p.logger.Info("snapshot publisher started", "schedule", p.schedule)
	p.metrics.SnapshotEnabled.Set(1)
	defer p.metrics.SnapshotEnabled.Set(0)

	p.runScheduled(ctx)
	c.Start()

	<-ctx.Done()
	p.logger.Info("snapshot publisher stopping", "reason", ctx.Err())
	<-c.Stop().Done()
	return nil
}

func (p *Publisher) runScheduled(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := p.RunOnce(ctx); err != nil && ctx.Err() == nil {
		p.logger.Error("snapshot run failed", "error", err)
	}
}

// RunOnce fetches all divisions under one batch ID and writes the successful
// ones. It returns the number of snapshots written.
func (p *Publisher) RunOnce(ctx context.Context) (int, error) {
	start := time.Now()
	batchID := uuid.NewString()

	divisions := p.fetcher.Divisions()
	events := make([]domain.OutputEvent, 0, len(divisions))
	for _, d := range divisions {
		data, err := p.fetcher.Fetch(ctx, string(d))
		if err != nil {
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			p.logger.Warn("snapshot fetch failed, skipping division",
				"division", d,
				"kind", domain.KindOf(err),
				"error", err,
				"batch_id", batchID,
			)
			p.metrics.SnapshotFailures.WithLabelValues("fetch").Inc()
			continue
		}
		out, err := domain.SerializeSnapshot(d, data, batchID)
		if err != nil {
			p.metrics.SnapshotFailures.WithLabelValues("serialize").Inc()
			p.logger.Warn("snapshot serialize failed, skipping division", "division", d, "error", err)
			continue
		}
		events = append(events, out)
	}

	if len(events) == 0 {
		return 0, errors.New("no division produced a snapshot")
	}

	if err := p.load(ctx, events); err != nil {
		p.metrics.SnapshotFailures.WithLabelValues("write").Inc()
		return 0, fmt.Errorf("write snapshot batch %s: %w", batchID, err)
	}

	p.metrics.SnapshotsPublished.Add(float64(len(events)))
	p.metrics.SnapshotRunDuration.Observe(time.Since(start).Seconds())
	p.logger.Info("snapshots published",
		"batch_id", batchID,
		"count", len(events),
		"skipped", len(divisions)-len(events),
		"duration", time.Since(start),
	)
	return len(events), nil
}

// load writes the batch, retrying with exponential backoff up to maxAttempts.
func (p *Publisher) load(ctx context.Context, events []domain.OutputEvent) error {
	backoff := initialBackoff
	var err error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if err = p.loader.LoadBatch(ctx, events); err == nil {
			return nil
		}
		if ctx.Err() != nil || attempt == p.maxAttempts {
			break
		}
		p.logger.Warn("snapshot write failed, retrying", "error", err, "attempt", attempt, "backoff", backoff)
		if !sharedretry.SleepWithContext(ctx, backoff) {
			return ctx.Err()
		}
		backoff = sharedretry.NextBackoff(backoff, maxBackoff)
	}
	return err
}

// cronLogger routes cron's scheduler logs through slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
