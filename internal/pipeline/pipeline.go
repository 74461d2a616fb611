package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/division-data-service/internal/domain"
	"github.com/couchcryptid/division-data-service/internal/observability"
	"golang.org/x/sync/errgroup"
)

// SignalAnalyzer summarizes one physical quantity for a division.
type SignalAnalyzer interface {
	Name() string
	Analyze(ctx context.Context, d domain.Division) (domain.AnalyzerResult, error)
}

// ReadinessChecker reports whether the data the pipeline reads is in place.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Pipeline aggregates the three analyzers and the flood-risk table into one
// division record. It keeps no per-request state; every call re-reads the
// data files.
type Pipeline struct {
	soil    SignalAnalyzer
	temp    SignalAnalyzer
	veg     SignalAnalyzer
	data    ReadinessChecker
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Pipeline from the soil moisture, temperature, and vegetation
// analyzers. data backs CheckReadiness.
func New(soil, temp, veg SignalAnalyzer, data ReadinessChecker, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		soil:    soil,
		temp:    temp,
		veg:     veg,
		data:    data,
		logger:  logger,
		metrics: metrics,
	}
}

// Divisions returns the supported divisions in listing order.
func (p *Pipeline) Divisions() []domain.Division {
	return domain.SupportedDivisions()
}

// CheckReadiness returns nil when the data root and every division directory
// exist.
func (p *Pipeline) CheckReadiness(ctx context.Context) error {
	return p.data.CheckReadiness(ctx)
}

// Fetch validates the division identifier (case-insensitive) and runs all
// analyzers concurrently. The first analyzer failure cancels the others and
// is returned unchanged; there is no partial result.
func (p *Pipeline) Fetch(ctx context.Context, division string) (domain.DivisionData, error) {
	d, err := domain.ParseDivision(division)
	if err != nil {
		p.metrics.FetchErrors.WithLabelValues(string(domain.KindOf(err))).Inc()
		return domain.DivisionData{}, err
	}

	start := time.Now()
	data, err := p.fetch(ctx, d)
	if err != nil {
		p.metrics.FetchErrors.WithLabelValues(string(domain.KindOf(err))).Inc()
		return domain.DivisionData{}, err
	}
	elapsed := time.Since(start)
	p.metrics.FetchDuration.WithLabelValues(string(d)).Observe(elapsed.Seconds())
	p.logger.Debug("division fetched", "division", d, "duration", elapsed)
	return data, nil
}

// FetchLegacy serves the single-division query kept for older clients.
func (p *Pipeline) FetchLegacy(ctx context.Context) (domain.DivisionData, error) {
	return p.Fetch(ctx, string(domain.LegacyDivision))
}

func (p *Pipeline) fetch(ctx context.Context, d domain.Division) (domain.DivisionData, error) {
	var analysis domain.Analysis

	g, gctx := errgroup.WithContext(ctx)
	p.analyze(g, gctx, d, p.soil, &analysis.SoilMoisture)
	p.analyze(g, gctx, d, p.temp, &analysis.Temperature)
	p.analyze(g, gctx, d, p.veg, &analysis.Vegetation)
	if err := g.Wait(); err != nil {
		return domain.DivisionData{}, err
	}

	location, _ := domain.Descriptor(d)
	return domain.DivisionData{
		Location: location,
		Indicators: domain.Indicators{
			SoilMoistureAnomaly:  analysis.SoilMoisture.Normalized,
			TemperatureAnomalyC:  analysis.Temperature.Normalized,
			VegetationIndex:      analysis.Vegetation.Normalized,
			FloodRiskProbability: domain.FloodRisk(d),
		},
		Analysis: analysis,
	}, nil
}

// analyze schedules one analyzer on g. Each goroutine writes only its own
// result slot.
func (p *Pipeline) analyze(g *errgroup.Group, ctx context.Context, d domain.Division, a SignalAnalyzer, out *domain.AnalyzerResult) {
	g.Go(func() error {
		start := time.Now()
		res, err := a.Analyze(ctx, d)
		p.metrics.AnalyzerDuration.WithLabelValues(a.Name()).Observe(time.Since(start).Seconds())
		if err != nil {
			p.metrics.AnalyzerErrors.WithLabelValues(a.Name(), string(domain.KindOf(err))).Inc()
			return err
		}
		*out = res
		return nil
	})
}
