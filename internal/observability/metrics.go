package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "division_data"

// Metrics holds the Prometheus counters, histograms, and gauges for the
// division data service.
type Metrics struct {
	// Fetch metrics.
	FetchDuration    *prometheus.HistogramVec // labels: division
	FetchErrors      *prometheus.CounterVec   // labels: kind
	AnalyzerDuration *prometheus.HistogramVec // labels: analyzer
	AnalyzerErrors   *prometheus.CounterVec   // labels: analyzer, kind

	// API metrics.
	HTTPRequests *prometheus.CounterVec // labels: route, code
	RateLimited  prometheus.Counter

	// Snapshot publishing metrics.
	SnapshotsPublished  prometheus.Counter
	SnapshotFailures    *prometheus.CounterVec // labels: stage={fetch,serialize,write}
	SnapshotRunDuration prometheus.Histogram
	SnapshotEnabled     prometheus.Gauge
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of a complete division fetch.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"division"}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_errors_total",
			Help:      "Failed division fetches by error kind.",
		}, []string{"kind"}),
		AnalyzerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analyzer_duration_seconds",
			Help:      "Duration of a single analyzer run, including file reads.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5},
		}, []string{"analyzer"}),
		AnalyzerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyzer_errors_total",
			Help:      "Analyzer failures by analyzer and error kind.",
		}, []string{"analyzer", "kind"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "API requests by route pattern and status code.",
		}, []string{"route", "code"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_rate_limited_total",
			Help:      "API requests rejected by the rate limiter.",
		}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_published_total",
			Help:      "Division snapshots written to Kafka.",
		}),
		SnapshotFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_failures_total",
			Help:      "Snapshot failures by stage.",
		}, []string{"stage"}),
		SnapshotRunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "snapshot_run_duration_seconds",
			Help:      "Duration of a complete snapshot run across all divisions.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		SnapshotEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_enabled",
			Help:      "1 when scheduled snapshot publishing is enabled, 0 otherwise.",
		}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FetchDuration,
		m.FetchErrors,
		m.AnalyzerDuration,
		m.AnalyzerErrors,
		m.HTTPRequests,
		m.RateLimited,
		m.SnapshotsPublished,
		m.SnapshotFailures,
		m.SnapshotRunDuration,
		m.SnapshotEnabled,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid "already
// registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
