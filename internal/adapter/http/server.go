package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/division-data-service/internal/domain"
	"github.com/couchcryptid/division-data-service/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// DivisionService is the data-fetch contract the API serves.
type DivisionService interface {
	Fetch(ctx context.Context, division string) (domain.DivisionData, error)
	FetchLegacy(ctx context.Context) (domain.DivisionData, error)
	Divisions() []domain.Division
	CheckReadiness(ctx context.Context) error
}

// Options tunes the API routes.
type Options struct {
	// RateLimit is the sustained requests per second allowed on /api/ routes.
	// Zero disables limiting.
	RateLimit float64
	RateBurst int
}

// Server exposes the division data API plus health, readiness, and metrics
// endpoints.
type Server struct {
	httpServer *http.Server
	svc        DivisionService
	logger     *slog.Logger
	metrics    *observability.Metrics
	limiter    *rate.Limiter
}

// NewServer creates an HTTP server with the /api/ routes, /healthz, /readyz,
// and /metrics.
func NewServer(addr string, svc DivisionService, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Server {
	mux := http.NewServeMux()

	s := &Server{
		svc:     svc,
		logger:  logger,
		metrics: metrics,
	}
	if opts.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), max(opts.RateBurst, 1))
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.withRequestID(s.withAccessLog(mux)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	mux.Handle("GET /api/nasa-data", s.limit(s.handleList))
	mux.Handle("GET /api/nasa-data/{division}", s.limit(s.handleDivision))
	// Legacy single-division routes. The literal path takes precedence over
	// the {division} wildcard.
	mux.Handle("GET /api/nasa-data/rajshahi", s.limit(s.handleLegacy))
	mux.Handle("GET /api/rajshahi-data", s.limit(s.handleLegacy))

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(svc))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
