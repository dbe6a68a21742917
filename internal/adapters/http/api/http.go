// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/okian/podium/internal/adapters/http/ratelimit"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/ranking"
	"github.com/okian/podium/internal/domain/types"
	"github.com/okian/podium/pkg/logger"
)

const (
	defaultMaxLimit = 100
	corsMaxAge      = 300
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StatsProvider

	SupportedGames() []string
	AddSupportedGame(gameID string) error

	CreateCompetition(ctx context.Context, gameID string, start, end time.Time) (types.Competition, error)
	CreateCompetitionFor(ctx context.Context, gameID string, d time.Duration) (types.Competition, error)
	Competition(ctx context.Context, id string) (types.Competition, error)
	Competitions(ctx context.Context, gameID string) []types.Competition
	RetireCompetition(ctx context.Context, id string) error

	Leaderboard(ctx context.Context, id string) ([]types.Entry, error)
	Top(ctx context.Context, id string, n int) ([]types.Entry, error)
	Rank(ctx context.Context, id, userID string) (types.Entry, error)
	Neighbors(ctx context.Context, id, userID string, dir ranking.Direction, count int) ([]types.Neighbor, error)
	// MaxNeighborCount is the largest count Neighbors accepts.
	MaxNeighborCount() int

	// SubmitScore applies a score synchronously.
	SubmitScore(ctx context.Context, gameID, userID string, score int64) (types.SubmitResult, error)
	// Enqueue pushes a submission for async processing.
	Enqueue(ctx context.Context, s model.Submission) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps      Dependencies
	validator *Validator
	limiter   *ratelimit.KeyedRateLimiter
	maxLimit  int
	origins   []string
	logger    logger.Logger

	healthHandler *HealthHandler
	statsHandler  *StatsHandler
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithRateLimiter throttles score submissions per user.
func WithRateLimiter(l *ratelimit.KeyedRateLimiter) Option {
	return func(s *Server) { s.limiter = l }
}

// WithMaxLimit caps the limit accepted by the top endpoint.
func WithMaxLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithCORSOrigins allows cross-origin requests from origins.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// WithLogger sets a custom request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		deps:          deps,
		validator:     NewValidator(),
		maxLimit:      defaultMaxLimit,
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("http")
	}
	return s
}

// Routes builds the chi router serving every endpoint.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if len(s.origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			ExposedHeaders: []string{"Retry-After"},
			MaxAge:         corsMaxAge,
		}))
	}

	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/metrics", s.healthHandler.HandleMetrics)
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	r.Route("/games", func(r chi.Router) {
		r.Get("/", MetricsMiddleware(s.handleListGames, "games"))
		r.Post("/", MetricsMiddleware(s.handleAddGame, "games"))
	})

	r.Route("/competitions", func(r chi.Router) {
		r.Get("/", MetricsMiddleware(s.handleListCompetitions, "competitions"))
		r.Post("/", MetricsMiddleware(s.handleCreateCompetition, "competitions"))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", MetricsMiddleware(s.handleGetCompetition, "competition"))
			r.Delete("/", MetricsMiddleware(s.handleRetireCompetition, "competition"))
			r.Get("/top", MetricsMiddleware(s.handleTop, "top"))
			r.Get("/users/{user}", MetricsMiddleware(s.handleRank, "rank"))
			r.Get("/users/{user}/neighbors", MetricsMiddleware(s.handleNeighbors, "neighbors"))
		})
	})

	r.Post("/scores", MetricsMiddleware(s.handleSubmitScore, "scores"))
	return r
}
