// Package service wires competitions, validation and the asynchronous
// submission pipeline behind the operations used by the HTTP API and the
// demo driver.
package service

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/okian/podium/internal/adapters/mq/queue"
	"github.com/okian/podium/internal/adapters/mq/worker"
	"github.com/okian/podium/internal/adapters/repository"
	"github.com/okian/podium/internal/domain/clock"
	"github.com/okian/podium/internal/domain/games"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/ranking"
	"github.com/okian/podium/internal/domain/types"
	"github.com/okian/podium/internal/domain/validation"
	"github.com/okian/podium/pkg/logger"
	"github.com/okian/podium/pkg/metrics"
)

// Defaults mirror the configuration defaults.
const (
	DefaultMinScore         int64 = 0
	DefaultMaxScore         int64 = 1_000_000_000
	DefaultDuration               = 24 * time.Hour
	defaultMaxNeighborCount       = 100
	defaultQueueSize              = 10_000
	drainTimeout                  = 10 * time.Second
)

// Service implements the API dependencies for the competition leaderboards.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     repository.Store
	registry  *games.Registry
	validator validation.ScoreValidator
	clock     clock.Clock
	queue     *queue.InMemoryQueue
	pool      *worker.Pool

	// Configuration
	workerCount      int
	queueSize        int
	maxNeighborCount int
	defaultDuration  time.Duration

	// State
	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

var _ worker.Applier = (*Service)(nil)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the submission queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithMaxNeighborCount caps the count accepted by Neighbors.
func WithMaxNeighborCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxNeighborCount = n
		}
	}
}

// WithDefaultDuration sets the window length used by CreateCompetitionFor
// when no duration is given.
func WithDefaultDuration(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.defaultDuration = d
		}
	}
}

// WithSupportedGames seeds the game allow-list.
func WithSupportedGames(ids ...string) Option {
	return func(s *Service) {
		for _, id := range ids {
			_ = s.registry.Add(id)
		}
	}
}

// WithValidator replaces the default score range validator.
func WithValidator(v validation.ScoreValidator) Option {
	return func(s *Service) {
		if v != nil {
			s.validator = v
		}
	}
}

// WithClock sets the clock that decides which competitions are open.
func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithStore replaces the in-memory competition store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		registry:         games.NewRegistry(),
		validator:        validation.NewRangeValidator(DefaultMinScore, DefaultMaxScore),
		clock:            clock.System(),
		workerCount:      runtime.NumCPU() * 2,
		queueSize:        defaultQueueSize,
		maxNeighborCount: defaultMaxNeighborCount,
		defaultDuration:  DefaultDuration,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore(context.Background(), repository.WithClock(s.clock))
	}
	return s
}

// Start initializes the submission queue and worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting leaderboard service...")

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s)
	s.pool.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "leaderboard service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("games", len(s.registry.List())),
	)
	return nil
}

// Stop drains queued submissions, stops the workers and closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	if s.started {
		s.logger.Info(ctx, "stopping leaderboard service...")

		drainCtx, cancel := context.WithTimeout(ctx, drainTimeout)
		if err := s.pool.Shutdown(drainCtx); err != nil {
			s.logger.Warn(ctx, "submission queue not fully drained", logger.Error(err))
		}
		cancel()
		s.cancel()
		s.started = false
	}

	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	s.logger.Info(ctx, "leaderboard service stopped")
}

// AddSupportedGame puts gameID on the allow-list.
func (s *Service) AddSupportedGame(gameID string) error {
	if err := s.registry.Add(gameID); err != nil {
		return err
	}
	s.logger.Info(context.Background(), "game registered", logger.String("gameID", gameID))
	return nil
}

// SupportedGames returns the allow-list in ascending order.
func (s *Service) SupportedGames() []string {
	return s.registry.List()
}

// CreateCompetition opens a new competition for a supported game over
// [start, end].
func (s *Service) CreateCompetition(ctx context.Context, gameID string, start, end time.Time) (types.Competition, error) {
	if err := s.registry.Check(gameID); err != nil {
		return types.Competition{}, err
	}
	if !start.Before(end) {
		return types.Competition{}, fmt.Errorf("%w: start %s, end %s", ErrInvalidWindow, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	c, err := s.store.Create(ctx, gameID, start, end)
	if err != nil {
		return types.Competition{}, err
	}
	s.logger.Info(ctx, "competition created",
		logger.String("competitionID", c.ID),
		logger.String("gameID", gameID),
		logger.String("start", start.Format(time.RFC3339)),
		logger.String("end", end.Format(time.RFC3339)),
	)
	return s.describe(c), nil
}

// CreateCompetitionFor opens a competition starting now and lasting d, or the
// default duration when d is not positive.
func (s *Service) CreateCompetitionFor(ctx context.Context, gameID string, d time.Duration) (types.Competition, error) {
	if d <= 0 {
		d = s.defaultDuration
	}
	now := s.clock.Now()
	return s.CreateCompetition(ctx, gameID, now, now.Add(d))
}

// Competition describes one competition.
func (s *Service) Competition(ctx context.Context, id string) (types.Competition, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return types.Competition{}, err
	}
	return s.describe(c), nil
}

// Competitions lists the competitions of a game, or every competition when
// gameID is empty.
func (s *Service) Competitions(ctx context.Context, gameID string) []types.Competition {
	var cs []*repository.Competition
	if gameID == "" {
		cs = s.store.All(ctx)
	} else {
		cs = s.store.ForGame(ctx, gameID)
	}
	out := make([]types.Competition, 0, len(cs))
	for _, c := range cs {
		out = append(out, s.describe(c))
	}
	return out
}

// RetireCompetition drops a competition and its scores.
func (s *Service) RetireCompetition(ctx context.Context, id string) error {
	if err := s.store.Retire(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "competition retired", logger.String("competitionID", id))
	return nil
}

func (s *Service) describe(c *repository.Competition) types.Competition {
	return types.Competition{
		ID:     c.ID,
		GameID: c.GameID,
		Start:  c.Start,
		End:    c.End,
		Active: c.IsActive(s.clock.Now()),
		Users:  c.Index.Len(),
	}
}

// validate checks a submission before it reaches any index.
func (s *Service) validate(gameID, userID string, score int64) error {
	if err := s.registry.Check(gameID); err != nil {
		return err
	}
	if strings.TrimSpace(userID) == "" {
		return ErrMissingUserID
	}
	return s.validator.Validate(score)
}

// SubmitScore validates a score and records it in every competition of the
// game that is open now.
func (s *Service) SubmitScore(ctx context.Context, gameID, userID string, score int64) (types.SubmitResult, error) {
	metrics.RecordSubmissionReceived()
	if err := s.validate(gameID, userID, score); err != nil {
		metrics.RecordIndexUpdate(metrics.OutcomeRejected)
		return types.SubmitResult{}, err
	}

	open, improved := s.apply(ctx, model.Submission{
		GameID:     gameID,
		UserID:     userID,
		Score:      score,
		ReceivedAt: s.clock.Now(),
	})
	return types.SubmitResult{Open: open, Improved: improved}, nil
}

// Enqueue validates a submission and hands it to the worker pool. The
// submission is stamped on arrival, so the competitions it lands in are the
// ones open when it was received rather than when it is applied.
func (s *Service) Enqueue(ctx context.Context, sub model.Submission) error {
	metrics.RecordSubmissionReceived()
	if err := s.validate(sub.GameID, sub.UserID, sub.Score); err != nil {
		metrics.RecordIndexUpdate(metrics.OutcomeRejected)
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}

	if sub.ReceivedAt.IsZero() {
		sub.ReceivedAt = s.clock.Now()
	}
	if !s.queue.Enqueue(ctx, sub) {
		return fmt.Errorf("%w: capacity %d", ErrBackpressure, s.queue.Capacity())
	}
	return nil
}

// Apply implements worker.Applier.
func (s *Service) Apply(ctx context.Context, sub model.Submission) (int, error) {
	if err := s.registry.Check(sub.GameID); err != nil {
		return 0, err
	}
	_, improved := s.apply(ctx, sub)
	return improved, nil
}

func (s *Service) apply(ctx context.Context, sub model.Submission) (open, improved int) {
	start := time.Now()
	active := s.store.Active(ctx, sub.GameID, sub.ReceivedAt)
	for _, c := range active {
		if c.Index.Update(sub.UserID, sub.Score) {
			improved++
			metrics.RecordIndexUpdate(metrics.OutcomeImproved)
		} else {
			metrics.RecordIndexUpdate(metrics.OutcomeIgnored)
		}
	}
	metrics.RecordIndexUpdateLatency(metrics.SinceMs(start))

	s.logger.Debug(ctx, "score applied",
		logger.String("gameID", sub.GameID),
		logger.String("userID", sub.UserID),
		logger.Int64("score", sub.Score),
		logger.Int("open", len(active)),
		logger.Int("improved", improved),
	)
	return len(active), improved
}

func (s *Service) index(ctx context.Context, id string) (*ranking.Index, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.Index, nil
}

// Leaderboard returns every user of a competition in rank order.
func (s *Service) Leaderboard(ctx context.Context, id string) ([]types.Entry, error) {
	idx, err := s.index(ctx, id)
	if err != nil {
		return nil, err
	}
	return toEntries(idx.Standings()), nil
}

// Top returns the n best entries of a competition.
func (s *Service) Top(ctx context.Context, id string, n int) ([]types.Entry, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}
	idx, err := s.index(ctx, id)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	standings, err := idx.Top(n)
	metrics.RecordIndexQueryLatency(metrics.SinceMs(start))
	if err != nil {
		return nil, err
	}
	return toEntries(standings), nil
}

// Rank returns a user's entry in a competition.
func (s *Service) Rank(ctx context.Context, id, userID string) (types.Entry, error) {
	idx, err := s.index(ctx, id)
	if err != nil {
		return types.Entry{}, err
	}
	st, err := idx.Rank(userID)
	if err != nil {
		return types.Entry{}, err
	}
	return types.Entry{Rank: st.Rank, UserID: st.UserID, Score: st.Score}, nil
}

// Neighbors returns up to count users next to userID in a competition.
func (s *Service) Neighbors(ctx context.Context, id, userID string, dir ranking.Direction, count int) ([]types.Neighbor, error) {
	if count > s.maxNeighborCount {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrCountTooLarge, count, s.maxNeighborCount)
	}
	idx, err := s.index(ctx, id)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	users, err := ranking.Neighbors(idx, userID, dir, count)
	metrics.RecordIndexQueryLatency(metrics.SinceMs(start))
	if err != nil {
		return nil, err
	}
	metrics.RecordNeighborQuery(dir.String(), len(users))

	out := make([]types.Neighbor, len(users))
	for i, u := range users {
		out[i] = types.Neighbor{UserID: u.UserID, Score: u.Score}
	}
	return out, nil
}

// MaxNeighborCount returns the largest count accepted by Neighbors.
func (s *Service) MaxNeighborCount() int {
	return s.maxNeighborCount
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	now := s.clock.Now()
	all := s.store.All(ctx)
	open, users := 0, 0
	for _, c := range all {
		if c.IsActive(now) {
			open++
		}
		users += c.Index.Len()
	}

	stats := map[string]interface{}{
		"started":          s.started,
		"workerCount":      s.workerCount,
		"queueSize":        s.queueSize,
		"maxNeighborCount": s.maxNeighborCount,
		"supportedGames":   s.registry.List(),
		"competitions":     len(all),
		"openCompetitions": open,
		"usersTracked":     users,
	}
	if s.started {
		queueLen := s.queue.Len(ctx)
		stats["queueLength"] = queueLen
		metrics.UpdateQueueSize(queueLen)
	}
	metrics.UpdateCompetitions(len(all), open)
	metrics.UpdateUsersTracked(users)
	return stats
}

func toEntries(standings []ranking.Standing) []types.Entry {
	out := make([]types.Entry, len(standings))
	for i, st := range standings {
		out[i] = types.Entry{Rank: st.Rank, UserID: st.UserID, Score: st.Score}
	}
	return out
}
