// Package demo drives an in-process leaderboard service: a scripted scenario
// followed by an optional concurrent load phase whose outcome is verified.
package demo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	app "github.com/okian/podium/internal/app"
	"github.com/okian/podium/internal/domain/types"
	"github.com/okian/podium/pkg/logger"
)

// ErrInvalidConfig is returned for demo settings that cannot run.
var ErrInvalidConfig = errors.New("invalid demo config")

const topDisplay = 10

// Run executes the scenario and, when Submissions is positive, the load phase.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if err := normalize(cfg); err != nil {
		return nil, err
	}
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting podium demo",
		logger.Int("users", cfg.Users),
		logger.Int("submissions", cfg.Submissions),
		logger.Int("workers", cfg.Workers),
		logger.Float64("userRate", cfg.UserRate),
		logger.Int64("seed", cfg.Seed),
		logger.Bool("verbose", cfg.Verbose))

	svc := app.New(
		app.WithLogger(logger.Get().Named("service")),
		app.WithQueueSize(cfg.QueueSize),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	// Step 1: scripted scenario
	if _, err := RunScenario(ctx, svc, cfg.Out); err != nil {
		return nil, fmt.Errorf("scenario failed: %w", err)
	}
	if cfg.Submissions == 0 {
		return finish(stats), nil
	}

	// Step 2: generate the load
	if err := svc.AddSupportedGame(LoadGame); err != nil {
		return nil, fmt.Errorf("add load game: %w", err)
	}
	comp, err := svc.CreateCompetitionFor(ctx, LoadGame, CompetitionLength)
	if err != nil {
		return nil, fmt.Errorf("create load competition: %w", err)
	}
	subs, best := generateSubmissions(cfg)
	stats.SubmissionsGenerated = len(subs)

	// Step 3: submit concurrently
	if err := submitLoad(ctx, svc, cfg, subs, stats); err != nil {
		return nil, fmt.Errorf("load phase failed: %w", err)
	}

	// Step 4: drain the queue
	svc.Stop()

	// Step 5: verify
	if err := verifyResults(ctx, svc, comp.ID, best, stats); err != nil {
		return nil, err
	}
	board, err := svc.Leaderboard(ctx, comp.ID)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	n := topDisplay
	if cfg.Verbose {
		n = len(board)
	}
	printTop(cfg.Out, board, n)

	return finish(stats), nil
}

func normalize(cfg *Config) error {
	if cfg.Submissions < 0 {
		return fmt.Errorf("%w: submissions must not be negative", ErrInvalidConfig)
	}
	if cfg.Submissions > 0 && cfg.Users < 1 {
		return fmt.Errorf("%w: load phase needs at least one user", ErrInvalidConfig)
	}
	if cfg.UserRate < 0 {
		return fmt.Errorf("%w: user rate must not be negative", ErrInvalidConfig)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Out == nil {
		cfg.Out = io.Discard
	}
	return nil
}

func finish(stats *Stats) *Stats {
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)
	return stats
}

func printTop(out io.Writer, board []types.Entry, n int) {
	n = min(n, len(board))
	fmt.Fprintf(out, "\nTop %d of %d load users:\n", n, len(board))
	for _, e := range board[:n] {
		fmt.Fprintf(out, "%d. %s: %d\n", e.Rank, e.UserID, e.Score)
	}
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(stats *Stats) {
	var acceptRate, perSecond float64
	if stats.SubmissionsGenerated > 0 {
		acceptRate = float64(stats.SubmissionsQueued) / float64(stats.SubmissionsGenerated) * percentageMultiplier
	}
	if stats.Duration > 0 {
		perSecond = float64(stats.SubmissionsQueued) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("submissionsGenerated", stats.SubmissionsGenerated),
		logger.Int("submissionsQueued", stats.SubmissionsQueued),
		logger.Int("submissionsRejected", stats.SubmissionsRejected),
		logger.Int("backpressureRetries", stats.BackpressureRetries),
		logger.String("rateLimitWaits", stats.RateLimitWaits.String()),
		logger.Int("usersVerified", stats.UsersVerified),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("acceptRate", acceptRate),
		logger.Float64("submissionsPerSecond", perSecond))
}
