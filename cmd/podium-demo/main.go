// Command podium-demo replays the leaderboard walkthrough against an
// in-process service and optionally verifies it under concurrent load.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/okian/podium/internal/demo"
	"github.com/okian/podium/pkg/logger"
)

// Default configuration constants.
const (
	defaultUsers       = 1000
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultQueueSize   = 1024
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		users       = pflag.IntP("users", "u", defaultUsers, "distinct users in the load phase")
		submissions = pflag.IntP("submissions", "n", 0, "scores submitted in the load phase, 0 runs the scenario only")
		workers     = pflag.IntP("workers", "w", runtime.NumCPU()*defaultWorkers, "concurrent submitters")
		queueSize   = pflag.Int("queue-size", defaultQueueSize, "capacity of the submission queue")
		userRate    = pflag.Float64("user-rate", 0, "per-user submissions per second, 0 is unlimited")
		seed        = pflag.Int64("seed", time.Now().UnixNano(), "seed for generated scores")
		logFormat   = pflag.String("log-format", "text", "log encoding: text or json")
		logLevel    = pflag.String("log-level", "warn", "log level: debug, info, warn or error")
		verbose     = pflag.BoolP("verbose", "v", false, "log progress and print the full load leaderboard")
	)
	pflag.Parse()

	if err := logger.Init(logger.WithFormat(*logFormat), logger.WithWriter(os.Stderr)); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	level := *logLevel
	if *verbose {
		level = "info"
	}
	if err := logger.SetLevelString(level); err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, defaultTestTimeout)
	defer cancelTimeout()

	cfg := &demo.Config{
		Users:       *users,
		Submissions: *submissions,
		Workers:     *workers,
		QueueSize:   *queueSize,
		UserRate:    *userRate,
		Seed:        *seed,
		Verbose:     *verbose,
		Out:         os.Stdout,
	}

	if _, err := demo.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "demo failed", logger.Error(err))
		cancelTimeout()
		cancel()
		os.Exit(1)
	}
}
