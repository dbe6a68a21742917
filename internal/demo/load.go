package demo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/podium/internal/adapters/http/ratelimit"
	app "github.com/okian/podium/internal/app"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/pkg/logger"
)

// submitLoad pushes subs through the asynchronous pipeline with a pool of
// submitters. Each user is paced by limiter and full queues are retried
// until ctx is done.
func submitLoad(ctx context.Context, svc *app.Service, cfg *Config, subs []submission, stats *Stats) error {
	limiter := ratelimit.New(cfg.UserRate, 1)
	defer limiter.Stop()

	log := logger.Get().Named("load")
	log.Info(ctx, "submitting scores",
		logger.Int("submissions", len(subs)),
		logger.Int("workers", cfg.Workers))

	var (
		queued       int64
		rejected     int64
		backpressure int64
		waited       int64
	)
	step := int64(max(len(subs)/progressSteps, 1))

	subChan := make(chan submission, cfg.Workers*workerChannelMultiple)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range subChan {
				before := time.Now()
				if err := limiter.Wait(ctx, s.UserID); err != nil {
					return
				}
				atomic.AddInt64(&waited, int64(time.Since(before)))
				err := enqueueWithRetry(ctx, svc, s, &backpressure)
				switch {
				case err == nil:
					if n := atomic.AddInt64(&queued, 1); cfg.Verbose && n%step == 0 {
						log.Info(ctx, "progress",
							logger.Int64("queued", n),
							logger.Int("total", len(subs)))
					}
				case ctx.Err() != nil:
					return
				default:
					atomic.AddInt64(&rejected, 1)
					log.Warn(ctx, "submission rejected",
						logger.String("userID", s.UserID),
						logger.Error(err))
				}
			}
		}()
	}

	go func() {
		defer close(subChan)
		for _, s := range subs {
			select {
			case <-ctx.Done():
				return
			case subChan <- s:
			}
		}
	}()

	wg.Wait()

	stats.SubmissionsQueued = int(atomic.LoadInt64(&queued))
	stats.SubmissionsRejected = int(atomic.LoadInt64(&rejected))
	stats.BackpressureRetries = int(atomic.LoadInt64(&backpressure))
	stats.RateLimitWaits = time.Duration(atomic.LoadInt64(&waited))

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("load interrupted after %d submissions: %w", stats.SubmissionsQueued, err)
	}
	log.Info(ctx, "score submission completed",
		logger.Int("queued", stats.SubmissionsQueued),
		logger.Int("rejected", stats.SubmissionsRejected),
		logger.Int("backpressureRetries", stats.BackpressureRetries),
		logger.String("rateLimitWaits", stats.RateLimitWaits.String()))
	return nil
}

func enqueueWithRetry(ctx context.Context, svc *app.Service, s submission, retries *int64) error {
	sub := model.Submission{GameID: LoadGame, UserID: s.UserID, Score: s.Score}
	for {
		err := svc.Enqueue(ctx, sub)
		if !errors.Is(err, app.ErrBackpressure) {
			return err
		}
		atomic.AddInt64(retries, 1)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backpressureWait):
		}
	}
}
