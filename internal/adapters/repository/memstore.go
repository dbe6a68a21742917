package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/podium/internal/domain/clock"
	"github.com/okian/podium/internal/domain/ranking"
	"github.com/okian/podium/pkg/metrics"
)

// MemoryStore is an in-process Store guarded by a single RWMutex.
type MemoryStore struct {
	mu     sync.RWMutex
	byID   map[string]*Competition
	byGame map[string][]string

	clock                 clock.Clock
	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty store and starts its metrics updater,
// which runs until Close is called or ctx is done.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		byID:                  make(map[string]*Competition),
		byGame:                make(map[string][]string),
		clock:                 clock.System(),
		metricsUpdateInterval: metrics.RefreshInterval(),
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.startMetricsUpdater(ctx)
	return s
}

// Create implements Store.Create.
func (s *MemoryStore) Create(_ context.Context, gameID string, start, end time.Time) (*Competition, error) {
	if strings.TrimSpace(gameID) == "" {
		return nil, ErrInvalidGame
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: start %s, end %s", ErrInvalidWindow, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	id := uuid.NewString()
	idx, err := ranking.NewIndex(id, gameID)
	if err != nil {
		return nil, err
	}
	c := &Competition{ID: id, GameID: gameID, Start: start, End: end, Index: idx}

	s.mu.Lock()
	s.byID[id] = c
	s.byGame[gameID] = append(s.byGame[gameID], id)
	s.mu.Unlock()

	metrics.RecordCompetitionCreated()
	return c, nil
}

// Get implements Store.Get.
func (s *MemoryStore) Get(_ context.Context, id string) (*Competition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

// ForGame implements Store.ForGame.
func (s *MemoryStore) ForGame(_ context.Context, gameID string) []*Competition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byGame[gameID]
	out := make([]*Competition, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.byID[id])
	}
	sortByStart(out)
	return out
}

// Active implements Store.Active.
func (s *MemoryStore) Active(ctx context.Context, gameID string, at time.Time) []*Competition {
	all := s.ForGame(ctx, gameID)
	out := all[:0]
	for _, c := range all {
		if c.IsActive(at) {
			out = append(out, c)
		}
	}
	return out
}

// All implements Store.All.
func (s *MemoryStore) All(_ context.Context) []*Competition {
	s.mu.RLock()
	out := make([]*Competition, 0, len(s.byID))
	for _, c := range s.byID {
		out = append(out, c)
	}
	s.mu.RUnlock()

	sortByStart(out)
	return out
}

// Retire implements Store.Retire.
func (s *MemoryStore) Retire(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	ids := slices.DeleteFunc(s.byGame[c.GameID], func(v string) bool { return v == id })
	if len(ids) == 0 {
		delete(s.byGame, c.GameID)
	} else {
		s.byGame[c.GameID] = ids
	}

	metrics.RecordCompetitionRetired()
	return nil
}

// Count implements Store.Count.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Close stops the metrics updater and waits for it to exit.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

// startMetricsUpdater starts a background goroutine that updates store metrics.
func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

// updateMetrics publishes competition and tracked-user gauges.
func (s *MemoryStore) updateMetrics() {
	now := s.clock.Now()

	s.mu.RLock()
	total, open, users := len(s.byID), 0, 0
	for _, c := range s.byID {
		if c.IsActive(now) {
			open++
		}
		users += c.Index.Len()
	}
	s.mu.RUnlock()

	metrics.UpdateCompetitions(total, open)
	metrics.UpdateUsersTracked(users)
}

func sortByStart(cs []*Competition) {
	slices.SortFunc(cs, func(a, b *Competition) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
