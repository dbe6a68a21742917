// Package games keeps the allow-list of games that may own competitions.
package games

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Registry is a concurrency-safe set of supported game ids.
type Registry struct {
	mu    sync.RWMutex
	games map[string]struct{}
}

// NewRegistry creates a registry pre-populated with ids. Blank ids are skipped.
func NewRegistry(ids ...string) *Registry {
	r := &Registry{games: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		_ = r.Add(id)
	}
	return r
}

// Add marks gameID as supported. Adding an existing id is a no-op.
func (r *Registry) Add(gameID string) error {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return ErrEmptyGameID
	}
	r.mu.Lock()
	r.games[gameID] = struct{}{}
	r.mu.Unlock()
	return nil
}

// Supported reports whether gameID is on the allow-list.
func (r *Registry) Supported(gameID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.games[gameID]
	return ok
}

// Check returns a wrapped ErrGameNotSupported for unknown games.
func (r *Registry) Check(gameID string) error {
	if !r.Supported(gameID) {
		return fmt.Errorf("%w: %s", ErrGameNotSupported, gameID)
	}
	return nil
}

// List returns the supported ids in ascending order.
func (r *Registry) List() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.games))
	for id := range r.games {
		out = append(out, id)
	}
	r.mu.RUnlock()
	slices.Sort(out)
	return out
}
