// Package repository keeps the competition instances of every game and
// decides which of them are open at a given instant.
package repository

import (
	"context"
	"time"

	"github.com/okian/podium/internal/domain/ranking"
)

// Competition is one time-boxed leaderboard instance of a game.
type Competition struct {
	ID     string
	GameID string
	Start  time.Time
	End    time.Time
	Index  *ranking.Index
}

// IsActive reports whether at lies inside [Start, End], bounds included.
func (c *Competition) IsActive(at time.Time) bool {
	return !at.Before(c.Start) && !at.After(c.End)
}

// Store provides lifecycle access to competitions.
type Store interface {
	// Create registers a new competition with a fresh id and an empty index.
	// Returns ErrInvalidWindow unless start is before end.
	Create(ctx context.Context, gameID string, start, end time.Time) (*Competition, error)

	// Get returns the competition or ErrNotFound.
	Get(ctx context.Context, id string) (*Competition, error)

	// ForGame returns every competition of a game, oldest start first.
	ForGame(ctx context.Context, gameID string) []*Competition

	// Active returns the competitions of a game open at the given instant.
	Active(ctx context.Context, gameID string, at time.Time) []*Competition

	// All returns every competition, oldest start first.
	All(ctx context.Context) []*Competition

	// Retire drops a competition. Returns ErrNotFound if it is unknown.
	Retire(ctx context.Context, id string) error

	// Count returns the number of competitions held.
	Count(ctx context.Context) int
}
