// Package ranking holds the per-competition rank index and the neighbor
// pagination built on top of it.
//
// Ordering: score DESC, then userID ASC (deterministic). Scores are kept in a
// red-black tree keyed by score; each node holds the bucket of users currently
// sitting on that score. A single RWMutex per index guards the score mapping
// and the tree together, so an update is never observed half-applied.
package ranking

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/emirpasic/gods/utils"
)

// UserScore is one user's live score in an index.
type UserScore struct {
	UserID string `json:"user_id"`
	Score  int64  `json:"score"`
}

// Bucket is a read-only copy of the users holding one score.
type Bucket struct {
	Score int64
	Users []string
}

// Standing is a user's position in the index. Users on the same score share
// a rank and the next distinct score takes the following rank (dense ranking).
type Standing struct {
	Rank   int    `json:"rank"`
	UserID string `json:"user_id"`
	Score  int64  `json:"score"`
}

// Index owns the score data of one competition instance.
type Index struct {
	id     string
	gameID string

	mu sync.RWMutex
	// scores maps userID -> *atomic.Int64. Entries are created and stored
	// only while mu is held for writing; CurrentScore reads them lock-free.
	scores  sync.Map
	buckets *redblacktree.Tree // int64 score -> *bucket, ascending
	users   int
}

// NewIndex builds an empty index for the competition id of the given game.
func NewIndex(id, gameID string) (*Index, error) {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(gameID) == "" {
		return nil, ErrMissingIdentity
	}
	return &Index{
		id:      id,
		gameID:  gameID,
		buckets: redblacktree.NewWith(utils.Int64Comparator),
	}, nil
}

// ID returns the competition instance identifier.
func (x *Index) ID() string { return x.id }

// GameID returns the game the competition belongs to.
func (x *Index) GameID() string { return x.gameID }

// Update records candidate as the user's score if the user has none yet or
// candidate is strictly greater than the current one. It reports whether the
// index changed; a non-improving submission is not an error.
func (x *Index) Update(userID string, candidate int64) bool {
	x.mu.Lock()
	defer x.mu.Unlock()

	if v, ok := x.scores.Load(userID); ok {
		current := v.(*atomic.Int64)
		old := current.Load()
		if candidate <= old {
			return false
		}
		x.detach(userID, old)
		current.Store(candidate)
	} else {
		slot := new(atomic.Int64)
		slot.Store(candidate)
		x.scores.Store(userID, slot)
		x.users++
	}
	x.attach(userID, candidate)
	return true
}

// attach inserts userID into the bucket for score. Caller holds mu.
func (x *Index) attach(userID string, score int64) {
	if v, found := x.buckets.Get(score); found {
		v.(*bucket).add(userID)
		return
	}
	b := &bucket{}
	b.add(userID)
	x.buckets.Put(score, b)
}

// detach removes userID from the bucket for score and drops the bucket once
// empty. Caller holds mu.
func (x *Index) detach(userID string, score int64) {
	v, found := x.buckets.Get(score)
	if !found {
		return
	}
	b := v.(*bucket)
	b.remove(userID)
	if b.empty() {
		x.buckets.Remove(score)
	}
}

// CurrentScore returns the user's score, or false if the user never
// submitted. It takes no lock.
func (x *Index) CurrentScore(userID string) (int64, bool) {
	v, ok := x.scores.Load(userID)
	if !ok {
		return 0, false
	}
	return v.(*atomic.Int64).Load(), true
}

// Len returns the number of users with a recorded score.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.users
}

// BucketCount returns the number of distinct scores currently held.
func (x *Index) BucketCount() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.buckets.Size()
}

// OrderedView returns every bucket in strictly descending score order.
func (x *Index) OrderedView() []Bucket {
	x.mu.RLock()
	defer x.mu.RUnlock()

	out := make([]Bucket, 0, x.buckets.Size())
	it := x.buckets.Iterator()
	it.End()
	for it.Prev() {
		out = append(out, Bucket{
			Score: it.Key().(int64),
			Users: it.Value().(*bucket).snapshot(),
		})
	}
	return out
}

// Scores returns a copy of the userID -> score mapping.
func (x *Index) Scores() map[string]int64 {
	x.mu.RLock()
	defer x.mu.RUnlock()

	out := make(map[string]int64, x.users)
	x.scores.Range(func(k, v any) bool {
		out[k.(string)] = v.(*atomic.Int64).Load()
		return true
	})
	return out
}

// Top returns up to n standings from the best score down.
func (x *Index) Top(n int) ([]Standing, error) {
	if n < 0 {
		return nil, ErrInvalidCount
	}
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.top(n), nil
}

// Standings returns every user in rank order.
func (x *Index) Standings() []Standing {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.top(x.users)
}

// top walks the tree from the best score down. Caller holds mu.
func (x *Index) top(n int) []Standing {
	out := make([]Standing, 0, min(n, x.users))
	rank := 0
	it := x.buckets.Iterator()
	it.End()
	for len(out) < n && it.Prev() {
		rank++
		score := it.Key().(int64)
		for _, u := range it.Value().(*bucket).users {
			if len(out) == n {
				break
			}
			out = append(out, Standing{Rank: rank, UserID: u, Score: score})
		}
	}
	return out
}

// Rank returns the user's standing or ErrUnknownUser.
func (x *Index) Rank(userID string) (Standing, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	score, ok := x.CurrentScore(userID)
	if !ok {
		return Standing{}, ErrUnknownUser
	}
	node, found := x.buckets.Floor(score)
	if !found {
		return Standing{}, ErrUnknownUser
	}
	rank := 1
	it := x.buckets.IteratorAt(node)
	for it.Next() {
		rank++
	}
	return Standing{Rank: rank, UserID: userID, Score: score}, nil
}
