package ranking

import (
	"fmt"
	"strings"
)

// Direction selects which side of a user a neighbor query walks.
type Direction int

const (
	// Lower walks the scores just below the user, highest first.
	Lower Direction = iota + 1
	// Higher walks the scores just above the user, closest first.
	Higher
)

func (d Direction) String() string {
	switch d {
	case Lower:
		return "lower"
	case Higher:
		return "higher"
	default:
		return "unknown"
	}
}

// ParseDirection accepts lower/below/next and higher/above/prev, case-insensitive.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lower", "below", "next":
		return Lower, nil
	case "higher", "above", "prev":
		return Higher, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

// Neighbors returns up to count users ranked right next to userID in the
// given direction. The user's own bucket is never part of the result.
//
// Lower yields descending scores starting just below the user. Higher yields
// ascending scores starting just above the user, so the closest competitor
// comes first. Ties inside a bucket are listed by ascending user id in both
// directions.
//
// A user without a score gets an empty result. A negative count is rejected
// with ErrInvalidCount.
func Neighbors(x *Index, userID string, dir Direction, count int) ([]UserScore, error) {
	if count < 0 {
		return nil, ErrInvalidCount
	}
	if dir != Lower && dir != Higher {
		return nil, ErrInvalidDirection
	}
	if count == 0 {
		return []UserScore{}, nil
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	score, ok := x.CurrentScore(userID)
	if !ok {
		return []UserScore{}, nil
	}
	node, found := x.buckets.Floor(score)
	if !found || node.Key.(int64) != score {
		return []UserScore{}, nil
	}

	out := make([]UserScore, 0, min(count, x.users))
	it := x.buckets.IteratorAt(node)
	step := it.Prev
	if dir == Higher {
		step = it.Next
	}
	for len(out) < count && step() {
		s := it.Key().(int64)
		for _, u := range it.Value().(*bucket).users {
			if len(out) == count {
				break
			}
			out = append(out, UserScore{UserID: u, Score: s})
		}
	}
	return out, nil
}
