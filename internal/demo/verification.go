package demo

import (
	"context"
	"errors"
	"fmt"
	"sort"

	app "github.com/okian/podium/internal/app"
	"github.com/okian/podium/internal/domain/ranking"
	"github.com/okian/podium/internal/domain/types"
	"github.com/okian/podium/pkg/logger"
)

// ErrVerification is returned when the load leaderboard disagrees with the
// generated submissions.
var ErrVerification = errors.New("verification failed")

const neighborSample = 50

// verifyResults checks that every user holds their maximum submission, that
// the leaderboard is ordered with dense ranks, and that neighbor queries stay
// on their side of the user.
func verifyResults(ctx context.Context, svc *app.Service, compID string, best map[string]int64, stats *Stats) error {
	logger.Get().Info(ctx, "verifying results", logger.Int("users", len(best)))

	board, err := svc.Leaderboard(ctx, compID)
	if err != nil {
		return fmt.Errorf("leaderboard: %w", err)
	}
	stats.LeaderboardEntries = len(board)

	if len(board) != len(best) {
		return fmt.Errorf("%w: leaderboard has %d users, expected %d", ErrVerification, len(board), len(best))
	}
	if err := verifyOrdering(board); err != nil {
		return err
	}
	for _, e := range board {
		want, ok := best[e.UserID]
		if !ok {
			return fmt.Errorf("%w: unexpected user %s", ErrVerification, e.UserID)
		}
		if e.Score != want {
			return fmt.Errorf("%w: %s holds %d, best submission was %d", ErrVerification, e.UserID, e.Score, want)
		}
		stats.UsersVerified++
	}

	users := make([]string, 0, len(best))
	for u := range best {
		users = append(users, u)
	}
	sort.Strings(users)
	for _, u := range users[:min(len(users), neighborSample)] {
		if err := verifyNeighbors(ctx, svc, compID, u, best[u]); err != nil {
			return err
		}
	}

	logger.Get().Info(ctx, "result verification completed", logger.Int("usersVerified", stats.UsersVerified))
	return nil
}

// verifyOrdering checks descending scores, dense ranks and ascending user
// ids inside a tie.
func verifyOrdering(board []types.Entry) error {
	for i, e := range board {
		if i == 0 {
			if e.Rank != 1 {
				return fmt.Errorf("%w: first rank is %d", ErrVerification, e.Rank)
			}
			continue
		}
		prev := board[i-1]
		switch {
		case e.Score > prev.Score:
			return fmt.Errorf("%w: %s (%d) listed after %s (%d)", ErrVerification, e.UserID, e.Score, prev.UserID, prev.Score)
		case e.Score == prev.Score:
			if e.Rank != prev.Rank || e.UserID <= prev.UserID {
				return fmt.Errorf("%w: tie at %d breaks order between %s and %s", ErrVerification, e.Score, prev.UserID, e.UserID)
			}
		default:
			if e.Rank != prev.Rank+1 {
				return fmt.Errorf("%w: rank jumps from %d to %d", ErrVerification, prev.Rank, e.Rank)
			}
		}
	}
	return nil
}

func verifyNeighbors(ctx context.Context, svc *app.Service, compID, userID string, own int64) error {
	lower, err := svc.Neighbors(ctx, compID, userID, ranking.Lower, NeighborCount)
	if err != nil {
		return fmt.Errorf("lower neighbors of %s: %w", userID, err)
	}
	for i, n := range lower {
		if n.Score >= own || (i > 0 && n.Score > lower[i-1].Score) {
			return fmt.Errorf("%w: lower neighbor %s (%d) of %s (%d) out of order", ErrVerification, n.UserID, n.Score, userID, own)
		}
	}

	higher, err := svc.Neighbors(ctx, compID, userID, ranking.Higher, NeighborCount)
	if err != nil {
		return fmt.Errorf("higher neighbors of %s: %w", userID, err)
	}
	for i, n := range higher {
		if n.Score <= own || (i > 0 && n.Score < higher[i-1].Score) {
			return fmt.Errorf("%w: higher neighbor %s (%d) of %s (%d) out of order", ErrVerification, n.UserID, n.Score, userID, own)
		}
	}
	return nil
}
