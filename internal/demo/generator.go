package demo

import (
	"fmt"
	"math/rand"
)

// generateSubmissions builds the load phase scores and the best score each
// user is expected to end with.
func generateSubmissions(cfg *Config) ([]submission, map[string]int64) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	subs := make([]submission, cfg.Submissions)
	best := make(map[string]int64, cfg.Users)

	for i := range subs {
		s := submission{
			UserID: userName(rng.Intn(cfg.Users)),
			Score:  rng.Int63n(maxLoadScore),
		}
		subs[i] = s
		if cur, ok := best[s.UserID]; !ok || s.Score > cur {
			best[s.UserID] = s.Score
		}
	}
	return subs, best
}

func userName(i int) string {
	return fmt.Sprintf("player-%05d", i)
}
