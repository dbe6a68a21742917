package demo

import (
	"context"
	"fmt"
	"io"

	app "github.com/okian/podium/internal/app"
	"github.com/okian/podium/internal/domain/ranking"
	"github.com/okian/podium/internal/domain/types"
	"github.com/okian/podium/pkg/logger"
)

// ScenarioResult is what the scripted scenario observed.
type ScenarioResult struct {
	CompetitionID string
	Leaderboard   []types.Entry
	Higher        []types.Neighbor
	Lower         []types.Neighbor
	// SecondaryOpen is the number of open competitions a CRICKET score landed in.
	SecondaryOpen int
}

// scenarioScores is the scripted submission sequence for PUBG_MOBILE.
var scenarioScores = []submission{
	{UserID: "user1", Score: 1000},
	{UserID: "user2", Score: 2000},
	{UserID: "user3", Score: 1500},
	{UserID: "user1", Score: 2500},
	{UserID: "user2", Score: 1800}, // lower than user2's 2000, ignored
}

// RunScenario registers two games, opens one PUBG_MOBILE competition, replays
// the scripted scores and prints the leaderboard and the players around user2.
func RunScenario(ctx context.Context, svc *app.Service, out io.Writer) (*ScenarioResult, error) {
	log := logger.Get().Named("scenario")

	for _, g := range []string{ScenarioGame, SecondaryGame} {
		if err := svc.AddSupportedGame(g); err != nil {
			return nil, fmt.Errorf("add game %s: %w", g, err)
		}
	}

	comp, err := svc.CreateCompetitionFor(ctx, ScenarioGame, CompetitionLength)
	if err != nil {
		return nil, fmt.Errorf("create competition: %w", err)
	}
	log.Info(ctx, "competition opened",
		logger.String("competitionID", comp.ID),
		logger.String("gameID", comp.GameID),
		logger.String("end", comp.End.String()))

	for _, s := range scenarioScores {
		res, err := svc.SubmitScore(ctx, ScenarioGame, s.UserID, s.Score)
		if err != nil {
			return nil, fmt.Errorf("submit %s=%d: %w", s.UserID, s.Score, err)
		}
		log.Debug(ctx, "scenario score submitted",
			logger.String("userID", s.UserID),
			logger.Int64("score", s.Score),
			logger.Int("improved", res.Improved))
	}

	// CRICKET is supported but has no competition, so the score lands nowhere.
	cricket, err := svc.SubmitScore(ctx, SecondaryGame, "user1", 300)
	if err != nil {
		return nil, fmt.Errorf("submit cricket score: %w", err)
	}

	result := &ScenarioResult{CompetitionID: comp.ID, SecondaryOpen: cricket.Open}
	if result.Leaderboard, err = svc.Leaderboard(ctx, comp.ID); err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	if result.Higher, err = svc.Neighbors(ctx, comp.ID, "user2", ranking.Higher, NeighborCount); err != nil {
		return nil, fmt.Errorf("higher neighbors: %w", err)
	}
	if result.Lower, err = svc.Neighbors(ctx, comp.ID, "user2", ranking.Lower, NeighborCount); err != nil {
		return nil, fmt.Errorf("lower neighbors: %w", err)
	}

	printScenario(out, result)
	return result, nil
}

func printScenario(out io.Writer, r *ScenarioResult) {
	fmt.Fprintln(out, "Full Leaderboard:")
	for _, e := range r.Leaderboard {
		fmt.Fprintf(out, "%d. %s: %d\n", e.Rank, e.UserID, e.Score)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Players around user2:")
	fmt.Fprintln(out, "Higher players:")
	for _, n := range r.Higher {
		fmt.Fprintf(out, "%s: %d\n", n.UserID, n.Score)
	}
	fmt.Fprintln(out, "Lower players:")
	for _, n := range r.Lower {
		fmt.Fprintf(out, "%s: %d\n", n.UserID, n.Score)
	}
	fmt.Fprintf(out, "\n%s score landed in %d open competitions\n", SecondaryGame, r.SecondaryOpen)
}
