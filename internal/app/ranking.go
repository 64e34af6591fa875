package app

import (
	"context"
	"math"
	"sort"

	"trivia-service/internal/domain"
)

// RankValue computes the leaderboard metric for one ledger row:
// round(10 * score * accuracy) - clues_used. A user who has not answered
// anything yet has no accuracy and ranks at zero rather than dividing by
// zero.
func RankValue(score domain.Score) float64 {
	answered := score.NumCorrect + score.NumIncorrect
	if answered == 0 {
		return 0
	}
	accuracy := float64(score.NumCorrect) / float64(answered)
	return math.Round(10*float64(score.Score)*accuracy) - float64(score.CluesUsed)
}

// Rankings builds the public leaderboard from every score row, ordered by
// rank value descending. Ties keep the ledger order (raw score descending,
// fewer clues first).
func (s *GameService) Rankings(ctx context.Context) ([]domain.RankEntry, error) {
	scores, err := s.scores.List(ctx, 0)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.RankEntry, 0, len(scores))
	for _, score := range scores {
		user, err := s.users.ByID(ctx, score.UserID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, domain.RankEntry{
			Name:    user.Name,
			Ranking: RankValue(score),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Ranking > entries[j].Ranking
	})
	return entries, nil
}

// HighScores returns raw score rows ordered by total score, optionally
// limited. This is the raw board; Rankings is the clue-penalized one.
func (s *GameService) HighScores(ctx context.Context, limit int) ([]domain.ScoreView, error) {
	scores, err := s.scores.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	views := make([]domain.ScoreView, 0, len(scores))
	for _, score := range scores {
		user, err := s.users.ByID(ctx, score.UserID)
		if err != nil {
			return nil, err
		}
		views = append(views, domain.ScoreView{UserName: user.Name, Score: score.Score})
	}
	return views, nil
}

// UserScore returns the named user's ledger row.
func (s *GameService) UserScore(ctx context.Context, userName string) (domain.ScoreView, error) {
	user, err := s.users.ByName(ctx, userName)
	if err != nil {
		return domain.ScoreView{}, err
	}
	score, err := s.scores.Get(ctx, user.ID)
	if err != nil {
		return domain.ScoreView{}, err
	}
	return domain.ScoreView{UserName: user.Name, Score: score.Score}, nil
}
