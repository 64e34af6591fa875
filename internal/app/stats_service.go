package app

import (
	"context"
	"fmt"
)

// StatsService maintains cross-game statistics off the critical path of turn
// submission. Recompute runs from the background worker; Average is the read
// side served from the cache.
type StatsService struct {
	games GameRepository
	turns TurnRepository
	cache StatsCache
}

func NewStatsService(games GameRepository, turns TurnRepository, cache StatsCache) *StatsService {
	return &StatsService{games: games, turns: turns, cache: cache}
}

// Recompute scans every completed game and caches the average number of
// correct answers per game. With no completed games the cache is left alone.
func (s *StatsService) Recompute(ctx context.Context) (float64, error) {
	games, err := s.games.Completed(ctx)
	if err != nil {
		return 0, fmt.Errorf("list completed games: %w", err)
	}
	if len(games) == 0 {
		return 0, nil
	}

	correct := 0
	for _, game := range games {
		turns, err := s.turns.GetMany(ctx, game.TurnIDs)
		if err != nil {
			return 0, err
		}
		for _, turn := range turns {
			if turn.IsCorrect {
				correct++
			}
		}
	}

	avg := float64(correct) / float64(len(games))
	if err := s.cache.SetAverageCorrect(ctx, avg); err != nil {
		return 0, fmt.Errorf("cache average: %w", err)
	}
	return avg, nil
}

// Average returns the cached average correct answers per completed game. The
// bool reports whether a value has been computed yet.
func (s *StatsService) Average(ctx context.Context) (float64, bool, error) {
	return s.cache.AverageCorrect(ctx)
}
