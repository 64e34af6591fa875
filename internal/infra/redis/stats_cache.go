package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const averageCorrectKey = "stats:average-correct-per-game"

// StatsCache holds derived cross-game statistics in Redis so every instance
// serves the same figure.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

func (c *StatsCache) SetAverageCorrect(ctx context.Context, avg float64) error {
	return c.client.Set(ctx, averageCorrectKey, strconv.FormatFloat(avg, 'f', -1, 64), c.ttl).Err()
}

func (c *StatsCache) AverageCorrect(ctx context.Context) (float64, bool, error) {
	raw, err := c.client.Get(ctx, averageCorrectKey).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	avg, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, err
	}
	return avg, true, nil
}
